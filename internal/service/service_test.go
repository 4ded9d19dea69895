package service

import (
	"context"
	"testing"

	"backoffice/internal/authctx"
	"backoffice/internal/model"
	"backoffice/internal/obs"
	"backoffice/internal/permission"
	"backoffice/internal/repository"
	"backoffice/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const validPassword = "Secret#123"

type testEnv struct {
	db            *gorm.DB
	repos         *repository.Repositories
	perms         map[string]model.Permission
	metrics       *obs.Metrics
	permissions   PermissionService
	employees     EmployeeService
	groups        GroupService
	categories    CategoryService
	subCategories SubCategoryService
	audit         AuditService
	statistics    StatisticsService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.NewDB(t)
	repos := repository.NewRepositories(db)
	metrics := obs.NewMetrics()
	perms := NewPermissionService(repos.Permissions, permission.NewCatalog(permission.Registry, "en"), permission.Registry)
	require.NoError(t, perms.Sync(context.Background()))

	all, err := repos.Permissions.ListAll(context.Background())
	require.NoError(t, err)
	byCode := make(map[string]model.Permission, len(all))
	for _, p := range all {
		byCode[p.Codename] = p
	}

	return &testEnv{
		db:            db,
		repos:         repos,
		perms:         byCode,
		metrics:       metrics,
		permissions:   perms,
		employees:     NewEmployeeService(repos, perms, metrics, bcrypt.MinCost),
		groups:        NewGroupService(repos, perms, metrics),
		categories:    NewCategoryService(repos, metrics),
		subCategories: NewSubCategoryService(repos, metrics),
		audit:         NewAuditService(repos.Audit),
		statistics:    NewStatisticsService(repos.Statistics),
	}
}

func (e *testEnv) ids(codenames ...string) []string {
	out := make([]string, len(codenames))
	for i, c := range codenames {
		out[i] = e.perms[c].ID.String()
	}
	return out
}

func (e *testEnv) count(t *testing.T, m any, where ...any) int64 {
	t.Helper()
	var n int64
	q := e.db.Model(m)
	if len(where) > 0 {
		q = q.Where(where[0], where[1:]...)
	}
	require.NoError(t, q.Count(&n).Error)
	return n
}

// asActor returns a context authenticated as a fresh superuser account.
func (e *testEnv) asActor(t *testing.T) (context.Context, *model.Account) {
	t.Helper()
	actor := testutil.CreateAccount(t, e.db, uuid.NewString()+"@staff.test")
	return authctx.With(context.Background(), &authctx.Identity{AccountID: actor.ID, IsSuperuser: true}), actor
}

func employeeRequest(email, reference string) CreateEmployeeRequest {
	return CreateEmployeeRequest{
		Email:       email,
		FirstName:   "Ana",
		LastName:    "García",
		Password1:   validPassword,
		Password2:   validPassword,
		Reference:   reference,
		Address:     "Av. Juárez 10",
		Birthdate:   "1990-05-17",
		PhoneNumber: "5551234567",
	}
}

func codenames(perms []model.Permission) []string {
	out := make([]string, len(perms))
	for i, p := range perms {
		out[i] = p.Codename
	}
	return out
}
