package service

import (
	"context"
	"testing"
	"time"

	"backoffice/internal/apperr"
	"backoffice/internal/config"
	"backoffice/internal/model"
	"backoffice/internal/session"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAuthService(env *testEnv) *authService {
	cfg := config.AuthConfig{JWTSecret: "test-secret", SessionTTLHours: 1, BcryptCost: bcrypt.MinCost}
	return NewAuthService(env.repos, session.NewDBStore(env.repos.Sessions), cfg, env.metrics).(*authService)
}

func TestAuthService_LoginAuthenticateLogout(t *testing.T) {
	env := newTestEnv(t)
	auth := newAuthService(env)
	ctx := context.Background()

	g, err := env.groups.Create(ctx, GroupRequest{Name: "Advisors", PermissionIDs: env.ids("view_category")})
	require.NoError(t, err)
	req := employeeRequest("ana@example.com", "AB1234")
	req.GroupID = &g.ID
	_, err = env.employees.Create(ctx, req)
	require.NoError(t, err)

	res, err := auth.Login(ctx, LoginRequest{Email: "ANA@example.com", Password: validPassword})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, []string{"view_category"}, res.Me.Permissions)
	require.NotNil(t, res.Me.LastLogin)

	id, err := auth.Authenticate(ctx, res.Token)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", id.Email)
	assert.True(t, id.Has("view_category"))
	assert.False(t, id.Has("add_category"))

	me, err := auth.Me(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Ana García", me.FullName)

	require.NoError(t, auth.Logout(ctx, id.SessionID))
	_, err = auth.Authenticate(ctx, res.Token)
	assert.True(t, apperr.IsType(err, apperr.ErrorTypeUnauthorized))
}

func TestAuthService_LoginFailures(t *testing.T) {
	env := newTestEnv(t)
	auth := newAuthService(env)
	ctx := context.Background()

	inactive := false
	req := employeeRequest("off@example.com", "OFF001")
	req.IsActive = &inactive
	_, err := env.employees.Create(ctx, req)
	require.NoError(t, err)
	_, err = env.employees.Create(ctx, employeeRequest("ana@example.com", "AB1234"))
	require.NoError(t, err)

	tests := []struct {
		name string
		req  LoginRequest
	}{
		{"unknown email", LoginRequest{Email: "nobody@example.com", Password: validPassword}},
		{"wrong password", LoginRequest{Email: "ana@example.com", Password: "Wrong#123"}},
		{"inactive account", LoginRequest{Email: "off@example.com", Password: validPassword}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := auth.Login(ctx, tt.req)
			appErr, ok := apperr.As(err)
			require.True(t, ok)
			assert.Equal(t, apperr.ErrorTypeUnauthorized, appErr.Type)
			assert.Equal(t, msgInvalidCredentials, appErr.Message)
		})
	}

	_, err = auth.Login(ctx, LoginRequest{Email: "ana@example.com"})
	assert.True(t, apperr.IsValidation(err))
}

func TestAuthService_AuthenticateRejectsBadTokens(t *testing.T) {
	env := newTestEnv(t)
	auth := newAuthService(env)
	ctx := context.Background()

	_, err := env.employees.Create(ctx, employeeRequest("ana@example.com", "AB1234"))
	require.NoError(t, err)
	res, err := auth.Login(ctx, LoginRequest{Email: "ana@example.com", Password: validPassword})
	require.NoError(t, err)

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: uuid.NewString(),
		ID:      uuid.NewString(),
	}).SignedString([]byte("other-secret"))
	require.NoError(t, err)

	for name, token := range map[string]string{
		"garbage": "not-a-token",
		"forged":  forged,
	} {
		_, err := auth.Authenticate(ctx, token)
		assert.True(t, apperr.IsType(err, apperr.ErrorTypeUnauthorized), name)
	}

	auth.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = auth.Authenticate(ctx, res.Token)
	assert.True(t, apperr.IsType(err, apperr.ErrorTypeUnauthorized), "expired")
}

func TestAuthService_AuthenticateRejectsDeactivatedAccount(t *testing.T) {
	env := newTestEnv(t)
	auth := newAuthService(env)
	ctx := context.Background()

	created, err := env.employees.Create(ctx, employeeRequest("ana@example.com", "AB1234"))
	require.NoError(t, err)
	res, err := auth.Login(ctx, LoginRequest{Email: "ana@example.com", Password: validPassword})
	require.NoError(t, err)

	require.NoError(t, env.db.Model(&model.Account{}).Where("id = ?", created.AccountID).UpdateColumn("is_active", false).Error)
	_, err = auth.Authenticate(ctx, res.Token)
	assert.True(t, apperr.IsType(err, apperr.ErrorTypeUnauthorized))
}

func TestAuthService_CreateSuperuser(t *testing.T) {
	env := newTestEnv(t)
	auth := newAuthService(env)
	ctx := context.Background()

	me, err := auth.CreateSuperuser(ctx, CreateSuperuserRequest{Email: " Root@Example.com", Password: validPassword})
	require.NoError(t, err)
	assert.Equal(t, "root@example.com", me.Email)
	assert.True(t, me.IsSuperuser)

	_, err = auth.CreateSuperuser(ctx, CreateSuperuserRequest{Email: "root@example.com", Password: validPassword})
	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, msgEmailTaken, appErr.Fields["email"])

	_, err = auth.CreateSuperuser(ctx, CreateSuperuserRequest{Email: "weak@example.com", Password: "short"})
	appErr, ok = apperr.As(err)
	require.True(t, ok)
	assert.Contains(t, appErr.Fields["password"], "at least 8 characters")

	res, err := auth.Login(ctx, LoginRequest{Email: "root@example.com", Password: validPassword})
	require.NoError(t, err)
	id, err := auth.Authenticate(ctx, res.Token)
	require.NoError(t, err)
	assert.True(t, id.Has("view_logentry"))
	assert.Equal(t, int64(1), env.count(t, &model.AuditLog{}, "action = ?", model.ActionCreateSuperuser))
}
