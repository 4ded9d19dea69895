package testutil

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"backoffice/internal/model"
	"backoffice/internal/permission"
)

// SeedPermissions inserts the full registry and returns the rows by codename.
func SeedPermissions(t testing.TB, db *gorm.DB) map[string]model.Permission {
	t.Helper()
	perms := permission.Seed(permission.Registry)
	require.NoError(t, db.Create(&perms).Error)

	out := make(map[string]model.Permission, len(perms))
	for _, p := range perms {
		out[p.Codename] = p
	}
	return out
}

// CreateAccount inserts an active account with a throwaway password hash.
func CreateAccount(t testing.TB, db *gorm.DB, email string) *model.Account {
	t.Helper()
	a := &model.Account{Email: email, Password: "x", IsActive: true, IsStaff: true}
	require.NoError(t, db.Omit("Permissions", "Groups").Create(a).Error)
	return a
}

// CreateEmployee inserts an account plus its employee profile.
func CreateEmployee(t testing.TB, db *gorm.DB, email, first, last, reference string) *model.Employee {
	t.Helper()
	a := &model.Account{Email: email, FirstName: first, LastName: last, Password: "x", IsActive: true, IsStaff: true}
	require.NoError(t, db.Omit("Permissions", "Groups").Create(a).Error)

	e := &model.Employee{
		AccountID:   a.ID,
		Address:     "Calle 1",
		Birthdate:   time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
		PhoneNumber: "5550001111",
		Reference:   reference,
	}
	require.NoError(t, db.Omit("Account").Create(e).Error)
	e.Account = *a
	return e
}

func CreateCategory(t testing.TB, db *gorm.DB, name string, active bool) *model.Category {
	t.Helper()
	c := &model.Category{Name: name, IsActive: active}
	require.NoError(t, db.Create(c).Error)
	return c
}

func CreateSubCategory(t testing.TB, db *gorm.DB, categoryID uuid.UUID, name string, active bool) *model.SubCategory {
	t.Helper()
	s := &model.SubCategory{
		CategoryID: categoryID,
		Name:       name,
		Price:      decimal.NewFromInt(1000),
		IsActive:   active,
	}
	require.NoError(t, db.Omit("Category").Create(s).Error)
	return s
}

// CreateEnrollment links a new student to sub and registrar, pinning both.
func CreateEnrollment(t testing.TB, db *gorm.DB, subID, registrarID uuid.UUID) *model.Enrollment {
	t.Helper()
	acct := CreateAccount(t, db, uuid.NewString()+"@students.test")
	st := &model.Student{
		AccountID:   acct.ID,
		Birthdate:   time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
		PhoneNumber: "5550002222",
	}
	require.NoError(t, db.Omit("Account").Create(st).Error)

	en := &model.Enrollment{
		SubCategoryID:  subID,
		StudentID:      st.ID,
		RegisteredByID: registrarID,
		Reference:      "ENR-1",
		Price:          decimal.NewFromInt(1000),
	}
	require.NoError(t, db.Omit("SubCategory", "Student", "RegisteredBy").Create(en).Error)
	return en
}
