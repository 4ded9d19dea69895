package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backoffice/internal/apperr"
)

type signup struct {
	Email     string `json:"email" validate:"required,email"`
	Birthdate string `json:"birthdate" validate:"required,datetime=2006-01-02,notfuture"`
	Password1 string `json:"password1" validate:"required,password"`
	Password2 string `json:"password2" validate:"required,eqfield=Password1"`
	Reference string `json:"reference" validate:"required,max=6"`
}

func validSignup() signup {
	return signup{
		Email:     "ana@example.com",
		Birthdate: "1990-05-01",
		Password1: "Secret#123",
		Password2: "Secret#123",
		Reference: "AB1234",
	}
}

func fields(t *testing.T, err error) map[string]string {
	t.Helper()
	appErr, ok := apperr.As(err)
	require.True(t, ok, "expected AppError, got %v", err)
	return appErr.Fields
}

func TestValidateStruct_OK(t *testing.T) {
	assert.NoError(t, ValidateStruct(validSignup()))
}

func TestValidateStruct_FieldErrorsUseJSONNames(t *testing.T) {
	s := validSignup()
	s.Email = "not-an-email"
	s.Reference = "TOOLONG1"

	f := fields(t, ValidateStruct(s))
	assert.Equal(t, "Enter a valid email address.", f["email"])
	assert.Equal(t, "Ensure this value has at most 6 characters.", f["reference"])
}

func TestValidateStruct_FutureBirthdate(t *testing.T) {
	s := validSignup()
	s.Birthdate = time.Now().AddDate(1, 0, 0).Format(DateLayout)

	f := fields(t, ValidateStruct(s))
	assert.Equal(t, "The date cannot be in the future.", f["birthdate"])
}

func TestValidateStruct_TodayIsNotFuture(t *testing.T) {
	s := validSignup()
	s.Birthdate = time.Now().Format(DateLayout)
	assert.NoError(t, ValidateStruct(s))
}

func TestValidateStruct_PasswordMismatch(t *testing.T) {
	s := validSignup()
	s.Password2 = "Secret#124"

	f := fields(t, ValidateStruct(s))
	assert.Equal(t, "The two password fields didn't match.", f["password2"])
}

func TestPasswordProblems(t *testing.T) {
	tests := []struct {
		pw   string
		want int
	}{
		{"Secret#123", 0},
		{"Sh#1", 1},
		{"secret#123", 1},
		{"Secret#abc", 1},
		{"Secret1234", 1},
		{"short", 4},
	}
	for _, tt := range tests {
		t.Run(tt.pw, func(t *testing.T) {
			assert.Len(t, PasswordProblems(tt.pw), tt.want)
		})
	}
}

func TestVar(t *testing.T) {
	assert.NoError(t, Var("password", "Secret#123", "password"))

	err := Var("password", "weak", "password")
	f := fields(t, err)
	assert.Contains(t, f["password"], "uppercase")
}
