// Package validation wraps go-playground/validator with the back office's custom rules
// and turns failures into field-keyed apperr validation errors.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"

	"backoffice/internal/apperr"
)

// DateLayout is the wire format of calendar dates such as birthdates.
const DateLayout = "2006-01-02"

// PasswordMinLength is the minimum accepted password length.
const PasswordMinLength = 8

var (
	validate     *validator.Validate
	specialChars = regexp.MustCompile(`[^\w\s]`)
)

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation("notfuture", notFuture)
	_ = validate.RegisterValidation("password", passwordPolicy)
}

// ValidateStruct validates s and returns a validation AppError with one message per field.
func ValidateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.NewBadRequestError("Invalid input", err.Error())
	}

	fields := apperr.FieldErrors{}
	for _, fe := range verrs {
		fields.Add(fe.Field(), message(fe))
	}
	return fields.Err()
}

// Var validates a single value against tag, e.g. Var(pw, "password").
func Var(field string, value any, tag string) error {
	err := validate.Var(value, tag)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return apperr.FieldError(field, message(verrs[0]))
	}
	return apperr.FieldError(field, err.Error())
}

// PasswordProblems lists every policy rule pw violates, in a fixed order.
func PasswordProblems(pw string) []string {
	var problems []string
	if len([]rune(pw)) < PasswordMinLength {
		problems = append(problems, fmt.Sprintf("This password must contain at least %d characters.", PasswordMinLength))
	}
	if !strings.ContainsFunc(pw, unicode.IsUpper) {
		problems = append(problems, "The password must contain at least one uppercase letter.")
	}
	if !strings.ContainsFunc(pw, unicode.IsDigit) {
		problems = append(problems, "The password must contain at least one number.")
	}
	if !specialChars.MatchString(pw) {
		problems = append(problems, "The password must contain at least one special character.")
	}
	return problems
}

func passwordPolicy(fl validator.FieldLevel) bool {
	return len(PasswordProblems(fl.Field().String())) == 0
}

func notFuture(fl validator.FieldLevel) bool {
	today := time.Now().Format(DateLayout)
	switch v := fl.Field().Interface().(type) {
	case string:
		if v == "" {
			return true
		}
		d, err := time.Parse(DateLayout, v)
		if err != nil {
			return false
		}
		return d.Format(DateLayout) <= today
	case time.Time:
		return v.IsZero() || v.Format(DateLayout) <= today
	}
	return false
}

func message(fe validator.FieldError) string {
	param := fe.Param()
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Ensure this value has at least %s characters.", param)
		}
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", param)
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Ensure this value has at most %s characters.", param)
		}
		return fmt.Sprintf("Ensure this value is less than or equal to %s.", param)
	case "gte":
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", param)
	case "uuid":
		return "Enter a valid identifier."
	case "datetime":
		return "Enter a valid date (YYYY-MM-DD)."
	case "notfuture":
		return "The date cannot be in the future."
	case "eqfield":
		return "The two password fields didn't match."
	case "password":
		return strings.Join(PasswordProblems(fmt.Sprint(fe.Value())), " ")
	default:
		return fmt.Sprintf("Failed validation for '%s'.", fe.Tag())
	}
}
