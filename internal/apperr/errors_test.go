package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	assert.Equal(t, "not_found: Employee not found", NewNotFoundError("Employee not found").Error())
	assert.Equal(t, "conflict: could not delete (referenced)", NewConflictError("could not delete", "referenced").Error())
}

func TestFieldErrors(t *testing.T) {
	fe := FieldErrors{}
	assert.NoError(t, fe.Err())

	fe.Add("email", "taken")
	fe.Add("email", "second message ignored")
	fe.Add("reference", "taken")

	err := fe.Err()
	require.Error(t, err)
	appErr, ok := As(err)
	require.True(t, ok)
	assert.Equal(t, ErrorTypeValidation, appErr.Type)
	assert.Equal(t, http.StatusBadRequest, appErr.Code)
	assert.Equal(t, map[string]string{"email": "taken", "reference": "taken"}, appErr.Fields)
}

func TestClassifiers(t *testing.T) {
	wrapped := fmt.Errorf("service: %w", NewConflictError("could not delete"))

	assert.True(t, IsConflict(wrapped))
	assert.False(t, IsNotFound(wrapped))
	assert.True(t, IsValidation(FieldError("password2", "mismatch")))
	assert.Equal(t, http.StatusConflict, HTTPStatus(wrapped))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("boom")))
}
