package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backoffice/internal/apperr"
)

func TestRootCommand_Subcommands(t *testing.T) {
	root := NewRootCommand("test")

	names := make([]string, 0)
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"serve", "migrate", "createsuperuser"}, names)
	assert.Equal(t, "test", root.Version)
}

func TestCreateSuperuser_RequiresFlags(t *testing.T) {
	root := NewRootCommand("test")
	root.SetArgs([]string{"createsuperuser", "--email", "root@example.com"})
	root.SilenceErrors = true

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "password")
}

func TestDescribe(t *testing.T) {
	fields := apperr.FieldErrors{}
	fields.Add("password", "too short")
	fields.Add("email", "taken")

	err := describe(fields.Err())
	assert.Equal(t, "Please correct the errors below\n  email: taken\n  password: too short", err.Error())

	plain := errors.New("boom")
	assert.Same(t, plain, describe(plain))
}
