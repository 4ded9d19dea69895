package service

import (
	"context"
	"testing"

	"backoffice/internal/model"
	"backoffice/internal/permission"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPermissionService_SyncIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	before := env.count(t, &model.Permission{})
	assert.Equal(t, int64(len(permission.Seed(permission.Registry))), before)

	require.NoError(t, env.permissions.Sync(ctx))
	assert.Equal(t, before, env.count(t, &model.Permission{}))

	p := env.perms["view_employee"]
	require.NoError(t, env.db.Model(&p).UpdateColumn("name", "stale").Error)
	require.NoError(t, env.permissions.Sync(ctx))

	var reloaded model.Permission
	require.NoError(t, env.db.First(&reloaded, "id = ?", p.ID).Error)
	assert.Equal(t, "Can view employee", reloaded.Name)
}

func TestPermissionService_Resolve(t *testing.T) {
	env := newTestEnv(t)

	got, err := env.permissions.Resolve(context.Background(), []string{
		env.perms["add_enrollment"].ID.String(),
		env.perms["add_enrollment"].ID.String(),
		env.perms["delete_session"].ID.String(),
		uuid.NewString(),
		"",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"add_enrollment"}, codenames(got))

	got, err = env.permissions.Resolve(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestPermissionService_Assignment(t *testing.T) {
	env := newTestEnv(t)

	got, err := env.permissions.Assignment(context.Background(), nil)
	require.NoError(t, err)
	assert.NotNil(t, got.SelectedIDs)
	assert.Empty(t, got.SelectedIDs)

	for _, node := range got.PermsByModel {
		assert.NotContains(t, []string{"admin", "auth", "contenttypes", "sessions", "users"}, node.Namespace)
		require.Len(t, node.Items, 4)
		assert.Equal(t, "view", node.Items[0].Action)
		assert.Equal(t, "delete", node.Items[3].Action)
	}
}
