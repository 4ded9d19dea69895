package service

import (
	"context"
	"net/url"
	"testing"

	"backoffice/internal/apperr"
	"backoffice/internal/model"
	"backoffice/internal/repository"
	"backoffice/pkg/pagination"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupService_CreateFiltersPermissions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	g, err := env.groups.Create(ctx, GroupRequest{
		Name:          " Advisors ",
		PermissionIDs: append(env.ids("view_category", "add_group"), uuid.NewString()),
	})
	require.NoError(t, err)
	assert.Equal(t, "Advisors", g.Name)
	assert.Equal(t, []uuid.UUID{env.perms["view_category"].ID}, g.SelectedIDs)
	assert.NotEmpty(t, g.PermsByModel)

	stored, err := env.repos.Groups.FindByIDWithPermissions(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"view_category"}, codenames(stored.Permissions))
}

func TestGroupService_MarkupOnlyNameIsRequired(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.groups.Create(context.Background(), GroupRequest{Name: "<b></b>"})
	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Contains(t, appErr.Fields, "name")
	assert.Zero(t, env.count(t, &model.Group{}))
}

func TestGroupService_DuplicateName(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, err := env.groups.Create(ctx, GroupRequest{Name: "Advisors"})
	require.NoError(t, err)
	second, err := env.groups.Create(ctx, GroupRequest{Name: "Sales"})
	require.NoError(t, err)

	_, err = env.groups.Create(ctx, GroupRequest{Name: "Advisors"})
	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, msgGroupNameTaken, appErr.Fields["name"])

	_, err = env.groups.Update(ctx, second.ID, GroupRequest{Name: "Advisors"})
	assert.True(t, apperr.IsValidation(err))

	_, err = env.groups.Update(ctx, first.ID, GroupRequest{Name: "Advisors"})
	assert.NoError(t, err, "renaming to its own name is fine")
}

func TestGroupService_GetAndDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	g, err := env.groups.Create(ctx, GroupRequest{Name: "Advisors", PermissionIDs: env.ids("view_employee")})
	require.NoError(t, err)

	got, err := env.groups.Get(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{env.perms["view_employee"].ID}, got.SelectedIDs)

	require.NoError(t, env.groups.Delete(ctx, g.ID))
	assert.Zero(t, countRows(t, env, "group_permissions"))

	_, err = env.groups.Get(ctx, g.ID)
	assert.True(t, apperr.IsNotFound(err))
	assert.True(t, apperr.IsNotFound(env.groups.Delete(ctx, g.ID)))
	assert.Equal(t, int64(1), env.count(t, &model.AuditLog{}, "action = ?", model.ActionDeleteGroup))
}

func TestGroupService_ListAndOptions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	for _, name := range []string{"Ventas", "Asesores", "Dirección"} {
		_, err := env.groups.Create(ctx, GroupRequest{Name: name})
		require.NoError(t, err)
	}

	page, err := env.groups.List(ctx, repository.GroupListSpec.Parse(url.Values{"q": {"DIRECCION"}}), pagination.New(1, 20))
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Dirección", page.Items[0].Name)

	page, err = env.groups.List(ctx, repository.GroupListSpec.Parse(url.Values{"ordering": {"-name"}}), pagination.New(1, 2))
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, 2, page.NumPages)
	assert.Equal(t, "Ventas", page.Items[0].Name)

	opts, err := env.groups.Options(ctx)
	require.NoError(t, err)
	assert.Len(t, opts, 3)
}
