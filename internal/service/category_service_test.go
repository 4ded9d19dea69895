package service

import (
	"context"
	"net/url"
	"testing"

	"backoffice/internal/apperr"
	"backoffice/internal/model"
	"backoffice/internal/repository"
	"backoffice/internal/testutil"
	"backoffice/pkg/pagination"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryService_CRUD(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.categories.Create(ctx, CategoryRequest{Name: "Idiomas"})
	require.NoError(t, err)
	assert.True(t, created.IsActive, "active by default")

	inactive := false
	updated, err := env.categories.Update(ctx, created.ID, CategoryRequest{Name: "Idiomas", IsActive: &inactive})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)

	got, err := env.categories.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Idiomas", got.Name)

	require.NoError(t, env.categories.Delete(ctx, created.ID))
	_, err = env.categories.Get(ctx, created.ID)
	assert.True(t, apperr.IsNotFound(err))
}

func TestCategoryService_MarkupOnlyNameIsRequired(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.categories.Create(ctx, CategoryRequest{Name: "<i></i>"})
	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Contains(t, appErr.Fields, "name")

	cat := testutil.CreateCategory(t, env.db, "Idiomas", true)
	_, err = env.subCategories.Create(ctx, subCategoryRequest(cat.ID, "<b> </b>"))
	appErr, ok = apperr.As(err)
	require.True(t, ok)
	assert.Contains(t, appErr.Fields, "name")
}

func TestCategoryService_DuplicateName(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, err := env.categories.Create(ctx, CategoryRequest{Name: "Idiomas"})
	require.NoError(t, err)

	_, err = env.categories.Create(ctx, CategoryRequest{Name: "Idiomas"})
	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, msgCategoryNameTaken, appErr.Fields["name"])
	assert.Equal(t, int64(1), env.count(t, &model.Category{}))
}

func TestCategoryService_DeleteBlockedByEnrollments(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	emp := testutil.CreateEmployee(t, env.db, "ana@example.com", "Ana", "García", "AB1234")
	cat := testutil.CreateCategory(t, env.db, "Idiomas", true)
	sub := testutil.CreateSubCategory(t, env.db, cat.ID, "Inglés", true)
	testutil.CreateEnrollment(t, env.db, sub.ID, emp.ID)

	err := env.categories.Delete(ctx, cat.ID)
	assert.True(t, apperr.IsConflict(err))
	assert.Equal(t, int64(1), env.count(t, &model.Category{}, "id = ?", cat.ID))
	assert.Equal(t, int64(1), env.count(t, &model.SubCategory{}, "id = ?", sub.ID))
}

func TestCategoryService_OptionsAndList(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	testutil.CreateCategory(t, env.db, "Música", true)
	testutil.CreateCategory(t, env.db, "Arte", true)
	testutil.CreateCategory(t, env.db, "Cocina", false)

	opts, err := env.categories.Options(ctx)
	require.NoError(t, err)
	require.Len(t, opts, 2)
	assert.Equal(t, "Arte", opts[0].Name)
	assert.Equal(t, "Música", opts[1].Name)

	page, err := env.categories.List(ctx, repository.CategoryListSpec.Parse(url.Values{"is_active": {"False"}}), pagination.New(1, 20))
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Cocina", page.Items[0].Name)

	page, err = env.categories.List(ctx, repository.CategoryListSpec.Parse(url.Values{"q": {"musica"}}), pagination.New(1, 20))
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Música", page.Items[0].Name)
}

func subCategoryRequest(categoryID uuid.UUID, name string) SubCategoryRequest {
	return SubCategoryRequest{
		CategoryID:           categoryID,
		Name:                 name,
		Price:                decimal.RequireFromString("1500.00"),
		RegistrationPrice:    decimal.RequireFromString("300.50"),
		TuitionPrice:         decimal.RequireFromString("1000"),
		ExamPrice:            decimal.RequireFromString("199.99"),
		ThresholdSalesAmount: 10,
	}
}

func TestSubCategoryService_RequiresActiveCategory(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	active := testutil.CreateCategory(t, env.db, "Idiomas", true)
	inactive := testutil.CreateCategory(t, env.db, "Cocina", false)

	for _, id := range []uuid.UUID{inactive.ID, uuid.New()} {
		_, err := env.subCategories.Create(ctx, subCategoryRequest(id, "Inglés"))
		appErr, ok := apperr.As(err)
		require.True(t, ok)
		assert.Equal(t, msgInvalidChoice, appErr.Fields["category_id"])
	}
	assert.Zero(t, env.count(t, &model.SubCategory{}))

	created, err := env.subCategories.Create(ctx, subCategoryRequest(active.ID, "Inglés"))
	require.NoError(t, err)
	assert.Equal(t, "Idiomas", created.CategoryName)
	assert.True(t, created.Price.Equal(decimal.NewFromInt(1500)))
	assert.Equal(t, uint(10), created.ThresholdSalesAmount)
	assert.True(t, created.IsActive)

	_, err = env.subCategories.Update(ctx, created.ID, subCategoryRequest(inactive.ID, "Inglés"))
	assert.True(t, apperr.IsValidation(err))
}

func TestSubCategoryService_AmountValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	cat := testutil.CreateCategory(t, env.db, "Idiomas", true)

	req := subCategoryRequest(cat.ID, "Inglés")
	req.Price = decimal.NewFromInt(-1)
	req.ExamPrice = decimal.RequireFromString("1.005")
	req.TuitionPrice = decimal.NewFromInt(100_000_000)
	req.ThresholdSalesAmount = -3
	req.Name = ""

	_, err := env.subCategories.Create(ctx, req)
	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Contains(t, appErr.Fields, "price")
	assert.Contains(t, appErr.Fields, "exam_price")
	assert.Contains(t, appErr.Fields, "tuition_price")
	assert.Contains(t, appErr.Fields, "threshold_sales_amount")
	assert.Contains(t, appErr.Fields, "name")
	assert.NotContains(t, appErr.Fields, "registration_price")
}

func TestSubCategoryService_UpdateGetDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	cat := testutil.CreateCategory(t, env.db, "Idiomas", true)
	other := testutil.CreateCategory(t, env.db, "Música", true)

	created, err := env.subCategories.Create(ctx, subCategoryRequest(cat.ID, "Inglés"))
	require.NoError(t, err)

	req := subCategoryRequest(other.ID, "Piano")
	req.IsGeneralPublic = true
	updated, err := env.subCategories.Update(ctx, created.ID, req)
	require.NoError(t, err)
	assert.Equal(t, "Piano", updated.Name)
	assert.Equal(t, other.ID, updated.CategoryID)
	assert.True(t, updated.IsGeneralPublic)

	got, err := env.subCategories.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Música", got.CategoryName)
	assert.True(t, got.ExamPrice.Equal(decimal.RequireFromString("199.99")))

	require.NoError(t, env.subCategories.Delete(ctx, created.ID))
	_, err = env.subCategories.Get(ctx, created.ID)
	assert.True(t, apperr.IsNotFound(err))
}

func TestSubCategoryService_DeleteBlockedByEnrollments(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	emp := testutil.CreateEmployee(t, env.db, "ana@example.com", "Ana", "García", "AB1234")
	cat := testutil.CreateCategory(t, env.db, "Idiomas", true)
	sub := testutil.CreateSubCategory(t, env.db, cat.ID, "Inglés", true)
	testutil.CreateEnrollment(t, env.db, sub.ID, emp.ID)

	err := env.subCategories.Delete(ctx, sub.ID)
	assert.True(t, apperr.IsConflict(err))
	assert.Equal(t, int64(1), env.count(t, &model.SubCategory{}, "id = ?", sub.ID))
}
