package repository

import (
	"context"

	"backoffice/internal/listquery"
	"backoffice/internal/model"
	"backoffice/pkg/pagination"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SubCategoryRepository interface {
	Create(ctx context.Context, sub *model.SubCategory) error
	Update(ctx context.Context, sub *model.SubCategory) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.SubCategory, error)
	List(ctx context.Context, q listquery.Query, p pagination.Params) ([]model.SubCategory, int64, error)
}

type subCategoryRepository struct {
	db *gorm.DB
}

func NewSubCategoryRepository(db *gorm.DB) SubCategoryRepository {
	return &subCategoryRepository{db: db}
}

func (r *subCategoryRepository) Create(ctx context.Context, sub *model.SubCategory) error {
	return GetDB(ctx, r.db).Omit("Category").Create(sub).Error
}

func (r *subCategoryRepository) Update(ctx context.Context, sub *model.SubCategory) error {
	return GetDB(ctx, r.db).Omit("Category").Save(sub).Error
}

func (r *subCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.SubCategory{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *subCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.SubCategory, error) {
	var sub model.SubCategory
	if err := GetDB(ctx, r.db).Preload("Category").First(&sub, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *subCategoryRepository) List(ctx context.Context, q listquery.Query, p pagination.Params) ([]model.SubCategory, int64, error) {
	var subs []model.SubCategory
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.SubCategory{}).Scopes(q.Where).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := db.Model(&model.SubCategory{}).Scopes(q.Scope).
		Preload("Category").
		Offset(p.Offset).Limit(p.Limit).
		Find(&subs).Error
	if err != nil {
		return nil, 0, err
	}
	return subs, total, nil
}
