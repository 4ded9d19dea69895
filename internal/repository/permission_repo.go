package repository

import (
	"context"

	"backoffice/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PermissionRepository interface {
	ListAll(ctx context.Context) ([]model.Permission, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Permission, error)
	FindByCodenames(ctx context.Context, codenames []string) ([]model.Permission, error)
	FindOrCreate(ctx context.Context, perm *model.Permission) error
}

type permissionRepository struct {
	db *gorm.DB
}

func NewPermissionRepository(db *gorm.DB) PermissionRepository {
	return &permissionRepository{db: db}
}

func (r *permissionRepository) ListAll(ctx context.Context) ([]model.Permission, error) {
	var perms []model.Permission
	if err := GetDB(ctx, r.db).Order("namespace asc, model asc, codename asc").Find(&perms).Error; err != nil {
		return nil, err
	}
	return perms, nil
}

func (r *permissionRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Permission, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var perms []model.Permission
	if err := GetDB(ctx, r.db).Where("id IN ?", ids).Order("codename asc").Find(&perms).Error; err != nil {
		return nil, err
	}
	return perms, nil
}

func (r *permissionRepository) FindByCodenames(ctx context.Context, codenames []string) ([]model.Permission, error) {
	if len(codenames) == 0 {
		return nil, nil
	}
	var perms []model.Permission
	if err := GetDB(ctx, r.db).Where("codename IN ?", codenames).Order("codename asc").Find(&perms).Error; err != nil {
		return nil, err
	}
	return perms, nil
}

// FindOrCreate loads perm by codename, inserting it when missing, and keeps
// its human name in step with the registry.
func (r *permissionRepository) FindOrCreate(ctx context.Context, perm *model.Permission) error {
	db := GetDB(ctx, r.db)
	name := perm.Name
	if err := db.Where("codename = ?", perm.Codename).FirstOrCreate(perm).Error; err != nil {
		return err
	}
	if perm.Name != name {
		perm.Name = name
		return db.Model(perm).Update("name", name).Error
	}
	return nil
}
