package repository

import (
	"context"

	"backoffice/internal/listquery"
	"backoffice/internal/model"
	"backoffice/pkg/pagination"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GroupRepository interface {
	Create(ctx context.Context, group *model.Group) error
	Update(ctx context.Context, group *model.Group) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Group, error)
	FindByIDWithPermissions(ctx context.Context, id uuid.UUID) (*model.Group, error)
	NameTaken(ctx context.Context, name string, excludeID uuid.UUID) (bool, error)
	ListAll(ctx context.Context) ([]model.Group, error)
	List(ctx context.Context, q listquery.Query, p pagination.Params) ([]model.Group, int64, error)
	ReplacePermissions(ctx context.Context, groupID uuid.UUID, perms []model.Permission) error
	Count(ctx context.Context) (int64, error)
}

type groupRepository struct {
	db *gorm.DB
}

func NewGroupRepository(db *gorm.DB) GroupRepository {
	return &groupRepository{db: db}
}

func (r *groupRepository) Create(ctx context.Context, group *model.Group) error {
	return GetDB(ctx, r.db).Omit("Permissions").Create(group).Error
}

func (r *groupRepository) Update(ctx context.Context, group *model.Group) error {
	return GetDB(ctx, r.db).Omit("Permissions").Save(group).Error
}

// Delete drops the group, its grants and its memberships. Accounts keep any
// permissions previously copied from it.
func (r *groupRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := GetDB(ctx, r.db)
	group := model.Group{ID: id}
	if err := db.Model(&group).Association("Permissions").Clear(); err != nil {
		return err
	}
	if err := db.Exec("DELETE FROM account_groups WHERE group_id = ?", id).Error; err != nil {
		return err
	}
	res := db.Where("id = ?", id).Delete(&model.Group{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *groupRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Group, error) {
	var group model.Group
	if err := GetDB(ctx, r.db).First(&group, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *groupRepository) FindByIDWithPermissions(ctx context.Context, id uuid.UUID) (*model.Group, error) {
	var group model.Group
	if err := GetDB(ctx, r.db).Preload("Permissions").First(&group, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *groupRepository) NameTaken(ctx context.Context, name string, excludeID uuid.UUID) (bool, error) {
	var count int64
	q := GetDB(ctx, r.db).Model(&model.Group{}).Where("name = ?", name)
	if excludeID != uuid.Nil {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *groupRepository) ListAll(ctx context.Context) ([]model.Group, error) {
	var groups []model.Group
	if err := GetDB(ctx, r.db).Order("name asc").Find(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}

func (r *groupRepository) List(ctx context.Context, q listquery.Query, p pagination.Params) ([]model.Group, int64, error) {
	var groups []model.Group
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.Group{}).Scopes(q.Where).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := db.Model(&model.Group{}).Scopes(q.Scope).Offset(p.Offset).Limit(p.Limit).Find(&groups).Error; err != nil {
		return nil, 0, err
	}
	return groups, total, nil
}

// ReplacePermissions makes perms the group's entire grant set.
func (r *groupRepository) ReplacePermissions(ctx context.Context, groupID uuid.UUID, perms []model.Permission) error {
	db := GetDB(ctx, r.db)
	var group model.Group
	if err := db.First(&group, "id = ?", groupID).Error; err != nil {
		return err
	}
	if len(perms) == 0 {
		return db.Model(&group).Association("Permissions").Clear()
	}
	return db.Model(&group).Association("Permissions").Replace(perms)
}

func (r *groupRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.Group{}).Count(&count).Error
	return count, err
}
