package repository

import (
	"context"
	"time"

	"backoffice/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AccountRepository interface {
	Create(ctx context.Context, account *model.Account) error
	Update(ctx context.Context, account *model.Account) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Account, error)
	FindByEmail(ctx context.Context, email string) (*model.Account, error)
	EmailTaken(ctx context.Context, email string, excludeID uuid.UUID) (bool, error)
	ReplacePermissions(ctx context.Context, accountID uuid.UUID, perms []model.Permission) error
	ListPermissions(ctx context.Context, accountID uuid.UUID) ([]model.Permission, error)
	EffectiveCodenames(ctx context.Context, accountID uuid.UUID) ([]string, error)
	TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

type accountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) Create(ctx context.Context, account *model.Account) error {
	return GetDB(ctx, r.db).Omit("Permissions", "Groups").Create(account).Error
}

func (r *accountRepository) Update(ctx context.Context, account *model.Account) error {
	return GetDB(ctx, r.db).Omit("Permissions", "Groups").Save(account).Error
}

// Delete removes the account after detaching its permission and group links.
func (r *accountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := GetDB(ctx, r.db)
	account := model.Account{ID: id}
	if err := db.Model(&account).Association("Permissions").Clear(); err != nil {
		return err
	}
	if err := db.Model(&account).Association("Groups").Clear(); err != nil {
		return err
	}
	res := db.Where("id = ?", id).Delete(&model.Account{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *accountRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Account, error) {
	var account model.Account
	if err := GetDB(ctx, r.db).First(&account, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *accountRepository) FindByEmail(ctx context.Context, email string) (*model.Account, error) {
	var account model.Account
	if err := GetDB(ctx, r.db).Where("email = ?", model.NormalizeEmail(email)).First(&account).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

// EmailTaken compares normalized emails. Pass uuid.Nil to exclude nothing.
func (r *accountRepository) EmailTaken(ctx context.Context, email string, excludeID uuid.UUID) (bool, error) {
	var count int64
	q := GetDB(ctx, r.db).Model(&model.Account{}).Where("email = ?", model.NormalizeEmail(email))
	if excludeID != uuid.Nil {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ReplacePermissions makes perms the account's entire direct permission set.
func (r *accountRepository) ReplacePermissions(ctx context.Context, accountID uuid.UUID, perms []model.Permission) error {
	db := GetDB(ctx, r.db)
	var account model.Account
	if err := db.First(&account, "id = ?", accountID).Error; err != nil {
		return err
	}
	if len(perms) == 0 {
		return db.Model(&account).Association("Permissions").Clear()
	}
	return db.Model(&account).Association("Permissions").Replace(perms)
}

func (r *accountRepository) ListPermissions(ctx context.Context, accountID uuid.UUID) ([]model.Permission, error) {
	var perms []model.Permission
	err := GetDB(ctx, r.db).Model(&model.Account{ID: accountID}).Order("codename asc").Association("Permissions").Find(&perms)
	if err != nil {
		return nil, err
	}
	return perms, nil
}

// EffectiveCodenames returns direct grants plus grants inherited from group memberships.
func (r *accountRepository) EffectiveCodenames(ctx context.Context, accountID uuid.UUID) ([]string, error) {
	var codes []string
	err := GetDB(ctx, r.db).Raw(`
		SELECT p.codename FROM permissions p
		INNER JOIN account_permissions ap ON ap.permission_id = p.id
		WHERE ap.account_id = ?
		UNION
		SELECT p.codename FROM permissions p
		INNER JOIN group_permissions gp ON gp.permission_id = p.id
		INNER JOIN account_groups ag ON ag.group_id = gp.group_id
		WHERE ag.account_id = ?
	`, accountID, accountID).Scan(&codes).Error
	if err != nil {
		return nil, err
	}
	return codes, nil
}

func (r *accountRepository) TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return GetDB(ctx, r.db).Model(&model.Account{}).Where("id = ?", id).UpdateColumn("last_login", at).Error
}
