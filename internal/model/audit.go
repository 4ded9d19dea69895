package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ActionCreateEmployee           = "CREATE_EMPLOYEE"
	ActionUpdateEmployee           = "UPDATE_EMPLOYEE"
	ActionDeleteEmployee           = "DELETE_EMPLOYEE"
	ActionReplaceAccountPermission = "REPLACE_ACCOUNT_PERMISSIONS"
	ActionCreateGroup              = "CREATE_GROUP"
	ActionUpdateGroup              = "UPDATE_GROUP"
	ActionDeleteGroup              = "DELETE_GROUP"
	ActionCreateCategory           = "CREATE_CATEGORY"
	ActionUpdateCategory           = "UPDATE_CATEGORY"
	ActionDeleteCategory           = "DELETE_CATEGORY"
	ActionCreateSubCategory        = "CREATE_SUBCATEGORY"
	ActionUpdateSubCategory        = "UPDATE_SUBCATEGORY"
	ActionDeleteSubCategory        = "DELETE_SUBCATEGORY"
	ActionCreateSuperuser          = "CREATE_SUPERUSER"
)

// AuditLog records who changed what and when. The actor is nil for CLI actions.
type AuditLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	AccountID  *uuid.UUID `gorm:"type:uuid;index" json:"account_id"`
	Account    *Account   `gorm:"foreignKey:AccountID;constraint:OnDelete:SET NULL;" json:"account,omitempty"`
	Action     string     `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID   string     `gorm:"type:varchar(50);index" json:"entity_id"`
	EntityName string     `gorm:"type:varchar(255)" json:"entity_name,omitempty"`
	Details    string     `gorm:"type:text" json:"details"`
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
}

func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	ensureID(&a.ID)
	return nil
}
