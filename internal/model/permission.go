package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"backoffice/internal/textnorm"
)

// Permission is a single grant such as "view_employee". Rows mirror the static
// registry in internal/permission.
type Permission struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Namespace string    `gorm:"type:varchar(100);not null;index:idx_permission_model" json:"namespace"`
	Model     string    `gorm:"type:varchar(100);not null;index:idx_permission_model" json:"model"`
	Codename  string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"codename"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
}

func (p *Permission) BeforeCreate(tx *gorm.DB) error {
	ensureID(&p.ID)
	return nil
}

// Group is a named template of permission grants.
type Group struct {
	ID          uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string       `gorm:"type:varchar(150);uniqueIndex;not null" json:"name"`
	NameNorm    string       `gorm:"type:text;index" json:"-"`
	Permissions []Permission `gorm:"many2many:group_permissions;" json:"permissions,omitempty"`
}

func (g *Group) BeforeCreate(tx *gorm.DB) error {
	ensureID(&g.ID)
	return nil
}

func (g *Group) BeforeSave(tx *gorm.DB) error {
	g.NameNorm = textnorm.Normalize(g.Name)
	return nil
}

// PermissionIDs returns the ids of perms in order.
func PermissionIDs(perms []Permission) []uuid.UUID {
	ids := make([]uuid.UUID, len(perms))
	for i, p := range perms {
		ids[i] = p.ID
	}
	return ids
}
