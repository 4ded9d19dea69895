package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"backoffice/internal/textnorm"
)

// Account is the login identity. It is created together with a profile and
// removed when that profile is deleted.
type Account struct {
	ID            uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	Email         string       `gorm:"type:varchar(254);uniqueIndex;not null" json:"email"`
	EmailNorm     string       `gorm:"type:text;index" json:"-"`
	Password      string       `gorm:"type:varchar(255);not null" json:"-"`
	FirstName     string       `gorm:"type:varchar(30)" json:"first_name"`
	FirstNameNorm string       `gorm:"type:text;index" json:"-"`
	LastName      string       `gorm:"type:varchar(150)" json:"last_name"`
	LastNameNorm  string       `gorm:"type:text;index" json:"-"`
	IsActive      bool         `gorm:"not null" json:"is_active"`
	IsStaff       bool         `gorm:"not null" json:"is_staff"`
	IsSuperuser   bool         `gorm:"not null" json:"is_superuser"`
	Permissions   []Permission `gorm:"many2many:account_permissions;" json:"permissions,omitempty"`
	Groups        []Group      `gorm:"many2many:account_groups;" json:"groups,omitempty"`
	DateJoined    time.Time    `gorm:"autoCreateTime" json:"date_joined"`
	LastLogin     *time.Time   `json:"last_login"`
	UpdatedAt     time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
}

// NormalizeEmail strips surrounding space and lower-cases the address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (a *Account) BeforeCreate(tx *gorm.DB) error {
	ensureID(&a.ID)
	return nil
}

func (a *Account) BeforeSave(tx *gorm.DB) error {
	a.Email = NormalizeEmail(a.Email)
	a.EmailNorm = textnorm.Normalize(a.Email)
	a.FirstNameNorm = textnorm.Normalize(a.FirstName)
	a.LastNameNorm = textnorm.Normalize(a.LastName)
	return nil
}

// FullName joins first and last name, falling back to the email.
func (a *Account) FullName() string {
	name := strings.TrimSpace(a.FirstName + " " + a.LastName)
	if name == "" {
		return a.Email
	}
	return name
}
