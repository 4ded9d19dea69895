package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"backoffice/internal/textnorm"
)

// Category groups sub-categories of services offered.
type Category struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(60);uniqueIndex;not null" json:"name"`
	NameNorm  string    `gorm:"type:text;index" json:"-"`
	IsActive  bool      `gorm:"not null" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	ensureID(&c.ID)
	return nil
}

func (c *Category) BeforeSave(tx *gorm.DB) error {
	c.NameNorm = textnorm.Normalize(c.Name)
	return nil
}

// SubCategory is a sellable service with its price breakdown and commission rules.
type SubCategory struct {
	ID                            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	CategoryID                    uuid.UUID       `gorm:"type:uuid;not null;index" json:"category_id"`
	Category                      *Category       `gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"category,omitempty"`
	Name                          string          `gorm:"type:varchar(50);not null" json:"name"`
	NameNorm                      string          `gorm:"type:text;index" json:"-"`
	Price                         decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	RegistrationPrice             decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"registration_price"`
	TuitionPrice                  decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"tuition_price"`
	CertificationPrice            decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"certification_price"`
	ExamPrice                     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"exam_price"`
	OpeningCommissionAmount       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"opening_commission_amount"`
	ClosingCommissionAmount       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"closing_commission_amount"`
	NewOpeningCommissionAmount    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"new_opening_commission_amount"`
	ThresholdSalesAmount          uint            `gorm:"not null" json:"threshold_sales_amount"`
	CommissionAmountGeneralPublic decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"commission_amount_general_public"`
	IsActive                      bool            `gorm:"not null" json:"is_active"`
	IsGeneralPublic               bool            `gorm:"not null" json:"is_general_public"`
	CreatedAt                     time.Time       `json:"created_at"`
	UpdatedAt                     time.Time       `json:"updated_at"`
}

func (s *SubCategory) BeforeCreate(tx *gorm.DB) error {
	ensureID(&s.ID)
	return nil
}

func (s *SubCategory) BeforeSave(tx *gorm.DB) error {
	s.NameNorm = textnorm.Normalize(s.Name)
	return nil
}

// Enrollment records a student signing up for a sub-category. Employees and
// sub-categories referenced here cannot be deleted.
type Enrollment struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	SubCategoryID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"sub_category_id"`
	SubCategory    *SubCategory    `gorm:"foreignKey:SubCategoryID;constraint:OnDelete:RESTRICT;" json:"sub_category,omitempty"`
	StudentID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"student_id"`
	Student        *Student        `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE;" json:"student,omitempty"`
	RegisteredByID uuid.UUID       `gorm:"type:uuid;not null;index" json:"registered_by_id"`
	RegisteredBy   *Employee       `gorm:"foreignKey:RegisteredByID;constraint:OnDelete:RESTRICT;" json:"registered_by,omitempty"`
	Reference      string          `gorm:"type:varchar(20);not null" json:"reference"`
	Price          decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	CreatedAt      time.Time       `json:"created_at"`
}

func (e *Enrollment) BeforeCreate(tx *gorm.DB) error {
	ensureID(&e.ID)
	return nil
}
