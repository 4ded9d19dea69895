package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"backoffice/internal/textnorm"
)

// Employee is the staff profile. It owns exactly one Account.
type Employee struct {
	ID                      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	AccountID               uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"account_id"`
	Account                 Account   `gorm:"foreignKey:AccountID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"account"`
	Address                 string    `gorm:"type:varchar(255)" json:"address"`
	Birthdate               time.Time `gorm:"type:date;not null" json:"birthdate"`
	CommissionGeneralPublic bool      `gorm:"not null" json:"commission_general_public"`
	PhoneNumber             string    `gorm:"type:varchar(10);not null" json:"phone_number"`
	PhoneNumberNorm         string    `gorm:"type:text;index" json:"-"`
	PhoneNumber2            *string   `gorm:"type:varchar(10)" json:"phone_number_2"`
	PhoneNumber2Norm        string    `gorm:"type:text;index" json:"-"`
	Picture                 *string   `gorm:"type:varchar(255)" json:"picture"`
	Reference               string    `gorm:"type:varchar(6);uniqueIndex;not null" json:"reference"`
	ReferenceNorm           string    `gorm:"type:text;index" json:"-"`
	CreatedAt               time.Time `json:"created_at"`
	UpdatedAt               time.Time `json:"updated_at"`
}

func (e *Employee) BeforeCreate(tx *gorm.DB) error {
	ensureID(&e.ID)
	return nil
}

func (e *Employee) BeforeSave(tx *gorm.DB) error {
	e.PhoneNumberNorm = textnorm.Normalize(e.PhoneNumber)
	e.PhoneNumber2Norm = textnorm.Ptr(e.PhoneNumber2)
	e.ReferenceNorm = textnorm.Normalize(e.Reference)
	return nil
}

// Student is a learner profile. It has no behavior of its own and exists so
// enrollments can reference it.
type Student struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	AccountID    uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"account_id"`
	Account      Account   `gorm:"foreignKey:AccountID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"account"`
	Address      string    `gorm:"type:varchar(255)" json:"address"`
	Birthdate    time.Time `gorm:"type:date;not null" json:"birthdate"`
	PhoneNumber  string    `gorm:"type:varchar(10);not null" json:"phone_number"`
	PhoneNumber2 *string   `gorm:"type:varchar(10)" json:"phone_number_2"`
	Picture      *string   `gorm:"type:varchar(255)" json:"picture"`
	CreatedAt    time.Time `json:"created_at"`
}

func (s *Student) BeforeCreate(tx *gorm.DB) error {
	ensureID(&s.ID)
	return nil
}
