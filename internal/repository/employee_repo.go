package repository

import (
	"context"

	"backoffice/internal/listquery"
	"backoffice/internal/model"
	"backoffice/pkg/pagination"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EmployeeRepository interface {
	Create(ctx context.Context, employee *model.Employee) error
	Update(ctx context.Context, employee *model.Employee) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Employee, error)
	ReferenceTaken(ctx context.Context, reference string, excludeID uuid.UUID) (bool, error)
	List(ctx context.Context, q listquery.Query, p pagination.Params) ([]model.Employee, int64, error)
}

type employeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) EmployeeRepository {
	return &employeeRepository{db: db}
}

func (r *employeeRepository) Create(ctx context.Context, employee *model.Employee) error {
	return GetDB(ctx, r.db).Omit("Account").Create(employee).Error
}

func (r *employeeRepository) Update(ctx context.Context, employee *model.Employee) error {
	return GetDB(ctx, r.db).Omit("Account").Save(employee).Error
}

func (r *employeeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Employee{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *employeeRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Employee, error) {
	var employee model.Employee
	if err := GetDB(ctx, r.db).Preload("Account").First(&employee, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &employee, nil
}

// ReferenceTaken checks the exact reference. Pass uuid.Nil to exclude nothing.
func (r *employeeRepository) ReferenceTaken(ctx context.Context, reference string, excludeID uuid.UUID) (bool, error) {
	var count int64
	q := GetDB(ctx, r.db).Model(&model.Employee{}).Where("reference = ?", reference)
	if excludeID != uuid.Nil {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *employeeRepository) List(ctx context.Context, q listquery.Query, p pagination.Params) ([]model.Employee, int64, error) {
	var employees []model.Employee
	var total int64

	joined := func(db *gorm.DB) *gorm.DB {
		return db.Model(&model.Employee{}).Joins("JOIN accounts ON accounts.id = employees.account_id")
	}

	db := GetDB(ctx, r.db)
	if err := db.Scopes(joined, q.Where).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Scopes(joined, q.Scope).
		Select("employees.*").
		Preload("Account").
		Offset(p.Offset).Limit(p.Limit).
		Find(&employees).Error
	if err != nil {
		return nil, 0, err
	}
	return employees, total, nil
}
