package repository

import (
	"context"

	"backoffice/internal/model"

	"gorm.io/gorm"
)

type StatisticsRepository interface {
	Summary(ctx context.Context) (*model.DashboardSummary, error)
}

type statisticsRepository struct {
	db *gorm.DB
}

func NewStatisticsRepository(db *gorm.DB) StatisticsRepository {
	return &statisticsRepository{db: db}
}

func (r *statisticsRepository) Summary(ctx context.Context) (*model.DashboardSummary, error) {
	db := GetDB(ctx, r.db)
	var s model.DashboardSummary

	counts := []struct {
		dest  *int64
		query *gorm.DB
	}{
		{&s.TotalEmployees, db.Model(&model.Employee{})},
		{&s.ActiveEmployees, db.Model(&model.Employee{}).
			Joins("JOIN accounts ON accounts.id = employees.account_id").
			Where("accounts.is_active = ?", true)},
		{&s.TotalGroups, db.Model(&model.Group{})},
		{&s.TotalCategories, db.Model(&model.Category{})},
		{&s.ActiveSubCategories, db.Model(&model.SubCategory{}).Where("is_active = ?", true)},
		{&s.TotalEnrollments, db.Model(&model.Enrollment{})},
	}
	for _, c := range counts {
		if err := c.query.Count(c.dest).Error; err != nil {
			return nil, err
		}
	}
	return &s, nil
}
