package service

import (
	"context"

	"backoffice/internal/model"
	"backoffice/internal/repository"
)

type StatisticsService interface {
	// Dashboard returns the head counts shown on the landing page.
	Dashboard(ctx context.Context) (*model.DashboardSummary, error)
}

type statisticsService struct {
	repo repository.StatisticsRepository
}

func NewStatisticsService(repo repository.StatisticsRepository) StatisticsService {
	return &statisticsService{repo: repo}
}

func (s *statisticsService) Dashboard(ctx context.Context) (*model.DashboardSummary, error) {
	return s.repo.Summary(ctx)
}
