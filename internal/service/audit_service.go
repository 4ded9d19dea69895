package service

import (
	"context"

	"backoffice/internal/repository"
	"backoffice/pkg/pagination"
)

type AuditLogResponse struct {
	ID         string `json:"id"`
	AccountID  string `json:"account_id"`
	Actor      string `json:"actor"`
	Action     string `json:"action"`
	EntityID   string `json:"entity_id"`
	EntityName string `json:"entity_name"`
	Details    string `json:"details"`
	CreatedAt  string `json:"created_at"`
}

type AuditService interface {
	// GetAuditLogs pages through the trail, newest first, optionally for one action.
	GetAuditLogs(ctx context.Context, action string, p pagination.Params) (*pagination.Page[AuditLogResponse], error)
}

type auditService struct {
	repo repository.AuditRepository
}

func NewAuditService(repo repository.AuditRepository) AuditService {
	return &auditService{repo: repo}
}

func (s *auditService) GetAuditLogs(ctx context.Context, action string, p pagination.Params) (*pagination.Page[AuditLogResponse], error) {
	logs, total, err := s.repo.List(ctx, action, p.Page, p.Limit)
	if err != nil {
		return nil, err
	}

	res := make([]AuditLogResponse, 0, len(logs))
	for _, l := range logs {
		actor := "System"
		accountID := ""
		if l.Account != nil {
			actor = l.Account.Email
		}
		if l.AccountID != nil {
			accountID = l.AccountID.String()
		}

		res = append(res, AuditLogResponse{
			ID:         l.ID.String(),
			AccountID:  accountID,
			Actor:      actor,
			Action:     l.Action,
			EntityID:   l.EntityID,
			EntityName: l.EntityName,
			Details:    l.Details,
			CreatedAt:  l.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}

	page := pagination.NewPage(res, total, p)
	return &page, nil
}
