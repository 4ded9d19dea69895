package service

import (
	"context"
	"fmt"

	"backoffice/internal/model"
	"backoffice/internal/permission"
	"backoffice/internal/repository"

	"github.com/google/uuid"
)

// PermissionAssignment is the payload of every permission-assignment screen.
type PermissionAssignment struct {
	PermsByModel []permission.Node `json:"perms_by_model"`
	SelectedIDs  []uuid.UUID       `json:"selected_ids"`
}

type PermissionService interface {
	// Sync makes the permissions table mirror the registry.
	Sync(ctx context.Context) error
	// Assignment builds the catalog tree with selected marked.
	Assignment(ctx context.Context, selected []uuid.UUID) (*PermissionAssignment, error)
	// Resolve keeps the submitted ids that exist and are assignable.
	Resolve(ctx context.Context, rawIDs []string) ([]model.Permission, error)
}

type permissionService struct {
	repo    repository.PermissionRepository
	catalog *permission.Catalog
	defs    []permission.ModelDef
}

func NewPermissionService(repo repository.PermissionRepository, catalog *permission.Catalog, defs []permission.ModelDef) PermissionService {
	return &permissionService{repo: repo, catalog: catalog, defs: defs}
}

func (s *permissionService) Sync(ctx context.Context) error {
	for _, p := range permission.Seed(s.defs) {
		if err := s.repo.FindOrCreate(ctx, &p); err != nil {
			return fmt.Errorf("sync permission %s: %w", p.Codename, err)
		}
	}
	return nil
}

func (s *permissionService) Assignment(ctx context.Context, selected []uuid.UUID) (*PermissionAssignment, error) {
	all, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if selected == nil {
		selected = []uuid.UUID{}
	}
	return &PermissionAssignment{
		PermsByModel: s.catalog.Build(all, selected),
		SelectedIDs:  selected,
	}, nil
}

func (s *permissionService) Resolve(ctx context.Context, rawIDs []string) ([]model.Permission, error) {
	ids := ParseIDs(rawIDs)
	if len(ids) == 0 {
		return []model.Permission{}, nil
	}
	perms, err := s.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return s.catalog.FilterAllowed(perms), nil
}
