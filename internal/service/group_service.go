package service

import (
	"context"

	"backoffice/internal/apperr"
	"backoffice/internal/listquery"
	"backoffice/internal/model"
	"backoffice/internal/obs"
	"backoffice/internal/repository"
	"backoffice/internal/sanitize"
	"backoffice/internal/validation"
	"backoffice/pkg/pagination"

	"github.com/google/uuid"
)

const msgGroupNameTaken = "A group with that name already exists."

type GroupRequest struct {
	Name          string   `json:"name" validate:"required,max=150"`
	PermissionIDs []string `json:"permissions"`
}

func (r GroupRequest) normalize() GroupRequest {
	r.Name = sanitize.Text(r.Name)
	return r
}

type GroupResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// GroupDetail is a group with its grants laid out for the assignment screen.
type GroupDetail struct {
	GroupResponse
	PermissionAssignment
}

type GroupService interface {
	List(ctx context.Context, q listquery.Query, p pagination.Params) (*pagination.Page[GroupResponse], error)
	Get(ctx context.Context, id uuid.UUID) (*GroupDetail, error)
	Create(ctx context.Context, req GroupRequest) (*GroupDetail, error)
	Update(ctx context.Context, id uuid.UUID, req GroupRequest) (*GroupDetail, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// Options lists every group by name for the employee form.
	Options(ctx context.Context) ([]GroupResponse, error)
}

type groupService struct {
	workflow
	groups repository.GroupRepository
	perms  PermissionService
}

func NewGroupService(repos *repository.Repositories, perms PermissionService, metrics *obs.Metrics) GroupService {
	return &groupService{
		workflow: newWorkflow(repos, metrics),
		groups:   repos.Groups,
		perms:    perms,
	}
}

func toGroupResponse(g *model.Group) GroupResponse {
	return GroupResponse{ID: g.ID, Name: g.Name}
}

func (s *groupService) detail(ctx context.Context, g *model.Group) (*GroupDetail, error) {
	assignment, err := s.perms.Assignment(ctx, model.PermissionIDs(g.Permissions))
	if err != nil {
		return nil, err
	}
	return &GroupDetail{GroupResponse: toGroupResponse(g), PermissionAssignment: *assignment}, nil
}

func (s *groupService) List(ctx context.Context, q listquery.Query, p pagination.Params) (*pagination.Page[GroupResponse], error) {
	rows, total, err := s.groups.List(ctx, q, p)
	if err != nil {
		return nil, err
	}
	items := make([]GroupResponse, 0, len(rows))
	for i := range rows {
		items = append(items, toGroupResponse(&rows[i]))
	}
	page := pagination.NewPage(items, total, p)
	return &page, nil
}

func (s *groupService) Get(ctx context.Context, id uuid.UUID) (*GroupDetail, error) {
	g, err := s.groups.FindByIDWithPermissions(ctx, id)
	if err != nil {
		return nil, notFound(err, "Group")
	}
	return s.detail(ctx, g)
}

func (s *groupService) Options(ctx context.Context) ([]GroupResponse, error) {
	rows, err := s.groups.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]GroupResponse, 0, len(rows))
	for i := range rows {
		out = append(out, toGroupResponse(&rows[i]))
	}
	return out, nil
}

func (s *groupService) Create(ctx context.Context, req GroupRequest) (*GroupDetail, error) {
	req = req.normalize()
	if err := validation.ValidateStruct(req); err != nil {
		s.metrics.Workflow("group.create", err)
		return nil, err
	}
	name := req.Name

	var group *model.Group
	err := s.run(ctx, "group.create", func(txCtx context.Context) error {
		if err := s.checkName(txCtx, name, uuid.Nil); err != nil {
			return err
		}
		perms, err := s.perms.Resolve(txCtx, req.PermissionIDs)
		if err != nil {
			return err
		}

		group = &model.Group{Name: name}
		if err := s.groups.Create(txCtx, group); err != nil {
			return uniqueField(err, "groups", "name", "name", msgGroupNameTaken)
		}
		if err := s.groups.ReplacePermissions(txCtx, group.ID, perms); err != nil {
			return err
		}
		group.Permissions = perms
		return s.record(txCtx, model.ActionCreateGroup, group.ID, group.Name, map[string]any{
			"permissions": len(perms),
		})
	})
	if err != nil {
		return nil, err
	}
	return s.detail(ctx, group)
}

func (s *groupService) Update(ctx context.Context, id uuid.UUID, req GroupRequest) (*GroupDetail, error) {
	req = req.normalize()
	if err := validation.ValidateStruct(req); err != nil {
		s.metrics.Workflow("group.update", err)
		return nil, err
	}
	name := req.Name

	var group *model.Group
	err := s.run(ctx, "group.update", func(txCtx context.Context) error {
		g, err := s.groups.FindByID(txCtx, id)
		if err != nil {
			return notFound(err, "Group")
		}
		if err := s.checkName(txCtx, name, g.ID); err != nil {
			return err
		}
		perms, err := s.perms.Resolve(txCtx, req.PermissionIDs)
		if err != nil {
			return err
		}

		g.Name = name
		if err := s.groups.Update(txCtx, g); err != nil {
			return uniqueField(err, "groups", "name", "name", msgGroupNameTaken)
		}
		if err := s.groups.ReplacePermissions(txCtx, g.ID, perms); err != nil {
			return err
		}
		g.Permissions = perms
		group = g
		return s.record(txCtx, model.ActionUpdateGroup, g.ID, g.Name, map[string]any{
			"permissions": len(perms),
		})
	})
	if err != nil {
		return nil, err
	}
	return s.detail(ctx, group)
}

func (s *groupService) checkName(ctx context.Context, name string, excludeID uuid.UUID) error {
	taken, err := s.groups.NameTaken(ctx, name, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return apperr.FieldError("name", msgGroupNameTaken)
	}
	return nil
}

// Delete removes the group. Accounts created from it keep their copied grants.
func (s *groupService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.run(ctx, "group.delete", func(txCtx context.Context) error {
		g, err := s.groups.FindByID(txCtx, id)
		if err != nil {
			return notFound(err, "Group")
		}
		if err := s.groups.Delete(txCtx, g.ID); err != nil {
			return deleteConflict(err, "group")
		}
		return s.record(txCtx, model.ActionDeleteGroup, g.ID, g.Name, nil)
	})
}
