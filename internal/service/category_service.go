package service

import (
	"context"
	"time"

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

const msgCategoryNameTaken = "A category with that name already exists."

type CategoryRequest struct {
	Name     string `json:"name" validate:"required,max=60"`
	IsActive *bool  `json:"is_active"`
}

func (r CategoryRequest) normalize() CategoryRequest {
	r.Name = sanitize.Text(r.Name)
	return r
}

type CategoryResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CategoryOption is one entry of the sub-category form's category picker.
type CategoryOption struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type CategoryService interface {
	List(ctx context.Context, q listquery.Query, p pagination.Params) (*pagination.Page[CategoryResponse], error)
	Get(ctx context.Context, id uuid.UUID) (*CategoryResponse, error)
	Create(ctx context.Context, req CategoryRequest) (*CategoryResponse, error)
	Update(ctx context.Context, id uuid.UUID, req CategoryRequest) (*CategoryResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Options(ctx context.Context) ([]CategoryOption, error)
}

type categoryService struct {
	workflow
	categories repository.CategoryRepository
}

func NewCategoryService(repos *repository.Repositories, metrics *obs.Metrics) CategoryService {
	return &categoryService{workflow: newWorkflow(repos, metrics), categories: repos.Categories}
}

func toCategoryResponse(c *model.Category) CategoryResponse {
	return CategoryResponse{
		ID:        c.ID,
		Name:      c.Name,
		IsActive:  c.IsActive,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func (s *categoryService) List(ctx context.Context, q listquery.Query, p pagination.Params) (*pagination.Page[CategoryResponse], error) {
	rows, total, err := s.categories.List(ctx, q, p)
	if err != nil {
		return nil, err
	}
	items := make([]CategoryResponse, 0, len(rows))
	for i := range rows {
		items = append(items, toCategoryResponse(&rows[i]))
	}
	page := pagination.NewPage(items, total, p)
	return &page, nil
}

func (s *categoryService) Get(ctx context.Context, id uuid.UUID) (*CategoryResponse, error) {
	c, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Category")
	}
	res := toCategoryResponse(c)
	return &res, nil
}

// Options returns active categories ordered by name.
func (s *categoryService) Options(ctx context.Context) ([]CategoryOption, error) {
	rows, err := s.categories.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]CategoryOption, 0, len(rows))
	for _, c := range rows {
		out = append(out, CategoryOption{ID: c.ID, Name: c.Name})
	}
	return out, nil
}

func (s *categoryService) Create(ctx context.Context, req CategoryRequest) (*CategoryResponse, error) {
	req = req.normalize()
	if err := validation.ValidateStruct(req); err != nil {
		s.metrics.Workflow("category.create", err)
		return nil, err
	}
	c := &model.Category{Name: req.Name, IsActive: boolOr(req.IsActive, true)}

	err := s.run(ctx, "category.create", func(txCtx context.Context) error {
		if err := s.checkName(txCtx, c.Name, uuid.Nil); err != nil {
			return err
		}
		if err := s.categories.Create(txCtx, c); err != nil {
			return uniqueField(err, "categories", "name", "name", msgCategoryNameTaken)
		}
		return s.record(txCtx, model.ActionCreateCategory, c.ID, c.Name, map[string]any{"is_active": c.IsActive})
	})
	if err != nil {
		return nil, err
	}
	res := toCategoryResponse(c)
	return &res, nil
}

func (s *categoryService) Update(ctx context.Context, id uuid.UUID, req CategoryRequest) (*CategoryResponse, error) {
	req = req.normalize()
	if err := validation.ValidateStruct(req); err != nil {
		s.metrics.Workflow("category.update", err)
		return nil, err
	}

	var category *model.Category
	err := s.run(ctx, "category.update", func(txCtx context.Context) error {
		c, err := s.categories.FindByID(txCtx, id)
		if err != nil {
			return notFound(err, "Category")
		}
		c.Name = req.Name
		c.IsActive = boolOr(req.IsActive, true)
		if err := s.checkName(txCtx, c.Name, c.ID); err != nil {
			return err
		}
		if err := s.categories.Update(txCtx, c); err != nil {
			return uniqueField(err, "categories", "name", "name", msgCategoryNameTaken)
		}
		category = c
		return s.record(txCtx, model.ActionUpdateCategory, c.ID, c.Name, map[string]any{"is_active": c.IsActive})
	})
	if err != nil {
		return nil, err
	}
	res := toCategoryResponse(category)
	return &res, nil
}

func (s *categoryService) checkName(ctx context.Context, name string, excludeID uuid.UUID) error {
	taken, err := s.categories.NameTaken(ctx, name, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return apperr.FieldError("name", msgCategoryNameTaken)
	}
	return nil
}

// Delete removes the category and, by cascade, its sub-categories. A
// sub-category with enrollments blocks the whole deletion.
func (s *categoryService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.run(ctx, "category.delete", func(txCtx context.Context) error {
		c, err := s.categories.FindByID(txCtx, id)
		if err != nil {
			return notFound(err, "Category")
		}
		if err := s.categories.Delete(txCtx, c.ID); err != nil {
			return deleteConflict(err, "category")
		}
		return s.record(txCtx, model.ActionDeleteCategory, c.ID, c.Name, nil)
	})
}
