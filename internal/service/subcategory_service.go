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
	"github.com/shopspring/decimal"
)

// Amounts are stored as decimal(10,2).
var maxAmount = decimal.New(1, 8)

type SubCategoryRequest struct {
	CategoryID                    uuid.UUID       `json:"category_id" validate:"required"`
	Name                          string          `json:"name" validate:"required,max=50"`
	Price                         decimal.Decimal `json:"price"`
	RegistrationPrice             decimal.Decimal `json:"registration_price"`
	TuitionPrice                  decimal.Decimal `json:"tuition_price"`
	CertificationPrice            decimal.Decimal `json:"certification_price"`
	ExamPrice                     decimal.Decimal `json:"exam_price"`
	OpeningCommissionAmount       decimal.Decimal `json:"opening_commission_amount"`
	ClosingCommissionAmount       decimal.Decimal `json:"closing_commission_amount"`
	NewOpeningCommissionAmount    decimal.Decimal `json:"new_opening_commission_amount"`
	ThresholdSalesAmount          int64           `json:"threshold_sales_amount" validate:"gte=0,max=2147483647"`
	CommissionAmountGeneralPublic decimal.Decimal `json:"commission_amount_general_public"`
	IsGeneralPublic               bool            `json:"is_general_public"`
	IsActive                      *bool           `json:"is_active"`
}

func (r SubCategoryRequest) amounts() map[string]decimal.Decimal {
	return map[string]decimal.Decimal{
		"price":                            r.Price,
		"registration_price":               r.RegistrationPrice,
		"tuition_price":                    r.TuitionPrice,
		"certification_price":              r.CertificationPrice,
		"exam_price":                       r.ExamPrice,
		"opening_commission_amount":        r.OpeningCommissionAmount,
		"closing_commission_amount":        r.ClosingCommissionAmount,
		"new_opening_commission_amount":    r.NewOpeningCommissionAmount,
		"commission_amount_general_public": r.CommissionAmountGeneralPublic,
	}
}

func (r SubCategoryRequest) normalize() SubCategoryRequest {
	r.Name = sanitize.Text(r.Name)
	return r
}

// validate runs the tag rules plus the amount checks the tags cannot express.
func (r SubCategoryRequest) validate() error {
	fields := apperr.FieldErrors{}
	if err := validation.ValidateStruct(r); err != nil {
		appErr, ok := apperr.As(err)
		if !ok || appErr.Fields == nil {
			return err
		}
		for f, msg := range appErr.Fields {
			fields.Add(f, msg)
		}
	}
	for field, v := range r.amounts() {
		switch {
		case v.IsNegative():
			fields.Add(field, "Ensure this value is greater than or equal to 0.")
		case !v.Equal(v.Round(2)):
			fields.Add(field, "Ensure that there are no more than 2 decimal places.")
		case v.GreaterThanOrEqual(maxAmount):
			fields.Add(field, "Ensure that there are no more than 10 digits in total.")
		}
	}
	return fields.Err()
}

func (r SubCategoryRequest) apply(sub *model.SubCategory) {
	sub.CategoryID = r.CategoryID
	sub.Name = r.Name
	sub.Price = r.Price
	sub.RegistrationPrice = r.RegistrationPrice
	sub.TuitionPrice = r.TuitionPrice
	sub.CertificationPrice = r.CertificationPrice
	sub.ExamPrice = r.ExamPrice
	sub.OpeningCommissionAmount = r.OpeningCommissionAmount
	sub.ClosingCommissionAmount = r.ClosingCommissionAmount
	sub.NewOpeningCommissionAmount = r.NewOpeningCommissionAmount
	sub.ThresholdSalesAmount = uint(r.ThresholdSalesAmount)
	sub.CommissionAmountGeneralPublic = r.CommissionAmountGeneralPublic
	sub.IsGeneralPublic = r.IsGeneralPublic
	sub.IsActive = boolOr(r.IsActive, true)
}

type SubCategoryResponse struct {
	ID                            uuid.UUID       `json:"id"`
	CategoryID                    uuid.UUID       `json:"category_id"`
	CategoryName                  string          `json:"category_name"`
	Name                          string          `json:"name"`
	Price                         decimal.Decimal `json:"price"`
	RegistrationPrice             decimal.Decimal `json:"registration_price"`
	TuitionPrice                  decimal.Decimal `json:"tuition_price"`
	CertificationPrice            decimal.Decimal `json:"certification_price"`
	ExamPrice                     decimal.Decimal `json:"exam_price"`
	OpeningCommissionAmount       decimal.Decimal `json:"opening_commission_amount"`
	ClosingCommissionAmount       decimal.Decimal `json:"closing_commission_amount"`
	NewOpeningCommissionAmount    decimal.Decimal `json:"new_opening_commission_amount"`
	ThresholdSalesAmount          uint            `json:"threshold_sales_amount"`
	CommissionAmountGeneralPublic decimal.Decimal `json:"commission_amount_general_public"`
	IsGeneralPublic               bool            `json:"is_general_public"`
	IsActive                      bool            `json:"is_active"`
	CreatedAt                     time.Time       `json:"created_at"`
	UpdatedAt                     time.Time       `json:"updated_at"`
}

func toSubCategoryResponse(s *model.SubCategory) SubCategoryResponse {
	res := SubCategoryResponse{
		ID:                            s.ID,
		CategoryID:                    s.CategoryID,
		Name:                          s.Name,
		Price:                         s.Price,
		RegistrationPrice:             s.RegistrationPrice,
		TuitionPrice:                  s.TuitionPrice,
		CertificationPrice:            s.CertificationPrice,
		ExamPrice:                     s.ExamPrice,
		OpeningCommissionAmount:       s.OpeningCommissionAmount,
		ClosingCommissionAmount:       s.ClosingCommissionAmount,
		NewOpeningCommissionAmount:    s.NewOpeningCommissionAmount,
		ThresholdSalesAmount:          s.ThresholdSalesAmount,
		CommissionAmountGeneralPublic: s.CommissionAmountGeneralPublic,
		IsGeneralPublic:               s.IsGeneralPublic,
		IsActive:                      s.IsActive,
		CreatedAt:                     s.CreatedAt,
		UpdatedAt:                     s.UpdatedAt,
	}
	if s.Category != nil {
		res.CategoryName = s.Category.Name
	}
	return res
}

type SubCategoryService interface {
	List(ctx context.Context, q listquery.Query, p pagination.Params) (*pagination.Page[SubCategoryResponse], error)
	Get(ctx context.Context, id uuid.UUID) (*SubCategoryResponse, error)
	Create(ctx context.Context, req SubCategoryRequest) (*SubCategoryResponse, error)
	Update(ctx context.Context, id uuid.UUID, req SubCategoryRequest) (*SubCategoryResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type subCategoryService struct {
	workflow
	categories    repository.CategoryRepository
	subCategories repository.SubCategoryRepository
}

func NewSubCategoryService(repos *repository.Repositories, metrics *obs.Metrics) SubCategoryService {
	return &subCategoryService{
		workflow:      newWorkflow(repos, metrics),
		categories:    repos.Categories,
		subCategories: repos.SubCategories,
	}
}

func (s *subCategoryService) List(ctx context.Context, q listquery.Query, p pagination.Params) (*pagination.Page[SubCategoryResponse], error) {
	rows, total, err := s.subCategories.List(ctx, q, p)
	if err != nil {
		return nil, err
	}
	items := make([]SubCategoryResponse, 0, len(rows))
	for i := range rows {
		items = append(items, toSubCategoryResponse(&rows[i]))
	}
	page := pagination.NewPage(items, total, p)
	return &page, nil
}

func (s *subCategoryService) Get(ctx context.Context, id uuid.UUID) (*SubCategoryResponse, error) {
	sub, err := s.subCategories.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Sub category")
	}
	res := toSubCategoryResponse(sub)
	return &res, nil
}

// activeCategory loads the chosen category, which must exist and be active.
func (s *subCategoryService) activeCategory(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	c, err := s.categories.FindByID(ctx, id)
	if repository.IsNotFound(err) || (err == nil && !c.IsActive) {
		return nil, apperr.FieldError("category_id", msgInvalidChoice)
	}
	return c, err
}

func (s *subCategoryService) Create(ctx context.Context, req SubCategoryRequest) (*SubCategoryResponse, error) {
	req = req.normalize()
	if err := req.validate(); err != nil {
		s.metrics.Workflow("subcategory.create", err)
		return nil, err
	}

	sub := &model.SubCategory{}
	err := s.run(ctx, "subcategory.create", func(txCtx context.Context) error {
		category, err := s.activeCategory(txCtx, req.CategoryID)
		if err != nil {
			return err
		}
		req.apply(sub)
		if err := s.subCategories.Create(txCtx, sub); err != nil {
			return err
		}
		sub.Category = category
		return s.record(txCtx, model.ActionCreateSubCategory, sub.ID, sub.Name, map[string]any{
			"category": category.Name,
			"price":    sub.Price.StringFixed(2),
		})
	})
	if err != nil {
		return nil, err
	}
	res := toSubCategoryResponse(sub)
	return &res, nil
}

func (s *subCategoryService) Update(ctx context.Context, id uuid.UUID, req SubCategoryRequest) (*SubCategoryResponse, error) {
	req = req.normalize()
	if err := req.validate(); err != nil {
		s.metrics.Workflow("subcategory.update", err)
		return nil, err
	}

	var sub *model.SubCategory
	err := s.run(ctx, "subcategory.update", func(txCtx context.Context) error {
		existing, err := s.subCategories.FindByID(txCtx, id)
		if err != nil {
			return notFound(err, "Sub category")
		}
		category, err := s.activeCategory(txCtx, req.CategoryID)
		if err != nil {
			return err
		}
		req.apply(existing)
		if err := s.subCategories.Update(txCtx, existing); err != nil {
			return err
		}
		existing.Category = category
		sub = existing
		return s.record(txCtx, model.ActionUpdateSubCategory, sub.ID, sub.Name, map[string]any{
			"category": category.Name,
			"price":    sub.Price.StringFixed(2),
		})
	})
	if err != nil {
		return nil, err
	}
	res := toSubCategoryResponse(sub)
	return &res, nil
}

func (s *subCategoryService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.run(ctx, "subcategory.delete", func(txCtx context.Context) error {
		sub, err := s.subCategories.FindByID(txCtx, id)
		if err != nil {
			return notFound(err, "Sub category")
		}
		if err := s.subCategories.Delete(txCtx, sub.ID); err != nil {
			return deleteConflict(err, "sub category")
		}
		return s.record(txCtx, model.ActionDeleteSubCategory, sub.ID, sub.Name, nil)
	})
}
