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
	"golang.org/x/crypto/bcrypt"
)

const (
	msgEmailTaken     = "This email is already registered."
	msgReferenceTaken = "This reference already exists."
	msgInvalidChoice  = "Select a valid choice."
)

// --- DTOs ---

type CreateEmployeeRequest struct {
	Email                   string     `json:"email" validate:"required,email,max=254"`
	FirstName               string     `json:"first_name" validate:"required,max=30"`
	LastName                string     `json:"last_name" validate:"required,max=150"`
	Password1               string     `json:"password1" validate:"required,password"`
	Password2               string     `json:"password2" validate:"required,eqfield=Password1"`
	GroupID                 *uuid.UUID `json:"group_id"`
	Reference               string     `json:"reference" validate:"required,max=6"`
	Address                 string     `json:"address" validate:"required,max=255"`
	Birthdate               string     `json:"birthdate" validate:"required,datetime=2006-01-02,notfuture"`
	PhoneNumber             string     `json:"phone_number" validate:"required,max=10"`
	PhoneNumber2            *string    `json:"phone_number_2" validate:"omitempty,max=10"`
	Picture                 *string    `json:"picture" validate:"omitempty,max=255"`
	CommissionGeneralPublic bool       `json:"commission_general_public"`
	IsActive                *bool      `json:"is_active"`
}

// normalize trims and sanitizes the free-text fields so validation sees what
// will be stored.
func (r CreateEmployeeRequest) normalize() CreateEmployeeRequest {
	r.Email = model.NormalizeEmail(r.Email)
	r.FirstName = sanitize.Text(r.FirstName)
	r.LastName = sanitize.Text(r.LastName)
	r.Reference = sanitize.Text(r.Reference)
	r.Address = sanitize.Text(r.Address)
	r.PhoneNumber = sanitize.Text(r.PhoneNumber)
	r.PhoneNumber2 = sanitize.TextPtr(r.PhoneNumber2)
	r.Picture = sanitize.TextPtr(r.Picture)
	return r
}

type UpdateEmployeeRequest struct {
	Email                   string  `json:"email" validate:"required,email,max=254"`
	FirstName               string  `json:"first_name" validate:"required,max=30"`
	LastName                string  `json:"last_name" validate:"required,max=150"`
	Reference               string  `json:"reference" validate:"required,max=6"`
	Address                 string  `json:"address" validate:"required,max=255"`
	Birthdate               string  `json:"birthdate" validate:"required,datetime=2006-01-02,notfuture"`
	PhoneNumber             string  `json:"phone_number" validate:"required,max=10"`
	PhoneNumber2            *string `json:"phone_number_2" validate:"omitempty,max=10"`
	Picture                 *string `json:"picture" validate:"omitempty,max=255"`
	CommissionGeneralPublic bool    `json:"commission_general_public"`
	IsActive                *bool   `json:"is_active"`
}

func (r UpdateEmployeeRequest) normalize() UpdateEmployeeRequest {
	r.Email = model.NormalizeEmail(r.Email)
	r.FirstName = sanitize.Text(r.FirstName)
	r.LastName = sanitize.Text(r.LastName)
	r.Reference = sanitize.Text(r.Reference)
	r.Address = sanitize.Text(r.Address)
	r.PhoneNumber = sanitize.Text(r.PhoneNumber)
	r.PhoneNumber2 = sanitize.TextPtr(r.PhoneNumber2)
	r.Picture = sanitize.TextPtr(r.Picture)
	return r
}

type EmployeeResponse struct {
	ID                      uuid.UUID  `json:"id"`
	AccountID               uuid.UUID  `json:"account_id"`
	Email                   string     `json:"email"`
	FirstName               string     `json:"first_name"`
	LastName                string     `json:"last_name"`
	FullName                string     `json:"full_name"`
	IsActive                bool       `json:"is_active"`
	Reference               string     `json:"reference"`
	Address                 string     `json:"address"`
	Birthdate               string     `json:"birthdate"`
	PhoneNumber             string     `json:"phone_number"`
	PhoneNumber2            *string    `json:"phone_number_2"`
	Picture                 *string    `json:"picture"`
	CommissionGeneralPublic bool       `json:"commission_general_public"`
	LastLogin               *time.Time `json:"last_login"`
	CreatedAt               time.Time  `json:"created_at"`
	UpdatedAt               time.Time  `json:"updated_at"`
}

func toEmployeeResponse(e *model.Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:                      e.ID,
		AccountID:               e.AccountID,
		Email:                   e.Account.Email,
		FirstName:               e.Account.FirstName,
		LastName:                e.Account.LastName,
		FullName:                e.Account.FullName(),
		IsActive:                e.Account.IsActive,
		Reference:               e.Reference,
		Address:                 e.Address,
		Birthdate:               e.Birthdate.Format(validation.DateLayout),
		PhoneNumber:             e.PhoneNumber,
		PhoneNumber2:            e.PhoneNumber2,
		Picture:                 e.Picture,
		CommissionGeneralPublic: e.CommissionGeneralPublic,
		LastLogin:               e.Account.LastLogin,
		CreatedAt:               e.CreatedAt,
		UpdatedAt:               e.UpdatedAt,
	}
}

// EmployeeService manages employees together with the account each one owns.
type EmployeeService interface {
	List(ctx context.Context, q listquery.Query, p pagination.Params) (*pagination.Page[EmployeeResponse], error)
	Get(ctx context.Context, id uuid.UUID) (*EmployeeResponse, error)
	Create(ctx context.Context, req CreateEmployeeRequest) (*EmployeeResponse, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateEmployeeRequest) (*EmployeeResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Permissions(ctx context.Context, id uuid.UUID) (*PermissionAssignment, error)
	ReplacePermissions(ctx context.Context, id uuid.UUID, rawIDs []string) (*PermissionAssignment, error)
}

type employeeService struct {
	workflow
	accounts   repository.AccountRepository
	employees  repository.EmployeeRepository
	groups     repository.GroupRepository
	perms      PermissionService
	bcryptCost int
}

func NewEmployeeService(repos *repository.Repositories, perms PermissionService, metrics *obs.Metrics, bcryptCost int) EmployeeService {
	return &employeeService{
		workflow:   newWorkflow(repos, metrics),
		accounts:   repos.Accounts,
		employees:  repos.Employees,
		groups:     repos.Groups,
		perms:      perms,
		bcryptCost: bcryptCost,
	}
}

func (s *employeeService) List(ctx context.Context, q listquery.Query, p pagination.Params) (*pagination.Page[EmployeeResponse], error) {
	rows, total, err := s.employees.List(ctx, q, p)
	if err != nil {
		return nil, err
	}
	items := make([]EmployeeResponse, 0, len(rows))
	for i := range rows {
		items = append(items, toEmployeeResponse(&rows[i]))
	}
	page := pagination.NewPage(items, total, p)
	return &page, nil
}

func (s *employeeService) Get(ctx context.Context, id uuid.UUID) (*EmployeeResponse, error) {
	e, err := s.employees.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Employee")
	}
	res := toEmployeeResponse(e)
	return &res, nil
}

// checkUnique runs the advisory uniqueness checks shared by create and update.
func (s *employeeService) checkUnique(ctx context.Context, fields apperr.FieldErrors, email, reference string, accountID, employeeID uuid.UUID) error {
	taken, err := s.accounts.EmailTaken(ctx, email, accountID)
	if err != nil {
		return err
	}
	if taken {
		fields.Add("email", msgEmailTaken)
	}
	taken, err = s.employees.ReferenceTaken(ctx, reference, employeeID)
	if err != nil {
		return err
	}
	if taken {
		fields.Add("reference", msgReferenceTaken)
	}
	return nil
}

func mapEmployeeWriteError(err error) error {
	if err == nil {
		return nil
	}
	if repository.UniqueViolationOn(err, "accounts", "email") {
		return apperr.FieldError("email", msgEmailTaken)
	}
	return uniqueField(err, "employees", "reference", "reference", msgReferenceTaken)
}

func (s *employeeService) Create(ctx context.Context, req CreateEmployeeRequest) (*EmployeeResponse, error) {
	req = req.normalize()
	if err := validation.ValidateStruct(req); err != nil {
		s.metrics.Workflow("employee.create", err)
		return nil, err
	}
	birthdate, _ := time.Parse(validation.DateLayout, req.Birthdate)
	email := req.Email
	reference := req.Reference

	var employee *model.Employee
	err := s.run(ctx, "employee.create", func(txCtx context.Context) error {
		fields := apperr.FieldErrors{}
		if err := s.checkUnique(txCtx, fields, email, reference, uuid.Nil, uuid.Nil); err != nil {
			return err
		}

		var group *model.Group
		if req.GroupID != nil {
			g, err := s.groups.FindByIDWithPermissions(txCtx, *req.GroupID)
			switch {
			case repository.IsNotFound(err):
				fields.Add("group_id", msgInvalidChoice)
			case err != nil:
				return err
			default:
				group = g
			}
		}
		if err := fields.Err(); err != nil {
			return err
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password1), s.bcryptCost)
		if err != nil {
			return err
		}

		account := &model.Account{
			Email:     email,
			Password:  string(hash),
			FirstName: req.FirstName,
			LastName:  req.LastName,
			IsActive:  boolOr(req.IsActive, true),
			IsStaff:   true,
		}
		if err := s.accounts.Create(txCtx, account); err != nil {
			return mapEmployeeWriteError(err)
		}

		employee = &model.Employee{
			AccountID:               account.ID,
			Address:                 req.Address,
			Birthdate:               birthdate,
			CommissionGeneralPublic: req.CommissionGeneralPublic,
			PhoneNumber:             req.PhoneNumber,
			PhoneNumber2:            req.PhoneNumber2,
			Picture:                 req.Picture,
			Reference:               reference,
		}
		if err := s.employees.Create(txCtx, employee); err != nil {
			return mapEmployeeWriteError(err)
		}
		employee.Account = *account

		details := map[string]any{"email": account.Email, "reference": employee.Reference}
		if group != nil {
			// Grants are copied; later edits to the group do not reach the account.
			if err := s.accounts.ReplacePermissions(txCtx, account.ID, group.Permissions); err != nil {
				return err
			}
			details["group"] = group.Name
			details["permissions"] = len(group.Permissions)
		}
		return s.record(txCtx, model.ActionCreateEmployee, employee.ID, account.FullName(), details)
	})
	if err != nil {
		return nil, err
	}

	res := toEmployeeResponse(employee)
	return &res, nil
}

func (s *employeeService) Update(ctx context.Context, id uuid.UUID, req UpdateEmployeeRequest) (*EmployeeResponse, error) {
	req = req.normalize()
	if err := validation.ValidateStruct(req); err != nil {
		s.metrics.Workflow("employee.update", err)
		return nil, err
	}
	birthdate, _ := time.Parse(validation.DateLayout, req.Birthdate)
	email := req.Email
	reference := req.Reference

	var employee *model.Employee
	err := s.run(ctx, "employee.update", func(txCtx context.Context) error {
		e, err := s.employees.FindByID(txCtx, id)
		if err != nil {
			return notFound(err, "Employee")
		}

		fields := apperr.FieldErrors{}
		if err := s.checkUnique(txCtx, fields, email, reference, e.AccountID, e.ID); err != nil {
			return err
		}
		if err := fields.Err(); err != nil {
			return err
		}

		account := e.Account
		account.Email = email
		account.FirstName = req.FirstName
		account.LastName = req.LastName
		account.IsActive = boolOr(req.IsActive, true)
		if err := s.accounts.Update(txCtx, &account); err != nil {
			return mapEmployeeWriteError(err)
		}

		e.Address = req.Address
		e.Birthdate = birthdate
		e.CommissionGeneralPublic = req.CommissionGeneralPublic
		e.PhoneNumber = req.PhoneNumber
		e.PhoneNumber2 = req.PhoneNumber2
		e.Picture = req.Picture
		e.Reference = reference
		if err := s.employees.Update(txCtx, e); err != nil {
			return mapEmployeeWriteError(err)
		}
		e.Account = account
		employee = e

		return s.record(txCtx, model.ActionUpdateEmployee, e.ID, account.FullName(), map[string]any{
			"email":     account.Email,
			"reference": e.Reference,
			"is_active": account.IsActive,
		})
	})
	if err != nil {
		return nil, err
	}

	res := toEmployeeResponse(employee)
	return &res, nil
}

// Delete removes the employee and its account. If anything still references the
// employee the whole deletion is rolled back and both records remain.
func (s *employeeService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.run(ctx, "employee.delete", func(txCtx context.Context) error {
		e, err := s.employees.FindByID(txCtx, id)
		if err != nil {
			return notFound(err, "Employee")
		}
		// Recorded first: the actor may be the account being removed, and the
		// audit row's actor is nulled when it goes.
		if err := s.record(txCtx, model.ActionDeleteEmployee, e.ID, e.Account.FullName(), map[string]any{
			"email":     e.Account.Email,
			"reference": e.Reference,
		}); err != nil {
			return err
		}
		if err := s.employees.Delete(txCtx, e.ID); err != nil {
			return deleteConflict(err, "employee")
		}
		if err := s.accounts.Delete(txCtx, e.AccountID); err != nil {
			return deleteConflict(err, "employee")
		}
		return nil
	})
}

func (s *employeeService) Permissions(ctx context.Context, id uuid.UUID) (*PermissionAssignment, error) {
	e, err := s.employees.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Employee")
	}
	current, err := s.accounts.ListPermissions(ctx, e.AccountID)
	if err != nil {
		return nil, err
	}
	return s.perms.Assignment(ctx, model.PermissionIDs(current))
}

// ReplacePermissions sets the account's direct grants to exactly the submitted
// ids that exist and are assignable. Everything else is dropped silently.
func (s *employeeService) ReplacePermissions(ctx context.Context, id uuid.UUID, rawIDs []string) (*PermissionAssignment, error) {
	var applied []model.Permission
	err := s.run(ctx, "employee.permissions", func(txCtx context.Context) error {
		e, err := s.employees.FindByID(txCtx, id)
		if err != nil {
			return notFound(err, "Employee")
		}
		applied, err = s.perms.Resolve(txCtx, rawIDs)
		if err != nil {
			return err
		}
		if err := s.accounts.ReplacePermissions(txCtx, e.AccountID, applied); err != nil {
			return err
		}
		codenames := make([]string, len(applied))
		for i, p := range applied {
			codenames[i] = p.Codename
		}
		return s.record(txCtx, model.ActionReplaceAccountPermission, e.ID, e.Account.FullName(), map[string]any{
			"account_id":  e.AccountID,
			"permissions": codenames,
		})
	})
	if err != nil {
		return nil, err
	}
	return s.perms.Assignment(ctx, model.PermissionIDs(applied))
}
