package service

import (
	"backoffice/internal/config"
	"backoffice/internal/obs"
	"backoffice/internal/permission"
	"backoffice/internal/repository"
	"backoffice/internal/session"
)

// Services is the full set of application services sharing one database.
type Services struct {
	Auth          AuthService
	Permissions   PermissionService
	Employees     EmployeeService
	Groups        GroupService
	Categories    CategoryService
	SubCategories SubCategoryService
	Audit         AuditService
	Statistics    StatisticsService
}

func NewServices(repos *repository.Repositories, sessions session.Store, cfg *config.Config, metrics *obs.Metrics) *Services {
	catalog := permission.NewCatalog(permission.Registry, cfg.App.Language)
	perms := NewPermissionService(repos.Permissions, catalog, permission.Registry)

	return &Services{
		Auth:          NewAuthService(repos, sessions, cfg.Auth, metrics),
		Permissions:   perms,
		Employees:     NewEmployeeService(repos, perms, metrics, cfg.Auth.BcryptCost),
		Groups:        NewGroupService(repos, perms, metrics),
		Categories:    NewCategoryService(repos, metrics),
		SubCategories: NewSubCategoryService(repos, metrics),
		Audit:         NewAuditService(repos.Audit),
		Statistics:    NewStatisticsService(repos.Statistics),
	}
}
