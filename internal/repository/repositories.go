package repository

import "gorm.io/gorm"

// Repositories bundles every store the services run against, sharing one connection
// and one transaction manager.
type Repositories struct {
	Tx            TransactionManager
	Accounts      AccountRepository
	Employees     EmployeeRepository
	Groups        GroupRepository
	Permissions   PermissionRepository
	Categories    CategoryRepository
	SubCategories SubCategoryRepository
	Sessions      SessionRepository
	Audit         AuditRepository
	Statistics    StatisticsRepository
}

func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Tx:            NewTransactionManager(db),
		Accounts:      NewAccountRepository(db),
		Employees:     NewEmployeeRepository(db),
		Groups:        NewGroupRepository(db),
		Permissions:   NewPermissionRepository(db),
		Categories:    NewCategoryRepository(db),
		SubCategories: NewSubCategoryRepository(db),
		Sessions:      NewSessionRepository(db),
		Audit:         NewAuditRepository(db),
		Statistics:    NewStatisticsRepository(db),
	}
}
