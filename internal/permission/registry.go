// Package permission declares which models carry permissions and builds the
// grouped, labeled catalog shown on permission-assignment screens.
package permission

import "fmt"

const (
	ActionView   = "view"
	ActionAdd    = "add"
	ActionChange = "change"
	ActionDelete = "delete"
)

// DefaultActions are generated for every registered model.
var DefaultActions = []string{ActionView, ActionAdd, ActionChange, ActionDelete}

// Denylist is the single set of namespaces never offered for assignment.
var Denylist = []string{"admin", "contenttypes", "sessions", "users"}

// LogEntryModel is the admin audit model; its permissions are never assignable.
const LogEntryModel = "logentry"

// ModelDef is one registered model.
type ModelDef struct {
	Namespace string
	Model     string
	Label     string
	Actions   []string
	// Business is false for framework namespaces.
	Business bool
}

// Key identifies the model as "namespace.model".
func (m ModelDef) Key() string {
	return m.Namespace + "." + m.Model
}

// Registry is the static list of models with permissions.
var Registry = []ModelDef{
	{Namespace: "admin", Model: LogEntryModel, Label: "Log entry"},
	{Namespace: "auth", Model: "group", Label: "Group"},
	{Namespace: "auth", Model: "permission", Label: "Permission"},
	{Namespace: "contenttypes", Model: "contenttype", Label: "Content type"},
	{Namespace: "sessions", Model: "session", Label: "Session"},
	{Namespace: "users", Model: "account", Label: "Account", Business: true},
	{Namespace: "employees", Model: "employee", Label: "Employee", Business: true},
	{Namespace: "students", Model: "student", Label: "Student", Business: true},
	{Namespace: "modalities", Model: "category", Label: "Category", Business: true},
	{Namespace: "modalities", Model: "subcategory", Label: "Sub category", Business: true},
	{Namespace: "enrollments", Model: "enrollment", Label: "Enrollment", Business: true},
}

// Codename builds "<action>_<model>".
func Codename(action, model string) string {
	return action + "_" + model
}

// Codes used by route guards.
var (
	ViewEmployee   = Codename(ActionView, "employee")
	AddEmployee    = Codename(ActionAdd, "employee")
	ChangeEmployee = Codename(ActionChange, "employee")
	DeleteEmployee = Codename(ActionDelete, "employee")

	ViewGroup   = Codename(ActionView, "group")
	AddGroup    = Codename(ActionAdd, "group")
	ChangeGroup = Codename(ActionChange, "group")
	DeleteGroup = Codename(ActionDelete, "group")

	ViewCategory   = Codename(ActionView, "category")
	AddCategory    = Codename(ActionAdd, "category")
	ChangeCategory = Codename(ActionChange, "category")
	DeleteCategory = Codename(ActionDelete, "category")

	ViewSubCategory   = Codename(ActionView, "subcategory")
	AddSubCategory    = Codename(ActionAdd, "subcategory")
	ChangeSubCategory = Codename(ActionChange, "subcategory")
	DeleteSubCategory = Codename(ActionDelete, "subcategory")

	ViewLogEntry = Codename(ActionView, LogEntryModel)
)

func defaultName(action, label string) string {
	return fmt.Sprintf("Can %s %s", action, lowerFirst(label))
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'A' && b[0] <= 'Z' {
		b[0] += 'a' - 'A'
	}
	return string(b)
}
