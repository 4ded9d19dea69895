package repository

import "backoffice/internal/listquery"

// EmployeeListSpec searches the account and profile norm columns of an
// employee joined to its account.
var EmployeeListSpec = listquery.Spec{
	Search: []string{
		"accounts.email_norm",
		"accounts.first_name_norm",
		"accounts.last_name_norm",
		"employees.phone_number_norm",
		"employees.phone_number2_norm",
		"employees.reference_norm",
	},
	Filters: map[string]string{
		"commission_general_public": "employees.commission_general_public",
		"is_active":                 "accounts.is_active",
	},
	Sorts: map[string]string{
		"first_name":                "accounts.first_name",
		"last_name":                 "accounts.last_name",
		"is_active":                 "accounts.is_active",
		"email":                     "accounts.email",
		"reference":                 "employees.reference",
		"phone_number":              "employees.phone_number",
		"commission_general_public": "employees.commission_general_public",
	},
	Default:  "email",
	IDColumn: "employees.id",
}

var CategoryListSpec = listquery.Spec{
	Search:   []string{"categories.name_norm"},
	Filters:  map[string]string{"is_active": "categories.is_active"},
	Sorts:    map[string]string{"name": "categories.name", "is_active": "categories.is_active"},
	Default:  "name",
	IDColumn: "categories.id",
}

var SubCategoryListSpec = listquery.Spec{
	Search:   []string{"sub_categories.name_norm"},
	Filters:  map[string]string{"is_active": "sub_categories.is_active"},
	Sorts:    map[string]string{"name": "sub_categories.name", "is_active": "sub_categories.is_active"},
	Default:  "name",
	IDColumn: "sub_categories.id",
}

var GroupListSpec = listquery.Spec{
	Search:   []string{"name_norm"},
	Sorts:    map[string]string{"name": "name"},
	Default:  "name",
	IDColumn: "id",
}
