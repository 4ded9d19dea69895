package model

// DashboardSummary is the headline figures shown on the back office home page.
type DashboardSummary struct {
	TotalEmployees      int64 `json:"total_employees"`
	ActiveEmployees     int64 `json:"active_employees"`
	TotalGroups         int64 `json:"total_groups"`
	TotalCategories     int64 `json:"total_categories"`
	ActiveSubCategories int64 `json:"active_sub_categories"`
	TotalEnrollments    int64 `json:"total_enrollments"`
}
