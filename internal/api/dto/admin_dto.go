package dto

// CreateDepartmentRequest payload.
type CreateDepartmentRequest struct {
	Name string `json:"name"`
}

// DepartmentResponse lists id and name for routing pickers.
type DepartmentResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// DepartmentWithCountResponse is the admin listing entry.
type DepartmentWithCountResponse struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	ComplaintCount int    `json:"complaint_count"`
}

// CreateStaffRequest payload for staff account provisioning.
type CreateStaffRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	DepartmentID string `json:"department_id"`
}

// DepartmentCountEntry is a per-department tally in the analytics response.
type DepartmentCountEntry struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// AnalyticsResponse is the aggregate admin view.
type AnalyticsResponse struct {
	TotalComplaints         int                    `json:"total_complaints"`
	TotalResolved           int                    `json:"total_resolved"`
	TotalOpen               int                    `json:"total_open"`
	ComplaintsPerDepartment []DepartmentCountEntry `json:"complaints_per_department"`
	ResolutionRate          int                    `json:"resolution_rate"`
	MostCommonIssueType     string                 `json:"most_common_issue_type"`
	MostCommonIssueCount    int                    `json:"most_common_issue_count"`
}
