package domain

import "time"

// Department represents a university unit that complaints are routed to.
// Departments are never deleted; staff and complaints reference them.
type Department struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DepartmentWithCount pairs a department with its complaint volume for
// admin listings.
type DepartmentWithCount struct {
	Department
	ComplaintCount int
}
