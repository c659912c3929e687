package domain

import "time"

// ComplaintStatus enumerates lifecycle states for complaints.
type ComplaintStatus string

const (
	ComplaintStatusOpen       ComplaintStatus = "Open"
	ComplaintStatusInProgress ComplaintStatus = "In Progress"
	ComplaintStatusResolved   ComplaintStatus = "Resolved"
)

// Valid reports whether the status is a known lifecycle state.
func (s ComplaintStatus) Valid() bool {
	switch s {
	case ComplaintStatusOpen, ComplaintStatusInProgress, ComplaintStatusResolved:
		return true
	}
	return false
}

// IssueTypes is the closed set of categories a complaint may be filed under.
var IssueTypes = []string{
	"Academic",
	"Finance",
	"Facilities",
	"IT",
	"Library",
	"Student Affairs",
	"Other",
}

// ValidIssueType reports whether the label belongs to the fixed set.
func ValidIssueType(issueType string) bool {
	for _, t := range IssueTypes {
		if t == issueType {
			return true
		}
	}
	return false
}

// Complaint is the aggregate for student grievances. The department binding
// is fixed at creation and the status only moves forward through the
// lifecycle; complaints are never deleted.
type Complaint struct {
	ID             string
	Title          string
	Description    string
	IssueType      string
	Status         ComplaintStatus
	FileURL        *string
	StudentID      string
	DepartmentID   string
	StudentName    string
	DepartmentName string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
