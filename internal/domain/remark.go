package domain

import "time"

// Remark is an append-only note a staff member attaches to a complaint.
// Remarks form the audit trail visible to the complaint owner.
type Remark struct {
	ID          string
	ComplaintID string
	StaffID     string
	StaffName   string
	Message     string
	CreatedAt   time.Time
}
