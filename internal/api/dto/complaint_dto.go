package dto

import (
	"time"

	"github.com/astu-platform/complaint-service/internal/domain"
)

// CreateComplaintRequest payload.
type CreateComplaintRequest struct {
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	DepartmentID string  `json:"department_id"`
	IssueType    string  `json:"issue_type"`
	FileURL      *string `json:"file_url"`
}

// UpdateStatusRequest payload for the lifecycle transition endpoint.
type UpdateStatusRequest struct {
	Status domain.ComplaintStatus `json:"status"`
}

// CreateRemarkRequest payload.
type CreateRemarkRequest struct {
	Message string `json:"message"`
}

// ComplaintResponse is the complaint representation shared across roles.
type ComplaintResponse struct {
	ID             string                 `json:"id"`
	Title          string                 `json:"title"`
	Description    string                 `json:"description"`
	IssueType      string                 `json:"issue_type"`
	Status         domain.ComplaintStatus `json:"status"`
	FileURL        *string                `json:"file_url"`
	StudentID      string                 `json:"student_id"`
	DepartmentID   string                 `json:"department_id"`
	StudentName    string                 `json:"student_name,omitempty"`
	DepartmentName string                 `json:"department_name,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
}

// RemarkResponse is a staff remark including the author's display name.
type RemarkResponse struct {
	ID          string    `json:"id"`
	ComplaintID string    `json:"complaint_id"`
	StaffID     string    `json:"staff_id"`
	StaffName   string    `json:"staff_name"`
	Message     string    `json:"message"`
	CreatedAt   time.Time `json:"created_at"`
}

// ComplaintDetailResponse bundles a complaint with its remark trail,
// chronological oldest first.
type ComplaintDetailResponse struct {
	Complaint ComplaintResponse `json:"complaint"`
	Remarks   []RemarkResponse  `json:"remarks"`
}
