package events

import (
	"time"

	"github.com/astu-platform/complaint-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventComplaintCreated       EventType = "complaint_created"
	EventComplaintStatusChanged EventType = "complaint_status_changed"
	EventComplaintRemarkAdded   EventType = "complaint_remark_added"
)

// Event represents a lifecycle event emitted by services after commit. The
// durable student notification is written transactionally elsewhere; these
// events only feed logging and outbound stubs.
type Event struct {
	ID          string      `json:"id"`
	Type        EventType   `json:"type"`
	ComplaintID string      `json:"complaint_id"`
	ActorID     string      `json:"actor_id"`
	Timestamp   time.Time   `json:"timestamp"`
	Payload     interface{} `json:"payload"`
}

// ComplaintCreatedPayload payload.
type ComplaintCreatedPayload struct {
	DepartmentID string `json:"department_id"`
	IssueType    string `json:"issue_type"`
	Title        string `json:"title"`
}

// ComplaintStatusChangedPayload payload.
type ComplaintStatusChangedPayload struct {
	OldStatus domain.ComplaintStatus `json:"old_status"`
	NewStatus domain.ComplaintStatus `json:"new_status"`
}

// ComplaintRemarkAddedPayload payload.
type ComplaintRemarkAddedPayload struct {
	RemarkID       string `json:"remark_id"`
	MessagePreview string `json:"message_preview"`
}
