package domain

import "time"

// NotificationType tags the lifecycle event a notification was produced by.
type NotificationType string

const (
	NotificationStatusUpdate NotificationType = "status_update"
	NotificationNewRemark    NotificationType = "new_remark"
)

// Notification is an addressed, timestamped, read/unread record surfaced to
// a student after a lifecycle event on one of their complaints.
type Notification struct {
	ID          string
	UserID      string
	Type        NotificationType
	Title       string
	Message     string
	ComplaintID *string
	IsRead      bool
	CreatedAt   time.Time
}
