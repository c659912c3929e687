package dto

import (
	"time"

	"github.com/astu-platform/complaint-service/internal/domain"
)

// NotificationResponse is one feed entry.
type NotificationResponse struct {
	ID          string                  `json:"id"`
	Type        domain.NotificationType `json:"type"`
	Title       string                  `json:"title"`
	Message     string                  `json:"message"`
	ComplaintID *string                 `json:"complaint_id"`
	IsRead      bool                    `json:"is_read"`
	CreatedAt   time.Time               `json:"created_at"`
}

// UnreadCountResponse carries the unread tally.
type UnreadCountResponse struct {
	Count int `json:"count"`
}
