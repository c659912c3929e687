package worker

import (
	"github.com/astu-platform/complaint-service/internal/service"
)

// StartNotificationWorker registers notification event handlers.
func StartNotificationWorker(notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
}
