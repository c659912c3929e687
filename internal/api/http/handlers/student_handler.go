package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/astu-platform/complaint-service/internal/api/dto"
	"github.com/astu-platform/complaint-service/internal/auth"
	"github.com/astu-platform/complaint-service/internal/domain"
	"github.com/astu-platform/complaint-service/internal/repository"
	"github.com/astu-platform/complaint-service/internal/service"
	apperrors "github.com/astu-platform/complaint-service/pkg/util"
)

// StudentHandler covers the student-facing surface: departments, issue
// types, own complaints and the notification feed.
type StudentHandler struct {
	complaints    *service.ComplaintService
	notifications *service.NotificationService
	departments   repository.DepartmentRepository
}

// NewStudentHandler constructs handler.
func NewStudentHandler(complaints *service.ComplaintService, notifications *service.NotificationService, departments repository.DepartmentRepository) *StudentHandler {
	return &StudentHandler{
		complaints:    complaints,
		notifications: notifications,
		departments:   departments,
	}
}

// ListDepartments GET /api/student/departments.
func (h *StudentHandler) ListDepartments(c *fiber.Ctx) error {
	departments, err := h.departments.List(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.DepartmentResponse, 0, len(departments))
	for _, dept := range departments {
		items = append(items, dto.DepartmentResponse{ID: dept.ID, Name: dept.Name})
	}
	return c.JSON(items)
}

// ListIssueTypes GET /api/student/issue-types.
func (h *StudentHandler) ListIssueTypes(c *fiber.Ctx) error {
	return c.JSON(domain.IssueTypes)
}

// ListComplaints GET /api/student/complaints.
func (h *StudentHandler) ListComplaints(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	complaints, err := h.complaints.ListForStudent(c.UserContext(), principal.UserID)
	if err != nil {
		return err
	}
	return c.JSON(complaintResponses(complaints))
}

// CreateComplaint POST /api/student/complaints.
func (h *StudentHandler) CreateComplaint(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	complaint, err := h.complaints.Create(c.UserContext(), principal.UserID, service.ComplaintCreateInput{
		Title:        req.Title,
		Description:  req.Description,
		DepartmentID: req.DepartmentID,
		IssueType:    req.IssueType,
		FileURL:      req.FileURL,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(complaintResponse(complaint))
}

// GetComplaint GET /api/student/complaints/:id.
func (h *StudentHandler) GetComplaint(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	complaint, remarks, err := h.complaints.GetForStudent(c.UserContext(), principal.UserID, paramID(c))
	if err != nil {
		return err
	}
	return c.JSON(complaintDetail(complaint, remarks))
}

// ListNotifications GET /api/student/notifications.
func (h *StudentHandler) ListNotifications(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	notifications, err := h.notifications.ListForUser(c.UserContext(), principal.UserID)
	if err != nil {
		return err
	}
	return c.JSON(notificationResponses(notifications))
}

// UnreadCount GET /api/student/notifications/unread-count.
func (h *StudentHandler) UnreadCount(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	count, err := h.notifications.UnreadCount(c.UserContext(), principal.UserID)
	if err != nil {
		return err
	}
	return c.JSON(dto.UnreadCountResponse{Count: count})
}

// MarkNotificationRead PATCH /api/student/notifications/:id/read.
func (h *StudentHandler) MarkNotificationRead(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	notification, err := h.notifications.MarkRead(c.UserContext(), paramID(c), principal.UserID)
	if err != nil {
		return err
	}
	return c.JSON(notificationResponse(notification))
}

// MarkAllNotificationsRead PATCH /api/student/notifications/read-all.
func (h *StudentHandler) MarkAllNotificationsRead(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.notifications.MarkAllRead(c.UserContext(), principal.UserID); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
