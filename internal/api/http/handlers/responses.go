package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/astu-platform/complaint-service/internal/api/dto"
	"github.com/astu-platform/complaint-service/internal/domain"
)

// paramID returns a copy of the :id route param. Fiber params alias fasthttp's
// reusable request buffer and are only valid inside the handler, while the
// services hand the ID to code that retains it.
func paramID(c *fiber.Ctx) string {
	return utils.CopyString(c.Params("id"))
}

func userResponse(user *domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:           user.ID,
		Name:         user.Name,
		Email:        user.Email,
		Role:         user.Role,
		DepartmentID: user.DepartmentID,
	}
}

func complaintResponse(complaint *domain.Complaint) dto.ComplaintResponse {
	return dto.ComplaintResponse{
		ID:             complaint.ID,
		Title:          complaint.Title,
		Description:    complaint.Description,
		IssueType:      complaint.IssueType,
		Status:         complaint.Status,
		FileURL:        complaint.FileURL,
		StudentID:      complaint.StudentID,
		DepartmentID:   complaint.DepartmentID,
		StudentName:    complaint.StudentName,
		DepartmentName: complaint.DepartmentName,
		CreatedAt:      complaint.CreatedAt,
		UpdatedAt:      complaint.UpdatedAt,
	}
}

func complaintResponses(complaints []domain.Complaint) []dto.ComplaintResponse {
	items := make([]dto.ComplaintResponse, 0, len(complaints))
	for i := range complaints {
		items = append(items, complaintResponse(&complaints[i]))
	}
	return items
}

func remarkResponse(remark *domain.Remark) dto.RemarkResponse {
	return dto.RemarkResponse{
		ID:          remark.ID,
		ComplaintID: remark.ComplaintID,
		StaffID:     remark.StaffID,
		StaffName:   remark.StaffName,
		Message:     remark.Message,
		CreatedAt:   remark.CreatedAt,
	}
}

func complaintDetail(complaint *domain.Complaint, remarks []domain.Remark) dto.ComplaintDetailResponse {
	items := make([]dto.RemarkResponse, 0, len(remarks))
	for i := range remarks {
		items = append(items, remarkResponse(&remarks[i]))
	}
	return dto.ComplaintDetailResponse{
		Complaint: complaintResponse(complaint),
		Remarks:   items,
	}
}

func notificationResponse(n *domain.Notification) dto.NotificationResponse {
	return dto.NotificationResponse{
		ID:          n.ID,
		Type:        n.Type,
		Title:       n.Title,
		Message:     n.Message,
		ComplaintID: n.ComplaintID,
		IsRead:      n.IsRead,
		CreatedAt:   n.CreatedAt,
	}
}

func notificationResponses(notifications []domain.Notification) []dto.NotificationResponse {
	items := make([]dto.NotificationResponse, 0, len(notifications))
	for i := range notifications {
		items = append(items, notificationResponse(&notifications[i]))
	}
	return items
}
