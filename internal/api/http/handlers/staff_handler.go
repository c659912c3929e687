package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/astu-platform/complaint-service/internal/api/dto"
	"github.com/astu-platform/complaint-service/internal/auth"
	"github.com/astu-platform/complaint-service/internal/service"
	apperrors "github.com/astu-platform/complaint-service/pkg/util"
)

// StaffHandler covers the department-scoped triage surface.
type StaffHandler struct {
	complaints *service.ComplaintService
}

// NewStaffHandler constructs handler.
func NewStaffHandler(complaints *service.ComplaintService) *StaffHandler {
	return &StaffHandler{complaints: complaints}
}

// staffPrincipal resolves the caller and their department binding. A staff
// account without a department cannot act on anything.
func staffPrincipal(c *fiber.Ctx) (*auth.Principal, string, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return nil, "", apperrors.NewUnauthorized("authentication required")
	}
	if principal.DepartmentID == nil || *principal.DepartmentID == "" {
		return nil, "", apperrors.NewForbidden("staff account has no department")
	}
	return principal, *principal.DepartmentID, nil
}

// ListComplaints GET /api/staff/complaints.
func (h *StaffHandler) ListComplaints(c *fiber.Ctx) error {
	_, departmentID, err := staffPrincipal(c)
	if err != nil {
		return err
	}
	complaints, err := h.complaints.ListForDepartment(c.UserContext(), departmentID)
	if err != nil {
		return err
	}
	return c.JSON(complaintResponses(complaints))
}

// GetComplaint GET /api/staff/complaints/:id.
func (h *StaffHandler) GetComplaint(c *fiber.Ctx) error {
	_, departmentID, err := staffPrincipal(c)
	if err != nil {
		return err
	}
	complaint, remarks, err := h.complaints.GetForStaff(c.UserContext(), departmentID, paramID(c))
	if err != nil {
		return err
	}
	return c.JSON(complaintDetail(complaint, remarks))
}

// UpdateStatus PATCH /api/staff/complaints/:id/status.
func (h *StaffHandler) UpdateStatus(c *fiber.Ctx) error {
	principal, departmentID, err := staffPrincipal(c)
	if err != nil {
		return err
	}
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	complaint, err := h.complaints.UpdateStatus(c.UserContext(), principal.UserID, departmentID, paramID(c), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(complaintResponse(complaint))
}

// AddRemark POST /api/staff/complaints/:id/remarks.
func (h *StaffHandler) AddRemark(c *fiber.Ctx) error {
	principal, departmentID, err := staffPrincipal(c)
	if err != nil {
		return err
	}
	var req dto.CreateRemarkRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	remark, err := h.complaints.AddRemark(c.UserContext(), principal.UserID, principal.Name, departmentID, paramID(c), req.Message)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(remarkResponse(remark))
}
