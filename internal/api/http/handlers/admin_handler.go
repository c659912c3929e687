package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/astu-platform/complaint-service/internal/api/dto"
	"github.com/astu-platform/complaint-service/internal/service"
	apperrors "github.com/astu-platform/complaint-service/pkg/util"
)

// AdminHandler covers department/staff management and analytics.
type AdminHandler struct {
	admin      *service.AdminService
	complaints *service.ComplaintService
	analytics  *service.AnalyticsService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(admin *service.AdminService, complaints *service.ComplaintService, analytics *service.AnalyticsService) *AdminHandler {
	return &AdminHandler{admin: admin, complaints: complaints, analytics: analytics}
}

// CreateDepartment POST /api/admin/departments.
func (h *AdminHandler) CreateDepartment(c *fiber.Ctx) error {
	var req dto.CreateDepartmentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	dept, err := h.admin.CreateDepartment(c.UserContext(), req.Name)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.DepartmentResponse{ID: dept.ID, Name: dept.Name})
}

// ListDepartments GET /api/admin/departments.
func (h *AdminHandler) ListDepartments(c *fiber.Ctx) error {
	departments, err := h.admin.ListDepartments(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.DepartmentWithCountResponse, 0, len(departments))
	for _, dept := range departments {
		items = append(items, dto.DepartmentWithCountResponse{
			ID:             dept.ID,
			Name:           dept.Name,
			ComplaintCount: dept.ComplaintCount,
		})
	}
	return c.JSON(items)
}

// CreateStaff POST /api/admin/staff.
func (h *AdminHandler) CreateStaff(c *fiber.Ctx) error {
	var req dto.CreateStaffRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	user, err := h.admin.CreateStaff(c.UserContext(), req.Name, req.Email, req.Password, req.DepartmentID)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(userResponse(user))
}

// ListComplaints GET /api/admin/complaints.
func (h *AdminHandler) ListComplaints(c *fiber.Ctx) error {
	complaints, err := h.complaints.ListAll(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(complaintResponses(complaints))
}

// Analytics GET /api/admin/analytics.
func (h *AdminHandler) Analytics(c *fiber.Ctx) error {
	summary, err := h.analytics.Summary(c.UserContext())
	if err != nil {
		return err
	}

	perDept := make([]dto.DepartmentCountEntry, 0, len(summary.PerDepartment))
	for _, dc := range summary.PerDepartment {
		perDept = append(perDept, dto.DepartmentCountEntry{Name: dc.Name, Count: dc.Count})
	}
	return c.JSON(dto.AnalyticsResponse{
		TotalComplaints:         summary.TotalComplaints,
		TotalResolved:           summary.TotalResolved,
		TotalOpen:               summary.TotalOpen,
		ComplaintsPerDepartment: perDept,
		ResolutionRate:          summary.ResolutionRate,
		MostCommonIssueType:     summary.MostCommonIssueType,
		MostCommonIssueCount:    summary.MostCommonIssueCount,
	})
}
