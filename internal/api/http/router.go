package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/astu-platform/complaint-service/internal/api/http/handlers"
	"github.com/astu-platform/complaint-service/internal/auth"
	"github.com/astu-platform/complaint-service/internal/domain"
	"github.com/astu-platform/complaint-service/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Student        *handlers.StudentHandler
	Staff          *handlers.StaffHandler
	Admin          *handlers.AdminHandler
	Chat           *handlers.ChatHandler
	AuthMiddleware *auth.AuthMiddleware
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(cfg.Metrics.Registry(), promhttp.HandlerOpts{})))
	}

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/password/reset/request", cfg.Auth.RequestPasswordReset)
	authGroup.Post("/password/reset/confirm", cfg.Auth.ConfirmPasswordReset)
	authGroup.Post("/password/change", cfg.AuthMiddleware.Handle, auth.RequireAnyRole(), cfg.Auth.ChangePassword)

	student := api.Group("/student", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleStudent))
	student.Get("/departments", cfg.Student.ListDepartments)
	student.Get("/issue-types", cfg.Student.ListIssueTypes)
	student.Get("/complaints", cfg.Student.ListComplaints)
	student.Post("/complaints", cfg.Student.CreateComplaint)
	student.Get("/complaints/:id", cfg.Student.GetComplaint)
	student.Get("/notifications", cfg.Student.ListNotifications)
	student.Get("/notifications/unread-count", cfg.Student.UnreadCount)
	student.Patch("/notifications/read-all", cfg.Student.MarkAllNotificationsRead)
	student.Patch("/notifications/:id/read", cfg.Student.MarkNotificationRead)

	staff := api.Group("/staff", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleStaff))
	staff.Get("/complaints", cfg.Staff.ListComplaints)
	staff.Get("/complaints/:id", cfg.Staff.GetComplaint)
	staff.Patch("/complaints/:id/status", cfg.Staff.UpdateStatus)
	staff.Post("/complaints/:id/remarks", cfg.Staff.AddRemark)

	admin := api.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleAdmin))
	admin.Post("/departments", cfg.Admin.CreateDepartment)
	admin.Get("/departments", cfg.Admin.ListDepartments)
	admin.Post("/staff", cfg.Admin.CreateStaff)
	admin.Get("/complaints", cfg.Admin.ListComplaints)
	admin.Get("/analytics", cfg.Admin.Analytics)

	chat := api.Group("/chat", cfg.AuthMiddleware.Handle, auth.RequireAnyRole())
	chat.Post("/ask", cfg.Chat.Ask)
}
