package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/astu-platform/complaint-service/internal/api/http/handlers"
	"github.com/astu-platform/complaint-service/internal/auth"
	"github.com/astu-platform/complaint-service/internal/config"
	"github.com/astu-platform/complaint-service/internal/domain"
	"github.com/astu-platform/complaint-service/internal/repository/repositorytest"
	"github.com/astu-platform/complaint-service/internal/service"
)

type testEnv struct {
	app   *fiber.App
	store *repositorytest.Store
	auth  *service.AuthService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := repositorytest.NewStore()
	repos := store.Repos()
	logger := zap.NewNop()

	cfg := config.Config{Auth: config.AuthConfig{
		JWTSecret:               "test-secret",
		AccessTokenTTLMinutes:   60,
		PasswordResetTTLMinutes: 30,
		BcryptCost:              4,
	}}

	authService := service.NewAuthService(cfg, service.AuthDependencies{
		UserRepo:          repos.Users,
		PasswordResetRepo: repos.Resets,
	})
	complaintService := service.NewComplaintService(service.ComplaintDependencies{
		ComplaintRepo:  repos.Complaints,
		RemarkRepo:     repos.Remarks,
		DepartmentRepo: repos.Departments,
		TxManager:      store.TxManager(),
	})
	notificationService := service.NewNotificationService(repos.Notifications, nil, logger, config.NotificationConfig{})
	adminService := service.NewAdminService(repos.Departments, repos.Users, 4)
	analyticsService := service.NewAnalyticsService(&repositorytest.AnalyticsRepo{Store: store})
	chatService := service.NewChatService(config.ChatConfig{}, nil, logger, nil)

	app := fiber.New()
	RegisterMiddlewares(app, logger, nil, 0)
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler(nil, nil),
		Auth:           handlers.NewAuthHandler(authService),
		Student:        handlers.NewStudentHandler(complaintService, notificationService, repos.Departments),
		Staff:          handlers.NewStaffHandler(complaintService),
		Admin:          handlers.NewAdminHandler(adminService, complaintService, analyticsService),
		Chat:           handlers.NewChatHandler(chatService),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager()),
	})

	return &testEnv{app: app, store: store, auth: authService}
}

// tokenFor signs a JWT for an already-seeded user.
func (e *testEnv) tokenFor(t *testing.T, user *domain.User) string {
	t.Helper()
	token, _, err := e.auth.TokenManager().GenerateToken(user)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	return token
}

func (e *testEnv) request(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	}
	req, err := http.NewRequest(method, path, reader)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.app.Test(req, 5000)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestComplaintLifecycleEndToEnd(t *testing.T) {
	env := newTestEnv(t)

	dept := env.store.SeedDepartment("IT")
	staffUser := env.store.SeedUser("Marta", "marta@example.com", "hash", domain.RoleStaff, &dept.ID)
	staffToken := env.tokenFor(t, staffUser)

	// Student self-registers.
	resp := env.request(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name":     "Sara",
		"email":    "sara@example.com",
		"password": "secret1",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register status = %d", resp.StatusCode)
	}
	var registered struct {
		Token string `json:"token"`
		User  struct {
			ID   string `json:"id"`
			Role string `json:"role"`
		} `json:"user"`
	}
	decodeBody(t, resp, &registered)
	if registered.User.Role != "student" || registered.Token == "" {
		t.Fatalf("registered = %+v", registered)
	}
	studentToken := registered.Token

	// Student files a complaint.
	resp = env.request(t, http.MethodPost, "/api/student/complaints", studentToken, map[string]string{
		"title":         "Wifi down in dorm",
		"description":   "No connectivity since Monday.",
		"department_id": dept.ID,
		"issue_type":    "IT",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create complaint status = %d", resp.StatusCode)
	}
	var created struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	decodeBody(t, resp, &created)
	if created.Status != "Open" {
		t.Fatalf("new complaint status = %q, want Open", created.Status)
	}

	// Staff sees it in the department queue.
	resp = env.request(t, http.MethodGet, "/api/staff/complaints", staffToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("staff list status = %d", resp.StatusCode)
	}
	var queue []struct {
		ID string `json:"id"`
	}
	decodeBody(t, resp, &queue)
	if len(queue) != 1 || queue[0].ID != created.ID {
		t.Fatalf("staff queue = %+v", queue)
	}

	// Staff starts work.
	resp = env.request(t, http.MethodPatch, "/api/staff/complaints/"+created.ID+"/status", staffToken, map[string]string{
		"status": "In Progress",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("transition status = %d", resp.StatusCode)
	}

	// Going back to Open is rejected with a flat error body.
	resp = env.request(t, http.MethodPatch, "/api/staff/complaints/"+created.ID+"/status", staffToken, map[string]string{
		"status": "Open",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("backward transition status = %d, want 400", resp.StatusCode)
	}
	var errBody struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	decodeBody(t, resp, &errBody)
	if errBody.Code != "VALIDATION_FAILED" || errBody.Message == "" {
		t.Fatalf("error body = %+v", errBody)
	}

	// Staff leaves a remark.
	resp = env.request(t, http.MethodPost, "/api/staff/complaints/"+created.ID+"/remarks", staffToken, map[string]string{
		"message": "Technician dispatched.",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("remark status = %d", resp.StatusCode)
	}
	var remark struct {
		StaffName string `json:"staff_name"`
	}
	decodeBody(t, resp, &remark)
	if remark.StaffName != "Marta" {
		t.Fatalf("remark staff name = %q", remark.StaffName)
	}

	// Staff resolves.
	resp = env.request(t, http.MethodPatch, "/api/staff/complaints/"+created.ID+"/status", staffToken, map[string]string{
		"status": "Resolved",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("resolve status = %d", resp.StatusCode)
	}

	// Student sees the full detail with the remark trail.
	resp = env.request(t, http.MethodGet, "/api/student/complaints/"+created.ID, studentToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("student detail status = %d", resp.StatusCode)
	}
	var detail struct {
		Complaint struct {
			Status string `json:"status"`
		} `json:"complaint"`
		Remarks []struct {
			Message string `json:"message"`
		} `json:"remarks"`
	}
	decodeBody(t, resp, &detail)
	if detail.Complaint.Status != "Resolved" {
		t.Fatalf("final status = %q", detail.Complaint.Status)
	}
	if len(detail.Remarks) != 1 || detail.Remarks[0].Message != "Technician dispatched." {
		t.Fatalf("remarks = %+v", detail.Remarks)
	}

	// Two status changes plus one remark produced three notifications.
	resp = env.request(t, http.MethodGet, "/api/student/notifications", studentToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("notifications status = %d", resp.StatusCode)
	}
	var feed []struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	}
	decodeBody(t, resp, &feed)
	if len(feed) != 3 {
		t.Fatalf("got %d notifications, want 3", len(feed))
	}
	// Newest first: Resolved, remark, In Progress.
	if feed[0].Message != `Your complaint is now "Resolved".` {
		t.Errorf("latest notification = %q", feed[0].Message)
	}
	if feed[1].Type != "new_remark" {
		t.Errorf("middle notification type = %q", feed[1].Type)
	}

	resp = env.request(t, http.MethodGet, "/api/student/notifications/unread-count", studentToken, nil)
	var unread struct {
		Count int `json:"count"`
	}
	decodeBody(t, resp, &unread)
	if unread.Count != 3 {
		t.Errorf("unread = %d, want 3", unread.Count)
	}
}

// Fiber reuses its request buffers between requests, so an ID that aliased
// the :id route param would be rewritten underneath the stored remark once
// the next request lands.
func TestStoredRemarkSurvivesLaterRequests(t *testing.T) {
	env := newTestEnv(t)

	dept := env.store.SeedDepartment("IT")
	staffUser := env.store.SeedUser("Marta", "marta@example.com", "hash", domain.RoleStaff, &dept.ID)
	student := env.store.SeedUser("Sara", "sara@example.com", "hash", domain.RoleStudent, nil)
	complaint := env.store.SeedComplaint(student.ID, dept.ID, "IT", "Wifi down", domain.ComplaintStatusOpen)
	staffToken := env.tokenFor(t, staffUser)
	studentToken := env.tokenFor(t, student)

	resp := env.request(t, http.MethodPost, "/api/staff/complaints/"+complaint.ID+"/remarks", staffToken, map[string]string{
		"message": "Technician dispatched.",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("remark status = %d", resp.StatusCode)
	}

	// Push more traffic through the app to recycle the buffers the param
	// string was backed by.
	for i := 0; i < 3; i++ {
		r := env.request(t, http.MethodGet, "/api/staff/complaints", staffToken, nil)
		r.Body.Close()
	}

	for _, remark := range env.store.Remarks {
		if remark.ComplaintID != complaint.ID {
			t.Fatalf("stored remark complaint ID = %q, want %q", remark.ComplaintID, complaint.ID)
		}
	}

	resp = env.request(t, http.MethodGet, "/api/student/complaints/"+complaint.ID, studentToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("student detail status = %d", resp.StatusCode)
	}
	var detail struct {
		Remarks []struct {
			Message string `json:"message"`
		} `json:"remarks"`
	}
	decodeBody(t, resp, &detail)
	if len(detail.Remarks) != 1 || detail.Remarks[0].Message != "Technician dispatched." {
		t.Fatalf("remarks = %+v", detail.Remarks)
	}
}

func TestRoleEnforcement(t *testing.T) {
	env := newTestEnv(t)

	dept := env.store.SeedDepartment("IT")
	student := env.store.SeedUser("Sara", "sara@example.com", "hash", domain.RoleStudent, nil)
	staff := env.store.SeedUser("Marta", "marta@example.com", "hash", domain.RoleStaff, &dept.ID)
	admin := env.store.SeedUser("Root", "root@example.com", "hash", domain.RoleAdmin, nil)

	studentToken := env.tokenFor(t, student)
	staffToken := env.tokenFor(t, staff)
	adminToken := env.tokenFor(t, admin)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		want   int
	}{
		{"missing_token", http.MethodGet, "/api/student/complaints", "", http.StatusUnauthorized},
		{"garbage_token", http.MethodGet, "/api/student/complaints", "garbage", http.StatusUnauthorized},
		{"student_on_staff_route", http.MethodGet, "/api/staff/complaints", studentToken, http.StatusForbidden},
		{"staff_on_student_route", http.MethodGet, "/api/student/complaints", staffToken, http.StatusForbidden},
		{"staff_on_admin_route", http.MethodGet, "/api/admin/analytics", staffToken, http.StatusForbidden},
		{"admin_on_admin_route", http.MethodGet, "/api/admin/analytics", adminToken, http.StatusOK},
		{"student_lists_departments", http.MethodGet, "/api/student/departments", studentToken, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := env.request(t, tt.method, tt.path, tt.token, nil)
			defer resp.Body.Close()
			if resp.StatusCode != tt.want {
				t.Errorf("%s %s = %d, want %d", tt.method, tt.path, resp.StatusCode, tt.want)
			}
		})
	}
}

func TestAdminSurface(t *testing.T) {
	env := newTestEnv(t)
	admin := env.store.SeedUser("Root", "root@example.com", "hash", domain.RoleAdmin, nil)
	adminToken := env.tokenFor(t, admin)

	// Create a department.
	resp := env.request(t, http.MethodPost, "/api/admin/departments", adminToken, map[string]string{"name": "Registrar"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create department status = %d", resp.StatusCode)
	}
	var dept struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	decodeBody(t, resp, &dept)

	// Duplicate name conflicts.
	resp = env.request(t, http.MethodPost, "/api/admin/departments", adminToken, map[string]string{"name": "Registrar"})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate department status = %d, want 409", resp.StatusCode)
	}
	resp.Body.Close()

	// Provision staff into it.
	resp = env.request(t, http.MethodPost, "/api/admin/staff", adminToken, map[string]string{
		"name":          "Marta",
		"email":         "marta@example.com",
		"password":      "secret1",
		"department_id": dept.ID,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create staff status = %d", resp.StatusCode)
	}
	var staff struct {
		Role         string  `json:"role"`
		DepartmentID *string `json:"department_id"`
	}
	decodeBody(t, resp, &staff)
	if staff.Role != "staff" || staff.DepartmentID == nil || *staff.DepartmentID != dept.ID {
		t.Fatalf("staff = %+v", staff)
	}

	// Analytics over an empty dataset.
	resp = env.request(t, http.MethodGet, "/api/admin/analytics", adminToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("analytics status = %d", resp.StatusCode)
	}
	var analytics struct {
		TotalComplaints     int    `json:"total_complaints"`
		ResolutionRate      int    `json:"resolution_rate"`
		MostCommonIssueType string `json:"most_common_issue_type"`
	}
	decodeBody(t, resp, &analytics)
	if analytics.TotalComplaints != 0 || analytics.ResolutionRate != 0 || analytics.MostCommonIssueType != "N/A" {
		t.Fatalf("analytics = %+v", analytics)
	}
}

func TestChatRequiresQuestion(t *testing.T) {
	env := newTestEnv(t)
	student := env.store.SeedUser("Sara", "sara@example.com", "hash", domain.RoleStudent, nil)
	token := env.tokenFor(t, student)

	resp := env.request(t, http.MethodPost, "/api/chat/ask", token, map[string]string{"question": ""})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("empty question status = %d, want 400", resp.StatusCode)
	}

	resp2 := env.request(t, http.MethodPost, "/api/chat/ask", "", map[string]string{"question": "hi"})
	defer resp2.Body.Close()
	if resp2.StatusCode != http.StatusUnauthorized {
		t.Fatalf("anonymous chat status = %d, want 401", resp2.StatusCode)
	}
}

func TestHealthLive(t *testing.T) {
	env := newTestEnv(t)
	resp := env.request(t, http.MethodGet, "/health/live", "", nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("live status = %d", resp.StatusCode)
	}
}
