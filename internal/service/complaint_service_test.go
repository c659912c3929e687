package service

import (
	"context"
	"testing"

	"github.com/astu-platform/complaint-service/internal/domain"
	"github.com/astu-platform/complaint-service/internal/repository/repositorytest"
	apperrors "github.com/astu-platform/complaint-service/pkg/util"
)

func newComplaintService(store *repositorytest.Store) *ComplaintService {
	repos := store.Repos()
	return NewComplaintService(ComplaintDependencies{
		ComplaintRepo:  repos.Complaints,
		RemarkRepo:     repos.Remarks,
		DepartmentRepo: repos.Departments,
		TxManager:      store.TxManager(),
	})
}

func TestComplaintCreateValidation(t *testing.T) {
	store := repositorytest.NewStore()
	dept := store.SeedDepartment("IT")
	student := store.SeedUser("Sara", "sara@example.com", "hash", domain.RoleStudent, nil)
	svc := newComplaintService(store)

	tests := []struct {
		name  string
		input ComplaintCreateInput
	}{
		{"missing_title", ComplaintCreateInput{Description: "d", DepartmentID: dept.ID, IssueType: "IT"}},
		{"missing_description", ComplaintCreateInput{Title: "t", DepartmentID: dept.ID, IssueType: "IT"}},
		{"missing_department", ComplaintCreateInput{Title: "t", Description: "d", IssueType: "IT"}},
		{"whitespace_title", ComplaintCreateInput{Title: "   ", Description: "d", DepartmentID: dept.ID, IssueType: "IT"}},
		{"unknown_issue_type", ComplaintCreateInput{Title: "t", Description: "d", DepartmentID: dept.ID, IssueType: "Parking"}},
		{"unknown_department", ComplaintCreateInput{Title: "t", Description: "d", DepartmentID: "missing", IssueType: "IT"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), student.ID, tt.input)
			assertErrorCode(t, err, "VALIDATION_FAILED")
		})
	}
}

func TestComplaintCreate(t *testing.T) {
	store := repositorytest.NewStore()
	dept := store.SeedDepartment("Finance")
	student := store.SeedUser("Sara", "sara@example.com", "hash", domain.RoleStudent, nil)
	svc := newComplaintService(store)

	complaint, err := svc.Create(context.Background(), student.ID, ComplaintCreateInput{
		Title:        "  Tuition invoice wrong  ",
		Description:  "Charged twice for the semester.",
		DepartmentID: dept.ID,
		IssueType:    "Finance",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if complaint.Status != domain.ComplaintStatusOpen {
		t.Errorf("Status = %q, want %q", complaint.Status, domain.ComplaintStatusOpen)
	}
	if complaint.Title != "Tuition invoice wrong" {
		t.Errorf("Title = %q, want trimmed", complaint.Title)
	}
	if complaint.DepartmentName != "Finance" {
		t.Errorf("DepartmentName = %q, want Finance", complaint.DepartmentName)
	}
	if complaint.ID == "" {
		t.Error("expected assigned ID")
	}
}

func TestComplaintStatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    domain.ComplaintStatus
		to      domain.ComplaintStatus
		wantErr string
	}{
		{"open_to_in_progress", domain.ComplaintStatusOpen, domain.ComplaintStatusInProgress, ""},
		{"in_progress_to_resolved", domain.ComplaintStatusInProgress, domain.ComplaintStatusResolved, ""},
		{"open_to_resolved_skips", domain.ComplaintStatusOpen, domain.ComplaintStatusResolved, "VALIDATION_FAILED"},
		{"in_progress_back_to_open", domain.ComplaintStatusInProgress, domain.ComplaintStatusOpen, "VALIDATION_FAILED"},
		{"resolved_is_terminal", domain.ComplaintStatusResolved, domain.ComplaintStatusInProgress, "VALIDATION_FAILED"},
		{"same_status", domain.ComplaintStatusOpen, domain.ComplaintStatusOpen, "VALIDATION_FAILED"},
		{"unknown_status", domain.ComplaintStatusOpen, domain.ComplaintStatus("Closed"), "VALIDATION_FAILED"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := repositorytest.NewStore()
			dept := store.SeedDepartment("IT")
			student := store.SeedUser("Sara", "sara@example.com", "hash", domain.RoleStudent, nil)
			staff := store.SeedUser("Marta", "marta@example.com", "hash", domain.RoleStaff, &dept.ID)
			complaint := store.SeedComplaint(student.ID, dept.ID, "IT", "Wifi down", tt.from)
			svc := newComplaintService(store)

			updated, err := svc.UpdateStatus(context.Background(), staff.ID, dept.ID, complaint.ID, tt.to)
			if tt.wantErr != "" {
				assertErrorCode(t, err, tt.wantErr)
				if store.Complaints[complaint.ID].Status != tt.from {
					t.Errorf("status changed to %q despite rejected transition", store.Complaints[complaint.ID].Status)
				}
				if got := len(store.NotificationsFor(student.ID)); got != 0 {
					t.Errorf("got %d notifications, want none", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("UpdateStatus: %v", err)
			}
			if updated.Status != tt.to {
				t.Errorf("Status = %q, want %q", updated.Status, tt.to)
			}

			notifications := store.NotificationsFor(student.ID)
			if len(notifications) != 1 {
				t.Fatalf("got %d notifications, want exactly 1", len(notifications))
			}
			n := notifications[0]
			if n.Type != domain.NotificationStatusUpdate {
				t.Errorf("Type = %q, want %q", n.Type, domain.NotificationStatusUpdate)
			}
			if n.Title != "Status updated: Wifi down" {
				t.Errorf("Title = %q", n.Title)
			}
			wantMsg := `Your complaint is now "` + string(tt.to) + `".`
			if n.Message != wantMsg {
				t.Errorf("Message = %q, want %q", n.Message, wantMsg)
			}
			if n.ComplaintID == nil || *n.ComplaintID != complaint.ID {
				t.Errorf("ComplaintID = %v, want %q", n.ComplaintID, complaint.ID)
			}
			if n.IsRead {
				t.Error("new notification must start unread")
			}
		})
	}
}

func TestUpdateStatusScopedToDepartment(t *testing.T) {
	store := repositorytest.NewStore()
	deptIT := store.SeedDepartment("IT")
	deptFinance := store.SeedDepartment("Finance")
	student := store.SeedUser("Sara", "sara@example.com", "hash", domain.RoleStudent, nil)
	staff := store.SeedUser("Marta", "marta@example.com", "hash", domain.RoleStaff, &deptFinance.ID)
	complaint := store.SeedComplaint(student.ID, deptIT.ID, "IT", "Wifi down", domain.ComplaintStatusOpen)
	svc := newComplaintService(store)

	_, err := svc.UpdateStatus(context.Background(), staff.ID, *staff.DepartmentID, complaint.ID, domain.ComplaintStatusInProgress)
	assertErrorCode(t, err, "NOT_FOUND")
}

func TestUpdateStatusMissingComplaint(t *testing.T) {
	store := repositorytest.NewStore()
	dept := store.SeedDepartment("IT")
	svc := newComplaintService(store)

	_, err := svc.UpdateStatus(context.Background(), "staff-1", dept.ID, "missing", domain.ComplaintStatusInProgress)
	assertErrorCode(t, err, "NOT_FOUND")
}

func TestAddRemark(t *testing.T) {
	store := repositorytest.NewStore()
	dept := store.SeedDepartment("Library")
	student := store.SeedUser("Sara", "sara@example.com", "hash", domain.RoleStudent, nil)
	staff := store.SeedUser("Marta", "marta@example.com", "hash", domain.RoleStaff, &dept.ID)
	complaint := store.SeedComplaint(student.ID, dept.ID, "Library", "Lost book fee", domain.ComplaintStatusInProgress)
	svc := newComplaintService(store)

	remark, err := svc.AddRemark(context.Background(), staff.ID, staff.Name, dept.ID, complaint.ID, "We are checking the records.")
	if err != nil {
		t.Fatalf("AddRemark: %v", err)
	}
	if remark.ID == "" {
		t.Error("expected assigned remark ID")
	}
	if remark.StaffName != "Marta" {
		t.Errorf("StaffName = %q, want Marta", remark.StaffName)
	}

	notifications := store.NotificationsFor(student.ID)
	if len(notifications) != 1 {
		t.Fatalf("got %d notifications, want exactly 1", len(notifications))
	}
	n := notifications[0]
	if n.Type != domain.NotificationNewRemark {
		t.Errorf("Type = %q, want %q", n.Type, domain.NotificationNewRemark)
	}
	if n.Title != "New remark: Lost book fee" {
		t.Errorf("Title = %q", n.Title)
	}
	if n.Message != "Staff added a new remark to your complaint." {
		t.Errorf("Message = %q", n.Message)
	}
}

func TestAddRemarkValidation(t *testing.T) {
	store := repositorytest.NewStore()
	dept := store.SeedDepartment("IT")
	student := store.SeedUser("Sara", "sara@example.com", "hash", domain.RoleStudent, nil)
	complaint := store.SeedComplaint(student.ID, dept.ID, "IT", "Wifi down", domain.ComplaintStatusOpen)
	svc := newComplaintService(store)

	_, err := svc.AddRemark(context.Background(), "staff-1", "Marta", dept.ID, complaint.ID, "   ")
	assertErrorCode(t, err, "VALIDATION_FAILED")

	_, err = svc.AddRemark(context.Background(), "staff-1", "Marta", "other-dept", complaint.ID, "note")
	assertErrorCode(t, err, "NOT_FOUND")
}

func TestGetForStudentOwnership(t *testing.T) {
	store := repositorytest.NewStore()
	dept := store.SeedDepartment("IT")
	owner := store.SeedUser("Sara", "sara@example.com", "hash", domain.RoleStudent, nil)
	other := store.SeedUser("Yonas", "yonas@example.com", "hash", domain.RoleStudent, nil)
	complaint := store.SeedComplaint(owner.ID, dept.ID, "IT", "Wifi down", domain.ComplaintStatusOpen)
	svc := newComplaintService(store)

	if _, _, err := svc.GetForStudent(context.Background(), owner.ID, complaint.ID); err != nil {
		t.Fatalf("owner fetch: %v", err)
	}

	// Someone else's complaint must be indistinguishable from a missing one.
	_, _, err := svc.GetForStudent(context.Background(), other.ID, complaint.ID)
	assertErrorCode(t, err, "NOT_FOUND")

	_, _, err = svc.GetForStudent(context.Background(), owner.ID, "missing")
	assertErrorCode(t, err, "NOT_FOUND")
}

func TestGetForStaffDepartmentScope(t *testing.T) {
	store := repositorytest.NewStore()
	deptIT := store.SeedDepartment("IT")
	deptFinance := store.SeedDepartment("Finance")
	student := store.SeedUser("Sara", "sara@example.com", "hash", domain.RoleStudent, nil)
	complaint := store.SeedComplaint(student.ID, deptIT.ID, "IT", "Wifi down", domain.ComplaintStatusOpen)
	svc := newComplaintService(store)

	if _, _, err := svc.GetForStaff(context.Background(), deptIT.ID, complaint.ID); err != nil {
		t.Fatalf("same-department fetch: %v", err)
	}

	_, _, err := svc.GetForStaff(context.Background(), deptFinance.ID, complaint.ID)
	assertErrorCode(t, err, "NOT_FOUND")
}

func TestListForStudentOnlyOwn(t *testing.T) {
	store := repositorytest.NewStore()
	dept := store.SeedDepartment("IT")
	sara := store.SeedUser("Sara", "sara@example.com", "hash", domain.RoleStudent, nil)
	yonas := store.SeedUser("Yonas", "yonas@example.com", "hash", domain.RoleStudent, nil)
	store.SeedComplaint(sara.ID, dept.ID, "IT", "first", domain.ComplaintStatusOpen)
	store.SeedComplaint(yonas.ID, dept.ID, "IT", "second", domain.ComplaintStatusOpen)
	store.SeedComplaint(sara.ID, dept.ID, "IT", "third", domain.ComplaintStatusOpen)
	svc := newComplaintService(store)

	complaints, err := svc.ListForStudent(context.Background(), sara.ID)
	if err != nil {
		t.Fatalf("ListForStudent: %v", err)
	}
	if len(complaints) != 2 {
		t.Fatalf("got %d complaints, want 2", len(complaints))
	}
	// Newest first.
	if complaints[0].Title != "third" || complaints[1].Title != "first" {
		t.Errorf("order = [%q %q], want newest first", complaints[0].Title, complaints[1].Title)
	}
}

func assertErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	domainErr := apperrors.ToDomainError(err)
	if domainErr.Code != code {
		t.Fatalf("error code = %q (%v), want %q", domainErr.Code, err, code)
	}
}
