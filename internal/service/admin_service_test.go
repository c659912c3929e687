package service

import (
	"context"
	"testing"

	"github.com/astu-platform/complaint-service/internal/domain"
	"github.com/astu-platform/complaint-service/internal/repository/repositorytest"
)

func newAdminService(store *repositorytest.Store) *AdminService {
	repos := store.Repos()
	return NewAdminService(repos.Departments, repos.Users, 4)
}

func TestCreateDepartment(t *testing.T) {
	store := repositorytest.NewStore()
	svc := newAdminService(store)

	dept, err := svc.CreateDepartment(context.Background(), "  Registrar  ")
	if err != nil {
		t.Fatalf("CreateDepartment: %v", err)
	}
	if dept.Name != "Registrar" {
		t.Errorf("Name = %q, want trimmed", dept.Name)
	}
	if dept.ID == "" {
		t.Error("expected assigned ID")
	}

	_, err = svc.CreateDepartment(context.Background(), "")
	assertErrorCode(t, err, "VALIDATION_FAILED")

	_, err = svc.CreateDepartment(context.Background(), "Registrar")
	assertErrorCode(t, err, "CONFLICT")
}

func TestListDepartmentsWithCounts(t *testing.T) {
	store := repositorytest.NewStore()
	it := store.SeedDepartment("IT")
	store.SeedDepartment("Finance")
	student := store.SeedUser("Sara", "sara@example.com", "hash", domain.RoleStudent, nil)
	store.SeedComplaint(student.ID, it.ID, "IT", "a", domain.ComplaintStatusOpen)
	store.SeedComplaint(student.ID, it.ID, "IT", "b", domain.ComplaintStatusOpen)
	svc := newAdminService(store)

	departments, err := svc.ListDepartments(context.Background())
	if err != nil {
		t.Fatalf("ListDepartments: %v", err)
	}
	if len(departments) != 2 {
		t.Fatalf("got %d departments, want 2", len(departments))
	}
	counts := map[string]int{}
	for _, dept := range departments {
		counts[dept.Name] = dept.ComplaintCount
	}
	if counts["IT"] != 2 || counts["Finance"] != 0 {
		t.Errorf("counts = %v, want IT:2 Finance:0", counts)
	}
}

func TestCreateStaff(t *testing.T) {
	store := repositorytest.NewStore()
	dept := store.SeedDepartment("IT")
	svc := newAdminService(store)

	user, err := svc.CreateStaff(context.Background(), "Marta", "MARTA@Example.com", "secret1", dept.ID)
	if err != nil {
		t.Fatalf("CreateStaff: %v", err)
	}
	if user.Role != domain.RoleStaff {
		t.Errorf("Role = %q, want staff", user.Role)
	}
	if user.Email != "marta@example.com" {
		t.Errorf("Email = %q, want lowercased", user.Email)
	}
	if user.DepartmentID == nil || *user.DepartmentID != dept.ID {
		t.Errorf("DepartmentID = %v, want %q", user.DepartmentID, dept.ID)
	}
	if user.PasswordHash == "secret1" {
		t.Error("password stored without hashing")
	}
}

func TestCreateStaffValidation(t *testing.T) {
	store := repositorytest.NewStore()
	dept := store.SeedDepartment("IT")
	svc := newAdminService(store)

	if _, err := svc.CreateStaff(context.Background(), "Marta", "marta@example.com", "secret1", dept.ID); err != nil {
		t.Fatalf("seed staff: %v", err)
	}

	tests := []struct {
		name         string
		staffName    string
		email        string
		password     string
		departmentID string
	}{
		{"empty_name", "", "new@example.com", "secret1", dept.ID},
		{"bad_email", "Marta", "bad-email", "secret1", dept.ID},
		{"short_password", "Marta", "new@example.com", "12345", dept.ID},
		{"missing_department", "Marta", "new@example.com", "secret1", ""},
		{"unknown_department", "Marta", "new@example.com", "secret1", "missing"},
		{"duplicate_email", "Other", "marta@example.com", "secret1", dept.ID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateStaff(context.Background(), tt.staffName, tt.email, tt.password, tt.departmentID)
			assertErrorCode(t, err, "VALIDATION_FAILED")
		})
	}
}

func TestCreateStaffConcurrentDuplicateEmail(t *testing.T) {
	store := repositorytest.NewStore()
	dept := store.SeedDepartment("IT")
	repos := store.Repos()
	svc := NewAdminService(repos.Departments, &blindUserRepo{UserRepository: repos.Users, misses: 1}, 4)
	store.SeedUser("Marta", "marta@example.com", "hash", domain.RoleStaff, &dept.ID)

	_, err := svc.CreateStaff(context.Background(), "Other", "marta@example.com", "secret1", dept.ID)
	assertErrorCode(t, err, "VALIDATION_FAILED")
}
