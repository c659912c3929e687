package service

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/astu-platform/complaint-service/internal/auth"
	"github.com/astu-platform/complaint-service/internal/domain"
	"github.com/astu-platform/complaint-service/internal/repository"
	apperrors "github.com/astu-platform/complaint-service/pkg/util"
)

// AdminService covers department management and staff account creation.
type AdminService struct {
	departments repository.DepartmentRepository
	users       repository.UserRepository
	bcryptCost  int
}

// NewAdminService constructs the service.
func NewAdminService(departments repository.DepartmentRepository, users repository.UserRepository, bcryptCost int) *AdminService {
	return &AdminService{departments: departments, users: users, bcryptCost: bcryptCost}
}

// CreateDepartment registers a new department with a unique name.
func (s *AdminService) CreateDepartment(ctx context.Context, name string) (*domain.Department, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("name is required", nil)
	}

	dept := &domain.Department{Name: name}
	if err := s.departments.Create(ctx, dept); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperrors.NewConflict("department already exists", nil)
		}
		return nil, err
	}
	return dept, nil
}

// ListDepartments returns all departments with their complaint counts.
func (s *AdminService) ListDepartments(ctx context.Context) ([]domain.DepartmentWithCount, error) {
	return s.departments.ListWithCounts(ctx)
}

// CreateStaff provisions a staff account bound to a department. The role is
// fixed at creation.
func (s *AdminService) CreateStaff(ctx context.Context, name, email, password, departmentID string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	password = strings.TrimSpace(password)

	if name == "" || email == "" || password == "" || departmentID == "" {
		return nil, apperrors.NewValidationError("name, email, password, and department are required", nil)
	}
	if !emailPattern.MatchString(email) {
		return nil, apperrors.NewValidationError("invalid email format", nil)
	}
	if len(password) < 6 {
		return nil, apperrors.NewValidationError("password must be at least 6 characters long", nil)
	}

	if _, err := s.departments.GetByID(ctx, departmentID); err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewValidationError("unknown department", nil)
		}
		return nil, err
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewValidationError("email already used", nil)
	} else if err != pgx.ErrNoRows {
		return nil, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleStaff,
		DepartmentID: &departmentID,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperrors.NewValidationError("email already used", nil)
		}
		return nil, err
	}
	return user, nil
}
