package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/astu-platform/complaint-service/internal/domain"
)

// ComplaintRepository encapsulates complaint persistence.
type ComplaintRepository interface {
	Create(ctx context.Context, complaint *domain.Complaint) error
	GetByID(ctx context.Context, id string) (*domain.Complaint, error)
	// GetForUpdate locks the complaint row for the duration of the enclosing
	// transaction so concurrent transitions serialize.
	GetForUpdate(ctx context.Context, id string) (*domain.Complaint, error)
	ListByStudent(ctx context.Context, studentID string) ([]domain.Complaint, error)
	ListByDepartment(ctx context.Context, departmentID string) ([]domain.Complaint, error)
	ListAll(ctx context.Context) ([]domain.Complaint, error)
	UpdateStatus(ctx context.Context, id string, status domain.ComplaintStatus) error
}

type complaintRepository struct {
	db DBTX
}

// NewComplaintRepository instantiates the repository.
func NewComplaintRepository(db DBTX) ComplaintRepository {
	return &complaintRepository{db: db}
}

const complaintColumns = `
        c.id, c.title, c.description, c.issue_type, c.status, c.file_url,
        c.student_id, c.department_id, u.name AS student_name, d.name AS department_name,
        c.created_at, c.updated_at`

func (r *complaintRepository) Create(ctx context.Context, complaint *domain.Complaint) error {
	const query = `
        INSERT INTO complaints (title, description, issue_type, status, file_url, student_id, department_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`
	return r.db.QueryRow(ctx, query,
		complaint.Title,
		complaint.Description,
		complaint.IssueType,
		complaint.Status,
		complaint.FileURL,
		complaint.StudentID,
		complaint.DepartmentID,
	).Scan(&complaint.ID, &complaint.CreatedAt, &complaint.UpdatedAt)
}

func (r *complaintRepository) GetByID(ctx context.Context, id string) (*domain.Complaint, error) {
	query := `
        SELECT ` + complaintColumns + `
        FROM complaints c
        JOIN users u ON c.student_id = u.id
        LEFT JOIN departments d ON c.department_id = d.id
        WHERE c.id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *complaintRepository) GetForUpdate(ctx context.Context, id string) (*domain.Complaint, error) {
	const query = `
        SELECT id, title, description, issue_type, status, file_url,
               student_id, department_id, created_at, updated_at
        FROM complaints WHERE id=$1
        FOR UPDATE`
	var complaint domain.Complaint
	if err := r.db.QueryRow(ctx, query, id).Scan(
		&complaint.ID,
		&complaint.Title,
		&complaint.Description,
		&complaint.IssueType,
		&complaint.Status,
		&complaint.FileURL,
		&complaint.StudentID,
		&complaint.DepartmentID,
		&complaint.CreatedAt,
		&complaint.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &complaint, nil
}

func (r *complaintRepository) ListByStudent(ctx context.Context, studentID string) ([]domain.Complaint, error) {
	query := `
        SELECT ` + complaintColumns + `
        FROM complaints c
        JOIN users u ON c.student_id = u.id
        LEFT JOIN departments d ON c.department_id = d.id
        WHERE c.student_id=$1
        ORDER BY c.created_at DESC`
	return r.fetchMany(ctx, query, studentID)
}

func (r *complaintRepository) ListByDepartment(ctx context.Context, departmentID string) ([]domain.Complaint, error) {
	query := `
        SELECT ` + complaintColumns + `
        FROM complaints c
        JOIN users u ON c.student_id = u.id
        LEFT JOIN departments d ON c.department_id = d.id
        WHERE c.department_id=$1
        ORDER BY c.created_at DESC`
	return r.fetchMany(ctx, query, departmentID)
}

func (r *complaintRepository) ListAll(ctx context.Context) ([]domain.Complaint, error) {
	query := `
        SELECT ` + complaintColumns + `
        FROM complaints c
        JOIN users u ON c.student_id = u.id
        LEFT JOIN departments d ON c.department_id = d.id
        ORDER BY c.created_at DESC`
	return r.fetchMany(ctx, query)
}

func (r *complaintRepository) UpdateStatus(ctx context.Context, id string, status domain.ComplaintStatus) error {
	const query = `UPDATE complaints SET status=$1, updated_at=NOW() WHERE id=$2`
	cmd, err := r.db.Exec(ctx, query, status, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *complaintRepository) fetchSingle(ctx context.Context, query string, args ...any) (*domain.Complaint, error) {
	var complaint domain.Complaint
	if err := r.db.QueryRow(ctx, query, args...).Scan(
		&complaint.ID,
		&complaint.Title,
		&complaint.Description,
		&complaint.IssueType,
		&complaint.Status,
		&complaint.FileURL,
		&complaint.StudentID,
		&complaint.DepartmentID,
		&complaint.StudentName,
		&complaint.DepartmentName,
		&complaint.CreatedAt,
		&complaint.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &complaint, nil
}

func (r *complaintRepository) fetchMany(ctx context.Context, query string, args ...any) ([]domain.Complaint, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Complaint
	for rows.Next() {
		var complaint domain.Complaint
		if err := rows.Scan(
			&complaint.ID,
			&complaint.Title,
			&complaint.Description,
			&complaint.IssueType,
			&complaint.Status,
			&complaint.FileURL,
			&complaint.StudentID,
			&complaint.DepartmentID,
			&complaint.StudentName,
			&complaint.DepartmentName,
			&complaint.CreatedAt,
			&complaint.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, complaint)
	}
	return result, rows.Err()
}
