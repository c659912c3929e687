package repository

import (
	"context"

	"github.com/astu-platform/complaint-service/internal/domain"
)

// RemarkRepository persists the append-only remark trail.
type RemarkRepository interface {
	Create(ctx context.Context, remark *domain.Remark) error
	ListByComplaint(ctx context.Context, complaintID string) ([]domain.Remark, error)
}

type remarkRepository struct {
	db DBTX
}

// NewRemarkRepository instantiates the repository.
func NewRemarkRepository(db DBTX) RemarkRepository {
	return &remarkRepository{db: db}
}

func (r *remarkRepository) Create(ctx context.Context, remark *domain.Remark) error {
	const query = `
        INSERT INTO remarks (complaint_id, staff_id, message)
        VALUES ($1,$2,$3)
        RETURNING id, created_at`
	return r.db.QueryRow(ctx, query,
		remark.ComplaintID,
		remark.StaffID,
		remark.Message,
	).Scan(&remark.ID, &remark.CreatedAt)
}

func (r *remarkRepository) ListByComplaint(ctx context.Context, complaintID string) ([]domain.Remark, error) {
	const query = `
        SELECT r.id, r.complaint_id, r.staff_id, u.name AS staff_name, r.message, r.created_at
        FROM remarks r
        JOIN users u ON r.staff_id = u.id
        WHERE r.complaint_id=$1
        ORDER BY r.created_at ASC`
	rows, err := r.db.Query(ctx, query, complaintID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Remark
	for rows.Next() {
		var remark domain.Remark
		if err := rows.Scan(
			&remark.ID,
			&remark.ComplaintID,
			&remark.StaffID,
			&remark.StaffName,
			&remark.Message,
			&remark.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, remark)
	}
	return result, rows.Err()
}
