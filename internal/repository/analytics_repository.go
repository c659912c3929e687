package repository

import (
	"context"

	"github.com/astu-platform/complaint-service/internal/domain"
)

// DepartmentCount is a per-department complaint tally. Departments without
// complaints are included with a zero count.
type DepartmentCount struct {
	Name  string
	Count int
}

// IssueTypeCount is a per-issue-type complaint tally.
type IssueTypeCount struct {
	IssueType string
	Count     int
}

// StatusCounts holds the aggregate complaint totals.
type StatusCounts struct {
	Total    int
	Open     int
	Resolved int
}

// AnalyticsRepository serves the read-only aggregate queries behind the
// admin analytics view. No caching; recomputed on every call.
type AnalyticsRepository interface {
	StatusCounts(ctx context.Context) (StatusCounts, error)
	CountsByDepartment(ctx context.Context) ([]DepartmentCount, error)
	CountsByIssueType(ctx context.Context) ([]IssueTypeCount, error)
}

type analyticsRepository struct {
	db DBTX
}

// NewAnalyticsRepository instantiates the repository.
func NewAnalyticsRepository(db DBTX) AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) StatusCounts(ctx context.Context) (StatusCounts, error) {
	const query = `
        SELECT COUNT(*)::int,
               COUNT(*) FILTER (WHERE status = $1)::int,
               COUNT(*) FILTER (WHERE status = $2)::int
        FROM complaints`
	var counts StatusCounts
	if err := r.db.QueryRow(ctx, query,
		domain.ComplaintStatusOpen,
		domain.ComplaintStatusResolved,
	).Scan(&counts.Total, &counts.Open, &counts.Resolved); err != nil {
		return StatusCounts{}, err
	}
	return counts, nil
}

func (r *analyticsRepository) CountsByDepartment(ctx context.Context) ([]DepartmentCount, error) {
	const query = `
        SELECT d.name, COUNT(c.id)::int
        FROM departments d
        LEFT JOIN complaints c ON c.department_id = d.id
        GROUP BY d.name
        ORDER BY d.name`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []DepartmentCount
	for rows.Next() {
		var dc DepartmentCount
		if err := rows.Scan(&dc.Name, &dc.Count); err != nil {
			return nil, err
		}
		result = append(result, dc)
	}
	return result, rows.Err()
}

func (r *analyticsRepository) CountsByIssueType(ctx context.Context) ([]IssueTypeCount, error) {
	const query = `
        SELECT issue_type, COUNT(*)::int
        FROM complaints
        GROUP BY issue_type`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []IssueTypeCount
	for rows.Next() {
		var ic IssueTypeCount
		if err := rows.Scan(&ic.IssueType, &ic.Count); err != nil {
			return nil, err
		}
		result = append(result, ic)
	}
	return result, rows.Err()
}
