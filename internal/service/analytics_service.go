package service

import (
	"context"
	"math"

	"github.com/astu-platform/complaint-service/internal/repository"
)

// AnalyticsSummary is the admin-facing aggregate over all complaints.
type AnalyticsSummary struct {
	TotalComplaints      int
	TotalOpen            int
	TotalResolved        int
	ResolutionRate       int
	PerDepartment        []repository.DepartmentCount
	MostCommonIssueType  string
	MostCommonIssueCount int
}

// AnalyticsService recomputes the aggregate view on every call.
type AnalyticsService struct {
	analytics repository.AnalyticsRepository
}

// NewAnalyticsService constructs the service.
func NewAnalyticsService(analytics repository.AnalyticsRepository) *AnalyticsService {
	return &AnalyticsService{analytics: analytics}
}

// Summary computes the aggregate complaint statistics.
func (s *AnalyticsService) Summary(ctx context.Context) (*AnalyticsSummary, error) {
	counts, err := s.analytics.StatusCounts(ctx)
	if err != nil {
		return nil, err
	}
	perDept, err := s.analytics.CountsByDepartment(ctx)
	if err != nil {
		return nil, err
	}
	perIssue, err := s.analytics.CountsByIssueType(ctx)
	if err != nil {
		return nil, err
	}

	summary := &AnalyticsSummary{
		TotalComplaints:     counts.Total,
		TotalOpen:           counts.Open,
		TotalResolved:       counts.Resolved,
		ResolutionRate:      resolutionRate(counts.Resolved, counts.Total),
		PerDepartment:       perDept,
		MostCommonIssueType: "N/A",
	}

	if top, ok := topIssueType(perIssue); ok {
		summary.MostCommonIssueType = top.IssueType
		summary.MostCommonIssueCount = top.Count
	}
	return summary, nil
}

// resolutionRate is round(resolved/total*100); zero total is defined as zero.
func resolutionRate(resolved, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(resolved) / float64(total) * 100))
}

// topIssueType picks the most frequent issue type, breaking count ties by
// ascending label.
func topIssueType(counts []repository.IssueTypeCount) (repository.IssueTypeCount, bool) {
	var top repository.IssueTypeCount
	found := false
	for _, c := range counts {
		switch {
		case !found,
			c.Count > top.Count,
			c.Count == top.Count && c.IssueType < top.IssueType:
			top = c
			found = true
		}
	}
	return top, found
}
