package service

import (
	"context"
	"testing"

	"github.com/astu-platform/complaint-service/internal/domain"
	"github.com/astu-platform/complaint-service/internal/repository"
	"github.com/astu-platform/complaint-service/internal/repository/repositorytest"
)

func TestAnalyticsSummaryEmpty(t *testing.T) {
	store := repositorytest.NewStore()
	svc := NewAnalyticsService(&repositorytest.AnalyticsRepo{Store: store})

	summary, err := svc.Summary(context.Background())
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if summary.TotalComplaints != 0 || summary.ResolutionRate != 0 {
		t.Errorf("empty summary = %+v, want zeros", summary)
	}
	if summary.MostCommonIssueType != "N/A" {
		t.Errorf("MostCommonIssueType = %q, want N/A", summary.MostCommonIssueType)
	}
	if summary.MostCommonIssueCount != 0 {
		t.Errorf("MostCommonIssueCount = %d, want 0", summary.MostCommonIssueCount)
	}
}

func TestAnalyticsSummary(t *testing.T) {
	store := repositorytest.NewStore()
	it := store.SeedDepartment("IT")
	finance := store.SeedDepartment("Finance")
	student := store.SeedUser("Sara", "sara@example.com", "hash", domain.RoleStudent, nil)

	store.SeedComplaint(student.ID, it.ID, "IT", "a", domain.ComplaintStatusResolved)
	store.SeedComplaint(student.ID, it.ID, "IT", "b", domain.ComplaintStatusOpen)
	store.SeedComplaint(student.ID, finance.ID, "Finance", "c", domain.ComplaintStatusInProgress)

	svc := NewAnalyticsService(&repositorytest.AnalyticsRepo{Store: store})
	summary, err := svc.Summary(context.Background())
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}

	if summary.TotalComplaints != 3 {
		t.Errorf("TotalComplaints = %d, want 3", summary.TotalComplaints)
	}
	if summary.TotalOpen != 1 {
		t.Errorf("TotalOpen = %d, want 1", summary.TotalOpen)
	}
	if summary.TotalResolved != 1 {
		t.Errorf("TotalResolved = %d, want 1", summary.TotalResolved)
	}
	// round(1/3 * 100) = 33
	if summary.ResolutionRate != 33 {
		t.Errorf("ResolutionRate = %d, want 33", summary.ResolutionRate)
	}
	if summary.MostCommonIssueType != "IT" || summary.MostCommonIssueCount != 2 {
		t.Errorf("top issue = %q/%d, want IT/2", summary.MostCommonIssueType, summary.MostCommonIssueCount)
	}
	if len(summary.PerDepartment) != 2 {
		t.Fatalf("PerDepartment has %d entries, want 2", len(summary.PerDepartment))
	}
}

func TestResolutionRateRounding(t *testing.T) {
	tests := []struct {
		resolved, total, want int
	}{
		{0, 0, 0},
		{0, 10, 0},
		{1, 3, 33},
		{2, 3, 67},
		{1, 2, 50},
		{1, 8, 13}, // 12.5 rounds up
		{10, 10, 100},
	}
	for _, tt := range tests {
		if got := resolutionRate(tt.resolved, tt.total); got != tt.want {
			t.Errorf("resolutionRate(%d, %d) = %d, want %d", tt.resolved, tt.total, got, tt.want)
		}
	}
}

func TestTopIssueTypeTieBreak(t *testing.T) {
	counts := []repository.IssueTypeCount{
		{IssueType: "Library", Count: 4},
		{IssueType: "Academic", Count: 4},
		{IssueType: "IT", Count: 2},
	}
	top, ok := topIssueType(counts)
	if !ok {
		t.Fatal("expected a top issue type")
	}
	// Ties break toward the alphabetically first label.
	if top.IssueType != "Academic" || top.Count != 4 {
		t.Errorf("top = %q/%d, want Academic/4", top.IssueType, top.Count)
	}

	if _, ok := topIssueType(nil); ok {
		t.Error("empty input must report no top issue")
	}
}
