package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/astu-platform/complaint-service/internal/domain"
	"github.com/astu-platform/complaint-service/internal/events"
	"github.com/astu-platform/complaint-service/internal/observability"
	"github.com/astu-platform/complaint-service/internal/repository"
	apperrors "github.com/astu-platform/complaint-service/pkg/util"
)

// ComplaintService coordinates the complaint lifecycle: creation, the
// forward-only status machine, the remark trail and their notifications.
type ComplaintService struct {
	complaints  repository.ComplaintRepository
	remarks     repository.RemarkRepository
	departments repository.DepartmentRepository
	tx          repository.TxManager
	dispatcher  events.Dispatcher
	metrics     *observability.Metrics
}

// ComplaintDependencies bundles repositories for the complaint service.
type ComplaintDependencies struct {
	ComplaintRepo  repository.ComplaintRepository
	RemarkRepo     repository.RemarkRepository
	DepartmentRepo repository.DepartmentRepository
	TxManager      repository.TxManager
	Dispatcher     events.Dispatcher
	Metrics        *observability.Metrics
}

// ComplaintCreateInput describes complaint creation payload.
type ComplaintCreateInput struct {
	Title        string
	Description  string
	DepartmentID string
	IssueType    string
	FileURL      *string
}

// NewComplaintService constructs the service.
func NewComplaintService(deps ComplaintDependencies) *ComplaintService {
	return &ComplaintService{
		complaints:  deps.ComplaintRepo,
		remarks:     deps.RemarkRepo,
		departments: deps.DepartmentRepo,
		tx:          deps.TxManager,
		dispatcher:  deps.Dispatcher,
		metrics:     deps.Metrics,
	}
}

// The only legal lifecycle edges. Resolved is terminal.
var allowedTransitions = map[domain.ComplaintStatus][]domain.ComplaintStatus{
	domain.ComplaintStatusOpen:       {domain.ComplaintStatusInProgress},
	domain.ComplaintStatusInProgress: {domain.ComplaintStatusResolved},
	domain.ComplaintStatusResolved:   {},
}

func isValidTransition(current, next domain.ComplaintStatus) bool {
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

// Create files a new complaint owned by the calling student, in state Open.
func (s *ComplaintService) Create(ctx context.Context, studentID string, input ComplaintCreateInput) (*domain.Complaint, error) {
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	issueType := strings.TrimSpace(input.IssueType)

	if title == "" || description == "" || input.DepartmentID == "" || issueType == "" {
		return nil, apperrors.NewValidationError("title, description, department, and issue type are required", nil)
	}
	if !domain.ValidIssueType(issueType) {
		return nil, apperrors.NewValidationError("invalid issue type", nil)
	}

	dept, err := s.departments.GetByID(ctx, input.DepartmentID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewValidationError("unknown department", nil)
		}
		return nil, err
	}

	complaint := &domain.Complaint{
		Title:        title,
		Description:  description,
		IssueType:    issueType,
		Status:       domain.ComplaintStatusOpen,
		FileURL:      input.FileURL,
		StudentID:    studentID,
		DepartmentID: dept.ID,
	}
	if err := s.complaints.Create(ctx, complaint); err != nil {
		return nil, err
	}
	complaint.DepartmentName = dept.Name

	s.publishEvent(ctx, events.Event{
		Type:        events.EventComplaintCreated,
		ComplaintID: complaint.ID,
		ActorID:     studentID,
		Payload: events.ComplaintCreatedPayload{
			DepartmentID: complaint.DepartmentID,
			IssueType:    complaint.IssueType,
			Title:        complaint.Title,
		},
	})
	return complaint, nil
}

// ListForStudent returns the student's own complaints, newest first.
func (s *ComplaintService) ListForStudent(ctx context.Context, studentID string) ([]domain.Complaint, error) {
	return s.complaints.ListByStudent(ctx, studentID)
}

// GetForStudent fetches one complaint plus remarks, enforcing ownership.
// Someone else's complaint is indistinguishable from a missing one.
func (s *ComplaintService) GetForStudent(ctx context.Context, studentID, complaintID string) (*domain.Complaint, []domain.Remark, error) {
	complaint, err := s.complaints.GetByID(ctx, complaintID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil, apperrors.NewNotFound("complaint", nil)
		}
		return nil, nil, err
	}
	if complaint.StudentID != studentID {
		return nil, nil, apperrors.NewNotFound("complaint", nil)
	}
	remarks, err := s.remarks.ListByComplaint(ctx, complaint.ID)
	if err != nil {
		return nil, nil, err
	}
	return complaint, remarks, nil
}

// ListForDepartment returns a department's complaints, newest first.
func (s *ComplaintService) ListForDepartment(ctx context.Context, departmentID string) ([]domain.Complaint, error) {
	return s.complaints.ListByDepartment(ctx, departmentID)
}

// GetForStaff fetches one complaint plus remarks, enforcing department scope.
func (s *ComplaintService) GetForStaff(ctx context.Context, staffDepartmentID, complaintID string) (*domain.Complaint, []domain.Remark, error) {
	complaint, err := s.complaints.GetByID(ctx, complaintID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil, apperrors.NewNotFound("complaint", nil)
		}
		return nil, nil, err
	}
	if complaint.DepartmentID != staffDepartmentID {
		return nil, nil, apperrors.NewNotFound("complaint", nil)
	}
	remarks, err := s.remarks.ListByComplaint(ctx, complaint.ID)
	if err != nil {
		return nil, nil, err
	}
	return complaint, remarks, nil
}

// ListAll returns every complaint for the admin view.
func (s *ComplaintService) ListAll(ctx context.Context) ([]domain.Complaint, error) {
	return s.complaints.ListAll(ctx)
}

// UpdateStatus advances a complaint through the lifecycle. The status update
// and the student's notification land in one transaction; the row is locked
// so concurrent transitions serialize.
func (s *ComplaintService) UpdateStatus(ctx context.Context, staffID, staffDepartmentID, complaintID string, next domain.ComplaintStatus) (*domain.Complaint, error) {
	if !next.Valid() {
		return nil, apperrors.NewValidationError("invalid status", nil)
	}

	var oldStatus domain.ComplaintStatus
	err := s.tx.WithinTx(ctx, func(repos repository.TxRepos) error {
		complaint, err := repos.Complaints.GetForUpdate(ctx, complaintID)
		if err != nil {
			if err == pgx.ErrNoRows {
				return apperrors.NewNotFound("complaint", nil)
			}
			return err
		}
		if complaint.DepartmentID != staffDepartmentID {
			return apperrors.NewNotFound("complaint", nil)
		}
		if !isValidTransition(complaint.Status, next) {
			return apperrors.NewValidationError(
				fmt.Sprintf("invalid status transition %q -> %q", complaint.Status, next), nil)
		}
		oldStatus = complaint.Status

		if err := repos.Complaints.UpdateStatus(ctx, complaint.ID, next); err != nil {
			return err
		}
		return repos.Notifications.Create(ctx, &domain.Notification{
			UserID:      complaint.StudentID,
			Type:        domain.NotificationStatusUpdate,
			Title:       "Status updated: " + complaint.Title,
			Message:     fmt.Sprintf("Your complaint is now %q.", next),
			ComplaintID: &complaint.ID,
		})
	})
	if err != nil {
		return nil, err
	}

	updated, err := s.complaints.GetByID(ctx, complaintID)
	if err != nil {
		return nil, err
	}

	s.metrics.RecordStatusTransition(string(next))
	s.publishEvent(ctx, events.Event{
		Type:        events.EventComplaintStatusChanged,
		ComplaintID: complaintID,
		ActorID:     staffID,
		Payload: events.ComplaintStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: next,
		},
	})
	return updated, nil
}

// AddRemark appends a remark and notifies the complaint's student, both in
// one transaction.
func (s *ComplaintService) AddRemark(ctx context.Context, staffID, staffName, staffDepartmentID, complaintID, message string) (*domain.Remark, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, apperrors.NewValidationError("message is required", nil)
	}

	remark := &domain.Remark{
		ComplaintID: complaintID,
		StaffID:     staffID,
		StaffName:   staffName,
		Message:     message,
	}
	err := s.tx.WithinTx(ctx, func(repos repository.TxRepos) error {
		complaint, err := repos.Complaints.GetForUpdate(ctx, complaintID)
		if err != nil {
			if err == pgx.ErrNoRows {
				return apperrors.NewNotFound("complaint", nil)
			}
			return err
		}
		if complaint.DepartmentID != staffDepartmentID {
			return apperrors.NewNotFound("complaint", nil)
		}

		if err := repos.Remarks.Create(ctx, remark); err != nil {
			return err
		}
		return repos.Notifications.Create(ctx, &domain.Notification{
			UserID:      complaint.StudentID,
			Type:        domain.NotificationNewRemark,
			Title:       "New remark: " + complaint.Title,
			Message:     "Staff added a new remark to your complaint.",
			ComplaintID: &complaint.ID,
		})
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:        events.EventComplaintRemarkAdded,
		ComplaintID: complaintID,
		ActorID:     staffID,
		Payload: events.ComplaintRemarkAddedPayload{
			RemarkID:       remark.ID,
			MessagePreview: stringPreview(remark.Message, 120),
		},
	})
	return remark, nil
}

func (s *ComplaintService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func stringPreview(body string, max int) string {
	body = strings.TrimSpace(body)
	if len(body) <= max {
		return body
	}
	if max <= 3 {
		return body[:max]
	}
	return body[:max-3] + "..."
}
