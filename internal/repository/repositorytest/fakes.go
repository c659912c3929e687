// Package repositorytest provides in-memory repository fakes for service and
// handler tests. The fakes mirror the Postgres repositories' contracts,
// including pgx.ErrNoRows on missing rows, but keep everything in maps guarded
// by a mutex.
package repositorytest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/astu-platform/complaint-service/internal/domain"
	"github.com/astu-platform/complaint-service/internal/repository"
)

// Store bundles all fakes over one shared dataset so transactional and pooled
// access observe the same state.
type Store struct {
	mu sync.Mutex

	Users         map[string]*domain.User
	Departments   map[string]*domain.Department
	Complaints    map[string]*domain.Complaint
	Remarks       map[string]*domain.Remark
	Notifications map[string]*domain.Notification
	ResetTokens   map[string]*repository.PasswordResetToken

	// Err, when set, is returned from every operation. Used to simulate
	// database failures.
	Err error

	clock time.Time
}

// NewStore builds an empty store.
func NewStore() *Store {
	return &Store{
		Users:         map[string]*domain.User{},
		Departments:   map[string]*domain.Department{},
		Complaints:    map[string]*domain.Complaint{},
		Remarks:       map[string]*domain.Remark{},
		Notifications: map[string]*domain.Notification{},
		ResetTokens:   map[string]*repository.PasswordResetToken{},
		clock:         time.Now(),
	}
}

// tick returns a strictly increasing timestamp so newest-first ordering is
// deterministic even within one test.
func (s *Store) tick() time.Time {
	s.clock = s.clock.Add(time.Millisecond)
	return s.clock
}

// SeedDepartment inserts a department and returns it.
func (s *Store) SeedDepartment(name string) *domain.Department {
	s.mu.Lock()
	defer s.mu.Unlock()
	dept := &domain.Department{ID: uuid.NewString(), Name: name, CreatedAt: s.tick()}
	s.Departments[dept.ID] = dept
	return dept
}

// SeedUser inserts a user and returns it.
func (s *Store) SeedUser(name, email, passwordHash string, role domain.Role, departmentID *string) *domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.tick()
	user := &domain.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		DepartmentID: departmentID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.Users[user.ID] = user
	return user
}

// SeedComplaint inserts a complaint and returns it.
func (s *Store) SeedComplaint(studentID, departmentID, issueType, title string, status domain.ComplaintStatus) *domain.Complaint {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.tick()
	complaint := &domain.Complaint{
		ID:           uuid.NewString(),
		Title:        title,
		Description:  "seeded",
		IssueType:    issueType,
		Status:       status,
		StudentID:    studentID,
		DepartmentID: departmentID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if student, ok := s.Users[studentID]; ok {
		complaint.StudentName = student.Name
	}
	if dept, ok := s.Departments[departmentID]; ok {
		complaint.DepartmentName = dept.Name
	}
	s.Complaints[complaint.ID] = complaint
	return complaint
}

// NotificationsFor returns the user's notifications, newest first.
func (s *Store) NotificationsFor(userID string) []domain.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Notification
	for _, n := range s.Notifications {
		if n.UserID == userID {
			out = append(out, *n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// Repos returns fakes bound to this store.
func (s *Store) Repos() Repos {
	return Repos{
		Users:         &UserRepo{store: s},
		Departments:   &DepartmentRepo{store: s},
		Complaints:    &ComplaintRepo{store: s},
		Remarks:       &RemarkRepo{store: s},
		Notifications: &NotificationRepo{store: s},
		Resets:        &PasswordResetRepo{store: s},
	}
}

// Repos groups the store-bound fakes.
type Repos struct {
	Users         *UserRepo
	Departments   *DepartmentRepo
	Complaints    *ComplaintRepo
	Remarks       *RemarkRepo
	Notifications *NotificationRepo
	Resets        *PasswordResetRepo
}

// TxManager returns a fake transaction manager that runs the callback against
// the same store. There is no rollback; tests that need failure injection set
// Store.Err.
func (s *Store) TxManager() repository.TxManager {
	repos := s.Repos()
	return &fakeTxManager{repos: repository.TxRepos{
		Complaints:    repos.Complaints,
		Remarks:       repos.Remarks,
		Notifications: repos.Notifications,
	}}
}

type fakeTxManager struct {
	repos repository.TxRepos
}

func (m *fakeTxManager) WithinTx(ctx context.Context, fn func(repository.TxRepos) error) error {
	return fn(m.repos)
}

// UserRepo is an in-memory repository.UserRepository.
type UserRepo struct {
	store *Store
}

func (r *UserRepo) Create(ctx context.Context, user *domain.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.Err != nil {
		return r.store.Err
	}
	for _, existing := range r.store.Users {
		if existing.Email == user.Email {
			return &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
		}
	}
	user.ID = uuid.NewString()
	user.CreatedAt = r.store.tick()
	user.UpdatedAt = user.CreatedAt
	clone := *user
	r.store.Users[user.ID] = &clone
	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.Err != nil {
		return nil, r.store.Err
	}
	user, ok := r.store.Users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *user
	return &clone, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.Err != nil {
		return nil, r.store.Err
	}
	for _, user := range r.store.Users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *UserRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.Err != nil {
		return r.store.Err
	}
	user, ok := r.store.Users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.PasswordHash = passwordHash
	user.UpdatedAt = r.store.tick()
	return nil
}

// DepartmentRepo is an in-memory repository.DepartmentRepository.
type DepartmentRepo struct {
	store *Store
}

func (r *DepartmentRepo) Create(ctx context.Context, dept *domain.Department) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.Err != nil {
		return r.store.Err
	}
	for _, existing := range r.store.Departments {
		if existing.Name == dept.Name {
			return &pgconn.PgError{Code: "23505", ConstraintName: "departments_name_key"}
		}
	}
	dept.ID = uuid.NewString()
	dept.CreatedAt = r.store.tick()
	clone := *dept
	r.store.Departments[dept.ID] = &clone
	return nil
}

func (r *DepartmentRepo) GetByID(ctx context.Context, id string) (*domain.Department, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.Err != nil {
		return nil, r.store.Err
	}
	dept, ok := r.store.Departments[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *dept
	return &clone, nil
}

func (r *DepartmentRepo) List(ctx context.Context) ([]domain.Department, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.Err != nil {
		return nil, r.store.Err
	}
	out := make([]domain.Department, 0, len(r.store.Departments))
	for _, dept := range r.store.Departments {
		out = append(out, *dept)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *DepartmentRepo) ListWithCounts(ctx context.Context) ([]domain.DepartmentWithCount, error) {
	departments, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	out := make([]domain.DepartmentWithCount, 0, len(departments))
	for _, dept := range departments {
		count := 0
		for _, complaint := range r.store.Complaints {
			if complaint.DepartmentID == dept.ID {
				count++
			}
		}
		out = append(out, domain.DepartmentWithCount{Department: dept, ComplaintCount: count})
	}
	return out, nil
}

// ComplaintRepo is an in-memory repository.ComplaintRepository.
type ComplaintRepo struct {
	store *Store
}

func (r *ComplaintRepo) Create(ctx context.Context, complaint *domain.Complaint) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.Err != nil {
		return r.store.Err
	}
	complaint.ID = uuid.NewString()
	complaint.CreatedAt = r.store.tick()
	complaint.UpdatedAt = complaint.CreatedAt
	if student, ok := r.store.Users[complaint.StudentID]; ok {
		complaint.StudentName = student.Name
	}
	clone := *complaint
	r.store.Complaints[complaint.ID] = &clone
	return nil
}

func (r *ComplaintRepo) GetByID(ctx context.Context, id string) (*domain.Complaint, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.Err != nil {
		return nil, r.store.Err
	}
	complaint, ok := r.store.Complaints[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *complaint
	return &clone, nil
}

func (r *ComplaintRepo) GetForUpdate(ctx context.Context, id string) (*domain.Complaint, error) {
	return r.GetByID(ctx, id)
}

func (r *ComplaintRepo) ListByStudent(ctx context.Context, studentID string) ([]domain.Complaint, error) {
	return r.list(func(c *domain.Complaint) bool { return c.StudentID == studentID })
}

func (r *ComplaintRepo) ListByDepartment(ctx context.Context, departmentID string) ([]domain.Complaint, error) {
	return r.list(func(c *domain.Complaint) bool { return c.DepartmentID == departmentID })
}

func (r *ComplaintRepo) ListAll(ctx context.Context) ([]domain.Complaint, error) {
	return r.list(func(*domain.Complaint) bool { return true })
}

func (r *ComplaintRepo) list(keep func(*domain.Complaint) bool) ([]domain.Complaint, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.Err != nil {
		return nil, r.store.Err
	}
	out := make([]domain.Complaint, 0)
	for _, complaint := range r.store.Complaints {
		if keep(complaint) {
			out = append(out, *complaint)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *ComplaintRepo) UpdateStatus(ctx context.Context, id string, status domain.ComplaintStatus) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.Err != nil {
		return r.store.Err
	}
	complaint, ok := r.store.Complaints[id]
	if !ok {
		return pgx.ErrNoRows
	}
	complaint.Status = status
	complaint.UpdatedAt = r.store.tick()
	return nil
}

// RemarkRepo is an in-memory repository.RemarkRepository.
type RemarkRepo struct {
	store *Store
}

func (r *RemarkRepo) Create(ctx context.Context, remark *domain.Remark) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.Err != nil {
		return r.store.Err
	}
	remark.ID = uuid.NewString()
	remark.CreatedAt = r.store.tick()
	if staff, ok := r.store.Users[remark.StaffID]; ok && remark.StaffName == "" {
		remark.StaffName = staff.Name
	}
	clone := *remark
	r.store.Remarks[remark.ID] = &clone
	return nil
}

func (r *RemarkRepo) ListByComplaint(ctx context.Context, complaintID string) ([]domain.Remark, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.Err != nil {
		return nil, r.store.Err
	}
	out := make([]domain.Remark, 0)
	for _, remark := range r.store.Remarks {
		if remark.ComplaintID == complaintID {
			out = append(out, *remark)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// NotificationRepo is an in-memory repository.NotificationRepository.
type NotificationRepo struct {
	store *Store
}

func (r *NotificationRepo) Create(ctx context.Context, notification *domain.Notification) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.Err != nil {
		return r.store.Err
	}
	notification.ID = uuid.NewString()
	notification.CreatedAt = r.store.tick()
	clone := *notification
	r.store.Notifications[notification.ID] = &clone
	return nil
}

func (r *NotificationRepo) ListByUser(ctx context.Context, userID string, limit int) ([]domain.Notification, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.Err != nil {
		return nil, r.store.Err
	}
	out := make([]domain.Notification, 0)
	for _, notification := range r.store.Notifications {
		if notification.UserID == userID {
			out = append(out, *notification)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *NotificationRepo) UnreadCount(ctx context.Context, userID string) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.Err != nil {
		return 0, r.store.Err
	}
	count := 0
	for _, notification := range r.store.Notifications {
		if notification.UserID == userID && !notification.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *NotificationRepo) MarkRead(ctx context.Context, id, userID string) (*domain.Notification, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.Err != nil {
		return nil, r.store.Err
	}
	notification, ok := r.store.Notifications[id]
	if !ok || notification.UserID != userID {
		return nil, pgx.ErrNoRows
	}
	notification.IsRead = true
	clone := *notification
	return &clone, nil
}

func (r *NotificationRepo) MarkAllRead(ctx context.Context, userID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.Err != nil {
		return r.store.Err
	}
	for _, notification := range r.store.Notifications {
		if notification.UserID == userID {
			notification.IsRead = true
		}
	}
	return nil
}

// PasswordResetRepo is an in-memory repository.PasswordResetRepository.
type PasswordResetRepo struct {
	store *Store
}

func (r *PasswordResetRepo) Create(ctx context.Context, token *repository.PasswordResetToken) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.Err != nil {
		return r.store.Err
	}
	token.ID = uuid.NewString()
	token.CreatedAt = r.store.tick()
	clone := *token
	r.store.ResetTokens[token.Token] = &clone
	return nil
}

func (r *PasswordResetRepo) GetByToken(ctx context.Context, token string) (*repository.PasswordResetToken, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.Err != nil {
		return nil, r.store.Err
	}
	found, ok := r.store.ResetTokens[token]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *found
	return &clone, nil
}

func (r *PasswordResetRepo) MarkUsed(ctx context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.Err != nil {
		return r.store.Err
	}
	for _, token := range r.store.ResetTokens {
		if token.ID == id {
			now := r.store.tick()
			token.UsedAt = &now
			return nil
		}
	}
	return pgx.ErrNoRows
}

// AnalyticsRepo computes aggregates from the store the same way the SQL
// queries do.
type AnalyticsRepo struct {
	Store *Store
}

func (r *AnalyticsRepo) StatusCounts(ctx context.Context) (repository.StatusCounts, error) {
	r.Store.mu.Lock()
	defer r.Store.mu.Unlock()
	if r.Store.Err != nil {
		return repository.StatusCounts{}, r.Store.Err
	}
	var counts repository.StatusCounts
	for _, complaint := range r.Store.Complaints {
		counts.Total++
		switch complaint.Status {
		case domain.ComplaintStatusOpen:
			counts.Open++
		case domain.ComplaintStatusResolved:
			counts.Resolved++
		}
	}
	return counts, nil
}

func (r *AnalyticsRepo) CountsByDepartment(ctx context.Context) ([]repository.DepartmentCount, error) {
	r.Store.mu.Lock()
	defer r.Store.mu.Unlock()
	if r.Store.Err != nil {
		return nil, r.Store.Err
	}
	byID := map[string]int{}
	for _, complaint := range r.Store.Complaints {
		byID[complaint.DepartmentID]++
	}
	out := make([]repository.DepartmentCount, 0, len(r.Store.Departments))
	for _, dept := range r.Store.Departments {
		out = append(out, repository.DepartmentCount{Name: dept.Name, Count: byID[dept.ID]})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *AnalyticsRepo) CountsByIssueType(ctx context.Context) ([]repository.IssueTypeCount, error) {
	r.Store.mu.Lock()
	defer r.Store.mu.Unlock()
	if r.Store.Err != nil {
		return nil, r.Store.Err
	}
	byType := map[string]int{}
	for _, complaint := range r.Store.Complaints {
		byType[complaint.IssueType]++
	}
	out := make([]repository.IssueTypeCount, 0, len(byType))
	for issueType, count := range byType {
		out = append(out, repository.IssueTypeCount{IssueType: issueType, Count: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].IssueType < out[j].IssueType })
	return out, nil
}
