package records

import (
	"context"
	"fmt"
	"time"
)

// Service implements the intern, attendance and task operations on top of a Repository.
type Service struct {
	repo    Repository
	timeout time.Duration
	now     func() time.Time
}

// NewService creates a service backed by a repository. A non-positive timeout
// disables the per-call store deadline.
func NewService(repo Repository, timeout time.Duration) *Service {
	return &Service{repo: repo, timeout: timeout, now: time.Now}
}

func (s *Service) storeCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

// AddIntern inserts an intern unconditionally; duplicate names are allowed.
func (s *Service) AddIntern(ctx context.Context, name, email string) (Intern, error) {
	if name == "" {
		return Intern{}, fmt.Errorf("%w: name required", ErrInvalidInput)
	}
	in := Intern{Name: name, Email: email}

	ctx, cancel := s.storeCtx(ctx)
	defer cancel()
	if err := s.repo.InsertIntern(ctx, in); err != nil {
		return Intern{}, fmt.Errorf("insert intern: %w", err)
	}
	return in, nil
}

// Login opens a new attendance session. It never checks for an already open one.
func (s *Service) Login(ctx context.Context, name string) (AttendanceRecord, error) {
	if name == "" {
		return AttendanceRecord{}, fmt.Errorf("%w: name required", ErrInvalidInput)
	}
	now := s.now()
	rec := AttendanceRecord{
		Name:      name,
		LoginTime: now,
		Date:      Midnight(now),
	}

	ctx, cancel := s.storeCtx(ctx)
	defer cancel()
	if err := s.repo.InsertAttendance(ctx, rec); err != nil {
		return AttendanceRecord{}, fmt.Errorf("insert attendance: %w", err)
	}
	return rec, nil
}

// Logout closes one open session for name. NotFound means there was none.
func (s *Service) Logout(ctx context.Context, name string) (Outcome, time.Time, error) {
	if name == "" {
		return NotFound, time.Time{}, fmt.Errorf("%w: name required", ErrInvalidInput)
	}
	now := s.now()

	ctx, cancel := s.storeCtx(ctx)
	defer cancel()
	outcome, err := s.repo.CloseOpenSession(ctx, name, now)
	if err != nil {
		return NotFound, time.Time{}, fmt.Errorf("close session: %w", err)
	}
	return outcome, now, nil
}

// AssignTask records a new task in the assigned state.
func (s *Service) AssignTask(ctx context.Context, internName, task string) (Task, error) {
	if internName == "" || task == "" {
		return Task{}, fmt.Errorf("%w: intern_name and task required", ErrInvalidInput)
	}
	t := Task{InternName: internName, Task: task, Status: StatusAssigned}

	ctx, cancel := s.storeCtx(ctx)
	defer cancel()
	if err := s.repo.InsertTask(ctx, t); err != nil {
		return Task{}, fmt.Errorf("insert task: %w", err)
	}
	return t, nil
}

// CompleteTask marks an assigned task completed. A missing task and an already
// completed one both yield NotFound.
func (s *Service) CompleteTask(ctx context.Context, internName, task string) (Outcome, error) {
	if internName == "" || task == "" {
		return NotFound, fmt.Errorf("%w: intern_name and task required", ErrInvalidInput)
	}

	ctx, cancel := s.storeCtx(ctx)
	defer cancel()
	outcome, err := s.repo.CompleteAssignedTask(ctx, internName, task)
	if err != nil {
		return NotFound, fmt.Errorf("complete task: %w", err)
	}
	return outcome, nil
}

// Ping checks the store.
func (s *Service) Ping(ctx context.Context) error {
	ctx, cancel := s.storeCtx(ctx)
	defer cancel()
	return s.repo.Ping(ctx)
}
