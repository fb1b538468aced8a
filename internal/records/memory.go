package records

import (
	"context"
	"sync"
	"time"
)

// MemoryRepository keeps all three collections in process. Used for dev mode and tests.
type MemoryRepository struct {
	mu         sync.Mutex
	interns    []Intern
	attendance []AttendanceRecord
	tasks      []Task
}

// NewMemoryRepository returns an empty store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (m *MemoryRepository) InsertIntern(_ context.Context, in Intern) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.interns = append(m.interns, in)
	return nil
}

func (m *MemoryRepository) InsertAttendance(_ context.Context, rec AttendanceRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec.LogoutTime = nil
	m.attendance = append(m.attendance, rec)
	return nil
}

// CloseOpenSession closes the oldest open session for name.
func (m *MemoryRepository) CloseOpenSession(_ context.Context, name string, logoutTime time.Time) (Outcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.attendance {
		rec := &m.attendance[i]
		if rec.Name == name && rec.Open() {
			t := logoutTime
			rec.LogoutTime = &t
			return Matched, nil
		}
	}
	return NotFound, nil
}

func (m *MemoryRepository) InsertTask(_ context.Context, t Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks = append(m.tasks, t)
	return nil
}

func (m *MemoryRepository) CompleteAssignedTask(_ context.Context, internName, task string) (Outcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.tasks {
		t := &m.tasks[i]
		if t.InternName == internName && t.Task == task && t.Status == StatusAssigned {
			t.Status = StatusCompleted
			return Matched, nil
		}
	}
	return NotFound, nil
}

func (m *MemoryRepository) Ping(context.Context) error { return nil }

// Interns returns a copy of the interns collection.
func (m *MemoryRepository) Interns() []Intern {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Intern(nil), m.interns...)
}

// Attendance returns a copy of the attendance collection.
func (m *MemoryRepository) Attendance() []AttendanceRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]AttendanceRecord, len(m.attendance))
	for i, rec := range m.attendance {
		if rec.LogoutTime != nil {
			t := *rec.LogoutTime
			rec.LogoutTime = &t
		}
		out[i] = rec
	}
	return out
}

// Tasks returns a copy of the tasks collection.
func (m *MemoryRepository) Tasks() []Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Task(nil), m.tasks...)
}
