package records

import (
	"errors"
	"time"
)

// ErrInvalidInput is returned when a required field is missing.
var ErrInvalidInput = errors.New("invalid input")

// Intern is a registered intern. Names are not unique.
type Intern struct {
	Name  string `json:"name" bson:"name"`
	Email string `json:"email,omitempty" bson:"email,omitempty"`
}

// AttendanceRecord is one login session. LogoutTime is nil while the session is open.
type AttendanceRecord struct {
	Name       string     `json:"name" bson:"name"`
	LoginTime  time.Time  `json:"login_time" bson:"login_time"`
	LogoutTime *time.Time `json:"logout_time" bson:"logout_time"`
	Date       time.Time  `json:"date" bson:"date"`
}

// Open reports whether the session has not been closed yet.
func (a AttendanceRecord) Open() bool { return a.LogoutTime == nil }

// TaskStatus is the lifecycle state of a task. The only transition is assigned -> completed.
type TaskStatus string

const (
	StatusAssigned  TaskStatus = "assigned"
	StatusCompleted TaskStatus = "completed"
)

// Task is a unit of work keyed by intern name and task text.
type Task struct {
	InternName string     `json:"intern_name" bson:"intern_name"`
	Task       string     `json:"task" bson:"task"`
	Status     TaskStatus `json:"status" bson:"status"`
}

// Outcome tells whether an update found a record to act on.
type Outcome int

const (
	NotFound Outcome = iota
	Matched
)

func (o Outcome) String() string {
	if o == Matched {
		return "matched"
	}
	return "not_found"
}

// Midnight truncates t to the start of its day in t's location.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
