package records

import (
	"context"
	"time"
)

// Repository is the document store behind the service. Each method is a single
// store call; the two update methods must be atomic per record.
type Repository interface {
	InsertIntern(ctx context.Context, in Intern) error
	InsertAttendance(ctx context.Context, rec AttendanceRecord) error
	// CloseOpenSession sets logoutTime on one open session for name.
	CloseOpenSession(ctx context.Context, name string, logoutTime time.Time) (Outcome, error)
	InsertTask(ctx context.Context, t Task) error
	// CompleteAssignedTask flips one assigned task matching the natural key to completed.
	CompleteAssignedTask(ctx context.Context, internName, task string) (Outcome, error)
	Ping(ctx context.Context) error
}

var (
	_ Repository = (*MemoryRepository)(nil)
	_ Repository = (*MongoRepository)(nil)
	_ Repository = (*PostgresRepository)(nil)
)
