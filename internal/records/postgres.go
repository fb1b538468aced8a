package records

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// PostgresRepository persists records in Postgres tables shaped like the collections.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates a repo.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) InsertIntern(ctx context.Context, in Intern) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO interns (id, name, email)
		VALUES ($1, $2, $3)
	`, uuid.NewString(), in.Name, in.Email)
	return err
}

func (r *PostgresRepository) InsertAttendance(ctx context.Context, rec AttendanceRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO attendance (id, name, login_time, logout_time, date)
		VALUES ($1, $2, $3, NULL, $4)
	`, uuid.NewString(), rec.Name, rec.LoginTime, rec.Date)
	return err
}

// CloseOpenSession closes the oldest open session. SKIP LOCKED lets two racing
// logouts pick different rows or come back empty instead of blocking.
func (r *PostgresRepository) CloseOpenSession(ctx context.Context, name string, logoutTime time.Time) (Outcome, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE attendance SET logout_time = $2
		WHERE id = (
			SELECT id FROM attendance
			WHERE name = $1 AND logout_time IS NULL
			ORDER BY login_time
			LIMIT 1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id
	`, name, logoutTime)
	var id string
	if err := row.Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return NotFound, nil
		}
		return NotFound, err
	}
	return Matched, nil
}

func (r *PostgresRepository) InsertTask(ctx context.Context, t Task) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tasks (id, intern_name, task, status)
		VALUES ($1, $2, $3, $4)
	`, uuid.NewString(), t.InternName, t.Task, string(t.Status))
	return err
}

func (r *PostgresRepository) CompleteAssignedTask(ctx context.Context, internName, task string) (Outcome, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE tasks SET status = $4
		WHERE id = (
			SELECT id FROM tasks
			WHERE intern_name = $1 AND task = $2 AND status = $3
			ORDER BY created_at
			LIMIT 1
			FOR UPDATE SKIP LOCKED
		)
	`, internName, task, string(StatusAssigned), string(StatusCompleted))
	if err != nil {
		return NotFound, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return NotFound, err
	}
	if n > 0 {
		return Matched, nil
	}
	return NotFound, nil
}

func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
