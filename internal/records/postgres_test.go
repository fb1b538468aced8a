package records

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	closeSessionQuery = `(?s)UPDATE attendance SET logout_time = \$2.*name = \$1 AND logout_time IS NULL.*ORDER BY login_time.*FOR UPDATE SKIP LOCKED.*RETURNING id`
	completeTaskQuery = `(?s)UPDATE tasks SET status = \$4.*intern_name = \$1 AND task = \$2 AND status = \$3.*FOR UPDATE SKIP LOCKED`
)

func setupPostgres(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return NewPostgresRepository(db), mock
}

func TestPostgresRepository_Inserts(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2024, 3, 9, 9, 0, 0, 0, time.UTC)

	t.Run("intern", func(t *testing.T) {
		repo, mock := setupPostgres(t)
		mock.ExpectExec(`INSERT INTO interns`).
			WithArgs(sqlmock.AnyArg(), "Asha", "asha@example.com").
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.InsertIntern(ctx, Intern{Name: "Asha", Email: "asha@example.com"}))
	})

	t.Run("attendance opens with null logout", func(t *testing.T) {
		repo, mock := setupPostgres(t)
		mock.ExpectExec(`INSERT INTO attendance \(id, name, login_time, logout_time, date\)\s+VALUES \(\$1, \$2, \$3, NULL, \$4\)`).
			WithArgs(sqlmock.AnyArg(), "Asha", at, Midnight(at)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.InsertAttendance(ctx, AttendanceRecord{Name: "Asha", LoginTime: at, Date: Midnight(at)}))
	})

	t.Run("task", func(t *testing.T) {
		repo, mock := setupPostgres(t)
		mock.ExpectExec(`INSERT INTO tasks`).
			WithArgs(sqlmock.AnyArg(), "Bob", "X", "assigned").
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.InsertTask(ctx, Task{InternName: "Bob", Task: "X", Status: StatusAssigned}))
	})

	t.Run("error propagates", func(t *testing.T) {
		repo, mock := setupPostgres(t)
		mock.ExpectExec(`INSERT INTO interns`).WillReturnError(errors.New("connection reset"))

		assert.EqualError(t, repo.InsertIntern(ctx, Intern{Name: "Asha"}), "connection reset")
	})
}

func TestPostgresRepository_CloseOpenSession(t *testing.T) {
	ctx := context.Background()
	logoutAt := time.Date(2024, 3, 9, 17, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		rows    *sqlmock.Rows
		err     error
		want    Outcome
		wantErr bool
	}{
		{name: "open session closed", rows: sqlmock.NewRows([]string{"id"}).AddRow("7c9e6679-7425-40de-944b-e07fc1f90ae7"), want: Matched},
		{name: "no open session", rows: sqlmock.NewRows([]string{"id"}), want: NotFound},
		{name: "store error", err: errors.New("connection reset"), want: NotFound, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := setupPostgres(t)
			q := mock.ExpectQuery(closeSessionQuery).WithArgs("Asha", logoutAt)
			if tt.err != nil {
				q.WillReturnError(tt.err)
			} else {
				q.WillReturnRows(tt.rows)
			}

			outcome, err := repo.CloseOpenSession(ctx, "Asha", logoutAt)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, outcome)
		})
	}
}

func TestPostgresRepository_CompleteAssignedTask(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		affected int64
		err      error
		want     Outcome
		wantErr  bool
	}{
		{name: "assigned task completed", affected: 1, want: Matched},
		{name: "missing or already completed", affected: 0, want: NotFound},
		{name: "store error", err: errors.New("connection reset"), want: NotFound, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := setupPostgres(t)
			e := mock.ExpectExec(completeTaskQuery).WithArgs("Bob", "X", "assigned", "completed")
			if tt.err != nil {
				e.WillReturnError(tt.err)
			} else {
				e.WillReturnResult(sqlmock.NewResult(0, tt.affected))
			}

			outcome, err := repo.CompleteAssignedTask(ctx, "Bob", "X")
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, outcome)
		})
	}

	t.Run("rows affected unavailable", func(t *testing.T) {
		repo, mock := setupPostgres(t)
		mock.ExpectExec(completeTaskQuery).
			WithArgs("Bob", "X", "assigned", "completed").
			WillReturnResult(sqlmock.NewErrorResult(errors.New("driver cannot count")))

		outcome, err := repo.CompleteAssignedTask(ctx, "Bob", "X")
		assert.Error(t, err)
		assert.Equal(t, NotFound, outcome)
	})
}

func TestPostgresRepository_Ping(t *testing.T) {
	repo, mock := setupPostgres(t)
	mock.ExpectPing()
	mock.ExpectPing().WillReturnError(errors.New("down"))

	assert.NoError(t, repo.Ping(context.Background()))
	assert.Error(t, repo.Ping(context.Background()))
}
