package records

import (
	"fmt"
	"time"
)

// Response texts callers have always parsed. Keep them byte-for-byte stable.
const (
	MsgNoActiveSession = "No active login session found for this user."
	MsgTaskNotFound    = "Task not found or already completed"
)

const timestampLayout = "2006-01-02 15:04:05.000000"

func stamp(t time.Time) string { return t.Format(timestampLayout) }

func InternAddedMessage(name string) string {
	return fmt.Sprintf("Intern %s added successfully", name)
}

func LoginMessage(rec AttendanceRecord) string {
	return fmt.Sprintf("%s logged in at %s", rec.Name, stamp(rec.LoginTime))
}

func LogoutMessage(name string, outcome Outcome, at time.Time) string {
	if outcome != Matched {
		return MsgNoActiveSession
	}
	return fmt.Sprintf("%s logged out at %s", name, stamp(at))
}

func TaskAssignedMessage(internName string) string {
	return fmt.Sprintf("Task assigned to %s", internName)
}

func TaskCompletedMessage(internName string, outcome Outcome) string {
	if outcome != Matched {
		return MsgTaskNotFound
	}
	return fmt.Sprintf("%s completed the task", internName)
}
