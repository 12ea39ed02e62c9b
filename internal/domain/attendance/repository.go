package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access methods for attendance records.
// Lookups that find nothing return ErrAttendanceNotFound.
type AttendanceRepository interface {
	// CreateIfAbsent inserts the record unless (user, work date) already has
	// one. created is false when the existing row was kept.
	CreateIfAbsent(ctx context.Context, attendance Attendance) (created bool, err error)

	GetByID(ctx context.Context, id string) (Attendance, error)

	// LockByID is GetByID holding a row lock until the surrounding
	// transaction ends.
	LockByID(ctx context.Context, id string) (Attendance, error)

	GetByUserAndDate(ctx context.Context, userID string, workDate time.Time) (Attendance, error)

	// LockByUserAndDate serialises punches for one user and day.
	LockByUserAndDate(ctx context.Context, userID string, workDate time.Time) (Attendance, error)

	// Update writes clock-in, clock-out and memo.
	Update(ctx context.Context, attendance Attendance) error

	// List returns rows ordered by work date, then user name.
	List(ctx context.Context, filter AttendanceFilter) ([]Attendance, error)
}

// BreakRepository stores the break intervals of an attendance. Lists are
// ordered by break start, then id, which is the positional order used by
// correction change-sets.
type BreakRepository interface {
	Create(ctx context.Context, b BreakInterval) (BreakInterval, error)
	ListByAttendance(ctx context.Context, attendanceID string) ([]BreakInterval, error)
	ListByAttendanceIDs(ctx context.Context, attendanceIDs []string) (map[string][]BreakInterval, error)

	// GetOpen returns ErrBreakNotFound when no break is running.
	GetOpen(ctx context.Context, attendanceID string) (BreakInterval, error)

	// Update writes break start and end.
	Update(ctx context.Context, b BreakInterval) error
}

type AttendanceFilter struct {
	UserID *string
	From   time.Time // inclusive work date
	To     time.Time // exclusive work date
}
