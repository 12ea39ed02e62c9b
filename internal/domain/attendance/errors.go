package attendance

import "errors"

// Attendance domain errors
var (
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrBreakNotFound      = errors.New("no open break found")
	ErrInvalidMonth       = errors.New("month must be formatted as YYYY-MM")
	ErrInvalidClock       = errors.New("time must be formatted as HH:MM")
)
