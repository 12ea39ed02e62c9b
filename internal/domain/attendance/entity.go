package attendance

import (
	"time"
)

type Attendance struct {
	ID        string
	UserID    string
	WorkDate  time.Time
	ClockIn   *time.Time
	ClockOut  *time.Time
	Memo      *string
	CreatedAt time.Time
	UpdatedAt time.Time

	// DTO / Join
	UserName *string
	Breaks   []BreakInterval
}

// OpenBreak returns the break still running in a.Breaks, if any.
func (a *Attendance) OpenBreak() *BreakInterval {
	for i := range a.Breaks {
		if a.Breaks[i].IsOpen() {
			return &a.Breaks[i]
		}
	}
	return nil
}

// IsComplete reports whether both punches of the day exist.
func (a *Attendance) IsComplete() bool {
	return a.ClockIn != nil && a.ClockOut != nil
}

type BreakInterval struct {
	ID           string
	AttendanceID string
	BreakStart   time.Time
	BreakEnd     *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (b BreakInterval) IsOpen() bool {
	return b.BreakEnd == nil
}

// Duration is zero for an open break.
func (b BreakInterval) Duration() time.Duration {
	if b.BreakEnd == nil {
		return 0
	}
	return b.BreakEnd.Sub(b.BreakStart)
}
