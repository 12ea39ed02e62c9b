package attendance

import (
	"fmt"
	"time"
)

const (
	DateLayout  = "2006-01-02"
	MonthLayout = "2006-01"
	ClockLayout = "15:04"
)

// DateOf returns the calendar day of t as seen in loc, as midnight UTC.
// Work dates are stored without a zone, so the UTC midnight form is the
// canonical value used for keys and comparisons.
func DateOf(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// At combines a work date with an HH:MM wall-clock value in loc.
func At(workDate time.Time, hhmm string, loc *time.Location) (time.Time, error) {
	clock, err := time.Parse(ClockLayout, hhmm)
	if err != nil || clock.Format(ClockLayout) != hhmm {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidClock, hhmm)
	}
	y, m, d := workDate.Date()
	return time.Date(y, m, d, clock.Hour(), clock.Minute(), 0, 0, loc), nil
}

// FormatHHMM renders t in loc, or "" when t is nil.
func FormatHHMM(t *time.Time, loc *time.Location) string {
	if t == nil {
		return ""
	}
	return t.In(loc).Format(ClockLayout)
}

// MonthRange returns the first day of month and the first day of the next.
func MonthRange(month time.Time) (from, to time.Time) {
	from = time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, 0)
}
