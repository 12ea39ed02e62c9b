package correction

import (
	"time"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/attendance"
)

// Diff compares the submitted form with the stored attendance at HH:MM
// granularity. breaks must be in positional order.
func Diff(form CorrectionForm, a attendance.Attendance, breaks []attendance.BreakInterval, loc *time.Location) ChangeSet {
	var changes ChangeSet

	add := func(key FieldKey, current, requested string) {
		if current != requested {
			changes = append(changes, Change{Field: key, Current: current, Requested: requested})
		}
	}

	if form.ClockIn != nil {
		add(KeyClockIn, attendance.FormatHHMM(a.ClockIn, loc), *form.ClockIn)
	}
	if form.ClockOut != nil {
		add(KeyClockOut, attendance.FormatHHMM(a.ClockOut, loc), *form.ClockOut)
	}

	for i, b := range form.Breaks {
		if !b.Present() {
			continue
		}
		var currentStart, currentEnd string
		if i < len(breaks) {
			start := breaks[i].BreakStart
			currentStart = attendance.FormatHHMM(&start, loc)
			currentEnd = attendance.FormatHHMM(breaks[i].BreakEnd, loc)
		}
		add(BreakStartKey(i), currentStart, deref(b.Start))
		add(BreakEndKey(i), currentEnd, deref(b.End))
	}

	if form.Memo != nil {
		add(KeyMemo, deref(a.Memo), *form.Memo)
	}

	return changes
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
