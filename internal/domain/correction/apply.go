package correction

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/attendance"
)

// ApplyChanges merges an approved change-set into a and breaks in place.
// Break keys address breaks by position; a position with no loaded break
// is skipped. An empty requested clock-in, clock-out or break end clears
// the value, an empty break start is skipped. The memo always becomes the
// request's reason. It returns the positions of the breaks it modified.
func ApplyChanges(a *attendance.Attendance, breaks []attendance.BreakInterval, changes ChangeSet, reason string, loc *time.Location, now time.Time) ([]int, error) {
	var touched []int
	mark := func(i int) {
		for _, t := range touched {
			if t == i {
				return
			}
		}
		touched = append(touched, i)
	}

	for _, change := range changes {
		switch change.Field.Kind {
		case FieldClockIn, FieldClockOut:
			value, err := optionalAt(a.WorkDate, change.Requested, loc)
			if err != nil {
				return nil, fmt.Errorf("apply %s: %w", change.Field, err)
			}
			if change.Field.Kind == FieldClockIn {
				a.ClockIn = value
			} else {
				a.ClockOut = value
			}

		case FieldBreakStart:
			i := change.Field.Index
			if i >= len(breaks) || change.Requested == "" {
				continue
			}
			start, err := attendance.At(a.WorkDate, change.Requested, loc)
			if err != nil {
				return nil, fmt.Errorf("apply %s: %w", change.Field, err)
			}
			breaks[i].BreakStart = start
			breaks[i].UpdatedAt = now
			mark(i)

		case FieldBreakEnd:
			i := change.Field.Index
			if i >= len(breaks) {
				continue
			}
			end, err := optionalAt(a.WorkDate, change.Requested, loc)
			if err != nil {
				return nil, fmt.Errorf("apply %s: %w", change.Field, err)
			}
			breaks[i].BreakEnd = end
			breaks[i].UpdatedAt = now
			mark(i)
		}
	}

	memo := reason
	a.Memo = &memo
	a.UpdatedAt = now
	return touched, nil
}

// ApplyForm performs an immediate edit. Blank clock fields leave the stored
// value alone. A submitted break row overwrites the break at that position
// and clears its end when none is given. Every row past the stored breaks
// that carries a start becomes a new break, returned separately in
// position order.
func ApplyForm(a *attendance.Attendance, breaks []attendance.BreakInterval, form CorrectionForm, loc *time.Location, now time.Time) (touched []int, appended []attendance.BreakInterval, err error) {
	if form.ClockIn != nil && *form.ClockIn != "" {
		v, err := attendance.At(a.WorkDate, *form.ClockIn, loc)
		if err != nil {
			return nil, nil, fmt.Errorf("apply clock_in: %w", err)
		}
		a.ClockIn = &v
	}
	if form.ClockOut != nil && *form.ClockOut != "" {
		v, err := attendance.At(a.WorkDate, *form.ClockOut, loc)
		if err != nil {
			return nil, nil, fmt.Errorf("apply clock_out: %w", err)
		}
		a.ClockOut = &v
	}
	memo := form.Note()
	a.Memo = &memo
	a.UpdatedAt = now

	for i := range breaks {
		if i >= MaxBreaks {
			break
		}
		b := form.Breaks[i]
		if !b.Present() {
			continue
		}
		if b.Start != nil && *b.Start != "" {
			start, err := attendance.At(a.WorkDate, *b.Start, loc)
			if err != nil {
				return nil, nil, fmt.Errorf("apply %s: %w", BreakStartKey(i), err)
			}
			breaks[i].BreakStart = start
		}
		end, err := optionalAt(a.WorkDate, deref(b.End), loc)
		if err != nil {
			return nil, nil, fmt.Errorf("apply %s: %w", BreakEndKey(i), err)
		}
		breaks[i].BreakEnd = end
		breaks[i].UpdatedAt = now
		touched = append(touched, i)
	}

	for i := len(breaks); i < MaxBreaks; i++ {
		b := form.Breaks[i]
		if b.Start == nil || *b.Start == "" {
			continue
		}
		start, err := attendance.At(a.WorkDate, *b.Start, loc)
		if err != nil {
			return nil, nil, fmt.Errorf("apply %s: %w", BreakStartKey(i), err)
		}
		end, err := optionalAt(a.WorkDate, deref(b.End), loc)
		if err != nil {
			return nil, nil, fmt.Errorf("apply %s: %w", BreakEndKey(i), err)
		}
		appended = append(appended, attendance.BreakInterval{
			AttendanceID: a.ID,
			BreakStart:   start,
			BreakEnd:     end,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	}

	return touched, appended, nil
}

// CountOpen counts breaks without an end across all given lists.
func CountOpen(lists ...[]attendance.BreakInterval) int {
	n := 0
	for _, breaks := range lists {
		for _, b := range breaks {
			if b.IsOpen() {
				n++
			}
		}
	}
	return n
}

func optionalAt(workDate time.Time, hhmm string, loc *time.Location) (*time.Time, error) {
	if hhmm == "" {
		return nil, nil
	}
	v, err := attendance.At(workDate, hhmm, loc)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// ClosingFirst orders touched so that breaks which end are written before
// breaks left open, keeping at most one open break at every step.
func ClosingFirst(breaks []attendance.BreakInterval, touched []int) []int {
	ordered := make([]int, 0, len(touched))
	for _, i := range touched {
		if !breaks[i].IsOpen() {
			ordered = append(ordered, i)
		}
	}
	for _, i := range touched {
		if breaks[i].IsOpen() {
			ordered = append(ordered, i)
		}
	}
	return ordered
}
