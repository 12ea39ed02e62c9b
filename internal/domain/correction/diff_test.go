package correction

import (
	"net/url"
	"testing"
	"time"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/attendance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var workDate = time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)

func clockAt(t *testing.T, hhmm string) *time.Time {
	t.Helper()
	v, err := attendance.At(workDate, hhmm, time.UTC)
	require.NoError(t, err)
	return &v
}

func storedDay(t *testing.T) (attendance.Attendance, []attendance.BreakInterval) {
	memo := "normal day"
	a := attendance.Attendance{
		ID:       "att-1",
		UserID:   "u-1",
		WorkDate: workDate,
		ClockIn:  clockAt(t, "09:00"),
		ClockOut: clockAt(t, "18:00"),
		Memo:     &memo,
	}
	breaks := []attendance.BreakInterval{
		{ID: "b-0", AttendanceID: "att-1", BreakStart: *clockAt(t, "12:00"), BreakEnd: clockAt(t, "13:00")},
		{ID: "b-1", AttendanceID: "att-1", BreakStart: *clockAt(t, "15:00"), BreakEnd: clockAt(t, "15:15")},
	}
	return a, breaks
}

func TestDiff_UnchangedResubmissionProducesNothing(t *testing.T) {
	a, breaks := storedDay(t)
	form := formOf(url.Values{
		"clock_in":      {"09:00"},
		"clock_out":     {"18:00"},
		"break_start_0": {"12:00"},
		"break_end_0":   {"13:00"},
		"break_start_1": {"15:00"},
		"break_end_1":   {"15:15"},
		"memo":          {"normal day"},
	})

	assert.True(t, Diff(form, a, breaks, time.UTC).Empty())
}

func TestDiff_ClockIn(t *testing.T) {
	a, breaks := storedDay(t)
	form := formOf(url.Values{"clock_in": {"08:30"}, "reason": {"late train"}})

	changes := Diff(form, a, breaks, time.UTC)

	assert.Equal(t, ChangeSet{{Field: KeyClockIn, Current: "09:00", Requested: "08:30"}}, changes)
}

func TestDiff_OrderAndAbsentValues(t *testing.T) {
	a, breaks := storedDay(t)
	a.ClockOut = nil
	form := formOf(url.Values{
		"memo":          {"forgot"},
		"break_start_2": {"16:00"},
		"break_end_2":   {"16:10"},
		"break_start_0": {"12:00"},
		"clock_out":     {"18:30"},
		"clock_in":      {"09:00"},
	})

	changes := Diff(form, a, breaks, time.UTC)

	assert.Equal(t, ChangeSet{
		{Field: KeyClockOut, Current: "", Requested: "18:30"},
		// break_end_0 was not sent, so it compares as blank
		{Field: BreakEndKey(0), Current: "13:00", Requested: ""},
		{Field: BreakStartKey(2), Current: "", Requested: "16:00"},
		{Field: BreakEndKey(2), Current: "", Requested: "16:10"},
		{Field: KeyMemo, Current: "normal day", Requested: "forgot"},
	}, changes)
}

func TestDiff_ComparesInLocation(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*3600)
	in, err := attendance.At(workDate, "09:00", jakarta)
	require.NoError(t, err)
	a := attendance.Attendance{WorkDate: workDate, ClockIn: &in}

	form := formOf(url.Values{"clock_in": {"09:00"}, "memo": {"x"}})
	assert.True(t, Diff(form, a, nil, jakarta).Empty())
}
