package attendance

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

type BreakResponse struct {
	ID         string     `json:"id"`
	BreakStart time.Time  `json:"break_start"`
	BreakEnd   *time.Time `json:"break_end"`
	StartTime  string     `json:"start_time"`
	EndTime    string     `json:"end_time"`
}

type AttendanceResponse struct {
	ID           string          `json:"id"`
	UserID       string          `json:"user_id"`
	UserName     *string         `json:"user_name,omitempty"`
	WorkDate     string          `json:"work_date"`
	ClockIn      *time.Time      `json:"clock_in"`
	ClockOut     *time.Time      `json:"clock_out"`
	ClockInTime  string          `json:"clock_in_time"`
	ClockOutTime string          `json:"clock_out_time"`
	Memo         *string         `json:"memo"`
	Breaks       []BreakResponse `json:"breaks"`
	WorkHours    float64         `json:"work_hours"`
	BreakHours   float64         `json:"break_hours"`
	NetWorkHours float64         `json:"net_work_hours"`
	Status       Status          `json:"status"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// NewAttendanceResponse renders a with its loaded breaks in loc.
func NewAttendanceResponse(a Attendance, loc *time.Location) AttendanceResponse {
	resp := AttendanceResponse{
		ID:           a.ID,
		UserID:       a.UserID,
		UserName:     a.UserName,
		WorkDate:     a.WorkDate.Format(DateLayout),
		ClockIn:      a.ClockIn,
		ClockOut:     a.ClockOut,
		ClockInTime:  FormatHHMM(a.ClockIn, loc),
		ClockOutTime: FormatHHMM(a.ClockOut, loc),
		Memo:         a.Memo,
		Breaks:       make([]BreakResponse, 0, len(a.Breaks)),
		Status:       DeriveStatus(&a, a.OpenBreak()),
		UpdatedAt:    a.UpdatedAt,
	}
	for _, b := range a.Breaks {
		start := b.BreakStart
		resp.Breaks = append(resp.Breaks, BreakResponse{
			ID:         b.ID,
			BreakStart: b.BreakStart,
			BreakEnd:   b.BreakEnd,
			StartTime:  FormatHHMM(&start, loc),
			EndTime:    FormatHHMM(b.BreakEnd, loc),
		})
	}

	day := ComputeMonthlyStats([]Attendance{a})
	resp.WorkHours = day.TotalWorkHours
	resp.BreakHours = day.TotalBreakHours
	resp.NetWorkHours = day.NetWorkHours
	return resp
}

type StatusResponse struct {
	Status     Status              `json:"status"`
	Now        time.Time           `json:"now"`
	Today      string              `json:"today"`
	Attendance *AttendanceResponse `json:"attendance"`
	Flashes    []string            `json:"flashes,omitempty"`
}

type PunchAction string

const (
	PunchClockIn    PunchAction = "clock_in"
	PunchBreakStart PunchAction = "break_start"
	PunchBreakEnd   PunchAction = "break_end"
	PunchClockOut   PunchAction = "clock_out"
)

// PunchResponse reports whether the punch changed anything. A punch in the
// wrong state is not an error; Applied is simply false.
type PunchResponse struct {
	Action  PunchAction    `json:"action"`
	Applied bool           `json:"applied"`
	Status  StatusResponse `json:"status"`
}

type ListAttendanceRequest struct {
	Month  string `json:"month"`
	UserID string `json:"user_id"`

	month time.Time
}

func (r *ListAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Month = strings.TrimSpace(r.Month)
	r.UserID = strings.TrimSpace(r.UserID)

	if r.Month != "" {
		month, ok := validator.IsValidMonth(r.Month)
		if !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "month",
				Message: ErrInvalidMonth.Error(),
			})
		}
		r.month = month
	}

	if r.UserID != "" && !validator.IsValidUUID(r.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "user_id must be a valid UUID",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// MonthOr returns the parsed month, or the month of fallback when none was
// requested.
func (r *ListAttendanceRequest) MonthOr(fallback time.Time) time.Time {
	if r.month.IsZero() {
		return time.Date(fallback.Year(), fallback.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
	return r.month
}

type ListAttendanceResponse struct {
	Month       string               `json:"month"`
	Attendances []AttendanceResponse `json:"attendances"`
	Stats       MonthlyStats         `json:"stats"`
}
