package attendance

type Status string

const (
	StatusNotClockedIn Status = "not_clocked_in"
	StatusClockedIn    Status = "clocked_in"
	StatusOnBreak      Status = "on_break"
	StatusClockedOut   Status = "clocked_out"
)

// DeriveStatus depends only on whether today's attendance exists, whether a
// break is open and whether clock-out is set, in that order of precedence.
func DeriveStatus(a *Attendance, openBreak *BreakInterval) Status {
	switch {
	case a == nil:
		return StatusNotClockedIn
	case openBreak != nil:
		return StatusOnBreak
	case a.ClockOut != nil:
		return StatusClockedOut
	default:
		return StatusClockedIn
	}
}
