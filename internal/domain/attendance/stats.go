package attendance

import "math"

type MonthlyStats struct {
	WorkDays        int     `json:"work_days"`
	TotalWorkHours  float64 `json:"total_work_hours"`
	TotalBreakHours float64 `json:"total_break_hours"`
	NetWorkHours    float64 `json:"net_work_hours"`
}

// ComputeMonthlyStats only counts days with both clock-in and clock-out.
// Open breaks contribute nothing.
func ComputeMonthlyStats(attendances []Attendance) MonthlyStats {
	var (
		days         int
		workSeconds  float64
		breakSeconds float64
	)
	for _, a := range attendances {
		if !a.IsComplete() {
			continue
		}
		days++
		workSeconds += a.ClockOut.Sub(*a.ClockIn).Seconds()
		for _, b := range a.Breaks {
			breakSeconds += b.Duration().Seconds()
		}
	}

	return MonthlyStats{
		WorkDays:        days,
		TotalWorkHours:  roundHours(workSeconds),
		TotalBreakHours: roundHours(breakSeconds),
		NetWorkHours:    roundHours(workSeconds - breakSeconds),
	}
}

// math.Round rounds half away from zero.
func roundHours(seconds float64) float64 {
	return math.Round(seconds/3600*100) / 100
}
