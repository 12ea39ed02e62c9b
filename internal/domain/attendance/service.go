package attendance

import (
	"context"
	"time"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/user"
)

type AttendanceService interface {
	ClockIn(ctx context.Context, actor user.Actor, now time.Time) (PunchResponse, error)
	BreakStart(ctx context.Context, actor user.Actor, now time.Time) (PunchResponse, error)
	BreakEnd(ctx context.Context, actor user.Actor, now time.Time) (PunchResponse, error)
	ClockOut(ctx context.Context, actor user.Actor, now time.Time) (PunchResponse, error)

	GetStatus(ctx context.Context, actor user.Actor, now time.Time) (StatusResponse, error)
	ListAttendance(ctx context.Context, actor user.Actor, req ListAttendanceRequest, now time.Time) (ListAttendanceResponse, error)
}
