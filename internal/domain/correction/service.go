package correction

import (
	"context"
	"time"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/user"
)

type CorrectionService interface {
	// Submit applies the form directly for editors and files a pending
	// request for owners.
	Submit(ctx context.Context, actor user.Actor, attendanceID string, form CorrectionForm, now time.Time) (SubmitResult, error)
	List(ctx context.Context, actor user.Actor, req ListCorrectionRequest) ([]CorrectionRequestResponse, error)
	Get(ctx context.Context, actor user.Actor, id string) (CorrectionRequestResponse, error)
	Approve(ctx context.Context, actor user.Actor, id string, now time.Time) (ApproveResult, error)

	// GetAttendanceDetail returns the attendance, its breaks and the latest
	// correction request filed against it.
	GetAttendanceDetail(ctx context.Context, actor user.Actor, attendanceID string) (AttendanceDetailResponse, error)
}
