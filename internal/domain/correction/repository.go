package correction

import (
	"context"
)

// CorrectionRequestRepository stores correction requests. Lookups that find
// nothing return ErrRequestNotFound.
type CorrectionRequestRepository interface {
	Create(ctx context.Context, req CorrectionRequest) (CorrectionRequest, error)
	GetByID(ctx context.Context, id string) (CorrectionRequest, error)

	// LockByID is GetByID holding a row lock until the surrounding
	// transaction ends.
	LockByID(ctx context.Context, id string) (CorrectionRequest, error)

	HasPending(ctx context.Context, userID, attendanceID string) (bool, error)

	// LatestByAttendance returns nil when the attendance has no request.
	LatestByAttendance(ctx context.Context, attendanceID string) (*CorrectionRequest, error)

	// List orders by request date, newest first, then creation time.
	List(ctx context.Context, filter CorrectionFilter) ([]CorrectionRequest, error)

	// Update writes status and approval stamps.
	Update(ctx context.Context, req CorrectionRequest) error
}

type CorrectionFilter struct {
	UserID *string
	Status *Status
}
