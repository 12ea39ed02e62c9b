package correction

import (
	"time"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
)

func (s Status) Valid() bool {
	return s == StatusPending || s == StatusApproved
}

type CorrectionRequest struct {
	ID            string
	UserID        string
	AttendanceID  string
	RequestDate   time.Time
	Status        Status
	Changes       ChangeSet
	CurrentTime   string
	RequestedTime string
	Reason        string
	ApprovedBy    *string
	ApprovedAt    *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// DTO / Join
	UserName *string
}

// Approve stamps the request. Calling it again re-stamps approver and time.
func (r *CorrectionRequest) Approve(approverID string, now time.Time) {
	r.Status = StatusApproved
	r.ApprovedBy = &approverID
	r.ApprovedAt = &now
	r.UpdatedAt = now
}
