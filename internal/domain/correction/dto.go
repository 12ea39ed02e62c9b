package correction

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/pkg/validator"
)

type CorrectionRequestResponse struct {
	ID            string     `json:"id"`
	UserID        string     `json:"user_id"`
	UserName      *string    `json:"user_name,omitempty"`
	AttendanceID  string     `json:"attendance_id"`
	RequestDate   string     `json:"request_date"`
	Status        Status     `json:"status"`
	Changes       ChangeSet  `json:"changes"`
	CurrentTime   string     `json:"current_time"`
	RequestedTime string     `json:"requested_time"`
	Reason        string     `json:"reason"`
	ApprovedBy    *string    `json:"approved_by"`
	ApprovedAt    *time.Time `json:"approved_at"`
	CreatedAt     time.Time  `json:"created_at"`
}

func NewCorrectionRequestResponse(r CorrectionRequest) CorrectionRequestResponse {
	changes := r.Changes
	if changes == nil {
		changes = ChangeSet{}
	}
	return CorrectionRequestResponse{
		ID:            r.ID,
		UserID:        r.UserID,
		UserName:      r.UserName,
		AttendanceID:  r.AttendanceID,
		RequestDate:   r.RequestDate.Format(attendance.DateLayout),
		Status:        r.Status,
		Changes:       changes,
		CurrentTime:   r.CurrentTime,
		RequestedTime: r.RequestedTime,
		Reason:        r.Reason,
		ApprovedBy:    r.ApprovedBy,
		ApprovedAt:    r.ApprovedAt,
		CreatedAt:     r.CreatedAt,
	}
}

type SubmitMode string

const (
	SubmitDirectEdit SubmitMode = "direct_edit"
	SubmitRequested  SubmitMode = "requested"
	SubmitUnchanged  SubmitMode = "unchanged"
)

type SubmitResult struct {
	Mode       SubmitMode                    `json:"mode"`
	Request    *CorrectionRequestResponse    `json:"request,omitempty"`
	Attendance attendance.AttendanceResponse `json:"attendance"`
}

type ApproveResult struct {
	Request    CorrectionRequestResponse     `json:"request"`
	Attendance attendance.AttendanceResponse `json:"attendance"`
}

type AttendanceDetailResponse struct {
	Attendance    attendance.AttendanceResponse `json:"attendance"`
	LatestRequest *CorrectionRequestResponse    `json:"latest_request"`
}

// ListCorrectionRequest carries the list selector. Admins filter with
// status, users with tab; the other parameter is ignored.
type ListCorrectionRequest struct {
	Status string `json:"status"`
	Tab    string `json:"tab"`
}

// Selector returns the filter for the caller's role, nil meaning all.
func (r *ListCorrectionRequest) Selector(admin bool) (*Status, error) {
	raw := r.Tab
	field := "tab"
	if admin {
		raw, field = r.Status, "status"
	}
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" || raw == "all" {
		return nil, nil
	}
	status := Status(raw)
	if !status.Valid() {
		return nil, validator.ValidationErrors{{
			Field:   field,
			Message: ErrInvalidStatusFilter.Error(),
		}}
	}
	return &status, nil
}
