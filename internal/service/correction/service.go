package correction

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/correction"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/pkg/database"
)

type CorrectionServiceImpl struct {
	db             database.Transactor
	attendanceRepo attendance.AttendanceRepository
	breakRepo      attendance.BreakRepository
	requestRepo    correction.CorrectionRequestRepository
	policy         user.Policy
	loc            *time.Location
}

// Submit implements correction.CorrectionService.
func (s *CorrectionServiceImpl) Submit(ctx context.Context, actor user.Actor, attendanceID string, form correction.CorrectionForm, now time.Time) (correction.SubmitResult, error) {
	if err := form.Validate(); err != nil {
		return correction.SubmitResult{}, err
	}

	target, err := s.attendanceRepo.GetByID(ctx, attendanceID)
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return correction.SubmitResult{}, attendance.ErrAttendanceNotFound
		}
		return correction.SubmitResult{}, fmt.Errorf("failed to get attendance: %w", err)
	}
	if err := s.policy.CanSubmitCorrection(actor, target.UserID); err != nil {
		return correction.SubmitResult{}, err
	}

	if s.policy.EditsDirectly(actor) {
		return s.editDirectly(ctx, actor, attendanceID, form, now)
	}
	return s.fileRequest(ctx, actor, attendanceID, form, now)
}

func (s *CorrectionServiceImpl) editDirectly(ctx context.Context, actor user.Actor, attendanceID string, form correction.CorrectionForm, now time.Time) (correction.SubmitResult, error) {
	var result correction.SubmitResult
	err := s.db.WithinTransaction(ctx, func(ctx context.Context) error {
		a, err := s.attendanceRepo.LockByID(ctx, attendanceID)
		if err != nil {
			return fmt.Errorf("failed to lock attendance: %w", err)
		}
		breaks, err := s.breakRepo.ListByAttendance(ctx, a.ID)
		if err != nil {
			return fmt.Errorf("failed to list breaks: %w", err)
		}

		touched, appended, err := correction.ApplyForm(&a, breaks, form, s.loc, now)
		if err != nil {
			return err
		}
		if correction.CountOpen(breaks, appended) > 1 {
			return correction.ErrMultipleOpenBreaks
		}

		if err := s.attendanceRepo.Update(ctx, a); err != nil {
			return fmt.Errorf("failed to update attendance: %w", err)
		}
		for _, i := range correction.ClosingFirst(breaks, touched) {
			if err := s.breakRepo.Update(ctx, breaks[i]); err != nil {
				return fmt.Errorf("failed to update break %d: %w", i, err)
			}
		}
		for _, b := range appended {
			if _, err := s.breakRepo.Create(ctx, b); err != nil {
				return fmt.Errorf("failed to create break: %w", err)
			}
		}

		a.Breaks, err = s.breakRepo.ListByAttendance(ctx, a.ID)
		if err != nil {
			return fmt.Errorf("failed to list breaks: %w", err)
		}
		result = correction.SubmitResult{
			Mode:       correction.SubmitDirectEdit,
			Attendance: attendance.NewAttendanceResponse(a, s.loc),
		}
		return nil
	})
	if err != nil {
		return correction.SubmitResult{}, err
	}

	slog.Info("Attendance edited directly", "attendance_id", attendanceID, "admin_id", actor.ID)
	return result, nil
}

func (s *CorrectionServiceImpl) fileRequest(ctx context.Context, actor user.Actor, attendanceID string, form correction.CorrectionForm, now time.Time) (correction.SubmitResult, error) {
	var result correction.SubmitResult
	err := s.db.WithinTransaction(ctx, func(ctx context.Context) error {
		// The row lock keeps two submissions for one day from both passing
		// the pending check.
		a, err := s.attendanceRepo.LockByID(ctx, attendanceID)
		if err != nil {
			return fmt.Errorf("failed to lock attendance: %w", err)
		}

		pending, err := s.requestRepo.HasPending(ctx, actor.ID, a.ID)
		if err != nil {
			return fmt.Errorf("failed to check pending requests: %w", err)
		}
		if pending {
			return correction.ErrPendingRequestExists
		}

		breaks, err := s.breakRepo.ListByAttendance(ctx, a.ID)
		if err != nil {
			return fmt.Errorf("failed to list breaks: %w", err)
		}
		a.Breaks = breaks

		// The memo travels as the reason and is written on approval.
		changes := correction.Diff(form, a, breaks, s.loc).Without(correction.KeyMemo)
		if changes.Empty() {
			result = correction.SubmitResult{
				Mode:       correction.SubmitUnchanged,
				Attendance: attendance.NewAttendanceResponse(a, s.loc),
			}
			return nil
		}

		first, _ := changes.First()
		created, err := s.requestRepo.Create(ctx, correction.CorrectionRequest{
			UserID:        actor.ID,
			AttendanceID:  a.ID,
			RequestDate:   a.WorkDate,
			Status:        correction.StatusPending,
			Changes:       changes,
			CurrentTime:   first.Current,
			RequestedTime: first.Requested,
			Reason:        form.Note(),
			CreatedAt:     now,
			UpdatedAt:     now,
		})
		if err != nil {
			return fmt.Errorf("failed to create correction request: %w", err)
		}

		resp := correction.NewCorrectionRequestResponse(created)
		result = correction.SubmitResult{
			Mode:       correction.SubmitRequested,
			Request:    &resp,
			Attendance: attendance.NewAttendanceResponse(a, s.loc),
		}
		return nil
	})
	if err != nil {
		return correction.SubmitResult{}, err
	}

	if result.Request != nil {
		slog.Info("Correction request submitted", "request_id", result.Request.ID, "attendance_id", attendanceID, "user_id", actor.ID, "changes", len(result.Request.Changes))
	}
	return result, nil
}

// List implements correction.CorrectionService.
func (s *CorrectionServiceImpl) List(ctx context.Context, actor user.Actor, req correction.ListCorrectionRequest) ([]correction.CorrectionRequestResponse, error) {
	all := s.policy.SeesAllCorrections(actor)
	status, err := req.Selector(all)
	if err != nil {
		return nil, err
	}

	filter := correction.CorrectionFilter{Status: status}
	if !all {
		filter.UserID = &actor.ID
	}

	requests, err := s.requestRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list correction requests: %w", err)
	}

	responses := make([]correction.CorrectionRequestResponse, 0, len(requests))
	for _, r := range requests {
		responses = append(responses, correction.NewCorrectionRequestResponse(r))
	}
	return responses, nil
}

// Get implements correction.CorrectionService.
func (s *CorrectionServiceImpl) Get(ctx context.Context, actor user.Actor, id string) (correction.CorrectionRequestResponse, error) {
	req, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, correction.ErrRequestNotFound) {
			return correction.CorrectionRequestResponse{}, correction.ErrRequestNotFound
		}
		return correction.CorrectionRequestResponse{}, fmt.Errorf("failed to get correction request: %w", err)
	}
	if err := s.policy.CanViewCorrection(actor, req.UserID); err != nil {
		return correction.CorrectionRequestResponse{}, err
	}
	return correction.NewCorrectionRequestResponse(req), nil
}

// Approve implements correction.CorrectionService.
func (s *CorrectionServiceImpl) Approve(ctx context.Context, actor user.Actor, id string, now time.Time) (correction.ApproveResult, error) {
	if err := s.policy.CanApproveCorrection(actor); err != nil {
		return correction.ApproveResult{}, err
	}

	var result correction.ApproveResult
	err := s.db.WithinTransaction(ctx, func(ctx context.Context) error {
		req, err := s.requestRepo.LockByID(ctx, id)
		if err != nil {
			if errors.Is(err, correction.ErrRequestNotFound) {
				return correction.ErrRequestNotFound
			}
			return fmt.Errorf("failed to lock correction request: %w", err)
		}

		req.Approve(actor.ID, now)
		if err := s.requestRepo.Update(ctx, req); err != nil {
			return fmt.Errorf("failed to update correction request: %w", err)
		}

		a, err := s.attendanceRepo.LockByID(ctx, req.AttendanceID)
		if err != nil {
			return fmt.Errorf("failed to lock attendance: %w", err)
		}
		breaks, err := s.breakRepo.ListByAttendance(ctx, a.ID)
		if err != nil {
			return fmt.Errorf("failed to list breaks: %w", err)
		}

		touched, err := correction.ApplyChanges(&a, breaks, req.Changes, req.Reason, s.loc, now)
		if err != nil {
			return err
		}
		if correction.CountOpen(breaks) > 1 {
			return correction.ErrMultipleOpenBreaks
		}

		if err := s.attendanceRepo.Update(ctx, a); err != nil {
			return fmt.Errorf("failed to update attendance: %w", err)
		}
		for _, i := range correction.ClosingFirst(breaks, touched) {
			if err := s.breakRepo.Update(ctx, breaks[i]); err != nil {
				return fmt.Errorf("failed to update break %d: %w", i, err)
			}
		}

		a.Breaks = breaks
		result = correction.ApproveResult{
			Request:    correction.NewCorrectionRequestResponse(req),
			Attendance: attendance.NewAttendanceResponse(a, s.loc),
		}
		return nil
	})
	if err != nil {
		slog.Warn("Correction request approval rolled back", "request_id", id, "admin_id", actor.ID, "error", err)
		return correction.ApproveResult{}, err
	}

	slog.Info("Correction request approved", "request_id", id, "attendance_id", result.Attendance.ID, "admin_id", actor.ID)
	return result, nil
}

// GetAttendanceDetail implements correction.CorrectionService.
func (s *CorrectionServiceImpl) GetAttendanceDetail(ctx context.Context, actor user.Actor, attendanceID string) (correction.AttendanceDetailResponse, error) {
	a, err := s.attendanceRepo.GetByID(ctx, attendanceID)
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return correction.AttendanceDetailResponse{}, attendance.ErrAttendanceNotFound
		}
		return correction.AttendanceDetailResponse{}, fmt.Errorf("failed to get attendance: %w", err)
	}
	if err := s.policy.CanViewAttendance(actor, a.UserID); err != nil {
		return correction.AttendanceDetailResponse{}, err
	}

	a.Breaks, err = s.breakRepo.ListByAttendance(ctx, a.ID)
	if err != nil {
		return correction.AttendanceDetailResponse{}, fmt.Errorf("failed to list breaks: %w", err)
	}

	latest, err := s.requestRepo.LatestByAttendance(ctx, a.ID)
	if err != nil {
		return correction.AttendanceDetailResponse{}, fmt.Errorf("failed to get latest correction request: %w", err)
	}

	resp := correction.AttendanceDetailResponse{
		Attendance: attendance.NewAttendanceResponse(a, s.loc),
	}
	if latest != nil {
		r := correction.NewCorrectionRequestResponse(*latest)
		resp.LatestRequest = &r
	}
	return resp, nil
}

func NewCorrectionService(
	db database.Transactor,
	attendanceRepo attendance.AttendanceRepository,
	breakRepo attendance.BreakRepository,
	requestRepo correction.CorrectionRequestRepository,
	loc *time.Location,
) correction.CorrectionService {
	if loc == nil {
		loc = time.UTC
	}
	return &CorrectionServiceImpl{
		db:             db,
		attendanceRepo: attendanceRepo,
		breakRepo:      breakRepo,
		requestRepo:    requestRepo,
		policy:         user.NewPolicy(),
		loc:            loc,
	}
}
