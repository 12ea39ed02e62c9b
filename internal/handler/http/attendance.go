package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/pkg/session"
)

type AttendanceHandler interface {
	Status(w http.ResponseWriter, r *http.Request)
	ClockIn(w http.ResponseWriter, r *http.Request)
	BreakStart(w http.ResponseWriter, r *http.Request)
	BreakEnd(w http.ResponseWriter, r *http.Request)
	ClockOut(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
	flashes           session.FlashStore
	now               func() time.Time
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService, flashes session.FlashStore, now func() time.Time) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
		flashes:           flashes,
		now:               now,
	}
}

// Status implements AttendanceHandler.
func (h *attendanceHandlerImpl) Status(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOf(w, r)
	if !ok {
		return
	}

	flashes, err := h.flashes.Flashes(w, r)
	if err != nil {
		slog.Warn("Failed to read flash messages", "error", err)
	}

	status, err := h.attendanceService.GetStatus(r.Context(), actor, h.now())
	if err != nil {
		slog.Error("GetStatus service error", "error", err)
		response.HandleError(w, err)
		return
	}
	status.Flashes = flashes

	response.Success(w, status)
}

type punchFunc func(ctx context.Context, actor user.Actor, now time.Time) (attendance.PunchResponse, error)

var punchMessages = map[attendance.PunchAction][2]string{
	attendance.PunchClockIn:    {"Clocked in.", "Already clocked in today."},
	attendance.PunchBreakStart: {"Break started.", "A break cannot be started now."},
	attendance.PunchBreakEnd:   {"Break ended.", "There is no break to end."},
	attendance.PunchClockOut:   {"Clocked out.", "Clock-out is not possible now."},
}

// punch runs a punch and redirects back to the status page with a flash.
func (h *attendanceHandlerImpl) punch(w http.ResponseWriter, r *http.Request, fn punchFunc) {
	actor, ok := actorOf(w, r)
	if !ok {
		return
	}

	resp, err := fn(r.Context(), actor, h.now())
	if err != nil {
		slog.Error("Punch service error", "user_id", actor.ID, "error", err)
		response.HandleError(w, err)
		return
	}

	messages := punchMessages[resp.Action]
	message := messages[1]
	if resp.Applied {
		message = messages[0]
	}
	if err := h.flashes.AddFlash(w, r, message); err != nil {
		slog.Warn("Failed to store flash message", "error", err)
	}

	http.Redirect(w, r, middleware.UserHomePath, http.StatusSeeOther)
}

// ClockIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) ClockIn(w http.ResponseWriter, r *http.Request) {
	h.punch(w, r, h.attendanceService.ClockIn)
}

// BreakStart implements AttendanceHandler.
func (h *attendanceHandlerImpl) BreakStart(w http.ResponseWriter, r *http.Request) {
	h.punch(w, r, h.attendanceService.BreakStart)
}

// BreakEnd implements AttendanceHandler.
func (h *attendanceHandlerImpl) BreakEnd(w http.ResponseWriter, r *http.Request) {
	h.punch(w, r, h.attendanceService.BreakEnd)
}

// ClockOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) ClockOut(w http.ResponseWriter, r *http.Request) {
	h.punch(w, r, h.attendanceService.ClockOut)
}

// List implements AttendanceHandler.
func (h *attendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOf(w, r)
	if !ok {
		return
	}

	req := attendance.ListAttendanceRequest{
		Month:  r.URL.Query().Get("month"),
		UserID: r.URL.Query().Get("user_id"),
	}

	results, err := h.attendanceService.ListAttendance(r.Context(), actor, req, h.now())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}
