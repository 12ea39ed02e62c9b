package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/correction"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/handler/http/response"
)

type CorrectionHandler interface {
	AttendanceDetail(w http.ResponseWriter, r *http.Request)
	Submit(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
}

type correctionHandlerImpl struct {
	correctionService correction.CorrectionService
	now               func() time.Time
}

func NewCorrectionHandler(correctionService correction.CorrectionService, now func() time.Time) CorrectionHandler {
	return &correctionHandlerImpl{
		correctionService: correctionService,
		now:               now,
	}
}

// AttendanceDetail implements CorrectionHandler.
func (h *correctionHandlerImpl) AttendanceDetail(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOf(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r, attendance.ErrAttendanceNotFound)
	if !ok {
		return
	}

	detail, err := h.correctionService.GetAttendanceDetail(r.Context(), actor, id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, detail)
}

// Submit implements CorrectionHandler. Admins edit the attendance in place,
// owners file a pending request.
func (h *correctionHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOf(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r, attendance.ErrAttendanceNotFound)
	if !ok {
		return
	}

	lookup, err := formLookup(w, r)
	if err != nil {
		slog.Error("Correction decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.correctionService.Submit(r.Context(), actor, id, correction.NewCorrectionForm(lookup), h.now())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	switch result.Mode {
	case correction.SubmitRequested:
		response.Created(w, "Correction request submitted", result)
	case correction.SubmitDirectEdit:
		response.SuccessWithMessage(w, "Attendance updated", result)
	default:
		response.SuccessWithMessage(w, "Nothing to change", result)
	}
}

// List implements CorrectionHandler.
func (h *correctionHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOf(w, r)
	if !ok {
		return
	}

	req := correction.ListCorrectionRequest{
		Status: r.URL.Query().Get("status"),
		Tab:    r.URL.Query().Get("tab"),
	}
	results, err := h.correctionService.List(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}

// Get implements CorrectionHandler.
func (h *correctionHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOf(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r, correction.ErrRequestNotFound)
	if !ok {
		return
	}

	result, err := h.correctionService.Get(r.Context(), actor, id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Approve implements CorrectionHandler.
func (h *correctionHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOf(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r, correction.ErrRequestNotFound)
	if !ok {
		return
	}

	result, err := h.correctionService.Approve(r.Context(), actor, id, h.now())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Correction request approved", result)
}
