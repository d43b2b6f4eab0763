package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/gigshift-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/gigshift-attendance-go/internal/domain/auth"
	"github.com/cmlabs-hris/gigshift-attendance-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/gigshift-attendance-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type AttendanceHandler interface {
	CheckIn(w http.ResponseWriter, r *http.Request)
	CheckOut(w http.ResponseWriter, r *http.Request)
	GetMyOpen(w http.ResponseWriter, r *http.Request)
	AdminCheckIn(w http.ResponseWriter, r *http.Request)
	AdminCheckOut(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

// decodeJSON reads a JSON body into dst. An empty body leaves dst untouched.
func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func workerID(r *http.Request) (string, error) {
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok || p.WorkerID == "" {
		return "", auth.ErrMissingWorkerIdentity
	}
	return p.WorkerID, nil
}

// CheckIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	var req attendance.CheckInRequest
	if err := decodeJSON(r, &req); err != nil {
		slog.Debug("Failed to decode check-in request", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	id, err := workerID(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	req.WorkerID = id

	result, err := h.attendanceService.CheckIn(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Check in successful", result)
}

// CheckOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckOut(w http.ResponseWriter, r *http.Request) {
	id, err := workerID(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	req := attendance.CheckOutRequest{
		WorkerID:     id,
		AttendanceID: chi.URLParam(r, "attendanceID"),
	}

	result, err := h.attendanceService.CheckOut(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Check out successful", result)
}

// GetMyOpen implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetMyOpen(w http.ResponseWriter, r *http.Request) {
	id, err := workerID(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.GetOpen(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// AdminCheckIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) AdminCheckIn(w http.ResponseWriter, r *http.Request) {
	var req attendance.AdminCheckInRequest
	if err := decodeJSON(r, &req); err != nil {
		slog.Debug("Failed to decode admin check-in request", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ApplicationID = chi.URLParam(r, "applicationID")

	result, err := h.attendanceService.AdminCheckIn(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Check in recorded", result)
}

// AdminCheckOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) AdminCheckOut(w http.ResponseWriter, r *http.Request) {
	var req attendance.AdminCheckOutRequest
	if err := decodeJSON(r, &req); err != nil {
		slog.Debug("Failed to decode admin check-out request", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.AttendanceID = chi.URLParam(r, "attendanceID")

	result, err := h.attendanceService.AdminCheckOut(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Check out recorded", result)
}
