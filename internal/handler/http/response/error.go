package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/gigshift-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/gigshift-attendance-go/internal/domain/auth"
	"github.com/cmlabs-hris/gigshift-attendance-go/internal/domain/event"
	"github.com/cmlabs-hris/gigshift-attendance-go/internal/domain/location"
	"github.com/cmlabs-hris/gigshift-attendance-go/internal/pkg/validator"
)

// Error codes carried in ErrorDetail.Code.
const (
	CodeBadRequest   = "BAD_REQUEST"
	CodeValidation   = "VALIDATION_ERROR"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeNotFound     = "NOT_FOUND"
	CodeInternal     = "INTERNAL_SERVER_ERROR"

	CodeInvalidCode           = "INVALID_CODE"
	CodeNotConfirmed          = "NOT_CONFIRMED"
	CodeAlreadyCheckedIn      = "ALREADY_CHECKED_IN"
	CodeAlreadyCheckedOut     = "ALREADY_CHECKED_OUT"
	CodeNotCheckedIn          = "NOT_CHECKED_IN"
	CodeCheckOutBeforeCheckIn = "CHECK_OUT_BEFORE_CHECK_IN"
	CodeAttendanceNotFound    = "ATTENDANCE_NOT_FOUND"
	CodeEventNotFound         = "EVENT_NOT_FOUND"
	CodeApplicationNotFound   = "APPLICATION_NOT_FOUND"
	CodeNotTracking           = "NOT_TRACKING"
	CodeNotOwner              = "NOT_OWNER"
)

type domainError struct {
	err     error
	status  int
	code    string
	message string
}

var domainErrors = []domainError{
	// Attendance domain errors
	{attendance.ErrInvalidCode, http.StatusBadRequest, CodeInvalidCode, "Check-in code does not match any event"},
	{attendance.ErrNotConfirmed, http.StatusForbidden, CodeNotConfirmed, "Application is not confirmed for this event"},
	{attendance.ErrAlreadyCheckedIn, http.StatusConflict, CodeAlreadyCheckedIn, "Worker is already checked in"},
	{attendance.ErrAlreadyCheckedOut, http.StatusConflict, CodeAlreadyCheckedOut, "Attendance for this event is already closed"},
	{attendance.ErrNotCheckedIn, http.StatusConflict, CodeNotCheckedIn, "Worker is not checked in"},
	{attendance.ErrCheckOutBeforeCheckIn, http.StatusConflict, CodeCheckOutBeforeCheckIn, "Check-out time is before check-in time"},
	{attendance.ErrAttendanceNotFound, http.StatusNotFound, CodeAttendanceNotFound, "Attendance record not found"},
	{attendance.ErrUnauthorized, http.StatusForbidden, CodeNotOwner, "Attendance record belongs to another worker"},

	// Event domain errors
	{event.ErrEventNotFound, http.StatusNotFound, CodeEventNotFound, "Event not found"},
	{event.ErrApplicationNotFound, http.StatusNotFound, CodeApplicationNotFound, "Application not found"},

	// Location domain errors
	{location.ErrNotTracking, http.StatusForbidden, CodeNotTracking, "Worker has no confirmed application for this event"},

	// Auth domain errors
	{auth.ErrInvalidToken, http.StatusUnauthorized, CodeUnauthorized, "Invalid or expired token"},
	{auth.ErrMissingWorkerIdentity, http.StatusUnauthorized, CodeUnauthorized, "Token does not identify a worker"},
	{auth.ErrWorkerAccessRequired, http.StatusForbidden, CodeForbidden, "Worker access required"},
	{auth.ErrAdminAccessRequired, http.StatusForbidden, CodeForbidden, "Admin access required"},
}

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	for _, de := range domainErrors {
		if errors.Is(err, de.err) {
			Error(w, de.status, de.code, de.message)
			return
		}
	}

	slog.Error("Unhandled error", "error", err)
	InternalServerError(w, "An unexpected error occurred")
}

// ErrorForCode returns the domain sentinel error for a response code, or nil when the code
// has no domain meaning.
func ErrorForCode(code string) error {
	for _, de := range domainErrors {
		if de.code == code && de.code != CodeUnauthorized && de.code != CodeForbidden {
			return de.err
		}
	}
	return nil
}
