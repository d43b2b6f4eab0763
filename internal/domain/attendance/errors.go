package attendance

import "errors"

// Attendance domain errors
var (
	// Credential errors
	ErrInvalidCode  = errors.New("check-in code does not match any event")
	ErrNotConfirmed = errors.New("application is not confirmed for this event")

	// State conflicts
	ErrAlreadyCheckedIn      = errors.New("worker already has an open attendance record")
	ErrAlreadyCheckedOut     = errors.New("attendance for this event is already closed")
	ErrNotCheckedIn          = errors.New("no open attendance record")
	ErrCheckOutBeforeCheckIn = errors.New("check-out time is before check-in time")

	// General errors
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrUnauthorized       = errors.New("unauthorized to access this attendance record")
)

// IsStateConflict reports whether err means the caller acted on stale state and should reload.
func IsStateConflict(err error) bool {
	return errors.Is(err, ErrAlreadyCheckedIn) ||
		errors.Is(err, ErrAlreadyCheckedOut) ||
		errors.Is(err, ErrNotCheckedIn)
}

// IsCredentialError reports whether err is a user-correctable input error.
func IsCredentialError(err error) bool {
	return errors.Is(err, ErrInvalidCode) || errors.Is(err, ErrNotConfirmed)
}
