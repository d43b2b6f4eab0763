package attendance

import (
	"time"
)

// State is the lifecycle position of an attendance record.
type State string

const (
	StateNotStarted State = "NOT_STARTED"
	StateCheckedIn  State = "CHECKED_IN"
	StateCheckedOut State = "CHECKED_OUT"
)

// State derives the lifecycle state from the timestamps.
func (a *Attendance) State() State {
	if a == nil || a.CheckIn == nil {
		return StateNotStarted
	}
	if a.CheckOut == nil {
		return StateCheckedIn
	}
	return StateCheckedOut
}

// IsOpen reports whether the worker is currently checked in on this record.
func (a *Attendance) IsOpen() bool {
	return a.State() == StateCheckedIn
}

// Provenance describes who or what authorized a transition.
type Provenance struct {
	Method    Method
	Latitude  *float64
	Longitude *float64
}

// MarkCheckedIn performs NOT_STARTED -> CHECKED_IN.
func (a *Attendance) MarkCheckedIn(now time.Time, p Provenance) error {
	switch a.State() {
	case StateCheckedIn:
		return ErrAlreadyCheckedIn
	case StateCheckedOut:
		return ErrAlreadyCheckedOut
	}

	t := now.UTC()
	method := p.Method
	a.CheckIn = &t
	a.CheckInMethod = &method
	a.CheckInLatitude = p.Latitude
	a.CheckInLongitude = p.Longitude
	return nil
}

// MarkCheckedOut performs CHECKED_IN -> CHECKED_OUT and fixes WorkedMinutes.
// A closed record is never reopened or recomputed.
func (a *Attendance) MarkCheckedOut(now time.Time, p Provenance) error {
	if a.State() != StateCheckedIn {
		return ErrNotCheckedIn
	}

	t := now.UTC()
	if t.Before(*a.CheckIn) {
		return ErrCheckOutBeforeCheckIn
	}

	worked := WorkedMinutes(*a.CheckIn, t)
	method := p.Method
	a.CheckOut = &t
	a.WorkedMinutes = &worked
	a.CheckOutMethod = &method
	a.CheckOutLatitude = p.Latitude
	a.CheckOutLongitude = p.Longitude
	return nil
}

// WorkedMinutes is floor((out - in) / 1m).
func WorkedMinutes(checkIn, checkOut time.Time) int {
	return int(checkOut.Sub(checkIn) / time.Minute)
}
