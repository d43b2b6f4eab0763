package confirmation

import (
	"time"

	"github.com/cmlabs-hris/gigshift-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/gigshift-attendance-go/internal/pkg/geo"
)

// AttendanceRef is the part of an attendance record an operator needs to act on.
type AttendanceRef struct {
	ID            string
	State         attendance.State
	CheckIn       *time.Time
	CheckOut      *time.Time
	WorkedMinutes *int
}

// LocationSnapshot is the latest reported position of a worker.
type LocationSnapshot struct {
	Coordinate geo.Coordinate
	CapturedAt time.Time
}

// View is the admin-facing projection of one confirmed worker. It is rebuilt on every
// refresh and never persisted.
type View struct {
	ApplicationID string
	WorkerID      string
	Name          string
	Phone         string
	Attendance    *AttendanceRef
	Location      *LocationSnapshot
	Proximity     geo.Proximity
}

// State returns the attendance lifecycle state, NOT_STARTED when there is no record.
func (v View) State() attendance.State {
	if v.Attendance == nil {
		return attendance.StateNotStarted
	}
	return v.Attendance.State
}

// Action is what an operator can do next for a worker.
type Action string

const (
	ActionCheckIn  Action = "check_in"
	ActionCheckOut Action = "check_out"
	ActionNone     Action = "none"
)

// NextAction derives the only transition available from the worker's current state.
func (v View) NextAction() Action {
	switch v.State() {
	case attendance.StateNotStarted:
		return ActionCheckIn
	case attendance.StateCheckedIn:
		return ActionCheckOut
	default:
		return ActionNone
	}
}
