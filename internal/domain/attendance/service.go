package attendance

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// AttendanceService defines the state machine operations exposed to workers and admins.
type AttendanceService interface {
	// CheckIn opens a record using an event-scoped code
	CheckIn(ctx context.Context, req CheckInRequest) (CheckInResponse, error)

	// CheckOut closes the worker's own open record
	CheckOut(ctx context.Context, req CheckOutRequest) (CheckOutResponse, error)

	// AdminCheckIn opens a record for a confirmed application
	AdminCheckIn(ctx context.Context, req AdminCheckInRequest) (AdminActionResponse, error)

	// AdminCheckOut closes a record on behalf of a worker
	AdminCheckOut(ctx context.Context, req AdminCheckOutRequest) (AdminActionResponse, error)

	// GetOpen returns the worker's open record, used to reload after a state conflict
	GetOpen(ctx context.Context, workerID string) (AttendanceResponse, error)
}

// PayCalculator is the external payroll formula applied at check-out.
type PayCalculator interface {
	Pay(workedMinutes int, hourlyRate decimal.Decimal) decimal.Decimal
}

// PayFunc adapts a function to PayCalculator.
type PayFunc func(workedMinutes int, hourlyRate decimal.Decimal) decimal.Decimal

func (f PayFunc) Pay(workedMinutes int, hourlyRate decimal.Decimal) decimal.Decimal {
	return f(workedMinutes, hourlyRate)
}

// ProRataPay pays hourlyRate per 60 worked minutes, rounded to 2 decimal places.
var ProRataPay = PayFunc(func(workedMinutes int, hourlyRate decimal.Decimal) decimal.Decimal {
	return hourlyRate.Mul(decimal.NewFromInt(int64(workedMinutes))).Div(decimal.NewFromInt(60)).Round(2)
})

// Change is published after every successful transition.
type Change struct {
	Kind          string
	AttendanceID  string
	WorkerID      string
	EventID       string
	At            time.Time
	WorkedMinutes *int
	PayAmount     *decimal.Decimal
}

const (
	ChangeCheckedIn  = "attendance.checked_in"
	ChangeCheckedOut = "attendance.checked_out"
)

// ChangePublisher forwards transitions to downstream consumers (reward computation, admin views).
type ChangePublisher interface {
	PublishChange(ctx context.Context, change Change)
}
