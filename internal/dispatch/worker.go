package dispatch

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/gigshift-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/gigshift-attendance-go/internal/pkg/validator"
)

var ErrInvalidCodeFormat = errors.New("check-in code must be 1-10 letters or digits")

// NormalizeCode trims and upper-cases raw and checks it is 1-10 ASCII letters or digits.
func NormalizeCode(raw string) (string, error) {
	code := attendance.NormalizeCode(raw)
	if !validator.IsValidCheckInCode(code) {
		return "", fmt.Errorf("%w: %q", ErrInvalidCodeFormat, raw)
	}
	return code, nil
}

// WorkerClient is the worker half of the REST client.
type WorkerClient interface {
	CheckIn(ctx context.Context, code string) (attendance.CheckInResponse, error)
	CheckOut(ctx context.Context, attendanceID string) (attendance.CheckOutResponse, error)
	GetOpen(ctx context.Context) (attendance.AttendanceResponse, error)
}

// Worker drives the worker's own check-in and check-out.
type Worker struct {
	client WorkerClient
}

func NewWorker(client WorkerClient) *Worker {
	return &Worker{client: client}
}

// CheckInWithCode normalizes raw and submits it. A malformed code never reaches the server.
func (w *Worker) CheckInWithCode(ctx context.Context, raw string) (attendance.CheckInResponse, error) {
	code, err := NormalizeCode(raw)
	if err != nil {
		return attendance.CheckInResponse{}, err
	}
	return w.client.CheckIn(ctx, code)
}

func (w *Worker) CheckOut(ctx context.Context, attendanceID string) (attendance.CheckOutResponse, error) {
	if !validator.IsValidUUID(attendanceID) {
		return attendance.CheckOutResponse{}, validator.ValidationErrors{{
			Field:   "attendance_id",
			Message: "attendance_id must be a valid UUID",
		}}
	}
	return w.client.CheckOut(ctx, attendanceID)
}

// Current reloads the worker's open record. It returns nil without error when there is none,
// which is what the UI needs after a state-conflict error.
func (w *Worker) Current(ctx context.Context) (*attendance.AttendanceResponse, error) {
	resp, err := w.client.GetOpen(ctx)
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &resp, nil
}
