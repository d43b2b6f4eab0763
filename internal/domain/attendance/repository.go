package attendance

import (
	"context"
)

// AttendanceRepository defines data access methods for attendance records.
type AttendanceRepository interface {
	// Create inserts an open record. The store rejects a second open record for the same
	// worker with ErrAlreadyCheckedIn.
	Create(ctx context.Context, attendance Attendance) (Attendance, error)

	// GetByID retrieves a record with its event title.
	GetByID(ctx context.Context, id string) (Attendance, error)

	// GetByWorkerAndEvent returns nil when the pair has no record yet.
	GetByWorkerAndEvent(ctx context.Context, workerID, eventID string) (*Attendance, error)

	// GetOpenByWorker returns the worker's open record across all events, or nil.
	GetOpenByWorker(ctx context.Context, workerID string) (*Attendance, error)

	// Close persists check-out fields only if the record is still open.
	// Returns ErrNotCheckedIn when another request closed it first.
	Close(ctx context.Context, attendance Attendance) error

	// ListByEvent returns every record of the event.
	ListByEvent(ctx context.Context, eventID string) ([]Attendance, error)

	// CountOpen counts open records across all workers.
	CountOpen(ctx context.Context) (int64, error)
}
