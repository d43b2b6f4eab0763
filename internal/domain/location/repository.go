package location

import "context"

// SampleRepository is a latest-wins key-value store keyed by (worker, event).
type SampleRepository interface {
	// Upsert replaces any previous sample for the same key.
	Upsert(ctx context.Context, sample Sample) error

	// GetLatest returns nil when nothing was reported.
	GetLatest(ctx context.Context, workerID, eventID string) (*Sample, error)

	// ListByEvent returns the current sample of every worker that reported for the event.
	ListByEvent(ctx context.Context, eventID string) ([]Sample, error)

	Count(ctx context.Context) (int64, error)
}
