package event

import "context"

type EventRepository interface {
	GetByID(ctx context.Context, id string) (Event, error)

	// GetByCheckInCode matches an upper-cased code. Returns ErrEventNotFound when nothing matches.
	GetByCheckInCode(ctx context.Context, code string) (Event, error)
}

type ApplicationRepository interface {
	GetByID(ctx context.Context, id string) (Application, error)

	// GetByWorkerAndEvent returns nil when the worker never applied.
	GetByWorkerAndEvent(ctx context.Context, workerID, eventID string) (*Application, error)

	// ListConfirmedByEvent returns confirmed applications with worker name and phone.
	ListConfirmedByEvent(ctx context.Context, eventID string) ([]Application, error)
}
