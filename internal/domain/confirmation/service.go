package confirmation

import "context"

// Service builds the confirmed-worker list of an event for operators.
type Service interface {
	ListConfirmedWorkers(ctx context.Context, req ListRequest) (ListWorkersResponse, error)
}
