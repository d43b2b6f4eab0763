package location

import "context"

type Service interface {
	// Report stores the worker's latest position for an event and returns the server verdict.
	Report(ctx context.Context, req ReportRequest) (ReportResponse, error)
}
