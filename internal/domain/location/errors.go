package location

import "errors"

var (
	ErrNotTracking = errors.New("worker has no active confirmed application for this event")
)
