package location

import (
	"time"

	"github.com/cmlabs-hris/gigshift-attendance-go/internal/pkg/geo"
)

// Sample is the current position of a worker for an event. There is one per
// (worker, event); each report overwrites the previous one.
type Sample struct {
	WorkerID   string
	EventID    string
	Coordinate geo.Coordinate
	CapturedAt time.Time
}
