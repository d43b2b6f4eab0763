package event

import (
	"time"

	"github.com/cmlabs-hris/gigshift-attendance-go/internal/pkg/geo"
	"github.com/shopspring/decimal"
)

// Event is owned by event management; this module only reads it.
type Event struct {
	ID           string
	Title        string
	Latitude     float64
	Longitude    float64
	RadiusMeters *float64
	CheckInCode  string
	HourlyRate   decimal.Decimal
	StartsAt     time.Time
	EndsAt       time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Geofence returns the event's check-in area, applying defaultRadius when the event has none.
func (e Event) Geofence(defaultRadius float64) geo.Geofence {
	return geo.NewGeofence(geo.Coordinate{Latitude: e.Latitude, Longitude: e.Longitude}, e.RadiusMeters, defaultRadius)
}

type ApplicationStatus string

const (
	ApplicationPending   ApplicationStatus = "pending"
	ApplicationConfirmed ApplicationStatus = "confirmed"
	ApplicationRejected  ApplicationStatus = "rejected"
	ApplicationCancelled ApplicationStatus = "cancelled"
)

// Application is a worker's application to an event.
type Application struct {
	ID        string
	EventID   string
	WorkerID  string
	Status    ApplicationStatus
	CreatedAt time.Time
	UpdatedAt time.Time

	// DTO
	WorkerName  *string
	WorkerPhone *string
}

// IsConfirmed reports whether the worker may check in for the event.
func (a Application) IsConfirmed() bool {
	return a.Status == ApplicationConfirmed
}
