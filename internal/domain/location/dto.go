package location

import (
	"github.com/cmlabs-hris/gigshift-attendance-go/internal/pkg/validator"
)

type ReportRequest struct {
	WorkerID  string  `json:"-"`
	EventID   string  `json:"event_id"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (r *ReportRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.EventID) {
		errs = append(errs, validator.ValidationError{
			Field:   "event_id",
			Message: "event_id must be a valid UUID",
		})
	}

	if !validator.IsValidLatitude(r.Latitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude must be between -90 and 90",
		})
	}

	if !validator.IsValidLongitude(r.Longitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude must be between -180 and 180",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ReportResponse echoes the server-side verdict so both tiers can be compared.
type ReportResponse struct {
	EventID        string   `json:"event_id"`
	CapturedAt     string   `json:"captured_at"`
	DistanceMeters *float64 `json:"distance_meters,omitempty"`
	WithinRange    *bool    `json:"within_range,omitempty"`
}
