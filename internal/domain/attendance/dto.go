package attendance

import (
	"strings"

	"github.com/cmlabs-hris/gigshift-attendance-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// NormalizeCode trims and upper-cases a worker-typed check-in code.
func NormalizeCode(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// ========================================
// WORKER DTOs
// ========================================

type CheckInRequest struct {
	WorkerID string `json:"-"`
	Code     string `json:"code"`
}

func (r *CheckInRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Code = NormalizeCode(r.Code)
	if validator.IsEmpty(r.Code) {
		errs = append(errs, validator.ValidationError{
			Field:   "code",
			Message: "code is required",
		})
	} else if !validator.IsValidCheckInCode(r.Code) {
		errs = append(errs, validator.ValidationError{
			Field:   "code",
			Message: "code must be 1-10 letters or digits",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type CheckInResponse struct {
	AttendanceID string `json:"attendance_id"`
	EventID      string `json:"event_id"`
	EventTitle   string `json:"event_title"`
	CheckInTime  string `json:"check_in_time"`
}

type CheckOutRequest struct {
	WorkerID     string `json:"-"`
	AttendanceID string `json:"-"`
}

func (r *CheckOutRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.AttendanceID) {
		errs = append(errs, validator.ValidationError{
			Field:   "attendance_id",
			Message: "attendance_id must be a valid UUID",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type CheckOutResponse struct {
	AttendanceID  string          `json:"attendance_id"`
	EventTitle    string          `json:"event_title"`
	CheckOutTime  string          `json:"check_out_time"`
	WorkedMinutes int             `json:"worked_minutes"`
	PayAmount     decimal.Decimal `json:"pay_amount"`
}

// ========================================
// ADMIN DTOs
// ========================================

// AdminCommand carries the smart-dispatch outcome. Coordinates are provenance only and
// must be present exactly when Manual is false.
type AdminCommand struct {
	Manual    bool     `json:"manual"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

func (c AdminCommand) validate(errs validator.ValidationErrors) validator.ValidationErrors {
	if c.Manual {
		if c.Latitude != nil || c.Longitude != nil {
			errs = append(errs, validator.ValidationError{
				Field:   "manual",
				Message: "manual actions must not carry coordinates",
			})
		}
		return errs
	}

	if c.Latitude == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude is required for GPS-assisted actions",
		})
	} else if !validator.IsValidLatitude(*c.Latitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude must be between -90 and 90",
		})
	}

	if c.Longitude == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude is required for GPS-assisted actions",
		})
	} else if !validator.IsValidLongitude(*c.Longitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude must be between -180 and 180",
		})
	}

	return errs
}

// Provenance converts the command into the record's provenance fields.
func (c AdminCommand) Provenance() Provenance {
	if c.Manual {
		return Provenance{Method: MethodManual}
	}
	return Provenance{Method: MethodGPS, Latitude: c.Latitude, Longitude: c.Longitude}
}

type AdminCheckInRequest struct {
	ApplicationID string `json:"-"`
	AdminCommand
}

func (r *AdminCheckInRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.ApplicationID) {
		errs = append(errs, validator.ValidationError{
			Field:   "application_id",
			Message: "application_id must be a valid UUID",
		})
	}
	errs = r.AdminCommand.validate(errs)

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type AdminCheckOutRequest struct {
	AttendanceID string `json:"-"`
	AdminCommand
}

func (r *AdminCheckOutRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.AttendanceID) {
		errs = append(errs, validator.ValidationError{
			Field:   "attendance_id",
			Message: "attendance_id must be a valid UUID",
		})
	}
	errs = r.AdminCommand.validate(errs)

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// AdminActionResponse is the ack returned to the operator.
type AdminActionResponse struct {
	AttendanceID string `json:"attendance_id"`
	WorkerID     string `json:"worker_id"`
	Method       Method `json:"method"`
	State        State  `json:"state"`
	At           string `json:"at"`
}

// ========================================
// READ DTOs
// ========================================

type AttendanceResponse struct {
	ID                string           `json:"id"`
	WorkerID          string           `json:"worker_id"`
	EventID           string           `json:"event_id"`
	ApplicationID     string           `json:"application_id"`
	EventTitle        *string          `json:"event_title,omitempty"`
	State             State            `json:"state"`
	CheckInTime       *string          `json:"check_in_time,omitempty"`
	CheckOutTime      *string          `json:"check_out_time,omitempty"`
	CheckInMethod     *Method          `json:"check_in_method,omitempty"`
	CheckOutMethod    *Method          `json:"check_out_method,omitempty"`
	CheckInLatitude   *float64         `json:"check_in_latitude,omitempty"`
	CheckInLongitude  *float64         `json:"check_in_longitude,omitempty"`
	CheckOutLatitude  *float64         `json:"check_out_latitude,omitempty"`
	CheckOutLongitude *float64         `json:"check_out_longitude,omitempty"`
	WorkedMinutes     *int             `json:"worked_minutes,omitempty"`
	PayAmount         *decimal.Decimal `json:"pay_amount,omitempty"`
	TxHash            *string          `json:"tx_hash,omitempty"`
}
