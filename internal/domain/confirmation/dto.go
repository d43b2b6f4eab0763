package confirmation

import (
	"time"

	"github.com/cmlabs-hris/gigshift-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/gigshift-attendance-go/internal/pkg/geo"
	"github.com/cmlabs-hris/gigshift-attendance-go/internal/pkg/validator"
)

type ListRequest struct {
	EventID         string
	WithinRangeOnly bool
	Language        Language
}

func (r *ListRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.EventID) {
		errs = append(errs, validator.ValidationError{
			Field:   "event_id",
			Message: "event_id must be a valid UUID",
		})
	}

	if r.Language == "" {
		r.Language = LanguageEnglish
	}
	if !validator.IsInSlice(string(r.Language), []string{string(LanguageEnglish), string(LanguageKorean)}) {
		errs = append(errs, validator.ValidationError{
			Field:   "lang",
			Message: "lang must be one of: en, ko",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type GeofenceResponse struct {
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	RadiusMeters float64 `json:"radius_meters"`
}

func (g GeofenceResponse) Geofence() geo.Geofence {
	return geo.Geofence{
		Center:       geo.Coordinate{Latitude: g.Latitude, Longitude: g.Longitude},
		RadiusMeters: g.RadiusMeters,
	}
}

type AttendanceRefResponse struct {
	ID            string           `json:"id"`
	State         attendance.State `json:"state"`
	CheckInTime   *time.Time       `json:"check_in_time,omitempty"`
	CheckOutTime  *time.Time       `json:"check_out_time,omitempty"`
	WorkedMinutes *int             `json:"worked_minutes,omitempty"`
}

type LocationResponse struct {
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	CapturedAt time.Time `json:"captured_at"`
}

type WorkerViewResponse struct {
	ApplicationID  string                 `json:"application_id"`
	WorkerID       string                 `json:"worker_id"`
	Name           string                 `json:"name"`
	Phone          string                 `json:"phone"`
	Attendance     *AttendanceRefResponse `json:"attendance"`
	GPSLocation    *LocationResponse      `json:"gps_location"`
	WithinRange    *bool                  `json:"within_range"`
	DistanceMeters *float64               `json:"distance_meters"`
	NextAction     Action                 `json:"next_action"`
	DispatchPath   Path                   `json:"dispatch_path"`
	ActionLabel    string                 `json:"action_label,omitempty"`
}

type ListWorkersResponse struct {
	EventID         string               `json:"event_id"`
	EventTitle      string               `json:"event_title"`
	Geofence        GeofenceResponse     `json:"geofence"`
	WithinRangeOnly bool                 `json:"within_range_only"`
	Total           int                  `json:"total"`
	Workers         []WorkerViewResponse `json:"workers"`
}

// ToResponse renders a view with its dispatch decision and label.
func ToResponse(v View, lang Language) WorkerViewResponse {
	sub := Decide(v)
	action := v.NextAction()

	resp := WorkerViewResponse{
		ApplicationID:  v.ApplicationID,
		WorkerID:       v.WorkerID,
		Name:           v.Name,
		Phone:          v.Phone,
		WithinRange:    v.Proximity.WithinRangePtr(),
		DistanceMeters: v.Proximity.DistancePtr(),
		NextAction:     action,
		DispatchPath:   sub.Path,
		ActionLabel:    ActionLabel(action, sub.Path, lang),
	}

	if v.Attendance != nil {
		resp.Attendance = &AttendanceRefResponse{
			ID:            v.Attendance.ID,
			State:         v.Attendance.State,
			CheckInTime:   v.Attendance.CheckIn,
			CheckOutTime:  v.Attendance.CheckOut,
			WorkedMinutes: v.Attendance.WorkedMinutes,
		}
	}

	if v.Location != nil {
		resp.GPSLocation = &LocationResponse{
			Latitude:   v.Location.Coordinate.Latitude,
			Longitude:  v.Location.Coordinate.Longitude,
			CapturedAt: v.Location.CapturedAt,
		}
	}

	return resp
}

// FromResponse rebuilds a typed view on the client. The proximity verdict is recomputed
// against fence so both tiers apply the same rule.
func FromResponse(r WorkerViewResponse, fence geo.Geofence) View {
	v := View{
		ApplicationID: r.ApplicationID,
		WorkerID:      r.WorkerID,
		Name:          r.Name,
		Phone:         r.Phone,
	}

	if r.Attendance != nil {
		v.Attendance = &AttendanceRef{
			ID:            r.Attendance.ID,
			State:         r.Attendance.State,
			CheckIn:       r.Attendance.CheckInTime,
			CheckOut:      r.Attendance.CheckOutTime,
			WorkedMinutes: r.Attendance.WorkedMinutes,
		}
	}

	var coord *geo.Coordinate
	if r.GPSLocation != nil {
		v.Location = &LocationSnapshot{
			Coordinate: geo.Coordinate{Latitude: r.GPSLocation.Latitude, Longitude: r.GPSLocation.Longitude},
			CapturedAt: r.GPSLocation.CapturedAt,
		}
		coord = &v.Location.Coordinate
	}
	v.Proximity = geo.Evaluate(coord, fence)

	return v
}
