package confirmation

import (
	"github.com/cmlabs-hris/gigshift-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/gigshift-attendance-go/internal/pkg/geo"
)

// Path is the submission path chosen by smart dispatch.
type Path string

const (
	PathGPS    Path = "gps"
	PathManual Path = "manual"
)

// Submission is the decided path plus the coordinate attached as provenance.
// Coordinate is non-nil exactly when Path is PathGPS.
type Submission struct {
	Path       Path
	Coordinate *geo.Coordinate
}

// Decide picks GPS-assisted submission only when a sample exists and is in range.
// No signal and out of range both fall back to manual.
func Decide(v View) Submission {
	switch v.Proximity.Status {
	case geo.ProximityInRange:
		if v.Location == nil {
			return Submission{Path: PathManual}
		}
		c := v.Location.Coordinate
		return Submission{Path: PathGPS, Coordinate: &c}
	case geo.ProximityOutOfRange:
		return Submission{Path: PathManual}
	case geo.ProximityUnknown:
		return Submission{Path: PathManual}
	default:
		return Submission{Path: PathManual}
	}
}

// Command converts the submission into the admin command payload.
func (s Submission) Command() attendance.AdminCommand {
	if s.Path != PathGPS || s.Coordinate == nil {
		return attendance.AdminCommand{Manual: true}
	}
	lat, lon := s.Coordinate.Latitude, s.Coordinate.Longitude
	return attendance.AdminCommand{Manual: false, Latitude: &lat, Longitude: &lon}
}

// Language selects the operator UI wording.
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageKorean  Language = "ko"
)

var labels = map[Language]map[Action]map[Path]string{
	LanguageEnglish: {
		ActionCheckIn:  {PathGPS: "GPS check-in", PathManual: "manual check-in"},
		ActionCheckOut: {PathGPS: "GPS check-out", PathManual: "manual check-out"},
	},
	LanguageKorean: {
		ActionCheckIn:  {PathGPS: "GPS 출근", PathManual: "수동 출근"},
		ActionCheckOut: {PathGPS: "GPS 퇴근", PathManual: "수동 퇴근"},
	},
}

// ActionLabel is the button text for an action, naming the path that will actually be used.
// Returns "" for ActionNone.
func ActionLabel(action Action, path Path, lang Language) string {
	byAction, ok := labels[lang]
	if !ok {
		byAction = labels[LanguageEnglish]
	}
	return byAction[action][path]
}

// FilterWithinRange keeps in-range workers only. It is a display filter and does not touch
// the views themselves.
func FilterWithinRange(views []View) []View {
	filtered := make([]View, 0, len(views))
	for _, v := range views {
		if v.Proximity.WithinRange() {
			filtered = append(filtered, v)
		}
	}
	return filtered
}
