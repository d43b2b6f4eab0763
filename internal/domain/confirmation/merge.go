package confirmation

import (
	"github.com/cmlabs-hris/gigshift-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/gigshift-attendance-go/internal/domain/event"
	"github.com/cmlabs-hris/gigshift-attendance-go/internal/domain/location"
	"github.com/cmlabs-hris/gigshift-attendance-go/internal/pkg/geo"
)

// Merge joins confirmed applications with attendance records and latest samples of one
// event. Order follows apps. Records and samples of other workers are ignored.
func Merge(fence geo.Geofence, apps []event.Application, records []attendance.Attendance, samples []location.Sample) []View {
	recordByWorker := make(map[string]attendance.Attendance, len(records))
	for _, r := range records {
		recordByWorker[r.WorkerID] = r
	}

	sampleByWorker := make(map[string]location.Sample, len(samples))
	for _, s := range samples {
		if prev, ok := sampleByWorker[s.WorkerID]; ok && prev.CapturedAt.After(s.CapturedAt) {
			continue
		}
		sampleByWorker[s.WorkerID] = s
	}

	views := make([]View, 0, len(apps))
	for _, app := range apps {
		if !app.IsConfirmed() {
			continue
		}

		v := View{
			ApplicationID: app.ID,
			WorkerID:      app.WorkerID,
		}
		if app.WorkerName != nil {
			v.Name = *app.WorkerName
		}
		if app.WorkerPhone != nil {
			v.Phone = *app.WorkerPhone
		}

		if r, ok := recordByWorker[app.WorkerID]; ok {
			v.Attendance = &AttendanceRef{
				ID:            r.ID,
				State:         r.State(),
				CheckIn:       r.CheckIn,
				CheckOut:      r.CheckOut,
				WorkedMinutes: r.WorkedMinutes,
			}
		}

		var coord *geo.Coordinate
		if s, ok := sampleByWorker[app.WorkerID]; ok {
			v.Location = &LocationSnapshot{Coordinate: s.Coordinate, CapturedAt: s.CapturedAt}
			coord = &v.Location.Coordinate
		}
		v.Proximity = geo.Evaluate(coord, fence)

		views = append(views, v)
	}

	return views
}
