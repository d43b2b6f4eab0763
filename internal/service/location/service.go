package location

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/gigshift-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/gigshift-attendance-go/internal/domain/event"
	"github.com/cmlabs-hris/gigshift-attendance-go/internal/domain/location"
	"github.com/cmlabs-hris/gigshift-attendance-go/internal/pkg/geo"
	"github.com/cmlabs-hris/gigshift-attendance-go/internal/pkg/metrics"
)

type LocationServiceImpl struct {
	location.SampleRepository
	event.EventRepository
	event.ApplicationRepository
	attendance.AttendanceRepository
	defaultRadius float64
	now           func() time.Time
}

func NewLocationService(
	sampleRepo location.SampleRepository,
	eventRepo event.EventRepository,
	applicationRepo event.ApplicationRepository,
	attendanceRepo attendance.AttendanceRepository,
	defaultRadius float64,
) location.Service {
	return &LocationServiceImpl{
		SampleRepository:      sampleRepo,
		EventRepository:       eventRepo,
		ApplicationRepository: applicationRepo,
		AttendanceRepository:  attendanceRepo,
		defaultRadius:         defaultRadius,
		now:                   time.Now,
	}
}

// Report implements location.Service.
func (s *LocationServiceImpl) Report(ctx context.Context, req location.ReportRequest) (location.ReportResponse, error) {
	if err := req.Validate(); err != nil {
		return location.ReportResponse{}, err
	}

	ev, err := s.EventRepository.GetByID(ctx, req.EventID)
	if err != nil {
		return location.ReportResponse{}, err
	}

	app, err := s.ApplicationRepository.GetByWorkerAndEvent(ctx, req.WorkerID, ev.ID)
	if err != nil {
		return location.ReportResponse{}, fmt.Errorf("failed to get application: %w", err)
	}
	if app == nil || !app.IsConfirmed() {
		return location.ReportResponse{}, location.ErrNotTracking
	}

	// tracking ends with the shift
	record, err := s.AttendanceRepository.GetByWorkerAndEvent(ctx, req.WorkerID, ev.ID)
	if err != nil {
		return location.ReportResponse{}, fmt.Errorf("failed to get attendance: %w", err)
	}
	if record.State() == attendance.StateCheckedOut {
		return location.ReportResponse{}, location.ErrNotTracking
	}

	sample := location.Sample{
		WorkerID:   req.WorkerID,
		EventID:    ev.ID,
		Coordinate: geo.Coordinate{Latitude: req.Latitude, Longitude: req.Longitude},
		CapturedAt: s.now().UTC(),
	}
	if err := s.SampleRepository.Upsert(ctx, sample); err != nil {
		return location.ReportResponse{}, err
	}

	verdict := geo.Evaluate(&sample.Coordinate, ev.Geofence(s.defaultRadius))
	metrics.LocationReportsTotal.WithLabelValues(string(verdict.Status)).Inc()

	return location.ReportResponse{
		EventID:        ev.ID,
		CapturedAt:     sample.CapturedAt.Format(time.RFC3339),
		DistanceMeters: verdict.DistancePtr(),
		WithinRange:    verdict.WithinRangePtr(),
	}, nil
}
