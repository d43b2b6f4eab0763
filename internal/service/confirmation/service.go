package confirmation

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/gigshift-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/gigshift-attendance-go/internal/domain/confirmation"
	"github.com/cmlabs-hris/gigshift-attendance-go/internal/domain/event"
	"github.com/cmlabs-hris/gigshift-attendance-go/internal/domain/location"
)

type ConfirmationServiceImpl struct {
	event.EventRepository
	event.ApplicationRepository
	attendance.AttendanceRepository
	location.SampleRepository
	defaultRadius float64
}

func NewConfirmationService(
	eventRepo event.EventRepository,
	applicationRepo event.ApplicationRepository,
	attendanceRepo attendance.AttendanceRepository,
	sampleRepo location.SampleRepository,
	defaultRadius float64,
) confirmation.Service {
	return &ConfirmationServiceImpl{
		EventRepository:       eventRepo,
		ApplicationRepository: applicationRepo,
		AttendanceRepository:  attendanceRepo,
		SampleRepository:      sampleRepo,
		defaultRadius:         defaultRadius,
	}
}

// ListConfirmedWorkers implements confirmation.Service.
func (s *ConfirmationServiceImpl) ListConfirmedWorkers(ctx context.Context, req confirmation.ListRequest) (confirmation.ListWorkersResponse, error) {
	if err := req.Validate(); err != nil {
		return confirmation.ListWorkersResponse{}, err
	}

	ev, err := s.EventRepository.GetByID(ctx, req.EventID)
	if err != nil {
		return confirmation.ListWorkersResponse{}, err
	}

	apps, err := s.ApplicationRepository.ListConfirmedByEvent(ctx, ev.ID)
	if err != nil {
		return confirmation.ListWorkersResponse{}, fmt.Errorf("failed to list confirmed applications: %w", err)
	}

	records, err := s.AttendanceRepository.ListByEvent(ctx, ev.ID)
	if err != nil {
		return confirmation.ListWorkersResponse{}, fmt.Errorf("failed to list attendances: %w", err)
	}

	samples, err := s.SampleRepository.ListByEvent(ctx, ev.ID)
	if err != nil {
		return confirmation.ListWorkersResponse{}, fmt.Errorf("failed to list worker locations: %w", err)
	}

	fence := ev.Geofence(s.defaultRadius)
	views := confirmation.Merge(fence, apps, records, samples)
	if req.WithinRangeOnly {
		views = confirmation.FilterWithinRange(views)
	}

	workers := make([]confirmation.WorkerViewResponse, 0, len(views))
	for _, v := range views {
		workers = append(workers, confirmation.ToResponse(v, req.Language))
	}

	return confirmation.ListWorkersResponse{
		EventID:    ev.ID,
		EventTitle: ev.Title,
		Geofence: confirmation.GeofenceResponse{
			Latitude:     fence.Center.Latitude,
			Longitude:    fence.Center.Longitude,
			RadiusMeters: fence.RadiusMeters,
		},
		WithinRangeOnly: req.WithinRangeOnly,
		Total:           len(workers),
		Workers:         workers,
	}, nil
}
