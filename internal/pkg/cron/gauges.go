package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/gigshift-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/gigshift-attendance-go/internal/domain/location"
	"github.com/cmlabs-hris/gigshift-attendance-go/internal/pkg/metrics"
)

// GaugeJobs refreshes the gauges that are read from the database rather than counted inline.
type GaugeJobs struct {
	attendanceRepo attendance.AttendanceRepository
	locationRepo   location.SampleRepository
}

func NewGaugeJobs(attendanceRepo attendance.AttendanceRepository, locationRepo location.SampleRepository) *GaugeJobs {
	return &GaugeJobs{
		attendanceRepo: attendanceRepo,
		locationRepo:   locationRepo,
	}
}

func (j *GaugeJobs) RegisterJobs(scheduler *Scheduler, interval time.Duration) {
	scheduler.AddJob("collect_attendance_gauges", interval, j.CollectGauges)
}

func (j *GaugeJobs) CollectGauges(ctx context.Context) error {
	open, err := j.attendanceRepo.CountOpen(ctx)
	if err != nil {
		return fmt.Errorf("failed to count open attendances: %w", err)
	}
	metrics.OpenAttendances.Set(float64(open))

	tracked, err := j.locationRepo.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count tracked locations: %w", err)
	}
	metrics.TrackedLocations.Set(float64(tracked))

	return nil
}
