package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/gigshift-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/gigshift-attendance-go/internal/domain/event"
	"github.com/cmlabs-hris/gigshift-attendance-go/internal/pkg/metrics"
)

// Transactor runs fn with a transaction bound to its context.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type AttendanceServiceImpl struct {
	tx Transactor
	attendance.AttendanceRepository
	event.EventRepository
	event.ApplicationRepository
	pay       attendance.PayCalculator
	publisher attendance.ChangePublisher
	now       func() time.Time
}

func NewAttendanceService(
	tx Transactor,
	attendanceRepo attendance.AttendanceRepository,
	eventRepo event.EventRepository,
	applicationRepo event.ApplicationRepository,
	pay attendance.PayCalculator,
	publisher attendance.ChangePublisher,
) attendance.AttendanceService {
	if pay == nil {
		pay = attendance.ProRataPay
	}
	return &AttendanceServiceImpl{
		tx:                    tx,
		AttendanceRepository:  attendanceRepo,
		EventRepository:       eventRepo,
		ApplicationRepository: applicationRepo,
		pay:                   pay,
		publisher:             publisher,
		now:                   time.Now,
	}
}

// timePtrToString safely converts a *time.Time to a string.
func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := t.UTC().Format(time.RFC3339)
	return &format
}

func formatTime(t *time.Time) string {
	if s := timePtrToString(t); s != nil {
		return *s
	}
	return ""
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// reject records a rejection metric for domain errors and passes err through.
func reject(operation string, err error) error {
	var reason string
	switch {
	case errors.Is(err, attendance.ErrInvalidCode):
		reason = "invalid_code"
	case errors.Is(err, attendance.ErrNotConfirmed):
		reason = "not_confirmed"
	case errors.Is(err, attendance.ErrAlreadyCheckedIn):
		reason = "already_checked_in"
	case errors.Is(err, attendance.ErrAlreadyCheckedOut):
		reason = "already_checked_out"
	case errors.Is(err, attendance.ErrNotCheckedIn):
		reason = "not_checked_in"
	default:
		return err
	}
	metrics.RejectionsTotal.WithLabelValues(operation, reason).Inc()
	return err
}

// openRecord creates the record for a confirmed application. Callers resolve the application.
func (s *AttendanceServiceImpl) openRecord(ctx context.Context, app event.Application, p attendance.Provenance) (attendance.Attendance, error) {
	var created attendance.Attendance

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		current, err := s.AttendanceRepository.GetOpenByWorker(ctx, app.WorkerID)
		if err != nil {
			return fmt.Errorf("failed to get open attendance: %w", err)
		}
		if current != nil {
			return attendance.ErrAlreadyCheckedIn
		}

		existing, err := s.AttendanceRepository.GetByWorkerAndEvent(ctx, app.WorkerID, app.EventID)
		if err != nil {
			return fmt.Errorf("failed to get attendance by worker and event: %w", err)
		}

		record := attendance.Attendance{
			WorkerID:      app.WorkerID,
			EventID:       app.EventID,
			ApplicationID: app.ID,
		}
		if existing != nil {
			record = *existing
		}

		if err := record.MarkCheckedIn(s.now(), p); err != nil {
			return err
		}

		created, err = s.AttendanceRepository.Create(ctx, record)
		return err
	})
	if err != nil {
		return attendance.Attendance{}, err
	}

	metrics.CheckInsTotal.WithLabelValues(string(p.Method)).Inc()
	s.publish(ctx, attendance.Change{
		Kind:         attendance.ChangeCheckedIn,
		AttendanceID: created.ID,
		WorkerID:     created.WorkerID,
		EventID:      created.EventID,
		At:           *created.CheckIn,
	})

	return created, nil
}

// closeRecord finalizes an open record. authorize runs against the loaded record inside the transaction.
func (s *AttendanceServiceImpl) closeRecord(ctx context.Context, attendanceID string, p attendance.Provenance, authorize func(attendance.Attendance) error) (attendance.Attendance, error) {
	var closed attendance.Attendance

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		record, err := s.AttendanceRepository.GetByID(ctx, attendanceID)
		if err != nil {
			return err
		}

		if authorize != nil {
			if err := authorize(record); err != nil {
				return err
			}
		}

		if err := record.MarkCheckedOut(s.now(), p); err != nil {
			return err
		}

		ev, err := s.EventRepository.GetByID(ctx, record.EventID)
		if err != nil {
			return fmt.Errorf("failed to get event for attendance: %w", err)
		}
		amount := s.pay.Pay(*record.WorkedMinutes, ev.HourlyRate)
		record.PayAmount = &amount
		if record.EventTitle == nil {
			record.EventTitle = &ev.Title
		}

		if err := s.AttendanceRepository.Close(ctx, record); err != nil {
			return err
		}

		closed = record
		return nil
	})
	if err != nil {
		return attendance.Attendance{}, err
	}

	metrics.CheckOutsTotal.WithLabelValues(string(p.Method)).Inc()
	metrics.WorkedMinutes.Observe(float64(*closed.WorkedMinutes))
	s.publish(ctx, attendance.Change{
		Kind:          attendance.ChangeCheckedOut,
		AttendanceID:  closed.ID,
		WorkerID:      closed.WorkerID,
		EventID:       closed.EventID,
		At:            *closed.CheckOut,
		WorkedMinutes: closed.WorkedMinutes,
		PayAmount:     closed.PayAmount,
	})

	return closed, nil
}

func (s *AttendanceServiceImpl) publish(ctx context.Context, change attendance.Change) {
	if s.publisher == nil {
		return
	}
	s.publisher.PublishChange(ctx, change)
}

// CheckIn implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckIn(ctx context.Context, req attendance.CheckInRequest) (attendance.CheckInResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.CheckInResponse{}, err
	}

	ev, err := s.EventRepository.GetByCheckInCode(ctx, req.Code)
	if err != nil {
		if errors.Is(err, event.ErrEventNotFound) {
			return attendance.CheckInResponse{}, reject("check_in", attendance.ErrInvalidCode)
		}
		return attendance.CheckInResponse{}, fmt.Errorf("failed to get event by code: %w", err)
	}

	app, err := s.ApplicationRepository.GetByWorkerAndEvent(ctx, req.WorkerID, ev.ID)
	if err != nil {
		return attendance.CheckInResponse{}, fmt.Errorf("failed to get application: %w", err)
	}
	if app == nil || !app.IsConfirmed() {
		return attendance.CheckInResponse{}, reject("check_in", attendance.ErrNotConfirmed)
	}

	created, err := s.openRecord(ctx, *app, attendance.Provenance{Method: attendance.MethodCode})
	if err != nil {
		return attendance.CheckInResponse{}, reject("check_in", err)
	}

	slog.Info("Worker checked in", "attendance_id", created.ID, "worker_id", created.WorkerID, "event_id", ev.ID)

	return attendance.CheckInResponse{
		AttendanceID: created.ID,
		EventID:      ev.ID,
		EventTitle:   ev.Title,
		CheckInTime:  formatTime(created.CheckIn),
	}, nil
}

// CheckOut implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckOut(ctx context.Context, req attendance.CheckOutRequest) (attendance.CheckOutResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.CheckOutResponse{}, err
	}

	closed, err := s.closeRecord(ctx, req.AttendanceID, attendance.Provenance{Method: attendance.MethodCode}, func(a attendance.Attendance) error {
		if a.WorkerID != req.WorkerID {
			return attendance.ErrUnauthorized
		}
		return nil
	})
	if err != nil {
		return attendance.CheckOutResponse{}, reject("check_out", err)
	}

	slog.Info("Worker checked out", "attendance_id", closed.ID, "worker_id", closed.WorkerID, "worked_minutes", *closed.WorkedMinutes)

	return attendance.CheckOutResponse{
		AttendanceID:  closed.ID,
		EventTitle:    derefString(closed.EventTitle),
		CheckOutTime:  formatTime(closed.CheckOut),
		WorkedMinutes: *closed.WorkedMinutes,
		PayAmount:     *closed.PayAmount,
	}, nil
}

// AdminCheckIn implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) AdminCheckIn(ctx context.Context, req attendance.AdminCheckInRequest) (attendance.AdminActionResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AdminActionResponse{}, err
	}

	app, err := s.ApplicationRepository.GetByID(ctx, req.ApplicationID)
	if err != nil {
		return attendance.AdminActionResponse{}, err
	}
	if !app.IsConfirmed() {
		return attendance.AdminActionResponse{}, reject("admin_check_in", attendance.ErrNotConfirmed)
	}

	p := req.Provenance()
	created, err := s.openRecord(ctx, app, p)
	if err != nil {
		return attendance.AdminActionResponse{}, reject("admin_check_in", err)
	}

	slog.Info("Admin checked in worker", "attendance_id", created.ID, "worker_id", created.WorkerID, "method", p.Method)
	metrics.DispatchDecisionsTotal.WithLabelValues(string(p.Method)).Inc()

	return attendance.AdminActionResponse{
		AttendanceID: created.ID,
		WorkerID:     created.WorkerID,
		Method:       p.Method,
		State:        created.State(),
		At:           formatTime(created.CheckIn),
	}, nil
}

// AdminCheckOut implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) AdminCheckOut(ctx context.Context, req attendance.AdminCheckOutRequest) (attendance.AdminActionResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AdminActionResponse{}, err
	}

	p := req.Provenance()
	closed, err := s.closeRecord(ctx, req.AttendanceID, p, nil)
	if err != nil {
		return attendance.AdminActionResponse{}, reject("admin_check_out", err)
	}

	slog.Info("Admin checked out worker", "attendance_id", closed.ID, "worker_id", closed.WorkerID, "method", p.Method)
	metrics.DispatchDecisionsTotal.WithLabelValues(string(p.Method)).Inc()

	return attendance.AdminActionResponse{
		AttendanceID: closed.ID,
		WorkerID:     closed.WorkerID,
		Method:       p.Method,
		State:        closed.State(),
		At:           formatTime(closed.CheckOut),
	}, nil
}

// GetOpen implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetOpen(ctx context.Context, workerID string) (attendance.AttendanceResponse, error) {
	record, err := s.AttendanceRepository.GetOpenByWorker(ctx, workerID)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get open attendance: %w", err)
	}
	if record == nil {
		return attendance.AttendanceResponse{}, attendance.ErrAttendanceNotFound
	}

	return ToResponse(*record), nil
}

// ToResponse maps a record to its read DTO.
func ToResponse(a attendance.Attendance) attendance.AttendanceResponse {
	return attendance.AttendanceResponse{
		ID:                a.ID,
		WorkerID:          a.WorkerID,
		EventID:           a.EventID,
		ApplicationID:     a.ApplicationID,
		EventTitle:        a.EventTitle,
		State:             a.State(),
		CheckInTime:       timePtrToString(a.CheckIn),
		CheckOutTime:      timePtrToString(a.CheckOut),
		CheckInMethod:     a.CheckInMethod,
		CheckOutMethod:    a.CheckOutMethod,
		CheckInLatitude:   a.CheckInLatitude,
		CheckInLongitude:  a.CheckInLongitude,
		CheckOutLatitude:  a.CheckOutLatitude,
		CheckOutLongitude: a.CheckOutLongitude,
		WorkedMinutes:     a.WorkedMinutes,
		PayAmount:         a.PayAmount,
		TxHash:            a.TxHash,
	}
}
