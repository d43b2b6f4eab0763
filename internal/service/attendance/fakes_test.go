package attendance

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cmlabs-hris/gigshift-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/gigshift-attendance-go/internal/domain/event"
)

type inlineTx struct{}

func (inlineTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// memAttendanceRepo enforces the same constraints as the PostgreSQL schema.
type memAttendanceRepo struct {
	mu      sync.Mutex
	seq     int
	records map[string]attendance.Attendance
	titles  map[string]string
}

func newMemAttendanceRepo() *memAttendanceRepo {
	return &memAttendanceRepo{
		records: make(map[string]attendance.Attendance),
		titles:  make(map[string]string),
	}
}

func (r *memAttendanceRepo) withTitle(a attendance.Attendance) attendance.Attendance {
	if t, ok := r.titles[a.EventID]; ok {
		a.EventTitle = &t
	}
	return a
}

func (r *memAttendanceRepo) Create(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.records {
		if existing.WorkerID == a.WorkerID && existing.IsOpen() {
			return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
		}
		if existing.WorkerID == a.WorkerID && existing.EventID == a.EventID {
			return attendance.Attendance{}, attendance.ErrAlreadyCheckedOut
		}
	}

	r.seq++
	a.ID = fmt.Sprintf("0190b8a4-3c52-7d8e-9f01-%012d", r.seq)
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	r.records[a.ID] = a
	return a, nil
}

func (r *memAttendanceRepo) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.records[id]
	if !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return r.withTitle(a), nil
}

func (r *memAttendanceRepo) GetByWorkerAndEvent(ctx context.Context, workerID, eventID string) (*attendance.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range r.records {
		if a.WorkerID == workerID && a.EventID == eventID {
			a = r.withTitle(a)
			return &a, nil
		}
	}
	return nil, nil
}

func (r *memAttendanceRepo) GetOpenByWorker(ctx context.Context, workerID string) (*attendance.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range r.records {
		if a.WorkerID == workerID && a.IsOpen() {
			a = r.withTitle(a)
			return &a, nil
		}
	}
	return nil, nil
}

func (r *memAttendanceRepo) Close(ctx context.Context, a attendance.Attendance) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.records[a.ID]
	if !ok || !stored.IsOpen() {
		return attendance.ErrNotCheckedIn
	}
	r.records[a.ID] = a
	return nil
}

func (r *memAttendanceRepo) ListByEvent(ctx context.Context, eventID string) ([]attendance.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []attendance.Attendance
	for _, a := range r.records {
		if a.EventID == eventID {
			out = append(out, r.withTitle(a))
		}
	}
	return out, nil
}

func (r *memAttendanceRepo) CountOpen(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for _, a := range r.records {
		if a.IsOpen() {
			n++
		}
	}
	return n, nil
}

type memEventRepo struct {
	events map[string]event.Event
}

func (r *memEventRepo) GetByID(ctx context.Context, id string) (event.Event, error) {
	ev, ok := r.events[id]
	if !ok {
		return event.Event{}, event.ErrEventNotFound
	}
	return ev, nil
}

func (r *memEventRepo) GetByCheckInCode(ctx context.Context, code string) (event.Event, error) {
	for _, ev := range r.events {
		if ev.CheckInCode == code {
			return ev, nil
		}
	}
	return event.Event{}, event.ErrEventNotFound
}

type memApplicationRepo struct {
	apps map[string]event.Application
}

func (r *memApplicationRepo) GetByID(ctx context.Context, id string) (event.Application, error) {
	app, ok := r.apps[id]
	if !ok {
		return event.Application{}, event.ErrApplicationNotFound
	}
	return app, nil
}

func (r *memApplicationRepo) GetByWorkerAndEvent(ctx context.Context, workerID, eventID string) (*event.Application, error) {
	for _, app := range r.apps {
		if app.WorkerID == workerID && app.EventID == eventID {
			app := app
			return &app, nil
		}
	}
	return nil, nil
}

func (r *memApplicationRepo) ListConfirmedByEvent(ctx context.Context, eventID string) ([]event.Application, error) {
	var out []event.Application
	for _, app := range r.apps {
		if app.EventID == eventID && app.IsConfirmed() {
			out = append(out, app)
		}
	}
	return out, nil
}

type recordingPublisher struct {
	mu      sync.Mutex
	changes []attendance.Change
}

func (p *recordingPublisher) PublishChange(ctx context.Context, change attendance.Change) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.changes = append(p.changes, change)
}

// clock is a settable time source.
type clock struct {
	t time.Time
}

func (c *clock) Now() time.Time { return c.t }

func (c *clock) Set(t time.Time) { c.t = t }
