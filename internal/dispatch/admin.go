package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/gigshift-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/gigshift-attendance-go/internal/domain/confirmation"
	"github.com/cmlabs-hris/gigshift-attendance-go/internal/pkg/geo"
)

var (
	ErrNoEventSelected = errors.New("no event selected")
	ErrUnknownWorker   = errors.New("worker is not in the current list")
)

// AdminClient is the operator half of the REST client.
type AdminClient interface {
	ListWorkers(ctx context.Context, eventID string, withinRangeOnly bool, lang confirmation.Language) (confirmation.ListWorkersResponse, error)
	AdminCheckIn(ctx context.Context, applicationID string, cmd attendance.AdminCommand) (attendance.AdminActionResponse, error)
	AdminCheckOut(ctx context.Context, attendanceID string, cmd attendance.AdminCommand) (attendance.AdminActionResponse, error)
}

// Result is the outcome of one operator command.
type Result struct {
	Submission confirmation.Submission
	Label      string
	Response   attendance.AdminActionResponse
}

// Admin caches the confirmed-worker list of one event and submits operator commands with
// smart dispatch. It never refreshes on its own.
type Admin struct {
	client AdminClient
	lang   confirmation.Language
	logger *slog.Logger
	now    func() time.Time

	mu          sync.RWMutex
	eventID     string
	eventTitle  string
	fence       geo.Geofence
	withinRange bool
	views       []confirmation.View
	refreshedAt time.Time
}

func NewAdmin(client AdminClient, lang confirmation.Language, logger *slog.Logger) *Admin {
	if lang == "" {
		lang = confirmation.LanguageEnglish
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Admin{
		client: client,
		lang:   lang,
		logger: logger,
		now:    time.Now,
	}
}

// SelectEvent switches to eventID and loads its workers.
func (a *Admin) SelectEvent(ctx context.Context, eventID string) error {
	a.mu.Lock()
	a.eventID = eventID
	a.eventTitle = ""
	a.views = nil
	a.refreshedAt = time.Time{}
	a.mu.Unlock()

	return a.Refresh(ctx)
}

// ToggleWithinRange flips the in-range display filter and returns the new setting.
func (a *Admin) ToggleWithinRange() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.withinRange = !a.withinRange
	return a.withinRange
}

func (a *Admin) EventTitle() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.eventTitle
}

func (a *Admin) Geofence() geo.Geofence {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.fence
}

func (a *Admin) RefreshedAt() time.Time {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.refreshedAt
}

// Views returns the cached views, filtered when the within-range toggle is on.
func (a *Admin) Views() []confirmation.View {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.withinRange {
		return confirmation.FilterWithinRange(a.views)
	}
	out := make([]confirmation.View, len(a.views))
	copy(out, a.views)
	return out
}

// Label is the button text for v under the engine's language.
func (a *Admin) Label(v confirmation.View) string {
	return confirmation.ActionLabel(v.NextAction(), confirmation.Decide(v).Path, a.lang)
}

// Refresh reloads the full list. The within-range filter is applied locally by Views.
func (a *Admin) Refresh(ctx context.Context) error {
	a.mu.RLock()
	eventID := a.eventID
	a.mu.RUnlock()

	if eventID == "" {
		return ErrNoEventSelected
	}

	resp, err := a.client.ListWorkers(ctx, eventID, false, a.lang)
	if err != nil {
		return fmt.Errorf("refresh workers of event %s: %w", eventID, err)
	}

	fence := resp.Geofence.Geofence()
	views := make([]confirmation.View, 0, len(resp.Workers))
	for _, w := range resp.Workers {
		views = append(views, confirmation.FromResponse(w, fence))
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	// the operator switched events while the request was in flight
	if a.eventID != eventID {
		return nil
	}
	a.eventTitle = resp.EventTitle
	a.fence = fence
	a.views = views
	a.refreshedAt = a.now()
	return nil
}

// CheckIn checks in the worker of applicationID, by GPS when their last sample is in range
// and manually otherwise. A worker whose cached state is not NOT_STARTED is rejected locally.
// Once a command is sent the list is refreshed whatever the outcome.
func (a *Admin) CheckIn(ctx context.Context, applicationID string) (Result, error) {
	view, err := a.find(func(v confirmation.View) bool { return v.ApplicationID == applicationID })
	if err != nil {
		return Result{}, err
	}

	// mirror the server's preconditions so a stale button never sends a command
	switch view.State() {
	case attendance.StateCheckedIn:
		return Result{}, attendance.ErrAlreadyCheckedIn
	case attendance.StateCheckedOut:
		return Result{}, attendance.ErrAlreadyCheckedOut
	}

	sub := confirmation.Decide(view)
	result := Result{
		Submission: sub,
		Label:      confirmation.ActionLabel(confirmation.ActionCheckIn, sub.Path, a.lang),
	}

	resp, err := a.client.AdminCheckIn(ctx, applicationID, sub.Command())
	result.Response = resp
	return result, a.afterSubmit(ctx, "check_in", view, sub, err)
}

// CheckOut closes attendanceID with the same dispatch rule as CheckIn.
func (a *Admin) CheckOut(ctx context.Context, attendanceID string) (Result, error) {
	view, err := a.find(func(v confirmation.View) bool {
		return v.Attendance != nil && v.Attendance.ID == attendanceID
	})
	if err != nil {
		return Result{}, err
	}
	if view.NextAction() != confirmation.ActionCheckOut {
		return Result{}, attendance.ErrNotCheckedIn
	}

	sub := confirmation.Decide(view)
	result := Result{
		Submission: sub,
		Label:      confirmation.ActionLabel(confirmation.ActionCheckOut, sub.Path, a.lang),
	}

	resp, err := a.client.AdminCheckOut(ctx, attendanceID, sub.Command())
	result.Response = resp
	return result, a.afterSubmit(ctx, "check_out", view, sub, err)
}

func (a *Admin) find(match func(confirmation.View) bool) (confirmation.View, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.eventID == "" {
		return confirmation.View{}, ErrNoEventSelected
	}
	for _, v := range a.views {
		if match(v) {
			return v, nil
		}
	}
	return confirmation.View{}, ErrUnknownWorker
}

// afterSubmit refreshes the list and returns the command error, or the refresh error when
// the command succeeded.
func (a *Admin) afterSubmit(ctx context.Context, op string, v confirmation.View, sub confirmation.Submission, submitErr error) error {
	if submitErr != nil {
		a.logger.Warn("Admin command failed",
			"operation", op,
			"worker_id", v.WorkerID,
			"path", sub.Path,
			"error", submitErr,
		)
	}

	refreshErr := a.Refresh(ctx)
	if refreshErr != nil {
		a.logger.Warn("Failed to refresh workers after admin command", "operation", op, "error", refreshErr)
	}

	if submitErr != nil {
		return submitErr
	}
	return refreshErr
}
