package reporter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/gigshift-attendance-go/internal/domain/location"
	"github.com/cmlabs-hris/gigshift-attendance-go/internal/pkg/geo"
)

// DefaultInterval is the reporting cadence.
const DefaultInterval = 30 * time.Second

var ErrAlreadyRunning = errors.New("reporter already running")

// LocationSink receives each fresh position. *client.Client implements it.
type LocationSink interface {
	ReportLocation(ctx context.Context, eventID string, pos geo.Coordinate) (location.ReportResponse, error)
}

type Status string

const (
	StatusIdle        Status = "idle"
	StatusTracking    Status = "tracking"
	StatusUnavailable Status = "unavailable"
	// StatusEnded means the server stopped accepting samples, usually after check-out.
	// The loop has exited and Start must be called again to resume.
	StatusEnded Status = "ended"
)

// State is what the worker UI renders. Proximity is Unknown unless Status is Tracking.
type State struct {
	Status    Status
	Position  *geo.Coordinate
	Proximity geo.Proximity
	// Err is set when Status is Unavailable or Ended.
	Err error
	// ReportErr is the last transmission failure. It does not affect the verdict.
	ReportErr error
	UpdatedAt time.Time
}

// Reporter samples the device position on a fixed cadence for one event, transmits it and
// evaluates proximity locally.
type Reporter struct {
	source   PositionSource
	sink     LocationSink
	eventID  string
	fence    geo.Geofence
	interval time.Duration
	posOpts  PositionOptions
	onUpdate func(State)
	logger   *slog.Logger
	now      func() time.Time

	mu    sync.RWMutex
	state State

	runMu  sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

type Option func(*Reporter)

// WithInterval overrides the 30 second cadence.
func WithInterval(d time.Duration) Option {
	return func(r *Reporter) {
		if d > 0 {
			r.interval = d
		}
	}
}

// WithOnUpdate registers a callback invoked after every tick with the new state.
func WithOnUpdate(fn func(State)) Option {
	return func(r *Reporter) {
		r.onUpdate = fn
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(r *Reporter) {
		r.logger = logger
	}
}

func New(source PositionSource, sink LocationSink, eventID string, fence geo.Geofence, opts ...Option) *Reporter {
	r := &Reporter{
		source:   source,
		sink:     sink,
		eventID:  eventID,
		fence:    fence,
		interval: DefaultInterval,
		posOpts:  DefaultPositionOptions,
		logger:   slog.Default(),
		now:      time.Now,
		state:    State{Status: StatusIdle, Proximity: geo.Proximity{Status: geo.ProximityUnknown}},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Reporter) EventID() string {
	return r.eventID
}

// Snapshot returns the latest state.
func (r *Reporter) Snapshot() State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

// Start runs the first tick immediately and then one per interval until Stop or ctx ends.
// A reporter whose loop has already exited may be started again.
func (r *Reporter) Start(ctx context.Context) error {
	r.runMu.Lock()
	defer r.runMu.Unlock()

	if r.cancel != nil {
		select {
		case <-r.done:
			// the loop ended on its own, via the parent context or the server
			r.cancel()
			r.cancel = nil
			r.done = nil
		default:
			return ErrAlreadyRunning
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.done = make(chan struct{})

	go r.run(ctx, r.done)
	r.logger.Debug("Location reporter started", "event_id", r.eventID, "interval", r.interval)
	return nil
}

// Stop cancels the timer and any in-flight request and waits for the loop to exit.
// The verdict is cleared. Stop is idempotent.
func (r *Reporter) Stop() {
	r.runMu.Lock()
	defer r.runMu.Unlock()

	if r.cancel == nil {
		return
	}

	r.cancel()
	<-r.done
	r.cancel = nil
	r.done = nil

	r.setState(State{Status: StatusIdle, Proximity: geo.Proximity{Status: geo.ProximityUnknown}, UpdatedAt: r.now()})
	r.logger.Debug("Location reporter stopped", "event_id", r.eventID)
}

func (r *Reporter) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	defer r.settle()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	// Run immediately on start
	if !r.tick(ctx) {
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !r.tick(ctx) {
				return
			}
		}
	}
}

// settle drops the verdict once the loop exits so a cancelled parent context never leaves a
// stale Tracking state behind. An Ended state is kept so the caller can see why.
func (r *Reporter) settle() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state.Status == StatusEnded {
		return
	}
	r.state = State{Status: StatusIdle, Proximity: geo.Proximity{Status: geo.ProximityUnknown}, UpdatedAt: r.now()}
}

// tick performs one acquire, transmit, evaluate cycle and reports whether the loop should
// continue. Ticks never overlap because only the run goroutine calls it.
func (r *Reporter) tick(ctx context.Context) bool {
	posCtx, cancel := context.WithTimeout(ctx, r.posOpts.Timeout)
	pos, err := r.source.CurrentPosition(posCtx, r.posOpts)
	cancel()

	if ctx.Err() != nil {
		return false
	}

	if err == nil {
		if verr := pos.Validate(); verr != nil {
			err = fmt.Errorf("%w: %v", ErrPositionUnavailable, verr)
		}
	}

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = ErrTimeout
		}
		r.logger.Debug("Location unavailable", "event_id", r.eventID, "error", err)
		return r.publish(ctx, State{
			Status:    StatusUnavailable,
			Proximity: geo.Proximity{Status: geo.ProximityUnknown},
			Err:       err,
			UpdatedAt: r.now(),
		})
	}

	var reportErr error
	if _, err := r.sink.ReportLocation(ctx, r.eventID, pos); err != nil {
		if ctx.Err() != nil {
			return false
		}
		if errors.Is(err, location.ErrNotTracking) {
			r.logger.Info("Server stopped accepting locations", "event_id", r.eventID, "error", err)
			r.publish(ctx, State{
				Status:    StatusEnded,
				Proximity: geo.Proximity{Status: geo.ProximityUnknown},
				Err:       err,
				UpdatedAt: r.now(),
			})
			return false
		}
		reportErr = err
		r.logger.Warn("Failed to report location", "event_id", r.eventID, "error", err)
	}

	return r.publish(ctx, State{
		Status:    StatusTracking,
		Position:  &pos,
		Proximity: geo.Evaluate(&pos, r.fence),
		ReportErr: reportErr,
		UpdatedAt: r.now(),
	})
}

func (r *Reporter) setState(s State) {
	r.mu.Lock()
	r.state = s
	r.mu.Unlock()
}

// publish stores s and notifies onUpdate unless ctx was cancelled, in which case the state
// belongs to a stopped loop and is dropped. It reports whether s was published.
func (r *Reporter) publish(ctx context.Context, s State) bool {
	r.mu.Lock()
	if ctx.Err() != nil {
		r.mu.Unlock()
		return false
	}
	r.state = s
	r.mu.Unlock()

	if r.onUpdate != nil {
		r.onUpdate(s)
	}
	return true
}
