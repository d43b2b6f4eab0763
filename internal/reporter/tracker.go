package reporter

import (
	"context"
	"sync"

	"github.com/cmlabs-hris/gigshift-attendance-go/internal/pkg/geo"
)

// Tracker keeps at most one running Reporter. Switching events stops the old one first.
type Tracker struct {
	source PositionSource
	sink   LocationSink
	opts   []Option

	mu      sync.Mutex
	current *Reporter
}

func NewTracker(source PositionSource, sink LocationSink, opts ...Option) *Tracker {
	return &Tracker{
		source: source,
		sink:   sink,
		opts:   opts,
	}
}

// Switch stops the current reporter and starts one for eventID.
func (t *Tracker) Switch(ctx context.Context, eventID string, fence geo.Geofence) (*Reporter, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.current != nil {
		t.current.Stop()
		t.current = nil
	}

	r := New(t.source, t.sink, eventID, fence, t.opts...)
	if err := r.Start(ctx); err != nil {
		return nil, err
	}
	t.current = r
	return r, nil
}

// Current returns the running reporter, or nil.
func (t *Tracker) Current() *Reporter {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

// Stop stops the running reporter, if any.
func (t *Tracker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.current != nil {
		t.current.Stop()
		t.current = nil
	}
}
