package reporter

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cmlabs-hris/gigshift-attendance-go/internal/domain/location"
	"github.com/cmlabs-hris/gigshift-attendance-go/internal/pkg/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	venue = geo.Coordinate{Latitude: 37.5665, Longitude: 126.9780}
	fence = geo.Geofence{Center: venue, RadiusMeters: 100}
	// roughly 11 m north of the venue
	nearby = geo.Coordinate{Latitude: 37.5666, Longitude: 126.9780}
	// roughly 1.1 km north of the venue
	faraway = geo.Coordinate{Latitude: 37.5765, Longitude: 126.9780}
)

type report struct {
	eventID string
	pos     geo.Coordinate
}

type fakeSink struct {
	mu      sync.Mutex
	reports []report
	err     error
}

func (s *fakeSink) ReportLocation(ctx context.Context, eventID string, pos geo.Coordinate) (location.ReportResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports = append(s.reports, report{eventID: eventID, pos: pos})
	return location.ReportResponse{}, s.err
}

func (s *fakeSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.reports)
}

// queueSource returns queued results in order and repeats the last one.
type queueSource struct {
	mu      sync.Mutex
	results []result
	calls   int
	opts    []PositionOptions
}

type result struct {
	pos geo.Coordinate
	err error
}

func (q *queueSource) CurrentPosition(ctx context.Context, opts PositionOptions) (geo.Coordinate, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.opts = append(q.opts, opts)
	i := q.calls
	if i >= len(q.results) {
		i = len(q.results) - 1
	}
	q.calls++
	return q.results[i].pos, q.results[i].err
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestReporter(src PositionSource, sink LocationSink, opts ...Option) *Reporter {
	opts = append([]Option{WithLogger(quietLogger())}, opts...)
	return New(src, sink, "event-1", fence, opts...)
}

func TestTick_InRangeReportsAndEvaluates(t *testing.T) {
	src := &queueSource{results: []result{{pos: nearby}}}
	sink := &fakeSink{}
	r := newTestReporter(src, sink)

	r.tick(context.Background())

	state := r.Snapshot()
	assert.Equal(t, StatusTracking, state.Status)
	require.NotNil(t, state.Position)
	assert.Equal(t, nearby, *state.Position)
	assert.Equal(t, geo.ProximityInRange, state.Proximity.Status)
	assert.NoError(t, state.ReportErr)

	require.Len(t, sink.reports, 1)
	assert.Equal(t, "event-1", sink.reports[0].eventID)
	assert.Equal(t, nearby, sink.reports[0].pos)

	require.Len(t, src.opts, 1)
	assert.Equal(t, DefaultPositionOptions, src.opts[0])
	assert.True(t, src.opts[0].HighAccuracy)
	assert.Equal(t, 5*time.Second, src.opts[0].Timeout)
	assert.Zero(t, src.opts[0].MaximumAge)
}

func TestTick_FailureClearsPreviousVerdict(t *testing.T) {
	src := &queueSource{results: []result{
		{pos: nearby},
		{err: ErrPermissionDenied},
	}}
	sink := &fakeSink{}
	r := newTestReporter(src, sink)

	r.tick(context.Background())
	require.Equal(t, geo.ProximityInRange, r.Snapshot().Proximity.Status)

	r.tick(context.Background())

	state := r.Snapshot()
	assert.Equal(t, StatusUnavailable, state.Status)
	assert.ErrorIs(t, state.Err, ErrPermissionDenied)
	assert.Nil(t, state.Position)
	assert.Equal(t, geo.ProximityUnknown, state.Proximity.Status)
	assert.False(t, state.Proximity.Known())
	assert.Equal(t, 1, sink.count(), "a failed reading must not be transmitted")
}

func TestTick_TransportFailureKeepsVerdict(t *testing.T) {
	src := &queueSource{results: []result{{pos: faraway}}}
	sink := &fakeSink{err: errors.New("connection refused")}
	r := newTestReporter(src, sink)

	r.tick(context.Background())

	state := r.Snapshot()
	assert.Equal(t, StatusTracking, state.Status)
	assert.Equal(t, geo.ProximityOutOfRange, state.Proximity.Status)
	assert.Greater(t, state.Proximity.DistanceMeters, 1000.0)
	assert.Error(t, state.ReportErr)
}

func TestTick_InvalidCoordinateIsUnavailable(t *testing.T) {
	src := &queueSource{results: []result{{pos: geo.Coordinate{Latitude: 91, Longitude: 0}}}}
	sink := &fakeSink{}
	r := newTestReporter(src, sink)

	r.tick(context.Background())

	state := r.Snapshot()
	assert.Equal(t, StatusUnavailable, state.Status)
	assert.ErrorIs(t, state.Err, ErrPositionUnavailable)
	assert.Zero(t, sink.count())
}

func TestTick_SlowSourceTimesOut(t *testing.T) {
	src := FuncSource(func(ctx context.Context, opts PositionOptions) (geo.Coordinate, error) {
		<-ctx.Done()
		return geo.Coordinate{}, ctx.Err()
	})
	r := newTestReporter(src, &fakeSink{})
	r.posOpts.Timeout = 10 * time.Millisecond

	r.tick(context.Background())

	state := r.Snapshot()
	assert.Equal(t, StatusUnavailable, state.Status)
	assert.ErrorIs(t, state.Err, ErrTimeout)
}

func TestUnsupportedSource(t *testing.T) {
	r := newTestReporter(UnsupportedSource{}, &fakeSink{})

	r.tick(context.Background())

	assert.ErrorIs(t, r.Snapshot().Err, ErrUnsupported)
}

func TestStart_FirstTickImmediate(t *testing.T) {
	src := &queueSource{results: []result{{pos: nearby}}}
	sink := &fakeSink{}
	updates := make(chan State, 4)
	r := newTestReporter(src, sink,
		WithInterval(time.Hour),
		WithOnUpdate(func(s State) { updates <- s }),
	)

	require.NoError(t, r.Start(context.Background()))
	defer r.Stop()

	select {
	case s := <-updates:
		assert.Equal(t, StatusTracking, s.Status)
	case <-time.After(2 * time.Second):
		t.Fatal("first tick did not run on start")
	}
	assert.Equal(t, 1, sink.count())
}

func TestStart_Twice(t *testing.T) {
	r := newTestReporter(StaticSource{Coordinate: nearby}, &fakeSink{}, WithInterval(time.Hour))

	require.NoError(t, r.Start(context.Background()))
	defer r.Stop()

	assert.ErrorIs(t, r.Start(context.Background()), ErrAlreadyRunning)
}

func TestTicksAreSerialized(t *testing.T) {
	var inFlight, maxInFlight, calls int32
	src := FuncSource(func(ctx context.Context, opts PositionOptions) (geo.Coordinate, error) {
		n := atomic.AddInt32(&inFlight, 1)
		defer atomic.AddInt32(&inFlight, -1)
		for {
			m := atomic.LoadInt32(&maxInFlight)
			if n <= m || atomic.CompareAndSwapInt32(&maxInFlight, m, n) {
				break
			}
		}
		atomic.AddInt32(&calls, 1)
		time.Sleep(15 * time.Millisecond)
		return nearby, nil
	})
	r := newTestReporter(src, &fakeSink{}, WithInterval(time.Millisecond))

	require.NoError(t, r.Start(context.Background()))
	assert.Eventually(t, func() bool { return atomic.LoadInt32(&calls) >= 3 }, 2*time.Second, 5*time.Millisecond)
	r.Stop()

	assert.Equal(t, int32(1), atomic.LoadInt32(&maxInFlight))
}

func TestStop_CancelsInFlightAndResets(t *testing.T) {
	started := make(chan struct{})
	var once sync.Once
	src := FuncSource(func(ctx context.Context, opts PositionOptions) (geo.Coordinate, error) {
		once.Do(func() { close(started) })
		<-ctx.Done()
		return geo.Coordinate{}, ctx.Err()
	})
	var updates int32
	r := newTestReporter(src, &fakeSink{},
		WithInterval(time.Hour),
		WithOnUpdate(func(State) { atomic.AddInt32(&updates, 1) }),
	)

	require.NoError(t, r.Start(context.Background()))
	<-started

	done := make(chan struct{})
	go func() {
		r.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not cancel the in-flight request")
	}

	assert.Zero(t, atomic.LoadInt32(&updates), "a cancelled tick must not publish")
	assert.Equal(t, StatusIdle, r.Snapshot().Status)

	// idempotent
	r.Stop()
}

func TestStop_NoTicksAfterStop(t *testing.T) {
	sink := &fakeSink{}
	r := newTestReporter(StaticSource{Coordinate: nearby}, sink, WithInterval(5*time.Millisecond))

	require.NoError(t, r.Start(context.Background()))
	assert.Eventually(t, func() bool { return sink.count() >= 2 }, 2*time.Second, 5*time.Millisecond)
	r.Stop()

	n := sink.count()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, n, sink.count())
}

func TestTracker_Switch(t *testing.T) {
	sink := &fakeSink{}
	tracker := NewTracker(StaticSource{Coordinate: nearby}, sink, WithInterval(time.Hour), WithLogger(quietLogger()))
	defer tracker.Stop()

	first, err := tracker.Switch(context.Background(), "event-1", fence)
	require.NoError(t, err)
	assert.Eventually(t, func() bool { return first.Snapshot().Status == StatusTracking }, 2*time.Second, 5*time.Millisecond)

	second, err := tracker.Switch(context.Background(), "event-2", fence)
	require.NoError(t, err)

	assert.Equal(t, StatusIdle, first.Snapshot().Status, "the previous reporter is stopped")
	assert.Same(t, second, tracker.Current())
	assert.Equal(t, "event-2", tracker.Current().EventID())

	assert.Eventually(t, func() bool {
		sink.mu.Lock()
		defer sink.mu.Unlock()
		for _, r := range sink.reports {
			if r.eventID == "event-2" {
				return true
			}
		}
		return false
	}, 2*time.Second, 5*time.Millisecond)

	tracker.Stop()
	assert.Nil(t, tracker.Current())
}

func TestParentCancelResetsAndAllowsRestart(t *testing.T) {
	sink := &fakeSink{}
	r := newTestReporter(StaticSource{Coordinate: nearby}, sink, WithInterval(time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, r.Start(ctx))
	assert.Eventually(t, func() bool { return r.Snapshot().Status == StatusTracking }, 2*time.Second, 5*time.Millisecond)

	cancel()

	assert.Eventually(t, func() bool { return r.Snapshot().Status == StatusIdle }, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, geo.ProximityUnknown, r.Snapshot().Proximity.Status)
	assert.Nil(t, r.Snapshot().Position)

	require.NoError(t, r.Start(context.Background()))
	defer r.Stop()
	assert.Eventually(t, func() bool { return sink.count() == 2 }, 2*time.Second, 5*time.Millisecond)
}

func TestTick_NotTrackingEndsReporting(t *testing.T) {
	sink := &fakeSink{err: location.ErrNotTracking}
	r := newTestReporter(StaticSource{Coordinate: nearby}, sink)

	assert.False(t, r.tick(context.Background()))

	state := r.Snapshot()
	assert.Equal(t, StatusEnded, state.Status)
	assert.ErrorIs(t, state.Err, location.ErrNotTracking)
	assert.Nil(t, state.Position)
	assert.Equal(t, geo.ProximityUnknown, state.Proximity.Status)
}

func TestStart_NotTrackingStopsLoop(t *testing.T) {
	sink := &fakeSink{err: location.ErrNotTracking}
	updates := make(chan State, 4)
	r := newTestReporter(StaticSource{Coordinate: nearby}, sink,
		WithInterval(5*time.Millisecond),
		WithOnUpdate(func(s State) { updates <- s }),
	)

	require.NoError(t, r.Start(context.Background()))
	defer r.Stop()

	select {
	case s := <-updates:
		assert.Equal(t, StatusEnded, s.Status)
	case <-time.After(2 * time.Second):
		t.Fatal("no state published")
	}

	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, 1, sink.count(), "no samples are sent once the server refuses them")
	assert.Equal(t, StatusEnded, r.Snapshot().Status)
}

// cancellingSink accepts the sample and cancels the loop before returning, the way Stop
// can land while a request is completing.
type cancellingSink struct {
	cancel context.CancelFunc
}

func (s cancellingSink) ReportLocation(ctx context.Context, eventID string, pos geo.Coordinate) (location.ReportResponse, error) {
	s.cancel()
	return location.ReportResponse{}, nil
}

func TestTick_CancelledDuringReportDoesNotPublish(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var updates int32
	r := newTestReporter(StaticSource{Coordinate: nearby}, cancellingSink{cancel: cancel},
		WithOnUpdate(func(State) { atomic.AddInt32(&updates, 1) }),
	)

	assert.False(t, r.tick(ctx))

	assert.Zero(t, atomic.LoadInt32(&updates))
	assert.Equal(t, StatusIdle, r.Snapshot().Status)
	assert.Equal(t, geo.ProximityUnknown, r.Snapshot().Proximity.Status)
}
