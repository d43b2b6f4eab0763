package reporter

import (
	"context"
	"errors"
	"time"

	"github.com/cmlabs-hris/gigshift-attendance-go/internal/pkg/geo"
)

// Location acquisition failures. Any of them makes the reporter's state Unavailable.
var (
	ErrPermissionDenied    = errors.New("location permission denied")
	ErrPositionUnavailable = errors.New("position unavailable")
	ErrTimeout             = errors.New("position request timed out")
	ErrUnsupported         = errors.New("geolocation not supported")
)

// PositionOptions are passed to every position request.
type PositionOptions struct {
	HighAccuracy bool
	Timeout      time.Duration
	// MaximumAge 0 forbids cached fixes.
	MaximumAge time.Duration
}

// DefaultPositionOptions asks for a fresh high-accuracy fix within 5 seconds.
var DefaultPositionOptions = PositionOptions{
	HighAccuracy: true,
	Timeout:      5 * time.Second,
	MaximumAge:   0,
}

// PositionSource yields the device's current coordinate. Implementations must honour
// ctx cancellation.
type PositionSource interface {
	CurrentPosition(ctx context.Context, opts PositionOptions) (geo.Coordinate, error)
}

// FuncSource adapts a function to PositionSource.
type FuncSource func(ctx context.Context, opts PositionOptions) (geo.Coordinate, error)

func (f FuncSource) CurrentPosition(ctx context.Context, opts PositionOptions) (geo.Coordinate, error) {
	return f(ctx, opts)
}

// StaticSource always reports the same coordinate.
type StaticSource struct {
	Coordinate geo.Coordinate
}

func (s StaticSource) CurrentPosition(ctx context.Context, opts PositionOptions) (geo.Coordinate, error) {
	if err := ctx.Err(); err != nil {
		return geo.Coordinate{}, err
	}
	return s.Coordinate, nil
}

// UnsupportedSource is used when the platform has no location provider.
type UnsupportedSource struct{}

func (UnsupportedSource) CurrentPosition(ctx context.Context, opts PositionOptions) (geo.Coordinate, error) {
	return geo.Coordinate{}, ErrUnsupported
}
