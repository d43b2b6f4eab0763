package geo

// ProximityStatus is the outcome of comparing a location sample to a geofence.
type ProximityStatus string

const (
	// ProximityUnknown means there is no sample to judge. It is not the same as out of range.
	ProximityUnknown    ProximityStatus = "unknown"
	ProximityInRange    ProximityStatus = "in_range"
	ProximityOutOfRange ProximityStatus = "out_of_range"
)

// Proximity is a derived verdict. It is recomputed on every read and never stored.
type Proximity struct {
	Status         ProximityStatus
	DistanceMeters float64
}

// Known reports whether the verdict is backed by a sample.
func (p Proximity) Known() bool {
	return p.Status == ProximityInRange || p.Status == ProximityOutOfRange
}

// WithinRange is true only for a known, in-range verdict.
func (p Proximity) WithinRange() bool {
	return p.Status == ProximityInRange
}

// DistancePtr returns the distance, or nil when the verdict is unknown.
func (p Proximity) DistancePtr() *float64 {
	if !p.Known() {
		return nil
	}
	d := p.DistanceMeters
	return &d
}

// WithinRangePtr returns the in-range flag, or nil when the verdict is unknown.
func (p Proximity) WithinRangePtr() *bool {
	if !p.Known() {
		return nil
	}
	v := p.WithinRange()
	return &v
}

// Evaluate computes the verdict for sample against fence. A nil sample yields ProximityUnknown.
func Evaluate(sample *Coordinate, fence Geofence) Proximity {
	if sample == nil {
		return Proximity{Status: ProximityUnknown}
	}

	d := Distance(fence.Center, *sample)
	if d <= fence.RadiusMeters {
		return Proximity{Status: ProximityInRange, DistanceMeters: d}
	}
	return Proximity{Status: ProximityOutOfRange, DistanceMeters: d}
}
