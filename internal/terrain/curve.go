package terrain

import "sort"

// Keyframe is one control point of a response curve.
// In and Out are the incoming and outgoing tangents (slope per unit time).
type Keyframe struct {
	Time  float64 `yaml:"time"`
	Value float64 `yaml:"value"`
	In    float64 `yaml:"in"`
	Out   float64 `yaml:"out"`
}

// Curve maps a normalized distance (0 = impact center, 1 = radius edge) to a
// displacement multiplier. Between keys it interpolates with cubic Hermite
// splines; outside the key domain it holds the end values.
type Curve struct {
	Keys []Keyframe
}

// NewCurve builds a curve from keys, sorted by time.
func NewCurve(keys ...Keyframe) *Curve {
	sorted := make([]Keyframe, len(keys))
	copy(sorted, keys)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Time < sorted[j].Time
	})
	return &Curve{Keys: sorted}
}

// Domain returns the first and last key times. An empty curve has domain [0, 0].
func (c *Curve) Domain() (float64, float64) {
	if c == nil || len(c.Keys) == 0 {
		return 0, 0
	}
	return c.Keys[0].Time, c.Keys[len(c.Keys)-1].Time
}

// Evaluate returns the curve value at t, clamping t to the key domain.
// An empty curve evaluates to 0.
func (c *Curve) Evaluate(t float64) float64 {
	if c == nil || len(c.Keys) == 0 {
		return 0
	}
	first, last := c.Keys[0], c.Keys[len(c.Keys)-1]
	if t <= first.Time || len(c.Keys) == 1 {
		return first.Value
	}
	if t >= last.Time {
		return last.Value
	}

	// Find the segment [k0, k1] containing t
	i := sort.Search(len(c.Keys), func(i int) bool {
		return c.Keys[i].Time > t
	})
	k0, k1 := c.Keys[i-1], c.Keys[i]

	dt := k1.Time - k0.Time
	if dt <= 0 {
		return k1.Value
	}
	s := (t - k0.Time) / dt
	s2 := s * s
	s3 := s2 * s

	h00 := 2*s3 - 3*s2 + 1
	h10 := s3 - 2*s2 + s
	h01 := -2*s3 + 3*s2
	h11 := s3 - s2

	return h00*k0.Value + h10*dt*k0.Out + h01*k1.Value + h11*dt*k1.In
}

// Clone returns a deep copy of the curve.
func (c *Curve) Clone() *Curve {
	if c == nil {
		return nil
	}
	return NewCurve(c.Keys...)
}
