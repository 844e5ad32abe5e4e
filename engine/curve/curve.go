// Package curve holds the keyframed curves a clip is authored from, the per-curve cursor
// caches used for fast sequential sampling, and the named curve sets clips publish.
package curve

import (
	"slices"
	"sort"

	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/go-gl/mathgl/mgl32"
)

// Interpolation selects how values between two keyframes are computed.
type Interpolation int

const (
	// InterpolationLinear blends linearly between neighbouring keys (slerp for rotations).
	InterpolationLinear Interpolation = iota

	// InterpolationStep holds the left key's value until the next key is reached.
	InterpolationStep

	// InterpolationCubic evaluates a cubic Hermite spline using the keys' tangents.
	InterpolationCubic
)

// Keyframe is a single authored sample of a curve.
type Keyframe[T any] struct {
	// Time is the keyframe timestamp in seconds.
	Time float32

	// Value is the curve value at Time.
	Value T

	// InTangent is the derivative arriving at this key, used by InterpolationCubic.
	InTangent T

	// OutTangent is the derivative leaving this key, used by InterpolationCubic.
	OutTangent T
}

// Curve is an immutable keyframed curve over a value type T.
// Construct one with NewVec3, NewQuat or NewFloat; the zero Curve is not usable.
type Curve[T any] struct {
	keys   []Keyframe[T]
	interp Interpolation
	def    T

	lerp    func(a, b T, t float32) T
	hermite func(p0, m0, p1, m1 T, s, dt float32) T
}

// NewVec3 creates a curve over 3D vectors (positions and scales).
// Keys are copied and sorted by time.
//
// Parameters:
//   - keys: the keyframes of the curve
//   - interp: the interpolation between keys
//
// Returns:
//   - *Curve[mgl32.Vec3]: the new curve
func NewVec3(keys []Keyframe[mgl32.Vec3], interp Interpolation) *Curve[mgl32.Vec3] {
	return newCurve(keys, interp, mgl32.Vec3{}, lerpVec3, hermiteVec3)
}

// NewQuat creates a curve over rotations. Linear interpolation uses slerp along the shortest
// arc; cubic interpolation is evaluated per component and renormalized.
// Keys are copied and sorted by time.
//
// Parameters:
//   - keys: the keyframes of the curve
//   - interp: the interpolation between keys
//
// Returns:
//   - *Curve[mgl32.Quat]: the new curve
func NewQuat(keys []Keyframe[mgl32.Quat], interp Interpolation) *Curve[mgl32.Quat] {
	return newCurve(keys, interp, mgl32.QuatIdent(), mgl32.QuatSlerp, hermiteQuat)
}

// NewFloat creates a curve over scalars, used for generic (non-transform) curves.
// Keys are copied and sorted by time.
//
// Parameters:
//   - keys: the keyframes of the curve
//   - interp: the interpolation between keys
//
// Returns:
//   - *Curve[float32]: the new curve
func NewFloat(keys []Keyframe[float32], interp Interpolation) *Curve[float32] {
	return newCurve(keys, interp, 0, common.Lerp, hermiteFloat)
}

func newCurve[T any](keys []Keyframe[T], interp Interpolation, def T,
	lerp func(a, b T, t float32) T, hermite func(p0, m0, p1, m1 T, s, dt float32) T) *Curve[T] {
	sorted := slices.Clone(keys)
	slices.SortStableFunc(sorted, func(a, b Keyframe[T]) int {
		switch {
		case a.Time < b.Time:
			return -1
		case a.Time > b.Time:
			return 1
		}
		return 0
	})
	return &Curve[T]{
		keys:    sorted,
		interp:  interp,
		def:     def,
		lerp:    lerp,
		hermite: hermite,
	}
}

// Len returns the number of keyframes.
func (c *Curve[T]) Len() int {
	return len(c.keys)
}

// Key returns the keyframe at index i.
func (c *Curve[T]) Key(i int) Keyframe[T] {
	return c.keys[i]
}

// Interpolation returns the curve's interpolation mode.
func (c *Curve[T]) Interpolation() Interpolation {
	return c.interp
}

// Start returns the time of the first key, or 0 for an empty curve.
func (c *Curve[T]) Start() float32 {
	if len(c.keys) == 0 {
		return 0
	}
	return c.keys[0].Time
}

// End returns the time of the last key, or 0 for an empty curve.
func (c *Curve[T]) End() float32 {
	if len(c.keys) == 0 {
		return 0
	}
	return c.keys[len(c.keys)-1].Time
}

// Evaluate samples the curve at time t. Times before the first key return the first value and
// times past the last key return the last value. An empty curve returns the type default
// (zero vector, zero scalar or identity rotation).
//
// cache may be nil. When given, it is used as the starting guess for the key search and is
// updated to the segment that contained t.
//
// Parameters:
//   - t: the sample time in seconds
//   - cache: the cursor for this curve instance, or nil
//
// Returns:
//   - T: the sampled value
func (c *Curve[T]) Evaluate(t float32, cache *Cache) T {
	n := len(c.keys)
	switch {
	case n == 0:
		return c.def
	case n == 1 || t <= c.keys[0].Time:
		return c.keys[0].Value
	case t >= c.keys[n-1].Time:
		if cache != nil {
			cache.Index = n - 2
		}
		return c.keys[n-1].Value
	}

	i := c.segment(t, cache)
	k0, k1 := &c.keys[i], &c.keys[i+1]
	dt := k1.Time - k0.Time
	if dt <= 0 {
		return k1.Value
	}
	s := (t - k0.Time) / dt

	switch c.interp {
	case InterpolationStep:
		return k0.Value
	case InterpolationCubic:
		return c.hermite(k0.Value, k0.OutTangent, k1.Value, k1.InTangent, s, dt)
	default:
		return c.lerp(k0.Value, k1.Value, s)
	}
}

// segment returns the index i of the key with keys[i].Time <= t < keys[i+1].Time.
// The caller guarantees keys[0].Time < t < keys[n-1].Time.
func (c *Curve[T]) segment(t float32, cache *Cache) int {
	n := len(c.keys)
	if cache != nil && cache.Index >= 0 && cache.Index < n-1 {
		i := cache.Index
		if c.keys[i].Time <= t && t < c.keys[i+1].Time {
			return i
		}
		// Sequential playback usually lands in the very next segment.
		if i+2 < n && c.keys[i+1].Time <= t && t < c.keys[i+2].Time {
			cache.Index = i + 1
			return i + 1
		}
	}

	i := sort.Search(n, func(j int) bool { return c.keys[j].Time > t }) - 1
	if cache != nil {
		cache.Index = i
	}
	return i
}
