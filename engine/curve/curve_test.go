package curve

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func linearX(keys ...float32) *Curve[mgl32.Vec3] {
	// keys are (time, x) pairs
	kf := make([]Keyframe[mgl32.Vec3], 0, len(keys)/2)
	for i := 0; i+1 < len(keys); i += 2 {
		kf = append(kf, Keyframe[mgl32.Vec3]{Time: keys[i], Value: mgl32.Vec3{keys[i+1], 0, 0}})
	}
	return NewVec3(kf, InterpolationLinear)
}

func TestEvaluateLinear(t *testing.T) {
	c := linearX(0, 0, 1, 10)

	tests := []struct {
		name string
		t    float32
		want float32
	}{
		{name: "start", t: 0, want: 0},
		{name: "quarter", t: 0.25, want: 2.5},
		{name: "half", t: 0.5, want: 5},
		{name: "end", t: 1, want: 10},
		{name: "before start clamps", t: -3, want: 0},
		{name: "past end clamps", t: 7, want: 10},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := c.Evaluate(tc.t, nil)
			if !mgl32.FloatEqualThreshold(got[0], tc.want, 1e-5) {
				t.Errorf("Evaluate(%v) = %v, expected x=%v", tc.t, got, tc.want)
			}
		})
	}
}

func TestEvaluateUnsortedKeys(t *testing.T) {
	c := linearX(1, 10, 0, 0)
	if got := c.Evaluate(0.5, nil); !mgl32.FloatEqualThreshold(got[0], 5, 1e-5) {
		t.Errorf("Evaluate(0.5) = %v, expected x=5", got)
	}
}

func TestEvaluateStep(t *testing.T) {
	c := NewFloat([]Keyframe[float32]{{Time: 0, Value: 1}, {Time: 1, Value: 2}, {Time: 2, Value: 3}}, InterpolationStep)
	if got := c.Evaluate(0.99, nil); got != 1 {
		t.Errorf("Evaluate(0.99) = %v, expected 1", got)
	}
	if got := c.Evaluate(1.5, nil); got != 2 {
		t.Errorf("Evaluate(1.5) = %v, expected 2", got)
	}
}

func TestEvaluateCubicWithSlopeTangentsIsLinear(t *testing.T) {
	slope := mgl32.Vec3{10, 0, 0}
	c := NewVec3([]Keyframe[mgl32.Vec3]{
		{Time: 0, Value: mgl32.Vec3{0, 0, 0}, OutTangent: slope},
		{Time: 1, Value: mgl32.Vec3{10, 0, 0}, InTangent: slope},
	}, InterpolationCubic)

	for _, tt := range []float32{0.1, 0.3, 0.5, 0.9} {
		got := c.Evaluate(tt, nil)
		if !mgl32.FloatEqualThreshold(got[0], 10*tt, 1e-4) {
			t.Errorf("Evaluate(%v) = %v, expected x=%v", tt, got, 10*tt)
		}
	}
}

func TestEvaluateQuatSlerp(t *testing.T) {
	q0 := mgl32.QuatIdent()
	q1 := mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 1, 0})
	c := NewQuat([]Keyframe[mgl32.Quat]{{Time: 0, Value: q0}, {Time: 2, Value: q1}}, InterpolationLinear)

	got := c.Evaluate(1, nil)
	want := mgl32.QuatRotate(mgl32.DegToRad(45), mgl32.Vec3{0, 1, 0})
	if !got.OrientationEqualThreshold(want, 1e-5) {
		t.Errorf("Evaluate(1) = %v, expected %v", got, want)
	}
}

func TestEmptyCurveDefaults(t *testing.T) {
	if got := NewQuat(nil, InterpolationLinear).Evaluate(1, nil); got != mgl32.QuatIdent() {
		t.Errorf("empty rotation curve = %v, expected identity", got)
	}
	if got := NewVec3(nil, InterpolationLinear).Evaluate(1, nil); got != (mgl32.Vec3{}) {
		t.Errorf("empty vector curve = %v, expected zero", got)
	}
}

func TestCacheNeverDecreasesOnForwardSampling(t *testing.T) {
	c := linearX(0, 0, 0.25, 1, 0.5, 2, 0.75, 3, 1, 4)
	cache := NewCache()

	last := cache.Index
	for step := 0; step <= 120; step++ {
		c.Evaluate(float32(step)/100, &cache)
		if cache.Index < last {
			t.Fatalf("cache index went from %d to %d at step %d", last, cache.Index, step)
		}
		last = cache.Index
	}
	if last != c.Len()-2 {
		t.Errorf("final cache index = %d, expected %d", last, c.Len()-2)
	}
}

func TestCachedAndUncachedSamplesMatch(t *testing.T) {
	c := linearX(0, 0, 0.2, 5, 0.4, -1, 0.9, 7, 1.3, 2)
	cache := NewCache()

	// Jump back and forth so the cache is stale as often as it is valid.
	times := []float32{0.1, 0.15, 0.35, 1.2, 0.05, 0.5, 0.95, 0.3, 1.25, 0.21}
	for _, tt := range times {
		cached := c.Evaluate(tt, &cache)
		plain := c.Evaluate(tt, nil)
		if cached != plain {
			t.Errorf("Evaluate(%v) cached=%v uncached=%v", tt, cached, plain)
		}
	}
}

func TestSetMapping(t *testing.T) {
	s := &Set{
		Position: []Named[mgl32.Vec3]{{Name: "hips", Curve: linearX(0, 0, 1, 1)}},
		Rotation: []Named[mgl32.Quat]{
			{Name: "spine", Curve: NewQuat(nil, InterpolationLinear)},
			{Name: "hips", Curve: NewQuat(nil, InterpolationLinear)},
		},
	}

	m := make([]Mapping, 3)
	s.MapNames([]string{"hips", "spine", "head"}, m)

	if m[0] != (Mapping{Position: 0, Rotation: 1, Scale: -1}) {
		t.Errorf("hips mapping = %+v", m[0])
	}
	if m[1] != (Mapping{Position: -1, Rotation: 0, Scale: -1}) {
		t.Errorf("spine mapping = %+v", m[1])
	}
	if !m[2].Empty() {
		t.Errorf("head mapping = %+v, expected empty", m[2])
	}

	var nilSet *Set
	if !nilSet.Mapping("hips").Empty() {
		t.Error("nil set should map nothing")
	}
	if got := s.Counts(); got != (Counts{Position: 1, Rotation: 2}) {
		t.Errorf("Counts() = %+v", got)
	}
	if got := s.Length(); got != 1 {
		t.Errorf("Length() = %v, expected 1", got)
	}
}
