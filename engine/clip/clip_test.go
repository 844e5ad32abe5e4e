package clip

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-anim/engine/curve"
	"github.com/Carmen-Shannon/oxy-anim/engine/skeleton"
	"github.com/go-gl/mathgl/mgl32"
)

func hipsSet(end float32) *curve.Set {
	return &curve.Set{
		Position: []curve.Named[mgl32.Vec3]{{
			Name: "hips",
			Curve: curve.NewVec3([]curve.Keyframe[mgl32.Vec3]{
				{Time: 0}, {Time: end, Value: mgl32.Vec3{1, 0, 0}},
			}, curve.InterpolationLinear),
		}},
	}
}

func TestNewClipDefaults(t *testing.T) {
	c := NewClip("walk", WithCurves(hipsSet(2)))

	if c.Name() != "walk" {
		t.Errorf("Name() = %q", c.Name())
	}
	if c.Length() != 2 {
		t.Errorf("Length() = %v, expected 2 from curves", c.Length())
	}
	if c.Version() != 0 {
		t.Errorf("Version() = %d, expected 0", c.Version())
	}
	if c.ID() == NewClip("walk").ID() {
		t.Error("two clips share an ID")
	}

	if got := NewClip("x", WithLength(5), WithCurves(hipsSet(2))).Length(); got != 5 {
		t.Errorf("explicit Length() = %v, expected 5", got)
	}
}

func TestSetCurvesBumpsVersion(t *testing.T) {
	c := NewClip("walk", WithCurves(hipsSet(1)))
	old := c.Curves()

	c.SetCurves(hipsSet(3))
	if c.Version() != 1 {
		t.Errorf("Version() = %d, expected 1", c.Version())
	}
	if c.Curves() == old {
		t.Error("Curves() still returns the previous set")
	}
	if old.Length() != 1 {
		t.Errorf("previous set changed, Length() = %v", old.Length())
	}

	c.SetCurves(nil)
	if c.Curves() == nil || c.Version() != 2 {
		t.Errorf("SetCurves(nil) gave set=%v version=%d", c.Curves(), c.Version())
	}
}

func TestBoneMapping(t *testing.T) {
	skel, err := skeleton.NewSkeleton([]skeleton.Bone{
		{Name: "root", ParentIndex: -1},
		{Name: "hips", ParentIndex: 0},
	})
	if err != nil {
		t.Fatal(err)
	}
	c := NewClip("walk", WithCurves(hipsSet(1)))

	out := make([]curve.Mapping, skel.NumBones())
	c.BoneMapping(skel, out)

	if !out[0].Empty() {
		t.Errorf("root mapping = %+v, expected none", out[0])
	}
	if out[1].Position != 0 || out[1].Rotation != -1 {
		t.Errorf("hips mapping = %+v", out[1])
	}
}

func TestCrossed(t *testing.T) {
	events := []Event{{Name: "a", Time: 0.25}, {Name: "b", Time: 0.75}}

	tests := []struct {
		name     string
		from, to float32
		loop     bool
		want     []string
	}{
		{name: "forward", from: 0, to: 0.5, want: []string{"a"}},
		{name: "inclusive end", from: 0.25, to: 0.75, want: []string{"b"}},
		{name: "loop wrap", from: 0.7, to: 1.3, loop: true, want: []string{"b", "a"}},
		{name: "loop two cycles", from: 0.5, to: 2.5, loop: true, want: []string{"b", "a", "b", "a"}},
		{name: "clamped past end", from: 0.5, to: 4, want: []string{"b"}},
		{name: "reverse", from: 1, to: 0, want: []string{"b", "a"}},
		{name: "no movement", from: 0.25, to: 0.25, loop: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got []string
			Crossed(events, tc.from, tc.to, 1, tc.loop, func(e Event) { got = append(got, e.Name) })
			if len(got) != len(tc.want) {
				t.Fatalf("Crossed() = %v, expected %v", got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Errorf("Crossed() = %v, expected %v", got, tc.want)
					break
				}
			}
		})
	}
}

func TestEventsSorted(t *testing.T) {
	c := NewClip("x", WithEvents(Event{Name: "late", Time: 2}, Event{Name: "early", Time: 1}))
	if ev := c.Events(); len(ev) != 2 || ev[0].Name != "early" {
		t.Errorf("Events() = %v, expected sorted by time", ev)
	}
}
