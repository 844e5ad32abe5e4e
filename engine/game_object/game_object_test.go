package game_object

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-anim/engine/animation"
	"github.com/Carmen-Shannon/oxy-anim/engine/clip"
	"github.com/Carmen-Shannon/oxy-anim/engine/curve"
	"github.com/go-gl/mathgl/mgl32"
)

func doorClip() clip.Clip {
	return clip.NewClip("open", clip.WithCurves(&curve.Set{
		Position: []curve.Named[mgl32.Vec3]{{
			Name: "door",
			Curve: curve.NewVec3([]curve.Keyframe[mgl32.Vec3]{
				{Time: 0, Value: mgl32.Vec3{0, 0, 0}},
				{Time: 1, Value: mgl32.Vec3{0, 0, 2}},
			}, curve.InterpolationLinear),
		}},
	}))
}

func step(a animation.Animation, dt float32) {
	a.UpdateAnimProxy(dt)
	a.Proxy().Evaluate()
	a.UpdateFromProxy()
}

func TestDefaults(t *testing.T) {
	g := NewGameObject(WithID(7))
	if g.ID() != 7 || !g.Enabled() {
		t.Fatalf("ID() = %d, Enabled() = %v", g.ID(), g.Enabled())
	}
	if g.Scale() != (mgl32.Vec3{1, 1, 1}) || g.Rotation() != mgl32.QuatIdent() {
		t.Errorf("transform = %+v, expected identity", g.LocalTransform())
	}
	if g.WorldMatrix() != mgl32.Ident4() {
		t.Errorf("WorldMatrix() = %v, expected identity", g.WorldMatrix())
	}
}

func TestWorldMatrixComposesParents(t *testing.T) {
	root := NewGameObject(WithPosition(mgl32.Vec3{1, 0, 0}), WithScale(mgl32.Vec3{2, 2, 2}))
	child := NewGameObject(WithParent(root), WithPosition(mgl32.Vec3{0, 1, 0}))

	got := child.WorldMatrix().Col(3).Vec3()
	if !got.ApproxEqualThreshold(mgl32.Vec3{1, 2, 0}, 1e-5) {
		t.Errorf("child world position = %v, expected (1,2,0)", got)
	}

	child.SetParent(nil)
	if got := child.WorldMatrix().Col(3).Vec3(); got != (mgl32.Vec3{0, 1, 0}) {
		t.Errorf("unparented world position = %v, expected (0,1,0)", got)
	}
}

func TestAnimationDrivesBoundObject(t *testing.T) {
	a := animation.NewAnimation()
	door := NewGameObject(WithName("door"), WithScale(mgl32.Vec3{3, 3, 3}), WithAnimation(a))
	if door.Animation() != a {
		t.Fatal("Animation() not set by WithAnimation")
	}
	a.Play(doorClip())

	step(a, 0.5)
	if got := door.Position(); !got.ApproxEqualThreshold(mgl32.Vec3{0, 0, 1}, 1e-5) {
		t.Errorf("door position = %v, expected (0,0,1)", got)
	}
	if got := door.Scale(); got != (mgl32.Vec3{3, 3, 3}) {
		t.Errorf("door scale = %v, expected rest scale kept", got)
	}
}

func TestUnbindStopsDriving(t *testing.T) {
	a := animation.NewAnimation()
	door := NewGameObject(WithName("door"))
	door.BindAnimation(a)
	a.Play(doorClip())
	step(a, 0.25)

	door.BindAnimation(nil)
	door.SetPosition(mgl32.Vec3{9, 9, 9})
	step(a, 0.25)

	if got := door.Position(); got != (mgl32.Vec3{9, 9, 9}) {
		t.Errorf("unbound door moved to %v", got)
	}
	if door.Animation() != nil {
		t.Error("Animation() not cleared")
	}
}

func TestSetRotationNormalizes(t *testing.T) {
	g := NewGameObject()
	g.SetRotation(mgl32.Quat{W: 2})
	if got := g.Rotation(); got != mgl32.QuatIdent() {
		t.Errorf("Rotation() = %v, expected identity", got)
	}
	g.SetEnabled(false)
	if g.Enabled() {
		t.Error("SetEnabled(false) ignored")
	}
}
