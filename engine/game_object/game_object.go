package game_object

import (
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/Carmen-Shannon/oxy-anim/engine/animation"
	"github.com/Carmen-Shannon/oxy-anim/engine/skeleton"
	"github.com/go-gl/mathgl/mgl32"
)

type gameObject struct {
	id      uint64
	name    string
	enabled atomic.Bool

	parent GameObject
	local  skeleton.Transform

	anim animation.Animation
}

// GameObject defines the interface for a scene-graph node whose local transform can be driven
// by an Animation. Objects bound to an Animation receive their transform in the animation's
// UpdateFromProxy, on the owning thread.
type GameObject interface {
	animation.SceneObject

	// ID returns the object's unique identifier.
	//
	// Returns:
	//   - uint64: the object ID
	ID() uint64

	// Name returns the curve name this object is bound under.
	//
	// Returns:
	//   - string: the object name
	Name() string

	// Enabled returns whether this object is enabled.
	//
	// Returns:
	//   - bool: true if enabled
	Enabled() bool

	// SetEnabled sets whether the object is enabled.
	//
	// Parameters:
	//   - enabled: true to enable
	SetEnabled(enabled bool)

	// Parent returns the parent object, or nil for a root.
	//
	// Returns:
	//   - GameObject: the parent or nil
	Parent() GameObject

	// SetParent reparents the object. Pass nil to make it a root.
	//
	// Parameters:
	//   - p: the new parent
	SetParent(p GameObject)

	// Position returns the local position.
	//
	// Returns:
	//   - mgl32.Vec3: the local position
	Position() mgl32.Vec3

	// Rotation returns the local rotation.
	//
	// Returns:
	//   - mgl32.Quat: the local rotation
	Rotation() mgl32.Quat

	// Scale returns the local scale.
	//
	// Returns:
	//   - mgl32.Vec3: the local scale
	Scale() mgl32.Vec3

	// SetPosition sets the local position.
	//
	// Parameters:
	//   - p: the new position
	SetPosition(p mgl32.Vec3)

	// SetRotation sets the local rotation. The quaternion is normalized.
	//
	// Parameters:
	//   - q: the new rotation
	SetRotation(q mgl32.Quat)

	// SetScale sets the local scale.
	//
	// Parameters:
	//   - s: the new scale
	SetScale(s mgl32.Vec3)

	// WorldMatrix composes the local transforms from the root down to this object.
	//
	// Returns:
	//   - mgl32.Mat4: the object-to-world matrix
	WorldMatrix() mgl32.Mat4

	// Animation returns the Animation driving this object, or nil.
	//
	// Returns:
	//   - animation.Animation: the bound animation or nil
	Animation() animation.Animation

	// BindAnimation maps the object's name to curves (or a bone) of a, replacing any previous
	// binding. The object's current local transform becomes its rest transform. Pass nil to unbind.
	//
	// Parameters:
	//   - a: the driving animation
	BindAnimation(a animation.Animation)
}

var _ GameObject = &gameObject{}

// NewGameObject creates a new GameObject configured with the given options.
// The object starts enabled at the identity transform.
//
// Parameters:
//   - options: functional options to configure the object
//
// Returns:
//   - GameObject: the newly created object
func NewGameObject(options ...GameObjectBuilderOption) GameObject {
	obj := &gameObject{
		local: skeleton.IdentityTransform(),
	}
	obj.enabled.Store(true)
	for _, option := range options {
		option(obj)
	}
	return obj
}

func (g *gameObject) ID() uint64 {
	return g.id
}

func (g *gameObject) Name() string {
	return g.name
}

func (g *gameObject) Enabled() bool {
	return g.enabled.Load()
}

func (g *gameObject) SetEnabled(enabled bool) {
	g.enabled.Store(enabled)
}

func (g *gameObject) Parent() GameObject {
	return g.parent
}

func (g *gameObject) SetParent(p GameObject) {
	g.parent = p
}

func (g *gameObject) LocalTransform() skeleton.Transform {
	return g.local
}

func (g *gameObject) SetLocalTransform(t skeleton.Transform) {
	g.local = t
}

func (g *gameObject) Position() mgl32.Vec3 {
	return g.local.Position
}

func (g *gameObject) Rotation() mgl32.Quat {
	return g.local.Rotation
}

func (g *gameObject) Scale() mgl32.Vec3 {
	return g.local.Scale
}

func (g *gameObject) SetPosition(p mgl32.Vec3) {
	g.local.Position = p
}

func (g *gameObject) SetRotation(q mgl32.Quat) {
	g.local.Rotation = q.Normalize()
}

func (g *gameObject) SetScale(s mgl32.Vec3) {
	g.local.Scale = s
}

func (g *gameObject) WorldMatrix() mgl32.Mat4 {
	m := common.ComposeTRS(g.local.Position, g.local.Rotation, g.local.Scale)
	// cycles are the caller's bug; cap the walk
	depth := 0
	for p := g.parent; p != nil && depth < maxDepth; p = p.Parent() {
		t := p.LocalTransform()
		m = common.ComposeTRS(t.Position, t.Rotation, t.Scale).Mul4(m)
		depth++
	}
	return m
}

// maxDepth bounds parent walks.
const maxDepth = 256

func (g *gameObject) Animation() animation.Animation {
	return g.anim
}

func (g *gameObject) BindAnimation(a animation.Animation) {
	if g.anim != nil {
		g.anim.UnmapSceneObject(g)
	}
	g.anim = a
	if a != nil {
		a.MapCurveToSceneObject(g.name, g)
	}
}
