package game_object

import (
	"github.com/Carmen-Shannon/oxy-anim/engine/animation"
	"github.com/go-gl/mathgl/mgl32"
)

// GameObjectBuilderOption is a functional option for configuring a GameObject during construction.
type GameObjectBuilderOption func(*gameObject)

// WithID sets the ID of the GameObject.
//
// Parameters:
//   - id: unique identifier for the GameObject
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the ID
func WithID(id uint64) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.id = id
	}
}

// WithName sets the name the GameObject is bound under when mapped to an Animation.
//
// Parameters:
//   - name: the curve or bone name
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the name
func WithName(name string) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.name = name
	}
}

// WithEnabled sets whether the GameObject is enabled.
//
// Parameters:
//   - enabled: true to enable the object
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the Enabled state
func WithEnabled(enabled bool) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.enabled.Store(enabled)
	}
}

// WithParent attaches the GameObject under a parent.
//
// Parameters:
//   - p: the parent object
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the parent
func WithParent(p GameObject) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.parent = p
	}
}

// WithPosition sets the initial local position.
//
// Parameters:
//   - p: position
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the position
func WithPosition(p mgl32.Vec3) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.local.Position = p
	}
}

// WithRotation sets the initial local rotation.
//
// Parameters:
//   - q: rotation, normalized on apply
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the rotation
func WithRotation(q mgl32.Quat) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.local.Rotation = q.Normalize()
	}
}

// WithEulerRotation sets the initial local rotation from XYZ Euler angles in radians.
//
// Parameters:
//   - rx, ry, rz: rotation angles
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the rotation
func WithEulerRotation(rx, ry, rz float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.local.Rotation = mgl32.AnglesToQuat(rx, ry, rz, mgl32.XYZ)
	}
}

// WithScale sets the initial local scale.
//
// Parameters:
//   - s: scale factors
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the scale
func WithScale(s mgl32.Vec3) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.local.Scale = s
	}
}

// WithAnimation binds the GameObject to an Animation once the other options are applied.
// Place it after WithName and the transform options so the rest transform is captured.
//
// Parameters:
//   - a: the driving animation
//
// Returns:
//   - GameObjectBuilderOption: functional option to bind the animation
func WithAnimation(a animation.Animation) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.BindAnimation(a)
	}
}
