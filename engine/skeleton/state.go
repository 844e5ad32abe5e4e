package skeleton

import (
	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/Carmen-Shannon/oxy-anim/engine/curve"
	"github.com/go-gl/mathgl/mgl32"
)

// AnimationState is the evaluation-ready record of one playing clip. The slices usually point
// into an arena owned by an animation proxy; NewAnimationState allocates its own.
type AnimationState struct {
	// Curves is the clip's curve set, shared read-only.
	Curves *curve.Set

	// Weight is the blend weight in [0, 1].
	Weight float32

	// Loop selects wrapping (true) or clamping (false) of Time.
	Loop bool

	// Time is the unwrapped playback time in seconds.
	Time float32

	// Length is the clip length used to wrap or clamp Time.
	Length float32

	// BoneMapping holds one curve mapping per skeleton bone. Empty without a skeleton.
	BoneMapping []curve.Mapping

	// ObjectMapping holds one curve mapping per scene object driven by name.
	ObjectMapping []curve.Mapping

	// GenericSlots maps each generic curve to its output slot.
	GenericSlots []int32

	PositionCaches []curve.Cache
	RotationCaches []curve.Cache
	ScaleCaches    []curve.Cache
	GenericCaches  []curve.Cache
}

// AnimationStateLayer groups the states that blend together before being combined with the
// other layers. A materialized layer always holds at least one state.
type AnimationStateLayer struct {
	Index    uint32
	Additive bool
	States   []AnimationState
}

// NewAnimationState builds a standalone state with its own reset caches.
//
// Parameters:
//   - curves: the curve set to sample
//   - weight: the blend weight
//   - loop: whether time wraps
//   - time: the playback time in seconds
//   - length: the clip length in seconds
//
// Returns:
//   - AnimationState: the state; mappings are left empty
func NewAnimationState(curves *curve.Set, weight float32, loop bool, time, length float32) AnimationState {
	c := curves.Counts()
	s := AnimationState{
		Curves:         curves,
		Weight:         weight,
		Loop:           loop,
		Time:           time,
		Length:         length,
		PositionCaches: make([]curve.Cache, c.Position),
		RotationCaches: make([]curve.Cache, c.Rotation),
		ScaleCaches:    make([]curve.Cache, c.Scale),
		GenericCaches:  make([]curve.Cache, c.Generic),
	}
	s.ResetCaches()
	return s
}

// SampleTime returns Time wrapped or clamped to the clip length.
func (s *AnimationState) SampleTime() float32 {
	if s.Loop {
		return common.WrapTime(s.Time, s.Length)
	}
	return common.ClampTime(s.Time, s.Length)
}

// ResetCaches invalidates every curve cursor of the state. Call it after a seek.
func (s *AnimationState) ResetCaches() {
	curve.ResetAll(s.PositionCaches)
	curve.ResetAll(s.RotationCaches)
	curve.ResetAll(s.ScaleCaches)
	curve.ResetAll(s.GenericCaches)
}

// SamplePosition evaluates position curve i at t.
func (s *AnimationState) SamplePosition(i int32, t float32) mgl32.Vec3 {
	return s.Curves.Position[i].Curve.Evaluate(t, cacheAt(s.PositionCaches, i))
}

// SampleRotation evaluates rotation curve i at t.
func (s *AnimationState) SampleRotation(i int32, t float32) mgl32.Quat {
	return s.Curves.Rotation[i].Curve.Evaluate(t, cacheAt(s.RotationCaches, i))
}

// SampleScale evaluates scale curve i at t.
func (s *AnimationState) SampleScale(i int32, t float32) mgl32.Vec3 {
	return s.Curves.Scale[i].Curve.Evaluate(t, cacheAt(s.ScaleCaches, i))
}

// SampleGeneric evaluates generic curve i at t.
func (s *AnimationState) SampleGeneric(i int32, t float32) float32 {
	return s.Curves.Generic[i].Curve.Evaluate(t, cacheAt(s.GenericCaches, i))
}

func cacheAt(caches []curve.Cache, i int32) *curve.Cache {
	if int(i) < len(caches) {
		return &caches[i]
	}
	return nil
}

// StateSpec describes one weighted clip for GetPoseStates.
type StateSpec struct {
	Curves *curve.Set
	Weight float32
	Speed  float32
	Loop   bool
	Layer  uint32
}
