package skeleton

import (
	"fmt"
	"slices"

	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/Carmen-Shannon/oxy-anim/engine/curve"
	"github.com/go-gl/mathgl/mgl32"
)

// MappingSelector picks the per-target curve mappings of a state.
type MappingSelector func(s *AnimationState) []curve.Mapping

// BoneMappings selects AnimationState.BoneMapping.
func BoneMappings(s *AnimationState) []curve.Mapping { return s.BoneMapping }

// ObjectMappings selects AnimationState.ObjectMapping.
func ObjectMappings(s *AnimationState) []curve.Mapping { return s.ObjectMapping }

// BlendTargets computes the local transform of one target across all layers.
//
// Non-additive layers are blended per channel: translation and scale as a weighted sum
// normalized by the channel's total weight, rotation as a hemisphere-aligned weighted sum
// renormalized afterwards. A channel no state animates keeps its rest value. Additive layers
// are then applied in ascending layer order: translation and scale add w*delta, rotation
// pre-multiplies nlerp(identity, delta, w).
//
// Parameters:
//   - layers: layers sorted ascending by index
//   - target: the bone or scene-object index
//   - sel: selects which mapping table of each state to use
//   - rest: the fallback transform
//
// Returns:
//   - Transform: the blended local transform
//   - bool: true if any curve contributed
func BlendTargets(layers []AnimationStateLayer, target int, sel MappingSelector, rest Transform) (Transform, bool) {
	var (
		pos, scl         mgl32.Vec3
		rot              mgl32.Quat
		posW, rotW, sclW float32
	)

	for li := range layers {
		layer := &layers[li]
		if layer.Additive {
			continue
		}
		for si := range layer.States {
			st := &layer.States[si]
			m, ok := mappingFor(st, sel, target)
			if !ok || st.Weight <= 0 {
				continue
			}
			w := st.Weight
			t := st.SampleTime()
			if m.Position >= 0 {
				pos = pos.Add(st.SamplePosition(m.Position, t).Mul(w))
				posW += w
			}
			if m.Rotation >= 0 {
				rot = common.AccumulateQuat(rot, st.SampleRotation(m.Rotation, t), w)
				rotW += w
			}
			if m.Scale >= 0 {
				scl = scl.Add(st.SampleScale(m.Scale, t).Mul(w))
				sclW += w
			}
		}
	}

	out := rest
	animated := false
	if posW > 0 {
		out.Position = pos.Mul(1 / posW)
		animated = true
	}
	if rotW > 0 {
		out.Rotation = rot.Normalize()
		animated = true
	}
	if sclW > 0 {
		out.Scale = scl.Mul(1 / sclW)
		animated = true
	}

	for li := range layers {
		layer := &layers[li]
		if !layer.Additive {
			continue
		}
		for si := range layer.States {
			st := &layer.States[si]
			m, ok := mappingFor(st, sel, target)
			if !ok || st.Weight <= 0 {
				continue
			}
			w := st.Weight
			t := st.SampleTime()
			if m.Position >= 0 {
				out.Position = out.Position.Add(st.SamplePosition(m.Position, t).Mul(w))
				animated = true
			}
			if m.Rotation >= 0 {
				// q and -q are the same rotation; ramp along the short arc from identity
				delta := st.SampleRotation(m.Rotation, t)
				if delta.W < 0 {
					delta = delta.Scale(-1)
				}
				delta = mgl32.QuatNlerp(mgl32.QuatIdent(), delta, w)
				out.Rotation = delta.Mul(out.Rotation).Normalize()
				animated = true
			}
			if m.Scale >= 0 {
				out.Scale = out.Scale.Add(st.SampleScale(m.Scale, t).Mul(w))
				animated = true
			}
		}
	}

	return out, animated
}

func mappingFor(st *AnimationState, sel MappingSelector, target int) (curve.Mapping, bool) {
	mapping := sel(st)
	if target >= len(mapping) {
		return curve.Mapping{}, false
	}
	m := mapping[target]
	return m, !m.Empty()
}

// GetPoseLayers fills local with the blended local transform of every bone and pose with the
// composed model-space matrices. Bones are visited in declaration order, so each parent's
// matrix is ready before its children. Bones disabled by mask, or with no contributing curve,
// keep the bind pose.
//
// Parameters:
//   - pose: destination model-space pose; resized to the bone count, may be nil
//   - local: destination local pose; must hold one entry per bone
//   - layers: the layered states, sorted ascending by index
//   - mask: optional bone mask
func (s *Skeleton) GetPoseLayers(pose *SkeletonPose, local *LocalSkeletonPose, layers []AnimationStateLayer, mask *Mask) {
	n := len(s.bones)
	if len(local.Positions) != n || len(local.Rotations) != n || len(local.Scales) != n || len(local.HasOverride) != n {
		panic(fmt.Sprintf("skeleton: local pose holds %d entries, skeleton has %d bones", local.Len(), n))
	}
	if pose != nil && len(pose.Matrices) != n {
		pose.Resize(n)
	}

	for i := range s.bones {
		bone := &s.bones[i]
		tr, animated := bone.Local, false
		if mask.IsEnabled(i) {
			tr, animated = BlendTargets(layers, i, BoneMappings, bone.Local)
		}
		local.Set(i, tr, animated)

		if pose == nil {
			continue
		}
		m := common.ComposeTRS(tr.Position, tr.Rotation, tr.Scale)
		if bone.ParentIndex >= 0 {
			m = pose.Matrices[bone.ParentIndex].Mul4(m)
		}
		pose.Matrices[i] = m
	}
}

// GetPose samples a single curve set at time and fills pose and local.
//
// Parameters:
//   - pose: destination model-space pose, may be nil
//   - local: destination local pose; must hold one entry per bone
//   - curves: the curve set to sample; nil yields the bind pose
//   - time: playback time in seconds
//   - loop: wrap (true) or clamp (false) time to the curve set length
func (s *Skeleton) GetPose(pose *SkeletonPose, local *LocalSkeletonPose, curves *curve.Set, time float32, loop bool) {
	state := NewAnimationState(curves, 1, loop, time, curves.Length())
	state.BoneMapping = make([]curve.Mapping, len(s.bones))
	s.MapBones(curves, state.BoneMapping)

	s.GetPoseLayers(pose, local, []AnimationStateLayer{{States: []AnimationState{state}}}, nil)
}

// GetPoseStates samples a weighted set of clips. Each spec samples at time*Speed; specs are
// grouped by Layer, and every layer other than 0 is additive.
//
// Parameters:
//   - pose: destination model-space pose, may be nil
//   - local: destination local pose; must hold one entry per bone
//   - specs: the weighted clips
//   - time: the shared playback time in seconds
func (s *Skeleton) GetPoseStates(pose *SkeletonPose, local *LocalSkeletonPose, specs []StateSpec, time float32) {
	indices := make([]uint32, 0, len(specs))
	for _, spec := range specs {
		indices = append(indices, spec.Layer)
	}
	slices.Sort(indices)
	indices = slices.Compact(indices)

	layers := make([]AnimationStateLayer, len(indices))
	for i, idx := range indices {
		layers[i] = AnimationStateLayer{Index: idx, Additive: idx != 0}
	}
	for _, spec := range specs {
		li, _ := slices.BinarySearch(indices, spec.Layer)
		state := NewAnimationState(spec.Curves, spec.Weight, spec.Loop, time*spec.Speed, spec.Curves.Length())
		state.BoneMapping = make([]curve.Mapping, len(s.bones))
		s.MapBones(spec.Curves, state.BoneMapping)
		layers[li].States = append(layers[li].States, state)
	}

	s.GetPoseLayers(pose, local, layers, nil)
}

// SampleCurves writes raw per-curve samples into local, one entry per curve, in layer and
// state order. It is the skeleton-less counterpart of GetPoseLayers; local must have been
// sized from the summed curve counts of all states. HasOverride[i] is set when the i-th entry
// of at least one channel was written; channel slots past their own curve count are left
// untouched.
//
// Parameters:
//   - local: destination pose sized by summed curve counts
//   - layers: the layered states
func SampleCurves(local *LocalSkeletonPose, layers []AnimationStateLayer) {
	var p, r, sc int
	for li := range layers {
		for si := range layers[li].States {
			st := &layers[li].States[si]
			if st.Curves == nil {
				continue
			}
			t := st.SampleTime()
			for i := range st.Curves.Position {
				local.Positions[p] = st.SamplePosition(int32(i), t)
				p++
			}
			for i := range st.Curves.Rotation {
				local.Rotations[r] = st.SampleRotation(int32(i), t)
				r++
			}
			for i := range st.Curves.Scale {
				local.Scales[sc] = st.SampleScale(int32(i), t)
				sc++
			}
		}
	}
	written := max(p, r, sc)
	for i := range local.HasOverride {
		local.HasOverride[i] = i < written
	}
}
