package skeleton

import (
	"github.com/go-gl/mathgl/mgl32"
)

// SkeletonPose holds one model-space matrix per bone, in declaration order.
type SkeletonPose struct {
	Matrices []mgl32.Mat4
}

// NewSkeletonPose allocates a pose for numBones bones, initialized to identity.
func NewSkeletonPose(numBones int) *SkeletonPose {
	p := &SkeletonPose{}
	p.Resize(numBones)
	return p
}

// Resize makes the pose hold exactly n matrices, reusing storage when possible.
func (p *SkeletonPose) Resize(n int) {
	if cap(p.Matrices) < n {
		p.Matrices = make([]mgl32.Mat4, n)
	}
	p.Matrices = p.Matrices[:n]
	for i := range p.Matrices {
		p.Matrices[i] = mgl32.Ident4()
	}
}

// LocalSkeletonPose holds decomposed local transforms. With a skeleton every slice has one
// entry per bone; without one the three transform slices hold one entry per curve of that kind.
type LocalSkeletonPose struct {
	Positions []mgl32.Vec3
	Rotations []mgl32.Quat
	Scales    []mgl32.Vec3

	// HasOverride reports, per entry, whether animation data replaced the rest transform.
	// For curve-sized poses entry i is true when any of the three channels wrote its i-th entry.
	HasOverride []bool
}

// NewLocalSkeletonPose allocates a local pose with the given number of entries per channel.
// Entries start at the identity transform.
func NewLocalSkeletonPose(numPositions, numRotations, numScales int) *LocalSkeletonPose {
	p := &LocalSkeletonPose{
		Positions:   make([]mgl32.Vec3, numPositions),
		Rotations:   make([]mgl32.Quat, numRotations),
		Scales:      make([]mgl32.Vec3, numScales),
		HasOverride: make([]bool, max(numPositions, numRotations, numScales)),
	}
	p.Reset()
	return p
}

// Reset restores every entry to the identity transform with no override.
func (p *LocalSkeletonPose) Reset() {
	for i := range p.Positions {
		p.Positions[i] = mgl32.Vec3{}
	}
	for i := range p.Rotations {
		p.Rotations[i] = mgl32.QuatIdent()
	}
	for i := range p.Scales {
		p.Scales[i] = mgl32.Vec3{1, 1, 1}
	}
	clear(p.HasOverride)
}

// Len returns the number of bone entries (the longest channel).
func (p *LocalSkeletonPose) Len() int {
	return len(p.HasOverride)
}

// Transform returns entry i as a Transform. Only meaningful for bone-sized poses.
func (p *LocalSkeletonPose) Transform(i int) Transform {
	return Transform{Position: p.Positions[i], Rotation: p.Rotations[i], Scale: p.Scales[i]}
}

// Set stores t at entry i.
func (p *LocalSkeletonPose) Set(i int, t Transform, override bool) {
	p.Positions[i] = t.Position
	p.Rotations[i] = t.Rotation
	p.Scales[i] = t.Scale
	p.HasOverride[i] = override
}

// Equal reports whether two local poses are bit-for-bit identical.
func (p *LocalSkeletonPose) Equal(o *LocalSkeletonPose) bool {
	if len(p.Positions) != len(o.Positions) || len(p.Rotations) != len(o.Rotations) ||
		len(p.Scales) != len(o.Scales) || len(p.HasOverride) != len(o.HasOverride) {
		return false
	}
	for i := range p.Positions {
		if p.Positions[i] != o.Positions[i] {
			return false
		}
	}
	for i := range p.Rotations {
		if p.Rotations[i] != o.Rotations[i] {
			return false
		}
	}
	for i := range p.Scales {
		if p.Scales[i] != o.Scales[i] {
			return false
		}
	}
	for i := range p.HasOverride {
		if p.HasOverride[i] != o.HasOverride[i] {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the pose.
func (p *LocalSkeletonPose) Clone() *LocalSkeletonPose {
	return &LocalSkeletonPose{
		Positions:   append([]mgl32.Vec3(nil), p.Positions...),
		Rotations:   append([]mgl32.Quat(nil), p.Rotations...),
		Scales:      append([]mgl32.Vec3(nil), p.Scales...),
		HasOverride: append([]bool(nil), p.HasOverride...),
	}
}

// Mask enables or disables animation per bone. Disabled bones keep their bind pose.
// A nil *Mask enables every bone.
type Mask struct {
	disabled map[int]struct{}
}

// NewMask returns a mask with every bone enabled.
func NewMask() *Mask {
	return &Mask{disabled: make(map[int]struct{})}
}

// SetEnabled toggles animation for bone index i.
func (m *Mask) SetEnabled(i int, enabled bool) {
	if enabled {
		delete(m.disabled, i)
		return
	}
	m.disabled[i] = struct{}{}
}

// IsEnabled reports whether bone index i is animated.
func (m *Mask) IsEnabled(i int) bool {
	if m == nil {
		return true
	}
	_, off := m.disabled[i]
	return !off
}

// Clone returns an independent copy, so a published proxy never observes later edits.
func (m *Mask) Clone() *Mask {
	if m == nil {
		return nil
	}
	c := NewMask()
	for i := range m.disabled {
		c.disabled[i] = struct{}{}
	}
	return c
}
