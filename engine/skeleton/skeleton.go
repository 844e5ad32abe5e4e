// Package skeleton contains the immutable bone hierarchy, the pose containers produced by
// sampling it, and the layered blend that turns weighted animation states into a pose.
package skeleton

import (
	"github.com/Carmen-Shannon/oxy-anim/engine/curve"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// ErrInvalidHierarchy is returned when bones are not topologically sorted or names collide.
var ErrInvalidHierarchy = errors.New("skeleton: invalid bone hierarchy")

// Transform is a decomposed local transform.
type Transform struct {
	// Position is the translation relative to the parent bone.
	Position mgl32.Vec3

	// Rotation is the orientation relative to the parent bone.
	Rotation mgl32.Quat

	// Scale is the scale factor along each axis.
	Scale mgl32.Vec3
}

// IdentityTransform returns a transform with no translation, no rotation and unit scale.
func IdentityTransform() Transform {
	return Transform{
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

// Bone is a single joint of the hierarchy.
type Bone struct {
	// Name is the bone's identifier; animation curves target bones by this name.
	Name string

	// ParentIndex is the index of the parent bone (-1 for root bones).
	// It must be lower than the bone's own index.
	ParentIndex int32

	// InverseBindPose transforms from model space to bone space at bind pose.
	InverseBindPose mgl32.Mat4

	// Local is the bone's bind (rest) transform relative to its parent.
	// Bones without animation data fall back to it.
	Local Transform
}

// Skeleton is an immutable bone hierarchy. It is shared read-only between the owning thread
// and the evaluation worker.
type Skeleton struct {
	bones       []Bone
	names       []string
	nameToIndex map[string]int
}

// NewSkeleton validates and freezes a bone hierarchy. Bones must be ordered so that every
// parent precedes its children; that ordering is what lets a pose be composed in one pass.
//
// Parameters:
//   - bones: the bones in declaration order; the slice is copied
//
// Returns:
//   - *Skeleton: the new skeleton
//   - error: ErrInvalidHierarchy (wrapped) when a parent index or name is invalid
func NewSkeleton(bones []Bone) (*Skeleton, error) {
	s := &Skeleton{
		bones:       make([]Bone, len(bones)),
		names:       make([]string, len(bones)),
		nameToIndex: make(map[string]int, len(bones)),
	}
	copy(s.bones, bones)

	for i, b := range s.bones {
		if b.ParentIndex >= int32(i) || b.ParentIndex < -1 {
			return nil, errors.Wrapf(ErrInvalidHierarchy, "bone %d (%q) has parent %d", i, b.Name, b.ParentIndex)
		}
		if _, dup := s.nameToIndex[b.Name]; dup {
			return nil, errors.Wrapf(ErrInvalidHierarchy, "duplicate bone name %q", b.Name)
		}
		s.nameToIndex[b.Name] = i
		s.names[i] = b.Name
	}
	return s, nil
}

// NumBones returns the number of bones.
func (s *Skeleton) NumBones() int {
	return len(s.bones)
}

// Bone returns the bone at index i.
func (s *Skeleton) Bone(i int) Bone {
	return s.bones[i]
}

// BoneIndex returns the index of the bone named name, or -1.
func (s *Skeleton) BoneIndex(name string) int {
	if i, ok := s.nameToIndex[name]; ok {
		return i
	}
	return -1
}

// MapBones fills out with the curve indices of set animating each bone, in declaration order.
// Bones set does not animate get -1 in every channel.
//
// Parameters:
//   - set: the curve set to map
//   - out: destination, at least NumBones() entries
func (s *Skeleton) MapBones(set *curve.Set, out []curve.Mapping) {
	set.MapNames(s.names, out)
}

// BindPose returns the rest transform of bone i.
func (s *Skeleton) BindPose(i int) Transform {
	return s.bones[i].Local
}

// SkinningMatrices writes world * inverseBindPose for each bone into out, which must hold at
// least NumBones matrices.
//
// Parameters:
//   - pose: a pose previously filled by one of the GetPose methods
//   - out: destination matrices
func (s *Skeleton) SkinningMatrices(pose *SkeletonPose, out []mgl32.Mat4) {
	for i := range s.bones {
		out[i] = pose.Matrices[i].Mul4(s.bones[i].InverseBindPose)
	}
}
