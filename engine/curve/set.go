package curve

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Named pairs a curve with the name it animates. For transform curves the name is the bone
// (or scene object) name; for generic curves it is the property name.
type Named[T any] struct {
	Name  string
	Curve *Curve[T]
}

// Set is the group of curves a clip exposes. A published Set is never mutated; a clip swaps in
// a new Set instead.
type Set struct {
	Position []Named[mgl32.Vec3]
	Rotation []Named[mgl32.Quat]
	Scale    []Named[mgl32.Vec3]
	Generic  []Named[float32]
}

// Counts holds the number of curves of each kind in a Set.
type Counts struct {
	Position, Rotation, Scale, Generic int
}

// Add returns the element-wise sum of two Counts.
func (c Counts) Add(o Counts) Counts {
	return Counts{
		Position: c.Position + o.Position,
		Rotation: c.Rotation + o.Rotation,
		Scale:    c.Scale + o.Scale,
		Generic:  c.Generic + o.Generic,
	}
}

// Total returns the number of curves of all kinds.
func (c Counts) Total() int {
	return c.Position + c.Rotation + c.Scale + c.Generic
}

// Counts returns the number of curves of each kind. A nil Set has no curves.
func (s *Set) Counts() Counts {
	if s == nil {
		return Counts{}
	}
	return Counts{
		Position: len(s.Position),
		Rotation: len(s.Rotation),
		Scale:    len(s.Scale),
		Generic:  len(s.Generic),
	}
}

// Length returns the time of the latest key across all curves.
func (s *Set) Length() float32 {
	if s == nil {
		return 0
	}
	var end float32
	for _, c := range s.Position {
		end = max(end, c.Curve.End())
	}
	for _, c := range s.Rotation {
		end = max(end, c.Curve.End())
	}
	for _, c := range s.Scale {
		end = max(end, c.Curve.End())
	}
	for _, c := range s.Generic {
		end = max(end, c.Curve.End())
	}
	return end
}

// FindPosition returns the index of the position curve named name, or -1.
func (s *Set) FindPosition(name string) int {
	if s == nil {
		return -1
	}
	return indexOf(s.Position, name)
}

// FindRotation returns the index of the rotation curve named name, or -1.
func (s *Set) FindRotation(name string) int {
	if s == nil {
		return -1
	}
	return indexOf(s.Rotation, name)
}

// FindScale returns the index of the scale curve named name, or -1.
func (s *Set) FindScale(name string) int {
	if s == nil {
		return -1
	}
	return indexOf(s.Scale, name)
}

// FindGeneric returns the index of the generic curve named name, or -1.
func (s *Set) FindGeneric(name string) int {
	if s == nil {
		return -1
	}
	return indexOf(s.Generic, name)
}

// Mapping returns the transform curve indices animating name.
func (s *Set) Mapping(name string) Mapping {
	return Mapping{
		Position: int32(s.FindPosition(name)),
		Rotation: int32(s.FindRotation(name)),
		Scale:    int32(s.FindScale(name)),
	}
}

// MapNames fills out[i] with the mapping for names[i]. out must be at least len(names) long.
func (s *Set) MapNames(names []string, out []Mapping) {
	for i, name := range names {
		out[i] = s.Mapping(name)
	}
}

func indexOf[T any](curves []Named[T], name string) int {
	for i := range curves {
		if curves[i].Name == name {
			return i
		}
	}
	return -1
}

// Mapping is the set of curve indices that animate one target. -1 means the clip has no curve
// for that channel and the target keeps its rest value.
type Mapping struct {
	Position, Rotation, Scale int32
}

// NoMapping returns a Mapping with no curves.
func NoMapping() Mapping {
	return Mapping{Position: -1, Rotation: -1, Scale: -1}
}

// Empty reports whether no channel is mapped.
func (m Mapping) Empty() bool {
	return m.Position < 0 && m.Rotation < 0 && m.Scale < 0
}
