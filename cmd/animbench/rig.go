package main

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-anim/engine/clip"
	"github.com/Carmen-Shannon/oxy-anim/engine/curve"
	"github.com/Carmen-Shannon/oxy-anim/engine/skeleton"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// rig is a synthetic skeleton with the clips the bench plays on it.
type rig struct {
	skel *skeleton.Skeleton
	walk clip.Clip
	run  clip.Clip
	wave clip.Clip
}

// buildRig creates a binary-tree skeleton of n bones, each one unit above its parent, plus a
// walk and run cycle over every bone and an additive wave over the last quarter of the tree.
func buildRig(n int) (*rig, error) {
	if n < 1 {
		return nil, errors.Errorf("rig needs at least one bone, got %d", n)
	}

	bones := make([]skeleton.Bone, n)
	world := make([]mgl32.Mat4, n)
	for i := range bones {
		parent := int32(-1)
		local := skeleton.IdentityTransform()
		w := mgl32.Ident4()
		if i > 0 {
			parent = int32((i - 1) / 2)
			local.Position = mgl32.Vec3{0, 1, 0}
			w = world[parent].Mul4(mgl32.Translate3D(0, 1, 0))
		}
		world[i] = w
		bones[i] = skeleton.Bone{
			Name:            boneName(i),
			ParentIndex:     parent,
			InverseBindPose: w.Inv(),
			Local:           local,
		}
	}

	skel, err := skeleton.NewSkeleton(bones)
	if err != nil {
		return nil, errors.Wrap(err, "build rig")
	}

	return &rig{
		skel: skel,
		walk: swingClip("walk", n, 0, n, 1.0, 20, nil),
		run:  swingClip("run", n, 0, n, 0.6, 35, nil),
		wave: swingClip("wave", n, n-max(n/4, 1), n, 0.8, 15, []clip.Event{{Name: "wave", Time: 0.4}},
			clip.WithAdditive(true)),
	}, nil
}

func boneName(i int) string {
	return fmt.Sprintf("bone%03d", i)
}

// swingClip rotates bones [from, to) back and forth around Z by degrees over length seconds,
// and drives a "blend" generic curve from 0 to 1.
func swingClip(name string, n, from, to int, length, degrees float32, events []clip.Event, opts ...clip.ClipBuilderOption) clip.Clip {
	axis := mgl32.Vec3{0, 0, 1}
	swing := mgl32.DegToRad(degrees)

	set := &curve.Set{
		Generic: []curve.Named[float32]{{
			Name:  "blend",
			Curve: curve.NewFloat([]curve.Keyframe[float32]{{Time: 0, Value: 0}, {Time: length, Value: 1}}, curve.InterpolationLinear),
		}},
	}
	for i := from; i < to && i < n; i++ {
		set.Rotation = append(set.Rotation, curve.Named[mgl32.Quat]{
			Name: boneName(i),
			Curve: curve.NewQuat([]curve.Keyframe[mgl32.Quat]{
				{Time: 0, Value: mgl32.QuatRotate(-swing, axis)},
				{Time: length / 2, Value: mgl32.QuatRotate(swing, axis)},
				{Time: length, Value: mgl32.QuatRotate(-swing, axis)},
			}, curve.InterpolationLinear),
		})
	}

	all := append([]clip.ClipBuilderOption{clip.WithCurves(set), clip.WithLength(length), clip.WithEvents(events...)}, opts...)
	return clip.NewClip(name, all...)
}
