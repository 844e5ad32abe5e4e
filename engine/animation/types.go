package animation

import (
	"github.com/Carmen-Shannon/oxy-anim/engine/clip"
	"github.com/Carmen-Shannon/oxy-anim/engine/skeleton"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// ErrInvalidParameters is returned when a blend call receives arguments it cannot use.
var ErrInvalidParameters = errors.New("animation: invalid parameters")

// WrapMode selects what happens when playback runs past either end of a clip.
type WrapMode uint8

const (
	// WrapLoop wraps time back into the clip.
	WrapLoop WrapMode = iota
	// WrapClamp holds the first or last frame.
	WrapClamp
)

func (m WrapMode) String() string {
	if m == WrapClamp {
		return "clamp"
	}
	return "loop"
}

// ClipState is the high-level playback state of one playing clip.
type ClipState struct {
	// Layer is the layer the clip plays on; 0 is the main layer.
	Layer uint32

	// Time is the unwrapped playback time in seconds.
	Time float32

	// Speed multiplies elapsed time; negative values play backwards.
	Speed float32

	// Weight is the blend weight in [0, 1].
	Weight float32

	// WrapMode selects looping or clamping.
	WrapMode WrapMode
}

// fadeNone, fadeIn and fadeOut are the values of PlayingClipInfo.FadeDirection.
const (
	fadeOut  int8 = -1
	fadeNone int8 = 0
	fadeIn   int8 = 1
)

// invalidIndex marks PlayingClipInfo cache fields that no published layout backs.
const invalidIndex = ^uint32(0)

// PlayingClipInfo is the owning thread's record of a playing clip.
//
// CurveVersion, LayerIdx and StateIdx are written back by the last proxy rebuild. They are
// a cache: when the clip's version no longer matches CurveVersion the layout is stale.
type PlayingClipInfo struct {
	Clip  clip.Clip
	State ClipState

	FadeDirection int8
	FadeTime      float32
	FadeLength    float32

	CurveVersion uint64
	LayerIdx     uint32
	StateIdx     uint32

	fadeFrom float32
	fadeTo   float32
	seeked   bool

	// seqSlot is the sequence entry index + 1 for clips placed by a sequential blend.
	seqSlot int
}

func (p *PlayingClipInfo) startFade(target, length float32) {
	p.fadeFrom = p.State.Weight
	p.fadeTo = target
	p.FadeTime = 0
	p.FadeLength = length
	switch {
	case target > p.State.Weight:
		p.FadeDirection = fadeIn
	case target < p.State.Weight:
		p.FadeDirection = fadeOut
	default:
		p.FadeDirection = fadeNone
	}
}

// Blend1DInfo names the two clips of a one-dimensional blend.
type Blend1DInfo struct {
	LeftClip  clip.Clip
	RightClip clip.Clip
}

// Blend2DInfo names the four corner clips of a two-dimensional blend.
type Blend2DInfo struct {
	TopLeftClip     clip.Clip
	TopRightClip    clip.Clip
	BottomLeftClip  clip.Clip
	BottomRightClip clip.Clip
}

// SequentialEntry is one clip of a sequential blend.
type SequentialEntry struct {
	Clip clip.Clip

	// FadeLength is how long the clip fades in over the previous one.
	FadeLength float32

	// Duration is how long the clip plays, fade included. Zero uses the clip length.
	Duration float32
}

// BlendSequentialInfo lists clips that play back to back.
type BlendSequentialInfo struct {
	Clips []SequentialEntry
}

// SceneObject is a scene-graph node whose local transform can be driven by animation.
type SceneObject interface {
	LocalTransform() skeleton.Transform
	SetLocalTransform(t skeleton.Transform)
}

// FiredEvent is a clip event crossed during an update.
type FiredEvent struct {
	Clip  clip.Clip
	Event clip.Event
}

// EventHandler receives clip events on the owning thread.
type EventHandler func(a Animation, ev FiredEvent)

// Registrar assigns animation IDs and tracks live animations.
type Registrar interface {
	// RegisterAnimation records a and returns its ID (never 0).
	RegisterAnimation(a Animation) uint64

	// UnregisterAnimation forgets the animation with the given ID.
	UnregisterAnimation(id uint64)
}

func blend2DWeights(t mgl32.Vec2) (tl, tr, bl, br float32) {
	tx, ty := t[0], t[1]
	return (1 - tx) * (1 - ty), tx * (1 - ty), (1 - tx) * ty, tx * ty
}
