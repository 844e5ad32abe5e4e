// Package animation implements the owning-thread Animation object and the AnimationProxy
// snapshot it publishes for evaluation on a worker.
package animation

import (
	"slices"

	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/Carmen-Shannon/oxy-anim/engine/clip"
	"github.com/Carmen-Shannon/oxy-anim/engine/skeleton"
	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl32"
)

// animation is the implementation of the Animation interface.
type animation struct {
	id        uint64
	registrar Registrar
	handler   EventHandler

	skel     *skeleton.Skeleton
	mask     *skeleton.Mask
	wrapMode WrapMode
	speed    float32

	dirty dirtyState
	clips []PlayingClipInfo
	proxy *AnimationProxy

	sequence   *sequence
	blendClips []clip.Clip

	scene     []sceneMapping
	events    []FiredEvent
	destroyed bool
}

// Animation plays clips on a skeleton (or directly on named curves) and keeps an
// AnimationProxy in sync for evaluation.
//
// All methods are meant for the owning thread. Mutating calls only record what changed; the
// proxy is refreshed once per tick by UpdateAnimProxy, which picks the cheapest refresh that
// covers every change since the previous tick: a time update, a value update, a layout
// rebuild or a full rebuild.
type Animation interface {
	// ID returns the ID assigned by the registrar, or 0 when unregistered.
	//
	// Returns:
	//   - uint64: the animation ID
	ID() uint64

	// SetSkeleton replaces the skeleton. The proxy is fully rebuilt on the next update.
	//
	// Parameters:
	//   - skel: the new skeleton, or nil to sample curves without one
	SetSkeleton(skel *skeleton.Skeleton)

	// Skeleton returns the current skeleton.
	//
	// Returns:
	//   - *skeleton.Skeleton: the skeleton, or nil
	Skeleton() *skeleton.Skeleton

	// SetMask sets the bone mask. The mask is copied; later edits need another SetMask.
	//
	// Parameters:
	//   - mask: the mask, or nil to animate every bone
	SetMask(mask *skeleton.Mask)

	// SetWrapMode sets the default wrap mode and applies it to every playing clip.
	//
	// Parameters:
	//   - mode: the wrap mode
	SetWrapMode(mode WrapMode)

	// WrapMode returns the default wrap mode.
	//
	// Returns:
	//   - WrapMode: the wrap mode new clips start with
	WrapMode() WrapMode

	// SetSpeed sets the default speed and applies it to every playing clip.
	//
	// Parameters:
	//   - speed: the playback speed multiplier; negative plays backwards
	SetSpeed(speed float32)

	// Speed returns the default speed.
	//
	// Returns:
	//   - float32: the speed new clips start with
	Speed() float32

	// Play replaces the main layer with c at full weight, starting from time 0.
	// Playing a clip that is already on the main layer restarts it.
	//
	// Parameters:
	//   - c: the clip to play
	Play(c clip.Clip)

	// BlendAdditive adds c to an additive layer, or updates its weight if it is already
	// playing there. With fadeLength > 0 the weight ramps from its current value.
	//
	// Parameters:
	//   - c: the clip to blend
	//   - weight: the target weight; clamped to [0, 1]
	//   - fadeLength: the ramp duration in seconds; 0 applies the weight immediately
	//   - layer: the layer to play on; must not be 0
	//
	// Returns:
	//   - error: ErrInvalidParameters (wrapped) for layer 0, a nil clip or a NaN argument
	BlendAdditive(c clip.Clip, weight, fadeLength float32, layer uint32) error

	// BlendSequential plays the listed clips back to back on the main layer, each fading in
	// over the previous one. The last clip keeps playing after the sequence ends.
	//
	// Parameters:
	//   - info: the clips in playback order
	//
	// Returns:
	//   - error: ErrInvalidParameters (wrapped) for an empty list or a nil clip
	BlendSequential(info BlendSequentialInfo) error

	// Blend1D weights two clips on the main layer by t: 1-t for the left clip, t for the right.
	//
	// Parameters:
	//   - info: the two clips
	//   - t: the blend parameter; clamped to [0, 1]
	//
	// Returns:
	//   - error: ErrInvalidParameters (wrapped) for a nil clip or a NaN parameter
	Blend1D(info Blend1DInfo, t float32) error

	// Blend2D weights four corner clips on the main layer bilinearly by t.
	//
	// Parameters:
	//   - info: the four corner clips
	//   - t: the blend parameters; each component clamped to [0, 1]
	//
	// Returns:
	//   - error: ErrInvalidParameters (wrapped) for a nil clip or a NaN parameter
	Blend2D(info Blend2DInfo, t mgl32.Vec2) error

	// CrossFade fades c in on the main layer while every other main-layer clip fades out.
	// Clips that finish fading out are removed.
	//
	// Parameters:
	//   - c: the clip to fade in
	//   - fadeLength: the fade duration in seconds; 0 behaves like Play
	CrossFade(c clip.Clip, fadeLength float32)

	// Sample replaces the main layer with c frozen at time.
	//
	// Parameters:
	//   - c: the clip to sample
	//   - time: the sample time in seconds
	Sample(c clip.Clip, time float32)

	// Stop removes every clip on the given layer.
	//
	// Parameters:
	//   - layer: the layer to clear
	Stop(layer uint32)

	// StopAll removes every playing clip.
	StopAll()

	// IsPlaying reports whether any clip is playing.
	//
	// Returns:
	//   - bool: true if at least one clip is playing
	IsPlaying() bool

	// NumClips returns the number of playing clips.
	//
	// Returns:
	//   - int: the number of playing clips
	NumClips() int

	// Clip returns the i-th playing clip.
	//
	// Parameters:
	//   - i: the index, in play order
	//
	// Returns:
	//   - clip.Clip: the clip, or nil when i is out of range
	Clip(i int) clip.Clip

	// State returns the playback state of c.
	//
	// Parameters:
	//   - c: the clip to query
	//
	// Returns:
	//   - ClipState: the state
	//   - bool: false when c is not playing
	State(c clip.Clip) (ClipState, bool)

	// SetState overwrites the playback state of c. Changing Time counts as a seek.
	//
	// Parameters:
	//   - c: the clip to update
	//   - state: the new state; Weight is clamped to [0, 1]
	//
	// Returns:
	//   - bool: false, with nothing changed, when c is not playing
	SetState(c clip.Clip, state ClipState) bool

	// MapCurveToSceneObject drives obj from the bone or curves named name.
	//
	// Parameters:
	//   - name: a bone name or a transform curve name
	//   - obj: the scene object to drive
	MapCurveToSceneObject(name string, obj SceneObject)

	// UnmapSceneObject stops driving obj.
	//
	// Parameters:
	//   - obj: the scene object to release
	UnmapSceneObject(obj SceneObject)

	// UpdateAnimProxy advances playback by timeDelta and refreshes the proxy.
	// Called by the animation manager once per tick, before evaluation.
	//
	// Parameters:
	//   - timeDelta: elapsed time in seconds
	UpdateAnimProxy(timeDelta float32)

	// Proxy returns the evaluation snapshot.
	//
	// Returns:
	//   - *AnimationProxy: the proxy
	Proxy() *AnimationProxy

	// LocalPose returns the local pose of the last evaluation.
	//
	// Returns:
	//   - *skeleton.LocalSkeletonPose: the pose, or nil before the first update
	LocalPose() *skeleton.LocalSkeletonPose

	// Pose returns the model-space pose of the last evaluation.
	//
	// Returns:
	//   - *skeleton.SkeletonPose: the pose, or nil without a skeleton
	Pose() *skeleton.SkeletonPose

	// GenericCurveValue returns the evaluated value of a generic curve.
	//
	// Parameters:
	//   - name: the generic curve name
	//
	// Returns:
	//   - float32: the blended value
	//   - bool: false when no playing clip with positive weight has that curve
	GenericCurveValue(name string) (float32, bool)

	// UpdateFromProxy applies the last evaluation to mapped scene objects and delivers
	// queued clip events. Called by the animation manager after evaluation completes.
	UpdateFromProxy()

	// Destroy unregisters the animation and releases its proxy.
	Destroy()
}

var _ Animation = &animation{}

// NewAnimation creates a new Animation and registers it when a Registrar is given.
//
// Parameters:
//   - options: functional options applied in order
//
// Returns:
//   - Animation: the new animation
func NewAnimation(options ...AnimationBuilderOption) Animation {
	a := &animation{
		wrapMode: WrapLoop,
		speed:    1,
		dirty:    dirtySkeleton,
	}
	for _, opt := range options {
		opt(a)
	}
	if a.registrar != nil {
		a.id = a.registrar.RegisterAnimation(a)
	}
	a.proxy = newAnimationProxy(a.id)
	return a
}

func (a *animation) ID() uint64 {
	return a.id
}

func (a *animation) SetSkeleton(skel *skeleton.Skeleton) {
	a.skel = skel
	a.dirty.raise(dirtySkeleton)
}

func (a *animation) Skeleton() *skeleton.Skeleton {
	return a.skel
}

func (a *animation) SetMask(mask *skeleton.Mask) {
	a.mask = mask.Clone()
	a.dirty.raise(dirtyLayout)
}

func (a *animation) SetWrapMode(mode WrapMode) {
	a.wrapMode = mode
	for i := range a.clips {
		a.clips[i].State.WrapMode = mode
	}
	a.dirty.raise(dirtyValue)
}

func (a *animation) WrapMode() WrapMode {
	return a.wrapMode
}

func (a *animation) SetSpeed(speed float32) {
	a.speed = speed
	for i := range a.clips {
		a.clips[i].State.Speed = speed
	}
	a.dirty.raise(dirtyValue)
}

func (a *animation) Speed() float32 {
	return a.speed
}

func (a *animation) Play(c clip.Clip) {
	if c == nil {
		log.Warn("animation: Play called with a nil clip", "id", a.id)
		return
	}
	a.resetMainLayerModes()
	a.replaceMainLayer([]clip.Clip{c}, []float32{1})
}

func (a *animation) Sample(c clip.Clip, time float32) {
	if c == nil {
		log.Warn("animation: Sample called with a nil clip", "id", a.id)
		return
	}
	a.resetMainLayerModes()
	a.replaceMainLayer([]clip.Clip{c}, []float32{1})
	info := &a.clips[len(a.clips)-1]
	info.State.Time = time
	info.State.Speed = 0
	info.seeked = true
}

func (a *animation) Stop(layer uint32) {
	if layer == 0 {
		a.resetMainLayerModes()
	}
	a.clips = slices.DeleteFunc(a.clips, func(p PlayingClipInfo) bool {
		return p.State.Layer == layer
	})
	a.dirty.raise(dirtyLayout)
}

func (a *animation) StopAll() {
	a.resetMainLayerModes()
	a.clips = a.clips[:0]
	a.dirty.raise(dirtyLayout)
}

func (a *animation) IsPlaying() bool {
	return len(a.clips) > 0
}

func (a *animation) NumClips() int {
	return len(a.clips)
}

func (a *animation) Clip(i int) clip.Clip {
	if i < 0 || i >= len(a.clips) {
		return nil
	}
	return a.clips[i].Clip
}

func (a *animation) State(c clip.Clip) (ClipState, bool) {
	if i := a.find(c); i >= 0 {
		return a.clips[i].State, true
	}
	return ClipState{}, false
}

func (a *animation) SetState(c clip.Clip, state ClipState) bool {
	i := a.find(c)
	if i < 0 {
		return false
	}
	info := &a.clips[i]
	state.Weight = common.Saturate(state.Weight)

	if state.Layer != info.State.Layer {
		a.dirty.raise(dirtyLayout)
	} else {
		a.dirty.raise(dirtyValue)
	}
	if state.Time != info.State.Time {
		info.seeked = true
	}
	info.State = state
	info.FadeDirection = fadeNone
	return true
}

func (a *animation) Proxy() *AnimationProxy {
	return a.proxy
}

func (a *animation) LocalPose() *skeleton.LocalSkeletonPose {
	return a.proxy.LocalPose()
}

func (a *animation) Pose() *skeleton.SkeletonPose {
	return a.proxy.Pose()
}

func (a *animation) GenericCurveValue(name string) (float32, bool) {
	return a.proxy.GenericValue(name)
}

func (a *animation) UpdateFromProxy() {
	if a.destroyed {
		return
	}
	a.applySceneObjects()

	events := a.events
	a.events = nil
	if a.handler == nil {
		return
	}
	for _, ev := range events {
		a.handler(a, ev)
	}
}

func (a *animation) Destroy() {
	if a.destroyed {
		return
	}
	a.destroyed = true
	if a.registrar != nil {
		a.registrar.UnregisterAnimation(a.id)
	}
	a.proxy.release()
	a.clips = nil
	a.scene = nil
	a.events = nil
}

// find returns the index of the first playing record of c, or -1.
func (a *animation) find(c clip.Clip) int {
	if c == nil {
		return -1
	}
	return slices.IndexFunc(a.clips, func(p PlayingClipInfo) bool { return p.Clip == c })
}

// newClipInfo returns a fresh record for c on layer with the default speed and wrap mode.
func (a *animation) newClipInfo(c clip.Clip, layer uint32, weight float32) PlayingClipInfo {
	return PlayingClipInfo{
		Clip: c,
		State: ClipState{
			Layer:    layer,
			Speed:    a.speed,
			Weight:   weight,
			WrapMode: a.wrapMode,
		},
		LayerIdx: invalidIndex,
		StateIdx: invalidIndex,
	}
}

// replaceMainLayer removes every main-layer clip and plays clips with the given weights.
func (a *animation) replaceMainLayer(clips []clip.Clip, weights []float32) {
	a.clips = slices.DeleteFunc(a.clips, func(p PlayingClipInfo) bool {
		return p.State.Layer == 0
	})
	for i, c := range clips {
		a.clips = append(a.clips, a.newClipInfo(c, 0, weights[i]))
	}
	a.dirty.raise(dirtyLayout)
}

// resetMainLayerModes ends any sequential or parametric blend driving the main layer.
func (a *animation) resetMainLayerModes() {
	a.sequence = nil
	a.blendClips = nil
}
