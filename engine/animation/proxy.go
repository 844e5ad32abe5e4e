package animation

import (
	"slices"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-anim/engine/curve"
	"github.com/Carmen-Shannon/oxy-anim/engine/skeleton"
	"github.com/pkg/errors"
)

// errSizingInvariant is raised when a rebuild consumes a different amount of arena storage
// than it counted. It always indicates a bug in the layout accounting.
var errSizingInvariant = errors.New("animation: proxy arena sizing invariant violated")

// frameLayout counts every element a frame needs. The same counts size the arena and are
// checked against what population consumed.
type frameLayout struct {
	layers     int
	states     int
	mappings   int
	caches     int
	slots      int
	floats     int
	transforms int
	flags      int
}

// arena is the storage of one frame: one backing slice per element type, handed out in
// order by take.
type arena struct {
	layers     []skeleton.AnimationStateLayer
	states     []skeleton.AnimationState
	mappings   []curve.Mapping
	caches     []curve.Cache
	slots      []int32
	floats     []float32
	transforms []skeleton.Transform
	flags      []bool
}

func newArena(l frameLayout) *arena {
	return &arena{
		layers:     make([]skeleton.AnimationStateLayer, l.layers),
		states:     make([]skeleton.AnimationState, l.states),
		mappings:   make([]curve.Mapping, l.mappings),
		caches:     make([]curve.Cache, l.caches),
		slots:      make([]int32, l.slots),
		floats:     make([]float32, l.floats),
		transforms: make([]skeleton.Transform, l.transforms),
		flags:      make([]bool, l.flags),
	}
}

// take hands out the next n elements of buf.
func take[T any](buf *[]T, n int) []T {
	if n > len(*buf) {
		panic(errSizingInvariant)
	}
	s := (*buf)[:n:n]
	*buf = (*buf)[n:]
	return s
}

// drained panics unless every element of the arena was handed out.
func (a *arena) drained() {
	if len(a.layers) != 0 || len(a.states) != 0 || len(a.mappings) != 0 || len(a.caches) != 0 ||
		len(a.slots) != 0 || len(a.floats) != 0 || len(a.transforms) != 0 || len(a.flags) != 0 {
		panic(errSizingInvariant)
	}
}

// objectTarget is a scene object as seen by the evaluator.
type objectTarget struct {
	bone   int
	object int
	rest   skeleton.Transform
}

// frame is one published snapshot of evaluation state. A frame is replaced wholesale on
// rebuild; value and time updates write into the current frame.
type frame struct {
	skel      *skeleton.Skeleton
	mask      *skeleton.Mask
	layers    []skeleton.AnimationStateLayer
	localPose *skeleton.LocalSkeletonPose
	pose      *skeleton.SkeletonPose

	genericIndex   map[string]int
	genericOutputs []float32
	genericWeights []float32

	objects        []objectTarget
	objectPoses    []skeleton.Transform
	objectOverride []bool
}

// Stats counts the work an AnimationProxy has done.
type Stats struct {
	SkeletonRebuilds uint64
	LayoutRebuilds   uint64
	ValueUpdates     uint64
	TimeUpdates      uint64
	Evaluations      uint64
}

// AnimationProxy is the evaluation-side snapshot of an Animation. The owning thread
// publishes frames; the evaluation worker reads the current frame and writes its outputs.
// The two never run at the same time on one proxy.
type AnimationProxy struct {
	id    uint64
	frame atomic.Pointer[frame]

	skeletonRebuilds atomic.Uint64
	layoutRebuilds   atomic.Uint64
	valueUpdates     atomic.Uint64
	timeUpdates      atomic.Uint64
	evaluations      atomic.Uint64
}

func newAnimationProxy(id uint64) *AnimationProxy {
	return &AnimationProxy{id: id}
}

// buildInput is everything a rebuild reads from the owning Animation.
type buildInput struct {
	skel    *skeleton.Skeleton
	mask    *skeleton.Mask
	clips   []PlayingClipInfo
	objects []sceneMapping
}

// ID returns the ID of the owning Animation.
func (p *AnimationProxy) ID() uint64 {
	return p.id
}

// rebuildSkeleton rebuilds the frame with freshly sized pose storage.
func (p *AnimationProxy) rebuildSkeleton(in buildInput) error {
	if err := p.build(in, nil); err != nil {
		return err
	}
	p.skeletonRebuilds.Add(1)
	return nil
}

// rebuildLayout rebuilds the frame, reusing the current pose storage when it still fits.
func (p *AnimationProxy) rebuildLayout(in buildInput) error {
	if err := p.build(in, p.frame.Load()); err != nil {
		return err
	}
	p.layoutRebuilds.Add(1)
	return nil
}

func (p *AnimationProxy) build(in buildInput, prev *frame) error {
	sets := make([]*curve.Set, len(in.clips))
	versions := make([]uint64, len(in.clips))
	for i := range in.clips {
		c := in.clips[i].Clip
		if c == nil {
			return errors.Wrapf(ErrInvalidParameters, "playing clip %d has no clip", i)
		}
		// Version is read first so a concurrent reload leaves the layout marked stale.
		versions[i] = c.Version()
		sets[i] = c.Curves()
	}

	indices := make([]uint32, 0, len(in.clips))
	for i := range in.clips {
		indices = append(indices, in.clips[i].State.Layer)
	}
	slices.Sort(indices)
	indices = slices.Compact(indices)

	genericIndex := make(map[string]int)
	var counts curve.Counts
	for _, set := range sets {
		counts = counts.Add(set.Counts())
		for _, g := range set.Generic {
			if _, ok := genericIndex[g.Name]; !ok {
				genericIndex[g.Name] = len(genericIndex)
			}
		}
	}

	objects := make([]objectTarget, len(in.objects))
	numCurveObjects := 0
	for i, m := range in.objects {
		objects[i] = objectTarget{bone: -1, object: -1, rest: m.rest}
		if in.skel != nil {
			objects[i].bone = in.skel.BoneIndex(m.name)
		}
		if objects[i].bone < 0 {
			objects[i].object = numCurveObjects
			numCurveObjects++
		}
	}

	numBones := 0
	if in.skel != nil {
		numBones = in.skel.NumBones()
	}
	layout := frameLayout{
		layers:     len(indices),
		states:     len(in.clips),
		mappings:   (numBones + numCurveObjects) * len(in.clips),
		caches:     counts.Position + counts.Rotation + counts.Scale + counts.Generic,
		slots:      counts.Generic,
		floats:     2 * len(genericIndex),
		transforms: len(objects),
		flags:      len(objects),
	}
	a := newArena(layout)

	f := &frame{
		skel:         in.skel,
		mask:         in.mask,
		genericIndex: genericIndex,
		objects:      objects,
	}
	f.layers = take(&a.layers, layout.layers)

	perLayer := make([]int, len(indices))
	for i := range in.clips {
		li, _ := slices.BinarySearch(indices, in.clips[i].State.Layer)
		perLayer[li]++
	}
	states := take(&a.states, layout.states)
	off := 0
	for li, idx := range indices {
		f.layers[li] = skeleton.AnimationStateLayer{
			Index:    idx,
			Additive: idx != 0,
			States:   states[off : off+perLayer[li] : off+perLayer[li]],
		}
		off += perLayer[li]
	}

	filled := make([]int, len(indices))
	for i := range in.clips {
		info := &in.clips[i]
		set := sets[i]
		c := set.Counts()

		li, _ := slices.BinarySearch(indices, info.State.Layer)
		si := filled[li]
		filled[li]++

		st := &f.layers[li].States[si]
		*st = skeleton.AnimationState{
			Curves:         set,
			Weight:         info.State.Weight,
			Loop:           info.State.WrapMode == WrapLoop,
			Time:           info.State.Time,
			Length:         info.Clip.Length(),
			PositionCaches: take(&a.caches, c.Position),
			RotationCaches: take(&a.caches, c.Rotation),
			ScaleCaches:    take(&a.caches, c.Scale),
			GenericCaches:  take(&a.caches, c.Generic),
			GenericSlots:   take(&a.slots, c.Generic),
		}
		st.ResetCaches()

		if in.skel != nil {
			st.BoneMapping = take(&a.mappings, numBones)
			// Mapped from the set snapshot taken with versions[i], not Clip.BoneMapping, which
			// would reload the curves and could see a newer set.
			in.skel.MapBones(set, st.BoneMapping)
		}
		st.ObjectMapping = take(&a.mappings, numCurveObjects)
		for j, m := range in.objects {
			if objects[j].object >= 0 {
				st.ObjectMapping[objects[j].object] = set.Mapping(m.name)
			}
		}
		for g, named := range set.Generic {
			st.GenericSlots[g] = int32(genericIndex[named.Name])
		}

		info.LayerIdx = uint32(li)
		info.StateIdx = uint32(si)
		info.CurveVersion = versions[i]
	}

	f.genericOutputs = take(&a.floats, len(genericIndex))
	f.genericWeights = take(&a.floats, len(genericIndex))
	f.objectPoses = take(&a.transforms, len(objects))
	f.objectOverride = take(&a.flags, len(objects))
	for i := range f.objects {
		f.objectPoses[i] = f.objects[i].rest
	}
	a.drained()

	f.localPose, f.pose = sizePoses(in.skel, counts, prev)
	p.frame.Store(f)
	return nil
}

// sizePoses returns pose storage for the frame: one entry per bone with a skeleton, or one
// entry per transform curve without one. Storage from prev is reused when it fits exactly.
func sizePoses(skel *skeleton.Skeleton, counts curve.Counts, prev *frame) (*skeleton.LocalSkeletonPose, *skeleton.SkeletonPose) {
	if skel == nil {
		if prev != nil && prev.skel == nil && prev.localPose != nil &&
			len(prev.localPose.Positions) == counts.Position &&
			len(prev.localPose.Rotations) == counts.Rotation &&
			len(prev.localPose.Scales) == counts.Scale {
			return prev.localPose, nil
		}
		return skeleton.NewLocalSkeletonPose(counts.Position, counts.Rotation, counts.Scale), nil
	}

	n := skel.NumBones()
	if prev != nil && prev.skel == skel && prev.localPose != nil && prev.pose != nil {
		return prev.localPose, prev.pose
	}
	return skeleton.NewLocalSkeletonPose(n, n, n), skeleton.NewSkeletonPose(n)
}

// stateFor returns the published state backing info, or nil when the cached indices no
// longer address a state.
func (f *frame) stateFor(info *PlayingClipInfo) *skeleton.AnimationState {
	if int(info.LayerIdx) >= len(f.layers) {
		return nil
	}
	states := f.layers[info.LayerIdx].States
	if int(info.StateIdx) >= len(states) {
		return nil
	}
	return &states[info.StateIdx]
}

// updateValues overwrites weight, loop and time of every state in place. States whose clip
// was seeked get their curve caches reset.
func (p *AnimationProxy) updateValues(clips []PlayingClipInfo) {
	f := p.frame.Load()
	if f == nil {
		return
	}
	for i := range clips {
		st := f.stateFor(&clips[i])
		if st == nil {
			continue
		}
		st.Weight = clips[i].State.Weight
		st.Loop = clips[i].State.WrapMode == WrapLoop
		st.Time = clips[i].State.Time
		if clips[i].seeked {
			st.ResetCaches()
		}
	}
	p.valueUpdates.Add(1)
}

// updateTime overwrites the time of every state in place.
func (p *AnimationProxy) updateTime(clips []PlayingClipInfo) {
	f := p.frame.Load()
	if f == nil {
		return
	}
	for i := range clips {
		if st := f.stateFor(&clips[i]); st != nil {
			st.Time = clips[i].State.Time
		}
	}
	p.timeUpdates.Add(1)
}

// Evaluate samples the current frame: the local and model-space pose, generic curve outputs
// and scene-object transforms. It runs on the evaluation worker.
func (p *AnimationProxy) Evaluate() {
	f := p.frame.Load()
	if f == nil {
		return
	}

	if f.skel != nil {
		f.skel.GetPoseLayers(f.pose, f.localPose, f.layers, f.mask)
	} else {
		skeleton.SampleCurves(f.localPose, f.layers)
	}
	f.evaluateGeneric()
	f.evaluateObjects()

	p.evaluations.Add(1)
}

func (f *frame) evaluateGeneric() {
	if len(f.genericOutputs) == 0 {
		return
	}
	clear(f.genericOutputs)
	clear(f.genericWeights)

	f.eachGeneric(false, func(slot int32, w, v float32) {
		f.genericOutputs[slot] += w * v
		f.genericWeights[slot] += w
	})
	for i, w := range f.genericWeights {
		if w > 0 {
			f.genericOutputs[i] /= w
		}
	}
	// genericWeights doubles as the contribution flag read by GenericValue
	f.eachGeneric(true, func(slot int32, w, v float32) {
		f.genericOutputs[slot] += w * v
		f.genericWeights[slot] += w
	})
}

func (f *frame) eachGeneric(additive bool, fn func(slot int32, w, v float32)) {
	for li := range f.layers {
		layer := &f.layers[li]
		if layer.Additive != additive {
			continue
		}
		for si := range layer.States {
			st := &layer.States[si]
			if st.Weight <= 0 || len(st.GenericSlots) == 0 {
				continue
			}
			t := st.SampleTime()
			for g, slot := range st.GenericSlots {
				fn(slot, st.Weight, st.SampleGeneric(int32(g), t))
			}
		}
	}
}

func (f *frame) evaluateObjects() {
	for i := range f.objects {
		o := &f.objects[i]
		if o.bone >= 0 {
			if f.localPose.HasOverride[o.bone] {
				f.objectPoses[i] = f.localPose.Transform(o.bone)
				f.objectOverride[i] = true
			} else {
				f.objectPoses[i], f.objectOverride[i] = o.rest, false
			}
			continue
		}
		f.objectPoses[i], f.objectOverride[i] = skeleton.BlendTargets(f.layers, o.object, skeleton.ObjectMappings, o.rest)
	}
}

// Layers returns the layers of the current frame, sorted ascending by index.
func (p *AnimationProxy) Layers() []skeleton.AnimationStateLayer {
	if f := p.frame.Load(); f != nil {
		return f.layers
	}
	return nil
}

// NumLayers returns the number of materialized layers.
func (p *AnimationProxy) NumLayers() int {
	return len(p.Layers())
}

// LocalPose returns the local pose written by the last evaluation.
func (p *AnimationProxy) LocalPose() *skeleton.LocalSkeletonPose {
	if f := p.frame.Load(); f != nil {
		return f.localPose
	}
	return nil
}

// Pose returns the model-space pose written by the last evaluation, or nil without a skeleton.
func (p *AnimationProxy) Pose() *skeleton.SkeletonPose {
	if f := p.frame.Load(); f != nil {
		return f.pose
	}
	return nil
}

// GenericValue returns the evaluated value of the generic curve named name. It reports false
// when no state with positive weight carried the curve in the last evaluation.
func (p *AnimationProxy) GenericValue(name string) (float32, bool) {
	f := p.frame.Load()
	if f == nil {
		return 0, false
	}
	i, ok := f.genericIndex[name]
	if !ok || f.genericWeights[i] <= 0 {
		return 0, false
	}
	return f.genericOutputs[i], true
}

// Stats returns a snapshot of the proxy's work counters.
func (p *AnimationProxy) Stats() Stats {
	return Stats{
		SkeletonRebuilds: p.skeletonRebuilds.Load(),
		LayoutRebuilds:   p.layoutRebuilds.Load(),
		ValueUpdates:     p.valueUpdates.Load(),
		TimeUpdates:      p.timeUpdates.Load(),
		Evaluations:      p.evaluations.Load(),
	}
}

func (p *AnimationProxy) release() {
	p.frame.Store(nil)
}
