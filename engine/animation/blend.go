package animation

import (
	"slices"

	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/Carmen-Shannon/oxy-anim/engine/clip"
	"github.com/charmbracelet/log"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

func (a *animation) BlendAdditive(c clip.Clip, weight, fadeLength float32, layer uint32) error {
	switch {
	case c == nil:
		return errors.Wrap(ErrInvalidParameters, "additive blend needs a clip")
	case layer == 0:
		return errors.Wrapf(ErrInvalidParameters, "clip %q: layer 0 is the main layer, additive clips need a layer above it", c.Name())
	case math32.IsNaN(weight) || math32.IsNaN(fadeLength):
		return errors.Wrapf(ErrInvalidParameters, "clip %q: weight %v fade %v", c.Name(), weight, fadeLength)
	}
	if !c.IsAdditive() {
		log.Warn("animation: blending a clip that is not authored as additive", "id", a.id, "clip", c.Name(), "layer", layer)
	}
	weight = common.Saturate(weight)

	i := slices.IndexFunc(a.clips, func(p PlayingClipInfo) bool {
		return p.Clip == c && p.State.Layer == layer
	})
	if i < 0 {
		info := a.newClipInfo(c, layer, weight)
		if fadeLength > 0 {
			info.State.Weight = 0
			info.startFade(weight, fadeLength)
		}
		a.clips = append(a.clips, info)
		a.dirty.raise(dirtyLayout)
		return nil
	}

	info := &a.clips[i]
	if fadeLength > 0 {
		info.startFade(weight, fadeLength)
	} else {
		info.State.Weight = weight
		info.FadeDirection = fadeNone
	}
	a.dirty.raise(dirtyValue)
	return nil
}

func (a *animation) CrossFade(c clip.Clip, fadeLength float32) {
	if c == nil {
		log.Warn("animation: CrossFade called with a nil clip", "id", a.id)
		return
	}
	if !(fadeLength > 0) {
		a.Play(c)
		return
	}
	a.resetMainLayerModes()

	found := false
	for i := range a.clips {
		info := &a.clips[i]
		if info.State.Layer != 0 {
			continue
		}
		if info.Clip == c && !found {
			found = true
			info.startFade(1, fadeLength)
			continue
		}
		info.startFade(0, fadeLength)
		// A clip already at weight 0 still has to be removed once the fade window ends.
		info.FadeDirection = fadeOut
	}
	if !found {
		info := a.newClipInfo(c, 0, 0)
		info.startFade(1, fadeLength)
		a.clips = append(a.clips, info)
		a.dirty.raise(dirtyLayout)
	}
	a.dirty.raise(dirtyValue)
}

func (a *animation) Blend1D(info Blend1DInfo, t float32) error {
	if info.LeftClip == nil || info.RightClip == nil {
		return errors.Wrap(ErrInvalidParameters, "1D blend needs a left and a right clip")
	}
	if math32.IsNaN(t) {
		return errors.Wrap(ErrInvalidParameters, "1D blend parameter is NaN")
	}
	t = common.Saturate(t)
	a.setParametric(
		[]clip.Clip{info.LeftClip, info.RightClip},
		[]float32{1 - t, t},
	)
	return nil
}

func (a *animation) Blend2D(info Blend2DInfo, t mgl32.Vec2) error {
	if info.TopLeftClip == nil || info.TopRightClip == nil || info.BottomLeftClip == nil || info.BottomRightClip == nil {
		return errors.Wrap(ErrInvalidParameters, "2D blend needs four corner clips")
	}
	if math32.IsNaN(t[0]) || math32.IsNaN(t[1]) {
		return errors.Wrapf(ErrInvalidParameters, "2D blend parameter %v", t)
	}
	tl, tr, bl, br := blend2DWeights(mgl32.Vec2{common.Saturate(t[0]), common.Saturate(t[1])})
	a.setParametric(
		[]clip.Clip{info.TopLeftClip, info.TopRightClip, info.BottomLeftClip, info.BottomRightClip},
		[]float32{tl, tr, bl, br},
	)
	return nil
}

// setParametric makes the distinct clips of a parametric blend resident on the main layer
// and assigns their merged weights. The main layer is only rebuilt when the clip set changes.
func (a *animation) setParametric(clips []clip.Clip, weights []float32) {
	var distinct []clip.Clip
	merged := make([]float32, 0, len(clips))
	for i, c := range clips {
		if j := slices.Index(distinct, c); j >= 0 {
			merged[j] += weights[i]
			continue
		}
		distinct = append(distinct, c)
		merged = append(merged, weights[i])
	}

	if !slices.Equal(distinct, a.blendClips) || !a.mainLayerHolds(distinct) {
		a.resetMainLayerModes()
		a.replaceMainLayer(distinct, merged)
		a.blendClips = distinct
		return
	}

	for i := range a.clips {
		info := &a.clips[i]
		if info.State.Layer != 0 {
			continue
		}
		info.State.Weight = merged[slices.Index(distinct, info.Clip)]
	}
	a.dirty.raise(dirtyValue)
}

// mainLayerHolds reports whether the main layer plays exactly clips, in any order.
func (a *animation) mainLayerHolds(clips []clip.Clip) bool {
	n := 0
	for i := range a.clips {
		if a.clips[i].State.Layer != 0 {
			continue
		}
		if !slices.Contains(clips, a.clips[i].Clip) {
			return false
		}
		n++
	}
	return n == len(clips)
}

// sequenceEntry is one clip of a sequential blend placed on the sequence timeline.
// The clip is resident while start <= cursor < end.
type sequenceEntry struct {
	clip  clip.Clip
	start float32
	end   float32
	fade  float32
}

type sequence struct {
	entries []sequenceEntry
	cursor  float32
}

func (s *sequence) active(i int) bool {
	e := &s.entries[i]
	return s.cursor >= e.start && s.cursor < e.end
}

// weight ramps an entry in over its own fade and out over the next entry's fade.
func (s *sequence) weight(i int) float32 {
	e := &s.entries[i]
	w := float32(1)
	if e.fade > 0 && s.cursor < e.start+e.fade {
		w = (s.cursor - e.start) / e.fade
	}
	if i+1 < len(s.entries) {
		next := &s.entries[i+1]
		if next.fade > 0 && s.cursor >= next.start {
			w = min(w, 1-(s.cursor-next.start)/next.fade)
		}
	}
	return common.Saturate(w)
}

func (a *animation) BlendSequential(info BlendSequentialInfo) error {
	if len(info.Clips) == 0 {
		return errors.Wrap(ErrInvalidParameters, "sequential blend needs at least one clip")
	}
	s := &sequence{entries: make([]sequenceEntry, len(info.Clips))}
	var start, end float32
	for i, e := range info.Clips {
		if e.Clip == nil {
			return errors.Wrapf(ErrInvalidParameters, "sequential blend entry %d has no clip", i)
		}
		duration := e.Duration
		if !(duration > 0) {
			duration = e.Clip.Length()
		}
		fade := max(e.FadeLength, 0)
		if i > 0 {
			start = max(end-fade, start)
		}
		end = start + duration
		s.entries[i] = sequenceEntry{clip: e.Clip, start: start, end: end, fade: fade}
	}
	s.entries[len(s.entries)-1].end = math32.Inf(1)

	a.resetMainLayerModes()
	a.replaceMainLayer(nil, nil)
	a.sequence = s
	a.syncSequence()
	return nil
}

// syncSequence materializes the entries overlapping the cursor on the main layer, drops the
// ones the cursor has left and refreshes their weights.
func (a *animation) syncSequence() {
	s := a.sequence

	before := len(a.clips)
	a.clips = slices.DeleteFunc(a.clips, func(p PlayingClipInfo) bool {
		return p.seqSlot > 0 && !s.active(p.seqSlot-1)
	})
	if len(a.clips) != before {
		a.dirty.raise(dirtyLayout)
	}

	for i := range s.entries {
		if !s.active(i) || slices.ContainsFunc(a.clips, func(p PlayingClipInfo) bool { return p.seqSlot == i+1 }) {
			continue
		}
		info := a.newClipInfo(s.entries[i].clip, 0, 0)
		info.State.Time = (s.cursor - s.entries[i].start) * a.speed
		info.seqSlot = i + 1
		a.clips = append(a.clips, info)
		a.dirty.raise(dirtyLayout)
	}

	for i := range a.clips {
		info := &a.clips[i]
		if info.seqSlot == 0 {
			continue
		}
		if w := s.weight(info.seqSlot - 1); w != info.State.Weight {
			info.State.Weight = w
			a.dirty.raise(dirtyValue)
		}
	}
}
