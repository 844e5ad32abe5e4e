package animation

import (
	"slices"

	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/Carmen-Shannon/oxy-anim/engine/clip"
	"github.com/charmbracelet/log"
)

func (a *animation) UpdateAnimProxy(timeDelta float32) {
	if a.destroyed {
		return
	}

	a.advanceTime(timeDelta)
	a.advanceFades(timeDelta)
	if a.sequence != nil {
		a.sequence.cursor += timeDelta
		a.syncSequence()
	}

	for i := range a.clips {
		if a.clips[i].Clip.Version() != a.clips[i].CurveVersion {
			a.dirty.raise(dirtyLayout)
			break
		}
	}

	a.resolve()
}

// advanceTime moves every clip forward by timeDelta * speed and queues the events it crosses.
func (a *animation) advanceTime(timeDelta float32) {
	for i := range a.clips {
		info := &a.clips[i]
		prev := info.State.Time
		info.State.Time += timeDelta * info.State.Speed

		if a.handler == nil || info.State.Weight <= 0 {
			continue
		}
		c := info.Clip
		clip.Crossed(c.Events(), prev, info.State.Time, c.Length(), info.State.WrapMode == WrapLoop, func(e clip.Event) {
			a.events = append(a.events, FiredEvent{Clip: c, Event: e})
		})
	}
}

// advanceFades ramps fading weights and removes clips whose fade-out has completed.
func (a *animation) advanceFades(timeDelta float32) {
	removed := false
	for i := range a.clips {
		info := &a.clips[i]
		if info.FadeDirection == fadeNone {
			continue
		}
		info.FadeTime += timeDelta
		k := float32(1)
		if info.FadeLength > 0 {
			k = common.Saturate(info.FadeTime / info.FadeLength)
		}
		a.dirty.raise(dirtyValue)
		if k < 1 {
			info.State.Weight = common.Lerp(info.fadeFrom, info.fadeTo, k)
			continue
		}

		info.State.Weight = info.fadeTo
		if info.FadeDirection == fadeOut && info.fadeTo <= 0 {
			info.Clip = nil
			removed = true
		}
		info.FadeDirection = fadeNone
	}

	if removed {
		a.clips = slices.DeleteFunc(a.clips, func(p PlayingClipInfo) bool { return p.Clip == nil })
		a.dirty.raise(dirtyLayout)
	}
}

// resolve runs exactly one proxy refresh, the one the dirty state calls for, and leaves the
// animation clean.
func (a *animation) resolve() {
	in := buildInput{
		skel:    a.skel,
		mask:    a.mask,
		clips:   a.clips,
		objects: a.scene,
	}

	var err error
	switch a.dirty {
	case dirtySkeleton:
		err = a.proxy.rebuildSkeleton(in)
	case dirtyLayout:
		err = a.proxy.rebuildLayout(in)
	case dirtyValue:
		a.proxy.updateValues(a.clips)
	default:
		a.proxy.updateTime(a.clips)
	}
	if err != nil {
		log.Error("animation: proxy rebuild failed, keeping previous frame", "id", a.id, "dirty", a.dirty, "err", err)
		for i := range a.clips {
			a.clips[i].LayerIdx, a.clips[i].StateIdx = invalidIndex, invalidIndex
		}
	}

	for i := range a.clips {
		a.clips[i].seeked = false
	}
	a.dirty = dirtyClean
}
