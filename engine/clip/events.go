package clip

import (
	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/chewxy/math32"
)

// maxLoopCycles bounds how many loop repetitions a single advance reports.
const maxLoopCycles = 16

// Crossed calls fn for every event passed while playback moves from one unwrapped time to
// another. Forward playback reports events in (from, to] in ascending order; reverse playback
// reports events in [to, from) in descending order. With loop, events repeat every length
// seconds; without it both times are clamped to [0, length] first.
//
// Parameters:
//   - events: events sorted by time
//   - from: the playback time before the advance
//   - to: the playback time after the advance
//   - length: the clip length in seconds
//   - loop: whether playback wraps
//   - fn: called once per crossed event
func Crossed(events []Event, from, to, length float32, loop bool, fn func(Event)) {
	if len(events) == 0 || from == to {
		return
	}
	if !loop || length <= 0 {
		from, to = common.ClampTime(from, length), common.ClampTime(to, length)
		if to > from {
			forward(events, from, to, fn)
		} else if to < from {
			backward(events, to, from, fn)
		}
		return
	}

	if to > from {
		first, last := math32.Floor(from/length), math32.Floor(to/length)
		for k := first; k <= last && k-first < maxLoopCycles; k++ {
			off := k * length
			forward(events, from-off, to-off, fn)
		}
		return
	}

	first, last := math32.Floor(from/length), math32.Floor(to/length)
	for k := first; k >= last && first-k < maxLoopCycles; k-- {
		off := k * length
		backward(events, to-off, from-off, fn)
	}
}

func forward(events []Event, lo, hi float32, fn func(Event)) {
	for _, e := range events {
		if e.Time > lo && e.Time <= hi {
			fn(e)
		}
	}
}

func backward(events []Event, lo, hi float32, fn func(Event)) {
	for i := len(events) - 1; i >= 0; i-- {
		if e := events[i]; e.Time >= lo && e.Time < hi {
			fn(e)
		}
	}
}
