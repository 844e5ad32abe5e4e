package clip

import (
	"github.com/Carmen-Shannon/oxy-anim/engine/curve"
)

// ClipBuilderOption is a functional option for configuring a Clip during construction.
type ClipBuilderOption func(*clip)

// WithCurves is an option builder that sets the clip's initial curve set.
// It does not bump the version.
//
// Parameters:
//   - set: the curve set
//
// Returns:
//   - ClipBuilderOption: a function that applies the curves option to a clip
func WithCurves(set *curve.Set) ClipBuilderOption {
	return func(c *clip) {
		if set != nil {
			c.curves.Store(set)
		}
	}
}

// WithLength is an option builder that overrides the length derived from the curves.
//
// Parameters:
//   - seconds: the clip length; values <= 0 keep the derived length
//
// Returns:
//   - ClipBuilderOption: a function that applies the length option to a clip
func WithLength(seconds float32) ClipBuilderOption {
	return func(c *clip) {
		c.length = seconds
	}
}

// WithAdditive is an option builder that marks the clip's curves as additive deltas.
//
// Parameters:
//   - additive: true for additive clips
//
// Returns:
//   - ClipBuilderOption: a function that applies the additive option to a clip
func WithAdditive(additive bool) ClipBuilderOption {
	return func(c *clip) {
		c.additive = additive
	}
}

// WithEvents is an option builder that appends timeline events to the clip.
//
// Parameters:
//   - events: the events, in any order
//
// Returns:
//   - ClipBuilderOption: a function that applies the events option to a clip
func WithEvents(events ...Event) ClipBuilderOption {
	return func(c *clip) {
		c.events = append(c.events, events...)
	}
}
