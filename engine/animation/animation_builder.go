package animation

import (
	"github.com/Carmen-Shannon/oxy-anim/engine/skeleton"
)

// AnimationBuilderOption is a functional option for configuring an Animation during construction.
type AnimationBuilderOption func(*animation)

// WithRegistrar is an option builder that registers the Animation with r, which assigns its ID.
//
// Parameters:
//   - r: the registrar, usually the animation manager
//
// Returns:
//   - AnimationBuilderOption: a function that applies the registrar option to an animation
func WithRegistrar(r Registrar) AnimationBuilderOption {
	return func(a *animation) {
		a.registrar = r
	}
}

// WithSkeleton is an option builder that sets the initial skeleton.
//
// Parameters:
//   - skel: the skeleton
//
// Returns:
//   - AnimationBuilderOption: a function that applies the skeleton option to an animation
func WithSkeleton(skel *skeleton.Skeleton) AnimationBuilderOption {
	return func(a *animation) {
		a.skel = skel
	}
}

// WithWrapMode is an option builder that sets the default wrap mode.
//
// Parameters:
//   - mode: the wrap mode new clips start with
//
// Returns:
//   - AnimationBuilderOption: a function that applies the wrap mode option to an animation
func WithWrapMode(mode WrapMode) AnimationBuilderOption {
	return func(a *animation) {
		a.wrapMode = mode
	}
}

// WithSpeed is an option builder that sets the default playback speed.
//
// Parameters:
//   - speed: the speed new clips start with
//
// Returns:
//   - AnimationBuilderOption: a function that applies the speed option to an animation
func WithSpeed(speed float32) AnimationBuilderOption {
	return func(a *animation) {
		a.speed = speed
	}
}

// WithEventHandler is an option builder that sets the handler receiving clip events.
//
// Parameters:
//   - h: the handler, called on the owning thread from UpdateFromProxy
//
// Returns:
//   - AnimationBuilderOption: a function that applies the event handler option to an animation
func WithEventHandler(h EventHandler) AnimationBuilderOption {
	return func(a *animation) {
		a.handler = h
	}
}
