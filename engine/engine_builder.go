package engine

import (
	"time"

	"github.com/Carmen-Shannon/oxy-anim/engine/animation_manager"
	"github.com/charmbracelet/log"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithTickRate sets the engine tick rate in frames per second.
// Values <= 0 will be treated as the default (60Hz).
//
// Parameters:
//   - fps: target ticks per second (default 60)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTickRate(fps float64) EngineBuilderOption {
	return func(e *engine) {
		if fps <= 0 {
			fps = 60.0
		}
		e.engineTickRate = time.Duration(float64(time.Second) / fps)
	}
}

// WithManager sets the animation manager the engine drives rather than creating a default one.
//
// Parameters:
//   - m: a configured AnimationManager
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithManager(m animation_manager.AnimationManager) EngineBuilderOption {
	return func(e *engine) {
		e.manager = m
	}
}

// WithLogger sets the logger used for engine diagnostics and profiler output.
//
// Parameters:
//   - logger: the structured logger
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithLogger(logger *log.Logger) EngineBuilderOption {
	return func(e *engine) {
		e.logger = logger
	}
}

// WithMaxTicks stops Run after n ticks. Pass 0 to run until Quit (default).
//
// Parameters:
//   - n: the tick limit
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithMaxTicks(n int) EngineBuilderOption {
	return func(e *engine) {
		e.maxTicks = max(n, 0)
	}
}
