package animation_manager

import (
	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-anim/engine/config"
	"github.com/charmbracelet/log"
)

// AnimationManagerBuilderOption is a functional option for configuring an AnimationManager.
type AnimationManagerBuilderOption func(*animationManager)

// WithConfig sets the manager configuration. NewAnimationManager panics if it does not validate.
//
// Parameters:
//   - cfg: the manager settings, usually from config.LoadManager
//
// Returns:
//   - AnimationManagerBuilderOption: option function to apply
func WithConfig(cfg config.Manager) AnimationManagerBuilderOption {
	return func(m *animationManager) {
		m.cfg = cfg
	}
}

// WithLogger sets the logger. The logger's level is left as configured by the caller.
//
// Parameters:
//   - logger: the structured logger
//
// Returns:
//   - AnimationManagerBuilderOption: option function to apply
func WithLogger(logger *log.Logger) AnimationManagerBuilderOption {
	return func(m *animationManager) {
		m.logger = logger
	}
}

// WithWorkerPool shares an existing worker pool. The manager does not stop a pool it did not create.
//
// Parameters:
//   - pool: the worker pool evaluation tasks are submitted to
//
// Returns:
//   - AnimationManagerBuilderOption: option function to apply
func WithWorkerPool(pool worker.DynamicWorkerPool) AnimationManagerBuilderOption {
	return func(m *animationManager) {
		m.pool = pool
	}
}
