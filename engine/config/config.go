// Package config loads the animation manager settings from YAML.
package config

import (
	_ "embed"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"
)

//go:embed defaults/animation.yaml
var defaultManagerYAML []byte

// ErrInvalidConfig is returned by Validate for out-of-range settings.
var ErrInvalidConfig = errors.New("config: invalid animation manager config")

// Manager holds the animation manager settings.
type Manager struct {
	// UpdateRate is the number of evaluations per second; 0 evaluates every frame.
	UpdateRate float32 `yaml:"update_rate"`

	// MaxTimeStep caps the time applied by one evaluation, in seconds; 0 disables the cap.
	MaxTimeStep float32 `yaml:"max_time_step"`

	// Workers is the size of the evaluation worker pool.
	Workers int `yaml:"workers"`

	// QueueSize is the capacity of the evaluation task queue.
	QueueSize int `yaml:"queue_size"`

	// Paused starts the manager with animation time paused.
	Paused bool `yaml:"paused"`

	// LogLevel is the manager log level name.
	LogLevel string `yaml:"log_level"`
}

// DefaultManager returns the built-in settings, matching the embedded defaults file.
func DefaultManager() Manager {
	return Manager{
		UpdateRate:  60,
		MaxTimeStep: 0.1,
		Workers:     1,
		QueueSize:   16,
		LogLevel:    "info",
	}
}

// Validate checks that every setting is usable.
//
// Returns:
//   - error: ErrInvalidConfig (wrapped) naming the first bad setting
func (m Manager) Validate() error {
	switch {
	case m.UpdateRate < 0:
		return errors.Wrapf(ErrInvalidConfig, "update_rate %v is negative", m.UpdateRate)
	case m.MaxTimeStep < 0:
		return errors.Wrapf(ErrInvalidConfig, "max_time_step %v is negative", m.MaxTimeStep)
	case m.Workers < 1:
		return errors.Wrapf(ErrInvalidConfig, "workers %d must be at least 1", m.Workers)
	case m.QueueSize < 1:
		return errors.Wrapf(ErrInvalidConfig, "queue_size %d must be at least 1", m.QueueSize)
	}
	if _, err := log.ParseLevel(m.LogLevel); err != nil {
		return errors.Wrapf(ErrInvalidConfig, "log_level %q", m.LogLevel)
	}
	return nil
}

// Level returns the parsed log level, or info when LogLevel is not a level name.
func (m Manager) Level() log.Level {
	lvl, err := log.ParseLevel(m.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}
