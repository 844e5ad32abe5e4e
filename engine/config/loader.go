package config

import (
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// LoadManager loads the animation manager settings.
// Search order: customPath -> ~/.oxy/animation.yaml -> embedded default.
// Files only need to list the settings they change; the rest keep their defaults.
//
// Parameters:
//   - customPath: an explicit config file, or "" to search
//
// Returns:
//   - Manager: the loaded settings
//   - error: read, parse or validation failure
func LoadManager(customPath string) (Manager, error) {
	cfg := embeddedManager()

	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, errors.Wrapf(err, "failed to read config %s", customPath)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, errors.Wrapf(err, "failed to parse config %s", customPath)
		}
		return cfg, cfg.Validate()
	}

	if userPath := userConfigPath("animation.yaml"); userPath != "" {
		user, err := loadUser(userPath, cfg)
		switch {
		case err == nil:
			return user, nil
		case !os.IsNotExist(errors.Cause(err)):
			log.Warn("ignoring user config, using defaults", "path", userPath, "err", err)
		}
	}

	return cfg, nil
}

// loadUser reads path over base. A missing file is reported through the os.IsNotExist cause.
func loadUser(path string, base Manager) (Manager, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, errors.Wrap(err, "failed to read user config")
	}
	user := base
	if err := yaml.Unmarshal(data, &user); err != nil {
		return base, errors.Wrap(err, "failed to parse user config")
	}
	if err := user.Validate(); err != nil {
		return base, err
	}
	return user, nil
}

func embeddedManager() Manager {
	cfg := DefaultManager()
	if err := yaml.Unmarshal(defaultManagerYAML, &cfg); err != nil {
		return DefaultManager()
	}
	return cfg
}

// Marshal renders cfg as YAML.
func Marshal(cfg Manager) ([]byte, error) {
	return yaml.Marshal(cfg)
}

// userConfigPath returns the path to a user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".oxy", filename)
}
