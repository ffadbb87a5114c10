package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix prefixes every process setting read from the environment.
const EnvPrefix = "GLACIER"

// Settings holds process-level settings that are not part of a window's
// options.
type Settings struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	// LogDev switches to the human-readable console encoder.
	LogDev bool `envconfig:"LOG_DEV" default:"false"`
	// ConfigPath overrides DefaultConfigPath.
	ConfigPath string `envconfig:"CONFIG"`
}

// LoadSettings reads Settings from GLACIER_* environment variables.
func LoadSettings() (*Settings, error) {
	var s Settings
	if err := envconfig.Process(EnvPrefix, &s); err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	return &s, nil
}

// DefaultSettings returns the settings used when the environment is empty.
func DefaultSettings() *Settings {
	return &Settings{
		LogLevel: "info",
	}
}
