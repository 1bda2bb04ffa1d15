package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Holds all launcher configuration.
type Config struct {
	Backend BackendConfig
	Health  HealthConfig
	Control ControlConfig
}

// Holds backend process configuration.
type BackendConfig struct {
	// Host the backend binds to. Loopback only; the backend is never
	// exposed beyond the local machine.
	Host string `envconfig:"SUZENTD_HOST" default:"127.0.0.1"`

	// Fixed port assumed in dev mode, where the backend is run manually.
	DevPort uint16 `envconfig:"SUZENTD_DEV_PORT" default:"8000"`

	// Override for the application data directory. Empty uses the
	// platform default.
	DataDir string `envconfig:"SUZENTD_DATA_DIR"`

	// Override for the resource directory holding the bundled backend
	// executable. Empty resolves relative to the launcher binary.
	ResourceDir string `envconfig:"SUZENTD_RESOURCE_DIR"`
}

// Holds health polling configuration.
//
// The poll budget is deterministic: Attempts requests spaced Interval apart,
// so the worst-case wait is Attempts * Interval (30 seconds by default).
type HealthConfig struct {
	Path           string        `envconfig:"SUZENTD_HEALTH_PATH" default:"/api/config"`
	Attempts       int           `envconfig:"SUZENTD_HEALTH_ATTEMPTS" default:"60"`
	Interval       time.Duration `envconfig:"SUZENTD_HEALTH_INTERVAL" default:"500ms"`
	RequestTimeout time.Duration `envconfig:"SUZENTD_HEALTH_TIMEOUT" default:"2s"`
}

// Holds control API configuration.
type ControlConfig struct {
	// Address the control API listens on. A ":0" port is resolved to a
	// free ephemeral port at startup.
	Addr string `envconfig:"SUZENTD_CONTROL_ADDR" default:"127.0.0.1:0"`
}

// Loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// Returns the default configuration.
func Default() *Config {
	return &Config{
		Backend: BackendConfig{
			Host:    "127.0.0.1",
			DevPort: 8000,
		},
		Health: HealthConfig{
			Path:           "/api/config",
			Attempts:       60,
			Interval:       500 * time.Millisecond,
			RequestTimeout: 2 * time.Second,
		},
		Control: ControlConfig{
			Addr: "127.0.0.1:0",
		},
	}
}
