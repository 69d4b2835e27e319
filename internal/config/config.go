// Package config loads the dinit CLI configuration file. The file is
// optional; every field has a default so the CLI runs without one.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/axondata/go-dinit/pkg/logging"
)

// Duration wraps time.Duration so YAML values like "500ms" or "10s" parse
// directly.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config holds the dinit CLI settings.
type Config struct {
	// ServiceDir is the definition directory scanned for services
	ServiceDir string `yaml:"serviceDir"`
	// Target is the service brought up by default
	Target string `yaml:"target"`
	// Concurrency bounds how many services start at once within a layer
	Concurrency int `yaml:"concurrency"`
	// StartDelay is how long a process must survive to count as started
	StartDelay Duration `yaml:"startDelay"`
	// ReadyTimeout bounds ready-file probes with no per-service timeout
	ReadyTimeout Duration `yaml:"readyTimeout"`
	// PIDDir, when set, receives a pid file per spawned service
	PIDDir string `yaml:"pidDir"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		ServiceDir:   "dinit.d",
		Target:       "boot",
		Concurrency:  8,
		StartDelay:   Duration(500 * time.Millisecond),
		ReadyTimeout: Duration(10 * time.Second),
	}
}

// Load reads the configuration from path, layering it over the defaults. A
// missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logging.Debug("Config", "No config file at %s, using defaults", path)
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logging.Debug("Config", "Loaded config from %s", path)
	return cfg, nil
}

// Validate checks the configuration for values the engine would reject.
func (c *Config) Validate() error {
	if c.ServiceDir == "" {
		return fmt.Errorf("serviceDir must not be empty")
	}
	if c.Target == "" {
		return fmt.Errorf("target must not be empty")
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1, got %d", c.Concurrency)
	}
	if c.StartDelay < 0 {
		return fmt.Errorf("startDelay must not be negative")
	}
	if c.ReadyTimeout <= 0 {
		return fmt.Errorf("readyTimeout must be positive")
	}
	return nil
}
