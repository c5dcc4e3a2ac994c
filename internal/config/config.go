package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/rendis/firmap/internal/engine/projection"
)

// Config holds the settings shared by the TUI and the headless commands.
type Config struct {
	Title       string `toml:"title"`
	Projection  string `toml:"projection"`
	FlightLevel int    `toml:"flight_level"`
	Source      string `toml:"source"`
	Proxy       string `toml:"proxy"`
	Timeout     string `toml:"timeout"`
	LogLevel    string `toml:"log_level"`
	LogFile     string `toml:"log_file"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Title:       "FIR projections",
		Projection:  string(projection.Airy),
		FlightLevel: 100,
		Source:      ".",
		Timeout:     "30s",
		LogLevel:    "info",
	}
}

// DefaultPath is the config file read when none is given.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "firmap", "config.toml")
}

// Load overlays the TOML file at path on the defaults. A missing file at
// the default path is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path == "" {
		return cfg, nil
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, fmt.Errorf("config %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	return cfg, nil
}

// TimeoutDuration parses Timeout.
func (c Config) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// Validate checks the settings that would otherwise fail later.
func (c Config) Validate() error {
	if !projection.Valid(c.Projection) {
		return fmt.Errorf("%w: %q", projection.ErrUnknownProjection, c.Projection)
	}
	if c.FlightLevel < 0 || c.FlightLevel > 990 {
		return fmt.Errorf("flight level %d out of range [0, 990]", c.FlightLevel)
	}
	if c.Source == "" {
		return errors.New("source is required")
	}
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("timeout: %w", err)
	}
	return nil
}
