package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"candela/internal/backend"
)

//go:embed sample_config.toml
var sampleConfig string

// Scan controls display enumeration.
type Scan struct {
	// Backends lists the discovery backends to run, by canonical name.
	Backends []string `toml:"backends"`
	// EDIDReadBytes is how many EDID bytes to request per display.
	EDIDReadBytes int `toml:"edid_read_bytes"`
}

// I2C controls the i2c-dev backend.
type I2C struct {
	// AllBuses scans every i2c bus instead of only display-attached ones.
	AllBuses bool `toml:"all_buses"`
	// Devices overrides udev discovery with explicit device nodes.
	Devices []string `toml:"devices"`
}

// X11 controls the xrandr backend.
type X11 struct {
	// Display overrides the DISPLAY environment variable.
	Display string `toml:"display"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for candela.
type Config struct {
	Scan    Scan    `toml:"scan"`
	I2C     I2C     `toml:"i2c"`
	X11     X11     `toml:"x11"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the default configuration file location.
func DefaultConfigPath() (string, error) {
	return ExpandPath("~/.config/candela/config.toml")
}

// Load locates, parses, and validates a configuration file. It returns the
// config, the resolved path, and whether a file was actually read.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := ExpandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	return defaultPath, false, nil
}

// ExpandPath resolves a leading tilde against the user home directory and
// returns an absolute path.
func ExpandPath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", nil
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return filepath.Abs(path)
}

// EnabledBackends converts the configured backend names into tags. Names
// are validated by Validate, so this never fails after Load.
func (c *Config) EnabledBackends() []backend.Backend {
	out := make([]backend.Backend, 0, len(c.Scan.Backends))
	for _, name := range c.Scan.Backends {
		b, err := backend.Parse(name)
		if err != nil {
			continue
		}
		out = append(out, b)
	}
	return out
}

// BackendEnabled reports whether b is in the configured scan set.
func (c *Config) BackendEnabled(b backend.Backend) bool {
	for _, enabled := range c.EnabledBackends() {
		if enabled == b {
			return true
		}
	}
	return false
}

// SampleConfig returns the annotated sample configuration file.
func SampleConfig() string { return sampleConfig }

// CreateSample writes the embedded sample configuration to path.
func CreateSample(path string) error {
	return os.WriteFile(path, []byte(sampleConfig), 0o644)
}
