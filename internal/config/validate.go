package config

import (
	"errors"
	"fmt"

	"candela/internal/backend"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateScan(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateScan() error {
	if len(c.Scan.Backends) == 0 {
		return errors.New("scan.backends must name at least one backend")
	}
	for _, name := range c.Scan.Backends {
		if _, err := backend.Parse(name); err != nil {
			return fmt.Errorf("scan.backends: %w", err)
		}
	}
	if c.Scan.EDIDReadBytes < 128 || c.Scan.EDIDReadBytes > 512 {
		return fmt.Errorf("scan.edid_read_bytes must be between 128 and 512, got %d", c.Scan.EDIDReadBytes)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
