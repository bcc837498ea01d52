package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	for i, name := range c.Scan.Backends {
		c.Scan.Backends[i] = strings.ToLower(strings.TrimSpace(name))
	}
	if len(c.Scan.Backends) == 0 {
		c.Scan.Backends = Default().Scan.Backends
	}
	if c.Scan.EDIDReadBytes == 0 {
		c.Scan.EDIDReadBytes = defaultEDIDReadBytes
	}

	for i, dev := range c.I2C.Devices {
		expanded, err := ExpandPath(dev)
		if err != nil {
			return fmt.Errorf("i2c.devices[%d]: %w", i, err)
		}
		c.I2C.Devices[i] = expanded
	}

	c.X11.Display = strings.TrimSpace(c.X11.Display)

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	return nil
}
