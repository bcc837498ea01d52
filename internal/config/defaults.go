package config

const (
	defaultEDIDReadBytes = 256
	defaultLogFormat     = "console"
	defaultLogLevel      = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Scan: Scan{
			Backends:      []string{"i2c-dev", "xrandr"},
			EDIDReadBytes: defaultEDIDReadBytes,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
