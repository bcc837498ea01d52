package backend

import "fmt"

// Backend identifies the driver or API used to communicate with a display.
type Backend int

const (
	// I2CDevice is the Linux i2c-dev bus driver.
	I2CDevice Backend = iota
	// XRandR is the X11 RandR output API.
	XRandR
	// NVAPI is the NVIDIA vendor GPU API.
	NVAPI
	// MacOS covers the macOS display services APIs.
	MacOS
)

// String returns the canonical short name used in identifiers, logs, and
// configuration files.
func (b Backend) String() string {
	switch b {
	case I2CDevice:
		return "i2c-dev"
	case XRandR:
		return "xrandr"
	case NVAPI:
		return "nvapi"
	case MacOS:
		return "macos"
	default:
		return fmt.Sprintf("backend(%d)", int(b))
	}
}

// Parse converts a canonical short name back into a Backend.
func Parse(s string) (Backend, error) {
	switch s {
	case "i2c-dev":
		return I2CDevice, nil
	case "xrandr":
		return XRandR, nil
	case "nvapi":
		return NVAPI, nil
	case "macos":
		return MacOS, nil
	default:
		return 0, fmt.Errorf("unknown backend %q", s)
	}
}

// Values lists the backends with a working enumerator on this build.
// Tags without an enumerator (vendor GPU and macOS APIs) are excluded.
func Values() []Backend {
	return []Backend{I2CDevice, XRandR}
}
