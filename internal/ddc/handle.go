package ddc

import "candela/internal/backend"

// FeatureCode numbers a VCP feature exposed by a display's control protocol.
type FeatureCode uint8

// FeatureVersion is the VCP code reporting the negotiated MCCS version.
const FeatureVersion FeatureCode = 0xDF

// ValueType distinguishes continuous controls from momentary ones.
type ValueType int

const (
	// SetParameter is a value that persists until changed.
	SetParameter ValueType = iota
	// Momentary is a self-resetting trigger value.
	Momentary
)

// Value is the typed result of a VCP feature read.
type Value struct {
	Current uint16
	Maximum uint16
	Type    ValueType
}

// Handle is a communication channel to one physical display. A handle is
// exclusively owned by a single Display aggregate and is not safe for
// concurrent use.
type Handle interface {
	// Backend reports which subsystem the handle talks through.
	Backend() backend.Backend

	// CapabilitiesString reads the raw vendor capability string.
	CapabilitiesString() ([]byte, error)

	// GetVCPFeature reads one typed feature value.
	GetVCPFeature(code FeatureCode) (Value, error)

	// SetVCPFeature writes one feature value.
	SetVCPFeature(code FeatureCode, value uint16) error

	// ReadEDID reads EDID bytes starting at offset into buf and returns the
	// number of bytes read.
	ReadEDID(offset uint8, buf []byte) (int, error)

	// SaveSettings asks the display to persist its current settings.
	SaveSettings() error

	// TableRead reads a table-typed feature.
	TableRead(code FeatureCode) ([]byte, error)

	// TableWrite writes a fragment of a table-typed feature.
	TableWrite(code FeatureCode, offset uint16, data []byte) error

	// Close releases the underlying device or API resource.
	Close() error
}
