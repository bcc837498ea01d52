package mccs

import "candela/internal/ddc"

// Access describes how a VCP feature may be used.
type Access int

const (
	ReadWrite Access = iota
	ReadOnly
	WriteOnly
)

func (a Access) String() string {
	switch a {
	case ReadOnly:
		return "ro"
	case WriteOnly:
		return "wo"
	default:
		return "rw"
	}
}

// Feature is the metadata known about one VCP code.
type Feature struct {
	Code   ddc.FeatureCode
	Name   string
	Access Access
	// Values lists the allowed non-continuous values declared by the
	// capability string, nil for continuous features.
	Values []uint16
}

// Database holds feature metadata keyed by VCP code. The zero value is an
// empty, unpopulated database; a database is considered populated when it
// has an entry for the VCP version code.
type Database struct {
	features map[ddc.FeatureCode]Feature
}

// knownFeature seeds the database for a given protocol version.
type knownFeature struct {
	code   ddc.FeatureCode
	name   string
	access Access
	since  Version
}

var knownFeatures = []knownFeature{
	{0x02, "New Control Value", ReadWrite, Version{2, 0}},
	{0x04, "Restore Factory Defaults", WriteOnly, Version{2, 0}},
	{0x05, "Restore Factory Luminance", WriteOnly, Version{2, 0}},
	{0x08, "Restore Factory Color Defaults", WriteOnly, Version{2, 0}},
	{0x0B, "Color Temperature Increment", ReadOnly, Version{2, 0}},
	{0x0C, "Color Temperature Request", ReadWrite, Version{2, 0}},
	{0x10, "Luminance", ReadWrite, Version{2, 0}},
	{0x12, "Contrast", ReadWrite, Version{2, 0}},
	{0x14, "Select Color Preset", ReadWrite, Version{2, 0}},
	{0x16, "Video Gain: Red", ReadWrite, Version{2, 0}},
	{0x18, "Video Gain: Green", ReadWrite, Version{2, 0}},
	{0x1A, "Video Gain: Blue", ReadWrite, Version{2, 0}},
	{0x52, "Active Control", ReadOnly, Version{2, 0}},
	{0x60, "Input Source", ReadWrite, Version{2, 0}},
	{0x62, "Audio Speaker Volume", ReadWrite, Version{2, 0}},
	{0x6C, "Video Black Level: Red", ReadWrite, Version{2, 0}},
	{0x6E, "Video Black Level: Green", ReadWrite, Version{2, 0}},
	{0x70, "Video Black Level: Blue", ReadWrite, Version{2, 0}},
	{0xAC, "Horizontal Frequency", ReadOnly, Version{2, 0}},
	{0xAE, "Vertical Frequency", ReadOnly, Version{2, 0}},
	{0xB2, "Flat Panel Sub-Pixel Layout", ReadOnly, Version{2, 0}},
	{0xB6, "Display Technology Type", ReadOnly, Version{2, 0}},
	{0xC0, "Display Usage Time", ReadOnly, Version{2, 0}},
	{0xC6, "Application Enable Key", ReadOnly, Version{2, 0}},
	{0xC8, "Display Controller ID", ReadOnly, Version{2, 0}},
	{0xC9, "Display Firmware Level", ReadOnly, Version{2, 0}},
	{0xCA, "OSD", ReadWrite, Version{2, 0}},
	{0xCC, "OSD Language", ReadWrite, Version{2, 0}},
	{0xD6, "Power Mode", ReadWrite, Version{2, 0}},
	{0xDB, "Image Mode", ReadWrite, Version{2, 2}},
	{0xDC, "Display Mode", ReadWrite, Version{2, 0}},
	{ddc.FeatureVersion, "VCP Version", ReadOnly, Version{2, 0}},
}

// FromVersion builds the feature database implied by a protocol version.
// The result is coarser than one refined from a capability string.
func FromVersion(v Version) Database {
	db := Database{features: make(map[ddc.FeatureCode]Feature, len(knownFeatures))}
	for _, kf := range knownFeatures {
		if !v.AtLeast(kf.since) {
			continue
		}
		db.features[kf.code] = Feature{Code: kf.code, Name: kf.name, Access: kf.access}
	}
	return db
}

// Get returns the metadata for code, if known.
func (db Database) Get(code ddc.FeatureCode) (Feature, bool) {
	f, ok := db.features[code]
	return f, ok
}

// Len reports the number of known features.
func (db Database) Len() int { return len(db.features) }

// Codes returns the known feature codes in unspecified order.
func (db Database) Codes() []ddc.FeatureCode {
	codes := make([]ddc.FeatureCode, 0, len(db.features))
	for code := range db.features {
		codes = append(codes, code)
	}
	return codes
}

// ApplyCapabilities narrows the database to the features the capability
// string declares and records their allowed value lists. Codes the version
// table does not know are added with no name so callers can still address
// them.
func (db *Database) ApplyCapabilities(caps *Capabilities) {
	if caps == nil || len(caps.VCP) == 0 {
		return
	}
	kept := make(map[ddc.FeatureCode]Feature, len(caps.VCP))
	for code, values := range caps.VCP {
		f, ok := db.features[code]
		if !ok {
			f = Feature{Code: code}
		}
		if len(values) > 0 {
			f.Values = append([]uint16(nil), values...)
		}
		kept[code] = f
	}
	// The version-report code stays addressable even when the vendor omits
	// it from the declared table.
	if f, ok := db.features[ddc.FeatureVersion]; ok {
		if _, declared := kept[ddc.FeatureVersion]; !declared {
			kept[ddc.FeatureVersion] = f
		}
	}
	db.features = kept
}

// Clone returns an independent copy of the database.
func (db Database) Clone() Database {
	if db.features == nil {
		return Database{}
	}
	features := make(map[ddc.FeatureCode]Feature, len(db.features))
	for code, f := range db.features {
		if f.Values != nil {
			f.Values = append([]uint16(nil), f.Values...)
		}
		features[code] = f
	}
	return Database{features: features}
}
