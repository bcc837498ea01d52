package display

import (
	"fmt"
	"strings"

	"candela/internal/backend"
	"candela/internal/ddc"
	"candela/internal/edid"
	"candela/internal/mccs"
)

// VersionPair is a raw EDID structure version/revision byte pair.
type VersionPair struct {
	Version  uint8
	Revision uint8
}

// Info is the merged identification record for one physical display.
//
// Only Backend and ID are always present. Every other field is optional and
// nil (or empty) until some source supplies it.
type Info struct {
	// Backend that first surfaced the display.
	Backend backend.Backend
	// ID is the stable identifier minted during enumeration, unique within
	// a single enumeration pass.
	ID string

	ManufacturerID  *string
	ModelID         *uint16
	VersionPair     *VersionPair
	SerialID        *uint32
	ManufactureWeek *uint8
	ManufactureYear *uint8
	ModelName       *string
	SerialNumber    *string

	// EDIDData holds the raw EDID bytes when a source provided them.
	EDIDData []byte

	// MCCSVersion is the display's declared MCCS protocol version, and
	// MCCSDatabase the feature metadata derived from it (possibly narrowed
	// by a capability string).
	MCCSVersion  *mccs.Version
	MCCSDatabase mccs.Database
}

// NewInfo returns an Info carrying only the mandatory identity fields.
func NewInfo(b backend.Backend, id string) *Info {
	return &Info{Backend: b, ID: id}
}

// String renders a compact human-readable label: "backend:id [MAN] [model]".
func (i *Info) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s:%s", i.Backend, i.ID)
	if i.ManufacturerID != nil {
		fmt.Fprintf(&sb, " %s", *i.ManufacturerID)
	}
	if i.ModelName != nil {
		fmt.Fprintf(&sb, " %s", *i.ModelName)
	}
	return sb.String()
}

// UpdateFrom folds fields from src into i. Fields already populated in i are
// kept; missing ones are filled from src. The feature database is the one
// exception: when i has no entry for the protocol-version feature (the
// database is unpopulated or was built without it), a src that knows the
// protocol version replaces both the version and the database wholesale.
func (i *Info) UpdateFrom(src *Info) {
	if i.ManufacturerID == nil {
		i.ManufacturerID = src.ManufacturerID
	}
	if i.ModelID == nil {
		i.ModelID = src.ModelID
	}
	if i.VersionPair == nil {
		i.VersionPair = src.VersionPair
	}
	if i.SerialID == nil {
		i.SerialID = src.SerialID
	}
	if i.ManufactureWeek == nil {
		i.ManufactureWeek = src.ManufactureWeek
	}
	if i.ManufactureYear == nil {
		i.ManufactureYear = src.ManufactureYear
	}
	if i.ModelName == nil {
		i.ModelName = src.ModelName
	}
	if i.SerialNumber == nil {
		i.SerialNumber = src.SerialNumber
	}
	if len(i.EDIDData) == 0 && len(src.EDIDData) > 0 {
		i.EDIDData = append([]byte(nil), src.EDIDData...)
	}
	if i.MCCSVersion == nil {
		i.MCCSVersion = src.MCCSVersion
	}
	if _, ok := i.MCCSDatabase.Get(ddc.FeatureVersion); !ok {
		if src.MCCSVersion != nil {
			i.MCCSVersion = src.MCCSVersion
		}
		if src.MCCSDatabase.Len() > 0 {
			i.MCCSDatabase = src.MCCSDatabase.Clone()
		}
	}
}

// FromEDID builds an Info from a raw EDID block.
func FromEDID(b backend.Backend, id string, data []byte) (*Info, error) {
	parsed, err := edid.Parse(data)
	if err != nil {
		return nil, err
	}
	info := NewInfo(b, id)
	info.EDIDData = append([]byte(nil), data...)
	man := parsed.ManufacturerID
	info.ManufacturerID = &man
	model := parsed.ProductCode
	info.ModelID = &model
	serial := parsed.Serial
	info.SerialID = &serial
	week := parsed.ManufactureWeek
	info.ManufactureWeek = &week
	year := parsed.ManufactureYear
	info.ManufactureYear = &year
	info.VersionPair = &VersionPair{Version: parsed.Version, Revision: parsed.Revision}
	if parsed.ModelName != "" {
		name := parsed.ModelName
		info.ModelName = &name
	}
	if parsed.SerialNumber != "" {
		sn := parsed.SerialNumber
		info.SerialNumber = &sn
	}
	return info, nil
}

// FromCapabilities builds an Info from a parsed capability string. Fields
// stated by the capability string take precedence; when the string embeds an
// EDID block, EDID-derived fields fill the remaining gaps.
//
// A malformed embedded EDID is reported through the returned error but does
// not invalidate the Info, which is always non-nil.
func FromCapabilities(b backend.Backend, id string, caps *mccs.Capabilities) (*Info, error) {
	info := NewInfo(b, id)
	if caps.Model != "" {
		model := caps.Model
		info.ModelName = &model
	}
	if caps.Version != nil {
		v := *caps.Version
		info.MCCSVersion = &v
		db := mccs.FromVersion(v)
		db.ApplyCapabilities(caps)
		info.MCCSDatabase = db
	}
	if len(caps.EDID) > 0 {
		edidInfo, err := FromEDID(b, id, caps.EDID)
		if err != nil {
			return info, fmt.Errorf("embedded edid: %w", err)
		}
		info.UpdateFrom(edidInfo)
	}
	return info, nil
}

// UpdateFromLive queries the display's declared protocol version over the
// wire and, when it is both readable and non-zero, derives the feature
// database from it. A zero version reply means the display offered no usable
// information; the Info is left untouched.
//
// The query is skipped entirely when the version is already known from a
// richer source.
func (i *Info) UpdateFromLive(h ddc.Handle) error {
	if i.MCCSVersion != nil {
		return nil
	}
	value, err := h.GetVCPFeature(ddc.FeatureVersion)
	if err != nil {
		return err
	}
	v := mccs.Version{Major: uint8(value.Current >> 8), Minor: uint8(value.Current & 0xff)}
	if v.IsZero() {
		return nil
	}
	i.MCCSVersion = &v
	i.MCCSDatabase = mccs.FromVersion(v)
	return nil
}
