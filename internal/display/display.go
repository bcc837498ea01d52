package display

import (
	"candela/internal/backend"
	"candela/internal/ddc"
	"candela/internal/mccs"
)

// DefaultEDIDReadBytes is how much EDID data update operations request when
// the caller has not configured a size. 256 covers the base block plus one
// extension.
const DefaultEDIDReadBytes = 256

// Display pairs a stable identifier with the communication handle for one
// physical display, plus the lazily fetched fragments its Info is projected
// from.
//
// Update operations are idempotent: once a fragment is cached, repeated
// calls return immediately without touching the wire. A handle reporting an
// operation as unsupported is not an error; the fragment simply stays
// absent.
type Display struct {
	id     string
	handle ddc.Handle

	edidBytes int

	edid    []byte
	caps    *mccs.Capabilities
	version *mccs.Version
}

// New wraps handle under the given identifier.
func New(id string, handle ddc.Handle) *Display {
	return &Display{id: id, handle: handle, edidBytes: DefaultEDIDReadBytes}
}

// ID returns the display's enumeration identifier.
func (d *Display) ID() string { return d.id }

// Backend reports which enumeration source owns the handle.
func (d *Display) Backend() backend.Backend { return d.handle.Backend() }

// Handle exposes the underlying communication handle for direct feature
// access.
func (d *Display) Handle() ddc.Handle { return d.handle }

// SetEDIDReadSize overrides how many EDID bytes UpdateEDID requests.
func (d *Display) SetEDIDReadSize(n int) {
	if n > 0 {
		d.edidBytes = n
	}
}

// Close releases the underlying handle.
func (d *Display) Close() error { return d.handle.Close() }

// UpdateEDID fetches and caches the raw EDID, unless already cached or the
// handle cannot read EDID at all.
func (d *Display) UpdateEDID() error {
	if d.edid != nil {
		return nil
	}
	buf := make([]byte, d.edidBytes)
	n, err := d.handle.ReadEDID(0, buf)
	if err != nil {
		return ddc.UnsupportedOK(err)
	}
	d.edid = buf[:n]
	return nil
}

// UpdateCapabilities fetches, parses and caches the capability string,
// unless already cached or the handle cannot report capabilities.
func (d *Display) UpdateCapabilities() error {
	if d.caps != nil {
		return nil
	}
	raw, err := d.handle.CapabilitiesString()
	if err != nil {
		return ddc.UnsupportedOK(err)
	}
	caps, err := mccs.ParseCapabilities(raw)
	if err != nil {
		return err
	}
	d.caps = caps
	return nil
}

// UpdateVersion queries the declared protocol version over the wire, unless
// it is already known from the capability string or a previous query, or the
// handle cannot run feature requests. A zero reply is cached as unknown.
func (d *Display) UpdateVersion() error {
	if d.version != nil {
		return nil
	}
	if d.caps != nil && d.caps.Version != nil {
		return nil
	}
	value, err := d.handle.GetVCPFeature(ddc.FeatureVersion)
	if err != nil {
		return ddc.UnsupportedOK(err)
	}
	v := mccs.Version{Major: uint8(value.Current >> 8), Minor: uint8(value.Current & 0xff)}
	if v.IsZero() {
		return nil
	}
	d.version = &v
	return nil
}

// UpdateFast fills in whatever identification the cheapest sources provide:
// EDID first, the capability string only when forced or when no EDID came
// back, then the protocol version if still unknown.
func (d *Display) UpdateFast(forceCaps bool) error {
	if err := d.UpdateEDID(); err != nil {
		return err
	}
	if forceCaps || d.edid == nil {
		if err := d.UpdateCapabilities(); err != nil {
			return err
		}
	}
	return d.UpdateVersion()
}

// UpdateAll discards the caches and re-fetches every fragment, for callers
// that want the freshest possible state.
func (d *Display) UpdateAll() error {
	d.edid = nil
	d.caps = nil
	d.version = nil
	if err := d.UpdateEDID(); err != nil {
		return err
	}
	if err := d.UpdateCapabilities(); err != nil {
		return err
	}
	return d.UpdateVersion()
}

// Capabilities returns the cached parsed capability string, nil when none
// has been fetched.
func (d *Display) Capabilities() *mccs.Capabilities { return d.caps }

// EDID returns the cached raw EDID bytes, nil when none have been fetched.
func (d *Display) EDID() []byte { return d.edid }

// Info projects the canonical merged record from the cached fragments.
// Capability-derived fields take precedence, EDID fills the gaps, and the
// live-queried version is consulted last. The projection is recomputed on
// every call; it never mutates the caches.
func (d *Display) Info() *Info {
	info := NewInfo(d.Backend(), d.id)
	if d.caps != nil {
		if capsInfo, err := FromCapabilities(d.Backend(), d.id, d.caps); err == nil || capsInfo != nil {
			info.UpdateFrom(capsInfo)
		}
	}
	if d.edid != nil {
		if edidInfo, err := FromEDID(d.Backend(), d.id, d.edid); err == nil {
			info.UpdateFrom(edidInfo)
		}
	}
	if d.version != nil {
		live := NewInfo(d.Backend(), d.id)
		v := *d.version
		live.MCCSVersion = &v
		live.MCCSDatabase = mccs.FromVersion(v)
		info.UpdateFrom(live)
	}
	return info
}
