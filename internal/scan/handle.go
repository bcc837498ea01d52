package scan

import (
	"candela/internal/backend"
	"candela/internal/ddc"
)

// compositeHandle joins the records of one physical display: the
// control-capable transport is primary, the platform output serves EDID when
// the transport cannot, and an EDID block captured during enumeration is
// served without touching the wire again.
type compositeHandle struct {
	primary    ddc.Handle
	fallback   ddc.Handle
	cachedEDID []byte
}

func newCompositeHandle(primary, fallback ddc.Handle, cachedEDID []byte) ddc.Handle {
	return &compositeHandle{primary: primary, fallback: fallback, cachedEDID: cachedEDID}
}

func (h *compositeHandle) Backend() backend.Backend { return h.primary.Backend() }

func (h *compositeHandle) ReadEDID(offset uint8, buf []byte) (int, error) {
	if len(h.cachedEDID) > 0 {
		if int(offset) >= len(h.cachedEDID) {
			return 0, nil
		}
		return copy(buf, h.cachedEDID[offset:]), nil
	}
	n, err := h.primary.ReadEDID(offset, buf)
	if err == nil {
		return n, nil
	}
	if h.fallback != nil {
		if fn, ferr := h.fallback.ReadEDID(offset, buf); ferr == nil {
			return fn, nil
		}
	}
	return n, err
}

func (h *compositeHandle) CapabilitiesString() ([]byte, error) {
	return h.primary.CapabilitiesString()
}

func (h *compositeHandle) GetVCPFeature(code ddc.FeatureCode) (ddc.Value, error) {
	return h.primary.GetVCPFeature(code)
}

func (h *compositeHandle) SetVCPFeature(code ddc.FeatureCode, value uint16) error {
	return h.primary.SetVCPFeature(code, value)
}

func (h *compositeHandle) SaveSettings() error { return h.primary.SaveSettings() }

func (h *compositeHandle) TableRead(code ddc.FeatureCode) ([]byte, error) {
	return h.primary.TableRead(code)
}

func (h *compositeHandle) TableWrite(code ddc.FeatureCode, offset uint16, data []byte) error {
	return h.primary.TableWrite(code, offset, data)
}

func (h *compositeHandle) Close() error {
	err := h.primary.Close()
	if h.fallback != nil {
		if ferr := h.fallback.Close(); err == nil {
			err = ferr
		}
	}
	return err
}
