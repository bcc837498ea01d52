package xrandr

import (
	"bytes"
	"errors"
	"testing"

	"candela/internal/backend"
	"candela/internal/ddc"
)

func TestOutputServesCachedEDID(t *testing.T) {
	edid := bytes.Repeat([]byte{0x5A}, 128)
	o := &Output{name: "DP-2", edid: edid}

	buf := make([]byte, 256)
	n, err := o.ReadEDID(0, buf)
	if err != nil {
		t.Fatalf("ReadEDID returned error: %v", err)
	}
	if n != 128 || !bytes.Equal(buf[:n], edid) {
		t.Errorf("read %d bytes, want the cached property", n)
	}

	n, err = o.ReadEDID(120, buf)
	if err != nil || n != 8 {
		t.Errorf("offset read = %d, %v, want 8, nil", n, err)
	}
	n, err = o.ReadEDID(200, buf)
	if err != nil || n != 0 {
		t.Errorf("past-end read = %d, %v, want 0, nil", n, err)
	}
}

func TestOutputWithoutEDID(t *testing.T) {
	o := &Output{name: "HDMI-1"}
	if _, err := o.ReadEDID(0, make([]byte, 128)); !errors.Is(err, ddc.ErrUnsupported) {
		t.Fatalf("error = %v, want ddc.ErrUnsupported", err)
	}
}

func TestOutputControlOpsUnsupported(t *testing.T) {
	o := &Output{name: "DP-2"}
	if o.Backend() != backend.XRandR {
		t.Errorf("Backend = %v, want xrandr", o.Backend())
	}

	if _, err := o.CapabilitiesString(); !errors.Is(err, ddc.ErrUnsupported) {
		t.Errorf("CapabilitiesString error = %v, want unsupported", err)
	}
	if _, err := o.GetVCPFeature(0x10); !errors.Is(err, ddc.ErrUnsupported) {
		t.Errorf("GetVCPFeature error = %v, want unsupported", err)
	}
	if err := o.SetVCPFeature(0x10, 1); !errors.Is(err, ddc.ErrUnsupported) {
		t.Errorf("SetVCPFeature error = %v, want unsupported", err)
	}
	if err := o.SaveSettings(); !errors.Is(err, ddc.ErrUnsupported) {
		t.Errorf("SaveSettings error = %v, want unsupported", err)
	}
	if _, err := o.TableRead(0x73); !errors.Is(err, ddc.ErrUnsupported) {
		t.Errorf("TableRead error = %v, want unsupported", err)
	}
	if err := o.TableWrite(0x73, 0, nil); !errors.Is(err, ddc.ErrUnsupported) {
		t.Errorf("TableWrite error = %v, want unsupported", err)
	}
	if err := o.Close(); err != nil {
		t.Errorf("Close returned error: %v", err)
	}
}
