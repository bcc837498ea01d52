package i2cdev

import (
	"bytes"
	"errors"
	"io"
	"testing"
	"time"

	"candela/internal/ddc"
)

// fakeBus records writes and serves scripted reads.
type fakeBus struct {
	writes     [][]byte
	writeAddrs []uint16
	reads      [][]byte
	readAddrs  []uint16
}

func (f *fakeBus) writeTo(addr uint16, data []byte) error {
	f.writeAddrs = append(f.writeAddrs, addr)
	f.writes = append(f.writes, append([]byte(nil), data...))
	return nil
}

func (f *fakeBus) readFrom(addr uint16, buf []byte) (int, error) {
	f.readAddrs = append(f.readAddrs, addr)
	if len(f.reads) == 0 {
		return 0, io.EOF
	}
	r := f.reads[0]
	f.reads = f.reads[1:]
	return copy(buf, r), nil
}

func (f *fakeBus) close() error { return nil }

func newTestDevice(fb *fakeBus) *Device {
	return &Device{path: "/dev/i2c-9", bus: fb, sleep: func(time.Duration) {}}
}

// frameReply wraps body in display-to-host framing with a valid checksum.
func frameReply(body []byte) []byte {
	frame := append([]byte{displayWire, lengthFlag | byte(len(body))}, body...)
	chk := byte(hostWire)
	for _, b := range frame {
		chk ^= b
	}
	return append(frame, chk)
}

func TestGetVCPFeature(t *testing.T) {
	fb := &fakeBus{reads: [][]byte{
		frameReply([]byte{opGetVCPReply, 0x00, 0x10, 0x00, 0x00, 0x64, 0x00, 0x32}),
	}}
	d := newTestDevice(fb)

	v, err := d.GetVCPFeature(0x10)
	if err != nil {
		t.Fatalf("GetVCPFeature returned error: %v", err)
	}
	if v.Current != 0x32 || v.Maximum != 0x64 || v.Type != ddc.SetParameter {
		t.Errorf("value = %+v, want current 0x32 max 0x64 set-parameter", v)
	}

	wantFrame := []byte{hostSource, 0x82, opGetVCP, 0x10}
	chk := byte(displayWire)
	for _, b := range wantFrame {
		chk ^= b
	}
	wantFrame = append(wantFrame, chk)
	if len(fb.writes) != 1 || !bytes.Equal(fb.writes[0], wantFrame) {
		t.Errorf("written frame = %#v, want %#v", fb.writes, wantFrame)
	}
	if fb.writeAddrs[0] != ddcciAddress || fb.readAddrs[0] != ddcciAddress {
		t.Errorf("addresses = %#x/%#x, want %#x", fb.writeAddrs[0], fb.readAddrs[0], ddcciAddress)
	}
}

func TestGetVCPFeatureUnsupported(t *testing.T) {
	fb := &fakeBus{reads: [][]byte{
		frameReply([]byte{opGetVCPReply, 0x01, 0xE0, 0x00, 0x00, 0x00, 0x00, 0x00}),
	}}
	d := newTestDevice(fb)

	_, err := d.GetVCPFeature(0xE0)
	if !errors.Is(err, ddc.ErrUnsupported) {
		t.Fatalf("error = %v, want ddc.ErrUnsupported", err)
	}
}

func TestGetVCPFeatureChecksumMismatch(t *testing.T) {
	reply := frameReply([]byte{opGetVCPReply, 0x00, 0x10, 0x00, 0x00, 0x64, 0x00, 0x32})
	reply[len(reply)-1] ^= 0xFF
	fb := &fakeBus{reads: [][]byte{reply}}
	d := newTestDevice(fb)

	_, err := d.GetVCPFeature(0x10)
	if !errors.Is(err, errChecksum) {
		t.Fatalf("error = %v, want checksum mismatch", err)
	}
}

func TestSetVCPFeature(t *testing.T) {
	fb := &fakeBus{}
	d := newTestDevice(fb)

	if err := d.SetVCPFeature(0x10, 0x1234); err != nil {
		t.Fatalf("SetVCPFeature returned error: %v", err)
	}
	want := []byte{hostSource, 0x84, opSetVCP, 0x10, 0x12, 0x34}
	chk := byte(displayWire)
	for _, b := range want {
		chk ^= b
	}
	want = append(want, chk)
	if len(fb.writes) != 1 || !bytes.Equal(fb.writes[0], want) {
		t.Errorf("written frame = %#v, want %#v", fb.writes, want)
	}
}

func TestCapabilitiesString(t *testing.T) {
	frag1 := []byte("(prot(monitor)")
	frag2 := []byte("model(X))")
	fb := &fakeBus{reads: [][]byte{
		frameReply(append([]byte{opCapsReply, 0x00, 0x00}, frag1...)),
		frameReply(append([]byte{opCapsReply, 0x00, byte(len(frag1))}, frag2...)),
		frameReply([]byte{opCapsReply, 0x00, byte(len(frag1) + len(frag2))}),
	}}
	d := newTestDevice(fb)

	caps, err := d.CapabilitiesString()
	if err != nil {
		t.Fatalf("CapabilitiesString returned error: %v", err)
	}
	if want := "(prot(monitor)model(X))"; string(caps) != want {
		t.Errorf("capabilities = %q, want %q", caps, want)
	}
	// Each request carries the running offset.
	if got := fb.writes[1][4]; got != byte(len(frag1)) {
		t.Errorf("second request offset byte = %d, want %d", got, len(frag1))
	}
}

func TestCapabilitiesStringOffsetMismatch(t *testing.T) {
	fb := &fakeBus{reads: [][]byte{
		frameReply(append([]byte{opCapsReply, 0x00, 0x07}, []byte("abc")...)),
	}}
	d := newTestDevice(fb)

	if _, err := d.CapabilitiesString(); err == nil {
		t.Fatal("CapabilitiesString succeeded, want offset mismatch error")
	}
}

func TestReadEDID(t *testing.T) {
	edid := bytes.Repeat([]byte{0xAB}, 128)
	fb := &fakeBus{reads: [][]byte{edid}}
	d := newTestDevice(fb)

	buf := make([]byte, 128)
	n, err := d.ReadEDID(0, buf)
	if err != nil {
		t.Fatalf("ReadEDID returned error: %v", err)
	}
	if n != 128 || !bytes.Equal(buf, edid) {
		t.Errorf("read %d bytes, want full EEPROM contents", n)
	}
	if fb.writeAddrs[0] != edidAddress || !bytes.Equal(fb.writes[0], []byte{0}) {
		t.Errorf("offset write = addr %#x data %#v, want %#x {0}", fb.writeAddrs[0], fb.writes[0], edidAddress)
	}
}

func TestTableWriteFragments(t *testing.T) {
	fb := &fakeBus{}
	d := newTestDevice(fb)

	data := bytes.Repeat([]byte{0x11}, fragmentSize+5)
	if err := d.TableWrite(0x73, 0, data); err != nil {
		t.Fatalf("TableWrite returned error: %v", err)
	}
	if len(fb.writes) != 2 {
		t.Fatalf("wrote %d frames, want 2", len(fb.writes))
	}
	// Second fragment starts where the first ended.
	second := fb.writes[1]
	if second[4] != 0x00 || second[5] != fragmentSize {
		t.Errorf("second fragment offset = %#x%02x, want %#x", second[4], second[5], fragmentSize)
	}
}

func TestBusNumber(t *testing.T) {
	tests := []struct {
		devname string
		bus     int
		ok      bool
	}{
		{"i2c-0", 0, true},
		{"i2c-12", 12, true},
		{"i2c-", 0, false},
		{"sda1", 0, false},
	}
	for _, tc := range tests {
		bus, ok := busNumber(tc.devname)
		if bus != tc.bus || ok != tc.ok {
			t.Errorf("busNumber(%q) = %d, %v, want %d, %v", tc.devname, bus, ok, tc.bus, tc.ok)
		}
	}
}
