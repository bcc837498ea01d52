package i2cdev

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/flock"

	"candela/internal/backend"
	"candela/internal/ddc"
)

// I2C slave addresses defined by the DDC standards.
const (
	edidAddress  = 0x50
	ddcciAddress = 0x37
)

// DDC/CI framing constants.
const (
	hostSource   = 0x51 // source address byte in host-to-display frames
	displayWire  = ddcciAddress << 1
	hostWire     = 0x50 // virtual host address folded into reply checksums
	lengthFlag   = 0x80
	fragmentSize = 32
)

// Command opcodes.
const (
	opGetVCP       = 0x01
	opGetVCPReply  = 0x02
	opSetVCP       = 0x03
	opSaveSettings = 0x0C
	opCapsRequest  = 0xF3
	opCapsReply    = 0xE3
	opTableRead    = 0xE2
	opTableReply   = 0xE4
	opTableWrite   = 0xE7
)

// Post-command settle times from the DDC/CI timing rules.
const (
	delayGet  = 40 * time.Millisecond
	delaySet  = 50 * time.Millisecond
	delayCaps = 50 * time.Millisecond
	delaySave = 200 * time.Millisecond
)

var errChecksum = errors.New("response checksum mismatch")

// Device is one DDC/CI-capable display reached through an i2c device node.
// It is not safe for concurrent use.
type Device struct {
	path    string
	sysPath string
	lock    *flock.Flock
	bus     bus
	sleep   func(time.Duration)
}

// Open claims the device node at path. The node is flock-guarded; a node
// held by another process reports ddc.ErrDeviceBusy.
func Open(path string) (*Device, error) {
	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, ddc.WrapBackend(backend.I2CDevice, "lock", err)
	}
	if !ok {
		return nil, ddc.WrapBackend(backend.I2CDevice, "lock", ddc.ErrDeviceBusy)
	}
	b, err := openDevBus(path)
	if err != nil {
		_ = lock.Unlock()
		return nil, ddc.WrapBackend(backend.I2CDevice, "open", err)
	}
	return &Device{path: path, lock: lock, bus: b, sleep: time.Sleep}, nil
}

// Path returns the device node path, e.g. "/dev/i2c-4".
func (d *Device) Path() string { return d.path }

// SysPath returns the sysfs kobject path the node was enumerated under,
// empty when the device was opened directly.
func (d *Device) SysPath() string { return d.sysPath }

func (d *Device) Backend() backend.Backend { return backend.I2CDevice }

// Close releases the bus and the advisory lock.
func (d *Device) Close() error {
	err := d.bus.close()
	if d.lock != nil {
		if uerr := d.lock.Unlock(); err == nil {
			err = uerr
		}
	}
	return ddc.WrapBackend(backend.I2CDevice, "close", err)
}

// sendCommand frames body into a host-to-display DDC/CI packet.
func (d *Device) sendCommand(body []byte) error {
	frame := make([]byte, 0, len(body)+3)
	frame = append(frame, hostSource, lengthFlag|byte(len(body)))
	frame = append(frame, body...)
	chk := byte(displayWire)
	for _, b := range frame {
		chk ^= b
	}
	frame = append(frame, chk)
	return d.bus.writeTo(ddcciAddress, frame)
}

// readResponse reads a display-to-host packet expecting up to bodyLen body
// bytes and returns the verified body.
func (d *Device) readResponse(bodyLen int) ([]byte, error) {
	buf := make([]byte, bodyLen+3)
	n, err := d.bus.readFrom(ddcciAddress, buf)
	if err != nil {
		return nil, err
	}
	buf = buf[:n]
	if len(buf) < 3 {
		return nil, fmt.Errorf("short response: %d bytes", len(buf))
	}
	if buf[0] != displayWire {
		return nil, fmt.Errorf("unexpected source address %#02x", buf[0])
	}
	length := int(buf[1] &^ lengthFlag)
	if len(buf) < length+3 {
		return nil, fmt.Errorf("truncated response: %d body bytes declared, %d available", length, len(buf)-3)
	}
	chk := byte(hostWire)
	for _, b := range buf[:length+3] {
		chk ^= b
	}
	if chk != 0 {
		return nil, errChecksum
	}
	return buf[2 : 2+length], nil
}

// transact sends a command, waits the mandated settle time, and reads back
// the reply body.
func (d *Device) transact(body []byte, settle time.Duration, replyLen int) ([]byte, error) {
	if err := d.sendCommand(body); err != nil {
		return nil, err
	}
	d.sleep(settle)
	return d.readResponse(replyLen)
}

func (d *Device) GetVCPFeature(code ddc.FeatureCode) (ddc.Value, error) {
	reply, err := d.transact([]byte{opGetVCP, byte(code)}, delayGet, 8)
	if err != nil {
		return ddc.Value{}, ddc.WrapBackend(backend.I2CDevice, "get vcp", err)
	}
	if len(reply) < 8 || reply[0] != opGetVCPReply {
		return ddc.Value{}, ddc.WrapBackend(backend.I2CDevice, "get vcp",
			fmt.Errorf("malformed reply opcode %#02x length %d", replyOp(reply), len(reply)))
	}
	switch reply[1] {
	case 0:
	case 1:
		// The display itself reports the code as unsupported.
		return ddc.Value{}, ddc.ErrUnsupported
	default:
		return ddc.Value{}, ddc.WrapBackend(backend.I2CDevice, "get vcp",
			fmt.Errorf("result code %#02x", reply[1]))
	}
	if reply[2] != byte(code) {
		return ddc.Value{}, ddc.WrapBackend(backend.I2CDevice, "get vcp",
			fmt.Errorf("reply for code %#02x, requested %#02x", reply[2], byte(code)))
	}
	vt := ddc.SetParameter
	if reply[3] == 1 {
		vt = ddc.Momentary
	}
	return ddc.Value{
		Maximum: uint16(reply[4])<<8 | uint16(reply[5]),
		Current: uint16(reply[6])<<8 | uint16(reply[7]),
		Type:    vt,
	}, nil
}

func (d *Device) SetVCPFeature(code ddc.FeatureCode, value uint16) error {
	err := d.sendCommand([]byte{opSetVCP, byte(code), byte(value >> 8), byte(value)})
	if err != nil {
		return ddc.WrapBackend(backend.I2CDevice, "set vcp", err)
	}
	d.sleep(delaySet)
	return nil
}

func (d *Device) SaveSettings() error {
	if err := d.sendCommand([]byte{opSaveSettings}); err != nil {
		return ddc.WrapBackend(backend.I2CDevice, "save settings", err)
	}
	d.sleep(delaySave)
	return nil
}

// CapabilitiesString assembles the capability string from its 32-byte
// fragments. The display signals the end with an empty fragment.
func (d *Device) CapabilitiesString() ([]byte, error) {
	var out []byte
	for {
		offset := uint16(len(out))
		req := []byte{opCapsRequest, byte(offset >> 8), byte(offset)}
		reply, err := d.transact(req, delayCaps, fragmentSize+3)
		if err != nil {
			return nil, ddc.WrapBackend(backend.I2CDevice, "capabilities", err)
		}
		if len(reply) < 3 || reply[0] != opCapsReply {
			return nil, ddc.WrapBackend(backend.I2CDevice, "capabilities",
				fmt.Errorf("malformed reply opcode %#02x", replyOp(reply)))
		}
		if got := uint16(reply[1])<<8 | uint16(reply[2]); got != offset {
			return nil, ddc.WrapBackend(backend.I2CDevice, "capabilities",
				fmt.Errorf("fragment offset %d, requested %d", got, offset))
		}
		frag := reply[3:]
		if len(frag) == 0 {
			return out, nil
		}
		out = append(out, frag...)
	}
}

// TableRead assembles a table-typed feature from its fragments.
func (d *Device) TableRead(code ddc.FeatureCode) ([]byte, error) {
	var out []byte
	for {
		offset := uint16(len(out))
		req := []byte{opTableRead, byte(code), byte(offset >> 8), byte(offset)}
		reply, err := d.transact(req, delayCaps, fragmentSize+3)
		if err != nil {
			return nil, ddc.WrapBackend(backend.I2CDevice, "table read", err)
		}
		if len(reply) < 3 || reply[0] != opTableReply {
			return nil, ddc.WrapBackend(backend.I2CDevice, "table read",
				fmt.Errorf("malformed reply opcode %#02x", replyOp(reply)))
		}
		if got := uint16(reply[1])<<8 | uint16(reply[2]); got != offset {
			return nil, ddc.WrapBackend(backend.I2CDevice, "table read",
				fmt.Errorf("fragment offset %d, requested %d", got, offset))
		}
		frag := reply[3:]
		if len(frag) == 0 {
			return out, nil
		}
		out = append(out, frag...)
	}
}

// TableWrite sends data in fragments of at most 32 bytes.
func (d *Device) TableWrite(code ddc.FeatureCode, offset uint16, data []byte) error {
	for len(data) > 0 {
		n := len(data)
		if n > fragmentSize {
			n = fragmentSize
		}
		body := make([]byte, 0, n+4)
		body = append(body, opTableWrite, byte(code), byte(offset>>8), byte(offset))
		body = append(body, data[:n]...)
		if err := d.sendCommand(body); err != nil {
			return ddc.WrapBackend(backend.I2CDevice, "table write", err)
		}
		d.sleep(delaySet)
		offset += uint16(n)
		data = data[n:]
	}
	return nil
}

// ReadEDID reads from the EDID EEPROM at 0x50: set the word offset, then
// stream bytes.
func (d *Device) ReadEDID(offset uint8, buf []byte) (int, error) {
	if err := d.bus.writeTo(edidAddress, []byte{offset}); err != nil {
		return 0, ddc.WrapBackend(backend.I2CDevice, "read edid", err)
	}
	n, err := d.bus.readFrom(edidAddress, buf)
	if err != nil {
		return n, ddc.WrapBackend(backend.I2CDevice, "read edid", err)
	}
	return n, nil
}

func replyOp(reply []byte) byte {
	if len(reply) == 0 {
		return 0
	}
	return reply[0]
}
