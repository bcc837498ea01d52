package i2cdev

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// bus is the raw byte transport under the DDC/CI framing. Split out so the
// protocol layer can be exercised against a scripted transport in tests.
type bus interface {
	writeTo(addr uint16, data []byte) error
	readFrom(addr uint16, buf []byte) (int, error)
	close() error
}

// i2cSlave is the I2C_SLAVE ioctl request from <linux/i2c-dev.h>;
// golang.org/x/sys/unix does not export it.
const i2cSlave = 0x0703

// devBus drives a /dev/i2c-* node through the i2c-dev ioctl interface.
type devBus struct {
	f *os.File
}

func openDevBus(path string) (*devBus, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}
	return &devBus{f: f}, nil
}

func (b *devBus) setSlave(addr uint16) error {
	if err := unix.IoctlSetInt(int(b.f.Fd()), i2cSlave, int(addr)); err != nil {
		return fmt.Errorf("select slave %#02x: %w", addr, err)
	}
	return nil
}

func (b *devBus) writeTo(addr uint16, data []byte) error {
	if err := b.setSlave(addr); err != nil {
		return err
	}
	if _, err := b.f.Write(data); err != nil {
		return fmt.Errorf("write %d bytes to %#02x: %w", len(data), addr, err)
	}
	return nil
}

func (b *devBus) readFrom(addr uint16, buf []byte) (int, error) {
	if err := b.setSlave(addr); err != nil {
		return 0, err
	}
	n, err := b.f.Read(buf)
	if err != nil {
		return n, fmt.Errorf("read from %#02x: %w", addr, err)
	}
	return n, nil
}

func (b *devBus) close() error { return b.f.Close() }
