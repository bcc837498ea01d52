package edid

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// BlockSize is the length of the base EDID block.
const BlockSize = 128

var headerMagic = []byte{0x00, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x00}

// Descriptor tags carrying text this package extracts.
const (
	tagSerialNumber = 0xFF
	tagProductName  = 0xFC
)

// EDID holds the parsed header and the text descriptors candela cares about.
type EDID struct {
	// ManufacturerID is the three-letter PNP vendor code.
	ManufacturerID string
	// ProductCode identifies the model within the vendor's range.
	ProductCode uint16
	// Serial is the 32-bit serial number from the header, zero when unset.
	Serial uint32
	// ManufactureWeek and ManufactureYear are the raw header bytes; the
	// year is an offset from 1990.
	ManufactureWeek uint8
	ManufactureYear uint8
	// Version and Revision describe the EDID structure itself.
	Version  uint8
	Revision uint8
	// ModelName is the display product name descriptor, empty when absent.
	ModelName string
	// SerialNumber is the human-readable serial descriptor, empty when absent.
	SerialNumber string
}

// ParseError reports malformed EDID data.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse EDID: %s", e.Reason)
}

// Parse decodes the base EDID block. Extension blocks after the first 128
// bytes are ignored.
func Parse(data []byte) (*EDID, error) {
	if len(data) < BlockSize {
		return nil, &ParseError{Reason: fmt.Sprintf("block too short: %d bytes", len(data))}
	}
	block := data[:BlockSize]
	if !bytes.Equal(block[:8], headerMagic) {
		return nil, &ParseError{Reason: "missing header magic"}
	}
	var sum uint8
	for _, b := range block {
		sum += b
	}
	if sum != 0 {
		return nil, &ParseError{Reason: "checksum mismatch"}
	}

	out := &EDID{
		ManufacturerID:  decodeManufacturer(binary.BigEndian.Uint16(block[8:10])),
		ProductCode:     binary.LittleEndian.Uint16(block[10:12]),
		Serial:          binary.LittleEndian.Uint32(block[12:16]),
		ManufactureWeek: block[16],
		ManufactureYear: block[17],
		Version:         block[18],
		Revision:        block[19],
	}

	// Four 18-byte descriptor slots follow the timing data.
	for i := 0; i < 4; i++ {
		desc := block[54+18*i : 54+18*(i+1)]
		// Display descriptors (as opposed to detailed timings) start with a
		// zero pixel clock.
		if desc[0] != 0 || desc[1] != 0 {
			continue
		}
		text := decodeDescriptorText(desc[5:18])
		switch desc[3] {
		case tagProductName:
			out.ModelName = text
		case tagSerialNumber:
			out.SerialNumber = text
		}
	}

	return out, nil
}

// decodeManufacturer unpacks the three 5-bit letters of the PNP vendor code.
func decodeManufacturer(v uint16) string {
	letters := [3]byte{
		byte(v>>10) & 0x1F,
		byte(v>>5) & 0x1F,
		byte(v) & 0x1F,
	}
	var sb strings.Builder
	for _, l := range letters {
		if l == 0 || l > 26 {
			continue
		}
		sb.WriteByte('A' + l - 1)
	}
	return sb.String()
}

// decodeDescriptorText decodes a 13-byte descriptor payload. Descriptor text
// is code page 437, terminated by a line feed and padded with spaces.
func decodeDescriptorText(raw []byte) string {
	if i := bytes.IndexByte(raw, 0x0A); i >= 0 {
		raw = raw[:i]
	}
	decoded, err := charmap.CodePage437.NewDecoder().Bytes(raw)
	if err != nil {
		// CP437 decoding is total; this is unreachable in practice, but keep
		// the raw bytes rather than dropping the field.
		decoded = raw
	}
	return strings.TrimSpace(string(decoded))
}
