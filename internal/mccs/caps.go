package mccs

import (
	"fmt"
	"strconv"
	"strings"

	"candela/internal/ddc"
)

// Capabilities is the parsed form of a vendor capability string.
type Capabilities struct {
	// Protocol and Type are the prot(...) and type(...) tags.
	Protocol string
	Type     string
	// Model is the vendor's model name, empty when not reported.
	Model string
	// Commands lists the supported DDC command opcodes.
	Commands []uint8
	// VCP maps each supported feature code to its declared value list.
	// A nil slice means the feature is continuous.
	VCP map[ddc.FeatureCode][]uint16
	// Version is the mccs_ver(...) tag, nil when not reported.
	Version *Version
	// EDID carries raw EDID bytes when the vendor embeds them.
	EDID []byte
	// Other preserves tags this package does not interpret.
	Other map[string]string
}

// ParseError reports a malformed capability string.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse capabilities: %s", e.Reason)
}

// ParseCapabilities decodes the parenthesized vendor capability format, e.g.
//
//	(prot(monitor)type(lcd)model(U2720Q)cmds(01 02 03 0C E3 F3)
//	 vcp(02 04 10 12 14(05 08 0B) 60(0F 11) DF)mccs_ver(2.1))
func ParseCapabilities(raw []byte) (*Capabilities, error) {
	s := strings.TrimSpace(string(raw))
	if len(s) < 2 || s[0] != '(' || s[len(s)-1] != ')' {
		return nil, &ParseError{Reason: "missing outer parentheses"}
	}
	body := s[1 : len(s)-1]

	caps := &Capabilities{
		VCP:   map[ddc.FeatureCode][]uint16{},
		Other: map[string]string{},
	}

	for i := 0; i < len(body); {
		if isSpace(body[i]) {
			i++
			continue
		}
		open := strings.IndexByte(body[i:], '(')
		if open < 0 {
			return nil, &ParseError{Reason: fmt.Sprintf("tag %q has no value", strings.TrimSpace(body[i:]))}
		}
		tag := strings.TrimSpace(body[i : i+open])
		value, next, err := balanced(body, i+open)
		if err != nil {
			return nil, err
		}
		i = next

		switch tag {
		case "prot":
			caps.Protocol = value
		case "type":
			caps.Type = value
		case "model":
			caps.Model = value
		case "cmds":
			cmds, err := parseHexBytes(value)
			if err != nil {
				return nil, err
			}
			caps.Commands = cmds
		case "vcp":
			if err := parseVCP(value, caps.VCP); err != nil {
				return nil, err
			}
		case "mccs_ver":
			v, err := ParseVersion(value)
			if err != nil {
				return nil, &ParseError{Reason: err.Error()}
			}
			caps.Version = &v
		case "edid":
			caps.EDID = []byte(value)
		default:
			caps.Other[tag] = value
		}
	}

	return caps, nil
}

// balanced extracts the parenthesized value starting at body[open] and
// returns it together with the index just past the closing parenthesis.
func balanced(body string, open int) (string, int, error) {
	depth := 0
	for i := open; i < len(body); i++ {
		switch body[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return body[open+1 : i], i + 1, nil
			}
		}
	}
	return "", 0, &ParseError{Reason: "unbalanced parentheses"}
}

func parseHexBytes(s string) ([]uint8, error) {
	fields := strings.Fields(s)
	out := make([]uint8, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseUint(f, 16, 8)
		if err != nil {
			return nil, &ParseError{Reason: fmt.Sprintf("bad hex byte %q", f)}
		}
		out = append(out, uint8(v))
	}
	return out, nil
}

// parseVCP reads the feature list. Each entry is a hex code, optionally
// followed by a parenthesized list of allowed hex values.
func parseVCP(s string, into map[ddc.FeatureCode][]uint16) error {
	for i := 0; i < len(s); {
		if isSpace(s[i]) {
			i++
			continue
		}
		end := i
		for end < len(s) && !isSpace(s[end]) && s[end] != '(' {
			end++
		}
		code, err := strconv.ParseUint(s[i:end], 16, 8)
		if err != nil {
			return &ParseError{Reason: fmt.Sprintf("bad vcp code %q", s[i:end])}
		}
		i = end
		for i < len(s) && isSpace(s[i]) {
			i++
		}

		var values []uint16
		if i < len(s) && s[i] == '(' {
			body, next, err := balanced(s, i)
			if err != nil {
				return err
			}
			i = next
			for _, f := range strings.Fields(body) {
				v, err := strconv.ParseUint(f, 16, 16)
				if err != nil {
					return &ParseError{Reason: fmt.Sprintf("bad vcp value %q", f)}
				}
				values = append(values, uint16(v))
			}
		}
		into[ddc.FeatureCode(code)] = values
	}
	return nil
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n'
}
