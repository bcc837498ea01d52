package mccs

import (
	"errors"
	"reflect"
	"testing"

	"candela/internal/ddc"
)

const sampleCaps = `(prot(monitor)type(lcd)model(U2720Q)cmds(01 02 03 07 0C E3 F3)vcp(02 04 10 12 14(05 08 0B) 60(0F 11 12) DF)mccs_ver(2.1))`

func TestParseCapabilities(t *testing.T) {
	caps, err := ParseCapabilities([]byte(sampleCaps))
	if err != nil {
		t.Fatalf("ParseCapabilities returned error: %v", err)
	}

	if caps.Protocol != "monitor" {
		t.Errorf("Protocol = %q, want %q", caps.Protocol, "monitor")
	}
	if caps.Type != "lcd" {
		t.Errorf("Type = %q, want %q", caps.Type, "lcd")
	}
	if caps.Model != "U2720Q" {
		t.Errorf("Model = %q, want %q", caps.Model, "U2720Q")
	}
	if want := []uint8{0x01, 0x02, 0x03, 0x07, 0x0C, 0xE3, 0xF3}; !reflect.DeepEqual(caps.Commands, want) {
		t.Errorf("Commands = %v, want %v", caps.Commands, want)
	}
	if caps.Version == nil || *caps.Version != (Version{2, 1}) {
		t.Errorf("Version = %v, want 2.1", caps.Version)
	}

	if values, ok := caps.VCP[0x14]; !ok || !reflect.DeepEqual(values, []uint16{0x05, 0x08, 0x0B}) {
		t.Errorf("VCP[0x14] = %v, want [5 8 11]", values)
	}
	if values, ok := caps.VCP[0x10]; !ok || values != nil {
		t.Errorf("VCP[0x10] = %v (present=%v), want present and continuous", values, ok)
	}
	if _, ok := caps.VCP[ddc.FeatureVersion]; !ok {
		t.Error("VCP table is missing the version-report code")
	}
}

func TestParseCapabilitiesUnknownTag(t *testing.T) {
	caps, err := ParseCapabilities([]byte(`(model(P2415Q)mswhql(1)vcp(10 DF))`))
	if err != nil {
		t.Fatalf("ParseCapabilities returned error: %v", err)
	}
	if caps.Other["mswhql"] != "1" {
		t.Errorf("Other[mswhql] = %q, want %q", caps.Other["mswhql"], "1")
	}
}

func TestParseCapabilitiesErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"no parens", "prot(monitor)"},
		{"unbalanced", "(vcp(10"},
		{"dangling tag", "(model)"},
		{"bad vcp code", "(vcp(GG))"},
		{"bad version", "(mccs_ver(two.one))"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseCapabilities([]byte(tc.in))
			if err == nil {
				t.Fatalf("ParseCapabilities(%q) succeeded, want error", tc.in)
			}
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Errorf("error %v is not a *ParseError", err)
			}
		})
	}
}

func TestParseVersion(t *testing.T) {
	v, err := ParseVersion("2.2")
	if err != nil {
		t.Fatalf("ParseVersion returned error: %v", err)
	}
	if v != (Version{2, 2}) {
		t.Errorf("ParseVersion = %v, want 2.2", v)
	}
	if _, err := ParseVersion("3"); err == nil {
		t.Error("ParseVersion(\"3\") succeeded, want error")
	}
}
