package main

import (
	"testing"

	"candela/internal/backend"
	"candela/internal/display"
)

func TestParseFeatureCode(t *testing.T) {
	tests := []struct {
		in      string
		want    uint8
		wantErr bool
	}{
		{"10", 0x10, false},
		{"0x10", 0x10, false},
		{"DF", 0xDF, false},
		{"0xdf", 0xDF, false},
		{" 12 ", 0x12, false},
		{"zz", 0, true},
		{"100", 0, true},
		{"", 0, true},
	}
	for _, tc := range tests {
		got, err := parseFeatureCode(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("parseFeatureCode(%q) succeeded, want error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseFeatureCode(%q) returned error: %v", tc.in, err)
			continue
		}
		if uint8(got) != tc.want {
			t.Errorf("parseFeatureCode(%q) = %#02x, want %#02x", tc.in, uint8(got), tc.want)
		}
	}
}

func TestParseFeatureValue(t *testing.T) {
	tests := []struct {
		in      string
		want    uint16
		wantErr bool
	}{
		{"50", 50, false},
		{"0x32", 0x32, false},
		{"0", 0, false},
		{"65535", 65535, false},
		{"65536", 0, true},
		{"-1", 0, true},
		{"abc", 0, true},
	}
	for _, tc := range tests {
		got, err := parseFeatureValue(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("parseFeatureValue(%q) succeeded, want error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseFeatureValue(%q) returned error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("parseFeatureValue(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestSelectorQuery(t *testing.T) {
	manufacturer := "DEL"
	model := "U2720Q"
	info := display.NewInfo(backend.I2CDevice, "DP-1")
	info.ManufacturerID = &manufacturer
	info.ModelName = &model

	t.Run("empty selector matches everything", func(t *testing.T) {
		sel := &selectorFlags{}
		q, err := sel.query()
		if err != nil {
			t.Fatalf("query returned error: %v", err)
		}
		if !q.Matches(info) {
			t.Error("empty selector did not match")
		}
	})

	t.Run("criteria are conjunctive", func(t *testing.T) {
		sel := &selectorFlags{manufacturer: "DEL", model: "other"}
		q, err := sel.query()
		if err != nil {
			t.Fatalf("query returned error: %v", err)
		}
		if q.Matches(info) {
			t.Error("mismatching model still matched")
		}
	})

	t.Run("id and backend", func(t *testing.T) {
		sel := &selectorFlags{id: "DP-1", backend: "i2c-dev"}
		q, err := sel.query()
		if err != nil {
			t.Fatalf("query returned error: %v", err)
		}
		if !q.Matches(info) {
			t.Error("matching id+backend selector did not match")
		}
	})

	t.Run("bad backend name", func(t *testing.T) {
		sel := &selectorFlags{backend: "quartz"}
		if _, err := sel.query(); err == nil {
			t.Error("unknown backend accepted")
		}
	})
}

func TestRequireOne(t *testing.T) {
	if _, err := requireOne(nil); err == nil {
		t.Error("empty match list accepted")
	}

	d1 := display.New("DP-1", nil)
	d2 := display.New("DP-2", nil)
	if _, err := requireOne([]*display.Display{d1, d2}); err == nil {
		t.Error("ambiguous match list accepted")
	}

	got, err := requireOne([]*display.Display{d1})
	if err != nil || got != d1 {
		t.Errorf("requireOne = %v, %v, want the single display", got, err)
	}
}
