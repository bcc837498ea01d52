package mccs

import (
	"reflect"
	"testing"

	"candela/internal/ddc"
)

func TestFromVersion(t *testing.T) {
	db := FromVersion(Version{2, 1})

	if feature, ok := db.Get(0x10); !ok || feature.Name != "Luminance" {
		t.Errorf("Get(0x10) = %+v (ok=%v), want Luminance", feature, ok)
	}
	if _, ok := db.Get(ddc.FeatureVersion); !ok {
		t.Error("database from version is missing the version-report code")
	}
	// Image Mode arrived in 2.2 and must not appear for 2.1.
	if _, ok := db.Get(0xDB); ok {
		t.Error("Get(0xDB) present for version 2.1, want absent")
	}
	if _, ok := FromVersion(Version{2, 2}).Get(0xDB); !ok {
		t.Error("Get(0xDB) absent for version 2.2, want present")
	}
}

func TestApplyCapabilities(t *testing.T) {
	caps, err := ParseCapabilities([]byte(sampleCaps))
	if err != nil {
		t.Fatalf("ParseCapabilities returned error: %v", err)
	}

	db := FromVersion(Version{2, 1})
	db.ApplyCapabilities(caps)

	if _, ok := db.Get(0xD6); ok {
		t.Error("Power Mode survived ApplyCapabilities despite not being declared")
	}
	feature, ok := db.Get(0x14)
	if !ok {
		t.Fatal("declared feature 0x14 missing after ApplyCapabilities")
	}
	if want := []uint16{0x05, 0x08, 0x0B}; !reflect.DeepEqual(feature.Values, want) {
		t.Errorf("feature 0x14 values = %v, want %v", feature.Values, want)
	}
	if feature, ok := db.Get(0x14); !ok || feature.Name != "Select Color Preset" {
		t.Errorf("feature 0x14 lost its name: %+v", feature)
	}
	// The version-report entry marks the database as populated.
	if _, ok := db.Get(ddc.FeatureVersion); !ok {
		t.Error("version-report code missing after ApplyCapabilities")
	}
}

func TestApplyCapabilitiesKeepsUnknownCodes(t *testing.T) {
	caps, err := ParseCapabilities([]byte(`(vcp(10 E0(01 02)))`))
	if err != nil {
		t.Fatalf("ParseCapabilities returned error: %v", err)
	}
	db := FromVersion(Version{2, 0})
	db.ApplyCapabilities(caps)

	feature, ok := db.Get(0xE0)
	if !ok {
		t.Fatal("vendor-specific code 0xE0 missing after ApplyCapabilities")
	}
	if feature.Name != "" {
		t.Errorf("vendor-specific code got a name: %q", feature.Name)
	}
	if want := []uint16{0x01, 0x02}; !reflect.DeepEqual(feature.Values, want) {
		t.Errorf("feature 0xE0 values = %v, want %v", feature.Values, want)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	db := FromVersion(Version{2, 0})
	clone := db.Clone()

	caps, _ := ParseCapabilities([]byte(`(vcp(10))`))
	db.ApplyCapabilities(caps)

	if clone.Len() == db.Len() {
		t.Error("mutating the original changed the clone's size")
	}
	if _, ok := clone.Get(0xD6); !ok {
		t.Error("clone lost entries after the original was narrowed")
	}
}

func TestZeroDatabase(t *testing.T) {
	var db Database
	if _, ok := db.Get(ddc.FeatureVersion); ok {
		t.Error("zero database claims to know the version-report code")
	}
	if db.Len() != 0 {
		t.Errorf("zero database Len() = %d, want 0", db.Len())
	}
}
