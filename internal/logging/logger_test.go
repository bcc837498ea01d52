package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestNewJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "info", Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("enumeration complete", String(FieldBackend, "i2c-dev"), Int("displays", 2))

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if record["msg"] != "enumeration complete" {
		t.Errorf("msg = %v, want enumeration complete", record["msg"])
	}
	if record[FieldBackend] != "i2c-dev" {
		t.Errorf("backend = %v, want i2c-dev", record[FieldBackend])
	}
}

func TestNewConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "debug", Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Warn("failed to read EDID", String(FieldDisplayID, "card0-DP-1"))

	out := buf.String()
	if !strings.Contains(out, "WARN") {
		t.Errorf("console output missing level: %q", out)
	}
	if !strings.Contains(out, "display_id=card0-DP-1") {
		t.Errorf("console output missing attr: %q", out)
	}
}

func TestNewRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "warn", Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("hidden")
	if buf.Len() != 0 {
		t.Errorf("info record emitted at warn level: %q", buf.String())
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Error("New accepted format xml, want error")
	}
}

func TestComponentLogger(t *testing.T) {
	var buf bytes.Buffer
	base, err := New(Options{Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	NewComponentLogger(base, "scan").Info("hello")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if record[FieldComponent] != "scan" {
		t.Errorf("component = %v, want scan", record[FieldComponent])
	}

	// A nil base must not panic and must stay silent.
	NewComponentLogger(nil, "scan").Error("dropped")
}

func TestWarnWithContextInjectsDefaults(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	WarnWithContext(logger, "backend failed", "backend_enumeration_failed", Error(errors.New("no bus")))

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	for _, key := range []string{FieldEventType, FieldErrorHint, FieldImpact} {
		if _, ok := record[key]; !ok {
			t.Errorf("record missing %s: %v", key, record)
		}
	}
}
