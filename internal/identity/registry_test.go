package identity

import "testing"

func TestSanitize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"i2c-4", "i2c-4"},
		{`DISPLAY\DEL419F\5&2c3a78e5&0`, "DISPLAY/DEL419F/5&2c3a78e5&0"},
		{"{edid}1234", "edid1234"},
		{`a\{b}c`, "a/bc"},
		{"", ""},
	}
	for _, tc := range tests {
		if got := Sanitize(tc.in); got != tc.want {
			t.Errorf("Sanitize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSanitizeIdempotent(t *testing.T) {
	inputs := []string{`DISPLAY\DEL`, "{x}", "plain", `mix\{ed}`}
	for _, in := range inputs {
		once := Sanitize(in)
		if twice := Sanitize(once); twice != once {
			t.Errorf("Sanitize(Sanitize(%q)) = %q, want %q", in, twice, once)
		}
	}
}

func TestInsertRejectsDuplicates(t *testing.T) {
	r := NewRegistry()
	id, ok := r.Insert("card0-DP-1")
	if !ok || id != "card0-DP-1" {
		t.Fatalf("first Insert = (%q, %v), want accepted", id, ok)
	}
	if _, ok := r.Insert("card0-DP-1"); ok {
		t.Error("duplicate Insert accepted, want rejected")
	}
	// Distinct raw candidates that sanitize to the same id collide too.
	if _, ok := r.Insert(`card0-DP-1`); ok {
		t.Error("sanitized duplicate accepted, want rejected")
	}
}

func TestTryInsertKeepsExisting(t *testing.T) {
	r := NewRegistry()
	id, ok := r.TryInsert("already", func() (string, bool) {
		t.Fatal("generator evaluated despite existing id")
		return "", false
	})
	if !ok || id != "already" {
		t.Errorf("TryInsert = (%q, %v), want existing id back", id, ok)
	}
}

func TestTryInsertGenerates(t *testing.T) {
	r := NewRegistry()
	id, ok := r.TryInsert("", func() (string, bool) { return `si:hw\x`, true })
	if !ok || id != "si:hw/x" {
		t.Errorf("TryInsert = (%q, %v), want sanitized generated id", id, ok)
	}
	if _, ok := r.TryInsert("", func() (string, bool) { return "", false }); ok {
		t.Error("TryInsert succeeded with an empty generator")
	}
}

func TestFinalizeFallback(t *testing.T) {
	r := NewRegistry()
	if id := r.Indexed("", 3); id != "index:3" {
		t.Errorf("Indexed = %q, want index:3", id)
	}
	// Same index again must still produce a unique id.
	id := r.Indexed("", 3)
	if id == "" || id == "index:3" {
		t.Errorf("second Indexed = %q, want a distinct non-empty id", id)
	}
	if third := r.Indexed("", 3); third == "" || third == id {
		t.Errorf("third Indexed = %q, want distinct from %q", third, id)
	}
}

func TestFinalizeKeepsAssigned(t *testing.T) {
	r := NewRegistry()
	if id := r.Indexed("mon:7", 0); id != "mon:7" {
		t.Errorf("Indexed with assigned id = %q, want mon:7", id)
	}
}
