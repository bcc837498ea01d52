// Package identity assigns pass-local unique identifiers to displays.
//
// Candidate identifiers come from heuristic sources of varying reliability.
// The registry sanitizes each candidate and enforces uniqueness within one
// enumeration pass; callers walk their fallback chain until a candidate is
// accepted, ending at a positional index that cannot collide.
package identity

import (
	"fmt"
	"strings"
)

// Registry tracks the identifiers already assigned in the current
// enumeration pass. It is not safe for concurrent use and is not meant to
// outlive a single pass.
type Registry struct {
	ids map[string]struct{}
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{ids: make(map[string]struct{})}
}

// Sanitize rewrites characters that break downstream display or storage:
// backslashes become slashes, braces are stripped. Sanitizing an already
// sanitized string is a no-op.
func Sanitize(id string) string {
	if !strings.ContainsAny(id, `\{}`) {
		return id
	}
	id = strings.ReplaceAll(id, `\`, "/")
	id = strings.ReplaceAll(id, "{", "")
	return strings.ReplaceAll(id, "}", "")
}

// Insert sanitizes candidate and claims it. It reports false when the
// sanitized id was already assigned, signaling the caller to try the next
// fallback candidate.
func (r *Registry) Insert(candidate string) (string, bool) {
	id := Sanitize(candidate)
	if _, taken := r.ids[id]; taken {
		return "", false
	}
	r.ids[id] = struct{}{}
	return id, true
}

// TryInsert returns prev unchanged when an id is already assigned.
// Otherwise it evaluates gen; a generated candidate is inserted like
// Insert. gen reporting false means the source had nothing to offer.
func (r *Registry) TryInsert(prev string, gen func() (string, bool)) (string, bool) {
	if prev != "" {
		return prev, true
	}
	candidate, ok := gen()
	if !ok {
		return "", false
	}
	return r.Insert(candidate)
}

// Finalize returns prev if already assigned, otherwise claims the fallback.
// The fallback is expected to be collision-free by construction (a
// pass-local index); if it still collides the bare index is used directly
// so identity resolution never fails.
func (r *Registry) Finalize(prev string, fallback func() string) string {
	if prev != "" {
		return prev
	}
	candidate := fallback()
	if id, ok := r.Insert(candidate); ok {
		return id
	}
	// Degenerate case: the fallback itself collided. Suffix with an
	// increasing counter until a free slot is found; the registry is finite,
	// so this terminates.
	base := Sanitize(candidate)
	for n := len(r.ids); ; n++ {
		if id, ok := r.Insert(fmt.Sprintf("%s.%d", base, n)); ok {
			return id
		}
	}
}

// Indexed finalizes with the terminal pass-local index fallback.
func (r *Registry) Indexed(prev string, i int) string {
	return r.Finalize(prev, func() string { return fmt.Sprintf("index:%d", i) })
}
