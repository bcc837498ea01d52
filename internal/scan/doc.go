// Package scan runs one enumeration pass: it probes every enabled backend,
// correlates the partial records that describe the same physical display,
// and mints a unique identifier for each one.
//
// Enumeration is resilient by construction. A backend that fails wholesale
// is logged and skipped; a single device that cannot be opened or probed
// never aborts the pass. The returned displays are whatever could be
// reached, which may legitimately be none.
package scan
