// Package edid parses the base EDID block a display reports about itself.
//
// Parsing is a pure function from bytes to structured header and descriptor
// fields. Malformed data yields a *ParseError; callers treat that as a
// reported, non-fatal condition and keep whatever they learned from other
// sources.
package edid
