// Package logging builds the slog loggers used across candela and supplies
// typed attribute helpers plus the standardized field keys for structured
// output.
//
// Enumeration and protocol layers report per-device problems as warnings
// rather than failures; the helpers here keep those warnings uniform so a
// reader can always find the backend, display id, and enumeration pass a
// message belongs to.
package logging
