// Package backend defines the closed set of discovery and communication
// mechanisms candela can use to reach a display.
//
// A Backend value is a pure provenance tag: it records which subsystem a
// handle or a piece of display information came from and is used for
// dispatch and filtering. It carries no connection state of its own.
package backend
