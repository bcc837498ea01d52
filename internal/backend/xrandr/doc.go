// Package xrandr enumerates displays through the X11 RandR extension.
//
// RandR cannot carry DDC/CI, so the handles from this source only serve the
// EDID bytes the X server caches as an output property; every control
// operation reports itself as unsupported. The source exists to name
// connectors the way the windowing system does and to identify displays
// whose i2c buses are not accessible.
package xrandr
