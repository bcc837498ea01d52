// Package i2cdev talks DDC/CI to displays through Linux /dev/i2c-* device
// nodes.
//
// Enumeration walks the udev device tree for i2c-dev nodes hanging off DRM
// connectors, so only buses that actually lead to a display head are probed.
// Each opened device is guarded by an advisory flock so concurrent candela
// invocations do not interleave DDC/CI transactions on the same wire.
package i2cdev
