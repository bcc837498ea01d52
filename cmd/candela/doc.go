// Package main hosts the candela CLI entrypoint and command graph.
//
// The Cobra-based command tree translates terminal invocations into
// enumeration passes and DDC/CI feature operations: display detection,
// capability inspection, VCP feature reads and writes, and hotplug watching.
// It centralizes configuration resolution, display selection, and structured
// logging setup so subcommands can focus on user experience instead of
// wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
