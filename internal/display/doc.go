// Package display assembles the canonical per-display record candela
// exposes to callers.
//
// An Info is built from up to three fragments, none guaranteed present:
// parsed EDID, the parsed vendor capability string, and a live-queried
// protocol version. Merging is fill-only-if-missing, so more data never
// degrades a previously gathered field. The one exception: a source
// carrying a populated feature database replaces a stale or incomplete one
// wholesale, together with the protocol version it was derived from.
//
// A Display owns one communication handle and the cached fragments, and
// exposes idempotent, independently retryable update operations. Info() is
// a pure projection recomputed from the caches on every call.
package display
