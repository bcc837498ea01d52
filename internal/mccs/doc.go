// Package mccs models the Monitor Control Command Set metadata a display
// reports: the negotiated protocol version, the parsed vendor capability
// string, and the feature database derived from both.
//
// The capability parser is a pure function over the parenthesized vendor
// format. The feature database is seeded from the protocol version and then
// narrowed or extended by the capability table; an entry for the VCP
// version code means the database is populated.
package mccs
