// Package ddc defines the capability contract every display handle must
// satisfy and the closed error taxonomy for protocol operations.
//
// The Handle interface is the minimal operation set the merge and
// enumeration layers depend on: read the vendor capability string, get or
// set one typed VCP feature, read raw EDID bytes, and a few secondary
// operations. Backends that structurally cannot perform a request report
// ErrUnsupported so callers can treat the result as "no data" instead of a
// hard failure.
package ddc
