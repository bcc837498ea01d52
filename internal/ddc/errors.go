package ddc

import (
	"errors"
	"fmt"

	"candela/internal/backend"
)

// ErrUnsupported marks an operation the backend structurally cannot
// perform. It is always recoverable: callers treat it as "no data".
var ErrUnsupported = errors.New("operation not supported by backend")

// ErrDeviceBusy indicates another process holds the device open.
var ErrDeviceBusy = errors.New("device is in use by another process")

// BackendError wraps a backend-native failure with its provenance so
// higher layers can classify it without knowing transport details.
type BackendError struct {
	Backend backend.Backend
	Op      string
	Err     error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Backend, e.Op, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }

// WrapBackend tags err with its backend and operation. A nil err stays nil;
// ErrUnsupported passes through unwrapped so errors.Is checks stay cheap at
// every layer.
func WrapBackend(b backend.Backend, op string, err error) error {
	if err == nil || errors.Is(err, ErrUnsupported) {
		return err
	}
	return &BackendError{Backend: b, Op: op, Err: err}
}

// UnsupportedOK maps ErrUnsupported to nil, leaving other errors intact.
func UnsupportedOK(err error) error {
	if errors.Is(err, ErrUnsupported) {
		return nil
	}
	return err
}

// ErrorBackend reports which backend err originated from, if any.
func ErrorBackend(err error) (backend.Backend, bool) {
	var be *BackendError
	if errors.As(err, &be) {
		return be.Backend, true
	}
	return 0, false
}
