package domain

import (
	"errors"
	"fmt"
)

// FailureKind classifies an operation failure so callers can branch on it
// without inspecting error text.
type FailureKind string

const (
	FailureNotFound       FailureKind = "not_found"
	FailureConnectTimeout FailureKind = "connect_timeout"
	FailureAuthFailure    FailureKind = "auth_failure"
	FailureTransportError FailureKind = "transport_error"
	FailureCommandTimeout FailureKind = "command_timeout"
	FailureParse          FailureKind = "parse_failure"
)

// OpError is the error type surfaced by the session, discovery, and tool
// layers. It names the failing device and carries a FailureKind.
type OpError struct {
	Kind   FailureKind
	Device string
	Op     string
	Err    error
}

// Error implements the error interface.
func (e *OpError) Error() string {
	msg := fmt.Sprintf("%s: device %s: %s", e.Op, e.Device, e.Kind)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes the underlying cause for errors.Is/As.
func (e *OpError) Unwrap() error {
	return e.Err
}

// NewOpError builds an OpError.
func NewOpError(kind FailureKind, device, op string, err error) *OpError {
	return &OpError{Kind: kind, Device: device, Op: op, Err: err}
}

// KindOf extracts the FailureKind from an error chain.
// Returns FailureTransportError for errors that carry no kind.
func KindOf(err error) FailureKind {
	var opErr *OpError
	if errors.As(err, &opErr) {
		return opErr.Kind
	}
	return FailureTransportError
}

// IsKind reports whether err carries the given FailureKind.
func IsKind(err error, kind FailureKind) bool {
	return err != nil && KindOf(err) == kind
}
