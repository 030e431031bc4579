package loader

import (
	"errors"
	"fmt"
)

// Kind is one of the disjoint error kinds from the module's error handling
// design: six kinds describing why a Loader operation failed, plus a
// dedicated kind for constructor-time configuration validation.
type Kind int

const (
	// Locked is returned when a mutator is attempted while the Loader is
	// locked (a load is in flight).
	Locked Kind = iota
	// NotReady is returned when an operation requires a bound file and none
	// is set.
	NotReady
	// Malformed is returned when the input data violates the format's
	// structure (bad magic, unknown version, malformed header token,
	// unclosed solid, ...).
	Malformed
	// IOFailure wraps a lower-level read/write error from the underlying
	// stream.
	IOFailure
	// NotAvailable is returned when an optional attribute is queried while
	// unset.
	NotAvailable
	// InvalidTexture is returned when a referenced texture fails host
	// validation.
	InvalidTexture
	// CRCDisabled is 3DS-specific: returned when a CRC-checked chunk is
	// encountered with checksum verification disabled.
	CRCDisabled
	// InvalidArgument is returned by configuration constructors when a
	// value violates its documented minimum.
	InvalidArgument
)

func (k Kind) String() string {
	switch k {
	case Locked:
		return "locked"
	case NotReady:
		return "not ready"
	case Malformed:
		return "malformed input"
	case IOFailure:
		return "io failure"
	case NotAvailable:
		return "not available"
	case InvalidTexture:
		return "invalid texture"
	case CRCDisabled:
		return "crc disabled"
	case InvalidArgument:
		return "invalid argument"
	default:
		return "unknown"
	}
}

// Error is the single error type every package in this module returns.
// It satisfies errors.Is/errors.As/Unwrap so callers can branch on Kind
// without a hierarchy of typed error structs.
type Error struct {
	Kind  Kind
	Msg   string
	Cause error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is supports errors.Is(err, loader.New(kind, "")) style comparisons by
// matching on Kind alone.
func (e *Error) Is(target error) bool {
	var o *Error
	if errors.As(target, &o) {
		return o.Kind == e.Kind
	}
	return false
}

// New builds an *Error with no wrapped cause.
func New(kind Kind, msg string) *Error { return &Error{Kind: kind, Msg: msg} }

// Wrap builds an *Error wrapping cause.
func Wrap(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, Msg: msg, Cause: cause}
}

// Is reports whether err is a *Error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
