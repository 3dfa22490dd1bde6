package camerata

import (
	"errors"
	"fmt"
)

// ErrorKind classifies the failures a session can report.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	// KindDeviceOpen is returned synchronously when a device cannot be connected to.
	KindDeviceOpen
	// KindFormatNegotiation is latched when the capture loop cannot apply the requested format.
	KindFormatNegotiation
	// KindStreamStart is latched when the capture loop cannot start the hardware stream.
	KindStreamStart
	// KindFrameDecode marks a per-frame fetch or decode failure. These are never surfaced
	// by a session; the kind exists so drivers and decoders can classify them.
	KindFrameDecode
	// KindControlUnavailable is returned when the device behind a control no longer exists.
	KindControlUnavailable
	// KindControlKindUnsupported is returned when a range is requested from a non-integer control.
	KindControlKindUnsupported
)

func (k ErrorKind) String() string {
	switch k {
	case KindDeviceOpen:
		return "device open"
	case KindFormatNegotiation:
		return "format negotiation"
	case KindStreamStart:
		return "stream start"
	case KindFrameDecode:
		return "frame decode"
	case KindControlUnavailable:
		return "control unavailable"
	case KindControlKindUnsupported:
		return "control kind unsupported"
	default:
		return "unknown"
	}
}

// Error is the error type returned by sessions and controls. Two *Error values
// match under errors.Is when their kinds are equal, so callers can test against
// the Err* sentinels below.
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrDeviceOpen             = &Error{Kind: KindDeviceOpen}
	ErrFormatNegotiation      = &Error{Kind: KindFormatNegotiation}
	ErrStreamStart            = &Error{Kind: KindStreamStart}
	ErrFrameDecode            = &Error{Kind: KindFrameDecode}
	ErrControlUnavailable     = &Error{Kind: KindControlUnavailable}
	ErrControlKindUnsupported = &Error{Kind: KindControlKindUnsupported}
)

var (
	// ErrNoDevice is returned when an index does not name an enumerated device.
	ErrNoDevice = errors.New("no such device")
	// ErrNoDriver is returned when no driver is registered or the configured one is missing.
	ErrNoDriver = errors.New("no camera driver registered")
	// ErrSessionState is returned when Open is called on a session that was already
	// opened or has been closed.
	ErrSessionState = errors.New("session already opened or closed")
)

func newError(kind ErrorKind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func errorf(kind ErrorKind, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}
