// Package errors defines the error kinds raised by the decode bin core
// (spec §7). Each kind is a distinct type implementing the coreMarker
// interface so callers can classify an error chain with IsCoreError,
// while still layering context with fmt.Errorf("...: %w", err) the usual way.
package errors

import (
	"context"
	stdErrors "errors"
	"fmt"
	"time"
)

// coreMarker is implemented by all decode-bin-core error kinds so we can
// classify an arbitrary error chain as "one of ours".
type coreMarker interface {
	error
	isCore()
}

// WrongTypeError: top-level type resolved to text/plain, or the type-finder
// could not determine any caps at all.
type WrongTypeError struct {
	Op  string
	Err error
}

func (e *WrongTypeError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("wrong type: %s", e.Op)
	}
	return fmt.Sprintf("wrong type: %s: %v", e.Op, e.Err)
}
func (e *WrongTypeError) Unwrap() error { return e.Err }
func (e *WrongTypeError) isCore()       {}

// MissingPluginError: a chain dead-ended because no factory in the registry
// could handle the observed caps.
type MissingPluginError struct {
	Op   string
	Caps string
	Err  error
}

func (e *MissingPluginError) Error() string {
	if e.Caps == "" {
		return fmt.Sprintf("missing plugin: %s", e.Op)
	}
	return fmt.Sprintf("missing plugin: %s: no handler for %q", e.Op, e.Caps)
}
func (e *MissingPluginError) Unwrap() error { return e.Err }
func (e *MissingPluginError) isCore()       {}

// NegotiationFailedError: a candidate element was instantiated and linked
// but either failed the transition to Ready or rejected the caps via an
// accept-caps query once Ready.
type NegotiationFailedError struct {
	Op  string
	Err error
}

func (e *NegotiationFailedError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("negotiation failed: %s", e.Op)
	}
	return fmt.Sprintf("negotiation failed: %s: %v", e.Op, e.Err)
}
func (e *NegotiationFailedError) Unwrap() error { return e.Err }
func (e *NegotiationFailedError) isCore()       {}

// LinkFailedError: pad-to-pad link returned an error during autoplug.
type LinkFailedError struct {
	Op  string
	Err error
}

func (e *LinkFailedError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("link failed: %s", e.Op)
	}
	return fmt.Sprintf("link failed: %s: %v", e.Op, e.Err)
}
func (e *LinkFailedError) Unwrap() error { return e.Err }
func (e *LinkFailedError) isCore()       {}

// SourceConstructionError: the URI is invalid, unsupported, blacklisted, or
// incompatible with a live-only source.
type SourceConstructionError struct {
	Op  string
	URI string
	Err error
}

func (e *SourceConstructionError) Error() string {
	if e.URI == "" {
		return fmt.Sprintf("source construction: %s", e.Op)
	}
	if e.Err == nil {
		return fmt.Sprintf("source construction: %s: %s", e.Op, e.URI)
	}
	return fmt.Sprintf("source construction: %s: %s: %v", e.Op, e.URI, e.Err)
}
func (e *SourceConstructionError) Unwrap() error { return e.Err }
func (e *SourceConstructionError) isCore()       {}

// NoBuffersError: every exposed stream ended without producing a single
// buffer (spec §8 B4).
type NoBuffersError struct {
	Op string
}

func (e *NoBuffersError) Error() string {
	return fmt.Sprintf("no buffers: %s: all streams finished without buffers", e.Op)
}
func (e *NoBuffersError) isCore() {}

// FlushingError is returned from an in-flight autoplug operation when
// shutdown (PausedToReady) preempts it.
type FlushingError struct {
	Op string
}

func (e *FlushingError) Error() string { return fmt.Sprintf("flushing: %s", e.Op) }
func (e *FlushingError) isCore()       {}

// TimeoutError indicates an operation exceeded a deadline or idle timeout.
type TimeoutError struct {
	Op       string
	Duration time.Duration
	Err      error
}

func (e *TimeoutError) Error() string {
	base := fmt.Sprintf("timeout error: %s (after %s)", e.Op, e.Duration)
	if e.Err != nil {
		return base + ": " + e.Err.Error()
	}
	return base
}
func (e *TimeoutError) Unwrap() error { return e.Err }

// IsTimeout returns true if err is (or wraps) a TimeoutError, a context deadline exceeded,
// or any error type that exposes Timeout() bool and returns true.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	var te *TimeoutError
	if stdErrors.As(err, &te) {
		return true
	}
	if stdErrors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var toErr interface{ Timeout() bool }
	if stdErrors.As(err, &toErr) && toErr.Timeout() {
		return true
	}
	return false
}

// IsCoreError returns true if the error chain contains any decode-bin-core
// error kind declared in this package.
func IsCoreError(err error) bool {
	if err == nil {
		return false
	}
	var cm coreMarker
	return stdErrors.As(err, &cm)
}

// IsFlushing reports whether err is (or wraps) a FlushingError — the signal
// an in-flight autoplug call uses to unwind once shutdown has begun.
func IsFlushing(err error) bool {
	if err == nil {
		return false
	}
	var fe *FlushingError
	return stdErrors.As(err, &fe)
}

// Constructors (encourage contextual wrapping with %w when used by callers).
func NewWrongTypeError(op string, cause error) error { return &WrongTypeError{Op: op, Err: cause} }
func NewMissingPluginError(op, caps string, cause error) error {
	return &MissingPluginError{Op: op, Caps: caps, Err: cause}
}
func NewNegotiationFailedError(op string, cause error) error {
	return &NegotiationFailedError{Op: op, Err: cause}
}
func NewLinkFailedError(op string, cause error) error { return &LinkFailedError{Op: op, Err: cause} }
func NewSourceConstructionError(op, uri string, cause error) error {
	return &SourceConstructionError{Op: op, URI: uri, Err: cause}
}
func NewNoBuffersError(op string) error { return &NoBuffersError{Op: op} }
func NewFlushingError(op string) error  { return &FlushingError{Op: op} }
func NewTimeoutError(op string, d time.Duration, cause error) error {
	return &TimeoutError{Op: op, Duration: d, Err: cause}
}
