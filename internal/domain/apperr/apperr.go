// Package apperr carries the engine's error taxonomy. Failure messages are
// part of the call contract: callers and tests match on them, so they describe
// the violated invariant in plain words.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure for the transport layer.
type Kind int

const (
	// KindNotFound means a referenced document does not exist.
	KindNotFound Kind = iota + 1
	// KindInvalidArgument means the input itself is malformed.
	KindInvalidArgument
	// KindConflict means the operation violates a state-machine rule.
	KindConflict
)

// Error is a classified failure with a human-readable message.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// NotFound builds a not-found error.
func NotFound(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// InvalidArgument builds a malformed-input error.
func InvalidArgument(format string, args ...interface{}) *Error {
	return &Error{Kind: KindInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

// Conflict builds a state-machine violation error.
func Conflict(format string, args ...interface{}) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the kind from err, or 0 when err is not an engine error.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return 0
}

// IsNotFound reports whether err is a not-found failure.
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

// IsInvalidArgument reports whether err is a malformed-input failure.
func IsInvalidArgument(err error) bool { return KindOf(err) == KindInvalidArgument }

// IsConflict reports whether err is a state-machine violation.
func IsConflict(err error) bool { return KindOf(err) == KindConflict }
