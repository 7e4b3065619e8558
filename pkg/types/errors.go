// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"context"
	"errors"
	"fmt"
)

// ErrorKind classifies an operation failure so the presentation layer can
// decide what to show without parsing free text. Per prd007-operations R3.1.
type ErrorKind string

const (
	// KindValidation marks bad, missing, or unsupported input. The
	// operation never starts.
	KindValidation ErrorKind = "validation"

	// KindDecode marks a file the codec rejected at open time.
	KindDecode ErrorKind = "decode"

	// KindInvalidRange marks a page selection inconsistent with the
	// document's page count.
	KindInvalidRange ErrorKind = "invalid_range"

	// KindPermission marks an unwritable destination, surfaced before any
	// page work begins.
	KindPermission ErrorKind = "permission"

	// KindIO marks a failure during processing or writing. The partial
	// output is already cleaned up when this is reported.
	KindIO ErrorKind = "io"

	// KindCancelled marks a caller-requested cancellation. Not a fault.
	KindCancelled ErrorKind = "cancelled"
)

// Error is a structured pipeline error: the failing file (when one is
// identifiable), a specific reason, and the wrapped cause.
// Per prd007-operations R3.2: reasons are actionable, never generic.
type Error struct {
	Kind   ErrorKind
	Path   string
	Reason string
	Err    error
}

func (e *Error) Error() string {
	switch {
	case e.Path != "" && e.Reason != "":
		return fmt.Sprintf("%s: %s", e.Path, e.Reason)
	case e.Path != "":
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	case e.Reason != "":
		return e.Reason
	default:
		return fmt.Sprintf("%v", e.Err)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// NewValidationError reports an input that failed pre-flight checks.
func NewValidationError(path, reason string) *Error {
	return &Error{Kind: KindValidation, Path: path, Reason: reason}
}

// NewDecodeError reports a file the codec rejected.
func NewDecodeError(path, reason string, err error) *Error {
	return &Error{Kind: KindDecode, Path: path, Reason: reason, Err: err}
}

// NewInvalidRangeError reports a page selection outside the document.
func NewInvalidRangeError(reason string) *Error {
	return &Error{Kind: KindInvalidRange, Reason: reason}
}

// NewPermissionError reports an unwritable destination.
func NewPermissionError(path string, err error) *Error {
	return &Error{Kind: KindPermission, Path: path, Reason: "destination is not writable", Err: err}
}

// NewIOError reports a read or write failure during processing.
func NewIOError(path string, err error) *Error {
	return &Error{Kind: KindIO, Path: path, Err: err}
}

// KindOf maps err onto the error taxonomy. Cancellation is recognized from
// context errors; anything untyped counts as an I/O failure.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return KindCancelled
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindIO
}
