package ir

import (
	"errors"
	"fmt"
)

// Error is a construction-time failure surfaced to the caller before any
// generation occurs. No partially built mapping is ever returned with it.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Details contains additional context.
	Details map[string]string
}

// ErrorCode categorizes construction errors.
type ErrorCode string

const (
	// ErrCodeInvalidLength indicates the input length cannot be laid out on a grid.
	ErrCodeInvalidLength ErrorCode = "INVALID_LENGTH"

	// ErrCodeInvalidGrammar indicates a malformed grammar or an unusable depth.
	ErrCodeInvalidGrammar ErrorCode = "INVALID_GRAMMAR"

	// ErrCodeInvalidPayload indicates the payload is not a whole number of elements.
	ErrCodeInvalidPayload ErrorCode = "INVALID_PAYLOAD"

	// ErrCodeUnknownCurve indicates no generator is registered under a name.
	ErrCodeUnknownCurve ErrorCode = "UNKNOWN_CURVE"
)

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewError creates an Error with a formatted message.
func NewError(code ErrorCode, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WithDetail returns e with one more detail entry.
func (e *Error) WithDetail(key, value string) *Error {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// CodeOf returns the code of the first *Error in err's chain, or "".
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsInvalidLength returns true if the error is an INVALID_LENGTH error.
// Uses errors.As to handle wrapped errors.
func IsInvalidLength(err error) bool {
	return CodeOf(err) == ErrCodeInvalidLength
}

// IsInvalidGrammar returns true if the error is an INVALID_GRAMMAR error.
// Uses errors.As to handle wrapped errors.
func IsInvalidGrammar(err error) bool {
	return CodeOf(err) == ErrCodeInvalidGrammar
}

// InvariantError reports a broken generator: two sequence positions landed
// on one cell, a coordinate left the grid, or the generator ran dry early.
// It is raised with panic, never returned; a validated configuration
// cannot produce it.
type InvariantError struct {
	Code  InvariantCode
	Index int   // sequence position being placed
	Point Point // coordinate produced for Index
	Prior int   // earlier position occupying the cell (collisions only)
}

// InvariantCode categorizes invariant violations.
type InvariantCode string

const (
	InvCollisionDetected InvariantCode = "COLLISION_DETECTED"
	InvOutOfBounds       InvariantCode = "OUT_OF_BOUNDS"
	InvShortCurve        InvariantCode = "SHORT_CURVE"
)

// Error implements the error interface.
func (e *InvariantError) Error() string {
	switch e.Code {
	case InvCollisionDetected:
		return fmt.Sprintf("%s: index %d maps to %s already taken by index %d", e.Code, e.Index, e.Point, e.Prior)
	case InvOutOfBounds:
		return fmt.Sprintf("%s: index %d maps to %s outside the grid", e.Code, e.Index, e.Point)
	default:
		return fmt.Sprintf("%s: generator exhausted before index %d", e.Code, e.Index)
	}
}
