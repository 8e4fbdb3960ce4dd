package models

import (
	"errors"
	"fmt"
)

// ErrorKind classifies per-identifier collection failures.
type ErrorKind string

const (
	ErrKindInvalidIdentifier ErrorKind = "invalid_identifier"
	ErrKindTransport         ErrorKind = "transport"
	ErrKindStatus            ErrorKind = "status"
	ErrKindDecode            ErrorKind = "decode"
	ErrKindStructure         ErrorKind = "structure"
	ErrKindEmptySeries       ErrorKind = "empty_series"
	ErrKindInsufficientData  ErrorKind = "insufficient_data"
)

// CollectError is a per-identifier failure. It never aborts a collection
// run; the orchestrator converts it into an ErrorRecord and moves on.
type CollectError struct {
	Kind       ErrorKind
	Identifier string
	Reason     string
	Err        error
}

func (e *CollectError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
}

func (e *CollectError) Unwrap() error { return e.Err }

// NewCollectError builds a CollectError with a formatted reason.
func NewCollectError(kind ErrorKind, identifier, format string, a ...interface{}) *CollectError {
	return &CollectError{Kind: kind, Identifier: identifier, Reason: fmt.Sprintf(format, a...)}
}

// WrapCollectError attaches an underlying cause.
func WrapCollectError(kind ErrorKind, identifier string, err error, reason string) *CollectError {
	return &CollectError{Kind: kind, Identifier: identifier, Reason: reason, Err: err}
}

// KindOf extracts the ErrorKind from an error chain. Unclassified errors
// map to transport, the broadest failure class.
func KindOf(err error) ErrorKind {
	var ce *CollectError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return ErrKindTransport
}

// ReasonOf extracts a human-readable reason from an error chain.
func ReasonOf(err error) string {
	var ce *CollectError
	if errors.As(err, &ce) {
		if ce.Err != nil {
			return fmt.Sprintf("%s: %v", ce.Reason, ce.Err)
		}
		return ce.Reason
	}
	return err.Error()
}
