// Package apperrors defines the error kinds the engines raise so that
// HTTP handlers can branch on kind instead of matching message strings.
package apperrors

import (
	"errors"
	"fmt"
)

type Kind int

const (
	// KindInternal is an unexpected invariant violation.
	KindInternal Kind = iota
	// KindNotFound means a referenced entity does not exist.
	KindNotFound
	// KindForbidden is a business-rule denial, e.g. insufficient coins.
	KindForbidden
	// KindInvalidState means the operation is not valid for the
	// entity's current state, e.g. completing a finished session.
	KindInvalidState
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindForbidden:
		return "forbidden"
	case KindInvalidState:
		return "invalid_state"
	default:
		return "internal"
	}
}

// Error carries a kind plus a stable, user-visible message. The message
// is part of the API contract (clients display it), so keep wording
// stable across releases.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NotFound(message string, err error) error {
	return &Error{Kind: KindNotFound, Message: message, Err: err}
}

func Forbidden(message string, err error) error {
	return &Error{Kind: KindForbidden, Message: message, Err: err}
}

func InvalidState(message string, err error) error {
	return &Error{Kind: KindInvalidState, Message: message, Err: err}
}

func Internal(message string, err error) error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// KindOf returns the kind of err, or KindInternal for plain errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// MessageOf returns the stable message of err, or a generic one.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "Internal server error"
}
