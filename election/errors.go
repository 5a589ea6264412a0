// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"errors"
	"fmt"

	"github.com/danielhkuo/elex/models"
)

// Kind classifies a failure so the HTTP layer can map it to a status code.
type Kind int

const (
	KindNotFound Kind = iota + 1
	KindForbidden
	KindValidation
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindForbidden:
		return "forbidden"
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	default:
		return "unknown"
	}
}

// Error is a classified failure with a human-readable reason.
type Error struct {
	Kind   Kind
	Reason string
}

func (e *Error) Error() string {
	return e.Reason
}

// Is reports a match against a bare kind sentinel (ErrNotFound, ErrForbidden, ...)
// or against an identical error value.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Reason == "" {
		return t.Kind == e.Kind
	}
	return t.Kind == e.Kind && t.Reason == e.Reason
}

func newError(kind Kind, reason string) *Error {
	return &Error{Kind: kind, Reason: reason}
}

// Kind sentinels, for errors.Is checks by class
var (
	ErrNotFound   = &Error{Kind: KindNotFound}
	ErrForbidden  = &Error{Kind: KindForbidden}
	ErrValidation = &Error{Kind: KindValidation}
	ErrConflict   = &Error{Kind: KindConflict}
)

var (
	ErrElectionNotFound = newError(KindNotFound, "election not found")
	ErrOptionNotFound   = newError(KindNotFound, "option not found")
	ErrVoterNotFound    = newError(KindNotFound, "voter not found")
	ErrTokenNotFound    = newError(KindNotFound, "invalid token")

	ErrNotOwner      = newError(KindForbidden, "not the owner of this election")
	ErrWrongState    = newError(KindForbidden, "operation not allowed in the current election state")
	ErrAlreadyVoted  = newError(KindForbidden, "ballot already cast")
	ErrTooFewOptions = newError(KindForbidden, "election needs at least two options")
	ErrNoVoters      = newError(KindForbidden, "election needs at least one voter")

	ErrTooManyOptions = newError(KindValidation, "too many options")
	ErrOutOfRange     = newError(KindValidation, "out of range")
	ErrInvalidEmail   = newError(KindValidation, "invalid email")
	ErrDuplicateEntry = newError(KindValidation, "duplicate entry")
	ErrTooManyVoters  = newError(KindValidation, fmt.Sprintf("at most %d voters per request", models.MaxVotersPerRequest))

	ErrDuplicateToken = newError(KindConflict, "duplicate token")
	ErrTokenExhausted = newError(KindConflict, "could not issue a unique token")
)

// Validation builds a validation error with a field-specific reason.
func Validation(reason string) error {
	return newError(KindValidation, reason)
}

// KindOf returns the kind of err, or 0 when err is not classified.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
