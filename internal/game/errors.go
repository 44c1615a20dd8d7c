package game

import (
	"errors"
	"fmt"
)

// Kind is the outcome class of a failed request.
type Kind int

const (
	KindInternal Kind = iota
	KindBadHeader
	KindNotFound
	KindConflict
	KindStale
	KindUnauthorized
	KindInsufficientFunds
)

func (k Kind) String() string {
	switch k {
	case KindBadHeader:
		return "bad_header"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindStale:
		return "stale"
	case KindUnauthorized:
		return "unauthorized"
	case KindInsufficientFunds:
		return "insufficient_funds"
	default:
		return "internal"
	}
}

// Error is the single error type returned by Service. Err keeps the
// component error for logging; only Kind decides what the caller sees.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func fail(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf returns the Kind of err, or KindInternal for anything unclassified.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
