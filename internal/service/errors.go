package service

import (
	"errors"
	"fmt"
)

// Callers match these with errors.Is; every error returned by this package
// wraps at most one of them.
var (
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrNotFound         = errors.New("not found")
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrConflict         = errors.New("already exists")
	ErrUnauthorized     = errors.New("unauthorized")
)

// kindError carries a client-facing message for one of the sentinel kinds.
type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

func invalidArgument(format string, args ...any) error {
	return &kindError{kind: ErrInvalidArgument, msg: fmt.Sprintf(format, args...)}
}

func notFound(what string) error {
	return &kindError{kind: ErrNotFound, msg: what + " not found"}
}

func conflict(msg string) error {
	return &kindError{kind: ErrConflict, msg: msg}
}

func unauthorized(msg string) error {
	return &kindError{kind: ErrUnauthorized, msg: msg}
}

// storeUnavailable keeps the cause for logs; it is not shown to clients.
func storeUnavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
}
