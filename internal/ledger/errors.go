package ledger

import (
	"errors"
	"fmt"
)

// Sentinel errors. Every structured error below unwraps to one of these so
// callers can branch with errors.Is.
var (
	ErrValidation       = errors.New("validation failed")
	ErrNotFound         = errors.New("not found")
	ErrDuplicateKey     = errors.New("duplicate key")
	ErrAlreadyExists    = errors.New("already exists")
	ErrTransientStorage = errors.New("transient storage failure")
)

// ValidationError reports an input that breaks a business rule.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Reason
	}
	return fmt.Sprintf("validation failed: %s %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NotFoundError reports a reference to a record that does not exist.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// DuplicateKeyError reports a user-assigned key that is already taken.
type DuplicateKeyError struct {
	Entity string
	Key    string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("%s %q already exists", e.Entity, e.Key)
}

func (e *DuplicateKeyError) Unwrap() error { return ErrDuplicateKey }

// AlreadyExistsError reports a second child where at most one is allowed,
// such as a second delivery for a deal.
type AlreadyExistsError struct {
	Entity string
	Parent string
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("%s already exists for %s", e.Entity, e.Parent)
}

func (e *AlreadyExistsError) Unwrap() error { return ErrAlreadyExists }

// TransientError wraps a storage failure that may succeed on retry.
type TransientError struct {
	Op  string
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("%s: transient storage failure: %v", e.Op, e.Err)
}

func (e *TransientError) Unwrap() []error { return []error{ErrTransientStorage, e.Err} }

// IsTransient reports whether err may succeed if the whole unit of work is
// retried.
func IsTransient(err error) bool {
	return errors.Is(err, ErrTransientStorage)
}

// IsDomain reports whether err is a business rule rejection. Domain errors
// are never retried.
func IsDomain(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrDuplicateKey) ||
		errors.Is(err, ErrAlreadyExists)
}

// ErrorKind is a stable machine-readable failure reason.
type ErrorKind string

const (
	KindValidation    ErrorKind = "validation"
	KindNotFound      ErrorKind = "not_found"
	KindDuplicateKey  ErrorKind = "duplicate_key"
	KindAlreadyExists ErrorKind = "already_exists"
	KindTransient     ErrorKind = "transient"
	KindInternal      ErrorKind = "internal"
)

// Kind classifies err for callers that cannot use errors.Is, such as API
// clients.
func Kind(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrDuplicateKey):
		return KindDuplicateKey
	case errors.Is(err, ErrAlreadyExists):
		return KindAlreadyExists
	case errors.Is(err, ErrTransientStorage):
		return KindTransient
	default:
		return KindInternal
	}
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
