package domain

import (
	"errors"
	"fmt"
)

// NotFoundError represents a missing resource.
type NotFoundError struct {
	Resource string
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// Is enables errors.Is matching on NotFoundError.
func (e NotFoundError) Is(target error) bool {
	_, ok := target.(NotFoundError)
	if ok {
		return true
	}
	_, ok = target.(*NotFoundError)
	return ok
}

// ErrNotFound is the sentinel error for missing resources.
var ErrNotFound = NotFoundError{}

// ConflictError represents a uniqueness violation, e.g. a practice code
// that is already registered or a duplicate like row.
type ConflictError struct {
	Resource string
}

func (e ConflictError) Error() string {
	if e.Resource == "" {
		return "already exists"
	}
	return fmt.Sprintf("%s already exists", e.Resource)
}

// Is enables errors.Is matching on ConflictError.
func (e ConflictError) Is(target error) bool {
	_, ok := target.(ConflictError)
	if ok {
		return true
	}
	_, ok = target.(*ConflictError)
	return ok
}

// ErrConflict is the sentinel error for uniqueness violations.
var ErrConflict = ConflictError{}

// InvalidError represents a validation failure on user input.
type InvalidError struct {
	Reason string
}

func (e InvalidError) Error() string {
	if e.Reason == "" {
		return "invalid input"
	}
	return e.Reason
}

// Is enables errors.Is matching on InvalidError.
func (e InvalidError) Is(target error) bool {
	_, ok := target.(InvalidError)
	if ok {
		return true
	}
	_, ok = target.(*InvalidError)
	return ok
}

// ErrInvalid is the sentinel error for validation failures.
var ErrInvalid = InvalidError{}

var (
	// ErrSignInRequired is returned when an operation needs an
	// authenticated session and none was presented.
	ErrSignInRequired = errors.New("sign-in required")
	// ErrForbidden is returned when a requester is not the owner of the
	// record being mutated.
	ErrForbidden = errors.New("forbidden")
	// ErrReadOnly is returned for mutations in seed-only mode.
	ErrReadOnly = errors.New("catalog is read-only")
)
