package shared

import (
	"errors"
	"fmt"
)

// Sentinel errors. Callers match these with errors.Is; the HTTP layer maps
// them onto status codes.
var (
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")
	ErrInvalidEntity = errors.New("invalid entity")

	ErrValidation    = errors.New("validation error")
	ErrInvalidID     = errors.New("invalid ID")
	ErrInvalidInput  = errors.New("invalid input")
	ErrEmptyValue    = errors.New("value cannot be empty")
	ErrNegativeValue = errors.New("value cannot be negative")
)

// DomainError annotates a sentinel with where it happened. The Kind field
// keeps errors.Is working against the sentinels above.
type DomainError struct {
	Domain  string // aggregate name: "student", "payment", ...
	Op      string // operation: "ChangeStatus", "Record", ...
	Kind    error
	Message string
	Err     error // optional cause
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

func (e *DomainError) Is(target error) bool {
	return (e.Kind != nil && errors.Is(e.Kind, target)) ||
		(e.Err != nil && errors.Is(e.Err, target))
}

// NewDomainError builds a DomainError around a sentinel.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{Domain: domain, Op: op, Kind: kind, Message: message}
}

// WrapError builds a DomainError around an infrastructure cause.
func WrapError(domain, op string, err error, message string) *DomainError {
	return &DomainError{Domain: domain, Op: op, Message: message, Err: err}
}

// IsNotFound reports whether err represents a missing entity.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
