package apperrors

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// Resource errors
	ErrResourceNotFound = errors.New("resource not found")
	ErrConflict         = errors.New("conflict")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")
)

// Person data errors
var (
	ErrPersonNotFound      = &CustomError{Err: ErrResourceNotFound, Message: "person not found"}
	ErrAdviserNotFound     = &CustomError{Err: ErrResourceNotFound, Message: "adviser not found"}
	ErrInvalidIdentifier   = &CustomError{Err: ErrValidationFailed, Message: "invalid identifier"}
	ErrAmbiguousIdentifier = &CustomError{Err: ErrConflict, Message: "identifier matches more than one record"}
)

// NotFoundError reports that no person matched an identifier.
type NotFoundError struct {
	Identifier string
	Kind       string
}

func (e *NotFoundError) Error() string {
	if e.Kind == "" {
		return fmt.Sprintf("person not found: %s", e.Identifier)
	}
	return fmt.Sprintf("person not found by %s: %s", e.Kind, e.Identifier)
}

func (e *NotFoundError) Unwrap() error { return ErrPersonNotFound }

// AdviserNotFoundError reports that no adviser is reachable from a login.
type AdviserNotFoundError struct {
	Identifier string
}

func (e *AdviserNotFoundError) Error() string {
	return fmt.Sprintf("adviser not found: %s", e.Identifier)
}

func (e *AdviserNotFoundError) Unwrap() error { return ErrAdviserNotFound }

// InvalidIdentifierError reports a syntactically invalid identifier.
type InvalidIdentifierError struct {
	Identifier string
	Class      string
}

func (e *InvalidIdentifierError) Error() string {
	return fmt.Sprintf("invalid %s: %q", e.Class, e.Identifier)
}

func (e *InvalidIdentifierError) Unwrap() error { return ErrInvalidIdentifier }

// AmbiguousError reports an identifier that resolved to several rows.
type AmbiguousError struct {
	Identifier string
	Kind       string
	Matches    int
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("%s %q matches %d records", e.Kind, e.Identifier, e.Matches)
}

func (e *AmbiguousError) Unwrap() error { return ErrAmbiguousIdentifier }

// NewNotFound builds a NotFoundError.
func NewNotFound(kind, identifier string) error {
	return &NotFoundError{Identifier: identifier, Kind: kind}
}

// NewAdviserNotFound builds an AdviserNotFoundError.
func NewAdviserNotFound(identifier string) error {
	return &AdviserNotFoundError{Identifier: identifier}
}

// NewInvalidIdentifier builds an InvalidIdentifierError.
func NewInvalidIdentifier(class, identifier string) error {
	return &InvalidIdentifierError{Identifier: identifier, Class: class}
}

// NewAmbiguous builds an AmbiguousError.
func NewAmbiguous(kind, identifier string, matches int) error {
	return &AmbiguousError{Identifier: identifier, Kind: kind, Matches: matches}
}

// NewBadRequestError creates a new custom error for bad request with a message
func NewBadRequestError(message string) error {
	return &CustomError{
		Err:     ErrBadRequest,
		Message: message,
	}
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}
