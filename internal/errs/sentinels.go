// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Common sentinels across repository/service layers.
var (
	// ErrNotFound indicates the requested entity does not exist at the provider.
	ErrNotFound = errors.New("not found")

	// ErrFetch indicates a network failure or non-success status from the provider.
	ErrFetch = errors.New("fetch failed")

	// ErrUnauthorized indicates an anonymous session reached a write-capable operation.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrValidation indicates user input rejected before any network call.
	ErrValidation = errors.New("validation")
)

// FetchError describes a failed provider call. Status is 0 for transport failures.
type FetchError struct {
	Op     string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	case e.Status != 0:
		return fmt.Sprintf("%s: status %d %s", e.Op, e.Status, http.StatusText(e.Status))
	default:
		return e.Op + ": " + ErrFetch.Error()
	}
}

// Is reports ErrFetch for every fetch error and ErrNotFound for 404 responses.
func (e *FetchError) Is(target error) bool {
	switch target {
	case ErrFetch:
		return true
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	}
	return false
}

func (e *FetchError) Unwrap() error { return e.Err }

// ValidationError carries the user-facing message of a rejected form.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return "validation: " + e.Message }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// Invalid builds a ValidationError.
func Invalid(msg string) error { return &ValidationError{Message: msg} }
