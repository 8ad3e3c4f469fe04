package domain

import "errors"

// Error kinds surfaced by stores and external providers. Call sites wrap these
// with fmt.Errorf("...: %w", ...) so callers can match them with errors.Is.
var (
	// A write affected no rows or assigned no identity.
	ErrPersistence = errors.New("persistence failure")
	// Zero rows matched where exactly one was required.
	ErrNotFound = errors.New("not found")
	// Multiple rows matched where at most one may exist. Indicates a broken
	// uniqueness invariant; surfaced, never auto-resolved.
	ErrAmbiguous = errors.New("ambiguous result")
	// Invalid input caught before any I/O.
	ErrValidation = errors.New("invalid input")

	ErrGeocode   = errors.New("geocode failure")
	ErrWeather   = errors.New("weather fetch failure")
	ErrRateFetch = errors.New("currency rate fetch failure")
)
