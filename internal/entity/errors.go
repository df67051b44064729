package entity

import "errors"

var (
	// ErrInvalidFormat is returned when a short code or target URL is malformed.
	ErrInvalidFormat = errors.New("invalid format")
	// ErrInvalidValidity is returned when the requested validity is not a positive number of minutes.
	ErrInvalidValidity = errors.New("invalid validity")
	// ErrShortCodeExists is returned when attempting to create a URL with a short code that already exists.
	ErrShortCodeExists = errors.New("short code exists")
	// ErrMaxRetriesExceeded is returned when no free short code could be generated.
	ErrMaxRetriesExceeded = errors.New("maximum retries exceeded for generating short code")
	// ErrURLNotFound is returned when a URL with the specified short code cannot be found.
	ErrURLNotFound = errors.New("url not found")
	// ErrURLExpired is returned when the URL exists but its validity has elapsed.
	ErrURLExpired = errors.New("url expired")
)
