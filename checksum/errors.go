package checksum

import (
	"errors"
	"fmt"
)

// Configuration errors.
var (
	// ErrEmptySecret is returned when Options has no SharedSecret.
	ErrEmptySecret = errors.New("checksum: shared secret must not be empty")

	// ErrNegativeTimeDelta is returned when Options.TimeDelta is below zero.
	ErrNegativeTimeDelta = errors.New("checksum: time delta must not be negative")

	// ErrTimeDeltaTooLarge is returned when Options.TimeDelta exceeds
	// MaxTimeDelta.
	ErrTimeDeltaTooLarge = errors.New("checksum: time delta too large")

	// ErrUnsupportedAlgorithm is returned for unknown algorithm identifiers.
	ErrUnsupportedAlgorithm = errors.New("checksum: unsupported algorithm")
)

// Input errors.
var (
	// ErrInvalidEncoding is returned when an attribute key, value or salt
	// cannot be canonicalized. The concrete error is an *EncodingError.
	ErrInvalidEncoding = errors.New("checksum: invalid encoding")
)

// EncodingError describes an attribute that could not be canonicalized.
// Attribute values are never included, only the key they belong to.
type EncodingError struct {
	// Field is "key", "value", "salt" or "attributes".
	Field string

	// Key is the attribute key the problem was found on. Empty for salt.
	Key string

	// Reason is a short description of the problem.
	Reason string
}

func (e *EncodingError) Error() string {
	if e.Key == "" && (e.Field == fieldSalt || e.Field == fieldAttributes) {
		return fmt.Sprintf("%s: %s %s", ErrInvalidEncoding, e.Field, e.Reason)
	}

	return fmt.Sprintf("%s: %s of attribute %q %s", ErrInvalidEncoding, e.Field, e.Key, e.Reason)
}

// Unwrap allows errors.Is(err, ErrInvalidEncoding).
func (e *EncodingError) Unwrap() error {
	return ErrInvalidEncoding
}
