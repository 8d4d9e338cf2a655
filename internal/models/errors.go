package models

import "errors"

var (
	// ErrNotFound is returned when a booking id does not exist in storage,
	// possibly because another client deleted it.
	ErrNotFound = errors.New("booking not found")

	// ErrConflict is returned when the chosen slot was taken between the
	// availability check and the write.
	ErrConflict = errors.New("slot no longer available")

	// ErrValidation is returned when a required field is missing or empty.
	ErrValidation = errors.New("validation error")

	// ErrMalformedRecord is returned when a persisted record is missing
	// required fields. Readers skip such records instead of failing the
	// whole listing.
	ErrMalformedRecord = errors.New("malformed booking record")

	// ErrStorageUnavailable wraps storage-layer failures. No partial
	// mutation happens on this path.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrNotOwner is returned when a lifecycle operation targets a booking
	// created by a different user.
	ErrNotOwner = errors.New("booking belongs to another user")

	// ErrConfirmation is returned when the delete confirmation text does
	// not match the configured text exactly.
	ErrConfirmation = errors.New("confirmation text mismatch")
)

var (
	ErrInvalidCredentials = errors.New("invalid username or pin")
	ErrTooManyAttempts    = errors.New("too many login attempts")
	ErrSessionNotFound    = errors.New("session not found")
)
