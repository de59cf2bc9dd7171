package errs

import "errors"

// Sentinel errors shared by the command and query sides. Use cases mark
// wrapped errors with these so handlers can branch with errors.Is.
var (
	// Booking errors
	ErrBookingNotFound = errors.New("booking not found")
	ErrNotBookingOwner = errors.New("you are not allowed to access this booking")
	ErrDateConflict    = errors.New("dates unavailable")

	// Availability could not be determined; treated as unavailable
	ErrAvailabilityUnknown = errors.New("availability could not be verified")

	// Property errors
	ErrPropertyNotFound = errors.New("property not found")

	// User errors
	ErrUserNotFound   = errors.New("user not found")
	ErrEmailTaken     = errors.New("email already registered")
	ErrInactiveUser   = errors.New("user account is inactive")
	ErrAuthentication = errors.New("authentication failed")

	// Payment errors
	ErrAmountMismatch         = errors.New("amount does not match the amount due")
	ErrDuplicatePaymentIntent = errors.New("payment intent already recorded on another booking")
	ErrPaymentGateway         = errors.New("payment provider unavailable")
	ErrInvalidWebhook         = errors.New("invalid webhook payload or signature")

	// Idempotency errors
	ErrIdempotencyMismatch   = errors.New("idempotency key reused with a different request")
	ErrIdempotencyInProgress = errors.New("idempotency in progress")

	// Validation errors
	ErrValidation = errors.New("validation failed")

	// Operation errors
	ErrStorageUnavailable = errors.New("storage unavailable")
)
