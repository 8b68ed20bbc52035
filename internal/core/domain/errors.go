package domain

import "errors"

// Sentinel errors shared by services and adapters. The API layer maps them to
// HTTP status codes with errors.Is, so callers should wrap rather than replace.
var (
	ErrInvalidID          = errors.New("invalid id")
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrForbidden          = errors.New("access forbidden")

	ErrUserNotFound        = errors.New("user not found")
	ErrProfileNotFound     = errors.New("profile not found")
	ErrJobNotFound         = errors.New("job not found")
	ErrApplicationNotFound = errors.New("application not found")

	ErrEmailTaken          = errors.New("email already registered")
	ErrProfileExists       = errors.New("profile already exists")
	ErrAlreadyApplied      = errors.New("you have already applied for this job")
	ErrIdempotencyKeyInUse = errors.New("a request with this idempotency key is still in progress")
)
