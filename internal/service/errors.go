package service

import "errors"

// Centralized service layer errors.
// All errors returned by service methods are defined here for consistency
// and to make error handling in handlers predictable.

// ===== Authentication Errors =====
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrPasswordRequired   = errors.New("password is required")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters")
	ErrPasswordTooLong    = errors.New("password must be at most 128 characters")
	ErrInvalidEmail       = errors.New("invalid email format")
)

// ===== Token Errors =====
var (
	ErrInvalidRefreshToken     = errors.New("invalid refresh token")
	ErrRefreshTokenExpired     = errors.New("refresh token expired")
	ErrRefreshTokenRevoked     = errors.New("refresh token revoked")
	ErrInvalidVerificationLink = errors.New("invalid or expired verification link")
)

// ===== Ingestion Errors =====
var (
	ErrMissingJobID     = errors.New("job record has no job_id")
	ErrIngestInProgress = errors.New("an ingestion for this query and location is already running")
	ErrInvalidPageCount = errors.New("pages must be between 1 and 20")
	ErrStoreUnavailable = errors.New("job store unavailable")
)

// ===== Job Errors =====
var (
	ErrJobNotFound     = errors.New("job not found")
	ErrJobAlreadySaved = errors.New("job already saved")
	ErrJobNotSaved     = errors.New("job not saved")
)
