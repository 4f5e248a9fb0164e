package emailverification

import "errors"

var (
	// ErrTokenRequired is returned when no token was supplied by the caller
	ErrTokenRequired = errors.New("verification token is required")

	// ErrTokenNotFound is returned when no row matches the presented token
	ErrTokenNotFound = errors.New("verification token not found")

	// ErrTokenExpired is returned when a verification token has expired
	ErrTokenExpired = errors.New("verification token has expired")

	// ErrProfileNotFound is returned when the user profile referenced by a
	// token does not exist
	ErrProfileNotFound = errors.New("user profile not found")
)
