package service

import (
	"errors"

	"github.com/phrazzld/flashlists/internal/domain"
)

// Common service errors. The API layer maps them to HTTP status codes.
var (
	// ErrNotOwned indicates a resource is owned by a different user than the
	// one making the request.
	ErrNotOwned = domain.ErrNotOwned

	// ErrInvalidCredentials is returned by Login for an unknown email or a
	// wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrEmailNotVerified is returned by Login before the account is verified.
	ErrEmailNotVerified = errors.New("email address not verified")
)
