package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TokenType is the purpose a token was issued for. A token only validates
// for the purpose it was issued with.
type TokenType string

const (
	// TokenTypeAccess authenticates API and websocket requests.
	TokenTypeAccess TokenType = "access"
	// TokenTypeVerify confirms ownership of a registered email address.
	TokenTypeVerify TokenType = "verify"
	// TokenTypeReset authorizes a single password change.
	TokenTypeReset TokenType = "reset"
)

// JWTService defines operations for managing signed user tokens.
type JWTService interface {
	// GenerateToken creates a signed token of the given type for userID.
	// Each type has its own lifetime.
	GenerateToken(ctx context.Context, userID uuid.UUID, tokenType TokenType) (IssuedToken, error)

	// ValidateToken checks signature, expiry and purpose of tokenString.
	// A well-formed token of another type fails with ErrWrongTokenType.
	ValidateToken(ctx context.Context, tokenString string, tokenType TokenType) (*Claims, error)
}

// IssuedToken is a freshly signed token and its expiry.
type IssuedToken struct {
	Value     string
	ExpiresAt time.Time
}

// Claims represents the custom claims structure for the JWT tokens.
type Claims struct {
	// UserID is the unique identifier of the user the token was issued for.
	UserID uuid.UUID `json:"uid,omitempty"`

	// TokenType is the purpose of the token.
	TokenType TokenType `json:"type,omitempty"`

	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}
