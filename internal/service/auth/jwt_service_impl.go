package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/flashlists/internal/config"
	"github.com/phrazzld/flashlists/internal/platform/logger"
)

// minSecretLength matches the validation on config.AuthConfig.JWTSecret.
const minSecretLength = 32

// hmacJWTService is an implementation of JWTService using HMAC-SHA256 signing.
type hmacJWTService struct {
	signingKey []byte
	lifetimes  map[TokenType]time.Duration
	timeFunc   func() time.Time // injectable for testing
	clockSkew  time.Duration
}

type jwtCustomClaims struct {
	UserID    uuid.UUID `json:"uid"`
	TokenType TokenType `json:"type"`
	jwt.RegisteredClaims
}

var _ JWTService = (*hmacJWTService)(nil)

// NewJWTService creates a new JWT service using HMAC-SHA256 signing.
func NewJWTService(cfg config.AuthConfig) (JWTService, error) {
	if len(cfg.JWTSecret) < minSecretLength {
		return nil, fmt.Errorf("jwt secret must be at least %d characters", minSecretLength)
	}

	return &hmacJWTService{
		signingKey: []byte(cfg.JWTSecret),
		lifetimes: map[TokenType]time.Duration{
			TokenTypeAccess: cfg.TokenLifetime(),
			TokenTypeVerify: cfg.VerifyTokenLifetime(),
			TokenTypeReset:  cfg.ResetTokenLifetime(),
		},
		timeFunc:  time.Now,
		clockSkew: 2 * time.Minute,
	}, nil
}

// GenerateToken creates a signed token of tokenType for userID.
func (s *hmacJWTService) GenerateToken(
	ctx context.Context,
	userID uuid.UUID,
	tokenType TokenType,
) (IssuedToken, error) {
	log := logger.FromContext(ctx)

	lifetime, ok := s.lifetimes[tokenType]
	if !ok {
		return IssuedToken{}, fmt.Errorf("unknown token type %q", tokenType)
	}

	now := s.timeFunc()
	expiresAt := now.Add(lifetime)
	claims := jwtCustomClaims{
		UserID:    userID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		log.Error("failed to sign JWT",
			slog.Any("error", err),
			slog.String("user_id", userID.String()),
			slog.String("token_type", string(tokenType)))
		return IssuedToken{}, fmt.Errorf("failed to sign %s token: %w", tokenType, err)
	}

	return IssuedToken{Value: signed, ExpiresAt: expiresAt}, nil
}

// ValidateToken parses tokenString and checks that it was issued as tokenType.
func (s *hmacJWTService) ValidateToken(
	ctx context.Context,
	tokenString string,
	tokenType TokenType,
) (*Claims, error) {
	log := logger.FromContext(ctx).With(slog.String("token_type", string(tokenType)))

	if tokenString == "" {
		return nil, ErrMissingToken
	}

	now := s.timeFunc()
	token, err := jwt.ParseWithClaims(
		tokenString,
		&jwtCustomClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.signingKey, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithLeeway(s.clockSkew),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			log.Debug("token validation failed: expired")
			return nil, ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			log.Debug("token validation failed: not yet valid")
			return nil, ErrTokenNotYetValid
		default:
			log.Debug("token validation failed",
				slog.Any("error", err),
				slog.String("error_type", fmt.Sprintf("%T", err)))
			return nil, ErrInvalidToken
		}
	}

	claims, ok := token.Claims.(*jwtCustomClaims)
	if !ok || !token.Valid || claims.ExpiresAt == nil || claims.IssuedAt == nil {
		log.Debug("token validation failed: invalid claims")
		return nil, ErrInvalidToken
	}
	if claims.TokenType != tokenType {
		log.Debug("token validation failed: wrong token type",
			slog.String("actual", string(claims.TokenType)))
		return nil, ErrWrongTokenType
	}

	return &Claims{
		UserID:    claims.UserID,
		TokenType: claims.TokenType,
		Subject:   claims.Subject,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
		ID:        claims.ID,
	}, nil
}
