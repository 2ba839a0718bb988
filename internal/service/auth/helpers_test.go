package auth

import "time"

// newTestJWTService builds a service with a fixed clock and one lifetime for every type.
func newTestJWTService(secret string, lifetime time.Duration, now func() time.Time) JWTService {
	return &hmacJWTService{
		signingKey: []byte(secret),
		lifetimes: map[TokenType]time.Duration{
			TokenTypeAccess: lifetime,
			TokenTypeVerify: lifetime,
			TokenTypeReset:  lifetime,
		},
		timeFunc:  now,
		clockSkew: 2 * time.Minute,
	}
}
