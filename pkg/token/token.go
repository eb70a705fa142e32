package token

import (
	"errors"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenMalformed = errors.New("token is not a parsable JWT")
	ErrTokenExpired   = errors.New("token has expired")
)

// ── Bearer token introspection ──
//
// The upstream server signs and verifies its own tokens; this side never
// holds the secret. Introspection reads the registered claims WITHOUT
// verification, only to learn when re-authentication will be needed. It must
// never be used as an authenticity check.

// Claims is the subset of registered claims this client cares about.
type Claims struct {
	Subject   string
	Email     string
	ExpiresAt time.Time
}

type payload struct {
	Email string `json:"email,omitempty"`
	jwtv5.RegisteredClaims
}

// Introspect parses the token without verifying its signature.
func Introspect(tokenString string) (*Claims, error) {
	var claims payload
	parser := jwtv5.NewParser()
	if _, _, err := parser.ParseUnverified(tokenString, &claims); err != nil {
		return nil, ErrTokenMalformed
	}

	out := &Claims{Subject: claims.Subject, Email: claims.Email}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}

// RemainingTTL returns how long the token stays valid. Tokens without an exp
// claim yield a zero duration and no error; expired tokens yield
// ErrTokenExpired.
func RemainingTTL(tokenString string, now time.Time) (time.Duration, error) {
	claims, err := Introspect(tokenString)
	if err != nil {
		return 0, err
	}
	if claims.ExpiresAt.IsZero() {
		return 0, nil
	}
	ttl := claims.ExpiresAt.Sub(now)
	if ttl <= 0 {
		return 0, ErrTokenExpired
	}
	return ttl, nil
}
