// Package auth implements the credential primitives used by the service:
// HS256 bearer tokens carrying the user id as subject, and bcrypt password
// hashing. Token verification failures are not distinguished for callers;
// the HTTP layer treats any failure as "no identity".
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned when a token is malformed, expired, or carries
// a bad signature. Callers should not surface the underlying cause.
var ErrInvalidToken = errors.New("invalid token")

// SignToken issues an HS256 token with subject userID and an absolute expiry
// of ttl from now.
func SignToken(secret, userID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseToken validates signature and expiry and returns the subject (user id).
// Any failure collapses into ErrInvalidToken.
func ParseToken(secret, token string) (string, error) {
	t, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !t.Valid {
		return "", ErrInvalidToken
	}
	claims, ok := t.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
