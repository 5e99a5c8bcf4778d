package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenCodec signs and verifies session tokens as HS256 JWTs under a
// process-wide secret. The token carries only the user id (subject) and
// an expiry; any bit-level tampering or an elapsed expiry makes Decode
// report the session as absent.
type TokenCodec struct {
	secret []byte
	maxAge time.Duration
}

// NewTokenCodec creates a codec. maxAge bounds the lifetime of every
// token it issues.
func NewTokenCodec(secret string, maxAge time.Duration) *TokenCodec {
	return &TokenCodec{
		secret: []byte(secret),
		maxAge: maxAge,
	}
}

// Encode signs a fresh session token for userID.
func (c *TokenCodec) Encode(userID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(c.maxAge)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// Decode recovers the user id from a token string.
//
// Missing, tampered, expired, and alg-confused tokens are all reported
// identically as ok=false; the caller cannot and must not distinguish them.
func (c *TokenCodec) Decode(tokenString string) (string, bool) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil || !token.Valid {
		return "", false
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", false
	}
	return claims.Subject, true
}
