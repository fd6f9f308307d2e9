package identity

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the ID token claims the web tier reads. The signature is not
// checked here; the backend verifies every token it receives.
type Claims struct {
	jwt.RegisteredClaims
	UserID  string `json:"user_id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// ParseClaims decodes the claims of an ID token without verifying it.
func ParseClaims(token string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("parse id token: %w", err)
	}
	return claims, nil
}

// ExpiresAt returns the token's exp claim, or the zero time when it cannot
// be read.
func ExpiresAt(token string) time.Time {
	c, err := ParseClaims(token)
	if err != nil || c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

// Expired reports whether the token's exp is at or before now. A token
// whose claims cannot be read counts as expired.
func Expired(token string, now time.Time) bool {
	exp := ExpiresAt(token)
	return exp.IsZero() || !now.Before(exp)
}

// ExpiresWithin reports whether the token expires within d of now.
func ExpiresWithin(token string, now time.Time, d time.Duration) bool {
	exp := ExpiresAt(token)
	return exp.IsZero() || exp.Sub(now) <= d
}
