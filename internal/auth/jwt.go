package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims defines the parts of the admin token the client looks at.
// The signature is never verified here; only the issuing server can do that.
type Claims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// ParseClaims decodes the claims of a JWT without verifying its signature.
func ParseClaims(tokenString string) (*Claims, error) {
	claims := &Claims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return nil, fmt.Errorf("failed to parse JWT: %w", err)
	}
	return claims, nil
}

// IsExpired reports whether tokenString is a JWT whose exp lies at or before
// now. Opaque tokens and tokens without exp never expire client-side.
func IsExpired(tokenString string, now time.Time) bool {
	claims, err := ParseClaims(tokenString)
	if err != nil || claims.ExpiresAt == nil {
		return false
	}
	return !now.Before(claims.ExpiresAt.Time)
}
