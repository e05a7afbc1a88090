// Package jwtmw issues and verifies HS256 session tokens and provides the
// gin middleware that guards authenticated routes.
package jwtmw

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultExpiration is used when a non-positive expiration is configured.
const DefaultExpiration = 7 * 24 * time.Hour

// Generator signs session tokens.
type Generator struct {
	secret     []byte
	expiration time.Duration
	now        func() time.Time
}

// NewGenerator creates a new JWT generator with the provided secret and expiration duration.
func NewGenerator(secret string, expiration time.Duration) *Generator {
	if expiration <= 0 {
		expiration = DefaultExpiration
	}
	return &Generator{
		secret:     []byte(secret),
		expiration: expiration,
		now:        time.Now,
	}
}

// GenerateToken creates a signed JWT token with standard claims.
func (g *Generator) GenerateToken(userID uint, email string) (string, error) {
	now := g.now()
	claims := jwt.MapClaims{
		"sub":   userID,
		"exp":   now.Add(g.expiration).Unix(),
		"iat":   now.Unix(),
		"email": email,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(g.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}
