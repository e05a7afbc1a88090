package jwtmw

import (
	"errors"
	"math"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken covers a bad signature, a malformed or expired token and a missing subject.
var ErrInvalidToken = errors.New("invalid token")

// Verifier checks tokens produced by Generator.
type Verifier struct {
	secret []byte
	parser *jwt.Parser
}

// NewVerifier creates a verifier for tokens signed with secret.
func NewVerifier(secret string) *Verifier {
	return &Verifier{
		secret: []byte(secret),
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}),
			jwt.WithExpirationRequired(),
		),
	}
}

// Verify returns the user ID carried in the token's sub claim.
func (v *Verifier) Verify(tokenStr string) (uint, error) {
	token, err := v.parser.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		// Check signing algorithm (only HMAC allowed)
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return 0, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, ErrInvalidToken
	}
	// JWT numbers are decoded as float64
	sub, ok := claims["sub"].(float64)
	if !ok || sub < 1 || sub > math.MaxUint32 || sub != math.Trunc(sub) {
		return 0, ErrInvalidToken
	}
	return uint(sub), nil
}
