package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrNoToken      = errors.New("no bearer token")
	ErrInvalidToken = errors.New("invalid token")
)

// AuthInput is embedded in the input of every admin-only operation.
type AuthInput struct {
	Authorization string `header:"Authorization" doc:"Bearer token returned by /api/admin/login"`
}

// SecurityRequirement marks a huma operation as needing the admin bearer token.
var SecurityRequirement = []map[string][]string{{"bearerAuth": {}}}

// Authorize verifies the bearer token carried in an Authorization header
// value. Every admin request is checked; holding a token client-side is not
// enough.
func (h *AuthHandler) Authorize(ctx context.Context, authorization string) error {
	err := h.Verify(authorization)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNoToken):
		return huma.Error401Unauthorized("Unauthorized: No token found")
	default:
		return huma.Error401Unauthorized("Unauthorized: Invalid token")
	}
}

// Verify checks the signature, expiry and subject of a "Bearer <jwt>" value.
func (h *AuthHandler) Verify(authorization string) error {
	scheme, tokenString, ok := strings.Cut(strings.TrimSpace(authorization), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(tokenString) == "" {
		return ErrNoToken
	}

	token, err := jwt.ParseWithClaims(strings.TrimSpace(tokenString), &jwt.RegisteredClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(h.cfg.JWTSecret), nil
		},
		jwt.WithSubject(AdminSubject),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(h.now),
	)
	if err != nil || !token.Valid {
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return nil
}
