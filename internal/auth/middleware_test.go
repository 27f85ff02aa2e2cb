package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestVerify(t *testing.T) {
	handler := newTestHandler(t, "admin123")

	sign := func(claims jwt.RegisteredClaims, secret string) string {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		s, err := token.SignedString([]byte(secret))
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		return s
	}

	valid, err := handler.GenerateToken()
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	cases := []struct {
		name   string
		header string
		want   error
	}{
		{"Valid", "Bearer " + valid, nil},
		{"LowercaseScheme", "bearer " + valid, nil},
		{"Missing", "", ErrNoToken},
		{"NoScheme", valid, ErrNoToken},
		{"WrongScheme", "Basic " + valid, ErrNoToken},
		{"Garbage", "Bearer not-a-jwt", ErrInvalidToken},
		{"Expired", "Bearer " + sign(jwt.RegisteredClaims{
			Subject:   AdminSubject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		}, "test-secret"), ErrInvalidToken},
		{"NoExpiry", "Bearer " + sign(jwt.RegisteredClaims{Subject: AdminSubject}, "test-secret"), ErrInvalidToken},
		{"WrongSubject", "Bearer " + sign(jwt.RegisteredClaims{
			Subject:   "visitor",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}, "test-secret"), ErrInvalidToken},
		{"WrongSecret", "Bearer " + sign(jwt.RegisteredClaims{
			Subject:   AdminSubject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}, "other-secret"), ErrInvalidToken},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := handler.Verify(tc.header)
			if tc.want == nil {
				if err != nil {
					t.Errorf("expected valid, got %v", err)
				}
				return
			}
			if !errors.Is(err, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestTokenExpiresAfterTTL(t *testing.T) {
	handler := newTestHandler(t, "admin123")
	issued := time.Now()
	handler.now = func() time.Time { return issued }

	token, err := handler.GenerateToken()
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	handler.now = func() time.Time { return issued.Add(25 * time.Hour) }
	if err := handler.Authorize(context.Background(), "Bearer "+token); err == nil {
		t.Error("expected token to be rejected after its TTL")
	}
}
