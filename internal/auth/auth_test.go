package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/spellbe/portal-api/internal/config"
	"golang.org/x/crypto/bcrypt"
)

func newTestHandler(t *testing.T, password string) *AuthHandler {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	cfg := &config.Config{
		AdminPasswordHash: string(hash),
		JWTSecret:         "test-secret",
		AdminTokenTTL:     24 * time.Hour,
	}
	return NewAuthHandler(cfg)
}

func TestHandleLogin(t *testing.T) {
	handler := newTestHandler(t, "admin123")

	t.Run("CorrectPassword", func(t *testing.T) {
		input := &LoginRequest{}
		input.Body.Password = "admin123"
		resp, err := handler.HandleLogin(context.Background(), input)
		if err != nil {
			t.Fatalf("HandleLogin returned error: %v", err)
		}
		if resp.Body.Token == "" {
			t.Fatal("expected a token")
		}
		if err := handler.Verify("Bearer " + resp.Body.Token); err != nil {
			t.Errorf("issued token does not verify: %v", err)
		}
	})

	t.Run("WrongPassword", func(t *testing.T) {
		input := &LoginRequest{}
		input.Body.Password = "letmein"
		_, err := handler.HandleLogin(context.Background(), input)
		if err == nil {
			t.Fatal("expected error for wrong password")
		}
		var se huma.StatusError
		if !errors.As(err, &se) || se.GetStatus() != 401 {
			t.Errorf("expected 401, got %v", err)
		}
	})
}
