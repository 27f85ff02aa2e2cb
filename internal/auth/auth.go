package auth

import (
	"context"
	"errors"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/spellbe/portal-api/internal/config"
	"golang.org/x/crypto/bcrypt"
)

// AdminSubject is the token subject granted to whoever knows the admin password.
const AdminSubject = "admin"

var ErrInvalidPassword = errors.New("invalid password")

type AuthHandler struct {
	cfg *config.Config
	now func() time.Time
}

func NewAuthHandler(cfg *config.Config) *AuthHandler {
	return &AuthHandler{cfg: cfg, now: time.Now}
}

type LoginRequest struct {
	Body struct {
		Password string `json:"password" doc:"Admin password"`
	}
}

type LoginResponse struct {
	Body struct {
		Token string `json:"token" doc:"Bearer token for admin requests"`
	}
}

func (h *AuthHandler) HandleLogin(ctx context.Context, input *LoginRequest) (*LoginResponse, error) {
	token, err := h.Login(input.Body.Password)
	if errors.Is(err, ErrInvalidPassword) {
		return nil, huma.Error401Unauthorized("Invalid password")
	}
	if err != nil {
		return nil, huma.Error500InternalServerError("Internal server error")
	}

	res := &LoginResponse{}
	res.Body.Token = token
	return res, nil
}

// Login checks password against the configured bcrypt hash and issues a token.
func (h *AuthHandler) Login(password string) (string, error) {
	err := bcrypt.CompareHashAndPassword([]byte(h.cfg.AdminPasswordHash), []byte(password))
	if err != nil {
		return "", ErrInvalidPassword
	}
	return h.GenerateToken()
}

func (h *AuthHandler) GenerateToken() (string, error) {
	now := h.now()
	claims := jwt.RegisteredClaims{
		Subject:   AdminSubject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(h.cfg.AdminTokenTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.cfg.JWTSecret))
}
