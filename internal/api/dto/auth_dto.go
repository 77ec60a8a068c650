package dto

import (
	"time"

	"github.com/spec-kit/auth-service/internal/domain"
)

// RegisterRequest payload for new accounts.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest payload for minting a new token pair.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// TokenPairResponse carries a freshly minted access/refresh pair.
type TokenPairResponse struct {
	AccessToken      string    `json:"accessToken"`
	AccessExpiresAt  time.Time `json:"accessExpiresAt"`
	RefreshToken     string    `json:"refreshToken"`
	RefreshExpiresAt time.Time `json:"refreshExpiresAt"`
}

// NewTokenPairResponse maps the domain pair onto the wire shape.
func NewTokenPairResponse(pair domain.TokenPair) TokenPairResponse {
	return TokenPairResponse{
		AccessToken:      pair.AccessToken,
		AccessExpiresAt:  pair.AccessExpiresAt,
		RefreshToken:     pair.RefreshToken,
		RefreshExpiresAt: pair.RefreshExpiresAt,
	}
}

// UserResponse is the public projection of an account.
type UserResponse struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}

// NewUserResponse maps a domain user onto the wire shape.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{ID: user.ID, Name: user.Name, Email: user.Email, Role: user.Role}
}
