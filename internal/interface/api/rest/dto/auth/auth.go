package auth

import (
	"time"

	"github.com/google/uuid"

	"member-portal-api/internal/domain/identity"
)

type (
	LoginRequest struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	LoginResponse struct {
		AccessToken string    `json:"access_token"`
		TokenType   string    `json:"token_type"`
		ExpiresAt   time.Time `json:"expires_at"`
	}
	Me struct {
		ID    uuid.UUID `json:"id"`
		Email string    `json:"email"`
		Role  string    `json:"role"`
	}
)

func ToLoginResponse(s identity.Session) LoginResponse {
	return LoginResponse{
		AccessToken: s.Token,
		TokenType:   "Bearer",
		ExpiresAt:   s.ExpiresAt.UTC(),
	}
}

func ToMe(id identity.Identity) Me {
	return Me{
		ID:    id.UserID,
		Email: id.Email,
		Role:  id.Role,
	}
}
