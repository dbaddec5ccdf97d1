package identity

import (
	"time"

	"github.com/google/uuid"
)

type (
	Identity struct {
		UserID uuid.UUID
		Email  string
		Role   string
	}
	Credentials struct {
		Email    string
		Password string
	}
)

type Session struct {
	Token     string
	ExpiresAt time.Time
	Identity  Identity
}
