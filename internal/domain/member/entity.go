package member

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type (
	UUID   = uuid.UUID
	Member struct {
		UUID         UUID
		Email        string
		PasswordHash string
		Name         string
		Role         string

		CreatedAt time.Time
	}
)
