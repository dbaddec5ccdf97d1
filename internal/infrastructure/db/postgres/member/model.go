package member

import (
	"time"

	"github.com/google/uuid"
)

type Member struct {
	UUID         uuid.UUID
	Email        string
	PasswordHash string
	Name         string
	Role         string

	CreatedAt time.Time
}
