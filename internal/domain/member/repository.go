package member

import (
	"context"
	"errors"
)

var ErrEmailAlreadyExists = errors.New("email already exists")

// Repository looks members up for the credentials provider. Fetch* return (nil, nil)
// when nothing matches.
type Repository interface {
	FetchByEmail(ctx context.Context, email string) (*Member, error)
	FetchByID(ctx context.Context, uuid UUID) (*Member, error)
	Create(ctx context.Context, req Member) (*Member, error)
}
