package file

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists file metadata. Get returns (nil, nil) when no record exists.
type Repository interface {
	Insert(ctx context.Context, req *Record) (*Record, error)
	Get(ctx context.Context, id ID) (*Record, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) (Records, error)
	UpdateDisplayName(ctx context.Context, id ID, displayName string) (*Record, error)
	Delete(ctx context.Context, id ID) (bool, error)
}
