package ports

import (
	"context"
	"io"

	"github.com/google/uuid"

	"member-portal-api/internal/domain/file"
)

type UploadService interface {
	Create(ctx context.Context, ownerID uuid.UUID, items []file.UploadItem) (file.ItemResults, error)
	List(ctx context.Context, ownerID uuid.UUID) (file.Records, error)
	Get(ctx context.Context, ownerID uuid.UUID, id file.ID) (*file.Record, error)
	Rename(ctx context.Context, ownerID uuid.UUID, id file.ID, displayName string) (*file.Record, error)
	Delete(ctx context.Context, ownerID uuid.UUID, id file.ID) error
	Open(ctx context.Context, ownerID uuid.UUID, id file.ID) (*file.Record, io.ReadCloser, error)
}
