package file_record

import (
	"time"

	"github.com/google/uuid"
)

type FileRecord struct {
	ID           uuid.UUID
	OwnerID      uuid.UUID
	OriginalName string
	DisplayName  string
	StorageKey   string
	MimeType     string
	SizeBytes    int64

	CreatedAt time.Time
}
