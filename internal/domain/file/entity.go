package file

import (
	"time"

	"github.com/google/uuid"
)

type (
	ID     = uuid.UUID
	Record struct {
		ID      ID
		OwnerID uuid.UUID

		OriginalName string
		DisplayName  string
		StorageKey   string
		MimeType     string
		SizeBytes    int64

		CreatedAt time.Time
	}
	Records []*Record
)

// OwnedBy reports whether ownerID is the exclusive owner of the record.
func (r *Record) OwnedBy(ownerID uuid.UUID) bool {
	return r != nil && r.OwnerID == ownerID
}
