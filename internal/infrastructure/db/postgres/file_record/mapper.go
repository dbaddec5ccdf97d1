package file_record

import (
	"member-portal-api/internal/domain/file"
)

func fromDBModel(model *FileRecord) *file.Record {
	return &file.Record{
		ID:           model.ID,
		OwnerID:      model.OwnerID,
		OriginalName: model.OriginalName,
		DisplayName:  model.DisplayName,
		StorageKey:   model.StorageKey,
		MimeType:     model.MimeType,
		SizeBytes:    model.SizeBytes,

		CreatedAt: model.CreatedAt,
	}
}
