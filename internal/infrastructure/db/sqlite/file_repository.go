package sqlite

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"member-portal-api/internal/domain/file"
)

type FileRepository struct {
	db *gorm.DB
}

func NewFileRepository(db *gorm.DB) file.Repository {
	return &FileRepository{db: db}
}

func (r *FileRepository) Insert(ctx context.Context, rec *file.Record) (*file.Record, error) {
	m := recordToModel(rec)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, err
	}

	return recordFromModel(m)
}

func (r *FileRepository) Get(ctx context.Context, id file.ID) (*file.Record, error) {
	var m FileRecord
	err := r.db.WithContext(ctx).Where("id = ?", id.String()).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return recordFromModel(&m)
}

func (r *FileRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) (file.Records, error) {
	var models []FileRecord
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID.String()).
		Order("created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	recs := make(file.Records, 0, len(models))
	for i := range models {
		rec, err := recordFromModel(&models[i])
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}

	return recs, nil
}

func (r *FileRepository) UpdateDisplayName(ctx context.Context, id file.ID, displayName string) (*file.Record, error) {
	var out *file.Record
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&FileRecord{}).Where("id = ?", id.String()).Update("display_name", displayName)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}

		var m FileRecord
		if err := tx.Where("id = ?", id.String()).First(&m).Error; err != nil {
			return err
		}
		rec, err := recordFromModel(&m)
		if err != nil {
			return err
		}
		out = rec
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

func (r *FileRepository) Delete(ctx context.Context, id file.ID) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id.String()).Delete(&FileRecord{})
	if res.Error != nil {
		return false, res.Error
	}

	return res.RowsAffected > 0, nil
}
