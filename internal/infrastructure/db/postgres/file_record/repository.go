package file_record

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"member-portal-api/internal/domain/file"
	"member-portal-api/internal/infrastructure/db/postgres"
)

type Repository struct {
	db postgres.DB
}

func NewRepository(db postgres.DB) file.Repository {
	return &Repository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*file.Record, error) {
	m := new(FileRecord)
	err := row.Scan(
		&m.ID,
		&m.OwnerID,
		&m.OriginalName,
		&m.DisplayName,
		&m.StorageKey,
		&m.MimeType,
		&m.SizeBytes,

		&m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return fromDBModel(m), nil
}

func (r *Repository) Insert(ctx context.Context, rec *file.Record) (*file.Record, error) {
	out, err := scanRecord(r.db.QueryRow(
		ctx,
		InsertFile,
		rec.ID,
		rec.OwnerID,
		rec.OriginalName,
		rec.DisplayName,
		rec.StorageKey,
		rec.MimeType,
		rec.SizeBytes,
		rec.CreatedAt,
	))
	if err != nil {
		if postgres.IsPgUniqueViolation(err) {
			return nil, fmt.Errorf("storage key %q already recorded: %w", rec.StorageKey, err)
		}
		return nil, err
	}

	return out, nil
}

func (r *Repository) Get(ctx context.Context, id file.ID) (*file.Record, error) {
	rec, err := scanRecord(r.db.QueryRow(ctx, SelectFileByID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return rec, nil
}

func (r *Repository) ListByOwner(ctx context.Context, ownerID uuid.UUID) (file.Records, error) {
	rows, err := r.db.Query(ctx, SelectFilesByOwner, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recs := make(file.Records, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return recs, nil
}

func (r *Repository) UpdateDisplayName(ctx context.Context, id file.ID, displayName string) (*file.Record, error) {
	rec, err := scanRecord(r.db.QueryRow(ctx, UpdateDisplayName, id, displayName))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return rec, nil
}

func (r *Repository) Delete(ctx context.Context, id file.ID) (bool, error) {
	tag, err := r.db.Exec(ctx, DeleteFile, id)
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() > 0, nil
}
