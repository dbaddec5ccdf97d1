package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"member-portal-api/internal/apperr"
	"member-portal-api/internal/application/ports"
	domain "member-portal-api/internal/domain/file"
)

const MaxDisplayNameLen = 255

// UploadCoordinator mediates between an authenticated caller, the blob store and the
// file record store. Ownership is the only guard on every operation.
type UploadCoordinator struct {
	blobs     ports.BlobStore
	records   domain.Repository
	events    ports.EventPublisher
	logger    *zap.Logger
	mCounter  *prometheus.CounterVec
	opTimeout time.Duration
	now       func() time.Time
}

func NewUploadCoordinator(
	blobs ports.BlobStore,
	records domain.Repository,
	events ports.EventPublisher,
	logger *zap.Logger,
	mCounter *prometheus.CounterVec,
	opTimeout time.Duration,
) ports.UploadService {
	return &UploadCoordinator{
		blobs:     blobs,
		records:   records,
		events:    events,
		logger:    logger,
		mCounter:  mCounter,
		opTimeout: opTimeout,
		now:       time.Now,
	}
}

// Create stores every item independently: blob first, then record. A failed item never
// leaves a record behind, and a record insert failure removes the blob it just wrote.
// Items that succeeded before a failure stay durable.
func (uc *UploadCoordinator) Create(
	ctx context.Context,
	ownerID uuid.UUID,
	items []domain.UploadItem,
) (domain.ItemResults, error) {
	if ownerID == uuid.Nil {
		return nil, apperr.Unauthorized("authentication required")
	}
	if len(items) == 0 {
		return nil, apperr.InvalidInput("at least one file is required")
	}

	results := make(domain.ItemResults, len(items))
	for idx, item := range items {
		results[idx] = domain.ItemResult{Index: idx, Name: item.OriginalName}

		rec, err := uc.createOne(ctx, ownerID, item)
		if err != nil {
			results[idx].Err = err
			uc.count("files_create_failed_total")
			uc.logger.Warn("upload item failed",
				zap.Stringer("owner_id", ownerID),
				zap.Int("index", idx),
				zap.String("original_name", item.OriginalName),
				zap.Error(err),
			)
			continue
		}

		results[idx].Record = rec
		uc.count("files_created_total")
		uc.publish(ctx, domain.EventCreated, rec)
	}

	return results, nil
}

func (uc *UploadCoordinator) createOne(
	ctx context.Context,
	ownerID uuid.UUID,
	item domain.UploadItem,
) (*domain.Record, error) {
	if strings.TrimSpace(item.OriginalName) == "" {
		return nil, apperr.InvalidInput("file name is required")
	}
	if item.Open == nil {
		return nil, apperr.InvalidInput("file content is required")
	}

	displayName := strings.TrimSpace(item.DisplayName)
	if displayName == "" {
		displayName = item.OriginalName
	}
	if err := validateDisplayName(displayName); err != nil {
		return nil, err
	}

	content, err := item.Open()
	if err != nil {
		return nil, apperr.InvalidInput("cannot read uploaded file")
	}
	defer content.Close()

	key := newStorageKey(uc.now(), item.OriginalName, item.MimeType)

	putCtx, cancel := uc.opCtx(ctx)
	err = uc.blobs.Put(putCtx, key, content, item.SizeBytes, item.MimeType)
	cancel()
	if err != nil {
		return nil, apperr.StorageUnavailable("failed to store file", err)
	}

	insCtx, cancel := uc.opCtx(ctx)
	rec, err := uc.records.Insert(insCtx, &domain.Record{
		ID:           uuid.New(),
		OwnerID:      ownerID,
		OriginalName: item.OriginalName,
		DisplayName:  displayName,
		StorageKey:   key,
		MimeType:     item.MimeType,
		SizeBytes:    item.SizeBytes,
		CreatedAt:    uc.now().UTC(),
	})
	cancel()
	if err != nil {
		// the caller may be gone already, the blob still has to go
		delCtx, cancel := uc.opCtx(context.WithoutCancel(ctx))
		if derr := uc.blobs.Delete(delCtx, key); derr != nil {
			uc.logger.Error("orphaned blob after failed record insert",
				zap.String("storage_key", key),
				zap.Error(derr),
			)
		}
		cancel()
		return nil, apperr.StorageUnavailable("failed to save file record", err)
	}

	return rec, nil
}

func (uc *UploadCoordinator) List(ctx context.Context, ownerID uuid.UUID) (domain.Records, error) {
	if ownerID == uuid.Nil {
		return nil, apperr.Unauthorized("authentication required")
	}

	ctx, cancel := uc.opCtx(ctx)
	defer cancel()

	recs, err := uc.records.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, apperr.StorageUnavailable("failed to list files", err)
	}
	if recs == nil {
		recs = domain.Records{}
	}

	return recs, nil
}

func (uc *UploadCoordinator) Get(ctx context.Context, ownerID uuid.UUID, id domain.ID) (*domain.Record, error) {
	return uc.ownedRecord(ctx, ownerID, id)
}

func (uc *UploadCoordinator) Rename(
	ctx context.Context,
	ownerID uuid.UUID,
	id domain.ID,
	displayName string,
) (*domain.Record, error) {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return nil, apperr.InvalidInput("displayName is required")
	}
	if err := validateDisplayName(displayName); err != nil {
		return nil, err
	}

	if _, err := uc.ownedRecord(ctx, ownerID, id); err != nil {
		return nil, err
	}

	updCtx, cancel := uc.opCtx(ctx)
	defer cancel()

	rec, err := uc.records.UpdateDisplayName(updCtx, id, displayName)
	if err != nil {
		return nil, apperr.StorageUnavailable("failed to rename file", err)
	}
	// deleted between the ownership check and the update
	if rec == nil {
		return nil, apperr.NotFound("file not found")
	}

	uc.count("files_renamed_total")
	uc.publish(ctx, domain.EventRenamed, rec)

	return rec, nil
}

// Delete removes the blob, then the record. A blob failure keeps the record so metadata
// never points at missing bytes. A record failure after the blob is gone is reported and
// logged; nothing repairs it afterwards.
func (uc *UploadCoordinator) Delete(ctx context.Context, ownerID uuid.UUID, id domain.ID) error {
	rec, err := uc.ownedRecord(ctx, ownerID, id)
	if err != nil {
		return err
	}

	blobCtx, cancel := uc.opCtx(ctx)
	err = uc.blobs.Delete(blobCtx, rec.StorageKey)
	cancel()
	if err != nil {
		return apperr.StorageUnavailable("failed to delete file", err)
	}

	recCtx, cancel := uc.opCtx(context.WithoutCancel(ctx))
	deleted, err := uc.records.Delete(recCtx, id)
	cancel()
	if err != nil {
		uc.logger.Error("file record outlived its blob",
			zap.Stringer("file_id", id),
			zap.String("storage_key", rec.StorageKey),
			zap.Error(err),
		)
		return apperr.StorageUnavailable("failed to delete file record", err)
	}
	if !deleted {
		return apperr.NotFound("file not found")
	}

	uc.count("files_deleted_total")
	uc.publish(ctx, domain.EventDeleted, rec)

	return nil
}

// Open returns the record and a reader over its bytes. The caller closes the reader.
func (uc *UploadCoordinator) Open(
	ctx context.Context,
	ownerID uuid.UUID,
	id domain.ID,
) (*domain.Record, io.ReadCloser, error) {
	rec, err := uc.ownedRecord(ctx, ownerID, id)
	if err != nil {
		return nil, nil, err
	}

	rc, err := uc.openBlob(ctx, rec.StorageKey)
	if err != nil {
		return nil, nil, apperr.StorageUnavailable("failed to read file", err)
	}

	return rec, rc, nil
}

// openBlob bounds opening the blob by the operation timeout but not the reads after it.
// The context handed to the store lives until the reader is closed.
func (uc *UploadCoordinator) openBlob(ctx context.Context, key string) (io.ReadCloser, error) {
	ctx, cancel := context.WithCancel(ctx)

	var timer *time.Timer
	if uc.opTimeout > 0 {
		timer = time.AfterFunc(uc.opTimeout, cancel)
	}

	rc, err := uc.blobs.Open(ctx, key)
	timedOut := timer != nil && !timer.Stop()
	switch {
	case err == nil && timedOut:
		_ = rc.Close()
		err = context.DeadlineExceeded
	case err != nil && timedOut && !errors.Is(err, context.DeadlineExceeded):
		err = fmt.Errorf("%w: %w", context.DeadlineExceeded, err)
	}
	if err != nil {
		cancel()
		return nil, err
	}

	return &cancelOnClose{ReadCloser: rc, cancel: cancel}, nil
}

type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelOnClose) Close() error {
	err := c.ReadCloser.Close()
	c.cancel()
	return err
}

func (uc *UploadCoordinator) ownedRecord(ctx context.Context, ownerID uuid.UUID, id domain.ID) (*domain.Record, error) {
	if ownerID == uuid.Nil {
		return nil, apperr.Unauthorized("authentication required")
	}
	if id == uuid.Nil {
		return nil, apperr.InvalidInput("file id is required")
	}

	ctx, cancel := uc.opCtx(ctx)
	defer cancel()

	rec, err := uc.records.Get(ctx, id)
	if err != nil {
		return nil, apperr.StorageUnavailable("failed to fetch file", err)
	}
	if rec == nil {
		return nil, apperr.NotFound("file not found")
	}
	if !rec.OwnedBy(ownerID) {
		return nil, apperr.Forbidden("file belongs to another member")
	}

	return rec, nil
}

func (uc *UploadCoordinator) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if uc.opTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, uc.opTimeout)
}

func (uc *UploadCoordinator) publish(ctx context.Context, action string, rec *domain.Record) {
	if uc.events == nil {
		return
	}
	uc.events.Publish(ctx, domain.NewEvent(action, rec))
}

func (uc *UploadCoordinator) count(label string) {
	if uc.mCounter != nil {
		uc.mCounter.WithLabelValues(label).Inc()
	}
}

func validateDisplayName(name string) error {
	if utf8.RuneCountInString(name) > MaxDisplayNameLen {
		return apperr.InvalidInput("displayName must be at most 255 characters")
	}
	for _, r := range name {
		if r < 0x20 || r == 0x7f {
			return apperr.InvalidInput("displayName contains control characters")
		}
	}
	return nil
}
