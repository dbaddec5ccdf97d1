package internal

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"member-portal-api/config"
	"member-portal-api/internal/application/ports"
	"member-portal-api/internal/domain/file"
	"member-portal-api/internal/domain/member"
	"member-portal-api/internal/infrastructure/blobstore/local"
	"member-portal-api/internal/infrastructure/blobstore/oss"
	"member-portal-api/internal/infrastructure/db/postgres"
	pgFiles "member-portal-api/internal/infrastructure/db/postgres/file_record"
	pgMembers "member-portal-api/internal/infrastructure/db/postgres/member"
	"member-portal-api/internal/infrastructure/db/sqlite"
)

// Stores are the record stores selected by DB_DRIVER.
type Stores struct {
	Members member.Repository
	Files   file.Repository
	close   func()
}

func (s *Stores) Close() {
	if s != nil && s.close != nil {
		s.close()
	}
}

// OpenStores connects the configured database and brings its schema up to date.
func OpenStores(ctx context.Context, logger *zap.Logger, cfg config.Config) (*Stores, error) {
	switch cfg.DB.Driver {
	case config.DBDriverSQLite:
		db, err := sqlite.Open(logger, cfg.DB.SQLitePath)
		if err != nil {
			return nil, err
		}
		return &Stores{
			Members: sqlite.NewMemberRepository(db),
			Files:   sqlite.NewFileRepository(db),
			close: func() {
				if sqlDB, err := db.DB(); err == nil {
					_ = sqlDB.Close()
				}
			},
		}, nil

	case config.DBDriverPostgres:
		migrateDsn, err := cfg.MigrateDSN()
		if err != nil {
			return nil, fmt.Errorf("DB config error: %w", err)
		}
		if err = postgres.Migrate(logger, migrateDsn); err != nil {
			return nil, err
		}

		dbDsn, err := cfg.DBDSN()
		if err != nil {
			return nil, fmt.Errorf("DB config error: %w", err)
		}
		pool, err := postgres.New(ctx, logger, dbDsn)
		if err != nil {
			return nil, err
		}
		return &Stores{
			Members: pgMembers.NewRepository(pool),
			Files:   pgFiles.NewRepository(pool),
			close:   pool.Close,
		}, nil
	}

	return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DB.Driver)
}

// OpenBlobStore builds the blob store selected by STORAGE_DRIVER. The target directory or
// bucket is checked here once.
func OpenBlobStore(logger *zap.Logger, cfg config.Config) (ports.BlobStore, error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverLocal:
		s, err := local.New(cfg.Storage.LocalDir)
		if err != nil {
			return nil, err
		}
		logger.Info("local blob store ready", zap.String("dir", s.Dir()))
		return s, nil
	case config.StorageDriverOSS:
		return oss.New(logger, cfg.OSS)
	}

	return nil, fmt.Errorf("unsupported STORAGE_DRIVER %q", cfg.Storage.Driver)
}
