// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-note-keeper/internal/config"
	"github.com/MKhiriev/go-note-keeper/internal/logger"
)

// Storages groups the persistence dependencies of the service layer.
type Storages struct {
	NoteRepository NoteRepository
	UserRepository UserRepository
	AssetStorage   AssetStorage

	db *DB
}

// NewStorages connects to PostgreSQL, applies migrations unless
// cfg.DB.SkipMigrations is set and picks the asset store: S3 when an
// endpoint is configured, the local directory otherwise.
func NewStorages(ctx context.Context, cfg config.Storage, log *logger.Logger) (*Storages, error) {
	db, err := NewConnectPostgres(ctx, cfg.DB, log)
	if err != nil {
		return nil, err
	}

	if !cfg.DB.SkipMigrations {
		if err = db.Migrate(); err != nil {
			log.Err(err).Str("func", "NewStorages").Msg("failed to apply migrations")
			_ = db.Close()
			return nil, err
		}
		log.Info().Str("func", "NewStorages").Msg("migrations applied")
	}

	assets, err := NewAssetStorage(cfg.Assets, log)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Storages{
		NoteRepository: NewNoteRepository(db, log),
		UserRepository: NewUserRepository(db, log),
		AssetStorage:   assets,
		db:             db,
	}, nil
}

// NewAssetStorage returns the S3 store when cfg.S3.Endpoint is set and the
// filesystem store otherwise.
func NewAssetStorage(cfg config.Assets, log *logger.Logger) (AssetStorage, error) {
	if cfg.S3.Endpoint != "" {
		return NewMinioAssetStorage(cfg.S3, log)
	}

	dir := cfg.Dir
	if dir == "" {
		dir = config.DefaultAssetsDir
	}
	storage, err := NewFileAssetStorage(dir, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create file asset storage: %w", err)
	}
	return storage, nil
}

// Close releases the database connection pool.
func (s *Storages) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
