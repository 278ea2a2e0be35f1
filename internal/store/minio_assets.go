// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-note-keeper/internal/config"
	"github.com/MKhiriev/go-note-keeper/internal/logger"
	"github.com/MKhiriev/go-note-keeper/internal/utils"
	"github.com/MKhiriev/go-note-keeper/models"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// minioAssetStorage keeps note images in an S3-compatible bucket.
type minioAssetStorage struct {
	client    *minio.Client
	bucket    string
	publicURL string
	ids       *utils.UUIDGenerator
	logger    *logger.Logger
}

// NewMinioAssetStorage connects to cfg.Endpoint. Object URLs are built from
// cfg.PublicURL, falling back to the endpoint itself.
func NewMinioAssetStorage(cfg config.S3, logger *logger.Logger) (AssetStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAssetStorage, err)
	}

	publicURL := cfg.PublicURL
	if publicURL == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		publicURL = scheme + "://" + cfg.Endpoint + "/" + cfg.Bucket
	}

	logger.Debug().Str("endpoint", cfg.Endpoint).Str("bucket", cfg.Bucket).Msg("creating minio asset storage")
	return &minioAssetStorage{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
		ids:       utils.NewUUIDGenerator(),
		logger:    logger,
	}, nil
}

func (m *minioAssetStorage) Save(ctx context.Context, asset models.Asset) (string, error) {
	if asset.Body == nil || !utils.IsValidUUID(asset.NoteID) {
		return "", ErrInvalidAsset
	}

	key := assetKey(asset, m.ids.Generate())
	size := asset.Size
	if size <= 0 {
		size = -1
	}

	info, err := m.client.PutObject(ctx, m.bucket, key, asset.Body, size, minio.PutObjectOptions{
		ContentType: asset.ContentType,
	})
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "minioAssetStorage.Save").
			Str("note_id", asset.NoteID).
			Str("key", key).
			Msg("failed to upload asset")
		return "", fmt.Errorf("%w: %w", ErrAssetStorage, err)
	}

	logger.FromContext(ctx).Debug().
		Str("func", "minioAssetStorage.Save").
		Str("key", info.Key).
		Int64("size", info.Size).
		Msg("asset uploaded")

	return m.publicURL + "/" + key, nil
}

func (m *minioAssetStorage) Remove(ctx context.Context, url string) error {
	key, ok := strings.CutPrefix(url, m.publicURL+"/")
	if !ok || key == "" {
		return fmt.Errorf("%w: %s", ErrInvalidAsset, url)
	}

	if err := m.client.RemoveObject(ctx, m.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return ErrAssetNotFound
		}
		logger.FromContext(ctx).Err(err).
			Str("func", "minioAssetStorage.Remove").
			Str("key", key).
			Msg("failed to remove asset")
		return fmt.Errorf("%w: %w", ErrAssetStorage, err)
	}

	return nil
}
