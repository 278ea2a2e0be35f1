package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/MKhiriev/go-note-keeper/internal/logger"
	"github.com/MKhiriev/go-note-keeper/internal/utils"
	"github.com/MKhiriev/go-note-keeper/models"
)

// AssetsURLPrefix is the URL path under which the HTTP server serves files
// written by [fileAssetStorage].
const AssetsURLPrefix = "/assets/"

// fileAssetStorage keeps note images on the local filesystem under
// <dir>/notes/<note id>/<uuid><ext>.
type fileAssetStorage struct {
	dir    string
	ids    *utils.UUIDGenerator
	logger *logger.Logger
}

// NewFileAssetStorage constructs an [AssetStorage] rooted at dir. The
// directory is created if missing.
func NewFileAssetStorage(dir string, logger *logger.Logger) (AssetStorage, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: empty assets dir", ErrAssetStorage)
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAssetStorage, err)
	}

	logger.Debug().Str("dir", dir).Msg("creating file asset storage")
	return &fileAssetStorage{
		dir:    dir,
		ids:    utils.NewUUIDGenerator(),
		logger: logger,
	}, nil
}

func (f *fileAssetStorage) Save(ctx context.Context, asset models.Asset) (string, error) {
	log := logger.FromContext(ctx)

	if asset.Body == nil || !utils.IsValidUUID(asset.NoteID) {
		return "", ErrInvalidAsset
	}

	key := assetKey(asset, f.ids.Generate())
	target := filepath.Join(f.dir, filepath.FromSlash(key))

	if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
		return "", fmt.Errorf("%w: %w", ErrAssetStorage, err)
	}

	file, err := os.OpenFile(target, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o640)
	if err != nil {
		log.Err(err).Str("func", "fileAssetStorage.Save").Str("note_id", asset.NoteID).Msg("failed to create asset file")
		return "", fmt.Errorf("%w: %w", ErrAssetStorage, err)
	}

	_, copyErr := io.Copy(file, asset.Body)
	closeErr := file.Close()
	if err = errors.Join(copyErr, closeErr); err != nil {
		_ = os.Remove(target)
		log.Err(err).Str("func", "fileAssetStorage.Save").Str("note_id", asset.NoteID).Msg("failed to write asset file")
		return "", fmt.Errorf("%w: %w", ErrAssetStorage, err)
	}

	return AssetsURLPrefix + key, nil
}

// Remove deletes the file behind url. URLs outside the assets prefix or
// escaping the root directory are rejected.
func (f *fileAssetStorage) Remove(ctx context.Context, url string) error {
	key, ok := strings.CutPrefix(url, AssetsURLPrefix)
	if !ok || key == "" {
		return fmt.Errorf("%w: %s", ErrInvalidAsset, url)
	}

	cleaned := path.Clean("/" + key)
	if cleaned != "/"+key {
		return fmt.Errorf("%w: %s", ErrInvalidAsset, url)
	}

	err := os.Remove(filepath.Join(f.dir, filepath.FromSlash(cleaned)))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, os.ErrNotExist):
		return ErrAssetNotFound
	default:
		logger.FromContext(ctx).Err(err).Str("func", "fileAssetStorage.Remove").Str("url", url).Msg("failed to remove asset")
		return fmt.Errorf("%w: %w", ErrAssetStorage, err)
	}
}

// assetKey returns the slash-separated object key for asset.
func assetKey(asset models.Asset, id string) string {
	return path.Join("notes", asset.NoteID, id+assetExt(asset))
}

func assetExt(asset models.Asset) string {
	if ext := strings.ToLower(filepath.Ext(asset.Filename)); ext != "" && len(ext) <= 6 {
		return ext
	}
	if exts, err := mime.ExtensionsByType(asset.ContentType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ""
}
