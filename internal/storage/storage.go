// Package storage writes processed uploads to the local upload directory or
// an S3 bucket and returns the URLs clients load them from.
package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"alley/internal/config"
)

// Store persists uploaded objects under slash-separated keys such as
// "thumbnails/thumbnail-<uuid>.jpg".
type Store interface {
	// Put writes data under key and returns its public URL.
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
	Delete(ctx context.Context, key string) error
}

// ErrInvalidKey is returned for empty or escaping keys.
var ErrInvalidKey = errors.New("storage: invalid object key")

// New builds the store selected by STORAGE_DRIVER.
func New(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.StorageDriver {
	case "", "local":
		return NewLocalStore(cfg.UploadDir, cfg.PublicBaseURL), nil
	case "s3":
		return NewS3Store(ctx, cfg)
	default:
		return nil, fmt.Errorf("storage: unknown driver %q", cfg.StorageDriver)
	}
}

// cleanKey rejects keys that would leave the store root.
func cleanKey(key string) (string, error) {
	key = strings.TrimPrefix(strings.TrimSpace(key), "/")
	if key == "" {
		return "", ErrInvalidKey
	}
	cleaned := path.Clean(key)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", ErrInvalidKey
	}
	return cleaned, nil
}

func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + key
}
