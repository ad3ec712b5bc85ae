package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// ImageStore persists uploaded images. Stored images are write-once: the
// pipeline never mutates or deletes them.
type ImageStore interface {
	// Save writes data under the given file name and returns the local path
	// usable by the OCR engine.
	Save(ctx context.Context, name string, data []byte) (string, error)
}

// Archiver mirrors stored uploads to secondary storage. Failures are logged
// and never affect the request outcome.
type Archiver interface {
	Archive(ctx context.Context, key string, data []byte, contentType string) error
}

// DiskStore writes uploads into a flat directory. Unique generated names
// prevent collisions, so no locking is needed.
type DiskStore struct {
	dir string
	log *zap.Logger
}

func NewDiskStore(dir string, log *zap.Logger) *DiskStore {
	return &DiskStore{dir: dir, log: log}
}

func (s *DiskStore) Save(ctx context.Context, name string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		s.log.Error("Failed to store image",
			zap.String("path", path),
			zap.Error(err))
		return "", fmt.Errorf("write %s: %w", path, err)
	}

	s.log.Debug("Image saved",
		zap.String("path", path),
		zap.Int("size", len(data)))

	return path, nil
}
