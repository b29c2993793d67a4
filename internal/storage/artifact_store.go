package storage

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"go-skin-analyzer/internal/errors"
)

// ArtifactStore persists rendered analysis artifacts (heatmaps, overlays)
// and returns a reference to the stored copy.
type ArtifactStore interface {
	SavePNG(ctx context.Context, name string, img image.Image) (string, error)
}

type localStore struct {
	dir string
}

// NewLocalStore creates a store writing PNG files under dir. The
// directory is created on first use, not at construction.
func NewLocalStore(dir string) ArtifactStore {
	return &localStore{dir: dir}
}

func (s *localStore) SavePNG(_ context.Context, name string, img image.Image) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", errors.NewPersistenceError(fmt.Sprintf("create output directory %s", s.dir), err)
	}

	path := filepath.Join(s.dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", errors.NewPersistenceError(fmt.Sprintf("create artifact file %s", path), err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return "", errors.NewPersistenceError(fmt.Sprintf("encode artifact %s", path), err)
	}
	return path, nil
}
