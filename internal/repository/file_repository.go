package repository

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
)

// FileImageRepository reads photographs from the local filesystem.
type FileImageRepository struct{}

// NewFileImageRepository creates a filesystem-backed image repository.
func NewFileImageRepository() ImageRepository {
	return &FileImageRepository{}
}

// LoadImage decodes the image at path. The context is accepted for
// interface symmetry; local reads are not cancellable mid-decode.
func (r *FileImageRepository) LoadImage(_ context.Context, path string) (image.Image, error) {
	if err := r.ValidatePath(path); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrImageNotFound, path)
		}
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUndecodable, path, err)
	}
	return img, nil
}

func (r *FileImageRepository) ValidatePath(path string) error {
	if path == "" {
		return ErrInvalidPath
	}
	return nil
}

// GetImageMetadata reads only the image header, not the full pixel data.
func (r *FileImageRepository) GetImageMetadata(_ context.Context, path string) (*ImageMetadata, error) {
	if err := r.ValidatePath(path); err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrImageNotFound, path)
		}
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUndecodable, path, err)
	}

	return &ImageMetadata{
		SizeBytes: info.Size(),
		Width:     cfg.Width,
		Height:    cfg.Height,
		Format:    format,
	}, nil
}
