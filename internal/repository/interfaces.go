package repository

import (
	"context"
	"image"
)

// ImageRepository abstracts how lesion photographs are read from their
// source location.
type ImageRepository interface {
	// LoadImage decodes the photograph at the given path.
	LoadImage(ctx context.Context, path string) (image.Image, error)

	// ValidatePath checks that the path points at a readable candidate.
	ValidatePath(path string) error

	// GetImageMetadata reports size and format without decoding pixels.
	GetImageMetadata(ctx context.Context, path string) (*ImageMetadata, error)
}

// ImageMetadata describes a photograph without its pixel data.
type ImageMetadata struct {
	SizeBytes int64
	Width     int
	Height    int
	Format    string
}
