package repository

import "errors"

var (
	// ErrInvalidPath indicates an empty or malformed image path.
	ErrInvalidPath = errors.New("invalid image path")

	// ErrImageNotFound indicates the image file does not exist.
	ErrImageNotFound = errors.New("image not found")

	// ErrUndecodable indicates the file exists but is not a decodable image.
	ErrUndecodable = errors.New("image cannot be decoded")
)
