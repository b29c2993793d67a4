package storage

import (
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestLocalStore_SavePNG(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out", "nested")
	store := NewLocalStore(dir)
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))

	path, err := store.SavePNG(context.Background(), "heatmap_test.png", img)
	if err != nil {
		t.Fatalf("SavePNG failed: %v", err)
	}
	if path != filepath.Join(dir, "heatmap_test.png") {
		t.Errorf("Unexpected artifact path: %s", path)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Artifact not written: %v", err)
	}
	defer f.Close()

	decoded, err := png.Decode(f)
	if err != nil {
		t.Fatalf("Artifact is not a valid PNG: %v", err)
	}
	if decoded.Bounds().Dx() != 10 || decoded.Bounds().Dy() != 10 {
		t.Errorf("Decoded artifact has wrong dimensions: %v", decoded.Bounds())
	}
}

func TestLocalStore_UnwritableDirectory(t *testing.T) {
	store := NewLocalStore("/proc/invalid/output")
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))

	if _, err := store.SavePNG(context.Background(), "x.png", img); err == nil {
		t.Fatal("Expected error for unwritable directory")
	}
}
