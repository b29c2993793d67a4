package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"go-skin-analyzer/internal/config"
	"go-skin-analyzer/internal/container"
	"go-skin-analyzer/pkg/models"
)

// Command-line batch runner: analyzes a single image or every supported
// image in a directory and writes a JSON summary next to the artifacts.
func main() {
	imagePath := flag.String("image", "", "path to a single image to analyze")
	dir := flag.String("dir", "", "directory of images to analyze")
	flag.Parse()

	if (*imagePath == "") == (*dir == "") {
		fmt.Fprintln(os.Stderr, "usage: analyze -image <path> | -dir <directory>")
		os.Exit(2)
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	c, err := container.NewContainerWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}

	ctx := context.Background()
	svc := c.AnalysisService()

	var payload interface{}
	exitCode := 0

	if *imagePath != "" {
		result := svc.Analyze(ctx, *imagePath)
		if result.Status == models.StatusFailed {
			exitCode = 1
		}
		payload = result
	} else {
		batch, err := svc.AnalyzeBatch(ctx, *dir)
		if err != nil {
			log.Fatalf("Batch analysis failed: %v", err)
		}
		if batch.Succeeded < batch.Attempted {
			exitCode = 1
		}
		payload = batch
	}

	if err := writeSummary(cfg.OutputDir, payload); err != nil {
		log.Printf("Failed to write summary: %v", err)
		exitCode = 1
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(payload); err != nil {
		log.Fatalf("Failed to encode result: %v", err)
	}

	c.Close()
	os.Exit(exitCode)
}

func writeSummary(outputDir string, payload interface{}) error {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return err
	}
	name := fmt.Sprintf("analysis_%s.json", models.Timestamped(time.Now()))
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(outputDir, name), data, 0o644)
}
