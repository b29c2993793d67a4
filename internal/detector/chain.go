package detector

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"go-skin-analyzer/internal/logger"
)

// Well-known model filenames probed inside the model directory, in
// preference order.
var probeFilenames = []string{
	"skin_disease_model.onnx",
	"skin_disease_model.tflite",
}

// Select picks a detector and loads it. An explicit model path wins over
// directory probing; a load failure at any step falls back to the
// heuristic detector, so the returned detector is always usable.
func Select(useMock bool, modelPath, modelDir string) Detector {
	if useMock {
		logger.Info("mock detector requested, using heuristic backend")
		return NewHeuristicDetector()
	}

	path := modelPath
	if path == "" {
		path = probeModelDir(modelDir)
	}
	if path == "" {
		logger.WithField("model_dir", modelDir).Warn("no model file found, using heuristic backend")
		return NewHeuristicDetector()
	}

	candidate := byExtension(path)
	if candidate == nil {
		logger.WithField("model", path).Warn("unrecognized model format, using heuristic backend")
		return NewHeuristicDetector()
	}
	if err := candidate.Load(); err != nil {
		logger.WithFields(logrus.Fields{
			"model": path,
			"error": err.Error(),
		}).Warn("model load failed, using heuristic backend")
		return NewHeuristicDetector()
	}
	return candidate
}

func probeModelDir(dir string) string {
	if dir == "" {
		return ""
	}
	for _, name := range probeFilenames {
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}
	return ""
}

func byExtension(path string) Detector {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".onnx":
		return NewONNXDetector(path)
	case ".tflite":
		return NewTFLiteDetector(path)
	default:
		return nil
	}
}
