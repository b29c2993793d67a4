package detector

import (
	"errors"
	"fmt"
	"image"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"go-skin-analyzer/internal/logger"
	"go-skin-analyzer/pkg/models"
)

// ONNXDetector runs a serialized ONNX classifier through onnxruntime. The
// session and its preallocated tensors are guarded by a mutex so the
// loaded model can be shared across concurrent analyses.
type ONNXDetector struct {
	modelPath string

	session *ort.AdvancedSession
	input   *ort.Tensor[float32]
	output  *ort.Tensor[float32]

	mu sync.Mutex
}

// NewONNXDetector creates an unloaded detector for the given model file.
func NewONNXDetector(modelPath string) *ONNXDetector {
	return &ONNXDetector{modelPath: modelPath}
}

func (d *ONNXDetector) Labels() []string { return LesionClasses }

func (d *ONNXDetector) Name() string { return "onnx" }

// Load resolves the onnxruntime shared library, initializes the
// environment, and opens an inference session with preallocated input
// [1,H,W,3] and output [1,len(labels)] tensors. A missing model file or
// runtime returns an error rather than panicking; the selection chain
// treats that as a signal to fall back.
func (d *ONNXDetector) Load() error {
	if d.modelPath == "" {
		return errors.New("onnx model path is empty")
	}
	if _, err := os.Stat(d.modelPath); err != nil {
		return fmt.Errorf("model file missing at %s: %w", d.modelPath, err)
	}

	libPath := resolveSharedLibraryPath(filepath.Dir(d.modelPath))
	if libPath == "" {
		return errors.New("onnxruntime shared library not found; set ONNXRUNTIME_SHARED_LIBRARY_PATH or install the runtime")
	}
	ort.SetSharedLibraryPath(libPath)
	if !ort.IsInitialized() {
		if err := ort.InitializeEnvironment(); err != nil {
			return fmt.Errorf("initialize onnxruntime: %w", err)
		}
	}

	inputShape := ort.NewShape(1, modelInputSize, modelInputSize, 3)
	input, err := ort.NewEmptyTensor[float32](inputShape)
	if err != nil {
		return fmt.Errorf("allocate input tensor: %w", err)
	}
	outputShape := ort.NewShape(1, int64(len(LesionClasses)))
	output, err := ort.NewEmptyTensor[float32](outputShape)
	if err != nil {
		input.Destroy()
		return fmt.Errorf("allocate output tensor: %w", err)
	}

	session, err := ort.NewAdvancedSession(
		d.modelPath,
		[]string{"input"},
		[]string{"output"},
		[]ort.Value{input},
		[]ort.Value{output},
		nil,
	)
	if err != nil {
		input.Destroy()
		output.Destroy()
		return fmt.Errorf("create onnx session: %w", err)
	}

	d.session = session
	d.input = input
	d.output = output
	logger.WithField("model", d.modelPath).Info("onnx model loaded")
	return nil
}

// Infer copies the preprocessed image into the input tensor, runs one
// forward pass, and maps the score vector to the fixed label set.
func (d *ONNXDetector) Infer(img image.Image) (*models.DetectionResult, error) {
	if d.session == nil {
		return nil, errors.New("onnx detector not loaded")
	}

	tensor := toInputTensor(img)

	d.mu.Lock()
	defer d.mu.Unlock()

	copy(d.input.GetData(), tensor)
	if err := d.session.Run(); err != nil {
		return nil, fmt.Errorf("onnx run: %w", err)
	}

	raw := d.output.GetData()
	scores := make([]float64, len(LesionClasses))
	for i := range scores {
		if i < len(raw) {
			scores[i] = float64(raw[i])
		}
	}
	return multiClassResult(normalizeScores(scores)), nil
}

// Close releases the session and tensors. Safe to call on an unloaded
// detector.
func (d *ONNXDetector) Close() {
	if d.session != nil {
		d.session.Destroy()
		d.session = nil
	}
	if d.input != nil {
		d.input.Destroy()
		d.input = nil
	}
	if d.output != nil {
		d.output.Destroy()
		d.output = nil
	}
}

// normalizeScores turns a raw score vector into a probability distribution.
// Vectors already summing to ~1 pass through unchanged; logits are mapped
// through a softmax.
func normalizeScores(scores []float64) []float64 {
	sum := 0.0
	inRange := true
	for _, s := range scores {
		sum += s
		if s < 0 || s > 1 {
			inRange = false
		}
	}
	if inRange && math.Abs(sum-1.0) < 1e-3 {
		return scores
	}

	max := scores[0]
	for _, s := range scores[1:] {
		if s > max {
			max = s
		}
	}
	out := make([]float64, len(scores))
	var total float64
	for i, s := range scores {
		out[i] = math.Exp(s - max)
		total += out[i]
	}
	for i := range out {
		out[i] /= total
	}
	return out
}

// resolveSharedLibraryPath locates a platform-specific onnxruntime shared
// library. ONNXRUNTIME_SHARED_LIBRARY_PATH wins; otherwise common names and
// locations are probed.
func resolveSharedLibraryPath(modelDir string) string {
	if env := strings.TrimSpace(os.Getenv("ONNXRUNTIME_SHARED_LIBRARY_PATH")); env != "" {
		return env
	}

	names := []string{
		"libonnxruntime.dylib",
		"onnxruntime.dylib",
		"libonnxruntime.so",
		"onnxruntime.so",
		"onnxruntime.dll",
	}
	dirs := []string{
		modelDir,
		filepath.Join(modelDir, "lib"),
		".",
		"/opt/homebrew/lib",
		"/usr/local/lib",
		"/usr/lib",
	}

	for _, dir := range dirs {
		for _, name := range names {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate
			}
		}
	}
	return ""
}
