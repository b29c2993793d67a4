package detector

import (
	"errors"
	"fmt"
	"image"
	"os"
	"runtime"
	"sync"

	"github.com/tphakala/go-tflite"

	"go-skin-analyzer/internal/logger"
	"go-skin-analyzer/pkg/models"
)

// TFLiteDetector runs a TensorFlow Lite classifier. Models exported with a
// single sigmoid output are interpreted as a malignancy risk score and
// expanded into a class distribution; models with one output per label are
// read as probabilities directly.
type TFLiteDetector struct {
	modelPath string

	model       *tflite.Model
	interpreter *tflite.Interpreter

	mu sync.Mutex
}

// NewTFLiteDetector creates an unloaded detector for the given model file.
func NewTFLiteDetector(modelPath string) *TFLiteDetector {
	return &TFLiteDetector{modelPath: modelPath}
}

func (d *TFLiteDetector) Labels() []string { return LesionClasses }

func (d *TFLiteDetector) Name() string { return "tflite" }

// Load reads the model file and builds an interpreter with allocated
// tensors. Errors are returned for the selection chain to act on.
func (d *TFLiteDetector) Load() error {
	if d.modelPath == "" {
		return errors.New("tflite model path is empty")
	}
	data, err := os.ReadFile(d.modelPath)
	if err != nil {
		return fmt.Errorf("read model file: %w", err)
	}

	model := tflite.NewModel(data)
	if model == nil {
		return fmt.Errorf("cannot parse model at %s", d.modelPath)
	}

	options := tflite.NewInterpreterOptions()
	if options == nil {
		model.Delete()
		return errors.New("cannot create interpreter options")
	}
	options.SetNumThread(runtime.NumCPU())

	interpreter := tflite.NewInterpreter(model, options)
	options.Delete()
	if interpreter == nil {
		model.Delete()
		return errors.New("cannot create interpreter")
	}
	if status := interpreter.AllocateTensors(); status != tflite.OK {
		interpreter.Delete()
		model.Delete()
		return errors.New("tensor allocation failed")
	}

	d.model = model
	d.interpreter = interpreter
	logger.WithField("model", d.modelPath).Info("tflite model loaded")
	return nil
}

// Infer runs one forward pass and maps the output to the fixed label set.
func (d *TFLiteDetector) Infer(img image.Image) (*models.DetectionResult, error) {
	if d.interpreter == nil {
		return nil, errors.New("tflite detector not loaded")
	}

	tensor := toInputTensor(img)

	d.mu.Lock()
	defer d.mu.Unlock()

	input := d.interpreter.GetInputTensor(0)
	if input == nil {
		return nil, errors.New("cannot get input tensor")
	}
	copy(input.Float32s(), tensor)

	if status := d.interpreter.Invoke(); status != tflite.OK {
		return nil, errors.New("tflite invoke failed")
	}

	output := d.interpreter.GetOutputTensor(0)
	if output == nil {
		return nil, errors.New("cannot get output tensor")
	}
	raw := output.Float32s()

	if len(raw) == 1 {
		return mapRiskScore(float64(raw[0])), nil
	}

	scores := make([]float64, len(LesionClasses))
	for i := range scores {
		if i < len(raw) {
			scores[i] = float64(raw[i])
		}
	}
	return multiClassResult(normalizeScores(scores)), nil
}

// Close releases the interpreter and model. Safe to call on an unloaded
// detector.
func (d *TFLiteDetector) Close() {
	if d.interpreter != nil {
		d.interpreter.Delete()
		d.interpreter = nil
	}
	if d.model != nil {
		d.model.Delete()
		d.model = nil
	}
}
