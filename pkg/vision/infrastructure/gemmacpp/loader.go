package gemmacpp

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/loresico/gemma3-vision-demo/pkg/common"
	"github.com/loresico/gemma3-vision-demo/pkg/vision/domain"
)

const (
	// ConfigKeyModelsDir the directory which contains one subdirectory per model, named by model ID
	ConfigKeyModelsDir = "modelsDir"
	// ConfigKeyBinaryPath the path to the gemma3.cpp binary
	ConfigKeyBinaryPath = "binaryPath"
)

const (
	defaultModelsDir  = "models"
	defaultBinaryPath = "./gemma3.cpp"

	modelConfigFileName = "config.json"
	projectorFileName   = "mmproj.gguf"
)

// ModelConfig the slice of the model directory's config.json the binding needs: token IDs for the
// processor and the hidden size for input preparation.
type ModelConfig struct {
	HiddenSize      int   `json:"hidden_size"`
	PadTokenID      int32 `json:"pad_token_id"`
	BOSTokenID      int32 `json:"bos_token_id"`
	ImageTokenIndex int32 `json:"image_token_index"`
	VocabSize       int32 `json:"vocab_size"`
	ContextLength   int   `json:"context_length"`
}

// Handle the loaded model: weight file paths, parsed config and the companion processor.
// Immutable after Load; shared freely across concurrent requests.
type Handle struct {
	modelID       string
	quantBits     int
	weightsPath   string
	projectorPath string
	config        ModelConfig
	processor     *Processor
	loaded        bool
}

func (h *Handle) ModelID() string {
	return h.modelID
}

func (h *Handle) QuantBits() int {
	return h.quantBits
}

func (h *Handle) Loaded() bool {
	return h != nil && h.loaded
}

func (h *Handle) Processor() *Processor {
	return h.processor
}

// Loader loads the model exactly once per process. Loading is expensive (weights are gigabytes),
// failures are structural rather than transient, and the runtime cannot share the accelerator
// between two loaded models -- hence a guarded singleton instead of a cache.
type Loader struct {
	once           sync.Once
	handle         *Handle
	err            error
	modelsDir      string
	binaryPath     string
	installAdapter func() error
	logger         common.Logger
}

// NewLoader `installAdapter` is invoked after a successful load and before the handle becomes
// visible, so no inference call can ever run against the unadapted input preparation.
func NewLoader(config *common.Config, installAdapter func() error, logger common.Logger) *Loader {
	return &Loader{
		modelsDir:      config.GetStringOrDefault(ConfigKeyModelsDir, defaultModelsDir),
		binaryPath:     config.GetStringOrDefault(ConfigKeyBinaryPath, defaultBinaryPath),
		installAdapter: installAdapter,
		logger:         logger,
	}
}

// BinaryPath the gemma3.cpp binary the loader validated.
func (l *Loader) BinaryPath() string {
	return l.binaryPath
}

// GetOrLoad loads the model on first call and returns the cached handle afterwards. The arguments
// are ignored once a handle exists: the demo assumes a single model configuration per process
// (multi-model support would require keying the cache by (modelID, quantBits)).
func (l *Loader) GetOrLoad(modelID string, quantBits int) (*Handle, error) {
	l.once.Do(func() {
		l.handle, l.err = l.load(modelID, quantBits)
		if l.err == nil && l.installAdapter != nil {
			if err := l.installAdapter(); err != nil {
				l.handle = nil
				l.err = err
			}
		}
		if l.err == nil {
			l.logger.Log(fmt.Sprintf("loaded model \"%s\" (%d-bit)", modelID, quantBits))
		}
	})
	return l.handle, l.err
}

func (l *Loader) load(modelID string, quantBits int) (*Handle, error) {
	if quantBits != 4 && quantBits != 8 {
		return nil, &domain.ModelLoadError{Cause: fmt.Errorf("unsupported quantization bit-width %d (want 4 or 8)", quantBits)}
	}
	if _, err := os.Stat(l.binaryPath); err != nil {
		return nil, &domain.ModelLoadError{Cause: fmt.Errorf("gemma3.cpp binary not found at \"%s\": %w", l.binaryPath, err)}
	}
	modelDir := filepath.Join(l.modelsDir, modelID)
	config, err := loadModelConfig(filepath.Join(modelDir, modelConfigFileName))
	if err != nil {
		return nil, &domain.ModelLoadError{Cause: err}
	}
	weightsPath := filepath.Join(modelDir, fmt.Sprintf("model-q%d.gguf", quantBits))
	if err := requireNonEmptyFile(weightsPath); err != nil {
		return nil, &domain.ModelLoadError{Cause: err}
	}
	projectorPath := filepath.Join(modelDir, projectorFileName)
	if err := requireNonEmptyFile(projectorPath); err != nil {
		return nil, &domain.ModelLoadError{Cause: err}
	}
	return &Handle{
		modelID:       modelID,
		quantBits:     quantBits,
		weightsPath:   weightsPath,
		projectorPath: projectorPath,
		config:        config,
		processor:     newProcessor(config),
		loaded:        true,
	}, nil
}

func loadModelConfig(path string) (ModelConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ModelConfig{}, fmt.Errorf("model config: %w", err)
	}
	var config ModelConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return ModelConfig{}, fmt.Errorf("model config: %w", err)
	}
	if config.VocabSize <= 0 {
		return ModelConfig{}, fmt.Errorf("model config \"%s\": missing or invalid vocab_size", path)
	}
	if config.ImageTokenIndex <= 0 {
		return ModelConfig{}, fmt.Errorf("model config \"%s\": missing or invalid image_token_index", path)
	}
	return config, nil
}

// requireNonEmptyFile a cheap integrity check: a zero-length weight file means an interrupted
// download, and the subprocess would fail much later with a far less helpful message.
func requireNonEmptyFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.Size() == 0 {
		return fmt.Errorf("\"%s\" is empty (interrupted download?)", path)
	}
	return nil
}
