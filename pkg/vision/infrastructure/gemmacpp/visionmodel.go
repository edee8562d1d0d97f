package gemmacpp

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"sync"

	"github.com/loresico/gemma3-vision-demo/pkg/common"
	"github.com/loresico/gemma3-vision-demo/pkg/vision/domain"
)

// VisionModel answers questions about images by driving the local gemma3.cpp runtime.
// Implements domain.VisionModel.
type VisionModel struct {
	// Only 1 request can be processed at a time: the demo targets commodity hardware which
	// cannot run two inference passes simultaneously, and the runtime's internal state is not
	// reentrant anyway.
	mutex           sync.Mutex
	loader          *Loader
	promptFormatter domain.PromptFormatter
	sampling        domain.SamplingConfig
	modelID         string
	quantBits       int
	logger          common.Logger
}

// NewVisionModel creates the vision-language model as implemented by gemma3.cpp. The sampling
// config must already be validated by the caller.
func NewVisionModel(loader *Loader, sampling domain.SamplingConfig, config *common.Config, logger common.Logger) *VisionModel {
	return &VisionModel{
		loader:          loader,
		promptFormatter: NewPromptFormatter(),
		sampling:        sampling,
		modelID:         config.GetStringOrDefault(domain.ConfigKeyModelID, "gemma-3-4b-it"),
		quantBits:       config.GetIntOrDefault(domain.ConfigKeyQuantBits, 8),
		logger:          logger,
	}
}

func (v *VisionModel) Name() string {
	return "gemma3.cpp/" + v.modelID
}

// EnsureLoaded loads the model eagerly so frontends can refuse to start serving when loading
// fails, instead of failing on the first user request.
func (v *VisionModel) EnsureLoaded() error {
	_, err := v.loader.GetOrLoad(v.modelID, v.quantBits)
	return err
}

func (v *VisionModel) Generate(ctx context.Context, imagePath string, question string) (string, error) {
	handle, err := v.loader.GetOrLoad(v.modelID, v.quantBits)
	if err != nil {
		return "", err
	}
	v.mutex.Lock()
	defer v.mutex.Unlock()
	prompt := v.promptFormatter.FormatQuestion(question, 1)
	inputs, err := v.prepareInputs(handle, prompt)
	if err != nil {
		return "", err
	}
	return v.runGenerateCommand(ctx, handle, inputs, imagePath, prompt)
}

// prepareInputs runs host-side multimodal input preparation through the shared swappable binding.
// The processor hands over a raw attention mask, which is exactly what the pinned binding version
// chokes on without the compatibility adapter in front of it.
func (v *VisionModel) prepareInputs(handle *Handle, prompt string) (*ModelInputs, error) {
	encoded := handle.processor.Encode(prompt)
	return callPrepareInputs(PrepareParams{
		HiddenSize:      handle.config.HiddenSize,
		PadTokenID:      handle.config.PadTokenID,
		ImageTokenIndex: handle.config.ImageTokenIndex,
		InputIDs:        encoded.InputIDs,
		AttentionMask:   encoded.AttentionMask,
	})
}

func (v *VisionModel) runGenerateCommand(ctx context.Context, handle *Handle, inputs *ModelInputs, imagePath, prompt string) (string, error) {
	cmd := exec.CommandContext(ctx, v.loader.BinaryPath(), v.buildArgs(handle, inputs, imagePath, prompt)...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = os.Stderr
	err := cmd.Run()
	if err != nil {
		// Make sure a cancellation/timeout is reported as such instead of the opaque
		// "signal: killed" the subprocess dies with.
		if ctx.Err() != nil {
			return "", fmt.Errorf("gemma3.cpp: %w", ctx.Err())
		}
		return "", fmt.Errorf("gemma3.cpp: %w", err)
	}
	return out.String(), nil
}

func (v *VisionModel) buildArgs(handle *Handle, inputs *ModelInputs, imagePath, prompt string) []string {
	contextSize := len(inputs.InputIDs) + v.sampling.MaxTokens
	if handle.config.ContextLength > 0 && contextSize > handle.config.ContextLength {
		contextSize = handle.config.ContextLength
	}
	return []string{
		"-m", handle.weightsPath,
		"--mmproj", handle.projectorPath,
		"--image", imagePath,
		"--temp", strconv.FormatFloat(v.sampling.Temperature, 'f', -1, 64),
		"-n", strconv.Itoa(v.sampling.MaxTokens),
		"-c", strconv.Itoa(contextSize),
		"-p", prompt,
	}
}
