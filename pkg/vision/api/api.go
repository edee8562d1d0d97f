package api

import (
	"image"
	"os"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/loresico/gemma3-vision-demo/pkg/common"
	"github.com/loresico/gemma3-vision-demo/pkg/vision/domain"
	"github.com/loresico/gemma3-vision-demo/pkg/vision/infrastructure/compat"
	"github.com/loresico/gemma3-vision-demo/pkg/vision/infrastructure/gemmacpp"
	"github.com/loresico/gemma3-vision-demo/pkg/vision/infrastructure/logging"
)

// See domain/config.go
const (
	ConfigKeyModelID   = domain.ConfigKeyModelID
	ConfigKeyQuantBits = domain.ConfigKeyQuantBits
	ConfigKeyLogPath   = domain.ConfigKeyLogPath
)

// API is the entrypoint to the demo. It shouldn't contain any logic of its own; it glues all the
// components together and provides a public interface for domain.AnalysisService.
// This API can be used in various contexts: the bundled web page, a console, an IRC bot etc.
type API interface {
	// Analyze answers `question` about `img`. Never panics; every failure is reported through
	// the returned result's ErrorKind and ErrorMessage.
	Analyze(img image.Image, question string) domain.AnalysisResult
	// AnalyzeFile like Analyze, for frontends which have the image on disk rather than in memory.
	// An unreadable or undecodable file is a validation failure, not an inference one.
	AnalyzeFile(path string, question string) domain.AnalysisResult
	// EnsureModelLoaded loads the model weights (and installs the compatibility adapter) eagerly.
	// Frontends call it before accepting requests so that a broken installation refuses to start
	// instead of failing on the first user.
	EnsureModelLoaded() error
}

type api struct {
	analysisService *domain.AnalysisService
	visionModel     *gemmacpp.VisionModel
}

func NewAPI(config *common.Config) (API, error) {
	logger := common.NewFileLogger(config.GetStringOrDefault(ConfigKeyLogPath, "log.txt"))
	sampling := domain.SamplingConfigFromConfig(config)
	if err := sampling.Validate(); err != nil {
		return nil, err
	}
	loader := gemmacpp.NewLoader(config, func() error {
		return compat.Install(logger)
	}, logger)
	visionModel := gemmacpp.NewVisionModel(loader, sampling, config, logger)
	analysisService := domain.NewAnalysisService(
		logging.NewVisionModelDecorator(visionModel, logger),
		domain.NewTempImageScope(config, logger),
		domain.NewResponseCleaner(),
		config,
		logger,
	)
	return &api{
		analysisService: analysisService,
		visionModel:     visionModel,
	}, nil
}

func (a *api) Analyze(img image.Image, question string) domain.AnalysisResult {
	return a.analysisService.Analyze(img, question)
}

func (a *api) AnalyzeFile(path string, question string) domain.AnalysisResult {
	file, err := os.Open(path)
	if err != nil {
		return domain.NewFailedResult(&domain.ValidationError{Reason: "Could not open image \"" + path + "\"."})
	}
	defer func() {
		_ = file.Close()
	}()
	img, _, err := image.Decode(file)
	if err != nil {
		return domain.NewFailedResult(&domain.ValidationError{Reason: "\"" + path + "\" is not a supported image."})
	}
	return a.analysisService.Analyze(img, question)
}

func (a *api) EnsureModelLoaded() error {
	return a.visionModel.EnsureLoaded()
}
