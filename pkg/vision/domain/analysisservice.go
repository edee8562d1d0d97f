package domain

import (
	"context"
	"image"
	"time"

	"github.com/loresico/gemma3-vision-demo/pkg/common"
)

// GenericFailureMessage what the user sees for any failure which is not their fault. Details are
// logged server-side only: the inference library's error strings mean nothing to the user and may
// leak local paths.
const GenericFailureMessage = "Analysis failed. Please try again."

const defaultResponseTimeout = 2 * time.Minute

// AnalysisResult the outcome of a single analyze call. Succeeded and ErrorKind are mutually
// consistent: ErrorKind is ErrorKindNone if and only if Succeeded is true.
type AnalysisResult struct {
	AnswerText   string
	Succeeded    bool
	ErrorKind    ErrorKind
	ErrorMessage string
}

// NewFailedResult maps a pipeline error to the result the UI receives. Only validation reasons are
// passed through verbatim.
func NewFailedResult(err error) AnalysisResult {
	kind := KindOf(err)
	message := GenericFailureMessage
	if kind == ErrorKindValidation {
		message = err.Error()
	}
	return AnalysisResult{
		Succeeded:    false,
		ErrorKind:    kind,
		ErrorMessage: message,
	}
}

// AnalysisService is the single entry point of the image-analysis pipeline: it sequences
// validation, the temp image scope, model inference and response cleanup. It never panics and
// never returns an error -- every failure is represented in the returned AnalysisResult, because
// the UI layer above has no use for Go errors it cannot classify.
type AnalysisService struct {
	visionModel     VisionModel
	tempImages      *TempImageScope
	responseCleaner ResponseCleaner
	logger          common.Logger
	responseTimeout time.Duration
}

func NewAnalysisService(
	visionModel VisionModel,
	tempImages *TempImageScope,
	responseCleaner ResponseCleaner,
	config *common.Config,
	logger common.Logger,
) *AnalysisService {
	return &AnalysisService{
		visionModel:     visionModel,
		tempImages:      tempImages,
		responseCleaner: responseCleaner,
		logger:          logger,
		responseTimeout: config.GetDurationOrDefault(ConfigKeyVisionResponseTimeout, defaultResponseTimeout),
	}
}

// Analyze answers `question` about `img`. Safe for concurrent use: the model serializes inference
// itself and every request gets its own temp image.
func (a *AnalysisService) Analyze(img image.Image, question string) AnalysisResult {
	request, err := ValidateRequest(img, question)
	if err != nil {
		return NewFailedResult(err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), a.responseTimeout)
	defer cancel()
	var answer string
	err = a.tempImages.WithTempImage(request.Image, func(path string) error {
		response, err := a.visionModel.Generate(ctx, path, request.Question)
		if err != nil {
			return &InferenceError{Cause: err}
		}
		answer = a.responseCleaner.CleanResponse(response)
		return nil
	})
	if err != nil {
		a.logger.Log("analysis failed (" + KindOf(err).String() + "): " + err.Error())
		return NewFailedResult(err)
	}
	return AnalysisResult{AnswerText: answer, Succeeded: true, ErrorKind: ErrorKindNone}
}
