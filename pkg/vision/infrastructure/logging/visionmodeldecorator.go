package logging

import (
	"context"
	"fmt"
	"time"

	"github.com/loresico/gemma3-vision-demo/pkg/common"
	"github.com/loresico/gemma3-vision-demo/pkg/vision/domain"
)

type visionModelDecorator struct {
	wrappedVisionModel domain.VisionModel
	logger             common.Logger
}

// NewVisionModelDecorator logs every question, answer and failure of the wrapped model together
// with the inference duration. The user only ever sees a generic failure message, so this log is
// where the actual inference errors end up.
func NewVisionModelDecorator(wrappedVisionModel domain.VisionModel, logger common.Logger) domain.VisionModel {
	return &visionModelDecorator{
		wrappedVisionModel: wrappedVisionModel,
		logger:             logger,
	}
}

func (v *visionModelDecorator) Name() string {
	return v.wrappedVisionModel.Name()
}

func (v *visionModelDecorator) Generate(ctx context.Context, imagePath string, question string) (string, error) {
	v.logger.Log(fmt.Sprintf("asking '%s' about \"%s\": %s", v.Name(), imagePath, question))
	t := time.Now()
	response, err := v.wrappedVisionModel.Generate(ctx, imagePath, question)
	if err != nil {
		v.logger.Log(fmt.Sprintf("'%s' failed after %d ms: %v", v.Name(), time.Since(t).Milliseconds(), err))
		return "", err
	}
	v.logger.Log(fmt.Sprintf("'%s' answered in %d ms: %s", v.Name(), time.Since(t).Milliseconds(), response))
	return response, nil
}
