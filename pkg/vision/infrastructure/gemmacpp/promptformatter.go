package gemmacpp

import (
	"strings"

	"github.com/loresico/gemma3-vision-demo/pkg/vision/domain"
)

// Gemma 3 chat-template tokens.
const (
	ImageToken       = "<start_of_image>"
	startOfUserTurn  = "<start_of_turn>user\n"
	startOfModelTurn = "<start_of_turn>model\n"
	endOfTurn        = "<end_of_turn>\n"
)

type promptFormatter struct{}

// NewPromptFormatter formats questions with the Gemma 3 chat template: a user turn containing one
// image placeholder per attached image followed by an open model turn for the answer.
func NewPromptFormatter() domain.PromptFormatter {
	return &promptFormatter{}
}

func (p *promptFormatter) FormatQuestion(question string, imageCount int) string {
	var builder strings.Builder
	builder.WriteString(startOfUserTurn)
	for i := 0; i < imageCount; i++ {
		builder.WriteString(ImageToken)
	}
	if imageCount > 0 {
		builder.WriteString("\n")
	}
	builder.WriteString(strings.TrimSpace(question))
	builder.WriteString("\n")
	builder.WriteString(endOfTurn)
	builder.WriteString(startOfModelTurn)
	return builder.String()
}
