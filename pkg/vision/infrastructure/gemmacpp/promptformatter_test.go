package gemmacpp

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatQuestionWithOneImage(t *testing.T) {
	prompt := NewPromptFormatter().FormatQuestion("What is in this picture?", 1)

	assert.Equal(t, "<start_of_turn>user\n<start_of_image>\nWhat is in this picture?\n<end_of_turn>\n<start_of_turn>model\n", prompt)
}

func TestFormatQuestionWithoutImages(t *testing.T) {
	prompt := NewPromptFormatter().FormatQuestion("Hello", 0)

	assert.NotContains(t, prompt, ImageToken)
	assert.Equal(t, "<start_of_turn>user\nHello\n<end_of_turn>\n<start_of_turn>model\n", prompt)
}

func TestFormatQuestionTrimsWhitespace(t *testing.T) {
	prompt := NewPromptFormatter().FormatQuestion("  What color is the sky?\n", 1)

	assert.NotContains(t, prompt, "  What")
	assert.Contains(t, prompt, "\nWhat color is the sky?\n")
}

func TestFormatQuestionRepeatsImageToken(t *testing.T) {
	prompt := NewPromptFormatter().FormatQuestion("Compare these.", 3)

	assert.Equal(t, 3, strings.Count(prompt, ImageToken))
}
