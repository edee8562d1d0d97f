package domain

import "context"

// VisionModel a generic interface for a vision-language model able to answer a free-form question
// about a single image. The image is passed as a file path because local inference runtimes
// (llava.cpp, gemma3.cpp and friends) expect file input rather than in-memory pixel buffers.
type VisionModel interface {
	// Name the name of the model. Useful for debugging.
	Name() string
	// Generate answers `question` about the image stored at `imagePath`. Implementations must
	// serialize concurrent calls themselves if the underlying runtime is not reentrant, and must
	// honor cancellation of `ctx`.
	Generate(ctx context.Context, imagePath string, question string) (string, error)
}

// PromptFormatter formats the user's question into the exact chat template the underlying model was
// trained with. Models are quite sensitive to slight variations in the template, so the formatter
// lives with the model binding and is injected here as an interface.
type PromptFormatter interface {
	// FormatQuestion embeds the question into the model's chat template alongside `imageCount`
	// image placeholder tokens.
	FormatQuestion(question string, imageCount int) string
}
