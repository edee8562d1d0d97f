package domain

import (
	"image"
	"strings"
)

// These reach the user verbatim, so they are phrased as instructions, not diagnostics.
const (
	missingImageReason  = "Please upload an image first."
	emptyImageReason    = "The uploaded image is empty."
	emptyQuestionReason = "Please enter a question about the image."
)

// ValidRequest an (image, question) pair which passed validation. The question is already trimmed.
type ValidRequest struct {
	Image    image.Image
	Question string
}

// ValidateRequest checks an inbound request before any resources are spent on it: the image must be
// present and non-empty, and the question must be non-empty after trimming. Violations come back as
// *ValidationError so the UI can show the reason inline.
func ValidateRequest(img image.Image, question string) (ValidRequest, error) {
	if img == nil {
		return ValidRequest{}, &ValidationError{Reason: missingImageReason}
	}
	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return ValidRequest{}, &ValidationError{Reason: emptyImageReason}
	}
	question = strings.TrimSpace(question)
	if question == "" {
		return ValidRequest{}, &ValidationError{Reason: emptyQuestionReason}
	}
	return ValidRequest{Image: img, Question: question}, nil
}
