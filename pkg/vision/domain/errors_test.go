package domain

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"nil", nil, ErrorKindNone},
		{"validation", &ValidationError{Reason: "no image"}, ErrorKindValidation},
		{"model load", &ModelLoadError{Cause: errors.New("missing weights")}, ErrorKindModelLoad},
		{"patch", &PatchError{Cause: errors.New("bad mask")}, ErrorKindPatch},
		{"resource", &ResourceError{Path: "/tmp/x", Cause: errors.New("disk full")}, ErrorKindResource},
		{"inference", &InferenceError{Cause: errors.New("crashed")}, ErrorKindInference},
		{"bare error defaults to inference", errors.New("whatever"), ErrorKindInference},
		// More specific conditions must win over the generic inference wrapper.
		{
			"signature mismatch inside inference wrapper",
			&InferenceError{Cause: fmt.Errorf("call failed: %w", ErrSignatureMismatch)},
			ErrorKindPatch,
		},
		{
			"deadline inside inference wrapper",
			&InferenceError{Cause: fmt.Errorf("gemma3.cpp: %w", context.DeadlineExceeded)},
			ErrorKindTimeout,
		},
		{
			"model load inside inference wrapper",
			&InferenceError{Cause: &ModelLoadError{Cause: errors.New("missing weights")}},
			ErrorKindModelLoad,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestNewFailedResultShowsOnlyValidationReasonsInline(t *testing.T) {
	validation := NewFailedResult(&ValidationError{Reason: "Please upload an image first."})
	assert.Equal(t, "Please upload an image first.", validation.ErrorMessage)
	assert.False(t, validation.Succeeded)

	inference := NewFailedResult(&InferenceError{Cause: errors.New("secret /home/user path")})
	assert.Equal(t, GenericFailureMessage, inference.ErrorMessage)
	assert.NotContains(t, inference.ErrorMessage, "secret")
}
