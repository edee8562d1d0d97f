package domain

import (
	"context"
	"errors"
	"fmt"
)

// ErrorKind classifies a failed analysis so that callers (the UI layer above all) can decide how to
// present it without knowing anything about the underlying inference library.
type ErrorKind int

const (
	ErrorKindNone = ErrorKind(iota)
	// ErrorKindValidation the user's input was rejected. The only kind whose message is safe to show inline.
	ErrorKindValidation
	// ErrorKindModelLoad the model could not be loaded. Fatal: the process must not serve requests.
	ErrorKindModelLoad
	// ErrorKindPatch the compatibility adapter found an incompatible version of the inference binding. Fatal.
	ErrorKindPatch
	// ErrorKindResource a temporary file could not be created or written
	ErrorKindResource
	// ErrorKindInference the generation call itself failed
	ErrorKindInference
	// ErrorKindTimeout the generation call exceeded the configured response timeout
	ErrorKindTimeout
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorKindNone:
		return "none"
	case ErrorKindValidation:
		return "validation"
	case ErrorKindModelLoad:
		return "modelLoad"
	case ErrorKindPatch:
		return "patch"
	case ErrorKindResource:
		return "resource"
	case ErrorKindInference:
		return "inference"
	case ErrorKindTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// ErrSignatureMismatch reported by the compatibility adapter when the wrapped input-preparation
// operation no longer has the shape the adapter was written against. Deliberately distinct from
// a generic inference failure: it means the pinned version of the inference binding has changed
// under us and the adapter must be revisited, not that this particular request was unlucky.
var ErrSignatureMismatch = errors.New("input preparation operation has an unexpected signature")

// ValidationError the user's (image, question) pair was rejected before any inference was attempted.
// Reason is human-readable and intended to be shown to the user as-is.
type ValidationError struct {
	Reason string
}

func (v *ValidationError) Error() string {
	return v.Reason
}

// ModelLoadError the model weights or the companion processor could not be loaded. Not retried:
// reloading is expensive and the cause is usually structural (missing files, not enough RAM).
type ModelLoadError struct {
	Cause error
}

func (m *ModelLoadError) Error() string {
	return fmt.Sprintf("failed to load the model: %v", m.Cause)
}

func (m *ModelLoadError) Unwrap() error {
	return m.Cause
}

// PatchError the compatibility adapter could not do its job (unconvertible attention mask value,
// or a signature mismatch in the wrapped operation).
type PatchError struct {
	Cause error
}

func (p *PatchError) Error() string {
	return fmt.Sprintf("compatibility adapter: %v", p.Cause)
}

func (p *PatchError) Unwrap() error {
	return p.Cause
}

// ResourceError a temporary file operation failed even after a retry.
type ResourceError struct {
	Path  string
	Cause error
}

func (r *ResourceError) Error() string {
	return fmt.Sprintf("temp resource \"%s\": %v", r.Path, r.Cause)
}

func (r *ResourceError) Unwrap() error {
	return r.Cause
}

// InferenceError wraps any failure raised by the underlying generation call so that no raw
// inference-library error ever crosses the pipeline boundary.
type InferenceError struct {
	Cause error
}

func (i *InferenceError) Error() string {
	return fmt.Sprintf("inference failed: %v", i.Cause)
}

func (i *InferenceError) Unwrap() error {
	return i.Cause
}

// KindOf classifies an error produced anywhere in the pipeline. More specific conditions win over
// the generic inference wrapper, so a signature mismatch surfaced mid-generation is still reported
// as a patch problem and a deadline expiry as a timeout.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ErrorKindNone
	}
	var validationError *ValidationError
	if errors.As(err, &validationError) {
		return ErrorKindValidation
	}
	var modelLoadError *ModelLoadError
	if errors.As(err, &modelLoadError) {
		return ErrorKindModelLoad
	}
	var patchError *PatchError
	if errors.As(err, &patchError) || errors.Is(err, ErrSignatureMismatch) {
		return ErrorKindPatch
	}
	var resourceError *ResourceError
	if errors.As(err, &resourceError) {
		return ErrorKindResource
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorKindTimeout
	}
	return ErrorKindInference
}
