package domain

import (
	"fmt"

	"github.com/loresico/gemma3-vision-demo/pkg/common"
)

const (
	// DefaultTemperature makes output deterministic so that demo runs are reproducible
	DefaultTemperature = 0.0
	// DefaultMaxTokens enough for a detailed answer about a single image without letting the model ramble
	DefaultMaxTokens = 300

	maxTemperature = 2.0
)

// SamplingConfig enumerates every generation option the pipeline recognizes. Kept deliberately
// strongly typed: an unknown option is a compile error here, not a silently ignored key.
type SamplingConfig struct {
	// Temperature controls sampling randomness. 0 means greedy (deterministic) decoding.
	Temperature float64
	// MaxTokens caps the length of the generated answer, in tokens.
	MaxTokens int
}

// DefaultSamplingConfig deterministic, bounded output suitable for a reproducible demo.
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		Temperature: DefaultTemperature,
		MaxTokens:   DefaultMaxTokens,
	}
}

// SamplingConfigFromConfig reads the sampling options from the config file, falling back to the
// demo defaults. The result still has to be checked with Validate() at construction time.
func SamplingConfigFromConfig(config *common.Config) SamplingConfig {
	return SamplingConfig{
		Temperature: config.GetFloatOrDefault(ConfigKeyVisionTemperature, DefaultTemperature),
		MaxTokens:   config.GetIntOrDefault(ConfigKeyVisionMaxTokens, DefaultMaxTokens),
	}
}

func (s SamplingConfig) WithTemperature(value float64) SamplingConfig {
	s.Temperature = value
	return s
}

func (s SamplingConfig) WithMaxTokens(value int) SamplingConfig {
	s.MaxTokens = value
	return s
}

// Validate rejects option values the underlying model cannot work with.
func (s SamplingConfig) Validate() error {
	if s.Temperature < 0 || s.Temperature > maxTemperature {
		return fmt.Errorf("temperature must be between 0 and %g, got %g", maxTemperature, s.Temperature)
	}
	if s.MaxTokens <= 0 {
		return fmt.Errorf("maxTokens must be positive, got %d", s.MaxTokens)
	}
	return nil
}
