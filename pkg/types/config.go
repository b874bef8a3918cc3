// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"time"
)

// AIConfig holds shared settings for talking to the inference service.
type AIConfig struct {
	// Provider selects the inference backend: "gemini" or "openai".
	Provider string `json:"provider" yaml:"provider"`

	// Model is the model identifier (e.g. "gemini-2.0-flash-exp").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the inference API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxRetries is the number of retry attempts after a transient failure
	// (default 3). Permanent failures are never retried.
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// RetryDelay is the fixed wait between retry attempts (default 2s).
	RetryDelay time.Duration `json:"retry_delay" yaml:"retry_delay"`

	// InterCallDelay is the minimum spacing between consecutive inference
	// calls, to respect external quota (default 1s).
	InterCallDelay time.Duration `json:"inter_call_delay" yaml:"inter_call_delay"`
}

// AnalysisConfig holds settings for the analysis pipeline.
type AnalysisConfig struct {
	AIConfig `yaml:",inline"`

	// BatchSize is the number of slides per inference batch (default 6).
	BatchSize int `json:"batch_size" yaml:"batch_size"`

	// ConfidenceThreshold drops findings below this confidence from the
	// final result (default 0.70).
	ConfidenceThreshold float64 `json:"confidence_threshold" yaml:"confidence_threshold"`

	// SimilarityThreshold is the token-overlap ratio above which two
	// finding descriptions count as duplicates (default 0.5).
	SimilarityThreshold float64 `json:"similarity_threshold" yaml:"similarity_threshold"`

	// CrossDeck enables the whole-deck pass (default true).
	CrossDeck bool `json:"cross_deck" yaml:"cross_deck"`

	// IncludeOCR includes OCR-recovered image text in prompts.
	IncludeOCR bool `json:"include_ocr" yaml:"include_ocr"`
}

// CacheConfig holds settings for the raw-response cache. The cache stores
// transport responses only; findings are never persisted between runs.
type CacheConfig struct {
	// Enabled turns the SQLite response cache on (default off).
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Dir is the directory holding the cache database (default ".ppt-checker").
	Dir string `json:"dir" yaml:"dir"`
}

// Config groups all configuration for the CLI.
type Config struct {
	Analysis AnalysisConfig `json:"analysis" yaml:"analysis"`
	Cache    CacheConfig    `json:"cache" yaml:"cache"`
}

// Default configuration values.
const (
	DefaultBatchSize           = 6
	DefaultConfidenceThreshold = 0.70
	DefaultSimilarityThreshold = 0.5
	DefaultMaxRetries          = 3
	DefaultRetryDelay          = 2 * time.Second
	DefaultInterCallDelay      = time.Second
)

// DefaultAnalysisConfig returns an AnalysisConfig with all defaults applied.
func DefaultAnalysisConfig() AnalysisConfig {
	return AnalysisConfig{
		AIConfig: AIConfig{
			Provider:       "gemini",
			Model:          "gemini-2.0-flash-exp",
			MaxRetries:     DefaultMaxRetries,
			RetryDelay:     DefaultRetryDelay,
			InterCallDelay: DefaultInterCallDelay,
		},
		BatchSize:           DefaultBatchSize,
		ConfidenceThreshold: DefaultConfidenceThreshold,
		SimilarityThreshold: DefaultSimilarityThreshold,
		CrossDeck:           true,
	}
}

// Validate rejects configurations that must fail before any inference call
// is made.
func (c AnalysisConfig) Validate() error {
	if c.BatchSize < 1 {
		return fmt.Errorf("batch size must be at least 1, got %d", c.BatchSize)
	}
	if c.ConfidenceThreshold < 0 || c.ConfidenceThreshold > 1 {
		return fmt.Errorf("confidence threshold must be in [0,1], got %g", c.ConfidenceThreshold)
	}
	if c.SimilarityThreshold < 0 || c.SimilarityThreshold > 1 {
		return fmt.Errorf("similarity threshold must be in [0,1], got %g", c.SimilarityThreshold)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max retries must be non-negative, got %d", c.MaxRetries)
	}
	return nil
}
