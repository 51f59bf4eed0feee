package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/chorus/pkg/chorus/internalerr"
)

// Default values applied when a field is absent from the config file.
const (
	DefaultMaxComments            = 500
	DefaultMinKeywordLength       = 3
	DefaultTopKeywordsCount       = 30
	DefaultSentimentThreshold     = 0.3
	DefaultEnableInsightDetection = true
)

// Analysis controls one analysis call. It is passed by value and never
// mutated by the engine.
type Analysis struct {
	MaxComments      int `yaml:"max_comments" json:"max_comments"`
	MinKeywordLength int `yaml:"min_keyword_length" json:"min_keyword_length"`
	TopKeywordsCount int `yaml:"top_keywords_count" json:"top_keywords_count"`

	// SentimentThreshold is validated and carried for compatibility but does
	// not move the scorer cutoffs, which stay fixed at ±0.2.
	SentimentThreshold float64 `yaml:"sentiment_threshold" json:"sentiment_threshold"`

	EnableInsightDetection bool `yaml:"enable_insight_detection" json:"enable_insight_detection"`
}

// Default returns the default analysis configuration.
func Default() Analysis {
	return Analysis{
		MaxComments:            DefaultMaxComments,
		MinKeywordLength:       DefaultMinKeywordLength,
		TopKeywordsCount:       DefaultTopKeywordsCount,
		SentimentThreshold:     DefaultSentimentThreshold,
		EnableInsightDetection: DefaultEnableInsightDetection,
	}
}

// Validate rejects out-of-range values. Nothing is coerced.
func (a Analysis) Validate() error {
	if a.MaxComments < 0 {
		return fmt.Errorf("%w: max_comments must be >= 0, got %d", internalerr.ErrInvalidConfig, a.MaxComments)
	}
	if a.MinKeywordLength < 1 {
		return fmt.Errorf("%w: min_keyword_length must be >= 1, got %d", internalerr.ErrInvalidConfig, a.MinKeywordLength)
	}
	if a.TopKeywordsCount < 0 {
		return fmt.Errorf("%w: top_keywords_count must be >= 0, got %d", internalerr.ErrInvalidConfig, a.TopKeywordsCount)
	}
	if a.SentimentThreshold < 0 || a.SentimentThreshold > 1 {
		return fmt.Errorf("%w: sentiment_threshold must be in [0, 1], got %v", internalerr.ErrInvalidConfig, a.SentimentThreshold)
	}
	return nil
}

// Load reads an analysis config from a YAML file. Keys missing from the
// file keep their default values.
func Load(path string) (Analysis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Analysis{}, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Analysis{}, fmt.Errorf("%w: parse %s: %v", internalerr.ErrInvalidConfig, path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Analysis{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}
