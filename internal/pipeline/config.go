package pipeline

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"

	"communitypulse/internal/cleaning"
	"communitypulse/internal/quality"
)

// Config holds the tunable knobs of a cleaning pipeline. Everything that
// used to be an ambient constant (similarity threshold, score weights,
// future-date policy) is carried here explicitly so tests can vary it
// without global state.
type Config struct {
	// SimilarityThreshold for the approximate duplicate pass, in (0, 1].
	SimilarityThreshold float64 `envconfig:"SIMILARITY_THRESHOLD" default:"0.85"`

	// CoerceFutureDates clamps future-dated join dates to the processing
	// date. When false they are only counted as a quality flag.
	CoerceFutureDates bool `envconfig:"COERCE_FUTURE_DATES" default:"false"`

	// FuzzyWorkers bounds the goroutines used for pairwise name comparison.
	// Zero means GOMAXPROCS.
	FuzzyWorkers int `envconfig:"FUZZY_WORKERS" default:"0"`

	// Health-score weights. They should sum to 1.
	CompletenessWeight float64 `envconfig:"COMPLETENESS_WEIGHT" default:"0.40"`
	UniquenessWeight   float64 `envconfig:"UNIQUENESS_WEIGHT" default:"0.30"`
	FormattingWeight   float64 `envconfig:"FORMATTING_WEIGHT" default:"0.30"`
}

// NewConfig returns the default pipeline configuration.
func NewConfig() *Config {
	return &Config{
		SimilarityThreshold: cleaning.DefaultSimilarityThreshold,
		CoerceFutureDates:   false,
		FuzzyWorkers:        0,
		CompletenessWeight:  0.40,
		UniquenessWeight:    0.30,
		FormattingWeight:    0.30,
	}
}

// ConfigFromEnv loads the configuration from PULSE_-prefixed environment
// variables, falling back to the defaults above.
func ConfigFromEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("pulse", &cfg); err != nil {
		return nil, fmt.Errorf("load pipeline config: %w", err)
	}
	return &cfg, nil
}

// Weights returns the scoring weights in the form the quality package uses.
func (c *Config) Weights() quality.Weights {
	return quality.Weights{
		Completeness: c.CompletenessWeight,
		Uniqueness:   c.UniquenessWeight,
		Formatting:   c.FormattingWeight,
	}
}

// ConfigBuilder provides a fluent interface for building configurations.
type ConfigBuilder struct {
	config *Config
}

// NewConfigBuilder creates a builder seeded with the defaults.
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{config: NewConfig()}
}

// WithSimilarityThreshold sets the fuzzy-match threshold.
func (b *ConfigBuilder) WithSimilarityThreshold(threshold float64) *ConfigBuilder {
	b.config.SimilarityThreshold = threshold
	return b
}

// WithCoerceFutureDates sets the future-date policy.
func (b *ConfigBuilder) WithCoerceFutureDates(coerce bool) *ConfigBuilder {
	b.config.CoerceFutureDates = coerce
	return b
}

// WithFuzzyWorkers bounds the fuzzy-pass worker count.
func (b *ConfigBuilder) WithFuzzyWorkers(workers int) *ConfigBuilder {
	b.config.FuzzyWorkers = workers
	return b
}

// WithWeights sets the health-score weights.
func (b *ConfigBuilder) WithWeights(weights quality.Weights) *ConfigBuilder {
	b.config.CompletenessWeight = weights.Completeness
	b.config.UniquenessWeight = weights.Uniqueness
	b.config.FormattingWeight = weights.Formatting
	return b
}

// Build returns the built configuration.
func (b *ConfigBuilder) Build() *Config {
	return b.config
}
