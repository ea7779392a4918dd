package classifier

import "go.uber.org/zap"

const (
	// DefaultMaxLines is the number of keyphrases reviewed per submission
	DefaultMaxLines = 5

	// MinLabels is the smallest label set the pipeline accepts
	MinLabels = 2

	// MaxLabels is the largest label set the form accepts
	MaxLabels = 3
)

// Config holds configuration for the Pipeline
type Config struct {
	// Client performs zero-shot classification. If nil, uses the default (Hugging Face Inference API).
	Client ZeroShotClient

	// APIToken is used by the default client. If nil, read from the environment.
	APIToken *string
	Model    string
	BaseURL  string

	// MaxLines caps the keyphrases processed per submission. If 0, uses DefaultMaxLines.
	MaxLines int

	Logger *zap.Logger
}

// applyDefaults fills in default values for unset config fields
func (c *Config) applyDefaults() {
	if c.MaxLines <= 0 {
		c.MaxLines = DefaultMaxLines
	}

	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
}
