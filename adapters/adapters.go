package adapters

import (
	"context"
	"fmt"
	"os"

	"github.com/FrenchMajesty/zeroshot-classifier/clients/huggingface"
	"github.com/FrenchMajesty/zeroshot-classifier/types"
	"go.uber.org/zap"
)

// HuggingFaceZeroShotAdapter adapts the Hugging Face client to the ZeroShotClient interface
type HuggingFaceZeroShotAdapter struct {
	client huggingface.ZeroShotClassifier
}

// NewHuggingFaceZeroShotAdapter creates a new adapter for the Hugging Face Inference API.
// Empty model and baseURL keep the client defaults.
func NewHuggingFaceZeroShotAdapter(apiToken *string, model string, baseURL string, logger *zap.Logger) (*HuggingFaceZeroShotAdapter, error) {
	token, err := loadEnvVar(apiToken, huggingface.TokenEnvVars...)
	if err != nil {
		return nil, err
	}

	client := huggingface.NewClient(*token)
	if model != "" {
		client.SetModel(model)
	}
	if baseURL != "" {
		client.SetBaseURL(baseURL)
	}
	if logger != nil {
		client.Logger = logger
	}

	return NewZeroShotAdapter(client), nil
}

// NewZeroShotAdapter wraps an already configured client
func NewZeroShotAdapter(client huggingface.ZeroShotClassifier) *HuggingFaceZeroShotAdapter {
	return &HuggingFaceZeroShotAdapter{client: client}
}

// ZeroShot implements ZeroShotClient interface
func (a *HuggingFaceZeroShotAdapter) ZeroShot(ctx context.Context, text string, labels []string) (*types.ClassificationResult, error) {
	resp, err := a.client.ZeroShot(ctx, huggingface.ZeroShotRequest{
		Inputs: text,
		Parameters: huggingface.ZeroShotParameters{
			CandidateLabels: labels,
		},
		Options: huggingface.RequestOptions{
			WaitForModel: true,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("zero-shot request failed: %w", err)
	}

	return &types.ClassificationResult{
		Sequence: resp.Sequence,
		Labels:   resp.Labels,
		Scores:   resp.Scores,
	}, nil
}

// loadEnvVar returns target when provided, otherwise the first non-empty environment variable
func loadEnvVar(target *string, envKeys ...string) (*string, error) {
	if target != nil {
		if *target == "" {
			return nil, fmt.Errorf("empty value provided for %s", envKeys[0])
		}
		return target, nil
	}

	for _, key := range envKeys {
		if value := os.Getenv(key); value != "" {
			return &value, nil
		}
	}

	return nil, fmt.Errorf("%s environment variable not set and no value provided", envKeys[0])
}
