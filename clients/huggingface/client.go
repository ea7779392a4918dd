package huggingface

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/FrenchMajesty/zeroshot-classifier/internal/retry"
	"go.uber.org/zap"
)

const (
	DefaultBaseURL = "https://api-inference.huggingface.co"
	DefaultModel   = "valhalla/distilbart-mnli-12-3"
)

// TokenEnvVars name the API token in order of precedence
var TokenEnvVars = []string{"ZEROSHOT_INFERENCE_API_TOKEN", "HF_API_TOKEN", "API_TOKEN"}

// Creates a new Client for the default zero-shot model
func NewClient(apiKey string) *Client {
	return &Client{
		APIKey:      apiKey,
		BaseURL:     DefaultBaseURL,
		Model:       DefaultModel,
		DumpDir:     "debug_inference_requests",
		HTTPClient:  &http.Client{},
		RetryConfig: retry.DefaultConfig(),
		Logger:      zap.NewNop(),
	}
}

// SetBaseURL overrides the Inference API host
func (c *Client) SetBaseURL(baseURL string) {
	c.BaseURL = strings.TrimRight(baseURL, "/")
}

// SetModel overrides the model repository id
func (c *Client) SetModel(model string) {
	c.Model = model
}

// modelURL returns the endpoint of the configured model
func (c *Client) modelURL() string {
	base := c.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	model := c.Model
	if model == "" {
		model = DefaultModel
	}
	return strings.TrimRight(base, "/") + "/models/" + model
}

// ZeroShot sends one zero-shot classification request with retry logic
func (c *Client) ZeroShot(ctx context.Context, req ZeroShotRequest) (*ZeroShotResponse, error) {
	bodyBytes, err := c.createAndRunRetryableRequest(ctx, c.modelURL(), req, "zero-shot")
	if err != nil {
		return nil, err
	}

	var resp ZeroShotResponse
	if err := json.Unmarshal(bodyBytes, &resp); err != nil {
		return nil, &InferenceError{
			Message:    fmt.Sprintf("failed to parse zero-shot response: %v", err),
			StatusCode: http.StatusOK,
			RawBody:    rawJSON(bodyBytes),
		}
	}

	if len(resp.Labels) != len(resp.Scores) {
		return nil, &InferenceError{
			Message:    fmt.Sprintf("malformed zero-shot response: %d labels, %d scores", len(resp.Labels), len(resp.Scores)),
			StatusCode: http.StatusOK,
			RawBody:    rawJSON(bodyBytes),
		}
	}

	return &resp, nil
}

// rawJSON keeps the body only when it is valid JSON so InferenceError stays marshalable
func rawJSON(body []byte) json.RawMessage {
	if json.Valid(body) {
		return json.RawMessage(body)
	}
	quoted, _ := json.Marshal(string(body))
	return json.RawMessage(quoted)
}
