package huggingface

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/FrenchMajesty/zeroshot-classifier/internal/retry"
	"go.uber.org/zap"
)

// Client is a minimal client for the Hugging Face Inference API
type Client struct {
	APIKey       string
	BaseURL      string
	Model        string
	DumpRequests bool
	DumpDir      string
	HTTPClient   *http.Client
	RetryConfig  retry.Config
	Logger       *zap.Logger
}

type ZeroShotClassifier interface {
	ZeroShot(ctx context.Context, req ZeroShotRequest) (*ZeroShotResponse, error)
}

// ZeroShotRequest is the request body for a zero-shot-classification model
type ZeroShotRequest struct {
	Inputs     string             `json:"inputs"`
	Parameters ZeroShotParameters `json:"parameters"`
	Options    RequestOptions     `json:"options"`
}

type ZeroShotParameters struct {
	CandidateLabels []string `json:"candidate_labels"`
}

type RequestOptions struct {
	WaitForModel bool `json:"wait_for_model"`
}

// ZeroShotResponse is the response of a zero-shot-classification model.
// Labels and Scores are parallel, sorted by descending score.
type ZeroShotResponse struct {
	Sequence string    `json:"sequence"`
	Labels   []string  `json:"labels"`
	Scores   []float64 `json:"scores"`
}

// APIErrorResponse is the error body returned by the Inference API
type APIErrorResponse struct {
	Error         string  `json:"error"`
	EstimatedTime float64 `json:"estimated_time,omitempty"`
}

// InferenceError wraps API failures with the raw response body for error logging
type InferenceError struct {
	Message       string          `json:"message"`
	StatusCode    int             `json:"status_code,omitempty"`
	EstimatedTime float64         `json:"estimated_time,omitempty"`
	RawBody       json.RawMessage `json:"raw_body,omitempty"`
}

func (e *InferenceError) Error() string {
	return e.Message
}

// GetRawResponseBody returns the raw response body if available
func (e *InferenceError) GetRawResponseBody() json.RawMessage {
	return e.RawBody
}
