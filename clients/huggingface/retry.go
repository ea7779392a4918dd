package huggingface

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/FrenchMajesty/zeroshot-classifier/internal/retry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// isRetryableError determines if an error should trigger a retry
func (c *Client) isRetryableError(err error, statusCode int, responseBody []byte) bool {
	// Cancellation comes from the caller, never retry it
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	// Retry on network errors
	if statusCode == 0 && err != nil {
		return true
	}

	// Retry on server errors (5xx), including 503 while the model is loading
	if statusCode >= 500 {
		return true
	}

	// Retry on rate limiting (429)
	if statusCode == http.StatusTooManyRequests {
		return true
	}

	return false
}

// createAndRunRetryableRequest executes an HTTP request with retry logic
func (c *Client) createAndRunRetryableRequest(ctx context.Context, url string, requestBody any, apiName string) ([]byte, error) {
	opts := retry.Options{
		Config:       c.RetryConfig,
		ErrorChecker: c.isRetryableError,
		Logger:       c.logger().Sugar().Warnf,
		APIName:      "HuggingFace " + apiName,
	}

	retryableFn := c.buildRetryableFn(ctx, url, requestBody, apiName)

	result, err := retry.Execute(ctx, opts, retryableFn)
	if err != nil {
		return nil, err
	}

	return result.([]byte), nil
}

// buildRetryableFn builds a retryable function for the given request body
func (c *Client) buildRetryableFn(ctx context.Context, url string, requestBody any, apiName string) retry.RetryableFunc {
	return func(attempt int) (any, int, []byte, error) {
		body, err := json.Marshal(requestBody)
		if err != nil {
			return nil, 0, nil, fmt.Errorf("failed to marshal %s request: %w", apiName, err)
		}

		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return nil, 0, nil, fmt.Errorf("failed to create HTTP request: %w", err)
		}
		httpReq.Header.Set("Authorization", "Bearer "+c.APIKey)
		httpReq.Header.Set("Content-Type", "application/json")

		httpClient := c.HTTPClient
		if httpClient == nil {
			httpClient = http.DefaultClient
		}

		start := time.Now()
		resp, err := httpClient.Do(httpReq)
		if err != nil {
			return nil, 0, nil, fmt.Errorf("failed to send %s request: %w", apiName, err)
		}
		defer resp.Body.Close()

		bodyBytes, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, resp.StatusCode, nil, fmt.Errorf("failed to read %s response body: %w", apiName, err)
		}

		c.logger().Debug("inference request completed",
			zap.String("api", apiName),
			zap.Int("attempt", attempt+1),
			zap.Int("status", resp.StatusCode),
			zap.Duration("latency", time.Since(start)),
		)

		if c.DumpRequests {
			c.saveResponseToFile(requestBody, bodyBytes, resp.StatusCode)
		}

		if resp.StatusCode != http.StatusOK {
			return nil, resp.StatusCode, bodyBytes, newInferenceError(apiName, resp.StatusCode, bodyBytes)
		}

		return bodyBytes, resp.StatusCode, bodyBytes, nil
	}
}

// newInferenceError builds an InferenceError, using the API error message when the body carries one
func newInferenceError(apiName string, statusCode int, body []byte) *InferenceError {
	inferenceErr := &InferenceError{
		Message:    fmt.Sprintf("huggingface %s API error %d", apiName, statusCode),
		StatusCode: statusCode,
		RawBody:    rawJSON(body),
	}

	var apiErr APIErrorResponse
	if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
		inferenceErr.Message += ": " + strings.TrimSpace(apiErr.Error)
		inferenceErr.EstimatedTime = apiErr.EstimatedTime
	}

	return inferenceErr
}

func (c *Client) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

// saveResponseToFile saves the request/response to a file for debugging purposes
func (c *Client) saveResponseToFile(req any, bodyBytes []byte, statusCode int) {
	timestamp := time.Now().Format("20060102_150405")
	random := uuid.New().String()[:8]
	filename := fmt.Sprintf("hf_req_%s_%s.json", timestamp, random)

	modelDir := filepath.Join(c.DumpDir, filepath.FromSlash(c.Model))
	if err := os.MkdirAll(modelDir, 0755); err != nil {
		c.logger().Warn("failed to create dump directory", zap.String("dir", modelDir), zap.Error(err))
		return
	}

	responseData := map[string]any{
		"request":  req,
		"response": rawJSON(bodyBytes),
		"status":   statusCode,
	}

	jsonData, err := json.MarshalIndent(responseData, "", "  ")
	if err != nil {
		c.logger().Warn("failed to marshal dump", zap.Error(err))
		return
	}

	path := filepath.Join(modelDir, filename)
	if err := os.WriteFile(path, jsonData, 0644); err != nil {
		c.logger().Warn("failed to write dump", zap.String("path", path), zap.Error(err))
	}
}
