package retry

import (
	"context"
	"errors"
	"time"

	goretry "github.com/sethvargo/go-retry"
)

// Config holds the configuration for retry logic
type Config struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

// DefaultConfig returns a sensible default retry configuration
func DefaultConfig() Config {
	return Config{
		MaxRetries: 3,
		BaseDelay:  500 * time.Millisecond,
		MaxDelay:   10 * time.Second,
	}
}

// ErrorChecker defines a function that determines if an error should trigger a retry
type ErrorChecker func(err error, statusCode int, responseBody []byte) bool

// RetryableFunc defines a function that can be retried
type RetryableFunc func(attempt int) (result any, statusCode int, responseBody []byte, err error)

// Logger defines a function for logging retry attempts
type Logger func(message string, args ...any)

// Options configures retry behavior
type Options struct {
	Config       Config
	ErrorChecker ErrorChecker
	Logger       Logger
	APIName      string
}

// backoff builds the exponential backoff sequence for this config
func (c Config) backoff() goretry.Backoff {
	base := c.BaseDelay
	if base <= 0 {
		base = DefaultConfig().BaseDelay
	}

	maxRetries := c.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	b := goretry.NewExponential(base)
	if c.MaxDelay > 0 {
		b = goretry.WithCappedDuration(c.MaxDelay, b)
	}
	return goretry.WithMaxRetries(uint64(maxRetries), b)
}

// Execute performs the retryable function with the configured retry logic.
// Errors accepted by the ErrorChecker are retried until MaxRetries is reached,
// every other error is returned immediately.
func Execute(ctx context.Context, opts Options, fn RetryableFunc) (any, error) {
	var result any
	var lastStatusCode int
	var lastResponseBody []byte
	var lastRetryable bool
	attempt := 0
	maxAttempts := opts.Config.MaxRetries + 1
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	err := goretry.Do(ctx, opts.Config.backoff(), func(ctx context.Context) error {
		current := attempt
		attempt++

		if current > 0 && opts.Logger != nil {
			opts.Logger("%s API retry attempt %d/%d", opts.APIName, current+1, maxAttempts)
		}

		res, statusCode, responseBody, err := fn(current)
		lastStatusCode = statusCode
		lastResponseBody = responseBody
		lastRetryable = false

		if err == nil {
			if current > 0 && opts.Logger != nil {
				opts.Logger("%s API request succeeded on attempt %d/%d", opts.APIName, current+1, maxAttempts)
			}
			result = res
			return nil
		}

		if opts.ErrorChecker != nil && opts.ErrorChecker(err, statusCode, responseBody) {
			if opts.Logger != nil {
				if statusCode == 0 {
					opts.Logger("%s API network error (attempt %d/%d): %v", opts.APIName, current+1, maxAttempts, err)
				} else {
					opts.Logger("%s API retryable error (attempt %d/%d): status %d", opts.APIName, current+1, maxAttempts, statusCode)
				}
			}
			lastRetryable = true
			return goretry.RetryableError(err)
		}

		return err
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		if lastRetryable && maxAttempts > 1 && attempt >= maxAttempts {
			return nil, &RetryExhaustedError{
				APIName:        opts.APIName,
				MaxAttempts:    maxAttempts,
				LastStatusCode: lastStatusCode,
				LastResponse:   lastResponseBody,
				Err:            err,
			}
		}
		return nil, err
	}

	return result, nil
}

// RetryExhaustedError represents an error when all retry attempts have been exhausted
type RetryExhaustedError struct {
	APIName        string
	MaxAttempts    int
	LastStatusCode int
	LastResponse   []byte
	Err            error
}

func (e *RetryExhaustedError) Error() string {
	msg := "retry attempts exhausted for " + e.APIName + " API"
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the error of the last attempt
func (e *RetryExhaustedError) Unwrap() error {
	return e.Err
}
