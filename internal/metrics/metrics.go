package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcomes of a remote zero-shot call
const (
	OutcomeSuccess  = "success"
	OutcomeError    = "error"
	OutcomeCanceled = "canceled"
)

var (
	InferenceRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "zeroshot",
		Name:      "inference_requests_total",
		Help:      "Remote zero-shot classification calls by outcome.",
	}, []string{"outcome"})

	InferenceDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "zeroshot",
		Name:      "inference_request_duration_seconds",
		Help:      "Latency of remote zero-shot classification calls, retries included.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"outcome"})
)

// Outcome classifies the error returned by a remote call
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return OutcomeCanceled
	default:
		return OutcomeError
	}
}

// ObserveInference records one remote call that started at start
func ObserveInference(start time.Time, err error) {
	outcome := Outcome(err)
	InferenceRequests.WithLabelValues(outcome).Inc()
	InferenceDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
}
