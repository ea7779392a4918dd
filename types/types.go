package types

import (
	"errors"
	"time"
)

// ClassificationResult is one zero-shot response as returned by the remote service.
// Labels and Scores are parallel and ordered by descending score.
type ClassificationResult struct {
	Sequence string    `json:"sequence"`
	Labels   []string  `json:"labels"`
	Scores   []float64 `json:"scores"`
}

// Session holds per-user form state across render cycles
type Session struct {
	ID string `json:"id"`

	// ValidInputsReceived is set by an accepted submission and reset by a rejected one
	ValidInputsReceived bool `json:"valid_inputs_received"`

	// Text and Labels are the last accepted form values
	Text   string   `json:"text,omitempty"`
	Labels []string `json:"labels,omitempty"`

	UpdatedAt time.Time `json:"updated_at"`
}

// ErrSessionNotFound is returned by session stores for unknown or expired ids
var ErrSessionNotFound = errors.New("session not found")
