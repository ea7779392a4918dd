package classifier

import (
	"errors"
	"fmt"

	"github.com/FrenchMajesty/zeroshot-classifier/types"
)

var (
	ErrEmptyText     = errors.New("there are no keyphrases to classify")
	ErrNoLabels      = errors.New("no labels were added, please add some")
	ErrSingleLabel   = errors.New("please add at least two labels for classification")
	ErrTooManyLabels = fmt.Errorf("at most %d labels are allowed", MaxLabels)

	// ErrAwaitingInput means nothing has been submitted yet, so there is nothing to render
	ErrAwaitingInput = errors.New("awaiting a valid submission")

	ErrSessionNotFound = types.ErrSessionNotFound
)

// ValidationError is a user-correctable input problem, raised before any remote call
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// RemoteServiceError aborts a batch at the first failed remote call.
// Partial holds the rows classified before the failure.
type RemoteServiceError struct {
	Index   int
	Line    string
	Partial *ResultTable
	Err     error
}

func (e *RemoteServiceError) Error() string {
	return fmt.Sprintf("failed to classify keyphrase %d (%q): %v", e.Index+1, e.Line, e.Err)
}

func (e *RemoteServiceError) Unwrap() error {
	return e.Err
}

// IsValidationError reports whether err is a ValidationError
func IsValidationError(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}
