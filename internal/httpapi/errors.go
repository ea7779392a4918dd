package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	classifier "github.com/FrenchMajesty/zeroshot-classifier"
)

const (
	CodeInvalidRequest = "INVALID_REQUEST"
	CodeValidation     = "VALIDATION_ERROR"
	CodeRemoteService  = "REMOTE_SERVICE_ERROR"
	CodeAwaitingInput  = "AWAITING_INPUT"
	CodeInternal       = "INTERNAL_ERROR"
)

// ErrorResponse represents a structured error response
type ErrorResponse struct {
	StatusCode int
	Code       string
	Message    string

	// Data carries the rows classified before a remote failure
	Data interface{}
}

// MapPipelineError maps pipeline errors to HTTP error responses
func MapPipelineError(err error) ErrorResponse {
	var validationErr *classifier.ValidationError
	var remoteErr *classifier.RemoteServiceError

	switch {
	case errors.As(err, &validationErr):
		return ErrorResponse{
			StatusCode: http.StatusBadRequest,
			Code:       CodeValidation,
			Message:    validationErr.Error(),
		}
	case errors.As(err, &remoteErr):
		return ErrorResponse{
			StatusCode: http.StatusBadGateway,
			Code:       CodeRemoteService,
			Message:    remoteErr.Error(),
			Data:       remoteErr.Partial,
		}
	case errors.Is(err, classifier.ErrAwaitingInput):
		return ErrorResponse{
			StatusCode: http.StatusConflict,
			Code:       CodeAwaitingInput,
			Message:    err.Error(),
		}
	default:
		return ErrorResponse{
			StatusCode: http.StatusInternalServerError,
			Code:       CodeInternal,
			Message:    "internal server error",
		}
	}
}

// HandlePipelineError sends the HTTP response for a pipeline error
func HandlePipelineError(c *gin.Context, err error) {
	errResp := MapPipelineError(err)
	respondErrorWithData(c, errResp.StatusCode, errResp.Code, errResp.Message, errResp.Data)
}
