// internal/common/errors/handler.go
package errors

import (
	stderrors "errors"
	"net/http"
	"strings"
	"time"

	"github.com/piplapis/piplapis-go/pkg/pipl"
)

// ErrorHandler normalizes failures into StandardErrors and logs them
// with their classification, so the batch runner can decide between
// retrying a record and failing it for good.
type ErrorHandler struct {
	logger Logger
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// HandleRecordError classifies and logs a failure of one batch record.
func (h *ErrorHandler) HandleRecordError(recordID string, err error) *StandardError {
	stdErr := Normalize(err)
	h.logError(recordID, stdErr)
	return stdErr
}

// Normalize ensures we always have a StandardError, mapping the SDK's
// sentinel and API errors onto internal codes.
func Normalize(err error) *StandardError {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	if stderrors.Is(err, pipl.ErrSearchTimeout) {
		return NewSearchTimeoutError(err)
	}
	if stderrors.Is(err, pipl.ErrMissingAPIKey) {
		return NewUnauthorizedKeyError(err.Error())
	}
	if stderrors.Is(err, pipl.ErrNoSearchableQuery) || stderrors.Is(err, pipl.ErrUnsearchableFields) {
		return NewInvalidQueryError(err.Error())
	}

	var apiErr *pipl.APIError
	if stderrors.As(err, &apiErr) {
		return FromAPIError(apiErr)
	}

	return &StandardError{
		Code:      "INTERNAL_ERROR",
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// FromAPIError maps an API error body onto an internal error code. The
// API reports both throttling and quota exhaustion as user errors; they
// are told apart by the message because the status alone is ambiguous.
func FromAPIError(apiErr *pipl.APIError) *StandardError {
	message := strings.ToLower(apiErr.Message)
	switch {
	case apiErr.StatusCode == http.StatusTooManyRequests || strings.Contains(message, "per second"):
		return NewThrottledError(apiErr.Message)
	case strings.Contains(message, "quota"):
		return NewQuotaExceededError(apiErr.Message)
	case apiErr.StatusCode == http.StatusForbidden || apiErr.StatusCode == http.StatusUnauthorized:
		return NewUnauthorizedKeyError(apiErr.Message)
	case apiErr.IsUserError():
		return NewInvalidQueryError(apiErr.Message)
	default:
		return NewSearchFailedError(apiErr)
	}
}

func (h *ErrorHandler) logError(recordID string, stdErr *StandardError) {
	h.logger.Error("Record failed", map[string]interface{}{
		"recordId":      recordID,
		"errorCode":     string(stdErr.Code),
		"message":       stdErr.Message,
		"details":       stdErr.Details,
		"retryable":     stdErr.Retryable,
		"retries":       GetRetryCount(stdErr.Code),
		"errorCategory": GetErrorCategory(stdErr.Code),
	})
}
