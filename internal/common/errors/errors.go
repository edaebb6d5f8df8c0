// Package errors provides standardized error handling for the search
// pipeline: one error shape, stable codes, and retry guidance the batch
// runner can act on.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeInvalidQuery    ErrorCode = "INVALID_QUERY"
	ErrCodeUnauthorizedKey ErrorCode = "UNAUTHORIZED_KEY"
	ErrCodeThrottled       ErrorCode = "THROTTLED"
	ErrCodeQuotaExceeded   ErrorCode = "QUOTA_EXCEEDED"
	ErrCodeSearchTimeout   ErrorCode = "SEARCH_TIMEOUT"
	ErrCodeSearchFailed    ErrorCode = "SEARCH_FAILED"

	ErrCodeInvalidInputRecord ErrorCode = "INVALID_INPUT_RECORD"

	ErrCodeCacheFailed ErrorCode = "CACHE_FAILED"

	ErrCodeStorageConnectionFailed ErrorCode = "STORAGE_CONNECTION_FAILED"
	ErrCodeStorageWriteFailed      ErrorCode = "STORAGE_WRITE_FAILED"

	ErrCodeConfigInvalid ErrorCode = "CONFIG_INVALID"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. Error Constructors
// ==========================

// NewInvalidQueryError creates a non-retryable query error.
func NewInvalidQueryError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidQuery,
		Message:   "Query rejected by the search API",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewUnauthorizedKeyError creates a non-retryable API key error.
func NewUnauthorizedKeyError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnauthorizedKey,
		Message:   "API key is missing, inactive or not allowed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewThrottledError creates a retryable per-second limit error.
func NewThrottledError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeThrottled,
		Message:   "Per-second query limit reached",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewQuotaExceededError creates a non-retryable quota error. The quota
// only recovers when the period resets, so retrying within a run is
// pointless.
func NewQuotaExceededError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeQuotaExceeded,
		Message:   "API key quota exhausted",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSearchTimeoutError creates a retryable search timeout error.
func NewSearchTimeoutError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSearchTimeout,
		Message:   "Search request timed out",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSearchFailedError creates a retryable search transport error.
func NewSearchFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSearchFailed,
		Message:   "Search request failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidInputRecordError creates a non-retryable batch input error.
func NewInvalidInputRecordError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidInputRecord,
		Message:   "Batch input record failed schema validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewCacheFailedError creates a retryable cache backend error.
func NewCacheFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCacheFailed,
		Message:   "Response cache operation failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewStorageConnectionFailedError creates a retryable sink connection error.
func NewStorageConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStorageConnectionFailed,
		Message:   "Storage connection error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewStorageWriteFailedError creates a retryable sink write error.
func NewStorageWriteFailedError(sink string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStorageWriteFailed,
		Message:   "Storage write operation failed",
		Details:   fmt.Sprintf("sink: %s, error: %s", sink, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewConfigInvalidError creates a non-retryable configuration error.
func NewConfigInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeConfigInvalid,
		Message:   "Invalid configuration",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Retry Guidance
// ==========================

// GetRetryCount returns the recommended retry count per error code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeSearchFailed,
		ErrCodeCacheFailed,
		ErrCodeStorageConnectionFailed,
		ErrCodeStorageWriteFailed:
		return 3 // Retryable technical errors

	case ErrCodeSearchTimeout,
		ErrCodeThrottled:
		return 2 // Partial retry for rate and time limits

	default:
		return 0 // Caller mistakes: no retry
	}
}

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "QUERY") || strings.Contains(codeStr, "INPUT"):
		return "QUERY"
	case strings.Contains(codeStr, "KEY") || strings.Contains(codeStr, "QUOTA") || strings.Contains(codeStr, "THROTTLED"):
		return "ACCOUNT"
	case strings.Contains(codeStr, "SEARCH"):
		return "SEARCH"
	case strings.Contains(codeStr, "CACHE"):
		return "CACHE"
	case strings.Contains(codeStr, "STORAGE"):
		return "STORAGE"
	case strings.Contains(codeStr, "CONFIG"):
		return "CONFIG"
	default:
		return "OTHER"
	}
}
