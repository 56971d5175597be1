// Package types provides common error types for proper error propagation
package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrorCode represents standardized error codes across the application
type ErrorCode string

const (
	// General errors
	ErrorCodeUnknown          ErrorCode = "UNKNOWN_ERROR"
	ErrorCodeInternal         ErrorCode = "INTERNAL_ERROR"
	ErrorCodeNotFound         ErrorCode = "NOT_FOUND"
	ErrorCodeConflict         ErrorCode = "CONFLICT"
	ErrorCodeTimeout          ErrorCode = "TIMEOUT"
	ErrorCodeCancelled        ErrorCode = "CANCELLED"
	ErrorCodeMethodNotAllowed ErrorCode = "METHOD_NOT_ALLOWED"
	ErrorCodePayloadTooLarge  ErrorCode = "PAYLOAD_TOO_LARGE"

	// Catalog errors
	ErrorCodeStatusNotFound ErrorCode = "STATUS_NOT_FOUND"
	ErrorCodeRoleNotFound   ErrorCode = "ROLE_NOT_FOUND"
	ErrorCodeDuplicateLink  ErrorCode = "DUPLICATE_CREDIT"

	// GraphQL errors
	ErrorCodeMissingQuery     ErrorCode = "MISSING_QUERY"
	ErrorCodeInvalidBody      ErrorCode = "INVALID_BODY"
	ErrorCodeInvalidVariables ErrorCode = "INVALID_VARIABLES"
)

// ErrorSeverity indicates the severity of an error
type ErrorSeverity string

const (
	SeverityInfo     ErrorSeverity = "info"
	SeverityWarning  ErrorSeverity = "warning"
	SeverityError    ErrorSeverity = "error"
	SeverityCritical ErrorSeverity = "critical"
)

// AppError represents a structured error with metadata
type AppError struct {
	Code       ErrorCode              `json:"code"`
	Message    string                 `json:"message"`
	Details    string                 `json:"details,omitempty"`
	Severity   ErrorSeverity          `json:"severity"`
	HTTPStatus int                    `json:"http_status"`
	Context    map[string]interface{} `json:"context,omitempty"`
	Timestamp  time.Time              `json:"timestamp"`
	RequestID  string                 `json:"request_id,omitempty"`

	// Chain of errors for debugging
	Cause       error  `json:"-"`
	CauseString string `json:"cause,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithRequestID adds a request ID to the error
func (e *AppError) WithRequestID(requestID string) *AppError {
	e.RequestID = requestID
	return e
}

// ToJSON converts the error to JSON
func (e *AppError) ToJSON() []byte {
	data, _ := json.Marshal(e)
	return data
}

// NewAppError creates a new application error
func NewAppError(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		Severity:   SeverityError,
		HTTPStatus: httpStatus,
		Timestamp:  time.Now(),
	}
}

// NewAppErrorWithCause creates an error with an underlying cause
func NewAppErrorWithCause(code ErrorCode, message string, httpStatus int, cause error) *AppError {
	err := NewAppError(code, message, httpStatus)
	err.Cause = cause
	if cause != nil {
		err.CauseString = cause.Error()
	}
	return err
}

// Common error constructors

// NewBadRequestError creates a 400 error carrying a specific code
func NewBadRequestError(code ErrorCode, message string, cause error) *AppError {
	err := NewAppErrorWithCause(code, message, http.StatusBadRequest, cause)
	err.Severity = SeverityWarning
	return err
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string, id string) *AppError {
	return NewAppError(
		ErrorCodeNotFound,
		fmt.Sprintf("%s not found", resource),
		http.StatusNotFound,
	).WithContext("resource", resource).WithContext("id", id)
}

// NewConflictError creates a conflict error
func NewConflictError(message string, cause error) *AppError {
	err := NewAppErrorWithCause(ErrorCodeConflict, message, http.StatusConflict, cause)
	err.Severity = SeverityWarning
	return err
}

// NewMethodNotAllowedError creates a 405 error
func NewMethodNotAllowedError(message string) *AppError {
	err := NewAppError(ErrorCodeMethodNotAllowed, message, http.StatusMethodNotAllowed)
	err.Severity = SeverityInfo
	return err
}

// NewPayloadTooLargeError creates a 413 error
func NewPayloadTooLargeError(limit int64) *AppError {
	err := NewAppError(ErrorCodePayloadTooLarge,
		fmt.Sprintf("Request body exceeds the limit of %d bytes.", limit),
		http.StatusRequestEntityTooLarge)
	err.Severity = SeverityWarning
	return err.WithContext("limit", limit)
}

// NewInternalError creates an internal server error
func NewInternalError(message string, cause error) *AppError {
	err := NewAppErrorWithCause(ErrorCodeInternal, message, http.StatusInternalServerError, cause)
	err.Severity = SeverityCritical
	return err
}

// HTTPStatusFromErrorCode maps error codes to HTTP status codes
func HTTPStatusFromErrorCode(code ErrorCode) int {
	switch code {
	case ErrorCodeMissingQuery, ErrorCodeInvalidBody, ErrorCodeInvalidVariables,
		ErrorCodeStatusNotFound, ErrorCodeRoleNotFound:
		return http.StatusBadRequest
	case ErrorCodeNotFound:
		return http.StatusNotFound
	case ErrorCodeConflict, ErrorCodeDuplicateLink:
		return http.StatusConflict
	case ErrorCodeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case ErrorCodePayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	case ErrorCodeTimeout:
		return http.StatusGatewayTimeout
	case ErrorCodeCancelled:
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}

// CodeOf returns the code of the first AppError in err's chain, or ErrorCodeUnknown
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrorCodeUnknown
}
