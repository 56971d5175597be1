// Package api provides error handling utilities for HTTP APIs.
//
// Every error leaves the server in the GraphQL response envelope:
//
//	{"errors":[{"message":"..."}]}
package api

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/mantonx/moviegraph/internal/logger"
	"github.com/mantonx/moviegraph/internal/middleware"
	"github.com/mantonx/moviegraph/internal/types"
)

// ErrorResponse represents the standard error response format
type ErrorResponse struct {
	Errors []ErrorDetails `json:"errors"`
}

// ErrorDetails is one entry of the errors list
type ErrorDetails struct {
	Message string `json:"message"`
}

// NewErrorResponse builds an envelope holding the given messages
func NewErrorResponse(messages ...string) ErrorResponse {
	resp := ErrorResponse{Errors: make([]ErrorDetails, 0, len(messages))}
	for _, m := range messages {
		resp.Errors = append(resp.Errors, ErrorDetails{Message: m})
	}
	return resp
}

// RespondWithError sends an error envelope with the status carried by err.
// Errors that are not AppErrors are treated as internal failures and their text is not exposed.
func RespondWithError(c *gin.Context, err error) {
	requestID := c.GetString(middleware.RequestIDKey)

	var appErr *types.AppError
	if !errors.As(err, &appErr) {
		appErr = types.NewInternalError("Internal server error.", err)
	}

	logError(appErr, requestID)
	c.JSON(appErr.HTTPStatus, NewErrorResponse(appErr.Message))
}

// RespondWithNotFound sends a not found error response
func RespondWithNotFound(c *gin.Context, resource string, id string) {
	RespondWithError(c, types.NewNotFoundError(resource, id))
}

// NotFoundHandler answers requests for unknown routes
func NotFoundHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		RespondWithNotFound(c, "route", c.Request.URL.Path)
	}
}

// logError logs the error with appropriate severity
func logError(err *types.AppError, requestID string) {
	fields := []interface{}{
		"error_code", err.Code,
		"error_message", err.Message,
		"request_id", requestID,
	}

	if err.Details != "" {
		fields = append(fields, "details", err.Details)
	}

	for k, v := range err.Context {
		fields = append(fields, k, v)
	}

	if err.Cause != nil {
		fields = append(fields, "cause", err.Cause.Error())
	}

	switch err.Severity {
	case types.SeverityCritical:
		logger.Error("critical error", fields...)
	case types.SeverityError:
		logger.Error("error occurred", fields...)
	case types.SeverityWarning:
		logger.Warn("warning", fields...)
	case types.SeverityInfo:
		logger.Debug("request rejected", fields...)
	default:
		logger.Error("error occurred", fields...)
	}
}

// ErrorMiddleware is a middleware that recovers from panics and handles errors
func ErrorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				var err error
				switch v := r.(type) {
				case error:
					err = v
				case string:
					err = errors.New(v)
				default:
					err = fmt.Errorf("panic: %v", v)
				}

				logger.Error("panic recovered",
					"error", err,
					"request_path", c.Request.URL.Path,
					"request_method", c.Request.Method,
					"request_id", c.GetString(middleware.RequestIDKey),
				)

				if c.Writer.Written() {
					c.Abort()
					return
				}
				RespondWithError(c, types.NewInternalError("Internal server error.", err))
				c.Abort()
			}
		}()

		c.Next()
	}
}
