package types

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorFormattingAndUnwrap(t *testing.T) {
	cause := errors.New("no such status")
	err := NewBadRequestError(ErrorCodeStatusNotFound, "movie status not found", cause)

	assert.Equal(t, "[STATUS_NOT_FOUND] movie status not found", err.Error())
	assert.Equal(t, http.StatusBadRequest, err.HTTPStatus)
	assert.ErrorIs(t, err, cause)

	err.Details = "status_id=9"
	assert.Equal(t, "[STATUS_NOT_FOUND] movie status not found: status_id=9", err.Error())
}

func TestCodeOfWrappedError(t *testing.T) {
	wrapped := fmt.Errorf("create movie: %w", NewConflictError("duplicate credit", nil))
	assert.Equal(t, ErrorCodeConflict, CodeOf(wrapped))
	assert.Equal(t, ErrorCodeUnknown, CodeOf(errors.New("plain")))
}

func TestConstructorsStatus(t *testing.T) {
	assert.Equal(t, http.StatusMethodNotAllowed, NewMethodNotAllowedError("nope").HTTPStatus)
	assert.Equal(t, http.StatusInternalServerError, NewInternalError("boom", nil).HTTPStatus)
	assert.Equal(t, SeverityCritical, NewInternalError("boom", nil).Severity)

	tooLarge := NewPayloadTooLargeError(1024)
	assert.Equal(t, http.StatusRequestEntityTooLarge, tooLarge.HTTPStatus)
	assert.Equal(t, int64(1024), tooLarge.Context["limit"])

	notFound := NewNotFoundError("route", "/nope")
	require.NotNil(t, notFound.Context)
	assert.Equal(t, "route not found", notFound.Message)
}

func TestHTTPStatusFromErrorCode(t *testing.T) {
	cases := map[ErrorCode]int{
		ErrorCodeMissingQuery:     http.StatusBadRequest,
		ErrorCodeInvalidVariables: http.StatusBadRequest,
		ErrorCodeDuplicateLink:    http.StatusConflict,
		ErrorCodePayloadTooLarge:  http.StatusRequestEntityTooLarge,
		ErrorCodeMethodNotAllowed: http.StatusMethodNotAllowed,
		ErrorCodeUnknown:          http.StatusInternalServerError,
	}
	for code, status := range cases {
		assert.Equal(t, status, HTTPStatusFromErrorCode(code), string(code))
	}
}
