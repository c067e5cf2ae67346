package sdk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/fitroom/fitroom-go/headers"
)

// FallbackErrorMessage is shown for failures that carry no server message.
const FallbackErrorMessage = "Could not complete the request. Please try again."

// APIError captures a structured error body returned by the FitRoom API.
type APIError struct {
	Status    int
	Code      string
	Message   string
	Timestamp string
	RequestID string
}

// Error implements the error interface.
func (e APIError) Error() string {
	if e.Code == "" {
		e.Code = "request_failed"
	}
	if e.Message == "" {
		e.Message = fmt.Sprintf("%s (%d)", e.Code, e.Status)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// TransportErrorKind classifies failures that produced no server response.
type TransportErrorKind string

const (
	TransportErrorTimeout       TransportErrorKind = "timeout"
	TransportErrorCanceled      TransportErrorKind = "canceled"
	TransportErrorConnection    TransportErrorKind = "connection"
	TransportErrorEmptyResponse TransportErrorKind = "empty_response"
	TransportErrorOther         TransportErrorKind = "other"
)

// TransportError is returned when the request never produced an HTTP response.
type TransportError struct {
	Kind    TransportErrorKind
	Message string
	Cause   error
}

// Error implements the error interface.
func (e TransportError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "network error"
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %v", msg, e.Kind, e.Cause)
	}
	return fmt.Sprintf("%s (%s)", msg, e.Kind)
}

// Unwrap exposes the underlying cause for errors.Is/As chains.
func (e TransportError) Unwrap() error { return e.Cause }

// ConfigError reports invalid client configuration.
type ConfigError struct {
	Reason string
}

// Error implements the error interface.
func (e ConfigError) Error() string { return "sdk: " + e.Reason }

func classifyTransportErrorKind(err error) TransportErrorKind {
	if err == nil {
		return TransportErrorOther
	}
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return TransportErrorEmptyResponse
	}
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) && netErr.Timeout() {
		return TransportErrorTimeout
	}
	if errors.Is(err, http.ErrHandlerTimeout) {
		return TransportErrorTimeout
	}
	if errors.Is(err, context.Canceled) {
		return TransportErrorCanceled
	}
	return TransportErrorConnection
}

// decodeAPIError is the single normalization point for error responses: all
// callers see the same APIError shape regardless of what the server sent.
func decodeAPIError(resp *http.Response) error {
	data, _ := io.ReadAll(resp.Body)
	apiErr := APIError{Status: resp.StatusCode, RequestID: resp.Header.Get(headers.RequestID)}
	if len(data) == 0 {
		apiErr.Code = "request_failed"
		apiErr.Message = FallbackErrorMessage
		return apiErr
	}
	var payload struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		Timestamp string `json:"timestamp"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		apiErr.Code = "request_failed"
		apiErr.Message = FallbackErrorMessage
		return apiErr
	}
	apiErr.Code = payload.Code
	apiErr.Message = payload.Message
	apiErr.Timestamp = payload.Timestamp
	if apiErr.Code == "" {
		apiErr.Code = "request_failed"
	}
	if apiErr.Message == "" {
		apiErr.Message = FallbackErrorMessage
	}
	return apiErr
}

func statusOf(err error) (int, bool) {
	var apiErr APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status, true
	}
	return 0, false
}

// IsUnauthorized reports whether err is an API error with status 401.
func IsUnauthorized(err error) bool {
	status, ok := statusOf(err)
	return ok && status == http.StatusUnauthorized
}

// IsPaymentRequired reports whether err is an API error with status 402,
// the API's signal for insufficient credits.
func IsPaymentRequired(err error) bool {
	status, ok := statusOf(err)
	return ok && status == http.StatusPaymentRequired
}

// IsNotFound reports whether err is an API error with status 404.
func IsNotFound(err error) bool {
	status, ok := statusOf(err)
	return ok && status == http.StatusNotFound
}

// IsPayloadTooLarge reports whether err is an API error with status 413,
// returned when a draft image exceeds the server's size limit.
func IsPayloadTooLarge(err error) bool {
	status, ok := statusOf(err)
	return ok && status == http.StatusRequestEntityTooLarge
}

// ErrorMessage converts any SDK error into a user-displayable string.
// Structured API errors surface the server message verbatim; everything
// else collapses to the fixed fallback message.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var apiErr APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return FallbackErrorMessage
}
