// Package headers defines HTTP header constants shared across the FitRoom
// client. This is the single source of truth for header names used in API
// requests/responses.
package headers

const (
	// RequestID is the header for request correlation.
	// Clients can supply this header for idempotency on retries.
	RequestID = "X-FitRoom-Request-Id"

	// Client identifies the SDK flavor and version to the API.
	Client = "X-FitRoom-Client"
)
