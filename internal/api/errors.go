package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// APIError represents an HTTP error response from the MailGate service.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("API error %d %s: %s", e.StatusCode, e.Code, e.Message)
	}
	if e.Message != "" {
		return fmt.Sprintf("API error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error %d", e.StatusCode)
}

// ThrottledError represents a 429 response surfaced to the caller because
// retries were exhausted or disabled. Headers is a verbatim copy of the
// response headers, including the service's rate-limit headers.
type ThrottledError struct {
	StatusCode int
	Headers    http.Header
	Message    string
}

func (e *ThrottledError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("throttled (%d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("throttled (%d): too many requests", e.StatusCode)
}

// NetworkError represents a transport-level failure.
type NetworkError struct {
	Err     error
	URL     string
	Attempt int
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// errorBody is the service's error envelope: {"error":{"code","message"}}.
type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// parseErrorResponse converts a non-2xx response into a typed error.
// The body has already been consumed by the caller.
func parseErrorResponse(resp *http.Response, body []byte) error {
	var envelope errorBody
	code := ""
	message := string(body)
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		code = envelope.Error.Code
		message = envelope.Error.Message
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return &ThrottledError{
			StatusCode: resp.StatusCode,
			Headers:    resp.Header.Clone(),
			Message:    message,
		}
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Code:       code,
		Message:    message,
	}
}

// drainBody reads and closes a response body, returning its contents.
func drainBody(resp *http.Response) []byte {
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	return body
}
