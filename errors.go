package mailgate

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mailgate/client-go/internal/api"
)

// Sentinel errors for errors.Is() checks
var (
	// ErrMissingConnectionString is returned when no connection string is provided.
	ErrMissingConnectionString = errors.New("connection string is required")

	// ErrInvalidConnectionString is returned when the connection string cannot be parsed.
	ErrInvalidConnectionString = errors.New("invalid connection string")

	// ErrUnauthorized is returned when the access key is rejected by the service.
	ErrUnauthorized = errors.New("invalid or expired access key")

	// ErrOperationNotFound is returned when polling an unknown operation.
	ErrOperationNotFound = errors.New("operation not found")

	// ErrRateLimited is returned when the service rate limit is exceeded.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrWatcherCancelled is returned when a watch subscription is cancelled
	// before the operation reached a terminal state.
	ErrWatcherCancelled = errors.New("watch cancelled")
)

// MailGateError is implemented by all SDK errors.
type MailGateError interface {
	error
	MailGateError() // marker method
}

// ValidationError reports message fields that failed pre-submission checks.
// No network call is made when validation fails.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("message validation failed: %s", strings.Join(e.Fields, ", "))
}

// MailGateError implements the MailGateError interface.
func (e *ValidationError) MailGateError() {}

// SubmissionError is returned when the service rejects a send request
// synchronously, before any operation is created.
type SubmissionError struct {
	StatusCode int
	Code       string
	Message    string
	Err        error
}

func (e *SubmissionError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("send rejected (%d %s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("send rejected (%d): %s", e.StatusCode, e.Message)
}

// Unwrap returns the underlying error.
func (e *SubmissionError) Unwrap() error {
	return e.Err
}

// MailGateError implements the MailGateError interface.
func (e *SubmissionError) MailGateError() {}

// APIError represents an HTTP error from the MailGate service.
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

// Is implements errors.Is for sentinel error matching.
func (e *APIError) Is(target error) bool {
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return target == ErrUnauthorized
	case http.StatusNotFound:
		return target == ErrOperationNotFound
	case http.StatusTooManyRequests:
		return target == ErrRateLimited
	}
	return false
}

// MailGateError implements the MailGateError interface.
func (e *APIError) MailGateError() {}

// ThrottledError is returned when the service answers 429 and retries are
// disabled. Headers carries the rate-limit response headers verbatim.
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

// Is implements errors.Is for sentinel error matching.
func (e *ThrottledError) Is(target error) bool {
	return target == ErrRateLimited
}

// MailGateError implements the MailGateError interface.
func (e *ThrottledError) MailGateError() {}

// NetworkError represents a network-level failure.
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

// MailGateError implements the MailGateError interface.
func (e *NetworkError) MailGateError() {}

// TimeoutError represents a wait that exceeded its deadline.
type TimeoutError struct {
	Operation string
	Timeout   time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s timed out after %v", e.Operation, e.Timeout)
}

// MailGateError implements the MailGateError interface.
func (e *TimeoutError) MailGateError() {}

// InconsistentStatusError reports a logically impossible provider state:
// disagreeing status vocabularies or a terminal state moving backwards.
// It is fatal to the polling session and never absorbed.
type InconsistentStatusError struct {
	OperationID string
	Detail      string
}

func (e *InconsistentStatusError) Error() string {
	return fmt.Sprintf("inconsistent status for operation %s: %s", e.OperationID, e.Detail)
}

// MailGateError implements the MailGateError interface.
func (e *InconsistentStatusError) MailGateError() {}

// wrapError converts internal API errors to public errors.
// This ensures that errors.Is() checks work with public sentinel errors.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	var thrErr *api.ThrottledError
	if errors.As(err, &thrErr) {
		return &ThrottledError{
			StatusCode: thrErr.StatusCode,
			Headers:    thrErr.Headers,
			Message:    thrErr.Message,
		}
	}

	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		return &APIError{
			StatusCode: apiErr.StatusCode,
			Code:       apiErr.Code,
			Message:    apiErr.Message,
		}
	}

	var netErr *api.NetworkError
	if errors.As(err, &netErr) {
		return &NetworkError{
			Err:     netErr.Err,
			URL:     netErr.URL,
			Attempt: netErr.Attempt,
		}
	}

	return err
}
