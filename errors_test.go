package mailgate

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mailgate/client-go/internal/api"
)

func TestAPIError_SentinelMatching(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		sentinel   error
	}{
		{"401 unauthorized", 401, ErrUnauthorized},
		{"404 operation not found", 404, ErrOperationNotFound},
		{"429 rate limited", 429, ErrRateLimited},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := &APIError{StatusCode: tt.statusCode, Message: "boom"}
			require.ErrorIs(t, err, tt.sentinel)
		})
	}

	err := &APIError{StatusCode: 500, Message: "boom"}
	require.NotErrorIs(t, err, ErrUnauthorized)
}

func TestThrottledError_IsRateLimited(t *testing.T) {
	err := &ThrottledError{StatusCode: 429}
	require.ErrorIs(t, err, ErrRateLimited)
}

func TestWrapError(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		require.NoError(t, wrapError(nil))
	})

	t.Run("throttled keeps headers", func(t *testing.T) {
		headers := http.Header{"Retry-After": []string{"60"}}
		wrapped := wrapError(&api.ThrottledError{StatusCode: 429, Headers: headers, Message: "slow down"})

		var thr *ThrottledError
		require.ErrorAs(t, wrapped, &thr)
		require.Equal(t, "60", thr.Headers.Get("Retry-After"))
		require.Equal(t, "slow down", thr.Message)
	})

	t.Run("api error", func(t *testing.T) {
		wrapped := wrapError(&api.APIError{StatusCode: 400, Code: "Bad", Message: "nope"})

		var apiErr *APIError
		require.ErrorAs(t, wrapped, &apiErr)
		require.Equal(t, "Bad", apiErr.Code)
	})

	t.Run("network error unwraps", func(t *testing.T) {
		cause := errors.New("connection refused")
		wrapped := wrapError(&api.NetworkError{Err: cause, URL: "http://x", Attempt: 2})

		var netErr *NetworkError
		require.ErrorAs(t, wrapped, &netErr)
		require.ErrorIs(t, wrapped, cause)
		require.Equal(t, 2, netErr.Attempt)
	})

	t.Run("other errors pass through", func(t *testing.T) {
		cause := errors.New("plain")
		require.Equal(t, cause, wrapError(cause))
	})
}

func TestErrorStrings(t *testing.T) {
	require.Equal(t, "message validation failed: subject, body",
		(&ValidationError{Fields: []string{"subject", "body"}}).Error())

	require.Contains(t, (&SubmissionError{StatusCode: 400, Code: "X", Message: "m"}).Error(), "400 X")
	require.Contains(t, (&ThrottledError{StatusCode: 429}).Error(), "429")
	require.Contains(t, (&InconsistentStatusError{OperationID: "op-1", Detail: "d"}).Error(), "op-1")
}
