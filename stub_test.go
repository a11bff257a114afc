package mailgate

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeProvider is an in-process MailGate service for tests. It scripts poll
// responses and counts every request so tests can assert on call ordering.
type fakeProvider struct {
	mu        sync.Mutex
	sendCalls int
	pollCalls int

	// rejectStatus makes submissions fail synchronously with this HTTP code.
	rejectStatus int
	rejectCode   string
	rejectMsg    string

	// throttleFrom makes submissions answer 429 from this 1-based call on.
	throttleFrom int

	// polls scripts the status reads; the last entry repeats.
	polls []pollResponse
}

type pollResponse struct {
	Status     string
	SendStatus string
	ErrCode    string
	ErrMsg     string
}

func (f *fakeProvider) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/emails:send":
			f.handleSend(w)
		case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/emails/operations/"):
			f.handlePoll(w)
		default:
			http.NotFound(w, r)
		}
	})
}

func (f *fakeProvider) handleSend(w http.ResponseWriter) {
	f.mu.Lock()
	f.sendCalls++
	call := f.sendCalls
	f.mu.Unlock()

	if f.throttleFrom > 0 && call >= f.throttleFrom {
		w.Header().Set("Retry-After", "60")
		w.Header().Set("X-RateLimit-Remaining", "0")
		writeError(w, http.StatusTooManyRequests, "TooManyRequests", "rate limit exceeded")
		return
	}

	if f.rejectStatus != 0 {
		writeError(w, f.rejectStatus, f.rejectCode, f.rejectMsg)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]string{
		"id":     fmt.Sprintf("op-%d", call),
		"status": "NotStarted",
	})
}

func (f *fakeProvider) handlePoll(w http.ResponseWriter) {
	f.mu.Lock()
	f.pollCalls++
	i := f.pollCalls - 1
	if i >= len(f.polls) {
		i = len(f.polls) - 1
	}
	resp := f.polls[i]
	f.mu.Unlock()

	body := map[string]any{
		"id":     "op-1",
		"status": resp.Status,
	}
	if resp.SendStatus != "" {
		body["sendStatus"] = resp.SendStatus
	}
	if resp.ErrCode != "" {
		body["error"] = map[string]string{"code": resp.ErrCode, "message": resp.ErrMsg}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(body)
}

func (f *fakeProvider) sends() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sendCalls
}

func (f *fakeProvider) pollCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pollCalls
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{"code": code, "message": message},
	})
}

// newTestClient wires a client to the fake provider.
func newTestClient(t *testing.T, f *fakeProvider, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(f.handler())
	t.Cleanup(srv.Close)

	client, err := New("endpoint="+srv.URL+";accesskey=test-key", opts...)
	require.NoError(t, err)
	return client
}

// testMessage returns a valid message for submission tests.
func testMessage() *Message {
	return &Message{
		SenderAddress: "sender@example.com",
		Recipients:    Recipients{To: []Address{{Address: "to@example.com"}}},
		Subject:       "Test",
		PlainText:     "Test body.",
	}
}
