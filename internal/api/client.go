// Package api implements the HTTP client for the MailGate service API:
// request signing, retries, typed errors and the wire endpoints.
package api

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

const apiVersion = "2024-07-01"

// Client is the HTTP API client for the MailGate service.
type Client struct {
	endpoint   string
	accessKey  []byte
	httpClient *http.Client
	retry      *RetryConfig
}

// Option configures the API client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithRetryConfig sets the retry configuration.
func WithRetryConfig(cfg *RetryConfig) Option {
	return func(c *Client) {
		c.retry = cfg
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// New creates a new API client for the given endpoint and access key.
func New(endpoint, accessKey string, opts ...Option) (*Client, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("endpoint is required")
	}
	if accessKey == "" {
		return nil, fmt.Errorf("access key is required")
	}

	c := &Client{
		endpoint:  strings.TrimSuffix(endpoint, "/"),
		accessKey: []byte(accessKey),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		retry: DefaultRetryConfig(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// do issues one signed request with retries per the client's RetryConfig and
// decodes a 2xx response into result. The request is rebuilt on every attempt
// so the body can be resent.
func (c *Client) do(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
	}

	url := c.endpoint + path
	requestID := uuid.NewString()

	var resp *http.Response
	var respBody []byte

	for attempt := 0; ; attempt++ {
		req, err := c.newRequest(ctx, method, path, payload)
		if err != nil {
			return err
		}
		req.Header.Set("X-Client-Request-ID", requestID)

		resp, err = c.httpClient.Do(req)
		if err != nil {
			if attempt < c.retry.MaxRetries {
				if werr := c.retry.Wait(ctx, attempt); werr != nil {
					return werr
				}
				continue
			}
			return &NetworkError{Err: err, URL: url, Attempt: attempt + 1}
		}

		if resp.StatusCode < 400 {
			break
		}

		respBody = drainBody(resp)
		if c.retry.ShouldRetry(attempt, resp.StatusCode) {
			if werr := c.retry.Wait(ctx, attempt); werr != nil {
				return werr
			}
			continue
		}
		return parseErrorResponse(resp, respBody)
	}
	defer resp.Body.Close()

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}

	return nil
}

// newRequest builds and signs a single request attempt.
func (c *Client) newRequest(ctx context.Context, method, path string, payload []byte) (*http.Request, error) {
	var bodyReader *bytes.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	} else {
		bodyReader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	c.sign(req, method, path)

	return req, nil
}

// sign adds the timestamp and HMAC-SHA256 authorization headers. The
// signature covers method, path and timestamp so a captured request cannot
// be replayed against another resource.
func (c *Client) sign(req *http.Request, method, path string) {
	timestamp := time.Now().UTC().Format(http.TimeFormat)
	mac := hmac.New(sha256.New, c.accessKey)
	fmt.Fprintf(mac, "%s\n%s\n%s", method, path, timestamp)
	signature := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	req.Header.Set("X-Timestamp", timestamp)
	req.Header.Set("Authorization", "HMAC-SHA256 "+signature)
}
