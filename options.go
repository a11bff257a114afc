package mailgate

import (
	"net/http"
	"time"

	"github.com/mailgate/client-go/internal/api"
)

const (
	defaultWaitTimeout  = 60 * time.Second
	defaultPollInterval = 2 * time.Second
	defaultBurstSize    = 35
)

// clientConfig holds configuration for the client.
type clientConfig struct {
	httpClient *http.Client
	timeout    time.Duration
	retries    int
	retriesSet bool
	retryOn    []int
}

// waitConfig holds configuration for waiting on a send operation.
type waitConfig struct {
	timeout      time.Duration
	pollInterval time.Duration
}

// probeConfig holds configuration for a rate-limit probe burst.
type probeConfig struct {
	burstSize int
	onResult  func(ProbeResult)
}

// Option configures the client.
type Option func(*clientConfig)

// WaitOption configures waiting on a send operation.
type WaitOption func(*waitConfig)

// ProbeOption configures a rate-limit probe.
type ProbeOption func(*probeConfig)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *clientConfig) {
		c.httpClient = client
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *clientConfig) {
		c.timeout = timeout
	}
}

// WithRetries sets the number of automatic retries for API calls.
func WithRetries(count int) Option {
	return func(c *clientConfig) {
		c.retries = count
		c.retriesSet = true
	}
}

// WithRetryOn sets the HTTP status codes that trigger a retry.
// Default: [408, 429, 500, 502, 503, 504]
func WithRetryOn(statusCodes []int) Option {
	return func(c *clientConfig) {
		c.retryOn = statusCodes
	}
}

// WithoutRetries disables automatic retries entirely. A 429 response then
// surfaces immediately as a *ThrottledError carrying the response headers,
// which is what the rate-limit probe needs to observe the throttle boundary
// instead of masking it.
func WithoutRetries() Option {
	return WithRetries(0)
}

// WithWaitTimeout sets the overall deadline for waiting on an operation.
func WithWaitTimeout(timeout time.Duration) WaitOption {
	return func(c *waitConfig) {
		c.timeout = timeout
	}
}

// WithPollInterval sets the pause between status reads.
func WithPollInterval(interval time.Duration) WaitOption {
	return func(c *waitConfig) {
		c.pollInterval = interval
	}
}

// WithBurstSize sets the number of submissions in a probe burst.
func WithBurstSize(n int) ProbeOption {
	return func(c *probeConfig) {
		c.burstSize = n
	}
}

// WithProbeProgress registers a callback invoked after each probe result is
// recorded, in sequence order.
func WithProbeProgress(fn func(ProbeResult)) ProbeOption {
	return func(c *probeConfig) {
		c.onResult = fn
	}
}

// newWaitConfig applies wait options over the defaults.
func newWaitConfig(opts []WaitOption) *waitConfig {
	cfg := &waitConfig{
		timeout:      defaultWaitTimeout,
		pollInterval: defaultPollInterval,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// retryConfig builds the API retry configuration from client options.
func (c *clientConfig) retryConfig() *api.RetryConfig {
	if c.retriesSet && c.retries == 0 {
		return api.NoRetry()
	}

	cfg := api.DefaultRetryConfig()
	if c.retriesSet {
		cfg.MaxRetries = c.retries
	}
	if len(c.retryOn) > 0 {
		codes := make(map[int]struct{}, len(c.retryOn))
		for _, code := range c.retryOn {
			codes[code] = struct{}{}
		}
		cfg.RetryableOn = func(statusCode int) bool {
			_, ok := codes[statusCode]
			return ok
		}
	}
	return cfg
}
