package mailgate

import (
	"fmt"
	"strings"

	"github.com/mailgate/client-go/internal/api"
)

// Client is the MailGate client for submitting and tracking send operations.
type Client struct {
	apiClient *api.Client
}

// New creates a client from a connection string of the form
// "endpoint=https://<resource>.mailgate.net;accesskey=<key>".
func New(connectionString string, opts ...Option) (*Client, error) {
	endpoint, accessKey, err := parseConnectionString(connectionString)
	if err != nil {
		return nil, err
	}

	cfg := &clientConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	apiOpts := []api.Option{
		api.WithRetryConfig(cfg.retryConfig()),
	}
	if cfg.httpClient != nil {
		apiOpts = append(apiOpts, api.WithHTTPClient(cfg.httpClient))
	}
	if cfg.timeout > 0 {
		apiOpts = append(apiOpts, api.WithTimeout(cfg.timeout))
	}

	apiClient, err := api.New(endpoint, accessKey, apiOpts...)
	if err != nil {
		return nil, err
	}

	return &Client{apiClient: apiClient}, nil
}

// parseConnectionString splits a connection string into its endpoint and
// access key parts. Both are required; unknown parts are rejected so typos
// do not silently drop credentials.
func parseConnectionString(s string) (endpoint, accessKey string, err error) {
	if s == "" {
		return "", "", ErrMissingConnectionString
	}

	for _, part := range strings.Split(s, ";") {
		if part == "" {
			continue
		}
		key, value, found := strings.Cut(part, "=")
		if !found {
			return "", "", fmt.Errorf("%w: part %q has no value", ErrInvalidConnectionString, part)
		}
		switch strings.ToLower(key) {
		case "endpoint":
			endpoint = value
		case "accesskey":
			accessKey = value
		default:
			return "", "", fmt.Errorf("%w: unknown part %q", ErrInvalidConnectionString, key)
		}
	}

	if endpoint == "" {
		return "", "", fmt.Errorf("%w: endpoint is missing", ErrInvalidConnectionString)
	}
	if accessKey == "" {
		return "", "", fmt.Errorf("%w: accesskey is missing", ErrInvalidConnectionString)
	}

	return endpoint, accessKey, nil
}
