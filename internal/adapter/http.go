package adapter

import (
	"bytes"
	"context"
	"net/http"
	"time"
)

// HTTPClient defines an interface for outbound HTTP calls to enable mocking
//
//go:generate mockgen -source=http.go -destination=../mocks/http.go -package=mocks -mock_names=HTTPClient=MockHTTPClient
type HTTPClient interface {
	// PostWithHeaders performs a POST request with the given headers and body.
	// No internal retry is performed: delivery retries are scheduled through
	// the persisted backoff state, not in-process loops.
	// The caller is responsible for closing the response body.
	PostWithHeaders(ctx context.Context, url string, headers map[string]string, body []byte) (*http.Response, error)
}

// RealHTTPClient implements HTTPClient using the standard http package.
// The underlying client is pooled and safe for concurrent reuse across
// deliveries.
type RealHTTPClient struct {
	client *http.Client
}

// NewHTTPClient creates a new real HTTP client with a bounded timeout
func NewHTTPClient(timeout time.Duration) HTTPClient {
	return &RealHTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// PostWithHeaders performs a POST request with the given headers and body
func (c *RealHTTPClient) PostWithHeaders(ctx context.Context, url string, headers map[string]string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	for key, value := range headers {
		req.Header.Set(key, value)
	}

	return c.client.Do(req)
}
