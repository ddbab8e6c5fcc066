package notify

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/materna-cli/materna/internal/config"
)

// HTTPClient posts webhook payloads with retry logic.
type HTTPClient struct {
	client     *http.Client
	maxRetries int
	retryDelay []time.Duration
}

// NewHTTPClient creates a client from the runtime configuration.
func NewHTTPClient() *HTTPClient {
	return &HTTPClient{
		client:     &http.Client{Timeout: config.Global.HTTP.Timeout},
		maxRetries: config.Global.HTTP.MaxRetries,
		retryDelay: config.Global.HTTP.RetryDelays,
	}
}

// SendResult contains the outcome of a send operation.
type SendResult struct {
	StatusCode int
	Duration   time.Duration
	Attempts   int
	Error      error
}

// Send POSTs body to url. Rate limits and server errors are retried on
// the configured delay schedule; client errors are final.
func (c *HTTPClient) Send(ctx context.Context, url string, contentType string, body []byte) *SendResult {
	result := &SendResult{}
	start := time.Now()
	defer func() { result.Duration = time.Since(start) }()

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		result.Attempts = attempt + 1

		if attempt > 0 && attempt < len(c.retryDelay) {
			select {
			case <-ctx.Done():
				result.Error = ctx.Err()
				return result
			case <-time.After(c.retryDelay[attempt]):
			}
		}

		status, retry, err := c.post(ctx, url, contentType, body)
		if status != 0 {
			result.StatusCode = status
		}
		result.Error = err
		if err == nil || !retry {
			return result
		}
	}

	if result.Error == nil {
		result.Error = fmt.Errorf("max retries exceeded")
	}
	return result
}

// post performs one POST. retry reports whether the failure is worth
// another attempt.
func (c *HTTPClient) post(ctx context.Context, url string, contentType string, body []byte) (status int, retry bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, true, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("User-Agent", "Materna/1.0")

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, true, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(resp.Body)

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return resp.StatusCode, false, nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return resp.StatusCode, true, fmt.Errorf("rate limited (HTTP 429)")
	case resp.StatusCode >= 500:
		return resp.StatusCode, true, fmt.Errorf("server error (HTTP %d): %s", resp.StatusCode, string(respBody))
	default:
		return resp.StatusCode, false, fmt.Errorf("client error (HTTP %d): %s", resp.StatusCode, string(respBody))
	}
}
