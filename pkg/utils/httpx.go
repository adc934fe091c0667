package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// HTTPError carries the status code of a non-2xx response so the retry loop
// can distinguish throttling and server faults from hard client errors.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	body := e.Body
	if len(body) > 200 {
		body = body[:200]
	}
	return fmt.Sprintf("http status %d: %s", e.StatusCode, body)
}

// RetryClient performs GET requests with a bounded retry budget. 429s are
// retried honoring the Retry-After header when present, 5xx responses with
// linear backoff (BaseDelay * attempt). Any other 4xx fails immediately.
type RetryClient struct {
	HTTP        *http.Client
	MaxAttempts int
	BaseDelay   time.Duration
}

func NewRetryClient(maxAttempts int, baseDelay time.Duration) *RetryClient {
	return &RetryClient{
		HTTP:        &http.Client{Timeout: 60 * time.Second},
		MaxAttempts: maxAttempts,
		BaseDelay:   baseDelay,
	}
}

// GetJSON fetches url and decodes the response body into out. Exhausting the
// retry budget returns the last error seen.
func (c *RetryClient) GetJSON(ctx context.Context, url string, out interface{}) error {
	var lastErr error
	for attempt := 1; attempt <= c.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		body, retryAfter, err := c.getOnce(ctx, url)
		if err == nil {
			if jsonErr := json.Unmarshal(body, out); jsonErr != nil {
				return fmt.Errorf("decoding response from %s: %w", url, jsonErr)
			}
			return nil
		}
		lastErr = err

		if !retryable(err) || attempt == c.MaxAttempts {
			return lastErr
		}

		delay := c.BaseDelay * time.Duration(attempt)
		if retryAfter > 0 {
			delay = retryAfter
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return lastErr
}

func (c *RetryClient) getOnce(ctx context.Context, url string) ([]byte, time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, retryAfterDuration(resp), &HTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return raw, 0, nil
}

func retryable(err error) bool {
	if httpErr, ok := err.(*HTTPError); ok {
		if httpErr.StatusCode == http.StatusTooManyRequests {
			return true
		}
		return httpErr.StatusCode >= 500 && httpErr.StatusCode <= 599
	}
	// Transport-level failures (timeouts, resets) are worth another attempt.
	return true
}

func retryAfterDuration(resp *http.Response) time.Duration {
	ra := strings.TrimSpace(resp.Header.Get("Retry-After"))
	if ra == "" {
		return 0
	}
	secs, err := strconv.Atoi(ra)
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
