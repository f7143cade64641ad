package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// maxRetryAfter caps how long a Retry-After header may stall a retry.
const maxRetryAfter = time.Minute

// CoinGecko reports failures in one of two shapes depending on the plan.
const (
	pathError       = "$.error"
	pathStatusError = "$.status.error_message"
	pathStatusCode  = "$.status.error_code"
)

// APIError represents a non-2xx response from the market-data API.
type APIError struct {
	StatusCode int
	Message    string
	Body       []byte

	// RetryAfter is the server's requested delay on 429, zero if absent.
	RetryAfter time.Duration
}

func (e *APIError) Error() string {
	return fmt.Sprintf("coingecko api error %d: %s", e.StatusCode, e.Message)
}

// IsRetryable returns true if the error should trigger a retry.
func (e *APIError) IsRetryable() bool {
	return e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests
}

// newAPIError builds an APIError from a failed response, preferring the
// message CoinGecko put in the body over the bare status text.
func newAPIError(resp *http.Response, body []byte) *APIError {
	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    errorMessage(resp.StatusCode, body),
		Body:       body,
		RetryAfter: retryAfter(resp.Header.Get("Retry-After")),
	}
}

func errorMessage(status int, body []byte) string {
	var jobj any
	if err := json.Unmarshal(body, &jobj); err == nil {
		if msg := lookupString(jobj, pathError); msg != "" {
			return msg
		}
		if msg := lookupString(jobj, pathStatusError); msg != "" {
			if code := lookup(jobj, pathStatusCode); code != nil {
				return fmt.Sprintf("%s (code %v)", msg, code)
			}
			return msg
		}
	}
	return http.StatusText(status)
}

// retryAfter parses a Retry-After value given in seconds. HTTP dates are
// not used by CoinGecko and are ignored.
func retryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(v)
	if err != nil || secs <= 0 {
		return 0
	}
	return min(time.Duration(secs)*time.Second, maxRetryAfter)
}

// doRequest performs an HTTP request with the given method and path.
func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values) ([]byte, error) {
	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set(c.keyHeader, c.apiKey)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newAPIError(resp, body)
	}
	return body, nil
}

// doWithRetry performs a request, retrying retryable failures with
// jittered exponential backoff. A Retry-After from the server lengthens
// the wait but never shortens it.
func (c *Client) doWithRetry(ctx context.Context, method, path string, query url.Values) ([]byte, error) {
	backoff := c.retryBackoff
	var wait time.Duration

	for attempt := 0; ; attempt++ {
		if attempt > 0 {
			c.logger.Debug("retrying request",
				"attempt", attempt,
				"wait", wait,
				"path", path,
			)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(wait):
			}
		}

		body, err := c.doRequest(ctx, method, path, query)
		if err == nil {
			return body, nil
		}

		var apiErr *APIError
		if !errors.As(err, &apiErr) || !apiErr.IsRetryable() {
			return nil, err
		}
		if c.maxRetries == 0 {
			return nil, err
		}
		if attempt == c.maxRetries {
			return nil, fmt.Errorf("max retries exceeded: %w", err)
		}

		// backoff * [0.5, 1.5); a zero backoff retries at once
		wait = 0
		if backoff > 0 {
			wait = backoff/2 + time.Duration(rand.Int64N(int64(backoff)))
		}
		wait = max(wait, apiErr.RetryAfter)
		backoff *= 2
	}
}

// get performs a GET request and decodes the JSON response into result.
func (c *Client) get(ctx context.Context, path string, query url.Values, result any) error {
	body, err := c.doWithRetry(ctx, http.MethodGet, path, query)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}
