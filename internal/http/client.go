package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/fluxi/inventory-service/internal/http/ratelimit"
)

const maxErrorBodyLen = 512

// Client is an outbound HTTP client with request pacing. Retries are
// attempted only when the config allows them; channel adapters run with
// MaxRetries=0 so a failed page fetch aborts the sync.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	config     ratelimit.Config
}

// NewClient creates a new client with the given pacing config
func NewClient(config ratelimit.Config) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(config.RequestsPerSecond), config.Burst),
		config:  config,
	}
}

// NewClientDefault creates a new client with default pacing
func NewClientDefault() *Client {
	return NewClient(ratelimit.DefaultConfig())
}

// Response is a fully-read upstream response
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Do performs an HTTP request with pacing and optional retries, returning
// the response body. Non-2xx responses become UpstreamError with the body
// text attached.
func (c *Client) Do(ctx context.Context, method, url string, body []byte, headers map[string]string) ([]byte, error) {
	resp, err := c.DoRaw(ctx, method, url, body, headers)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// DoRaw performs an HTTP request with pacing and optional retries, returning
// the full response so callers can inspect headers (e.g. pagination totals).
func (c *Client) DoRaw(ctx context.Context, method, url string, body []byte, headers map[string]string) (*Response, error) {
	var lastStatus int
	var lastBody string
	var lastErr error

	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}

		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}

		req, err := http.NewRequestWithContext(ctx, method, url, reader)
		if err != nil {
			return nil, fmt.Errorf("building request: %w", err)
		}

		req.Header.Set("User-Agent", "Fluxi-InventoryService/1.0")
		req.Header.Set("Accept", "application/json")
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			if attempt < c.config.MaxRetries {
				time.Sleep(ratelimit.Backoff(attempt, c.config))
				continue
			}
			break
		}

		data, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			lastErr = readErr
			lastStatus = resp.StatusCode
			break
		}

		lastStatus = resp.StatusCode
		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return &Response{
				StatusCode: resp.StatusCode,
				Header:     resp.Header,
				Body:       data,
			}, nil
		}

		lastBody = truncate(string(data), maxErrorBodyLen)

		if attempt < c.config.MaxRetries && ratelimit.IsRetryableStatus(resp.StatusCode) {
			if resp.StatusCode == http.StatusTooManyRequests {
				time.Sleep(ratelimit.RateLimitBackoff(attempt, c.config, resp.Header.Get("Retry-After")))
			} else {
				time.Sleep(ratelimit.Backoff(attempt, c.config))
			}
			continue
		}
		break
	}

	return nil, &ratelimit.UpstreamError{
		URL:      url,
		Attempts: c.config.MaxRetries + 1,
		Status:   lastStatus,
		Body:     lastBody,
		Err:      lastErr,
	}
}

// GetJSON performs a GET request and decodes the JSON response into out
func (c *Client) GetJSON(ctx context.Context, url string, headers map[string]string, out any) error {
	data, err := c.Do(ctx, http.MethodGet, url, nil, headers)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding response from %s: %w", url, err)
	}
	return nil
}

// PostJSON performs a POST request with a JSON body and decodes the JSON
// response into out
func (c *Client) PostJSON(ctx context.Context, url string, payload any, headers map[string]string, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding request body: %w", err)
	}

	if headers == nil {
		headers = make(map[string]string)
	}
	headers["Content-Type"] = "application/json"

	data, err := c.Do(ctx, http.MethodPost, url, body, headers)
	if err != nil {
		return err
	}
	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decoding response from %s: %w", url, err)
		}
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
