package ratelimit

import (
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"time"
)

// UpstreamError represents a failed upstream request, carrying the HTTP
// status and a snippet of the response body for diagnostics
type UpstreamError struct {
	URL      string
	Attempts int
	Status   int
	Body     string
	Err      error
}

func (e *UpstreamError) Error() string {
	msg := fmt.Sprintf("upstream request to %s failed after %d attempt(s)", e.URL, e.Attempts)
	if e.Status != 0 {
		msg += fmt.Sprintf(" (HTTP %d)", e.Status)
	}
	if e.Body != "" {
		msg += ": " + e.Body
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// IsRetryableStatus checks if an HTTP status code is retryable.
// Retryable: 429, 500-599
func IsRetryableStatus(status int) bool {
	return status == 429 || (status >= 500 && status < 600)
}

// Backoff calculates exponential backoff with jitter (0-25%) for a given
// attempt
func Backoff(attempt int, cfg Config) time.Duration {
	delay := float64(cfg.InitialBackoffMs) * math.Pow(2.0, float64(attempt))
	delay = math.Min(delay, float64(cfg.MaxBackoffMs))
	delay += rand.Float64() * 0.25 * delay
	return time.Duration(delay) * time.Millisecond
}

// RateLimitBackoff calculates backoff for HTTP 429 responses, honoring a
// Retry-After header when the server provides one
func RateLimitBackoff(attempt int, cfg Config, retryAfter string) time.Duration {
	if retryAfter != "" {
		if seconds, err := strconv.Atoi(retryAfter); err == nil && seconds > 0 {
			return time.Duration(seconds) * time.Second
		}
	}

	delay := float64(cfg.InitialBackoffMs) * math.Pow(3.0, float64(attempt))
	delay = math.Min(delay, float64(cfg.MaxBackoffMs))
	delay += rand.Float64() * 0.25 * delay
	return time.Duration(delay) * time.Millisecond
}
