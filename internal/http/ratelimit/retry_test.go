package ratelimit

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsRetryableStatus(t *testing.T) {
	tests := []struct {
		status   int
		expected bool
	}{
		{429, true},
		{500, true},
		{503, true},
		{599, true},
		{200, false},
		{400, false},
		{401, false},
		{404, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, IsRetryableStatus(tt.status), "status %d", tt.status)
	}
}

func TestBackoffGrowsAndCaps(t *testing.T) {
	cfg := Config{InitialBackoffMs: 100, MaxBackoffMs: 1000}

	first := Backoff(0, cfg)
	assert.GreaterOrEqual(t, first, 100*time.Millisecond)
	assert.LessOrEqual(t, first, 125*time.Millisecond)

	// Attempt 10 would be 100*2^10 ms uncapped; the cap plus 25% jitter bounds it
	capped := Backoff(10, cfg)
	assert.LessOrEqual(t, capped, 1250*time.Millisecond)
}

func TestRateLimitBackoffHonorsRetryAfter(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 7*time.Second, RateLimitBackoff(0, cfg, "7"))

	// Malformed or absent header falls back to exponential backoff
	fallback := RateLimitBackoff(0, cfg, "soon")
	assert.Less(t, fallback, time.Second)
}

func TestUpstreamErrorMessage(t *testing.T) {
	err := &UpstreamError{
		URL:      "https://api.example.com/v1/products",
		Attempts: 1,
		Status:   503,
		Body:     "service unavailable",
	}
	msg := err.Error()
	assert.Contains(t, msg, "https://api.example.com/v1/products")
	assert.Contains(t, msg, "HTTP 503")
	assert.Contains(t, msg, "service unavailable")
}

func TestUpstreamErrorUnwrap(t *testing.T) {
	inner := errors.New("connection refused")
	err := &UpstreamError{URL: "https://x", Attempts: 1, Err: inner}
	assert.True(t, errors.Is(err, inner))
}

func TestWithOverrides(t *testing.T) {
	two := 2
	cfg := WithOverrides(PartialConfig{RequestsPerSecond: &two})
	assert.Equal(t, 2, cfg.RequestsPerSecond)
	assert.Equal(t, DefaultConfig().Burst, cfg.Burst)
	assert.Equal(t, 0, cfg.MaxRetries)
}
