package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fluxi/inventory-service/internal/http/ratelimit"
)

func fastClient() *Client {
	return NewClient(ratelimit.Config{RequestsPerSecond: 1000, Burst: 1000})
}

func TestGetJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Fluxi-InventoryService/1.0", r.Header.Get("User-Agent"))
		assert.Equal(t, "tok", r.Header.Get("X-Token"))
		fmt.Fprint(w, `{"name":"widget"}`)
	}))
	defer server.Close()

	var out struct {
		Name string `json:"name"`
	}
	err := fastClient().GetJSON(context.Background(), server.URL, map[string]string{"X-Token": "tok"}, &out)
	require.NoError(t, err)
	assert.Equal(t, "widget", out.Name)
}

func TestPostJSONSendsBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		fmt.Fprint(w, `{"ok":true}`)
	}))
	defer server.Close()

	var out struct {
		OK bool `json:"ok"`
	}
	err := fastClient().PostJSON(context.Background(), server.URL, map[string]string{"a": "b"}, nil, &out)
	require.NoError(t, err)
	assert.True(t, out.OK)
}

func TestNon2xxBecomesUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := fastClient().Do(context.Background(), http.MethodGet, server.URL, nil, nil)
	require.Error(t, err)

	var upstream *ratelimit.UpstreamError
	require.True(t, errors.As(err, &upstream))
	assert.Equal(t, http.StatusTooManyRequests, upstream.Status)
	assert.Equal(t, 1, upstream.Attempts)
	assert.Contains(t, upstream.Body, "quota exceeded")
}

func TestErrorBodyIsTruncated(t *testing.T) {
	long := strings.Repeat("x", 4096)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, long, http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := fastClient().Do(context.Background(), http.MethodGet, server.URL, nil, nil)
	var upstream *ratelimit.UpstreamError
	require.True(t, errors.As(err, &upstream))
	assert.Len(t, upstream.Body, maxErrorBodyLen)
}

func TestNoRetryByDefault(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "flaky", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClientDefault()
	_, err := client.Do(context.Background(), http.MethodGet, server.URL, nil, nil)
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetriesWhenConfigured(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			http.Error(w, "flaky", http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, `{}`)
	}))
	defer server.Close()

	client := NewClient(ratelimit.Config{
		RequestsPerSecond: 1000,
		Burst:             1000,
		MaxRetries:        3,
		InitialBackoffMs:  1,
		MaxBackoffMs:      5,
	})
	_, err := client.Do(context.Background(), http.MethodGet, server.URL, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}
