package channels

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpclient "github.com/fluxi/inventory-service/internal/http"
	"github.com/fluxi/inventory-service/internal/http/ratelimit"
)

func testClient() *httpclient.Client {
	// High limits so test runs never wait on the limiter
	return httpclient.NewClient(ratelimit.Config{RequestsPerSecond: 1000, Burst: 1000})
}

func siigoConfig(apiURL string) map[string]any {
	return map[string]any{
		"username":   "user@example.com",
		"access_key": "key123",
		"api_url":    apiURL,
	}
}

func siigoRecord(id, code, name string, price float64) map[string]any {
	return map[string]any{
		"id":                 id,
		"code":               code,
		"name":               name,
		"active":             true,
		"available_quantity": 4,
		"prices": []any{
			map[string]any{
				"currency_code": "COP",
				"price_list": []any{
					map[string]any{"position": 1, "value": price},
				},
			},
		},
	}
}

func TestSiigoFetchAllProducts(t *testing.T) {
	var authCalls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth":
			authCalls++
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "fluxi", r.Header.Get("Partner-Id"))
			json.NewEncoder(w).Encode(map[string]string{"access_token": "tok-1"})
		case "/v1/products":
			assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
			page := r.URL.Query().Get("page")
			resp := map[string]any{
				"pagination": map[string]any{"total_results": 3},
			}
			if page == "1" {
				resp["results"] = []any{
					siigoRecord("s-1", "SKU-1", "Cafe molido", 12000),
					siigoRecord("s-2", "SKU-2", "Panela", 4500),
				}
			} else {
				resp["results"] = []any{
					siigoRecord("s-3", "SKU-3", "Arequipe", 9800),
				}
			}
			json.NewEncoder(w).Encode(resp)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	adapter, err := NewSiigoAdapter(siigoConfig(server.URL), testClient(), 2)
	require.NoError(t, err)

	products, err := adapter.FetchAllProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 3)
	assert.Equal(t, 1, authCalls)

	assert.Equal(t, "s-1", products[0].ExternalID)
	assert.Equal(t, "SKU-1", products[0].SKU)
	assert.Equal(t, "Cafe molido", products[0].Name)
	assert.Equal(t, "12000", products[0].Price.String())
	assert.Equal(t, "COP", products[0].Currency)
	assert.Equal(t, 4, products[0].Stock)
	assert.Equal(t, "active", products[0].Status)
	assert.NotEmpty(t, products[0].Raw)
}

func TestSiigoAuthFailureAbortsFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth" {
			http.Error(w, `{"error":"invalid credentials"}`, http.StatusUnauthorized)
			return
		}
		t.Errorf("unexpected request to %s after failed auth", r.URL.Path)
	}))
	defer server.Close()

	adapter, err := NewSiigoAdapter(siigoConfig(server.URL), testClient(), 10)
	require.NoError(t, err)

	_, err = adapter.FetchAllProducts(context.Background())
	require.Error(t, err)

	var upstream *ratelimit.UpstreamError
	require.True(t, errors.As(err, &upstream))
	assert.Equal(t, http.StatusUnauthorized, upstream.Status)
}

func TestSiigoPageFailureAbortsFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth":
			json.NewEncoder(w).Encode(map[string]string{"access_token": "tok-1"})
		case "/v1/products":
			if r.URL.Query().Get("page") == "2" {
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
			fmt.Fprint(w, `{"pagination":{"total_results":4},"results":[{"id":"s-1"},{"id":"s-2"}]}`)
		}
	}))
	defer server.Close()

	adapter, err := NewSiigoAdapter(siigoConfig(server.URL), testClient(), 2)
	require.NoError(t, err)

	_, err = adapter.FetchAllProducts(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "page 2")
}

func TestNewSiigoAdapterRequiresCredentials(t *testing.T) {
	_, err := NewSiigoAdapter(map[string]any{"username": "u"}, testClient(), 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access_key")
}
