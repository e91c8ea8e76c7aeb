package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	goshopify "github.com/bold-commerce/go-shopify/v4"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/fluxi/inventory-service/internal/http/ratelimit"
)

// Validation must reject malformed requests before any database or
// external call is made, so these routes are exercised with no pool
// connected. A handler that got past validation would panic on the nil
// pool and fail the test.

func testRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	router.POST("/channels", CreateChannel)
	router.POST("/channels/:channelId/import-to-inventory", ImportToInventory)
	router.DELETE("/channels/:channelId/staging-products", DeleteStagingProducts)
	router.GET("/channels/:channelId/staging-products", ListStagingProducts)
	router.GET("/products", ListProducts)
	router.POST("/products", CreateProduct)
	return router
}

func doJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateChannelValidation(t *testing.T) {
	router := testRouter()

	tests := []struct {
		name string
		body string
	}{
		{"Empty body", `{}`},
		{"Missing config", `{"platform":"siigo","name":"My ERP"}`},
		{"Unsupported platform", `{"platform":"ebay","name":"Shop","config":{}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(router, http.MethodPost, "/channels", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestImportRequiresSelection(t *testing.T) {
	router := testRouter()

	w := doJSON(router, http.MethodPost, "/channels/ch_1/import-to-inventory", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "staging_product_ids or import_all")

	w = doJSON(router, http.MethodPost, "/channels/ch_1/import-to-inventory", `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteStagingRequiresSelection(t *testing.T) {
	router := testRouter()

	w := doJSON(router, http.MethodDelete, "/channels/ch_1/staging-products", `{"staging_product_ids":[]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "delete_all_skipped")
}

func TestListStagingRejectsBadQuery(t *testing.T) {
	router := testRouter()

	w := doJSON(router, http.MethodGet, "/channels/ch_1/staging-products?status=bogus", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, http.MethodGet, "/channels/ch_1/staging-products?limit=5000", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListProductsRejectsBadQuery(t *testing.T) {
	router := testRouter()

	w := doJSON(router, http.MethodGet, "/products?status=discontinued", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateProductValidation(t *testing.T) {
	router := testRouter()

	w := doJSON(router, http.MethodPost, "/products", `{"name":"No SKU"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSyncErrorStatus(t *testing.T) {
	upstream := &ratelimit.UpstreamError{
		URL:      "https://api.siigo.com/v1/products",
		Attempts: 1,
		Status:   503,
	}
	assert.Equal(t, http.StatusBadGateway, syncErrorStatus(upstream))
	assert.Equal(t, http.StatusBadGateway, syncErrorStatus(fmt.Errorf("fetching products from siigo: %w", upstream)))
	assert.Equal(t, http.StatusBadGateway, syncErrorStatus(fmt.Errorf("shopify auth: %w", goshopify.ResponseError{Status: 401})))

	assert.Equal(t, http.StatusInternalServerError, syncErrorStatus(errors.New("loading staged ids: connection refused")))
}
