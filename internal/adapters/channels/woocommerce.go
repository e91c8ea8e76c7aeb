package channels

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/spf13/cast"

	"github.com/fluxi/inventory-service/internal/adapters/base"
	httpclient "github.com/fluxi/inventory-service/internal/http"
)

// WooCommerce is the channel adapter for the WooCommerce REST API
// (/wp-json/wc/v3). Authentication is basic auth with the store's consumer
// key/secret; the product total comes from the X-WP-Total response header.
type WooCommerce struct {
	storeURL       string
	consumerKey    string
	consumerSecret string
	currency       string
	pageSize       int
	client         *httpclient.Client
}

// NewWooCommerceAdapter builds a WooCommerce adapter from the channel's
// opaque config map
func NewWooCommerceAdapter(config map[string]any, client *httpclient.Client, pageSize int) (*WooCommerce, error) {
	storeURL := strings.TrimRight(cast.ToString(config["store_url"]), "/")
	consumerKey := cast.ToString(config["consumer_key"])
	consumerSecret := cast.ToString(config["consumer_secret"])
	if storeURL == "" || consumerKey == "" || consumerSecret == "" {
		return nil, fmt.Errorf("woocommerce: channel config is missing store_url, consumer_key or consumer_secret")
	}

	currency := cast.ToString(config["currency"])
	if currency == "" {
		currency = "USD"
	}
	if pageSize <= 0 {
		pageSize = base.DefaultPageSize
	}

	return &WooCommerce{
		storeURL:       storeURL,
		consumerKey:    consumerKey,
		consumerSecret: consumerSecret,
		currency:       currency,
		pageSize:       pageSize,
		client:         client,
	}, nil
}

// Platform returns the platform slug
func (w *WooCommerce) Platform() string {
	return "woocommerce"
}

// FetchAllProducts retrieves the full product set via sequential pagination.
// WooCommerce has no separate auth handshake; credentials ride on every
// request, so an invalid key surfaces as a failed first page.
func (w *WooCommerce) FetchAllProducts(ctx context.Context) ([]base.ExternalProduct, error) {
	auth := base64.StdEncoding.EncodeToString([]byte(w.consumerKey + ":" + w.consumerSecret))
	headers := map[string]string{
		"Authorization": "Basic " + auth,
	}

	return base.FetchPaginated(ctx, base.MaxPages, func(ctx context.Context, page int) ([]base.ExternalProduct, int, error) {
		url := fmt.Sprintf("%s/wp-json/wc/v3/products?page=%d&per_page=%d", w.storeURL, page, w.pageSize)

		resp, err := w.client.DoRaw(ctx, http.MethodGet, url, nil, headers)
		if err != nil {
			return nil, 0, err
		}

		var results []json.RawMessage
		if err := json.Unmarshal(resp.Body, &results); err != nil {
			return nil, 0, fmt.Errorf("decoding products page: %w", err)
		}

		total := cast.ToInt(resp.Header.Get("X-WP-Total"))

		records := make([]base.ExternalProduct, 0, len(results))
		for _, raw := range results {
			records = append(records, w.projectProduct(raw))
		}
		return records, total, nil
	})
}

// projectProduct shapes one raw WooCommerce record into an ExternalProduct
func (w *WooCommerce) projectProduct(raw json.RawMessage) base.ExternalProduct {
	fields := make(map[string]any)
	_ = json.Unmarshal(raw, &fields)

	return base.ExternalProduct{
		ExternalID:  base.ExtractString(fields, "id"),
		SKU:         base.ExtractString(fields, "sku"),
		Name:        base.ExtractString(fields, "name"),
		Description: base.ExtractString(fields, "description", "short_description"),
		Price:       base.ExtractPrice(fields, "price", "regular_price"),
		Currency:    w.currency,
		Stock:       base.ExtractInt(fields, "stock_quantity"),
		Status:      base.ExtractString(fields, "status"),
		Raw:         raw,
	}
}
