package channels

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"

	"github.com/fluxi/inventory-service/internal/adapters/base"
	httpclient "github.com/fluxi/inventory-service/internal/http"
)

const defaultSiigoAPIURL = "https://api.siigo.com"

// Siigo is the channel adapter for the Siigo ERP API. Authentication
// exchanges the channel's username/access key for a bearer token; products
// are fetched page by page from /v1/products.
type Siigo struct {
	apiURL    string
	username  string
	accessKey string
	partnerID string
	pageSize  int
	client    *httpclient.Client

	token string
}

// NewSiigoAdapter builds a Siigo adapter from the channel's opaque config map
func NewSiigoAdapter(config map[string]any, client *httpclient.Client, pageSize int) (*Siigo, error) {
	username := cast.ToString(config["username"])
	accessKey := cast.ToString(config["access_key"])
	if username == "" || accessKey == "" {
		return nil, fmt.Errorf("siigo: channel config is missing username or access_key")
	}

	apiURL := cast.ToString(config["api_url"])
	if apiURL == "" {
		apiURL = defaultSiigoAPIURL
	}
	partnerID := cast.ToString(config["partner_id"])
	if partnerID == "" {
		partnerID = "fluxi"
	}
	if pageSize <= 0 {
		pageSize = base.DefaultPageSize
	}

	return &Siigo{
		apiURL:    apiURL,
		username:  username,
		accessKey: accessKey,
		partnerID: partnerID,
		pageSize:  pageSize,
		client:    client,
	}, nil
}

// Platform returns the platform slug
func (s *Siigo) Platform() string {
	return "siigo"
}

// authenticate exchanges the channel credentials for an access token
func (s *Siigo) authenticate(ctx context.Context) error {
	payload := map[string]string{
		"username":   s.username,
		"access_key": s.accessKey,
	}

	var resp struct {
		AccessToken string `json:"access_token"`
	}
	if err := s.client.PostJSON(ctx, s.apiURL+"/auth", payload, map[string]string{
		"Partner-Id": s.partnerID,
	}, &resp); err != nil {
		return fmt.Errorf("siigo auth: %w", err)
	}
	if resp.AccessToken == "" {
		return fmt.Errorf("siigo auth: empty access token in response")
	}

	s.token = resp.AccessToken
	return nil
}

type siigoProductsPage struct {
	Pagination struct {
		Page         int `json:"page"`
		PageSize     int `json:"page_size"`
		TotalResults int `json:"total_results"`
	} `json:"pagination"`
	Results []json.RawMessage `json:"results"`
}

// FetchAllProducts authenticates and retrieves the full product set via
// sequential pagination
func (s *Siigo) FetchAllProducts(ctx context.Context) ([]base.ExternalProduct, error) {
	if err := s.authenticate(ctx); err != nil {
		return nil, err
	}

	return base.FetchPaginated(ctx, base.MaxPages, func(ctx context.Context, page int) ([]base.ExternalProduct, int, error) {
		url := fmt.Sprintf("%s/v1/products?page=%d&page_size=%d", s.apiURL, page, s.pageSize)

		var resp siigoProductsPage
		if err := s.client.GetJSON(ctx, url, map[string]string{
			"Authorization": "Bearer " + s.token,
			"Partner-Id":    s.partnerID,
		}, &resp); err != nil {
			return nil, 0, err
		}

		records := make([]base.ExternalProduct, 0, len(resp.Results))
		for _, raw := range resp.Results {
			records = append(records, projectSiigoProduct(raw))
		}
		return records, resp.Pagination.TotalResults, nil
	})
}

// projectSiigoProduct shapes one raw Siigo record into an ExternalProduct.
// Missing fields default to zero/empty rather than failing the record.
func projectSiigoProduct(raw json.RawMessage) base.ExternalProduct {
	fields := make(map[string]any)
	_ = json.Unmarshal(raw, &fields)

	status := "inactive"
	if cast.ToBool(fields["active"]) {
		status = "active"
	}

	price, currency := siigoPrice(fields)

	return base.ExternalProduct{
		ExternalID:  base.ExtractString(fields, "id"),
		SKU:         base.ExtractString(fields, "code", "reference"),
		Name:        base.ExtractString(fields, "name"),
		Description: base.ExtractString(fields, "description"),
		Price:       price,
		Currency:    currency,
		Stock:       base.ExtractInt(fields, "available_quantity", "stock_control_quantity"),
		Status:      status,
		Raw:         raw,
	}
}

// siigoPrice walks the nested prices[].price_list[] structure Siigo returns,
// taking the first listed value
func siigoPrice(fields map[string]any) (decimal.Decimal, string) {
	prices, ok := fields["prices"].([]any)
	if !ok || len(prices) == 0 {
		return decimal.Zero, "COP"
	}

	entry, ok := prices[0].(map[string]any)
	if !ok {
		return decimal.Zero, "COP"
	}

	currency := base.ExtractCurrency(entry, "COP", "currency_code")

	list, ok := entry["price_list"].([]any)
	if !ok || len(list) == 0 {
		return decimal.Zero, currency
	}
	item, ok := list[0].(map[string]any)
	if !ok {
		return decimal.Zero, currency
	}

	return base.ExtractPrice(item, "value"), currency
}
