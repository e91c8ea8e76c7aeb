package channels

import (
	"context"
	"encoding/json"
	"fmt"

	goshopify "github.com/bold-commerce/go-shopify/v4"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"

	"github.com/fluxi/inventory-service/internal/adapters/base"
)

// Shopify is the channel adapter for the Shopify Admin API, backed by the
// go-shopify client. The channel config carries the shop domain and a
// private-app access token.
type Shopify struct {
	shopURL  string
	pageSize int
	client   *goshopify.Client
}

// NewShopifyAdapter builds a Shopify adapter from the channel's opaque
// config map
func NewShopifyAdapter(config map[string]any, pageSize int) (*Shopify, error) {
	shopURL := cast.ToString(config["shop_url"])
	accessToken := cast.ToString(config["access_token"])
	if shopURL == "" || accessToken == "" {
		return nil, fmt.Errorf("shopify: channel config is missing shop_url or access_token")
	}

	app := goshopify.App{
		ApiKey:    cast.ToString(config["api_key"]),
		ApiSecret: cast.ToString(config["api_secret"]),
	}

	client, err := goshopify.NewClient(app, shopURL, accessToken)
	if err != nil {
		return nil, fmt.Errorf("shopify: creating client: %w", err)
	}

	if pageSize <= 0 {
		pageSize = base.DefaultPageSize
	}

	return &Shopify{
		shopURL:  shopURL,
		pageSize: pageSize,
		client:   client,
	}, nil
}

// Platform returns the platform slug
func (s *Shopify) Platform() string {
	return "shopify"
}

// FetchAllProducts verifies the credentials against the shop resource, then
// walks the product list with cursor pagination. The page-count safety cap
// applies the same way as for page-numbered channels.
func (s *Shopify) FetchAllProducts(ctx context.Context) ([]base.ExternalProduct, error) {
	// Shop lookup doubles as the authentication check; a bad token fails
	// here before any product page is requested
	shop, err := s.client.Shop.Get(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("shopify auth: %w", err)
	}
	currency := shop.Currency
	if currency == "" {
		currency = "USD"
	}

	all := make([]base.ExternalProduct, 0)

	options := any(&goshopify.ListOptions{Limit: s.pageSize})
	for page := 1; page <= base.MaxPages; page++ {
		products, pagination, err := s.client.Product.ListWithPagination(ctx, options)
		if err != nil {
			return nil, fmt.Errorf("fetching page %d: %w", page, err)
		}

		for i := range products {
			all = append(all, projectShopifyProduct(&products[i], currency))
		}

		if pagination == nil || pagination.NextPageOptions == nil || len(products) == 0 {
			break
		}
		options = pagination.NextPageOptions
	}

	return all, nil
}

// projectShopifyProduct shapes one Shopify product into an ExternalProduct.
// SKU, price, and stock come from the first variant; multi-variant detail
// stays available in the raw payload.
func projectShopifyProduct(p *goshopify.Product, currency string) base.ExternalProduct {
	var sku string
	price := decimal.Zero
	stock := 0
	if len(p.Variants) > 0 {
		v := p.Variants[0]
		sku = v.Sku
		if v.Price != nil {
			price = *v.Price
		}
		stock = v.InventoryQuantity
	}

	raw, _ := json.Marshal(p)

	return base.ExternalProduct{
		ExternalID:  fmt.Sprintf("%d", p.Id),
		SKU:         sku,
		Name:        p.Title,
		Description: p.BodyHTML,
		Price:       price,
		Currency:    currency,
		Stock:       stock,
		Status:      string(p.Status),
		Raw:         raw,
	}
}
