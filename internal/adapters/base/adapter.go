package base

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// MaxPages is the hard safety cap on pagination, guarding against a
// misbehaving upstream that never reports a decreasing remaining count
const MaxPages = 60

// DefaultPageSize is the page size requested from upstream APIs when the
// caller does not specify one
const DefaultPageSize = 100

// ExternalProduct is one externally-shaped product record as fetched from a
// channel's API
type ExternalProduct struct {
	ExternalID  string
	SKU         string
	Name        string
	Description string
	Price       decimal.Decimal
	Currency    string
	Stock       int
	Status      string
	Raw         json.RawMessage
}

// ChannelAdapter is the contract every channel platform implements:
// authenticate against the platform with channel-stored credentials and
// retrieve the complete product set via sequential pagination.
type ChannelAdapter interface {
	Platform() string
	FetchAllProducts(ctx context.Context) ([]ExternalProduct, error)
}

// PageFunc fetches one page (1-based), returning the page's records and the
// upstream-reported total record count
type PageFunc func(ctx context.Context, page int) (records []ExternalProduct, total int, err error)

// FetchPaginated drives a sequential pagination loop. It terminates when the
// accumulated record count reaches the reported total, when the upstream
// returns an empty page, or when maxPages is hit, whichever comes first.
// Any page error aborts the whole fetch with no partial retry.
func FetchPaginated(ctx context.Context, maxPages int, fetch PageFunc) ([]ExternalProduct, error) {
	if maxPages <= 0 {
		maxPages = MaxPages
	}

	all := make([]ExternalProduct, 0)
	for page := 1; page <= maxPages; page++ {
		records, total, err := fetch(ctx, page)
		if err != nil {
			return nil, fmt.Errorf("fetching page %d: %w", page, err)
		}

		all = append(all, records...)

		if len(records) == 0 || len(all) >= total {
			break
		}
	}

	return all, nil
}
