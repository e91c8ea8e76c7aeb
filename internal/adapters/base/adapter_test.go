package base

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func page(ids ...string) []ExternalProduct {
	records := make([]ExternalProduct, 0, len(ids))
	for _, id := range ids {
		records = append(records, ExternalProduct{ExternalID: id})
	}
	return records
}

func TestFetchPaginatedStopsAtTotal(t *testing.T) {
	pages := map[int][]ExternalProduct{
		1: page("a", "b"),
		2: page("c"),
	}

	var calls int
	records, err := FetchPaginated(context.Background(), 0, func(ctx context.Context, p int) ([]ExternalProduct, int, error) {
		calls++
		return pages[p], 3, nil
	})

	require.NoError(t, err)
	assert.Len(t, records, 3)
	assert.Equal(t, 2, calls)
}

func TestFetchPaginatedStopsOnEmptyPage(t *testing.T) {
	var calls int
	records, err := FetchPaginated(context.Background(), 0, func(ctx context.Context, p int) ([]ExternalProduct, int, error) {
		calls++
		if p == 1 {
			return page("a"), 100, nil
		}
		return nil, 100, nil
	})

	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, 2, calls)
}

func TestFetchPaginatedHonorsPageCap(t *testing.T) {
	// Upstream always reports more remaining than it returns. The page cap
	// is the only thing stopping the loop.
	var calls int
	records, err := FetchPaginated(context.Background(), 5, func(ctx context.Context, p int) ([]ExternalProduct, int, error) {
		calls++
		return page(fmt.Sprintf("p%d", p)), 1000000, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 5, calls)
	assert.Len(t, records, 5)
}

func TestFetchPaginatedAbortsOnPageError(t *testing.T) {
	records, err := FetchPaginated(context.Background(), 0, func(ctx context.Context, p int) ([]ExternalProduct, int, error) {
		if p == 2 {
			return nil, 0, fmt.Errorf("upstream went away")
		}
		return page("a"), 5, nil
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetching page 2")
	assert.Nil(t, records)
}
