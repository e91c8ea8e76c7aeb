package sync

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fluxi/inventory-service/internal/adapters/base"
	"github.com/fluxi/inventory-service/internal/database"
)

// stageRows seeds the store via a sync run so rows carry real ids
func stageRows(t *testing.T, svc *Service, ch *database.Channel, records ...base.ExternalProduct) {
	t.Helper()
	_, err := svc.SyncChannel(context.Background(), ch, &stubAdapter{records: records})
	require.NoError(t, err)
}

func TestImportAllPendingWithOneMissingSKU(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	ch := testChannel()
	stageRows(t, svc, ch,
		external("A", "SKU-A", "Product A"),
		external("B", "", "No SKU product"),
		external("C", "SKU-C", "Product C"),
	)

	result, err := svc.ImportToInventory(context.Background(), ch, ImportSelection{ImportAll: true})
	require.NoError(t, err)

	assert.Equal(t, 2, result.ImportedCount)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "B", result.Errors[0].ExternalID)
	assert.Contains(t, result.Errors[0].Message, "no SKU")

	byExternal := func(id string) *database.StagedProduct {
		return store.findStaged(ch.ID, id)
	}
	assert.Equal(t, database.StagingStatusImported, byExternal("A").ImportStatus)
	assert.Equal(t, database.StagingStatusError, byExternal("B").ImportStatus)
	require.NotNil(t, byExternal("B").ImportError)
	assert.Equal(t, database.StagingStatusImported, byExternal("C").ImportStatus)

	require.Len(t, store.catalog, 2)
	assert.Len(t, store.links, 2)

	// Last log entry is the import audit record
	last := store.logs[len(store.logs)-1]
	assert.Equal(t, EventProductImport, last.EventType)
	assert.Equal(t, database.SyncLogWarning, last.Status)
	assert.Equal(t, 3, last.RecordsProcessed)
}

func TestImportBySelectedIDs(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	ch := testChannel()
	stageRows(t, svc, ch,
		external("A", "SKU-A", "Product A"),
		external("B", "SKU-B", "Product B"),
	)

	target := store.findStaged(ch.ID, "A")
	require.NotNil(t, target)

	result, err := svc.ImportToInventory(context.Background(), ch, ImportSelection{
		StagingProductIDs: []string{target.ID},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.ImportedCount)
	assert.Equal(t, database.StagingStatusImported, store.findStaged(ch.ID, "A").ImportStatus)
	assert.Equal(t, database.StagingStatusPending, store.findStaged(ch.ID, "B").ImportStatus)
}

func TestImportAllSkipsSkippedRows(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	ch := testChannel()
	stageRows(t, svc, ch,
		external("A", "SKU-A", "Product A"),
		external("B", "SKU-B", "Product B"),
	)

	skipped, err := svc.SkipStagedProduct(context.Background(), ch, store.findStaged(ch.ID, "B").ID)
	require.NoError(t, err)
	require.True(t, skipped)

	result, err := svc.ImportToInventory(context.Background(), ch, ImportSelection{ImportAll: true})
	require.NoError(t, err)

	assert.Equal(t, 1, result.ImportedCount)
	assert.Empty(t, result.Errors)
	assert.Equal(t, database.StagingStatusSkipped, store.findStaged(ch.ID, "B").ImportStatus)
	require.Len(t, store.catalog, 1)
	assert.Equal(t, "SKU-A", store.catalog[0].SKU)
}

func TestReimportUpdatesExistingCatalogRow(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	ch := testChannel()

	stageRows(t, svc, ch, external("A", "SKU-A", "Product A"))
	_, err := svc.ImportToInventory(context.Background(), ch, ImportSelection{ImportAll: true})
	require.NoError(t, err)
	require.Len(t, store.catalog, 1)
	firstID := store.catalog[0].ID

	// Re-sync with a changed name and import again: same catalog row
	stageRows(t, svc, ch, external("A", "SKU-A", "Product A renamed"))
	result, err := svc.ImportToInventory(context.Background(), ch, ImportSelection{ImportAll: true})
	require.NoError(t, err)

	assert.Equal(t, 1, result.ImportedCount)
	require.Len(t, store.catalog, 1)
	assert.Equal(t, firstID, store.catalog[0].ID)
	assert.Equal(t, "Product A renamed", store.catalog[0].Name)
}

func TestImportCatalogFailureMarksRowErrored(t *testing.T) {
	store := newMemStore()
	store.failSKUs["SKU-B"] = true
	svc := newTestService(store)
	ch := testChannel()
	stageRows(t, svc, ch,
		external("A", "SKU-A", "Product A"),
		external("B", "SKU-B", "Product B"),
	)

	result, err := svc.ImportToInventory(context.Background(), ch, ImportSelection{ImportAll: true})
	require.NoError(t, err)

	assert.Equal(t, 1, result.ImportedCount)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, database.StagingStatusError, store.findStaged(ch.ID, "B").ImportStatus)
}

func TestCatalogStatusMapping(t *testing.T) {
	tests := []struct {
		upstream string
		expected string
	}{
		{"active", "active"},
		{"publish", "active"},
		{"published", "active"},
		{"", "active"},
		{"draft", "inactive"},
		{"archived", "inactive"},
	}

	for _, tt := range tests {
		t.Run(tt.upstream, func(t *testing.T) {
			assert.Equal(t, tt.expected, catalogStatus(tt.upstream))
		})
	}
}
