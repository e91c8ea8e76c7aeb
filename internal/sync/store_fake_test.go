package sync

import (
	"context"
	"fmt"

	"github.com/fluxi/inventory-service/internal/database"
)

// memStore is an in-memory Store for exercising the sync and import steps
// without a database. Upsert semantics mirror the SQL layer: staged rows are
// keyed on (channel_id, external_id), catalog rows on (account_id, sku).
type memStore struct {
	seq     int
	staged  []*database.StagedProduct
	catalog []*database.Product
	links   map[string]*database.ChannelProductLink
	logs    []*database.SyncLogEntry

	channelStatus     string
	channelStatusText *string
	lastSyncTouched   int

	failStageIDs map[string]bool // external_ids whose staging upsert fails
	failSKUs     map[string]bool // skus whose catalog upsert fails
	failSnapshot error           // returned by ExistingExternalIDs when set
}

func newMemStore() *memStore {
	return &memStore{
		links:        make(map[string]*database.ChannelProductLink),
		failStageIDs: make(map[string]bool),
		failSKUs:     make(map[string]bool),
	}
}

func (m *memStore) nextID(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s_%d", prefix, m.seq)
}

func (m *memStore) findStaged(channelID, externalID string) *database.StagedProduct {
	for _, sp := range m.staged {
		if sp.ChannelID == channelID && sp.ExternalID == externalID {
			return sp
		}
	}
	return nil
}

func (m *memStore) stagedByID(id string) *database.StagedProduct {
	for _, sp := range m.staged {
		if sp.ID == id {
			return sp
		}
	}
	return nil
}

func (m *memStore) ExistingExternalIDs(ctx context.Context, channelID string) (map[string]bool, error) {
	if m.failSnapshot != nil {
		return nil, m.failSnapshot
	}
	ids := make(map[string]bool)
	for _, sp := range m.staged {
		if sp.ChannelID == channelID {
			ids[sp.ExternalID] = true
		}
	}
	return ids, nil
}

func (m *memStore) UpsertStagedProduct(ctx context.Context, sp *database.StagedProduct) error {
	if m.failStageIDs[sp.ExternalID] {
		return fmt.Errorf("staging upsert failed for %s", sp.ExternalID)
	}

	if existing := m.findStaged(sp.ChannelID, sp.ExternalID); existing != nil {
		id := existing.ID
		*existing = *sp
		existing.ID = id
		existing.ImportStatus = database.StagingStatusPending
		existing.ImportError = nil
		return nil
	}

	row := *sp
	row.ID = m.nextID("sp")
	row.ImportStatus = database.StagingStatusPending
	m.staged = append(m.staged, &row)
	return nil
}

func (m *memStore) UpdateChannelStatus(ctx context.Context, channelID, status string, statusText *string) error {
	m.channelStatus = status
	m.channelStatusText = statusText
	return nil
}

func (m *memStore) TouchChannelLastSync(ctx context.Context, channelID string) error {
	m.lastSyncTouched++
	return nil
}

func (m *memStore) AppendSyncLog(ctx context.Context, entry *database.SyncLogEntry) error {
	m.logs = append(m.logs, entry)
	return nil
}

func (m *memStore) GetStagedProductsByIDs(ctx context.Context, channelID, accountID string, ids []string) ([]database.StagedProduct, error) {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var rows []database.StagedProduct
	for _, sp := range m.staged {
		if sp.ChannelID == channelID && sp.AccountID == accountID && want[sp.ID] {
			rows = append(rows, *sp)
		}
	}
	return rows, nil
}

func (m *memStore) GetPendingStagedProducts(ctx context.Context, channelID, accountID string) ([]database.StagedProduct, error) {
	var rows []database.StagedProduct
	for _, sp := range m.staged {
		if sp.ChannelID == channelID && sp.AccountID == accountID && sp.ImportStatus == database.StagingStatusPending {
			rows = append(rows, *sp)
		}
	}
	return rows, nil
}

func (m *memStore) UpsertProductBySKU(ctx context.Context, p *database.Product) (string, error) {
	if m.failSKUs[p.SKU] {
		return "", fmt.Errorf("catalog upsert failed for sku %s", p.SKU)
	}

	for _, existing := range m.catalog {
		if existing.AccountID == p.AccountID && existing.SKU == p.SKU {
			id := existing.ID
			*existing = *p
			existing.ID = id
			return id, nil
		}
	}

	row := *p
	row.ID = m.nextID("prd")
	m.catalog = append(m.catalog, &row)
	return row.ID, nil
}

func (m *memStore) UpsertChannelProductLink(ctx context.Context, link *database.ChannelProductLink) error {
	key := link.ChannelID + "/" + link.ProductID
	m.links[key] = link
	return nil
}

func (m *memStore) MarkStagedImported(ctx context.Context, stagingID, productID string) error {
	sp := m.stagedByID(stagingID)
	if sp == nil {
		return fmt.Errorf("staged row %s not found", stagingID)
	}
	sp.ImportStatus = database.StagingStatusImported
	sp.ImportedProductID = &productID
	sp.ImportError = nil
	return nil
}

func (m *memStore) MarkStagedError(ctx context.Context, stagingID, message string) error {
	sp := m.stagedByID(stagingID)
	if sp == nil {
		return fmt.Errorf("staged row %s not found", stagingID)
	}
	sp.ImportStatus = database.StagingStatusError
	sp.ImportError = &message
	return nil
}

func (m *memStore) MarkStagedSkipped(ctx context.Context, stagingID, channelID, accountID string) (bool, error) {
	sp := m.stagedByID(stagingID)
	if sp == nil || sp.ChannelID != channelID || sp.AccountID != accountID {
		return false, nil
	}
	sp.ImportStatus = database.StagingStatusSkipped
	return true, nil
}

func (m *memStore) deleteWhere(keep func(*database.StagedProduct) bool) int64 {
	var kept []*database.StagedProduct
	var deleted int64
	for _, sp := range m.staged {
		if keep(sp) {
			kept = append(kept, sp)
		} else {
			deleted++
		}
	}
	m.staged = kept
	return deleted
}

func (m *memStore) DeleteStagedProducts(ctx context.Context, channelID, accountID string, ids []string) (int64, error) {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	return m.deleteWhere(func(sp *database.StagedProduct) bool {
		return !(sp.ChannelID == channelID && sp.AccountID == accountID && want[sp.ID])
	}), nil
}

func (m *memStore) DeleteSkippedStagedProducts(ctx context.Context, channelID, accountID string) (int64, error) {
	return m.deleteWhere(func(sp *database.StagedProduct) bool {
		return !(sp.ChannelID == channelID && sp.AccountID == accountID && sp.ImportStatus == database.StagingStatusSkipped)
	}), nil
}
