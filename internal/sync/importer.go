package sync

import (
	"context"
	"fmt"

	"github.com/fluxi/inventory-service/internal/database"
	"github.com/fluxi/inventory-service/internal/metrics"
)

// ImportSelection picks which staged rows to promote: an explicit id list,
// or every pending row for the channel
type ImportSelection struct {
	StagingProductIDs []string
	ImportAll         bool
}

// ImportResult summarizes one import run
type ImportResult struct {
	ImportedCount int           `json:"imported_count"`
	Errors        []RecordError `json:"errors"`
}

// ImportToInventory promotes the selected staged rows into the canonical
// catalog. Each row is upserted by (account_id, sku); a per-row failure
// marks that row errored and continues with the rest. Re-running on an
// already-imported row re-upserts the same catalog row and is safe.
func (s *Service) ImportToInventory(ctx context.Context, ch *database.Channel, sel ImportSelection) (*ImportResult, error) {
	var rows []database.StagedProduct
	var err error
	if sel.ImportAll {
		rows, err = s.store.GetPendingStagedProducts(ctx, ch.ID, ch.AccountID)
	} else {
		rows, err = s.store.GetStagedProductsByIDs(ctx, ch.ID, ch.AccountID, sel.StagingProductIDs)
	}
	if err != nil {
		return nil, fmt.Errorf("selecting staged rows: %w", err)
	}

	result := &ImportResult{
		Errors: make([]RecordError, 0),
	}

	for i := range rows {
		row := &rows[i]

		if err := s.importRow(ctx, ch, row); err != nil {
			result.Errors = append(result.Errors, RecordError{
				ExternalID: row.ExternalID,
				SKU:        row.ExternalSKU,
				StagingID:  row.ID,
				Message:    err.Error(),
			})
			if markErr := s.store.MarkStagedError(ctx, row.ID, err.Error()); markErr != nil {
				s.logger.Error().Err(markErr).Str("staging_id", row.ID).Msg("Failed to mark staged row errored")
			}
			continue
		}

		result.ImportedCount++
	}

	logStatus := database.SyncLogSuccess
	if len(result.Errors) > 0 {
		logStatus = database.SyncLogWarning
	}
	s.appendLog(ctx, ch, EventProductImport, logStatus, len(rows), map[string]any{
		"imported_count": result.ImportedCount,
		"errors":         boundErrors(result.Errors, s.maxLogErrors),
	})
	metrics.ImportRuns.WithLabelValues(ch.Platform, logStatus).Inc()
	metrics.ImportedProducts.Add(float64(result.ImportedCount))

	s.logger.Info().
		Str("channel_id", ch.ID).
		Int("selected", len(rows)).
		Int("imported", result.ImportedCount).
		Int("errors", len(result.Errors)).
		Msg("Import to inventory complete")

	return result, nil
}

// importRow merges one staged row into the catalog and links it back to the
// channel
func (s *Service) importRow(ctx context.Context, ch *database.Channel, row *database.StagedProduct) error {
	if row.ExternalSKU == "" {
		return fmt.Errorf("staged product %s has no SKU to merge on", row.ExternalID)
	}

	product := &database.Product{
		AccountID:   ch.AccountID,
		SKU:         row.ExternalSKU,
		Name:        row.Name,
		Description: row.Description,
		Price:       row.Price,
		Currency:    row.Currency,
		Stock:       row.Stock,
		Status:      catalogStatus(row.Status),
	}

	productID, err := s.store.UpsertProductBySKU(ctx, product)
	if err != nil {
		return fmt.Errorf("upserting catalog product: %w", err)
	}

	link := &database.ChannelProductLink{
		ChannelID:   ch.ID,
		ProductID:   productID,
		ExternalID:  row.ExternalID,
		ExternalSKU: row.ExternalSKU,
		SyncStatus:  "synced",
	}
	if err := s.store.UpsertChannelProductLink(ctx, link); err != nil {
		return fmt.Errorf("linking product to channel: %w", err)
	}

	if err := s.store.MarkStagedImported(ctx, row.ID, productID); err != nil {
		return fmt.Errorf("marking staged row imported: %w", err)
	}

	return nil
}

// catalogStatus maps a channel's free-text product status onto the
// catalog's active/inactive vocabulary
func catalogStatus(upstream string) string {
	switch upstream {
	case "active", "publish", "published", "":
		return "active"
	default:
		return "inactive"
	}
}
