package database

import (
	"context"
	"fmt"
	"time"
)

// StagingFilter contains options for listing staged rows
type StagingFilter struct {
	Status string // Filter by import_status, empty for all
	Search string // Case-insensitive match on name or external_sku
	Limit  int
	Offset int
}

// StagingCounts summarizes a channel's staging table by import status
type StagingCounts struct {
	Pending  int `json:"pending"`
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
	Error    int `json:"error"`
	Total    int `json:"total"`
}

// UpsertStagedProduct inserts or overwrites one staged row keyed on
// (channel_id, external_id), refreshing synced_at. The import status of an
// existing row is reset to pending so a re-synced row gets reviewed again.
func UpsertStagedProduct(ctx context.Context, sp *StagedProduct) error {
	pool := Pool()

	if sp.ID == "" {
		sp.ID = NewID("sp")
	}
	now := time.Now()
	sp.SyncedAt = now
	sp.UpdatedAt = now
	if sp.ImportStatus == "" {
		sp.ImportStatus = StagingStatusPending
	}

	query := `
		INSERT INTO channel_products_staging (
			id, channel_id, account_id, external_id, external_sku, name,
			description, price, currency, stock, status, raw_payload,
			import_status, import_error, imported_product_id, synced_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17
		)
		ON CONFLICT (channel_id, external_id) DO UPDATE SET
			external_sku = EXCLUDED.external_sku,
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			price = EXCLUDED.price,
			currency = EXCLUDED.currency,
			stock = EXCLUDED.stock,
			status = EXCLUDED.status,
			raw_payload = EXCLUDED.raw_payload,
			import_status = 'pending',
			import_error = NULL,
			synced_at = EXCLUDED.synced_at,
			updated_at = EXCLUDED.updated_at
	`

	_, err := pool.Exec(ctx, query,
		sp.ID, sp.ChannelID, sp.AccountID, sp.ExternalID, sp.ExternalSKU,
		sp.Name, sp.Description, sp.Price, sp.Currency, sp.Stock, sp.Status,
		sp.RawPayload, sp.ImportStatus, sp.ImportError, sp.ImportedProductID,
		sp.SyncedAt, sp.UpdatedAt,
	)
	return err
}

// ExistingExternalIDs returns the set of external ids already staged for a
// channel. Loaded once before a sync loop to classify rows as new/updated.
func ExistingExternalIDs(ctx context.Context, channelID string) (map[string]bool, error) {
	pool := Pool()

	rows, err := pool.Query(ctx, `
		SELECT external_id
		FROM channel_products_staging
		WHERE channel_id = $1
	`, channelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids[id] = true
	}

	return ids, rows.Err()
}

// ListStagedProducts retrieves staged rows for a channel with filtering and
// pagination
func ListStagedProducts(ctx context.Context, channelID, accountID string, filter StagingFilter) ([]StagedProduct, int, error) {
	pool := Pool()

	where := `WHERE channel_id = $1 AND account_id = $2`
	args := []any{channelID, accountID}

	if filter.Status != "" {
		args = append(args, filter.Status)
		where += fmt.Sprintf(" AND import_status = $%d", len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		where += fmt.Sprintf(" AND (name ILIKE $%d OR external_sku ILIKE $%d)", len(args), len(args))
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM channel_products_staging ` + where
	if err := pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, filter.Limit, filter.Offset)
	query := fmt.Sprintf(`
		SELECT id, channel_id, account_id, external_id, external_sku, name,
			description, price, currency, stock, status, raw_payload,
			import_status, import_error, imported_product_id, synced_at, updated_at
		FROM channel_products_staging
		%s
		ORDER BY synced_at DESC, external_id
		LIMIT $%d OFFSET $%d
	`, where, len(args)-1, len(args))

	rows, err := pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	products := make([]StagedProduct, 0)
	for rows.Next() {
		var sp StagedProduct
		err := rows.Scan(
			&sp.ID, &sp.ChannelID, &sp.AccountID, &sp.ExternalID, &sp.ExternalSKU,
			&sp.Name, &sp.Description, &sp.Price, &sp.Currency, &sp.Stock,
			&sp.Status, &sp.RawPayload, &sp.ImportStatus, &sp.ImportError,
			&sp.ImportedProductID, &sp.SyncedAt, &sp.UpdatedAt,
		)
		if err != nil {
			return nil, 0, err
		}
		products = append(products, sp)
	}

	return products, total, rows.Err()
}

// GetStagingCounts returns per-status counts for a channel's staging table
func GetStagingCounts(ctx context.Context, channelID, accountID string) (*StagingCounts, error) {
	pool := Pool()

	query := `
		SELECT
			COUNT(*) FILTER (WHERE import_status = 'pending'),
			COUNT(*) FILTER (WHERE import_status = 'imported'),
			COUNT(*) FILTER (WHERE import_status = 'skipped'),
			COUNT(*) FILTER (WHERE import_status = 'error'),
			COUNT(*)
		FROM channel_products_staging
		WHERE channel_id = $1 AND account_id = $2
	`

	var counts StagingCounts
	err := pool.QueryRow(ctx, query, channelID, accountID).Scan(
		&counts.Pending, &counts.Imported, &counts.Skipped, &counts.Error, &counts.Total,
	)
	if err != nil {
		return nil, err
	}

	return &counts, nil
}

// GetStagedProductsByIDs retrieves specific staged rows scoped to one
// channel and account
func GetStagedProductsByIDs(ctx context.Context, channelID, accountID string, ids []string) ([]StagedProduct, error) {
	pool := Pool()

	rows, err := pool.Query(ctx, `
		SELECT id, channel_id, account_id, external_id, external_sku, name,
			description, price, currency, stock, status, raw_payload,
			import_status, import_error, imported_product_id, synced_at, updated_at
		FROM channel_products_staging
		WHERE channel_id = $1 AND account_id = $2 AND id = ANY($3)
		ORDER BY synced_at DESC
	`, channelID, accountID, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanStagedProducts(rows)
}

// GetPendingStagedProducts retrieves all rows with status pending for a
// channel, in sync order
func GetPendingStagedProducts(ctx context.Context, channelID, accountID string) ([]StagedProduct, error) {
	pool := Pool()

	rows, err := pool.Query(ctx, `
		SELECT id, channel_id, account_id, external_id, external_sku, name,
			description, price, currency, stock, status, raw_payload,
			import_status, import_error, imported_product_id, synced_at, updated_at
		FROM channel_products_staging
		WHERE channel_id = $1 AND account_id = $2 AND import_status = 'pending'
		ORDER BY synced_at DESC, external_id
	`, channelID, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanStagedProducts(rows)
}

type stagedRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanStagedProducts(rows stagedRows) ([]StagedProduct, error) {
	products := make([]StagedProduct, 0)
	for rows.Next() {
		var sp StagedProduct
		err := rows.Scan(
			&sp.ID, &sp.ChannelID, &sp.AccountID, &sp.ExternalID, &sp.ExternalSKU,
			&sp.Name, &sp.Description, &sp.Price, &sp.Currency, &sp.Stock,
			&sp.Status, &sp.RawPayload, &sp.ImportStatus, &sp.ImportError,
			&sp.ImportedProductID, &sp.SyncedAt, &sp.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		products = append(products, sp)
	}
	return products, rows.Err()
}

// MarkStagedImported transitions one staged row to imported with a reference
// to the catalog product it produced
func MarkStagedImported(ctx context.Context, stagingID, productID string) error {
	pool := Pool()

	_, err := pool.Exec(ctx, `
		UPDATE channel_products_staging
		SET import_status = 'imported',
		    import_error = NULL,
		    imported_product_id = $2,
		    updated_at = NOW()
		WHERE id = $1
	`, stagingID, productID)
	return err
}

// MarkStagedError transitions one staged row to error, recording the message
func MarkStagedError(ctx context.Context, stagingID, message string) error {
	pool := Pool()

	_, err := pool.Exec(ctx, `
		UPDATE channel_products_staging
		SET import_status = 'error',
		    import_error = $2,
		    updated_at = NOW()
		WHERE id = $1
	`, stagingID, message)
	return err
}

// MarkStagedSkipped transitions one staged row to skipped so subsequent
// import-all calls leave it out
func MarkStagedSkipped(ctx context.Context, stagingID, channelID, accountID string) (bool, error) {
	pool := Pool()

	tag, err := pool.Exec(ctx, `
		UPDATE channel_products_staging
		SET import_status = 'skipped',
		    updated_at = NOW()
		WHERE id = $1 AND channel_id = $2 AND account_id = $3
	`, stagingID, channelID, accountID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// DeleteStagedProducts deletes an explicit id list for a channel/account pair
func DeleteStagedProducts(ctx context.Context, channelID, accountID string, ids []string) (int64, error) {
	pool := Pool()

	tag, err := pool.Exec(ctx, `
		DELETE FROM channel_products_staging
		WHERE channel_id = $1 AND account_id = $2 AND id = ANY($3)
	`, channelID, accountID, ids)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// DeleteSkippedStagedProducts deletes all rows previously marked skipped for
// a channel/account pair, leaving other statuses untouched
func DeleteSkippedStagedProducts(ctx context.Context, channelID, accountID string) (int64, error) {
	pool := Pool()

	tag, err := pool.Exec(ctx, `
		DELETE FROM channel_products_staging
		WHERE channel_id = $1 AND account_id = $2 AND import_status = 'skipped'
	`, channelID, accountID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
