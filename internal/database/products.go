package database

import (
	"context"
	"fmt"
	"time"
)

// ProductFilter contains options for listing catalog products
type ProductFilter struct {
	Search string
	Status string
	Limit  int
	Offset int
}

// UpsertProductBySKU inserts or overwrites a catalog product keyed on
// (account_id, sku), returning the row id. Repeated imports of the same SKU
// update the existing row rather than creating a duplicate.
func UpsertProductBySKU(ctx context.Context, p *Product) (string, error) {
	pool := Pool()

	if p.ID == "" {
		p.ID = NewID("prd")
	}
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.Status == "" {
		p.Status = "active"
	}

	query := `
		INSERT INTO products (
			id, account_id, sku, name, description, price, currency, stock,
			status, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
		)
		ON CONFLICT (account_id, sku) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			price = EXCLUDED.price,
			currency = EXCLUDED.currency,
			stock = EXCLUDED.stock,
			status = EXCLUDED.status,
			updated_at = EXCLUDED.updated_at
		RETURNING id
	`

	var id string
	err := pool.QueryRow(ctx, query,
		p.ID, p.AccountID, p.SKU, p.Name, p.Description, p.Price, p.Currency,
		p.Stock, p.Status, p.CreatedAt, p.UpdatedAt,
	).Scan(&id)
	if err != nil {
		return "", err
	}

	p.ID = id
	return id, nil
}

// GetProduct retrieves a catalog product by id, scoped to an account
func GetProduct(ctx context.Context, productID, accountID string) (*Product, error) {
	pool := Pool()

	row := pool.QueryRow(ctx, `
		SELECT id, account_id, sku, name, description, price, currency, stock,
			status, created_at, updated_at
		FROM products
		WHERE id = $1 AND account_id = $2
	`, productID, accountID)

	var p Product
	err := row.Scan(
		&p.ID, &p.AccountID, &p.SKU, &p.Name, &p.Description, &p.Price,
		&p.Currency, &p.Stock, &p.Status, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &p, nil
}

// ListProducts retrieves catalog products for an account with filtering and
// pagination
func ListProducts(ctx context.Context, accountID string, filter ProductFilter) ([]Product, int, error) {
	pool := Pool()

	where := `WHERE account_id = $1`
	args := []any{accountID}

	if filter.Status != "" {
		args = append(args, filter.Status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		where += fmt.Sprintf(" AND (name ILIKE $%d OR sku ILIKE $%d)", len(args), len(args))
	}

	var total int
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM products `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, filter.Limit, filter.Offset)
	query := fmt.Sprintf(`
		SELECT id, account_id, sku, name, description, price, currency, stock,
			status, created_at, updated_at
		FROM products
		%s
		ORDER BY updated_at DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)-1, len(args))

	rows, err := pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	products := make([]Product, 0)
	for rows.Next() {
		var p Product
		err := rows.Scan(
			&p.ID, &p.AccountID, &p.SKU, &p.Name, &p.Description, &p.Price,
			&p.Currency, &p.Stock, &p.Status, &p.CreatedAt, &p.UpdatedAt,
		)
		if err != nil {
			return nil, 0, err
		}
		products = append(products, p)
	}

	return products, total, rows.Err()
}

// UpdateProduct overwrites a catalog product's mutable fields
func UpdateProduct(ctx context.Context, p *Product) (bool, error) {
	pool := Pool()

	tag, err := pool.Exec(ctx, `
		UPDATE products
		SET name = $3,
		    description = $4,
		    price = $5,
		    currency = $6,
		    stock = $7,
		    status = $8,
		    updated_at = NOW()
		WHERE id = $1 AND account_id = $2
	`, p.ID, p.AccountID, p.Name, p.Description, p.Price, p.Currency, p.Stock, p.Status)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// DeleteProduct removes a catalog product; channel links cascade via
// foreign keys
func DeleteProduct(ctx context.Context, productID, accountID string) (bool, error) {
	pool := Pool()

	tag, err := pool.Exec(ctx, `
		DELETE FROM products
		WHERE id = $1 AND account_id = $2
	`, productID, accountID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// UpsertChannelProductLink ties a catalog product to its channel external id,
// refreshing the per-link sync state. Unique on (channel_id, product_id);
// the (channel_id, external_id) pair is likewise constrained by the schema.
func UpsertChannelProductLink(ctx context.Context, link *ChannelProductLink) error {
	pool := Pool()

	if link.ID == "" {
		link.ID = NewID("cpl")
	}
	now := time.Now()
	link.LastSyncAt = &now
	link.CreatedAt = now
	link.UpdatedAt = now
	if link.SyncStatus == "" {
		link.SyncStatus = "synced"
	}

	query := `
		INSERT INTO channel_products (
			id, channel_id, product_id, external_id, external_sku,
			sync_status, last_sync_at, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		)
		ON CONFLICT (channel_id, product_id) DO UPDATE SET
			external_id = EXCLUDED.external_id,
			external_sku = EXCLUDED.external_sku,
			sync_status = EXCLUDED.sync_status,
			last_sync_at = EXCLUDED.last_sync_at,
			updated_at = EXCLUDED.updated_at
	`

	_, err := pool.Exec(ctx, query,
		link.ID, link.ChannelID, link.ProductID, link.ExternalID,
		link.ExternalSKU, link.SyncStatus, link.LastSyncAt,
		link.CreatedAt, link.UpdatedAt,
	)
	return err
}
