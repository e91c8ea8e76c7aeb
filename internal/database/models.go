package database

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Account represents a tenant; the unit of data isolation across the system
type Account struct {
	ID        string    `json:"id"`   // acc_{uuid}
	Name      string    `json:"name"` // Display name
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Channel represents a configured connection to one external commerce/ERP
// platform (siigo, shopify, woocommerce) for one account
type Channel struct {
	ID         string          `json:"id"`          // ch_{uuid}
	AccountID  string          `json:"account_id"`  // FK to accounts.id
	Platform   string          `json:"platform"`    // 'siigo', 'shopify', 'woocommerce'
	Name       string          `json:"name"`        // Display name
	Config     json.RawMessage `json:"config"`      // Opaque credential/config map (JSONB)
	Status     string          `json:"status"`      // 'connected', 'warning', 'error', 'disconnected'
	StatusText *string         `json:"status_text"` // Upstream error text when status is not connected
	LastSyncAt *time.Time      `json:"last_sync_at"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// Staging row import statuses
const (
	StagingStatusPending  = "pending"
	StagingStatusImported = "imported"
	StagingStatusSkipped  = "skipped"
	StagingStatusError    = "error"
)

// StagedProduct holds the most recently fetched external representation of
// one channel product, pending review/import.
// Unique on (channel_id, external_id); a later sync overwrites the row.
type StagedProduct struct {
	ID                string          `json:"id"`           // sp_{uuid}
	ChannelID         string          `json:"channel_id"`   // FK to channels.id
	AccountID         string          `json:"account_id"`   // FK to accounts.id
	ExternalID        string          `json:"external_id"`  // Channel-assigned id
	ExternalSKU       string          `json:"external_sku"` // Merge key against the catalog
	Name              string          `json:"name"`
	Description       *string         `json:"description"`
	Price             decimal.Decimal `json:"price"`
	Currency          string          `json:"currency"` // 3-letter code
	Stock             int             `json:"stock"`
	Status            string          `json:"status"`     // Upstream free-text status
	RawPayload        json.RawMessage `json:"raw_payload"` // Opaque upstream record
	ImportStatus      string          `json:"import_status"`
	ImportError       *string         `json:"import_error"`
	ImportedProductID *string         `json:"imported_product_id"` // FK to products.id once imported
	SyncedAt          time.Time       `json:"synced_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// Product is a canonical catalog product, unique on (account_id, sku)
type Product struct {
	ID          string          `json:"id"` // prd_{uuid}
	AccountID   string          `json:"account_id"`
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Description *string         `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Currency    string          `json:"currency"`
	Stock       int             `json:"stock"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ChannelProductLink ties a catalog product to the channel external id that
// produced or last updated it.
// Unique on (channel_id, product_id) and on (channel_id, external_id).
type ChannelProductLink struct {
	ID          string     `json:"id"` // cpl_{uuid}
	ChannelID   string     `json:"channel_id"`
	ProductID   string     `json:"product_id"`
	ExternalID  string     `json:"external_id"`
	ExternalSKU string     `json:"external_sku"`
	SyncStatus  string     `json:"sync_status"` // 'synced', 'error'
	LastSyncAt  *time.Time `json:"last_sync_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Sync log statuses
const (
	SyncLogSuccess = "success"
	SyncLogWarning = "warning"
	SyncLogError   = "error"
)

// SyncLogEntry is an append-only audit record of one sync or import attempt
type SyncLogEntry struct {
	ID               string          `json:"id"` // log_{uuid}
	AccountID        string          `json:"account_id"`
	ChannelID        *string         `json:"channel_id"`
	EventType        string          `json:"event_type"` // e.g. 'channel_product_sync', 'channel_product_import'
	Status           string          `json:"status"`     // 'success', 'warning', 'error'
	RecordsProcessed int             `json:"records_processed"`
	Payload          json.RawMessage `json:"payload"` // Summary counts and bounded error list (JSONB)
	CreatedAt        time.Time       `json:"created_at"`
}
