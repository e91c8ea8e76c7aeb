package sync

import (
	"context"

	"github.com/fluxi/inventory-service/internal/database"
)

// Store is the persistence surface the sync and import steps run against.
// The production implementation delegates to the database package; tests
// substitute an in-memory store.
type Store interface {
	ExistingExternalIDs(ctx context.Context, channelID string) (map[string]bool, error)
	UpsertStagedProduct(ctx context.Context, sp *database.StagedProduct) error
	UpdateChannelStatus(ctx context.Context, channelID, status string, statusText *string) error
	TouchChannelLastSync(ctx context.Context, channelID string) error
	AppendSyncLog(ctx context.Context, entry *database.SyncLogEntry) error

	GetStagedProductsByIDs(ctx context.Context, channelID, accountID string, ids []string) ([]database.StagedProduct, error)
	GetPendingStagedProducts(ctx context.Context, channelID, accountID string) ([]database.StagedProduct, error)
	UpsertProductBySKU(ctx context.Context, p *database.Product) (string, error)
	UpsertChannelProductLink(ctx context.Context, link *database.ChannelProductLink) error
	MarkStagedImported(ctx context.Context, stagingID, productID string) error
	MarkStagedError(ctx context.Context, stagingID, message string) error

	MarkStagedSkipped(ctx context.Context, stagingID, channelID, accountID string) (bool, error)
	DeleteStagedProducts(ctx context.Context, channelID, accountID string, ids []string) (int64, error)
	DeleteSkippedStagedProducts(ctx context.Context, channelID, accountID string) (int64, error)
}

// PGStore implements Store against the shared pgx pool
type PGStore struct{}

// NewPGStore returns the pgx-backed store
func NewPGStore() *PGStore {
	return &PGStore{}
}

func (s *PGStore) ExistingExternalIDs(ctx context.Context, channelID string) (map[string]bool, error) {
	return database.ExistingExternalIDs(ctx, channelID)
}

func (s *PGStore) UpsertStagedProduct(ctx context.Context, sp *database.StagedProduct) error {
	return database.UpsertStagedProduct(ctx, sp)
}

func (s *PGStore) UpdateChannelStatus(ctx context.Context, channelID, status string, statusText *string) error {
	return database.UpdateChannelStatus(ctx, channelID, status, statusText)
}

func (s *PGStore) TouchChannelLastSync(ctx context.Context, channelID string) error {
	return database.TouchChannelLastSync(ctx, channelID)
}

func (s *PGStore) AppendSyncLog(ctx context.Context, entry *database.SyncLogEntry) error {
	return database.AppendSyncLog(ctx, entry)
}

func (s *PGStore) GetStagedProductsByIDs(ctx context.Context, channelID, accountID string, ids []string) ([]database.StagedProduct, error) {
	return database.GetStagedProductsByIDs(ctx, channelID, accountID, ids)
}

func (s *PGStore) GetPendingStagedProducts(ctx context.Context, channelID, accountID string) ([]database.StagedProduct, error) {
	return database.GetPendingStagedProducts(ctx, channelID, accountID)
}

func (s *PGStore) UpsertProductBySKU(ctx context.Context, p *database.Product) (string, error) {
	return database.UpsertProductBySKU(ctx, p)
}

func (s *PGStore) UpsertChannelProductLink(ctx context.Context, link *database.ChannelProductLink) error {
	return database.UpsertChannelProductLink(ctx, link)
}

func (s *PGStore) MarkStagedImported(ctx context.Context, stagingID, productID string) error {
	return database.MarkStagedImported(ctx, stagingID, productID)
}

func (s *PGStore) MarkStagedError(ctx context.Context, stagingID, message string) error {
	return database.MarkStagedError(ctx, stagingID, message)
}

func (s *PGStore) MarkStagedSkipped(ctx context.Context, stagingID, channelID, accountID string) (bool, error) {
	return database.MarkStagedSkipped(ctx, stagingID, channelID, accountID)
}

func (s *PGStore) DeleteStagedProducts(ctx context.Context, channelID, accountID string, ids []string) (int64, error) {
	return database.DeleteStagedProducts(ctx, channelID, accountID, ids)
}

func (s *PGStore) DeleteSkippedStagedProducts(ctx context.Context, channelID, accountID string) (int64, error) {
	return database.DeleteSkippedStagedProducts(ctx, channelID, accountID)
}
