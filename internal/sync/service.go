package sync

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/fluxi/inventory-service/internal/adapters/base"
	"github.com/fluxi/inventory-service/internal/database"
	"github.com/fluxi/inventory-service/internal/metrics"
)

// Sync log event types
const (
	EventProductSync   = "channel_product_sync"
	EventProductImport = "channel_product_import"
)

// DefaultMaxLogErrors bounds the error list recorded in sync logs and
// returned to callers
const DefaultMaxLogErrors = 10

// RecordError captures one per-record failure without aborting the batch
type RecordError struct {
	ExternalID string `json:"external_id,omitempty"`
	SKU        string `json:"sku,omitempty"`
	StagingID  string `json:"staging_id,omitempty"`
	Message    string `json:"message"`
}

// SyncResult summarizes one staging sync run
type SyncResult struct {
	TotalFetched    int           `json:"total_fetched"`
	NewProducts     int           `json:"new_products"`
	UpdatedProducts int           `json:"updated_products"`
	Errors          []RecordError `json:"errors"`
}

// Service runs the channel staging sync and catalog import steps
type Service struct {
	store        Store
	maxLogErrors int
	logger       zerolog.Logger
}

// NewService creates a sync service
func NewService(store Store, logger zerolog.Logger) *Service {
	return &Service{
		store:        store,
		maxLogErrors: DefaultMaxLogErrors,
		logger:       logger,
	}
}

// SetMaxLogErrors overrides the bound on errors recorded per sync log entry
func (s *Service) SetMaxLogErrors(n int) {
	if n > 0 {
		s.maxLogErrors = n
	}
}

// SyncChannel fetches the channel's full external product set and upserts
// each record into staging. A fetch failure aborts the whole sync, marks
// the channel errored and logs it; per-record upsert failures are isolated.
func (s *Service) SyncChannel(ctx context.Context, ch *database.Channel, adapter base.ChannelAdapter) (*SyncResult, error) {
	records, err := adapter.FetchAllProducts(ctx)
	if err != nil {
		s.logger.Error().Err(err).
			Str("channel_id", ch.ID).
			Str("platform", ch.Platform).
			Msg("Channel fetch failed")

		msg := err.Error()
		if dbErr := s.store.UpdateChannelStatus(ctx, ch.ID, "error", &msg); dbErr != nil {
			s.logger.Error().Err(dbErr).Str("channel_id", ch.ID).Msg("Failed to mark channel errored")
		}
		s.appendLog(ctx, ch, EventProductSync, database.SyncLogError, 0, map[string]any{
			"error": msg,
		})
		metrics.SyncRuns.WithLabelValues(ch.Platform, "error").Inc()

		return nil, fmt.Errorf("fetching products from %s: %w", ch.Platform, err)
	}

	// Snapshot of staged ids taken once before the loop; each run is
	// idempotent per external_id, so mid-loop drift is acceptable
	existing, err := s.store.ExistingExternalIDs(ctx, ch.ID)
	if err != nil {
		s.logger.Error().Err(err).Str("channel_id", ch.ID).Msg("Failed to load staged ids")

		msg := err.Error()
		if dbErr := s.store.UpdateChannelStatus(ctx, ch.ID, "error", &msg); dbErr != nil {
			s.logger.Error().Err(dbErr).Str("channel_id", ch.ID).Msg("Failed to mark channel errored")
		}
		s.appendLog(ctx, ch, EventProductSync, database.SyncLogError, 0, map[string]any{
			"error": msg,
		})
		metrics.SyncRuns.WithLabelValues(ch.Platform, "error").Inc()

		return nil, fmt.Errorf("loading staged ids: %w", err)
	}

	result := &SyncResult{
		TotalFetched: len(records),
		Errors:       make([]RecordError, 0),
	}

	for _, rec := range records {
		sp := &database.StagedProduct{
			ChannelID:   ch.ID,
			AccountID:   ch.AccountID,
			ExternalID:  rec.ExternalID,
			ExternalSKU: rec.SKU,
			Name:        rec.Name,
			Description: optional(rec.Description),
			Price:       rec.Price,
			Currency:    rec.Currency,
			Stock:       rec.Stock,
			Status:      rec.Status,
			RawPayload:  rec.Raw,
		}

		if err := s.store.UpsertStagedProduct(ctx, sp); err != nil {
			result.Errors = append(result.Errors, RecordError{
				ExternalID: rec.ExternalID,
				SKU:        rec.SKU,
				Message:    err.Error(),
			})
			continue
		}

		if existing[rec.ExternalID] {
			result.UpdatedProducts++
		} else {
			result.NewProducts++
		}
	}

	status := "connected"
	logStatus := database.SyncLogSuccess
	var statusText *string
	if len(result.Errors) > 0 {
		status = "warning"
		logStatus = database.SyncLogWarning
		text := fmt.Sprintf("%d of %d records failed to stage", len(result.Errors), result.TotalFetched)
		statusText = &text
	}

	if err := s.store.UpdateChannelStatus(ctx, ch.ID, status, statusText); err != nil {
		s.logger.Error().Err(err).Str("channel_id", ch.ID).Msg("Failed to update channel status")
	}
	if err := s.store.TouchChannelLastSync(ctx, ch.ID); err != nil {
		s.logger.Error().Err(err).Str("channel_id", ch.ID).Msg("Failed to refresh last_sync_at")
	}

	s.appendLog(ctx, ch, EventProductSync, logStatus, result.TotalFetched, map[string]any{
		"total_fetched":    result.TotalFetched,
		"new_products":     result.NewProducts,
		"updated_products": result.UpdatedProducts,
		"errors":           boundErrors(result.Errors, s.maxLogErrors),
	})
	metrics.SyncRuns.WithLabelValues(ch.Platform, logStatus).Inc()
	metrics.StagedRecords.Add(float64(result.NewProducts + result.UpdatedProducts))

	s.logger.Info().
		Str("channel_id", ch.ID).
		Str("platform", ch.Platform).
		Int("total", result.TotalFetched).
		Int("new", result.NewProducts).
		Int("updated", result.UpdatedProducts).
		Int("errors", len(result.Errors)).
		Msg("Channel sync complete")

	return result, nil
}

// appendLog writes a sync log entry; log failures are reported but never
// fail the run
func (s *Service) appendLog(ctx context.Context, ch *database.Channel, event, status string, processed int, payload map[string]any) {
	data, err := json.Marshal(payload)
	if err != nil {
		data = []byte(`{}`)
	}

	channelID := ch.ID
	entry := &database.SyncLogEntry{
		AccountID:        ch.AccountID,
		ChannelID:        &channelID,
		EventType:        event,
		Status:           status,
		RecordsProcessed: processed,
		Payload:          data,
	}

	if err := s.store.AppendSyncLog(ctx, entry); err != nil {
		s.logger.Error().Err(err).Str("channel_id", ch.ID).Msg("Failed to append sync log")
	}
}

// boundErrors returns at most max entries
func boundErrors(errs []RecordError, max int) []RecordError {
	if len(errs) <= max {
		return errs
	}
	return errs[:max]
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
