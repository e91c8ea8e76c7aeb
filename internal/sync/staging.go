package sync

import (
	"context"
	"fmt"

	"github.com/fluxi/inventory-service/internal/database"
)

// DeleteSelection picks which staged rows to remove: an explicit id list,
// or every row currently marked skipped
type DeleteSelection struct {
	StagingProductIDs []string
	DeleteAllSkipped  bool
}

// SkipStagedProduct marks one staged row skipped so it is excluded from
// subsequent import-all calls. Returns false when no row matches the
// (id, channel, account) scope.
func (s *Service) SkipStagedProduct(ctx context.Context, ch *database.Channel, stagingID string) (bool, error) {
	skipped, err := s.store.MarkStagedSkipped(ctx, stagingID, ch.ID, ch.AccountID)
	if err != nil {
		return false, fmt.Errorf("skipping staged row: %w", err)
	}
	if skipped {
		s.logger.Info().
			Str("channel_id", ch.ID).
			Str("staging_id", stagingID).
			Msg("Staged row skipped")
	}
	return skipped, nil
}

// DeleteStagedProducts removes staged rows from the channel's staging
// table, either by explicit id list or every skipped row, and returns the
// number of rows removed.
func (s *Service) DeleteStagedProducts(ctx context.Context, ch *database.Channel, sel DeleteSelection) (int64, error) {
	var deleted int64
	var err error
	if sel.DeleteAllSkipped {
		deleted, err = s.store.DeleteSkippedStagedProducts(ctx, ch.ID, ch.AccountID)
	} else {
		deleted, err = s.store.DeleteStagedProducts(ctx, ch.ID, ch.AccountID, sel.StagingProductIDs)
	}
	if err != nil {
		return 0, fmt.Errorf("deleting staged rows: %w", err)
	}

	s.logger.Info().
		Str("channel_id", ch.ID).
		Int64("deleted", deleted).
		Bool("all_skipped", sel.DeleteAllSkipped).
		Msg("Staged rows deleted")
	return deleted, nil
}
