package database

import (
	"context"
	"time"
)

// AppendSyncLog writes one immutable audit record for a sync or import
// attempt. Entries are never updated or deleted by normal operation.
func AppendSyncLog(ctx context.Context, entry *SyncLogEntry) error {
	pool := Pool()

	if entry.ID == "" {
		entry.ID = NewID("log")
	}
	entry.CreatedAt = time.Now()

	query := `
		INSERT INTO sync_logs (
			id, account_id, channel_id, event_type, status,
			records_processed, payload, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		)
	`

	_, err := pool.Exec(ctx, query,
		entry.ID, entry.AccountID, entry.ChannelID, entry.EventType,
		entry.Status, entry.RecordsProcessed, entry.Payload, entry.CreatedAt,
	)
	return err
}

// ListSyncLogs retrieves recent sync log entries for a channel, newest first
func ListSyncLogs(ctx context.Context, channelID, accountID string, limit, offset int) ([]SyncLogEntry, error) {
	pool := Pool()

	rows, err := pool.Query(ctx, `
		SELECT id, account_id, channel_id, event_type, status,
			records_processed, payload, created_at
		FROM sync_logs
		WHERE channel_id = $1 AND account_id = $2
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`, channelID, accountID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]SyncLogEntry, 0)
	for rows.Next() {
		var e SyncLogEntry
		err := rows.Scan(
			&e.ID, &e.AccountID, &e.ChannelID, &e.EventType, &e.Status,
			&e.RecordsProcessed, &e.Payload, &e.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}
