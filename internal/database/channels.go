package database

import (
	"context"
	"encoding/json"
	"time"
)

// CreateChannel creates a new channel record
func CreateChannel(ctx context.Context, ch *Channel) error {
	pool := Pool()

	if ch.ID == "" {
		ch.ID = NewID("ch")
	}
	now := time.Now()
	ch.CreatedAt = now
	ch.UpdatedAt = now
	if ch.Status == "" {
		ch.Status = "disconnected"
	}

	query := `
		INSERT INTO channels (
			id, account_id, platform, name, config, status, status_text,
			last_sync_at, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		)
	`

	_, err := pool.Exec(ctx, query,
		ch.ID, ch.AccountID, ch.Platform, ch.Name, ch.Config, ch.Status,
		ch.StatusText, ch.LastSyncAt, ch.CreatedAt, ch.UpdatedAt,
	)
	return err
}

// GetChannel retrieves a channel by id, scoped to an account
func GetChannel(ctx context.Context, channelID, accountID string) (*Channel, error) {
	pool := Pool()

	query := `
		SELECT id, account_id, platform, name, config, status, status_text,
			last_sync_at, created_at, updated_at
		FROM channels
		WHERE id = $1 AND account_id = $2
	`

	row := pool.QueryRow(ctx, query, channelID, accountID)

	var ch Channel
	err := row.Scan(
		&ch.ID, &ch.AccountID, &ch.Platform, &ch.Name, &ch.Config,
		&ch.Status, &ch.StatusText, &ch.LastSyncAt, &ch.CreatedAt, &ch.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &ch, nil
}

// ListChannels retrieves all channels for an account
func ListChannels(ctx context.Context, accountID string) ([]Channel, error) {
	pool := Pool()

	query := `
		SELECT id, account_id, platform, name, config, status, status_text,
			last_sync_at, created_at, updated_at
		FROM channels
		WHERE account_id = $1
		ORDER BY created_at DESC
	`

	rows, err := pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	channels := make([]Channel, 0)
	for rows.Next() {
		var ch Channel
		err := rows.Scan(
			&ch.ID, &ch.AccountID, &ch.Platform, &ch.Name, &ch.Config,
			&ch.Status, &ch.StatusText, &ch.LastSyncAt, &ch.CreatedAt, &ch.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		channels = append(channels, ch)
	}

	return channels, rows.Err()
}

// UpdateChannelStatus sets the channel connection status and optional
// upstream error text
func UpdateChannelStatus(ctx context.Context, channelID, status string, statusText *string) error {
	pool := Pool()

	query := `
		UPDATE channels
		SET status = $2,
		    status_text = $3,
		    updated_at = NOW()
		WHERE id = $1
	`

	_, err := pool.Exec(ctx, query, channelID, status, statusText)
	return err
}

// TouchChannelLastSync refreshes the channel's last_sync_at timestamp
func TouchChannelLastSync(ctx context.Context, channelID string) error {
	pool := Pool()

	query := `
		UPDATE channels
		SET last_sync_at = NOW(),
		    updated_at = NOW()
		WHERE id = $1
	`

	_, err := pool.Exec(ctx, query, channelID)
	return err
}

// DeleteChannel removes a channel and its dependent rows
// (staging rows and links cascade via foreign keys)
func DeleteChannel(ctx context.Context, channelID, accountID string) (bool, error) {
	pool := Pool()

	tag, err := pool.Exec(ctx, `
		DELETE FROM channels
		WHERE id = $1 AND account_id = $2
	`, channelID, accountID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// ChannelConfigMap decodes the channel's opaque config blob into a map
func ChannelConfigMap(ch *Channel) map[string]any {
	cfg := make(map[string]any)
	if len(ch.Config) > 0 {
		// Malformed config is treated as empty; adapters surface the
		// missing keys with their own errors
		_ = json.Unmarshal(ch.Config, &cfg)
	}
	return cfg
}
