package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fluxi/inventory-service/internal/adapters/registry"
	"github.com/fluxi/inventory-service/internal/database"
	syncsvc "github.com/fluxi/inventory-service/internal/sync"
)

var syncAccountID string

// syncCmd represents the sync command
var syncCmd = &cobra.Command{
	Use:   "sync <channelId>",
	Short: "Fetch a channel's products into staging",
	Long: `Fetch every product page from the channel's external platform and upsert
each record into the staging table, exactly as POST /channels/:channelId/sync does.`,
	Example: `  fluxi sync ch_3f2a... --account acc_9b41...`,
	Args:    cobra.ExactArgs(1),
	RunE:    runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)

	syncCmd.Flags().StringVar(&syncAccountID, "account", "", "Account id owning the channel (required)")
	syncCmd.MarkFlagRequired("account")
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	ch, err := database.GetChannel(ctx, args[0], syncAccountID)
	if err != nil {
		return fmt.Errorf("channel lookup failed: %w", err)
	}

	adapter, err := registry.ForChannel(ch, cfg.Sync.PageSize)
	if err != nil {
		return err
	}

	svc := syncsvc.NewService(syncsvc.NewPGStore(), logger.With().Str("component", "sync").Logger())
	svc.SetMaxLogErrors(cfg.Sync.MaxLogErrors)
	result, err := svc.SyncChannel(ctx, ch, adapter)
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	logger.Info().
		Int("total_fetched", result.TotalFetched).
		Int("new_products", result.NewProducts).
		Int("updated_products", result.UpdatedProducts).
		Int("errors", len(result.Errors)).
		Msg("Sync completed")

	for _, e := range result.Errors {
		logger.Warn().Str("external_id", e.ExternalID).Str("sku", e.SKU).Msg(e.Message)
	}
	return nil
}
