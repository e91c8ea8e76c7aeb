package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fluxi/inventory-service/internal/database"
	syncsvc "github.com/fluxi/inventory-service/internal/sync"
)

var (
	importAccountID string
	importIDs       []string
	importAll       bool
)

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import <channelId>",
	Short: "Merge staged rows into the product catalog",
	Long: `Promote staged rows into the canonical catalog keyed by (account, SKU),
exactly as POST /channels/:channelId/import-to-inventory does. Select rows with
--ids or import every pending row with --all.`,
	Example: `  fluxi import ch_3f2a... --account acc_9b41... --all
  fluxi import ch_3f2a... --account acc_9b41... --ids sp_1,sp_2`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringVar(&importAccountID, "account", "", "Account id owning the channel (required)")
	importCmd.Flags().StringSliceVar(&importIDs, "ids", nil, "Staging row ids to import")
	importCmd.Flags().BoolVar(&importAll, "all", false, "Import every pending staged row")
	importCmd.MarkFlagRequired("account")
}

func runImport(cmd *cobra.Command, args []string) error {
	if !importAll && len(importIDs) == 0 {
		return fmt.Errorf("either --ids or --all is required")
	}

	ctx := context.Background()

	ch, err := database.GetChannel(ctx, args[0], importAccountID)
	if err != nil {
		return fmt.Errorf("channel lookup failed: %w", err)
	}

	svc := syncsvc.NewService(syncsvc.NewPGStore(), logger.With().Str("component", "sync").Logger())
	svc.SetMaxLogErrors(cfg.Sync.MaxLogErrors)
	result, err := svc.ImportToInventory(ctx, ch, syncsvc.ImportSelection{
		StagingProductIDs: importIDs,
		ImportAll:         importAll,
	})
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	logger.Info().
		Int("imported_count", result.ImportedCount).
		Int("errors", len(result.Errors)).
		Msg("Import completed")

	for _, e := range result.Errors {
		logger.Warn().Str("staging_id", e.StagingID).Str("sku", e.SKU).Msg(e.Message)
	}
	return nil
}
