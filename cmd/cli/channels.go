package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/fluxi/inventory-service/internal/database"
)

var channelsAccountID string

// channelsCmd represents the channels command
var channelsCmd = &cobra.Command{
	Use:   "channels",
	Short: "List an account's configured channels",
	Args:  cobra.NoArgs,
	RunE:  runChannels,
}

func init() {
	rootCmd.AddCommand(channelsCmd)

	channelsCmd.Flags().StringVar(&channelsAccountID, "account", "", "Account id (required)")
	channelsCmd.MarkFlagRequired("account")
}

func runChannels(cmd *cobra.Command, args []string) error {
	channels, err := database.ListChannels(context.Background(), channelsAccountID)
	if err != nil {
		return fmt.Errorf("listing channels failed: %w", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPLATFORM\tNAME\tSTATUS\tLAST SYNC")
	for _, ch := range channels {
		lastSync := "never"
		if ch.LastSyncAt != nil {
			lastSync = ch.LastSyncAt.Format("2006-01-02 15:04:05")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", ch.ID, ch.Platform, ch.Name, ch.Status, lastSync)
	}
	return w.Flush()
}
