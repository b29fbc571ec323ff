package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/mnemonic-fyi/mnemonic/internal/service"
	"github.com/spf13/cobra"
)

// StatsCmd returns the stats command
func StatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print knowledge store statistics",
		RunE:  runStats,
	}
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	d, err := openDeps(ctx)
	if err != nil {
		return err
	}
	defer d.close()

	stats, err := service.NewStatsService(d.repo).GetStats(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Total items:  %d\n", stats.TotalItems)
	fmt.Printf("Slack items:  %d\n", stats.SlackItems)
	fmt.Printf("Notion items: %d\n", stats.NotionItems)
	if !stats.LastUpdated.IsZero() {
		fmt.Printf("Last updated: %s\n", stats.LastUpdated.UTC().Format(time.RFC3339))
	}
	return nil
}
