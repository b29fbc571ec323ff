package cli

import (
	"context"
	"fmt"

	"github.com/mnemonic-fyi/mnemonic/internal/api"
	"github.com/spf13/cobra"
)

// IngestCmd returns the ingest command group
func IngestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Pull content from a connector into the knowledge store",
	}

	cmd.AddCommand(ingestSlackCmd())
	cmd.AddCommand(ingestNotionCmd())

	return cmd
}

func ingestSlackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "slack",
		Short: "Ingest messages from a Slack channel",
		RunE:  runIngestSlack,
	}

	cmd.Flags().StringP("channel", "c", "", "Slack channel ID (required)")
	cmd.Flags().StringP("workspace", "w", "", "Workspace identifier (required)")
	_ = cmd.MarkFlagRequired("channel")
	_ = cmd.MarkFlagRequired("workspace")

	return cmd
}

func runIngestSlack(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	channelFlag, _ := cmd.Flags().GetString("channel")
	workspaceFlag, _ := cmd.Flags().GetString("workspace")

	channelID, err := api.ValidateChannelID(channelFlag)
	if err != nil {
		return err
	}
	workspaceID, err := api.ValidateWorkspaceID(workspaceFlag)
	if err != nil {
		return err
	}

	d, err := openDeps(ctx)
	if err != nil {
		return err
	}
	defer d.close()

	count, err := d.ingestService().IngestSlack(ctx, channelID, workspaceID)
	if err != nil {
		return err
	}

	fmt.Printf("Ingested %d messages from Slack channel %s\n", count, channelID)
	return nil
}

func ingestNotionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notion",
		Short: "Ingest pages from the connected Notion workspace",
		RunE:  runIngestNotion,
	}

	cmd.Flags().StringP("workspace", "w", "", "Workspace identifier (required)")
	cmd.Flags().StringP("database", "d", "", "Notion database ID (optional)")
	_ = cmd.MarkFlagRequired("workspace")

	return cmd
}

func runIngestNotion(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	workspaceFlag, _ := cmd.Flags().GetString("workspace")
	databaseFlag, _ := cmd.Flags().GetString("database")

	workspaceID, err := api.ValidateWorkspaceID(workspaceFlag)
	if err != nil {
		return err
	}

	d, err := openDeps(ctx)
	if err != nil {
		return err
	}
	defer d.close()

	count, err := d.ingestService().IngestNotion(ctx, workspaceID, api.SanitizeInput(databaseFlag))
	if err != nil {
		return err
	}

	fmt.Printf("Ingested %d pages from Notion\n", count)
	return nil
}
