package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// GetCmd returns the get command
func GetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Print one knowledge item by ID",
		Args:  cobra.ExactArgs(1),
		RunE:  runGet,
	}
}

func runGet(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	d, err := openDeps(ctx)
	if err != nil {
		return err
	}
	defer d.close()

	item, err := d.repo.GetByID(ctx, args[0])
	if err != nil {
		return err
	}

	fmt.Printf("ID:        %s\n", item.ID)
	fmt.Printf("Source:    %s\n", item.Metadata.Source)
	fmt.Printf("Author:    %s\n", item.Metadata.Author)
	if item.Metadata.Title != "" {
		fmt.Printf("Title:     %s\n", item.Metadata.Title)
	}
	if item.Metadata.Channel != "" {
		fmt.Printf("Channel:   %s\n", item.Metadata.Channel)
	}
	if item.Metadata.Workspace != "" {
		fmt.Printf("Workspace: %s\n", item.Metadata.Workspace)
	}
	fmt.Printf("URL:       %s\n", item.Metadata.URL)
	fmt.Printf("Created:   %s\n", item.CreatedAt.UTC().Format(time.RFC3339))
	fmt.Printf("\n%s\n", item.Content)
	return nil
}
