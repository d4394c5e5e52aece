package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List knowledge base entries",
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	if knowledgeService == nil {
		return errors.New("knowledge service not configured")
	}

	ctx := context.Background()

	entries, err := knowledgeService.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list entries: %w", err)
	}

	if len(entries) == 0 {
		cmd.Println("Knowledge base is empty. Add documents with 'responda ingest'.")
		return nil
	}

	cmd.Println("Knowledge base entries:")
	cmd.Println()
	for i := range entries {
		cmd.Printf("  %s\n", entries[i].ID)
		cmd.Printf("    File:     %s\n", entries[i].FileName)
		cmd.Printf("    Chunks:   %d\n", len(entries[i].Chunks))
		cmd.Printf("    Size:     %s\n", formatByteSize(entries[i].ByteSize))
		cmd.Printf("    Ingested: %s\n", entries[i].CreatedAt.Format("2006-01-02 15:04:05"))
		cmd.Println()
	}

	cmd.Printf("Total: %d entries\n", len(entries))
	return nil
}
