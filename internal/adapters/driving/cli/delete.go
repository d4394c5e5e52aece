package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete [entry-id]",
	Short: "Remove an entry from the knowledge base",
	Long:  `Removes a knowledge base entry and all of its chunks.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	if knowledgeService == nil {
		return errors.New("knowledge service not configured")
	}

	entryID := args[0]
	ctx := context.Background()

	if err := knowledgeService.Delete(ctx, entryID); err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}

	cmd.Printf("Deleted entry %s.\n", entryID)
	return nil
}
