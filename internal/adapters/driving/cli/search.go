package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/responda-cli/internal/core/domain"
)

var (
	searchLimit int
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the knowledge base",
	Long: `Embeds the query and ranks stored knowledge chunks by cosine
similarity. This is the same retrieval step the answering pipeline uses,
so it is a quick way to check what context a question would get.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "maximum number of matches (0 uses the configured top-k)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output matches as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	if retrievalService == nil {
		return errors.New("retrieval service not configured")
	}

	ctx := context.Background()

	matches, err := retrievalService.Search(ctx, query, searchLimit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, matches)
	}

	return outputSearchTable(cmd, matches)
}

func outputSearchJSON(cmd *cobra.Command, matches []domain.RetrievedMatch) error {
	data, err := json.MarshalIndent(matches, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal matches: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, matches []domain.RetrievedMatch) error {
	if len(matches) == 0 {
		cmd.Println("No matches found.")
		return nil
	}

	cmd.Println("Matches:")
	cmd.Println()
	for i := range matches {
		cmd.Printf("  [%d] %s (%.2f)\n", i+1, matches[i].SourceFile, matches[i].Score)
		if snippet := snippetOf(matches[i].Content); snippet != "" {
			cmd.Printf("      %s\n", snippet)
		}
		cmd.Println()
	}

	return nil
}

// snippetOf flattens chunk text to a single display line.
func snippetOf(content string) string {
	const maxLen = 160

	flat := strings.Join(strings.Fields(content), " ")
	if len(flat) <= maxLen {
		return flat
	}
	return flat[:maxLen] + "..."
}
