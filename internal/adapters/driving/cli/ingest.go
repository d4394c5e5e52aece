package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/responda-cli/internal/core/domain"
)

// ingestAsText forces plaintext interpretation regardless of extension.
var ingestAsText bool

var ingestCmd = &cobra.Command{
	Use:   "ingest [file...]",
	Short: "Add reference documents to the knowledge base",
	Long: `Extracts text from each file, splits it into chunks, embeds them,
and stores the result in the knowledge base. Supported formats are
plain text, markdown, PDF, and DOCX.

Requires a configured embedding provider; run 'responda settings embedding'
first.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().BoolVar(&ingestAsText, "text", false, "treat every file as plain text regardless of extension")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if knowledgeService == nil {
		return errors.New("knowledge service not configured")
	}

	ctx := context.Background()

	var failed int
	for _, path := range args {
		entry, err := ingestFile(ctx, path)
		if err != nil {
			failed++
			cmd.PrintErrf("Error: %s: %v\n", path, err)
			continue
		}
		cmd.Printf("Ingested %s (%d chunks, %s)\n", entry.FileName, len(entry.Chunks), formatByteSize(entry.ByteSize))
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(args))
	}
	return nil
}

func ingestFile(ctx context.Context, path string) (*domain.KnowledgeEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	name := filepath.Base(path)
	if ingestAsText {
		return knowledgeService.IngestText(ctx, name, string(data), nil)
	}

	upload := &domain.RawUpload{FileName: name, Data: data}
	return knowledgeService.Ingest(ctx, upload, nil)
}

// formatByteSize renders a byte count with a compact unit suffix.
func formatByteSize(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/float64(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/float64(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
