package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/responda-cli/internal/core/domain"
)

var questionsJSON bool

var questionsCmd = &cobra.Command{
	Use:   "questions [file]",
	Short: "Detect the questions in a request document",
	Long: `Extracts text from a request document and prints the questions the
answering pipeline would process, without answering them. Useful for
checking detection before a full run.`,
	Args: cobra.ExactArgs(1),
	RunE: runQuestions,
}

func init() {
	questionsCmd.Flags().BoolVar(&questionsJSON, "json", false, "output questions as JSON")
	rootCmd.AddCommand(questionsCmd)
}

func runQuestions(cmd *cobra.Command, args []string) error {
	if detectionService == nil {
		return errors.New("detection service not configured")
	}

	text, err := extractText(args[0])
	if err != nil {
		return err
	}

	questions := detectionService.Detect(text)

	if questionsJSON {
		data, err := json.MarshalIndent(questions, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal questions: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(questions) == 0 {
		cmd.Println("No questions detected.")
		return nil
	}

	cmd.Printf("Detected %d questions:\n\n", len(questions))
	for i, q := range questions {
		cmd.Printf("  %d. %s\n", i+1, q)
	}

	return nil
}

// extractText reads a file and runs it through the extractor that handles
// its extension.
func extractText(path string) (string, error) {
	if extractorRegistry == nil {
		return "", errors.New("extractors not configured")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}

	upload := &domain.RawUpload{FileName: filepath.Base(path), Data: data}
	extractor, err := extractorRegistry.ForUpload(upload)
	if err != nil {
		return "", err
	}

	result, err := extractor.Extract(context.Background(), upload)
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", upload.FileName, err)
	}

	return result.Text, nil
}
