package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/responda-cli/internal/adapters/driven/writer/markdown"
	"github.com/custodia-labs/responda-cli/internal/adapters/driving/tui"
	"github.com/custodia-labs/responda-cli/internal/core/domain"
	"github.com/custodia-labs/responda-cli/internal/core/ports/driving"
)

var (
	processOutput string
	processJSON   bool
	processTUI    bool
	processTopK   int
)

var processCmd = &cobra.Command{
	Use:   "process [file]",
	Short: "Answer every question in a request document",
	Long: `Runs the full answering pipeline over a request document: extracts
its text, detects the questions, retrieves knowledge context for each one
and drafts grounded answers, then assembles a response document.

The response is written as markdown to stdout by default. Progress goes
to stderr, so output can be piped or redirected safely.`,
	Args: cobra.ExactArgs(1),
	RunE: runProcess,
}

func init() {
	processCmd.Flags().StringVarP(&processOutput, "output", "o", "", "write the response to a file instead of stdout")
	processCmd.Flags().BoolVar(&processJSON, "json", false, "output the response as JSON")
	processCmd.Flags().BoolVar(&processTUI, "tui", false, "review and edit answers interactively before output")
	processCmd.Flags().IntVar(&processTopK, "topk", 0, "knowledge matches per question (0 uses the configured top-k)")
	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, args []string) error {
	if answerService == nil {
		return errors.New("answer service not configured")
	}

	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}
	upload := &domain.RawUpload{FileName: filepath.Base(path), Data: data}

	var doc *domain.ResponseDocument
	if processTUI {
		doc, err = runProcessTUI(upload)
	} else {
		doc, err = runProcessPlain(cmd, upload)
	}
	if err != nil {
		return err
	}
	if doc == nil {
		// Review was quit before processing finished.
		cmd.Println("Aborted.")
		return nil
	}

	return writeResponse(cmd, doc)
}

func runProcessPlain(cmd *cobra.Command, upload *domain.RawUpload) (*domain.ResponseDocument, error) {
	ctx := context.Background()
	errOut := cmd.ErrOrStderr()

	opts := driving.ProcessOptions{
		TopK:     processTopK,
		Progress: progressLine(errOut),
	}

	doc, err := answerService.ProcessUpload(ctx, upload, opts)
	if err != nil {
		fmt.Fprintln(errOut)
		return nil, fmt.Errorf("failed to process document: %w", err)
	}

	fmt.Fprintf(errOut, "\r%-70s\n", fmt.Sprintf("Answered %d questions.", len(doc.Questions)))
	return doc, nil
}

// runProcessTUI hands the run to the interactive review UI and reads the
// assembled document back from the final model.
func runProcessTUI(upload *domain.RawUpload) (doc *domain.ResponseDocument, err error) {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("TUI panic: %v", r)
		}
	}()

	ports := &tui.Ports{
		Answer: answerService,
		Action: actionService,
	}

	app, err := tui.NewApp(ports, tui.Job{Upload: upload, TopK: processTopK})
	if err != nil {
		return nil, fmt.Errorf("failed to create TUI: %w", err)
	}

	p := tea.NewProgram(app, tea.WithAltScreen())

	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("TUI error: %w", err)
	}

	finalApp, ok := final.(*tui.App)
	if !ok {
		return nil, errors.New("unexpected TUI model type")
	}
	if err := finalApp.Err(); err != nil {
		return nil, fmt.Errorf("failed to process document: %w", err)
	}

	return finalApp.Document(), nil
}

// progressLine returns a progress sink that redraws a single status line.
func progressLine(out io.Writer) domain.ProgressFunc {
	return func(ev domain.ProgressEvent) {
		line := string(ev.Stage)
		if ev.Total > 0 {
			line = fmt.Sprintf("%s %d/%d", ev.Stage, ev.Current, ev.Total)
		}
		if ev.Message != "" {
			line += ": " + ev.Message
		}
		fmt.Fprintf(out, "\r%-70s", snippetLine(line, 70))
	}
}

// snippetLine caps a status line so redraws never wrap the terminal row.
func snippetLine(line string, maxLen int) string {
	if len(line) <= maxLen {
		return line
	}
	return line[:maxLen-3] + "..."
}

func writeResponse(cmd *cobra.Command, doc *domain.ResponseDocument) error {
	if processJSON {
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal response: %w", err)
		}
		return writeOutput(cmd, append(data, '\n'))
	}

	var buf bytes.Buffer
	if err := markdown.New().Write(&buf, doc); err != nil {
		return fmt.Errorf("failed to render response: %w", err)
	}
	return writeOutput(cmd, buf.Bytes())
}

func writeOutput(cmd *cobra.Command, data []byte) error {
	if processOutput == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}

	if err := os.WriteFile(processOutput, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", processOutput, err)
	}
	cmd.Printf("Wrote %s\n", processOutput)
	return nil
}
