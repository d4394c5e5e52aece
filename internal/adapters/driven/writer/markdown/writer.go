// Package markdown renders response documents as Markdown.
package markdown

import (
	"fmt"
	"io"
	"strings"

	"github.com/custodia-labs/responda-cli/internal/core/domain"
	"github.com/custodia-labs/responda-cli/internal/core/ports/driven"
)

var _ driven.ResponseWriter = (*Writer)(nil)

// Writer renders a ResponseDocument as a Markdown document.
type Writer struct{}

// New creates a new Markdown writer.
func New() *Writer {
	return &Writer{}
}

// Extension returns the file extension this writer produces.
func (w *Writer) Extension() string {
	return ".md"
}

// Write renders the document to out.
func (w *Writer) Write(out io.Writer, doc *domain.ResponseDocument) error {
	if doc == nil {
		return domain.ErrInvalidInput
	}

	var sb strings.Builder

	title := doc.Title
	if title == "" {
		title = "Response"
	}
	sb.WriteString(fmt.Sprintf("# %s\n\n", title))

	if !doc.GeneratedAt.IsZero() {
		sb.WriteString(fmt.Sprintf("*Generated: %s*\n\n", doc.GeneratedAt.Format("2006-01-02 15:04")))
	}

	if doc.Summary != "" {
		sb.WriteString("## Executive Summary\n\n")
		sb.WriteString(doc.Summary)
		sb.WriteString("\n\n")
	}

	if len(doc.Questions) > 0 {
		sb.WriteString("## Answers\n\n")
		for _, q := range doc.Questions {
			sb.WriteString(fmt.Sprintf("### %d. %s\n\n", q.Index, q.Question))

			answer := q.FinalAnswer()
			if answer == "" {
				answer = "*No answer drafted.*"
			}
			sb.WriteString(answer)
			sb.WriteString("\n\n")

			if len(q.Matches) > 0 {
				sb.WriteString(fmt.Sprintf("*Confidence: %s | Sources: %s*\n\n",
					formatConfidence(q.Confidence),
					strings.Join(sourceFiles(q.Matches), ", ")))
			}
		}
	}

	if _, err := io.WriteString(out, sb.String()); err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	return nil
}

// formatConfidence renders a mean cosine score as a percentage.
// Scores below zero clamp to 0%.
func formatConfidence(score float64) string {
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	return fmt.Sprintf("%.0f%%", score*100)
}

// sourceFiles returns the distinct source file names in match order.
func sourceFiles(matches []domain.RetrievedMatch) []string {
	seen := make(map[string]bool, len(matches))
	files := make([]string, 0, len(matches))
	for _, m := range matches {
		if m.SourceFile == "" || seen[m.SourceFile] {
			continue
		}
		seen[m.SourceFile] = true
		files = append(files, m.SourceFile)
	}
	return files
}
