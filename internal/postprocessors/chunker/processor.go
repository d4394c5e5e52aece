// Package chunker provides a sentence-aligned text chunking processor.
package chunker

import (
	"context"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/responda-cli/internal/core/domain"
)

// DefaultMaxChars is the default soft ceiling for chunk length in characters.
const DefaultMaxChars = 250

// sentenceEnd matches a sentence terminator followed by whitespace.
// The boundary sits immediately after the terminator; the whitespace is
// consumed as separator.
var sentenceEnd = regexp.MustCompile(`[.!?]\s`)

// Processor splits entry content into sentence-aligned chunks.
// It implements the PostProcessor interface.
type Processor struct {
	maxChars int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithMaxChars sets the soft chunk length ceiling in characters.
func WithMaxChars(maxChars int) Option {
	return func(p *Processor) {
		if maxChars > 0 {
			p.maxChars = maxChars
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		maxChars: DefaultMaxChars,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// Process splits the entry content into chunks.
// Input chunks are ignored; this processor creates new chunks from entry content.
func (p *Processor) Process(_ context.Context, entry *domain.KnowledgeEntry, _ []domain.Chunk) ([]domain.Chunk, error) {
	texts := Split(entry.Content, p.maxChars)
	if len(texts) == 0 {
		return nil, nil
	}

	chunks := make([]domain.Chunk, 0, len(texts))
	for i, text := range texts {
		chunks = append(chunks, domain.Chunk{
			ID:       uuid.New().String(),
			EntryID:  entry.ID,
			Content:  text,
			Position: i,
		})
	}

	return chunks, nil
}

// Split divides text into sentence-aligned segments of roughly maxChars
// characters each. Sentences accumulate into a segment until appending the
// next one would push it past maxChars; a single sentence longer than
// maxChars is emitted whole rather than split mid-sentence, so the limit is
// a soft target. All returned segments are trimmed and non-empty. Empty or
// whitespace-only input returns nil. Non-positive maxChars falls back to
// DefaultMaxChars.
func Split(text string, maxChars int) []string {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}

	var segments []string
	current := ""

	for _, sentence := range splitSentences(text) {
		if current == "" {
			current = sentence
			continue
		}
		if len(current)+1+len(sentence) > maxChars {
			segments = append(segments, current)
			current = sentence
			continue
		}
		current += " " + sentence
	}

	if current != "" {
		segments = append(segments, current)
	}

	return segments
}

// splitSentences cuts text after each terminator that is followed by
// whitespace. Returned sentences are trimmed; spans that trim to nothing
// are dropped.
func splitSentences(text string) []string {
	var sentences []string
	start := 0

	for _, loc := range sentenceEnd.FindAllStringIndex(text, -1) {
		if s := strings.TrimSpace(text[start : loc[0]+1]); s != "" {
			sentences = append(sentences, s)
		}
		start = loc[0] + 1
	}

	if s := strings.TrimSpace(text[start:]); s != "" {
		sentences = append(sentences, s)
	}

	return sentences
}
