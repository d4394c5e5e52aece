package services

import (
	"time"

	"github.com/custodia-labs/responda-cli/internal/core/domain"
)

// AssembleResponse turns an ordered answered-question set and a summary
// into the response document model consumed by response writers. No I/O,
// and it never fails on missing answers: each question's final answer
// resolves to the edited text, else the generated text, else empty.
// Ordinal indices are renumbered to stay contiguous from 1 in input order.
func AssembleResponse(title string, questions []domain.AnsweredQuestion, summary string) *domain.ResponseDocument {
	assembled := make([]domain.AnsweredQuestion, len(questions))
	copy(assembled, questions)

	for i := range assembled {
		assembled[i].Index = i + 1
	}

	return &domain.ResponseDocument{
		Title:       title,
		GeneratedAt: time.Now(),
		Summary:     summary,
		Questions:   assembled,
	}
}
