package markdown

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/responda-cli/internal/core/domain"
)

func testDocument() *domain.ResponseDocument {
	return &domain.ResponseDocument{
		Title:       "rfp.pdf",
		GeneratedAt: time.Date(2025, 6, 2, 14, 30, 0, 0, time.UTC),
		Summary:     "We answered 2 questions with strong coverage.",
		Questions: []domain.AnsweredQuestion{
			{
				Index:           1,
				Question:        "What is your uptime guarantee?",
				GeneratedAnswer: "We guarantee 99.9% uptime.",
				Matches: []domain.RetrievedMatch{
					{ChunkID: "c1", Content: "SLA text", Score: 0.9, SourceFile: "sla.txt"},
					{ChunkID: "c2", Content: "More SLA text", Score: 0.74, SourceFile: "sla.txt"},
				},
				Confidence: 0.82,
				Status:     domain.QuestionCompleted,
			},
			{
				Index:           2,
				Question:        "How do you handle incidents?",
				GeneratedAnswer: "Our on-call team responds within 15 minutes.",
				Matches: []domain.RetrievedMatch{
					{ChunkID: "c3", Content: "Incident runbook", Score: 0.66, SourceFile: "operations.md"},
				},
				Confidence: 0.66,
				Status:     domain.QuestionCompleted,
			},
		},
	}
}

func TestNew(t *testing.T) {
	writer := New()
	require.NotNil(t, writer)
}

func TestExtension(t *testing.T) {
	assert.Equal(t, ".md", New().Extension())
}

func TestWrite_NilDocument(t *testing.T) {
	writer := New()

	err := writer.Write(&bytes.Buffer{}, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestWrite_FullDocument(t *testing.T) {
	writer := New()
	var buf bytes.Buffer

	err := writer.Write(&buf, testDocument())
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "# rfp.pdf\n")
	assert.Contains(t, out, "*Generated: 2025-06-02 14:30*")
	assert.Contains(t, out, "## Executive Summary\n\nWe answered 2 questions with strong coverage.")
	assert.Contains(t, out, "## Answers\n")
	assert.Contains(t, out, "### 1. What is your uptime guarantee?\n\nWe guarantee 99.9% uptime.")
	assert.Contains(t, out, "### 2. How do you handle incidents?")
	assert.Contains(t, out, "*Confidence: 82% | Sources: sla.txt*")
	assert.Contains(t, out, "*Confidence: 66% | Sources: operations.md*")
}

func TestWrite_QuestionOrderPreserved(t *testing.T) {
	writer := New()
	var buf bytes.Buffer

	require.NoError(t, writer.Write(&buf, testDocument()))

	out := buf.String()
	first := strings.Index(out, "### 1.")
	second := strings.Index(out, "### 2.")
	require.NotEqual(t, -1, first)
	require.NotEqual(t, -1, second)
	assert.Less(t, first, second)
}

func TestWrite_EditedAnswerWins(t *testing.T) {
	writer := New()
	doc := testDocument()
	doc.Questions[0].EditedAnswer = "We guarantee 99.95% uptime for enterprise plans."

	var buf bytes.Buffer
	require.NoError(t, writer.Write(&buf, doc))

	out := buf.String()
	assert.Contains(t, out, "We guarantee 99.95% uptime for enterprise plans.")
	assert.NotContains(t, out, "We guarantee 99.9% uptime.\n")
}

func TestWrite_EmptyTitleFallsBack(t *testing.T) {
	writer := New()
	doc := &domain.ResponseDocument{}

	var buf bytes.Buffer
	require.NoError(t, writer.Write(&buf, doc))

	assert.True(t, strings.HasPrefix(buf.String(), "# Response\n"))
}

func TestWrite_ZeroTimeOmitsGeneratedLine(t *testing.T) {
	writer := New()
	doc := &domain.ResponseDocument{Title: "empty.txt"}

	var buf bytes.Buffer
	require.NoError(t, writer.Write(&buf, doc))

	assert.NotContains(t, buf.String(), "*Generated:")
}

func TestWrite_FailedQuestionRendersNotice(t *testing.T) {
	writer := New()
	doc := &domain.ResponseDocument{
		Title: "rfp.txt",
		Questions: []domain.AnsweredQuestion{
			{
				Index:           1,
				Question:        "What certifications do you hold?",
				GeneratedAnswer: "Answer generation failed for this question. Please draft manually.",
				Status:          domain.QuestionFailed,
			},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, writer.Write(&buf, doc))

	out := buf.String()
	assert.Contains(t, out, "Answer generation failed for this question.")
	// No matches means no confidence line.
	assert.NotContains(t, out, "*Confidence:")
}

func TestWrite_NoAnswerPlaceholder(t *testing.T) {
	writer := New()
	doc := &domain.ResponseDocument{
		Title: "rfp.txt",
		Questions: []domain.AnsweredQuestion{
			{Index: 1, Question: "What is your pricing?", Status: domain.QuestionPending},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, writer.Write(&buf, doc))

	assert.Contains(t, buf.String(), "*No answer drafted.*")
}

func TestWrite_DeduplicatesSources(t *testing.T) {
	writer := New()
	doc := &domain.ResponseDocument{
		Title: "rfp.txt",
		Questions: []domain.AnsweredQuestion{
			{
				Index:           1,
				Question:        "What is your backup strategy?",
				GeneratedAnswer: "Nightly snapshots with offsite replication.",
				Matches: []domain.RetrievedMatch{
					{ChunkID: "a", Score: 0.9, SourceFile: "dr.md"},
					{ChunkID: "b", Score: 0.8, SourceFile: "infra.md"},
					{ChunkID: "c", Score: 0.7, SourceFile: "dr.md"},
				},
				Confidence: 0.8,
				Status:     domain.QuestionCompleted,
			},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, writer.Write(&buf, doc))

	assert.Contains(t, buf.String(), "Sources: dr.md, infra.md*")
}

func TestFormatConfidence(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{0.82, "82%"},
		{0.66, "66%"},
		{1.0, "100%"},
		{0, "0%"},
		{-0.4, "0%"},
		{1.7, "100%"},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, formatConfidence(tc.score))
	}
}
