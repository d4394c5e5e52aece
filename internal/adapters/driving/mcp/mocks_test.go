package mcp

import (
	"context"

	"github.com/custodia-labs/responda-cli/internal/core/domain"
	"github.com/custodia-labs/responda-cli/internal/core/ports/driving"
)

// mockRetrievalService is a mock implementation of driving.RetrievalService.
type mockRetrievalService struct {
	matches []domain.RetrievedMatch
	err     error
}

func (m *mockRetrievalService) Search(
	_ context.Context,
	_ string,
	_ int,
) ([]domain.RetrievedMatch, error) {
	return m.matches, m.err
}

// mockDetectionService is a mock implementation of driving.DetectionService.
type mockDetectionService struct {
	questions []string
}

func (m *mockDetectionService) Detect(_ string) []string {
	return m.questions
}

// mockAnswerService is a mock implementation of driving.AnswerService.
type mockAnswerService struct {
	doc      *domain.ResponseDocument
	answered *domain.AnsweredQuestion
	err      error
}

func (m *mockAnswerService) ProcessUpload(
	_ context.Context,
	_ *domain.RawUpload,
	_ driving.ProcessOptions,
) (*domain.ResponseDocument, error) {
	return m.doc, m.err
}

func (m *mockAnswerService) ProcessText(
	_ context.Context,
	_, _ string,
	_ driving.ProcessOptions,
) (*domain.ResponseDocument, error) {
	return m.doc, m.err
}

func (m *mockAnswerService) AnswerQuestion(
	_ context.Context,
	_ string,
) (*domain.AnsweredQuestion, error) {
	return m.answered, m.err
}

// mockKnowledgeService is a mock implementation of driving.KnowledgeService.
type mockKnowledgeService struct {
	entries []domain.KnowledgeEntry
	entry   *domain.KnowledgeEntry
	err     error
}

func (m *mockKnowledgeService) Ingest(
	_ context.Context,
	_ *domain.RawUpload,
	_ domain.ProgressFunc,
) (*domain.KnowledgeEntry, error) {
	return m.entry, m.err
}

func (m *mockKnowledgeService) IngestText(
	_ context.Context,
	_, _ string,
	_ domain.ProgressFunc,
) (*domain.KnowledgeEntry, error) {
	return m.entry, m.err
}

func (m *mockKnowledgeService) List(_ context.Context) ([]domain.KnowledgeEntry, error) {
	return m.entries, m.err
}

func (m *mockKnowledgeService) Get(_ context.Context, _ string) (*domain.KnowledgeEntry, error) {
	return m.entry, m.err
}

func (m *mockKnowledgeService) Delete(_ context.Context, _ string) error {
	return m.err
}
