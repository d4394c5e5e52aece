package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/responda-cli/internal/core/domain"
	"github.com/custodia-labs/responda-cli/internal/core/ports/driven"
	"github.com/custodia-labs/responda-cli/internal/core/ports/driving"
	"github.com/custodia-labs/responda-cli/internal/logger"
)

// FailedAnswerNotice replaces the generated answer when a question's
// embedding or completion call fails. The question keeps its ordinal
// position so a reviewer can complete it manually.
const FailedAnswerNotice = "An answer could not be generated for this question. " +
	"Please review the source material and complete it manually."

// Ensure AnswerService implements the interfaces.
var (
	_ driving.AnswerService   = (*AnswerService)(nil)
	_ driven.PromptStoreAware = (*AnswerService)(nil)
)

// defaultAnswerPrompt is the fallback prompt when no PromptStore is configured.
const defaultAnswerPrompt = `You are drafting a response to a request for proposal on behalf of our company.

Use the following excerpts from our knowledge base to answer the question.
Ground the answer in the excerpts; do not invent capabilities they do not describe.

Context:
%s

Question: %s

Answer:`

// defaultAnswerNoContextPrompt is the fallback prompt when no PromptStore is configured.
const defaultAnswerNoContextPrompt = `You are drafting a response to a request for proposal on behalf of our company.

No relevant context is available in our knowledge base for this question.
Draft a brief, professional answer that acknowledges the question and commits to a detailed follow-up.

Question: %s

Answer:`

// defaultSummaryPrompt is the fallback prompt when no PromptStore is configured.
const defaultSummaryPrompt = `Write a short executive summary (2-3 paragraphs) for our proposal response.
Introduce our capabilities, highlight our strengths based on the answers below, and express our interest in the engagement.

%s

Executive summary:`

// AnswerService drives the question answering pipeline: detect questions,
// then per question embed, retrieve, draft, and finally summarise. Each
// question moves pending, in progress, then completed or failed.
type AnswerService struct {
	detection   *DetectionService
	retrieval   *RetrievalService
	embedder    driven.EmbeddingService
	llm         driven.LLMService
	extractors  driven.ExtractorRegistry
	promptStore driven.PromptStore
	topK        int
}

// NewAnswerService creates a new answer service.
// A topK of zero or less falls back to DefaultTopK.
func NewAnswerService(
	detection *DetectionService,
	retrieval *RetrievalService,
	embedder driven.EmbeddingService,
	llm driven.LLMService,
	extractors driven.ExtractorRegistry,
	topK int,
) *AnswerService {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &AnswerService{
		detection:  detection,
		retrieval:  retrieval,
		embedder:   embedder,
		llm:        llm,
		extractors: extractors,
		topK:       topK,
	}
}

// ProcessUpload extracts text from an uploaded request document, then
// detects and answers its questions.
func (s *AnswerService) ProcessUpload(ctx context.Context, upload *domain.RawUpload, opts driving.ProcessOptions) (*domain.ResponseDocument, error) {
	if upload == nil || len(upload.Data) == 0 {
		return nil, fmt.Errorf("%w: empty upload", domain.ErrInvalidInput)
	}

	extractor, err := s.extractors.ForUpload(upload)
	if err != nil {
		return nil, err
	}

	opts.Progress.Report(domain.ProgressEvent{
		Stage:   domain.StageExtract,
		Message: fmt.Sprintf("Extracting text from %s", upload.FileName),
	})

	result, err := extractor.Extract(ctx, upload)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", upload.FileName, err)
	}

	return s.ProcessText(ctx, upload.FileName, result.Text, opts)
}

// ProcessText detects and answers questions in already-extracted text.
// Detecting no questions is a valid empty outcome, not an error: the
// returned document simply carries no answers.
func (s *AnswerService) ProcessText(ctx context.Context, title, text string, opts driving.ProcessOptions) (*domain.ResponseDocument, error) {
	logger.Section("Request Processing")
	logger.Debug("Document: %s (%d bytes)", title, len(text))

	opts.Progress.Report(domain.ProgressEvent{
		Stage:   domain.StageDetect,
		Message: "Detecting questions",
	})

	questions := s.detection.Detect(text)
	logger.Info("Detected %d questions", len(questions))

	answered, err := s.AnswerQuestions(ctx, questions, opts)
	if err != nil {
		return nil, err
	}

	summary := s.summarise(ctx, answered, opts.Progress)

	return AssembleResponse(title, answered, summary), nil
}

// AnswerQuestions runs the per-question pipeline over the given questions
// in detection order. A question whose embedding or completion call fails
// is marked failed with a notice and processing continues to the next; a
// single question never aborts the batch. Cancellation is observed
// between questions: answers completed before the signal remain valid and
// are returned together with the context error.
func (s *AnswerService) AnswerQuestions(ctx context.Context, questions []string, opts driving.ProcessOptions) ([]domain.AnsweredQuestion, error) {
	topK := opts.TopK
	if topK <= 0 {
		topK = s.topK
	}

	answered := make([]domain.AnsweredQuestion, 0, len(questions))

	for i, question := range questions {
		if err := ctx.Err(); err != nil {
			logger.Warn("Processing cancelled after %d of %d questions", i, len(questions))
			return answered, err
		}

		opts.Progress.Report(domain.ProgressEvent{
			Stage:   domain.StageAnswer,
			Current: i + 1,
			Total:   len(questions),
			Message: fmt.Sprintf("Answering question %d of %d", i+1, len(questions)),
		})

		q := domain.AnsweredQuestion{
			Index:    i + 1,
			Question: question,
			Status:   domain.QuestionPending,
		}

		if err := s.answer(ctx, &q, topK); err != nil {
			return answered, err
		}

		answered = append(answered, q)
	}

	return answered, nil
}

// answer runs one question through embed, retrieve and draft. Embedding
// and completion failures are absorbed into a failed status. Retrieval
// errors abort: a dimension mismatch means the provider changed and every
// stored embedding needs recomputing, which no retry here can fix.
func (s *AnswerService) answer(ctx context.Context, q *domain.AnsweredQuestion, topK int) error {
	q.Status = domain.QuestionInProgress

	embedding, err := s.embed(ctx, q.Question)
	if err != nil {
		logger.Warn("Question %d: embedding failed: %v", q.Index, err)
		s.fail(q)
		return nil
	}
	q.Embedding = embedding

	matches, err := s.retrieval.Retrieve(ctx, embedding, topK)
	if err != nil {
		return fmt.Errorf("retrieve for question %d: %w", q.Index, err)
	}
	q.Matches = matches
	q.Confidence = meanScore(matches)

	logger.Debug("Question %d: %d matches, confidence %.3f", q.Index, len(matches), q.Confidence)

	answerText, err := s.complete(ctx, s.buildAnswerPrompt(q.Question, matches), 1024)
	if err != nil {
		logger.Warn("Question %d: completion failed: %v", q.Index, err)
		s.fail(q)
		return nil
	}

	q.GeneratedAnswer = strings.TrimSpace(answerText)
	q.EditedAnswer = q.GeneratedAnswer
	q.Status = domain.QuestionCompleted

	return nil
}

// AnswerQuestion answers one free-standing question against the knowledge
// base. Unlike batch processing there is no batch to protect, so failures
// surface as errors instead of a failure notice.
func (s *AnswerService) AnswerQuestion(ctx context.Context, question string) (*domain.AnsweredQuestion, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: empty question", domain.ErrInvalidInput)
	}

	q := domain.AnsweredQuestion{
		Index:    1,
		Question: question,
		Status:   domain.QuestionInProgress,
	}

	embedding, err := s.embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}
	q.Embedding = embedding

	matches, err := s.retrieval.Retrieve(ctx, embedding, s.topK)
	if err != nil {
		return nil, fmt.Errorf("retrieve: %w", err)
	}
	q.Matches = matches
	q.Confidence = meanScore(matches)

	answerText, err := s.complete(ctx, s.buildAnswerPrompt(question, matches), 1024)
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	q.GeneratedAnswer = strings.TrimSpace(answerText)
	q.EditedAnswer = q.GeneratedAnswer
	q.Status = domain.QuestionCompleted

	return &q, nil
}

// summarise issues the document-level summary call over every question
// and its current answer. Failure substitutes a canned fallback so the
// response document always carries a summary.
func (s *AnswerService) summarise(ctx context.Context, answered []domain.AnsweredQuestion, progress domain.ProgressFunc) string {
	progress.Report(domain.ProgressEvent{
		Stage:   domain.StageSummary,
		Message: "Generating executive summary",
	})

	if len(answered) == 0 {
		return fallbackSummary(0)
	}

	var b strings.Builder
	for _, q := range answered {
		fmt.Fprintf(&b, "Q%d: %s\nA%d: %s\n\n", q.Index, q.Question, q.Index, q.FinalAnswer())
	}

	prompt := fmt.Sprintf(s.loadPrompt(driven.PromptSummary, defaultSummaryPrompt), strings.TrimSpace(b.String()))

	summary, err := s.complete(ctx, prompt, 768)
	if err != nil {
		logger.Warn("Summary generation failed: %v (using fallback)", err)
		return fallbackSummary(len(answered))
	}

	return strings.TrimSpace(summary)
}

// fallbackSummary is the canned executive summary used when the model
// cannot be reached. It states how many questions the document answers.
func fallbackSummary(questionCount int) string {
	return fmt.Sprintf(
		"Thank you for the opportunity to respond to this request. This document contains our answers to the %d questions raised. We believe our capabilities align well with the requirements and would welcome the chance to discuss our response in detail.",
		questionCount,
	)
}

// buildAnswerPrompt renders the generation prompt for one question.
// Match texts are joined by a blank line; with no matches the no-context
// variant tells the model nothing relevant was found.
func (s *AnswerService) buildAnswerPrompt(question string, matches []domain.RetrievedMatch) string {
	if len(matches) == 0 {
		template := s.loadPrompt(driven.PromptAnswerNoContext, defaultAnswerNoContextPrompt)
		return fmt.Sprintf(template, question)
	}

	texts := make([]string, 0, len(matches))
	for _, m := range matches {
		texts = append(texts, m.Content)
	}

	template := s.loadPrompt(driven.PromptAnswer, defaultAnswerPrompt)
	return fmt.Sprintf(template, strings.Join(texts, "\n\n"), question)
}

// embed wraps the embedding call with a nil-service guard.
func (s *AnswerService) embed(ctx context.Context, text string) ([]float32, error) {
	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	return s.embedder.Embed(ctx, text)
}

// complete wraps the completion call with a nil-service guard.
func (s *AnswerService) complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if s.llm == nil {
		return "", domain.ErrCompletionUnavailable
	}
	return s.llm.Generate(ctx, prompt, driven.GenerateOptions{
		MaxTokens:   maxTokens,
		Temperature: 0.3,
	})
}

// fail marks a question failed and installs the fixed failure notice as
// both the generated and editable answer.
func (s *AnswerService) fail(q *domain.AnsweredQuestion) {
	q.GeneratedAnswer = FailedAnswerNotice
	q.EditedAnswer = FailedAnswerNotice
	q.Status = domain.QuestionFailed
}

// meanScore is the arithmetic mean of match scores, 0 when there are none.
func meanScore(matches []domain.RetrievedMatch) float64 {
	if len(matches) == 0 {
		return 0
	}

	var sum float64
	for _, m := range matches {
		sum += m.Score
	}
	return sum / float64(len(matches))
}

// SetPromptStore sets the prompt store for loading customisable prompts.
// If not set, the service uses hardcoded default prompts.
func (s *AnswerService) SetPromptStore(store driven.PromptStore) {
	s.promptStore = store
}

// loadPrompt loads a prompt from the store, falling back to the default if unavailable.
func (s *AnswerService) loadPrompt(name, fallback string) string {
	if s.promptStore == nil {
		return fallback
	}
	prompt, err := s.promptStore.Load(name)
	if err != nil {
		return fallback
	}
	return prompt
}
