package domain

// QuestionStatus tracks a question through the answering pipeline.
type QuestionStatus string

// Lifecycle states for a question being answered.
const (
	// QuestionPending means the question has been detected but not started.
	QuestionPending QuestionStatus = "pending"

	// QuestionInProgress means the question is currently being answered.
	QuestionInProgress QuestionStatus = "in_progress"

	// QuestionCompleted means a generated answer was produced.
	QuestionCompleted QuestionStatus = "completed"

	// QuestionFailed means an external call failed; the answer fields
	// hold a human-readable notice instead of generated text.
	QuestionFailed QuestionStatus = "failed"
)

// IsValid returns true if the status is recognised.
func (s QuestionStatus) IsValid() bool {
	switch s {
	case QuestionPending, QuestionInProgress, QuestionCompleted, QuestionFailed:
		return true
	default:
		return false
	}
}

// IsTerminal returns true once the question has finished processing.
func (s QuestionStatus) IsTerminal() bool {
	return s == QuestionCompleted || s == QuestionFailed
}

// String returns the string representation.
func (s QuestionStatus) String() string {
	return string(s)
}

// RetrievedMatch is one knowledge chunk ranked against a query embedding.
type RetrievedMatch struct {
	// ChunkID identifies the matched chunk.
	ChunkID string

	// Content is the chunk text used as answer context.
	Content string

	// Score is the cosine similarity in [-1, 1].
	Score float64

	// SourceFile is the file name of the entry owning the chunk.
	SourceFile string
}

// AnsweredQuestion is one detected question together with its retrieval
// context and drafted answer.
type AnsweredQuestion struct {
	// Index is the 1-based position in detection order.
	Index int

	// Question is the detected question text.
	Question string

	// Embedding is the query vector computed for retrieval.
	Embedding []float32

	// GeneratedAnswer is the completion text, or a failure notice.
	GeneratedAnswer string

	// EditedAnswer is the user-editable answer. It defaults to the
	// generated answer and takes precedence when assembling output.
	EditedAnswer string

	// Matches is the ranked retrieval context used to draft the answer.
	Matches []RetrievedMatch

	// Confidence is the arithmetic mean of the match scores, 0 when
	// no matches were found.
	Confidence float64

	// Status is the lifecycle state of this question.
	Status QuestionStatus
}

// FinalAnswer returns the text that belongs in assembled output: the
// edited answer when non-empty, otherwise the generated answer,
// otherwise an empty string.
func (q *AnsweredQuestion) FinalAnswer() string {
	if q.EditedAnswer != "" {
		return q.EditedAnswer
	}
	return q.GeneratedAnswer
}
