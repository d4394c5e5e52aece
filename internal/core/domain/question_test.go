package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuestionStatus_IsValid(t *testing.T) {
	tests := []struct {
		status QuestionStatus
		valid  bool
	}{
		{QuestionPending, true},
		{QuestionInProgress, true},
		{QuestionCompleted, true},
		{QuestionFailed, true},
		{QuestionStatus(""), false},
		{QuestionStatus("done"), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.status.IsValid())
		})
	}
}

func TestQuestionStatus_IsTerminal(t *testing.T) {
	assert.False(t, QuestionPending.IsTerminal())
	assert.False(t, QuestionInProgress.IsTerminal())
	assert.True(t, QuestionCompleted.IsTerminal())
	assert.True(t, QuestionFailed.IsTerminal())
}

func TestAnsweredQuestion_FinalAnswer(t *testing.T) {
	tests := []struct {
		name      string
		generated string
		edited    string
		want      string
	}{
		{"edited wins", "generated text", "edited text", "edited text"},
		{"generated fallback", "generated text", "", "generated text"},
		{"both empty", "", "", ""},
		{"edited only", "", "edited text", "edited text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := &AnsweredQuestion{
				GeneratedAnswer: tt.generated,
				EditedAnswer:    tt.edited,
			}
			assert.Equal(t, tt.want, q.FinalAnswer())
		})
	}
}
