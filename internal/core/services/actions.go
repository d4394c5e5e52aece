package services

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/custodia-labs/responda-cli/internal/core/domain"
	"github.com/custodia-labs/responda-cli/internal/core/ports/driving"
)

// Operating system identifiers.
const (
	osDarwin  = "darwin"
	osLinux   = "linux"
	osWindows = "windows"
)

// Ensure AnswerActionService implements the interface.
var _ driving.AnswerActionService = (*AnswerActionService)(nil)

// AnswerActionService provides actions on answered questions.
type AnswerActionService struct{}

// NewAnswerActionService creates a new answer action service.
func NewAnswerActionService() *AnswerActionService {
	return &AnswerActionService{}
}

// CopyToClipboard copies the question's final answer to the system clipboard.
func (s *AnswerActionService) CopyToClipboard(_ context.Context, question *domain.AnsweredQuestion) error {
	if question == nil {
		return fmt.Errorf("question is nil")
	}

	return copyToClipboard(question.FinalAnswer())
}

// copyToClipboard copies text to the system clipboard using OS-specific commands.
func copyToClipboard(text string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case osDarwin:
		cmd = exec.Command("pbcopy")
	case osLinux:
		// Try xclip first, fall back to xsel
		if _, err := exec.LookPath("xclip"); err == nil {
			cmd = exec.Command("xclip", "-selection", "clipboard")
		} else if _, err := exec.LookPath("xsel"); err == nil {
			cmd = exec.Command("xsel", "--clipboard", "--input")
		} else {
			return fmt.Errorf("no clipboard utility found (install xclip or xsel)")
		}
	case osWindows:
		cmd = exec.Command("cmd", "/c", "clip")
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	cmd.Stdin = strings.NewReader(text)
	return cmd.Run()
}
