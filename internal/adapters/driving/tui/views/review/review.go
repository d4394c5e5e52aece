// Package review provides the answer review and editing view for the TUI.
package review

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/responda-cli/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/responda-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/responda-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/responda-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/responda-cli/internal/core/domain"
	"github.com/custodia-labs/responda-cli/internal/core/ports/driving"
)

// listHeight is the maximum number of question rows shown at once.
const listHeight = 8

// View lets the user walk the answered questions, edit answers, and
// accept the document for output.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	statusbar *status.Bar
	textarea  textarea.Model

	actionService driving.AnswerActionService
	ctx           context.Context

	doc      *domain.ResponseDocument
	selected int
	editing  bool

	width  int
	height int
	ready  bool
}

// NewView creates a new review view.
func NewView(s *styles.Styles, km *keymap.KeyMap, actionService driving.AnswerActionService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	ta := textarea.New()
	ta.Placeholder = "Type the answer..."
	ta.ShowLineNumbers = false
	ta.CharLimit = 0

	return &View{
		styles:        s,
		keymap:        km,
		statusbar:     status.NewBar(s, km),
		textarea:      ta,
		actionService: actionService,
		ctx:           context.Background(),
		width:         80,
		height:        24,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// SetDocument installs the document under review and resets selection.
func (v *View) SetDocument(doc *domain.ResponseDocument) {
	v.doc = doc
	v.selected = 0
	v.editing = false
	v.statusbar.SetState(status.StateReviewing)
	if doc != nil {
		v.statusbar.SetQuestionCount(len(doc.Questions))
	}
}

// Update handles messages for the review view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	}

	if v.editing {
		var cmd tea.Cmd
		v.textarea, cmd = v.textarea.Update(msg)
		return v, cmd
	}

	return v, nil
}

// handleKeyMsg processes keyboard input.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if v.editing {
		if keymap.Matches(msg.String(), v.keymap.Save) {
			v.finishEditing()
			return v, nil
		}
		var cmd tea.Cmd
		v.textarea, cmd = v.textarea.Update(msg)
		return v, cmd
	}

	keyStr := msg.String()

	switch {
	case keymap.Matches(keyStr, v.keymap.Up):
		v.moveUp()
		return v, nil

	case keymap.Matches(keyStr, v.keymap.Down):
		v.moveDown()
		return v, nil

	case keymap.Matches(keyStr, v.keymap.Edit):
		return v, v.startEditing()

	case keymap.Matches(keyStr, v.keymap.Copy):
		v.copySelected()
		return v, nil

	case keymap.Matches(keyStr, v.keymap.Accept):
		return v, func() tea.Msg {
			return messages.ReviewAccepted{}
		}

	case keymap.Matches(keyStr, v.keymap.Quit):
		return v, func() tea.Msg {
			return messages.Quit{}
		}
	}

	return v, nil
}

// moveUp selects the previous question.
func (v *View) moveUp() {
	if v.selected > 0 {
		v.selected--
	}
}

// moveDown selects the next question.
func (v *View) moveDown() {
	if v.doc != nil && v.selected < len(v.doc.Questions)-1 {
		v.selected++
	}
}

// startEditing opens the selected answer in the textarea.
func (v *View) startEditing() tea.Cmd {
	q := v.selectedQuestion()
	if q == nil {
		return nil
	}

	v.textarea.SetValue(q.FinalAnswer())
	v.editing = true
	v.statusbar.SetState(status.StateEditing)
	return v.textarea.Focus()
}

// finishEditing stores the textarea content as the edited answer.
func (v *View) finishEditing() {
	q := v.selectedQuestion()
	if q != nil {
		q.EditedAnswer = strings.TrimSpace(v.textarea.Value())
	}

	v.editing = false
	v.textarea.Blur()
	v.statusbar.SetState(status.StateReviewing)
	v.statusbar.SetMessage("")
}

// copySelected copies the selected answer to the clipboard.
func (v *View) copySelected() {
	q := v.selectedQuestion()
	if q == nil {
		return
	}

	if v.actionService == nil {
		v.statusbar.SetMessage("Copy not available")
		return
	}

	if err := v.actionService.CopyToClipboard(v.ctx, q); err != nil {
		v.statusbar.SetMessage("Copy: " + err.Error())
		return
	}
	v.statusbar.SetMessage(fmt.Sprintf("Copied answer %d", q.Index))
}

// selectedQuestion returns the question under the cursor, nil when the
// document is absent or empty.
func (v *View) selectedQuestion() *domain.AnsweredQuestion {
	if v.doc == nil || len(v.doc.Questions) == 0 {
		return nil
	}
	if v.selected < 0 || v.selected >= len(v.doc.Questions) {
		return nil
	}
	return &v.doc.Questions[v.selected]
}

// View renders the review view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}
	if v.doc == nil {
		return v.styles.Muted.Render("No document to review.")
	}

	sections := make([]string, 0, listHeight+10)

	header := v.styles.Title.Render(v.doc.Title)
	sections = append(sections, header)
	sections = append(sections, v.styles.Muted.Render(v.countsLine()), "")

	sections = append(sections, v.renderList()...)
	sections = append(sections, "")
	sections = append(sections, v.renderDetail()...)

	sections = append(sections, "", v.statusbar.View())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// countsLine summarises how the run went.
func (v *View) countsLine() string {
	failed := 0
	for i := range v.doc.Questions {
		if v.doc.Questions[i].Status == domain.QuestionFailed {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Sprintf("%d questions · %d failed", len(v.doc.Questions), failed)
	}
	return fmt.Sprintf("%d questions", len(v.doc.Questions))
}

// renderList renders the question rows around the selection.
func (v *View) renderList() []string {
	questions := v.doc.Questions
	if len(questions) == 0 {
		return []string{v.styles.Muted.Render("No questions detected.")}
	}

	start, end := listWindow(len(questions), v.selected, listHeight)

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		q := &questions[i]
		row := fmt.Sprintf("%s %d. %s", v.statusIcon(q), q.Index, snippet(q.Question, v.width-12))

		if i == v.selected {
			lines = append(lines, v.styles.Selected.Render("> "+row))
		} else {
			lines = append(lines, v.styles.Normal.Render("  "+row))
		}
	}
	return lines
}

// renderDetail renders the selected question with its answer and context.
func (v *View) renderDetail() []string {
	q := v.selectedQuestion()
	if q == nil {
		return nil
	}

	lines := make([]string, 0, 6)
	lines = append(lines, v.styles.Subtitle.Render("Answer"))

	if v.editing {
		lines = append(lines, v.textarea.View())
	} else {
		answer := q.FinalAnswer()
		if answer == "" {
			answer = "(no answer)"
		}
		lines = append(lines, v.styles.Normal.Width(v.width-4).Render(answer))
	}

	meta := fmt.Sprintf("Confidence %d%% · %d sources", int(q.Confidence*100), len(q.Matches))
	lines = append(lines, v.styles.Muted.Render(meta))

	if files := sourceFiles(q.Matches); files != "" {
		lines = append(lines, v.styles.Muted.Render("From: "+snippet(files, v.width-10)))
	}

	return lines
}

// statusIcon marks a question row with its lifecycle outcome.
func (v *View) statusIcon(q *domain.AnsweredQuestion) string {
	switch q.Status {
	case domain.QuestionCompleted:
		return v.styles.Success.Render("✓")
	case domain.QuestionFailed:
		return v.styles.Error.Render("✗")
	default:
		return v.styles.Muted.Render("·")
	}
}

// listWindow clamps a window of the given size around the selection.
func listWindow(count, selected, size int) (int, int) {
	if count <= size {
		return 0, count
	}

	start := selected - size/2
	if start < 0 {
		start = 0
	}
	if start+size > count {
		start = count - size
	}
	return start, start + size
}

// sourceFiles joins the distinct source file names of the matches.
func sourceFiles(matches []domain.RetrievedMatch) string {
	seen := make(map[string]struct{}, len(matches))
	files := make([]string, 0, len(matches))
	for _, m := range matches {
		if m.SourceFile == "" {
			continue
		}
		if _, ok := seen[m.SourceFile]; ok {
			continue
		}
		seen[m.SourceFile] = struct{}{}
		files = append(files, m.SourceFile)
	}
	return strings.Join(files, ", ")
}

// snippet caps a line so rows never wrap the terminal.
func snippet(s string, maxLen int) string {
	if maxLen < 4 || len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.statusbar.SetWidth(width)

	taWidth := width - 6
	if taWidth < 20 {
		taWidth = 20
	}
	v.textarea.SetWidth(taWidth)
	v.textarea.SetHeight(6)
}

// Selected returns the index of the question under the cursor.
func (v *View) Selected() int {
	return v.selected
}

// Editing returns whether an answer is being edited.
func (v *View) Editing() bool {
	return v.editing
}

// Ready returns whether the view has received dimensions.
func (v *View) Ready() bool {
	return v.ready
}
