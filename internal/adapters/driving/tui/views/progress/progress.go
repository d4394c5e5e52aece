// Package progress provides the pipeline progress view for the TUI.
package progress

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/responda-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/responda-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/responda-cli/internal/core/domain"
)

// maxHistory caps how many finished stages stay on screen.
const maxHistory = 6

// View shows live pipeline progress while answers are drafted.
type View struct {
	styles  *styles.Styles
	spinner spinner.Model
	bar     progress.Model

	stage   domain.ProgressStage
	current int
	total   int
	message string
	history []string

	width  int
	height int
	ready  bool
}

// NewView creates a new progress view.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	sp := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(s.Theme().Primary)),
	)

	bar := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(40),
	)

	return &View{
		styles:  s,
		spinner: sp,
		bar:     bar,
		width:   80,
		height:  24,
	}
}

// Init starts the spinner.
func (v *View) Init() tea.Cmd {
	return v.spinner.Tick
}

// Update handles messages for the progress view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case messages.ProcessProgress:
		v.apply(msg.Event)
		return v, nil
	}

	return v, nil
}

// apply folds one progress event into the view state.
func (v *View) apply(ev domain.ProgressEvent) {
	if v.stage != "" && ev.Stage != v.stage {
		v.history = append(v.history, stageLabel(v.stage))
		if len(v.history) > maxHistory {
			v.history = v.history[1:]
		}
	}

	v.stage = ev.Stage
	v.current = ev.Current
	v.total = ev.Total
	v.message = ev.Message
}

// View renders the progress view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, maxHistory+6)

	header := v.styles.Title.Render("Responda")
	sections = append(sections, header, "")

	for _, h := range v.history {
		sections = append(sections, v.styles.Muted.Render("✓ "+h))
	}

	line := v.spinner.View() + " " + v.styles.Normal.Render(v.currentLine())
	sections = append(sections, line)

	if v.total > 0 {
		percent := float64(v.current) / float64(v.total)
		sections = append(sections, "", v.bar.ViewAs(percent))
	}

	if v.message != "" {
		sections = append(sections, "", v.styles.Muted.Render(snippet(v.message, v.width-4)))
	}

	sections = append(sections, "", v.styles.Help.Render("q: quit"))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// currentLine describes the running stage with its item counts.
func (v *View) currentLine() string {
	if v.stage == "" {
		return "Starting..."
	}
	label := stageLabel(v.stage)
	if v.total > 0 {
		return fmt.Sprintf("%s (%d/%d)", label, v.current, v.total)
	}
	return label
}

// stageLabel maps a pipeline stage to its display label.
func stageLabel(stage domain.ProgressStage) string {
	switch stage {
	case domain.StageExtract:
		return "Extracting text"
	case domain.StageDetect:
		return "Detecting questions"
	case domain.StageAnswer:
		return "Answering questions"
	case domain.StageSummary:
		return "Writing summary"
	case domain.StageChunk:
		return "Chunking document"
	case domain.StageEmbed:
		return "Embedding chunks"
	default:
		return string(stage)
	}
}

// snippet caps a line so it never wraps the terminal row.
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

	barWidth := width - 8
	if barWidth > 60 {
		barWidth = 60
	}
	if barWidth < 10 {
		barWidth = 10
	}
	v.bar.Width = barWidth
}

// Stage returns the currently running stage.
func (v *View) Stage() domain.ProgressStage {
	return v.stage
}

// Current returns the current item count within the stage.
func (v *View) Current() int {
	return v.current
}

// Total returns the stage's total item count, 0 when unknown.
func (v *View) Total() int {
	return v.total
}

// Ready returns whether the view has received dimensions.
func (v *View) Ready() bool {
	return v.ready
}
