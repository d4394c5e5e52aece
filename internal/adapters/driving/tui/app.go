package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/responda-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/responda-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/responda-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/responda-cli/internal/adapters/driving/tui/views/progress"
	"github.com/custodia-labs/responda-cli/internal/adapters/driving/tui/views/review"
	"github.com/custodia-labs/responda-cli/internal/core/domain"
	"github.com/custodia-labs/responda-cli/internal/core/ports/driving"
)

// eventBuffer is the progress channel capacity. Events beyond it are
// dropped rather than blocking the pipeline.
const eventBuffer = 64

// Job describes one answering run handed to the TUI.
type Job struct {
	// Upload is the request document to process.
	Upload *domain.RawUpload

	// TopK is the number of knowledge matches per question.
	// Zero means the configured default.
	TopK int
}

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// job is the answering run to execute.
	job Job

	// ctx and cancel control the pipeline lifetime. Quitting cancels
	// the run.
	ctx    context.Context
	cancel context.CancelFunc

	// styles holds the TUI styles.
	styles *styles.Styles

	// keymap holds the keybindings.
	keymap *keymap.KeyMap

	// progressView shows pipeline progress while answers are drafted.
	progressView *progress.View

	// reviewView is the answer review and editing view.
	reviewView *review.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	// events carries pipeline progress into the message loop.
	events chan domain.ProgressEvent

	// doc is the assembled document once processing completes.
	doc *domain.ResponseDocument

	// accepted is set when the user accepts the review.
	accepted bool

	// err holds a pipeline failure.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application for the given run.
func NewApp(ports *Ports, job Job) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}
	if job.Upload == nil {
		return nil, ErrMissingUpload
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()
	ctx, cancel := context.WithCancel(context.Background())

	return &App{
		ports:        ports,
		job:          job,
		ctx:          ctx,
		cancel:       cancel,
		styles:       s,
		keymap:       km,
		progressView: progress.NewView(s),
		reviewView:   review.NewView(s, km, ports.Action).WithContext(ctx),
		currentView:  messages.ViewProcessing,
		events:       make(chan domain.ProgressEvent, eventBuffer),
	}, nil
}

// Init implements tea.Model.
// It kicks off the pipeline and starts listening for its progress.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("responda - Answer Review"),
		a.progressView.Init(),
		a.startProcessing(),
		a.waitForProgress(),
	)
}

// startProcessing runs the answering pipeline off the message loop and
// delivers the outcome as a ProcessCompleted message.
func (a *App) startProcessing() tea.Cmd {
	return func() tea.Msg {
		opts := driving.ProcessOptions{
			TopK: a.job.TopK,
			Progress: func(ev domain.ProgressEvent) {
				select {
				case a.events <- ev:
				default:
					// Drop rather than stall the pipeline.
				}
			},
		}

		doc, err := a.ports.Answer.ProcessUpload(a.ctx, a.job.Upload, opts)
		close(a.events)
		return messages.ProcessCompleted{Doc: doc, Err: err}
	}
}

// waitForProgress relays the next progress event into the message loop.
// It re-arms itself until the pipeline closes the channel.
func (a *App) waitForProgress() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-a.events
		if !ok {
			return nil
		}
		return messages.ProcessProgress{Event: ev}
	}
}

// Update implements tea.Model.
// It handles messages and updates the model state.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		// Forward to all views for proper sizing
		a.progressView.SetDimensions(msg.Width, msg.Height)
		a.reviewView.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		// Global quit with ctrl+c, even while editing.
		if msg.String() == "ctrl+c" {
			a.cancel()
			return a, tea.Quit
		}

		switch a.currentView {
		case messages.ViewProcessing:
			if keymap.Matches(msg.String(), a.keymap.Quit) {
				a.cancel()
				return a, tea.Quit
			}
			return a, nil

		case messages.ViewReview:
			a.reviewView, cmd = a.reviewView.Update(msg)
			return a, cmd
		}
		return a, nil

	case messages.ProcessProgress:
		a.progressView, cmd = a.progressView.Update(msg)
		return a, tea.Batch(cmd, a.waitForProgress())

	case messages.ProcessCompleted:
		return a.handleProcessCompleted(msg)

	case messages.ReviewAccepted:
		a.accepted = true
		return a, tea.Quit

	case messages.Quit:
		a.cancel()
		return a, tea.Quit
	}

	// Forward other messages (spinner ticks and the like) to the
	// active view.
	switch a.currentView {
	case messages.ViewProcessing:
		a.progressView, cmd = a.progressView.Update(msg)
	case messages.ViewReview:
		a.reviewView, cmd = a.reviewView.Update(msg)
	}

	return a, cmd
}

// handleProcessCompleted moves the app from processing to review, or
// shuts it down when the pipeline failed.
func (a *App) handleProcessCompleted(msg messages.ProcessCompleted) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		// A cancelled run is a quit, not a failure.
		if errors.Is(msg.Err, context.Canceled) {
			return a, tea.Quit
		}
		a.err = msg.Err
		return a, tea.Quit
	}

	a.doc = msg.Doc
	a.currentView = messages.ViewReview
	a.reviewView.SetDocument(msg.Doc)
	return a, nil
}

// View implements tea.Model.
// It renders the current view as a string.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewReview:
		return a.reviewView.View()
	case messages.ViewProcessing:
		return a.progressView.View()
	default:
		return a.progressView.View()
	}
}

// Document returns the assembled document when the review was accepted,
// nil when the run was quit or never finished.
func (a *App) Document() *domain.ResponseDocument {
	if !a.accepted {
		return nil
	}
	return a.doc
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the pipeline failure, if any.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions (for testing).
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.progressView.SetDimensions(width, height)
	a.reviewView.SetDimensions(width, height)
}
