package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/handiism/social-transcriber/internal/bulk"
	"github.com/handiism/social-transcriber/internal/config"
	ioutils "github.com/handiism/social-transcriber/internal/io"
)

// maxLogs is how many progress lines stay on screen.
const maxLogs = 10

// State represents the current UI state.
type State int

const (
	StateInput State = iota
	StatePlanning
	StateTranscribing
	StateComplete
	StateError
)

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   bulk.ProgressLevel
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state     State
	textInput textinput.Model
	spinner   spinner.Model
	progress  progress.Model
	settings  *config.Settings
	logs      []LogEntry
	sources   []string
	report    *bulk.Report
	notice    string
	err       error

	// Run context
	ctx    context.Context
	cancel context.CancelFunc

	// Progress events from the running pipeline
	events chan bulk.ProgressEvent

	// Job progress
	totalJobs     int
	completedJobs int
	failedJobs    int
	removedURLs   int

	// Options
	enhance             bool
	platformTranscripts bool
	usePendingFile      bool
	pendingURLs         int
	verbose             bool

	width  int
	height int
}

// NewModel creates a new TUI model working with settings.
func NewModel(settings *config.Settings) Model {
	input := textinput.New()
	input.Placeholder = "https://www.youtube.com/@creator https://vimeo.com/123"
	input.CharLimit = 2000
	input.Width = 60
	input.Focus()

	bar := progress.New(progress.WithDefaultGradient(), progress.WithWidth(50))

	m := Model{
		state:               StateInput,
		textInput:           input,
		spinner:             spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(lipgloss.NewStyle().Foreground(colorCoral))),
		progress:            bar,
		settings:            settings,
		platformTranscripts: settings.PlatformTranscripts,
	}
	m.ctx, m.cancel = context.WithCancel(context.Background())
	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Message types
type (
	// ProgressMsg carries one event from the pipeline.
	ProgressMsg struct {
		Event bulk.ProgressEvent
	}

	// EventsClosedMsg is sent once the pipeline stops emitting events.
	EventsClosedMsg struct{}

	// PlanDoneMsg is sent when URL expansion completes.
	PlanDoneMsg struct {
		Run *pipelineRun
		Err error
	}

	// RunDoneMsg is sent when every job has finished.
	RunDoneMsg struct {
		Report     *bulk.Report
		Removed    int
		PendingErr error
	}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.progress.Width = clamp(msg.Width-20, 20, 80)
		return m, nil

	case tea.KeyMsg:
		if next, cmd, handled := m.handleKey(msg); handled {
			return next, cmd
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case ProgressMsg:
		m.applyEvent(msg.Event)
		cmds = append(cmds, waitForEvent(m.events))

	case EventsClosedMsg:
		m.events = nil

	case PlanDoneMsg:
		if msg.Err != nil {
			m.fail(msg.Err)
			break
		}
		m.sources = msg.Run.plan.Sources
		m.totalJobs = len(msg.Run.plan.Jobs)
		m.state = StateTranscribing
		cmds = append(cmds, runPipeline(m.ctx, msg.Run, m.events))

	case RunDoneMsg:
		m.finish(msg)
	}

	if m.state == StateInput {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// handleKey reacts to keys bound in the current state. Unhandled keys fall
// through to the text input.
func (m Model) handleKey(key tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	if key.String() == "ctrl+c" {
		m.cancel()
		return m, tea.Quit, true
	}

	switch m.state {
	case StateInput:
		switch key.String() {
		case "esc":
			return m, tea.Quit, true
		case "enter":
			next, cmd := m.start()
			return next, cmd, true
		case "ctrl+e":
			m.enhance = !m.enhance
		case "ctrl+t":
			m.platformTranscripts = !m.platformTranscripts
		case "ctrl+f":
			m.togglePendingFile()
		case "ctrl+o":
			m.verbose = !m.verbose
		default:
			return m, nil, false
		}
		return m, nil, true

	case StatePlanning, StateTranscribing:
		if key.String() == "esc" {
			m.cancel()
			m.notice = "Cancelling, waiting for running jobs..."
		}
		return m, nil, true

	case StateComplete, StateError:
		switch key.String() {
		case "q":
			return m, tea.Quit, true
		case "r":
			m.reset()
			return m, textinput.Blink, true
		}
	}
	return m, nil, true
}

// applyEvent folds one pipeline event into the counters and the log.
func (m *Model) applyEvent(event bulk.ProgressEvent) {
	if done := event.Done; done != nil {
		m.completedJobs, m.totalJobs = done.Completed, done.Total
		if !done.Result.Succeeded() {
			m.failedJobs++
		}
	}
	if event.Level == bulk.LevelVerbose && !m.verbose {
		return
	}
	m.addLog(event.Message, event.Level)
}

func (m *Model) fail(err error) {
	m.state = StateError
	m.err = err
}

func (m *Model) finish(msg RunDoneMsg) {
	m.report = msg.Report
	m.removedURLs = msg.Removed
	m.notice = ""
	if msg.PendingErr != nil {
		m.addLog(fmt.Sprintf("Could not update pending file: %v", msg.PendingErr), bulk.LevelError)
	}
	if m.ctx.Err() != nil {
		m.fail(fmt.Errorf("cancelled by user"))
		return
	}
	m.state = StateComplete
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

// start validates the input and kicks off planning.
func (m Model) start() (tea.Model, tea.Cmd) {
	urls := strings.Fields(m.textInput.Value())
	if len(urls) == 0 && !m.usePendingFile {
		m.notice = "Enter at least one URL or enable the pending file (ctrl+f)"
		return m, nil
	}

	settings := *m.settings
	settings.PlatformTranscripts = m.platformTranscripts

	m.notice = ""
	m.state = StatePlanning
	m.events = make(chan bulk.ProgressEvent, 256)

	req := runRequest{
		settings: &settings,
		urls:     urls,
		enhance:  m.enhance,
		verbose:  m.verbose,
	}
	if m.usePendingFile {
		req.pendingPath = settings.BulkFile
	}

	return m, tea.Batch(
		planPipeline(m.ctx, req, m.events),
		waitForEvent(m.events),
		m.spinner.Tick,
	)
}

// togglePendingFile switches the pending file on or off and counts the
// URLs it currently holds.
func (m *Model) togglePendingFile() {
	m.usePendingFile = !m.usePendingFile
	m.pendingURLs = 0
	if !m.usePendingFile {
		return
	}
	urls, err := ioutils.LoadURLs(m.settings.BulkFile)
	if err != nil {
		m.notice = fmt.Sprintf("Could not read %s: %v", m.settings.BulkFile, err)
		return
	}
	m.pendingURLs = len(urls)
}

// reset starts over with a fresh model, keeping the chosen options and
// the window size.
func (m *Model) reset() {
	fresh := NewModel(m.settings)
	fresh.width, fresh.height = m.width, m.height
	fresh.progress.Width = m.progress.Width
	fresh.enhance = m.enhance
	fresh.platformTranscripts = m.platformTranscripts
	fresh.verbose = m.verbose
	*m = fresh
}

func (m *Model) addLog(message string, level bulk.ProgressLevel) {
	m.logs = append(m.logs, LogEntry{Message: message, Level: level})
	if len(m.logs) > maxLogs {
		m.logs = m.logs[len(m.logs)-maxLogs:]
	}
}

// Run starts the TUI application.
func Run(settings *config.Settings) error {
	p := tea.NewProgram(NewModel(settings), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
