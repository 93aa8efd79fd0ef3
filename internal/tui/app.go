package tui

import (
	"log/slog"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/waypoint/internal/service"
	"github.com/mmcdole/waypoint/internal/tui/components"
)

// saveBuffer bounds how many unread save results the observer can queue
const saveBuffer = 8

// Options configures the model
type Options struct {
	ShowInspector bool
	Logger        *slog.Logger
}

// Model is the main Bubble Tea model for the application
type Model struct {
	// Application state
	Ready  bool // window size known
	Loaded bool // saved progress read

	// Services
	Tracker *service.Tracker
	logger  *slog.Logger

	// UI Components - Miller Columns
	ColumnStack *ColumnStack         // Stack of navigable list columns
	Inspector   components.Inspector // Details for the focused selection
	Omnibar     components.Omnibar   // Global search modal
	Help        help.Model

	// Dimensions
	Width  int
	Height int

	// UI state
	StatusMsg     string
	StatusIsErr   bool
	ShowInspector bool
	ShowHelp      bool

	saveCh chan error
}

// NewModel creates a new application model. It subscribes to save results
// so the footer can report them.
func NewModel(tracker *service.Tracker, opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	saveCh := make(chan error, saveBuffer)
	tracker.OnSave(NewChannelObserver(saveCh).OnSave)

	return Model{
		Tracker:       tracker,
		logger:        logger,
		ColumnStack:   NewColumnStack(),
		Inspector:     components.NewInspector(),
		Omnibar:       components.NewOmnibar(),
		Help:          help.New(),
		ShowInspector: opts.ShowInspector,
		saveCh:        saveCh,
	}
}

// Init loads progress and starts listening for save results
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		LoadProgressCmd(m.Tracker),
		WaitForSaveCmd(m.saveCh),
	)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.updateLayout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case ProgressLoadedMsg:
		m.Loaded = true
		m.ColumnStack.Reset(components.NewPathsColumn(m.pathRows()))
		m.updateLayout()
		m.logger.Info("progress loaded", "paths", len(m.Tracker.Paths()))
		return m, nil

	case SaveResultMsg:
		if msg.Err != nil {
			m.setError("Save failed: " + msg.Err.Error())
		} else {
			m.setStatus("Progress saved")
		}
		return m, WaitForSaveCmd(m.saveCh)

	case ResourceOpenedMsg:
		if msg.Err != nil {
			m.setError(msg.Err.Error())
		} else {
			m.setStatus("Opened " + msg.Title)
		}
		m.refreshRows()
		return m, nil

	case ErrMsg:
		m.logger.Error("ui error", "error", msg.Err, "context", msg.Context)
		m.setError(msg.Error())
		return m, nil
	}

	// Forward everything else (cursor blink etc) to the active input
	if m.Omnibar.IsVisible() {
		var cmd tea.Cmd
		m.Omnibar, cmd, _ = m.Omnibar.Update(msg)
		return m, cmd
	}
	if top := m.ColumnStack.Top(); top != nil && top.IsFilterTyping() {
		return m, top.Update(msg)
	}
	return m, nil
}

// quit stops persistence. A write still inside its quiet period is dropped.
func (m Model) quit() (tea.Model, tea.Cmd) {
	m.Tracker.Close()
	return m, tea.Quit
}

func (m *Model) setStatus(s string) {
	m.StatusMsg = s
	m.StatusIsErr = false
}

func (m *Model) setError(s string) {
	m.StatusMsg = s
	m.StatusIsErr = true
}
