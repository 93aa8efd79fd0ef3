package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/waypoint/internal/tui/components"
)

// omnibarLimit caps how many results a global search computes
const omnibarLimit = 50

// handleKeyMsg routes a key press to the help screen, the omnibar, an
// active column filter or the global bindings, in that order.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m.quit()
	}

	if m.ShowHelp {
		m.ShowHelp = false
		return m, nil
	}

	if !m.Loaded {
		if key.Matches(msg, Keys.Quit) {
			return m.quit()
		}
		return m, nil
	}

	if m.Omnibar.IsVisible() {
		return m.handleOmnibarKey(msg)
	}

	top := m.ColumnStack.Top()
	if top == nil {
		return m, nil
	}

	// Typing into a column filter swallows every key
	if top.IsFilterTyping() {
		return m, top.Update(msg)
	}

	switch {
	case key.Matches(msg, Keys.Quit):
		return m.quit()

	case key.Matches(msg, Keys.Help):
		m.ShowHelp = true
		return m, nil

	case key.Matches(msg, Keys.GlobalSearch):
		m.Omnibar.Show()
		m.Omnibar.SetSize(m.Width, m.Height)
		return m, nil

	case key.Matches(msg, Keys.Filter):
		top.ToggleFilter()
		return m, nil

	case key.Matches(msg, Keys.Escape):
		if top.IsFiltering() {
			top.ClearFilter()
			return m, nil
		}
		return m.handleBack()

	case key.Matches(msg, Keys.ToggleInspector):
		m.ShowInspector = !m.ShowInspector
		m.updateLayout()
		return m, nil

	case key.Matches(msg, Keys.Right):
		return m.handleDrillIn()

	case key.Matches(msg, Keys.Enter):
		return m.handleEnter()

	case key.Matches(msg, Keys.Left):
		return m.handleBack()

	case key.Matches(msg, Keys.Toggle):
		return m.handleToggle()

	case key.Matches(msg, Keys.Complete):
		return m.handleCompleteLevel()

	case key.Matches(msg, Keys.Open):
		return m.handleOpen()
	}

	// Navigation keys go to the focused column
	return m, top.Update(msg)
}

func (m Model) handleOmnibarKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var selected bool
	m.Omnibar, cmd, selected = m.Omnibar.Update(msg)

	if selected {
		result, ok := m.Omnibar.SelectedResult()
		m.Omnibar.Hide()
		if ok {
			m.jumpTo(result)
		}
		return m, nil
	}

	if m.Omnibar.QueryChanged() {
		m.Omnibar.SetResults(m.Tracker.Search(m.Omnibar.Query(), omnibarLimit))
	}
	return m, cmd
}

// handleDrillIn opens the child column of a path or level
func (m Model) handleDrillIn() (tea.Model, tea.Cmd) {
	m.drillIntoSelection()
	return m, nil
}

// handleEnter drills into paths and levels and launches resources
func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	row, ok := m.selectedRow()
	if !ok {
		return m, nil
	}
	if row.Kind == components.RowResource {
		return m.handleOpen()
	}
	m.drillIntoSelection()
	return m, nil
}

func (m Model) handleBack() (tea.Model, tea.Cmd) {
	if !m.ColumnStack.CanGoBack() {
		return m, nil
	}
	m.ColumnStack.Pop()
	m.updateLayout()
	return m, nil
}

// handleToggle flips the selected topic or resource
func (m Model) handleToggle() (tea.Model, tea.Cmd) {
	row, ok := m.selectedRow()
	if !ok {
		return m, nil
	}

	var err error
	switch row.Kind {
	case components.RowTopic:
		err = m.Tracker.ToggleTopic(row.PathID, row.LevelID, row.ID)
	case components.RowResource:
		err = m.Tracker.ToggleResource(row.PathID, row.LevelID, row.ID)
	default:
		m.setStatus("Select a topic or resource to toggle")
		return m, nil
	}

	if err != nil {
		return m, errCmd(err, "toggle")
	}
	m.refreshRows()
	return m, nil
}

// handleCompleteLevel flips the manual completed flag of the selected level,
// or of the level whose items are shown.
func (m Model) handleCompleteLevel() (tea.Model, tea.Cmd) {
	top := m.ColumnStack.Top()

	var pathID, levelID string
	switch top.ColumnType() {
	case components.ColumnTypeLevels:
		row, ok := top.SelectedRow()
		if !ok {
			return m, nil
		}
		pathID, levelID = row.PathID, row.ID
	case components.ColumnTypeItems:
		pathID, levelID = top.PathID(), top.LevelID()
	default:
		m.setStatus("Select a level first")
		return m, nil
	}

	if err := m.Tracker.CompleteLevel(pathID, levelID); err != nil {
		return m, errCmd(err, "complete level")
	}
	if m.Tracker.IsLevelCompleted(pathID, levelID) {
		m.setStatus("Level marked complete")
	} else {
		m.setStatus("Level marked incomplete")
	}
	m.refreshRows()
	return m, nil
}

// handleOpen launches the selected resource in the browser
func (m Model) handleOpen() (tea.Model, tea.Cmd) {
	row, ok := m.selectedRow()
	if !ok || row.Kind != components.RowResource {
		m.setStatus("Select a resource to open")
		return m, nil
	}
	return m, OpenResourceCmd(m.Tracker, row.PathID, row.LevelID, row.ID, row.Title)
}

func errCmd(err error, context string) tea.Cmd {
	return func() tea.Msg {
		return ErrMsg{Err: err, Context: context}
	}
}
