package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/waypoint/internal/service"
)

// Command factories for async operations

// LoadProgressCmd reads saved progress off the UI goroutine
func LoadProgressCmd(svc *service.Tracker) tea.Cmd {
	return func() tea.Msg {
		svc.Load()
		return ProgressLoadedMsg{}
	}
}

// WaitForSaveCmd blocks until the next save result arrives
func WaitForSaveCmd(ch <-chan error) tea.Cmd {
	return func() tea.Msg {
		err, ok := <-ch
		if !ok {
			return nil
		}
		return SaveResultMsg{Err: err}
	}
}

// OpenResourceCmd launches a resource and marks it viewed
func OpenResourceCmd(svc *service.Tracker, pathID, levelID, resourceID, title string) tea.Cmd {
	return func() tea.Msg {
		err := svc.OpenResource(pathID, levelID, resourceID)
		return ResourceOpenedMsg{Title: title, Err: err}
	}
}
