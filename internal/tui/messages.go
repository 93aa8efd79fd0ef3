package tui

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// ProgressLoadedMsg signals that saved progress has been read
type ProgressLoadedMsg struct{}

// SaveResultMsg reports one debounced save attempt
type SaveResultMsg struct {
	Err error
}

// ResourceOpenedMsg signals that a resource was handed to the browser
type ResourceOpenedMsg struct {
	Title string
	Err   error
}
