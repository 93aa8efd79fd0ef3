package tui

// ChannelObserver forwards save results from the persistence goroutine to
// the Bubble Tea loop.
type ChannelObserver struct {
	ch chan<- error
}

// NewChannelObserver creates a new channel-based observer.
func NewChannelObserver(ch chan<- error) *ChannelObserver {
	return &ChannelObserver{ch: ch}
}

// OnSave sends the result to the channel (non-blocking if full).
func (o *ChannelObserver) OnSave(err error) {
	select {
	case o.ch <- err:
	default: // Non-blocking if channel full
	}
}
