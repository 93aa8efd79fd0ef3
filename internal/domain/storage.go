package domain

// Backing is the single-document durable medium the progress store writes to.
// Load returns nil data and a nil error when nothing has been stored yet.
type Backing interface {
	Load() ([]byte, error)
	Save(data []byte) error
}

// SaveObserver is notified after every persistence attempt.
// err is nil when the write succeeded.
type SaveObserver func(err error)
