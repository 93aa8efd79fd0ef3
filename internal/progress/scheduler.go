package progress

import (
	"sync"
	"time"
)

// Scheduler runs at most one delayed task at a time. Scheduling a new task
// replaces any task still pending.
type Scheduler interface {
	Schedule(fn func(), delay time.Duration)
	CancelPending()
}

// TimerScheduler implements Scheduler with time.AfterFunc.
type TimerScheduler struct {
	mu    sync.Mutex
	timer *time.Timer
	gen   uint64
}

// NewTimerScheduler creates a scheduler backed by real timers.
func NewTimerScheduler() *TimerScheduler {
	return &TimerScheduler{}
}

// Schedule runs fn after delay unless another Schedule or CancelPending
// call happens first.
func (s *TimerScheduler) Schedule(fn func(), delay time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
	}
	s.gen++
	gen := s.gen
	s.timer = time.AfterFunc(delay, func() {
		// A timer that already fired cannot be stopped; the generation check
		// drops callbacks superseded while they were waiting on the lock.
		s.mu.Lock()
		if gen != s.gen {
			s.mu.Unlock()
			return
		}
		s.timer = nil
		s.mu.Unlock()
		fn()
	})
}

// CancelPending drops the pending task, if any.
func (s *TimerScheduler) CancelPending() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.gen++
}

// Pending reports whether a task is waiting to run.
func (s *TimerScheduler) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timer != nil
}
