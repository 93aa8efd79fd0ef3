// Package progress owns the learning progress document: in-memory state,
// toggle operations and debounced persistence to a backing store.
package progress

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mmcdole/waypoint/internal/domain"
	"github.com/mmcdole/waypoint/internal/stats"
)

// DefaultSaveDelay is the quiet period after the last mutation before the
// document is written.
const DefaultSaveDelay = 1000 * time.Millisecond

// ErrClosed is returned by Flush after Close.
var ErrClosed = errors.New("progress store is closed")

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for load and save failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithScheduler replaces the timer-based scheduler (tests use a manual clock).
func WithScheduler(sched Scheduler) Option {
	return func(s *Store) {
		if sched != nil {
			s.sched = sched
		}
	}
}

// WithSaveDelay overrides DefaultSaveDelay.
func WithSaveDelay(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.delay = d
		}
	}
}

// Store holds the progress document for the lifetime of a session.
//
// Every mutation builds a new ProgressState instead of editing maps in place,
// so a snapshot returned by State stays internally consistent after later
// mutations. Writes to the backing store are coalesced: each mutation
// (re)starts the quiet period and only the latest document is written.
type Store struct {
	backing domain.Backing
	logger  *slog.Logger
	sched   Scheduler
	delay   time.Duration

	mu        sync.RWMutex
	state     domain.ProgressState
	ready     bool
	closed    bool
	observers []domain.SaveObserver

	// writeMu serializes backing writes and lets Close wait for one in flight.
	writeMu sync.Mutex
}

// New creates a store that is not ready yet; call Load before reading.
// A nil backing means no durable medium is available and progress stays in
// memory.
func New(backing domain.Backing, opts ...Option) *Store {
	s := &Store{
		backing: backing,
		logger:  slog.Default(),
		delay:   DefaultSaveDelay,
		state:   domain.ProgressState{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.sched == nil {
		s.sched = NewTimerScheduler()
	}
	return s
}

// Open creates a store and loads it.
func Open(backing domain.Backing, opts ...Option) *Store {
	s := New(backing, opts...)
	s.Load()
	return s
}

// Load reads the saved document. Missing, unreadable or malformed data all
// result in an empty document; none of them is an error for the caller.
func (s *Store) Load() {
	state := s.readBacking()

	s.mu.Lock()
	s.state = state
	s.ready = true
	s.mu.Unlock()
}

func (s *Store) readBacking() domain.ProgressState {
	if s.backing == nil {
		s.logger.Debug("no backing store available, progress kept in memory")
		return domain.ProgressState{}
	}

	data, err := s.backing.Load()
	if err != nil {
		s.logger.Error("failed to read progress data", "error", err)
		return domain.ProgressState{}
	}
	if len(data) == 0 {
		return domain.ProgressState{}
	}

	var state domain.ProgressState
	if err := json.Unmarshal(data, &state); err != nil {
		s.logger.Error("failed to parse progress data", "error", err, "bytes", len(data))
		return domain.ProgressState{}
	}
	if state == nil {
		state = domain.ProgressState{}
	}
	s.logger.Debug("loaded progress", "paths", len(state))
	return state
}

// Ready reports whether Load has completed.
func (s *Store) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// OnSave registers an observer called after every persistence attempt.
func (s *Store) OnSave(fn domain.SaveObserver) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	s.observers = append(s.observers, fn)
	s.mu.Unlock()
}

// === Mutations ===

// ToggleTopic flips a topic's completed flag. An absent flag counts as false,
// so the first toggle marks the topic completed.
func (s *Store) ToggleTopic(domainID, levelID, topicID string) {
	s.update(func(state domain.ProgressState) domain.ProgressState {
		return withLevel(state, domainID, levelID, func(lp domain.LevelProgress) domain.LevelProgress {
			lp.Topics = flip(lp.Topics, topicID)
			return lp
		})
	})
}

// ToggleResource flips a resource's viewed flag.
func (s *Store) ToggleResource(domainID, levelID, resourceID string) {
	s.update(func(state domain.ProgressState) domain.ProgressState {
		return withLevel(state, domainID, levelID, func(lp domain.LevelProgress) domain.LevelProgress {
			lp.Resources = flip(lp.Resources, resourceID)
			return lp
		})
	})
}

// CompleteLevel flips a level's manual completed flag. It does not look at
// topic completion.
func (s *Store) CompleteLevel(domainID, levelID string) {
	s.update(func(state domain.ProgressState) domain.ProgressState {
		return withLevel(state, domainID, levelID, func(lp domain.LevelProgress) domain.LevelProgress {
			lp.Completed = !lp.Completed
			return lp
		})
	})
}

func (s *Store) update(fn func(domain.ProgressState) domain.ProgressState) {
	s.mu.Lock()
	s.state = fn(s.state)
	persist := s.ready && !s.closed && s.backing != nil
	s.mu.Unlock()

	if persist {
		s.sched.Schedule(s.persist, s.delay)
	}
}

// === Reads ===

// State returns the current document. Callers must not modify it.
func (s *Store) State() domain.ProgressState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// IsTopicCompleted reports a topic's flag, false when absent.
func (s *Store) IsTopicCompleted(domainID, levelID, topicID string) bool {
	return s.State().TopicCompleted(domainID, levelID, topicID)
}

// IsResourceViewed reports a resource's flag, false when absent.
func (s *Store) IsResourceViewed(domainID, levelID, resourceID string) bool {
	return s.State().ResourceViewed(domainID, levelID, resourceID)
}

// LevelProgress returns a copy of the stored level state, or the zero value.
// Writing to it does not affect the store.
func (s *Store) LevelProgress(domainID, levelID string) domain.LevelProgress {
	return s.State().Level(domainID, levelID).Clone()
}

// DomainStats aggregates the current document for one path.
func (s *Store) DomainStats(domainID string, levels []domain.Level) domain.DomainStats {
	return stats.Domain(s.State(), domainID, levels)
}

// GlobalProgress aggregates the current document across paths.
func (s *Store) GlobalProgress(paths []domain.Path) float64 {
	return stats.Global(s.State(), paths)
}

// === Persistence ===

// persist runs when the quiet period elapses. Failures are logged and
// dropped; the in-memory document is untouched.
func (s *Store) persist() {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.RLock()
	closed := s.closed
	snapshot := s.state
	s.mu.RUnlock()
	if closed {
		return
	}

	err := s.write(snapshot)
	if err != nil {
		s.logger.Warn("failed to save progress", "error", err)
	}
	s.notify(err)
}

// Flush writes the current document immediately, cancelling any pending
// debounced write.
func (s *Store) Flush() error {
	s.sched.CancelPending()

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.RLock()
	closed := s.closed
	snapshot := s.state
	s.mu.RUnlock()
	if closed {
		return ErrClosed
	}
	if s.backing == nil {
		return nil
	}

	err := s.write(snapshot)
	s.notify(err)
	return err
}

func (s *Store) write(state domain.ProgressState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode progress: %w", err)
	}
	if err := s.backing.Save(data); err != nil {
		return fmt.Errorf("failed to write progress: %w", err)
	}
	s.logger.Debug("progress saved", "bytes", len(data))
	return nil
}

func (s *Store) notify(err error) {
	s.mu.RLock()
	observers := append([]domain.SaveObserver(nil), s.observers...)
	s.mu.RUnlock()
	for _, fn := range observers {
		fn(err)
	}
}

// Close cancels a pending write without flushing it and waits for a write
// already in progress. Edits made during the last quiet period are lost.
func (s *Store) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.sched.CancelPending()

	// Wait for a write that was already running.
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
}

// === Copy-on-write helpers ===

// withLevel returns a copy of state in which one level has been replaced by
// fn's result. Only the maps on the path to that level are copied.
func withLevel(state domain.ProgressState, domainID, levelID string, fn func(domain.LevelProgress) domain.LevelProgress) domain.ProgressState {
	next := make(domain.ProgressState, len(state)+1)
	for k, v := range state {
		next[k] = v
	}

	dp := state[domainID]
	nextDP := make(domain.DomainProgress, len(dp)+1)
	for k, v := range dp {
		nextDP[k] = v
	}

	nextDP[levelID] = fn(dp.Level(levelID))
	next[domainID] = nextDP
	return next
}

// flip returns a copy of flags with key toggled.
func flip[M ~map[string]bool](flags M, key string) M {
	out := make(M, len(flags)+1)
	for k, v := range flags {
		out[k] = v
	}
	out[key] = !flags[key]
	return out
}
