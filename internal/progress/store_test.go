package progress

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/waypoint/internal/domain"
	"github.com/mmcdole/waypoint/internal/store"
)

// manualScheduler is a virtual clock: pending work only runs on Advance.
type manualScheduler struct {
	mu        sync.Mutex
	now       time.Duration
	due       time.Duration
	pending   func()
	scheduled int
	cancelled int
}

func (m *manualScheduler) Schedule(fn func(), delay time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pending != nil {
		m.cancelled++
	}
	m.pending = fn
	m.due = m.now + delay
	m.scheduled++
}

func (m *manualScheduler) CancelPending() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pending != nil {
		m.cancelled++
	}
	m.pending = nil
}

func (m *manualScheduler) Advance(d time.Duration) {
	m.mu.Lock()
	m.now += d
	var fn func()
	if m.pending != nil && m.now >= m.due {
		fn = m.pending
		m.pending = nil
	}
	m.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (m *manualScheduler) Pending() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending != nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestStore(t *testing.T, seed []byte) (*Store, *store.MemoryBacking, *manualScheduler) {
	t.Helper()
	backing := store.NewMemoryBacking(seed)
	sched := &manualScheduler{}
	s := Open(backing, WithScheduler(sched), WithLogger(quietLogger()))
	t.Cleanup(s.Close)
	return s, backing, sched
}

func decode(t *testing.T, data []byte) domain.ProgressState {
	t.Helper()
	var state domain.ProgressState
	require.NoError(t, json.Unmarshal(data, &state))
	return state
}

func TestStore_StartsEmptyAndReady(t *testing.T) {
	s, backing, sched := newTestStore(t, nil)

	assert.True(t, s.Ready())
	assert.Empty(t, s.State())
	assert.False(t, sched.Pending())
	assert.Zero(t, backing.SaveCalls())
}

func TestStore_NotReadyBeforeLoad(t *testing.T) {
	backing := store.NewMemoryBacking([]byte(`{"d":{"l":{"topics":{"t":true},"resources":{},"completed":false}}}`))
	sched := &manualScheduler{}
	s := New(backing, WithScheduler(sched), WithLogger(quietLogger()))
	defer s.Close()

	assert.False(t, s.Ready())

	s.ToggleTopic("d", "l", "other")
	assert.False(t, sched.Pending(), "nothing is persisted before load")

	s.Load()
	assert.True(t, s.Ready())
	assert.True(t, s.IsTopicCompleted("d", "l", "t"))
	assert.False(t, s.IsTopicCompleted("d", "l", "other"), "load replaces pre-ready state")
}

func TestStore_DefaultFalseReads(t *testing.T) {
	s, _, _ := newTestStore(t, nil)

	assert.False(t, s.IsTopicCompleted("web-development", "html", "semantics"))
	assert.False(t, s.IsResourceViewed("web-development", "html", "mdn"))

	lp := s.LevelProgress("web-development", "html")
	assert.Equal(t, domain.EmptyLevelProgress(), lp)
}

func TestStore_ToggleTopicIsItsOwnInverse(t *testing.T) {
	seed := []byte(`{"d":{"l1":{"topics":{"a":true,"b":false},"resources":{"r":true},"completed":true}},"e":{}}`)
	s, _, _ := newTestStore(t, seed)

	before := s.State()
	wasDone := s.IsTopicCompleted("d", "l1", "b")

	s.ToggleTopic("d", "l1", "b")
	assert.Equal(t, !wasDone, s.IsTopicCompleted("d", "l1", "b"))

	s.ToggleTopic("d", "l1", "b")
	after := s.State()

	assert.Empty(t, cmp.Diff(before, after))
}

func TestStore_FirstToggleCreatesPath(t *testing.T) {
	s, _, _ := newTestStore(t, nil)

	s.ToggleTopic("python-ai-ml", "basics", "variables")

	lp := s.LevelProgress("python-ai-ml", "basics")
	assert.True(t, lp.Topics["variables"])
	assert.NotNil(t, lp.Resources)
	assert.False(t, lp.Completed)

	// Toggling back keeps the key with a false value.
	s.ToggleTopic("python-ai-ml", "basics", "variables")
	lp = s.LevelProgress("python-ai-ml", "basics")
	v, ok := lp.Topics["variables"]
	assert.True(t, ok)
	assert.False(t, v)
}

func TestStore_ToggleResourceAndCompleteLevel(t *testing.T) {
	s, _, _ := newTestStore(t, nil)

	s.ToggleResource("d", "l", "video")
	assert.True(t, s.IsResourceViewed("d", "l", "video"))
	assert.False(t, s.IsTopicCompleted("d", "l", "video"), "resources and topics are separate maps")

	s.CompleteLevel("d", "l")
	assert.True(t, s.LevelProgress("d", "l").Completed)
	assert.True(t, s.IsResourceViewed("d", "l", "video"), "completing keeps other level fields")

	s.CompleteLevel("d", "l")
	assert.False(t, s.LevelProgress("d", "l").Completed)

	s.ToggleResource("d", "l", "video")
	assert.False(t, s.IsResourceViewed("d", "l", "video"))
}

func TestStore_EmptyKeysAreStored(t *testing.T) {
	s, _, _ := newTestStore(t, nil)

	assert.NotPanics(t, func() {
		s.ToggleTopic("", "", "")
		s.ToggleResource("", "", "")
		s.CompleteLevel("", "")
	})
	assert.True(t, s.IsTopicCompleted("", "", ""))
	assert.True(t, s.IsResourceViewed("", "", ""))
	assert.True(t, s.LevelProgress("", "").Completed)
}

func TestStore_SnapshotsAreImmutable(t *testing.T) {
	s, _, _ := newTestStore(t, nil)
	s.ToggleTopic("d", "l", "a")

	snap := s.State()
	s.ToggleTopic("d", "l", "a")
	s.ToggleTopic("d", "l", "b")
	s.CompleteLevel("d", "l")
	s.ToggleTopic("other", "x", "y")

	assert.True(t, snap.TopicCompleted("d", "l", "a"))
	assert.False(t, snap.TopicCompleted("d", "l", "b"))
	assert.False(t, snap.Level("d", "l").Completed)
	assert.NotContains(t, snap, "other")
}

func TestStore_LevelProgressIsACopy(t *testing.T) {
	s, _, sched := newTestStore(t, nil)
	s.ToggleTopic("d", "l", "a")
	sched.Advance(DefaultSaveDelay)

	lp := s.LevelProgress("d", "l")
	lp.Topics["b"] = true
	lp.Resources["r"] = true

	assert.False(t, s.IsTopicCompleted("d", "l", "b"))
	assert.False(t, s.IsResourceViewed("d", "l", "r"))
	assert.True(t, s.IsTopicCompleted("d", "l", "a"))
	assert.False(t, sched.Pending())
}

func TestStore_StatsScenario(t *testing.T) {
	s, _, _ := newTestStore(t, nil)
	levels := []domain.Level{
		{ID: "L1", Topics: []domain.Topic{{ID: "t1"}, {ID: "t2"}}},
		{ID: "L2", Topics: []domain.Topic{{ID: "t3"}}},
	}

	s.ToggleTopic("d", "L1", "t1")
	s.ToggleTopic("d", "L2", "t3")

	got := s.DomainStats("d", levels)
	assert.Equal(t, 3, got.TotalTopics)
	assert.Equal(t, 2, got.CompletedTopics)
	assert.Equal(t, 2, got.TotalLevels)
	assert.Equal(t, 0, got.CompletedLevels)
	assert.InDelta(t, 66.67, got.ProgressPercent, 0.01)

	s.CompleteLevel("d", "L2")
	assert.Equal(t, 1, s.DomainStats("d", levels).CompletedLevels)

	global := s.GlobalProgress([]domain.Path{{ID: "d", Levels: levels}})
	assert.InDelta(t, 200.0/3.0, global, 1e-9)
}

func TestStore_DebounceCoalescesBurst(t *testing.T) {
	s, backing, sched := newTestStore(t, nil)

	s.ToggleTopic("d", "l", "a")
	sched.Advance(300 * time.Millisecond)
	s.ToggleTopic("d", "l", "b")
	sched.Advance(300 * time.Millisecond)
	s.ToggleTopic("d", "l", "c")

	sched.Advance(999 * time.Millisecond)
	assert.Empty(t, backing.Writes(), "still inside the quiet period")

	sched.Advance(1 * time.Millisecond)
	writes := backing.Writes()
	require.Len(t, writes, 1)

	want := domain.ProgressState{
		"d": {"l": {
			Topics:    domain.TopicProgress{"a": true, "b": true, "c": true},
			Resources: domain.ResourceProgress{},
		}},
	}
	assert.Empty(t, cmp.Diff(want, decode(t, writes[0])))
	assert.Equal(t, 3, sched.scheduled)
	assert.Equal(t, 2, sched.cancelled)

	sched.Advance(10 * time.Second)
	assert.Len(t, backing.Writes(), 1, "no further writes without mutations")
}

func TestStore_SeparateBurstsWriteSeparately(t *testing.T) {
	s, backing, sched := newTestStore(t, nil)

	s.ToggleTopic("d", "l", "a")
	sched.Advance(DefaultSaveDelay)
	s.CompleteLevel("d", "l")
	sched.Advance(DefaultSaveDelay)

	writes := backing.Writes()
	require.Len(t, writes, 2)
	assert.False(t, decode(t, writes[0]).Level("d", "l").Completed)
	assert.True(t, decode(t, writes[1]).Level("d", "l").Completed)
}

func TestStore_CustomSaveDelay(t *testing.T) {
	backing := store.NewMemoryBacking(nil)
	sched := &manualScheduler{}
	s := Open(backing, WithScheduler(sched), WithSaveDelay(250*time.Millisecond), WithLogger(quietLogger()))
	defer s.Close()

	s.ToggleTopic("d", "l", "t")
	sched.Advance(250 * time.Millisecond)
	assert.Len(t, backing.Writes(), 1)
}

func TestStore_WriteFailureIsIsolated(t *testing.T) {
	s, backing, sched := newTestStore(t, nil)

	var mu sync.Mutex
	var results []error
	s.OnSave(func(err error) {
		mu.Lock()
		results = append(results, err)
		mu.Unlock()
	})

	backing.FailSaves(errors.New("quota exceeded"))
	s.ToggleTopic("d", "l", "a")
	sched.Advance(DefaultSaveDelay)

	assert.Empty(t, backing.Writes())
	assert.Equal(t, 1, backing.SaveCalls())
	assert.True(t, s.IsTopicCompleted("d", "l", "a"), "failed write does not roll back")

	s.ToggleTopic("d", "l", "b")
	assert.True(t, s.IsTopicCompleted("d", "l", "b"))

	backing.RecoverSaves()
	sched.Advance(DefaultSaveDelay)

	writes := backing.Writes()
	require.Len(t, writes, 1)
	saved := decode(t, writes[0])
	assert.True(t, saved.TopicCompleted("d", "l", "a"))
	assert.True(t, saved.TopicCompleted("d", "l", "b"))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, results, 2)
	assert.Error(t, results[0])
	assert.NoError(t, results[1])
}

func TestStore_MalformedDocumentFallsBackToEmpty(t *testing.T) {
	for name, seed := range map[string]string{
		"garbage":   "{not json",
		"wrongType": `["a","b"]`,
		"truncated": `{"d":{"l":{"topics":`,
	} {
		t.Run(name, func(t *testing.T) {
			s, _, _ := newTestStore(t, []byte(seed))
			assert.True(t, s.Ready())
			assert.Empty(t, s.State())

			s.ToggleTopic("d", "l", "t")
			assert.True(t, s.IsTopicCompleted("d", "l", "t"))
		})
	}
}

func TestStore_NullDocument(t *testing.T) {
	s, _, _ := newTestStore(t, []byte("null"))
	assert.NotNil(t, s.State())
	assert.Empty(t, s.State())
}

func TestStore_LoadErrorFallsBackToEmpty(t *testing.T) {
	backing := store.NewMemoryBacking([]byte(`{"d":{}}`))
	backing.FailLoads(nil)

	s := Open(backing, WithScheduler(&manualScheduler{}), WithLogger(quietLogger()))
	defer s.Close()

	assert.True(t, s.Ready())
	assert.Empty(t, s.State())
}

func TestStore_NoBackingIsMemoryOnly(t *testing.T) {
	sched := &manualScheduler{}
	s := Open(nil, WithScheduler(sched), WithLogger(quietLogger()))
	defer s.Close()

	assert.True(t, s.Ready())
	s.ToggleTopic("d", "l", "t")
	assert.True(t, s.IsTopicCompleted("d", "l", "t"))
	assert.False(t, sched.Pending())
	assert.NoError(t, s.Flush())
}

func TestStore_CloseDropsPendingWrite(t *testing.T) {
	backing := store.NewMemoryBacking(nil)
	sched := &manualScheduler{}
	s := Open(backing, WithScheduler(sched), WithLogger(quietLogger()))

	s.ToggleTopic("d", "l", "t")
	require.True(t, sched.Pending())

	s.Close()
	assert.False(t, sched.Pending())
	sched.Advance(10 * time.Second)
	assert.Empty(t, backing.Writes())

	// Reads and mutations still work after close but never persist.
	s.ToggleTopic("d", "l", "u")
	assert.True(t, s.IsTopicCompleted("d", "l", "u"))
	assert.False(t, sched.Pending())

	assert.ErrorIs(t, s.Flush(), ErrClosed)
	assert.NotPanics(t, s.Close)
}

func TestStore_FlushWritesNow(t *testing.T) {
	s, backing, sched := newTestStore(t, nil)

	s.ToggleTopic("d", "l", "t")
	require.True(t, sched.Pending())

	require.NoError(t, s.Flush())
	assert.False(t, sched.Pending())

	writes := backing.Writes()
	require.Len(t, writes, 1)
	assert.True(t, decode(t, writes[0]).TopicCompleted("d", "l", "t"))

	sched.Advance(DefaultSaveDelay)
	assert.Len(t, backing.Writes(), 1)
}

func TestStore_FlushReportsFailure(t *testing.T) {
	s, backing, _ := newTestStore(t, nil)
	backing.FailSaves(nil)

	s.ToggleTopic("d", "l", "t")
	err := s.Flush()
	assert.ErrorIs(t, err, store.ErrInjected)
	assert.True(t, s.IsTopicCompleted("d", "l", "t"))
}

func TestStore_RoundTripsThroughBackingAcrossSessions(t *testing.T) {
	backing := store.NewMemoryBacking(nil)

	first := Open(backing, WithScheduler(&manualScheduler{}), WithLogger(quietLogger()))
	first.ToggleTopic("web-development", "html", "forms")
	first.ToggleResource("web-development", "html", "mdn")
	first.CompleteLevel("web-development", "html")
	require.NoError(t, first.Flush())
	first.Close()

	second := Open(backing, WithScheduler(&manualScheduler{}), WithLogger(quietLogger()))
	defer second.Close()

	assert.Empty(t, cmp.Diff(first.State(), second.State()))
}
