package service

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/waypoint/internal/domain"
	"github.com/mmcdole/waypoint/internal/progress"
	"github.com/mmcdole/waypoint/internal/roadmap"
	"github.com/mmcdole/waypoint/internal/store"
)

const testCatalog = `
paths:
  - id: go
    title: Go
    levels:
      - id: basics
        title: Basics
        topics:
          - { id: slices, name: Slices }
          - { id: maps, name: Maps }
        resources:
          - { id: tour, name: A Tour of Go, url: "https://go.dev/tour", type: course }
      - id: concurrency
        title: Concurrency
        topics:
          - { id: goroutines, name: Goroutines }
          - { id: channels, name: Channels }
  - id: sql
    title: SQL
    levels:
      - id: queries
        title: Queries
        topics:
          - { id: select, name: SELECT }
          - { id: joins, name: Joins }
          - { id: indexes, name: Indexes }
          - { id: windows, name: Window Functions }
          - { id: ctes, name: Common Table Expressions }
`

// holdScheduler never fires on its own; tests persist with Flush.
type holdScheduler struct{}

func (holdScheduler) Schedule(func(), time.Duration) {}
func (holdScheduler) CancelPending()                 {}

type fakeLauncher struct {
	opened []string
	err    error
}

func (f *fakeLauncher) Open(url string) error {
	if f.err != nil {
		return f.err
	}
	f.opened = append(f.opened, url)
	return nil
}

func newTestTracker(t *testing.T, l launcher) (*Tracker, *store.MemoryBacking) {
	t.Helper()
	cat, err := roadmap.Parse([]byte(testCatalog))
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	backing := store.NewMemoryBacking(nil)
	s := progress.Open(backing, progress.WithScheduler(holdScheduler{}), progress.WithLogger(logger))

	tr := NewTracker(cat, s, l, logger)
	t.Cleanup(tr.Close)
	return tr, backing
}

func TestTracker_ToggleValidatesAgainstCatalog(t *testing.T) {
	tr, _ := newTestTracker(t, nil)

	require.NoError(t, tr.ToggleTopic("go", "basics", "slices"))
	assert.True(t, tr.IsTopicCompleted("go", "basics", "slices"))

	assert.ErrorIs(t, tr.ToggleTopic("rust", "basics", "slices"), domain.ErrPathNotFound)
	assert.ErrorIs(t, tr.ToggleTopic("go", "advanced", "slices"), domain.ErrLevelNotFound)
	assert.ErrorIs(t, tr.ToggleTopic("go", "basics", "generics"), domain.ErrTopicNotFound)
	assert.ErrorIs(t, tr.ToggleResource("go", "basics", "book"), domain.ErrResourceNotFound)
	assert.ErrorIs(t, tr.CompleteLevel("go", "advanced"), domain.ErrLevelNotFound)

	// Rejected calls leave the document untouched.
	assert.False(t, tr.IsTopicCompleted("go", "basics", "generics"))
}

func TestTracker_CompleteLevelIsManual(t *testing.T) {
	tr, _ := newTestTracker(t, nil)

	require.NoError(t, tr.ToggleTopic("go", "basics", "slices"))
	require.NoError(t, tr.ToggleTopic("go", "basics", "maps"))
	assert.False(t, tr.IsLevelCompleted("go", "basics"))

	require.NoError(t, tr.CompleteLevel("go", "basics"))
	assert.True(t, tr.IsLevelCompleted("go", "basics"))

	st, err := tr.PathStats("go")
	require.NoError(t, err)
	assert.Equal(t, domain.DomainStats{
		CompletedLevels: 1,
		TotalLevels:     2,
		TotalTopics:     4,
		CompletedTopics: 2,
		ProgressPercent: 50,
	}, st)
}

func TestTracker_Stats(t *testing.T) {
	tr, _ := newTestTracker(t, nil)

	// 4 go topics + 5 sql topics
	require.NoError(t, tr.ToggleTopic("sql", "queries", "select"))
	assert.InDelta(t, 100.0/9.0, tr.GlobalProgress(), 1e-9)

	ls, err := tr.LevelStats("sql", "queries")
	require.NoError(t, err)
	assert.Equal(t, 5, ls.TotalTopics)
	assert.Equal(t, 1, ls.CompletedTopics)
	assert.InDelta(t, 20.0, ls.ProgressPercent, 1e-9)

	// go 1/4 and sql 1/5: topics are pooled (2/9), not percentages averaged (22.5)
	require.NoError(t, tr.ToggleTopic("go", "basics", "slices"))
	assert.InDelta(t, 200.0/9.0, tr.GlobalProgress(), 1e-9)

	_, err = tr.PathStats("rust")
	assert.ErrorIs(t, err, domain.ErrPathNotFound)
	_, err = tr.LevelStats("sql", "ddl")
	assert.ErrorIs(t, err, domain.ErrLevelNotFound)

	summaries := tr.Summaries()
	require.Len(t, summaries, 2)
	assert.Equal(t, "go", summaries[0].Path.ID)
	assert.Equal(t, 1, summaries[0].Stats.CompletedTopics)
	assert.Equal(t, 1, summaries[1].Stats.CompletedTopics)
	assert.Equal(t, 5, summaries[1].Stats.TotalTopics)
}

func TestTracker_OpenResourceMarksViewedOnce(t *testing.T) {
	l := &fakeLauncher{}
	tr, _ := newTestTracker(t, l)

	require.NoError(t, tr.OpenResource("go", "basics", "tour"))
	assert.True(t, tr.IsResourceViewed("go", "basics", "tour"))

	// A second open keeps it viewed instead of toggling it back.
	require.NoError(t, tr.OpenResource("go", "basics", "tour"))
	assert.True(t, tr.IsResourceViewed("go", "basics", "tour"))
	assert.Equal(t, []string{"https://go.dev/tour", "https://go.dev/tour"}, l.opened)
}

func TestTracker_OpenResourceFailure(t *testing.T) {
	l := &fakeLauncher{err: errors.New("no browser")}
	tr, _ := newTestTracker(t, l)

	err := tr.OpenResource("go", "basics", "tour")
	require.Error(t, err)
	assert.False(t, tr.IsResourceViewed("go", "basics", "tour"))

	noLauncher, _ := newTestTracker(t, nil)
	assert.ErrorIs(t, noLauncher.OpenResource("go", "basics", "tour"), ErrNoLauncher)
}

func TestTracker_FlushWritesDocument(t *testing.T) {
	tr, backing := newTestTracker(t, nil)

	var saved []error
	tr.OnSave(func(err error) { saved = append(saved, err) })

	require.NoError(t, tr.ToggleResource("go", "basics", "tour"))
	require.NoError(t, tr.Flush())

	writes := backing.Writes()
	require.Len(t, writes, 1)
	var doc domain.ProgressState
	require.NoError(t, json.Unmarshal(writes[0], &doc))
	assert.True(t, doc.ResourceViewed("go", "basics", "tour"))
	assert.Equal(t, []error{nil}, saved)
}

func TestTracker_Search(t *testing.T) {
	tr, _ := newTestTracker(t, nil)

	results := tr.Search("chan", 5)
	require.NotEmpty(t, results)
	assert.Equal(t, "channels", results[0].ID)
	assert.Equal(t, "concurrency", results[0].LevelID)
}
