// Package service composes the catalog, the progress store and the search
// index into the operations the TUI and CLI call.
package service

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/mmcdole/waypoint/internal/domain"
	"github.com/mmcdole/waypoint/internal/progress"
	"github.com/mmcdole/waypoint/internal/roadmap"
	"github.com/mmcdole/waypoint/internal/search"
	"github.com/mmcdole/waypoint/internal/stats"
)

// ErrNoLauncher is returned by OpenResource when no launcher is configured.
var ErrNoLauncher = errors.New("no launcher configured")

// launcher opens URLs outside the terminal (consumer-defined interface)
type launcher interface {
	Open(url string) error
}

// PathSummary pairs a path with its aggregated progress.
type PathSummary struct {
	Path  domain.Path
	Stats domain.DomainStats
}

// Tracker is the application facade.
type Tracker struct {
	catalog  *roadmap.Catalog
	store    *progress.Store
	index    *search.Index
	launcher launcher
	logger   *slog.Logger
}

// NewTracker creates a tracker. launcher may be nil.
func NewTracker(catalog *roadmap.Catalog, store *progress.Store, launcher launcher, logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{
		catalog:  catalog,
		store:    store,
		index:    search.NewIndex(catalog.Paths()),
		launcher: launcher,
		logger:   logger,
	}
}

// === Catalog ===

// Paths returns every learning path in display order.
func (t *Tracker) Paths() []domain.Path {
	return t.catalog.Paths()
}

// Path looks up a path by ID.
func (t *Tracker) Path(id string) (domain.Path, error) {
	return t.catalog.Path(id)
}

// Level looks up a level within a path.
func (t *Tracker) Level(pathID, levelID string) (domain.Level, error) {
	return t.catalog.Level(pathID, levelID)
}

// === Progress ===

// Ready reports whether saved progress has been loaded.
func (t *Tracker) Ready() bool {
	return t.store.Ready()
}

// Load reads saved progress.
func (t *Tracker) Load() {
	t.store.Load()
}

// ToggleTopic flips a topic that exists in the catalog.
func (t *Tracker) ToggleTopic(pathID, levelID, topicID string) error {
	if _, err := t.catalog.Topic(pathID, levelID, topicID); err != nil {
		return err
	}
	t.store.ToggleTopic(pathID, levelID, topicID)
	t.logger.Debug("toggled topic", "path", pathID, "level", levelID, "topic", topicID,
		"completed", t.store.IsTopicCompleted(pathID, levelID, topicID))
	return nil
}

// ToggleResource flips a resource that exists in the catalog.
func (t *Tracker) ToggleResource(pathID, levelID, resourceID string) error {
	if _, err := t.catalog.Resource(pathID, levelID, resourceID); err != nil {
		return err
	}
	t.store.ToggleResource(pathID, levelID, resourceID)
	t.logger.Debug("toggled resource", "path", pathID, "level", levelID, "resource", resourceID,
		"viewed", t.store.IsResourceViewed(pathID, levelID, resourceID))
	return nil
}

// CompleteLevel flips the manual completed flag of a level.
func (t *Tracker) CompleteLevel(pathID, levelID string) error {
	if _, err := t.catalog.Level(pathID, levelID); err != nil {
		return err
	}
	t.store.CompleteLevel(pathID, levelID)
	t.logger.Debug("toggled level", "path", pathID, "level", levelID,
		"completed", t.store.LevelProgress(pathID, levelID).Completed)
	return nil
}

// OpenResource launches a resource URL and marks the resource viewed if it
// was not already. Opening never un-marks a resource.
func (t *Tracker) OpenResource(pathID, levelID, resourceID string) error {
	res, err := t.catalog.Resource(pathID, levelID, resourceID)
	if err != nil {
		return err
	}
	if t.launcher == nil {
		return ErrNoLauncher
	}

	t.logger.Info("opening resource", "resource", resourceID, "url", res.URL)
	if err := t.launcher.Open(res.URL); err != nil {
		t.logger.Error("failed to open resource", "error", err, "url", res.URL)
		return fmt.Errorf("failed to open %s: %w", res.Name, err)
	}

	if !t.store.IsResourceViewed(pathID, levelID, resourceID) {
		t.store.ToggleResource(pathID, levelID, resourceID)
	}
	return nil
}

// IsTopicCompleted reports a topic's flag.
func (t *Tracker) IsTopicCompleted(pathID, levelID, topicID string) bool {
	return t.store.IsTopicCompleted(pathID, levelID, topicID)
}

// IsResourceViewed reports a resource's flag.
func (t *Tracker) IsResourceViewed(pathID, levelID, resourceID string) bool {
	return t.store.IsResourceViewed(pathID, levelID, resourceID)
}

// IsLevelCompleted reports a level's manual completed flag.
func (t *Tracker) IsLevelCompleted(pathID, levelID string) bool {
	return t.store.LevelProgress(pathID, levelID).Completed
}

// OnSave forwards persistence results to fn.
func (t *Tracker) OnSave(fn domain.SaveObserver) {
	t.store.OnSave(fn)
}

// === Statistics ===

// PathStats aggregates progress for one path.
func (t *Tracker) PathStats(pathID string) (domain.DomainStats, error) {
	p, err := t.catalog.Path(pathID)
	if err != nil {
		return domain.DomainStats{}, err
	}
	return t.store.DomainStats(p.ID, p.Levels), nil
}

// LevelStats aggregates topic completion for one level.
func (t *Tracker) LevelStats(pathID, levelID string) (domain.LevelStats, error) {
	l, err := t.catalog.Level(pathID, levelID)
	if err != nil {
		return domain.LevelStats{}, err
	}
	return stats.Level(t.store.State(), pathID, l), nil
}

// GlobalProgress returns the completed share of all topics across paths.
func (t *Tracker) GlobalProgress() float64 {
	return t.store.GlobalProgress(t.catalog.Paths())
}

// Summaries returns stats for every path, computed from a single snapshot.
func (t *Tracker) Summaries() []PathSummary {
	state := t.store.State()
	paths := t.catalog.Paths()
	out := make([]PathSummary, 0, len(paths))
	for _, p := range paths {
		out = append(out, PathSummary{Path: p, Stats: stats.Domain(state, p.ID, p.Levels)})
	}
	return out
}

// === Search ===

// Search finds levels, topics and resources across every path.
func (t *Tracker) Search(query string, limit int) []search.Result {
	results := t.index.Find(query, limit)
	t.logger.Debug("search", "query", query, "results", len(results))
	return results
}

// === Lifecycle ===

// Flush writes pending progress now.
func (t *Tracker) Flush() error {
	return t.store.Flush()
}

// Close stops persistence without flushing.
func (t *Tracker) Close() {
	t.store.Close()
}
