// Package stats derives completion metrics from a progress snapshot.
// Every function here is pure: no I/O, no mutation of its inputs.
package stats

import (
	"math"

	"github.com/mmcdole/waypoint/internal/domain"
)

// Domain computes completion metrics for one path over the given levels.
//
// Completed topics are the true flags stored for each listed level, so a
// level missing from the state contributes zero. A level counts as completed
// only when its stored Completed flag is set; checking every topic is not
// enough.
func Domain(state domain.ProgressState, domainID string, levels []domain.Level) domain.DomainStats {
	dp := state.Domain(domainID)

	s := domain.DomainStats{TotalLevels: len(levels)}
	for _, level := range levels {
		s.TotalTopics += len(level.Topics)

		lp, ok := dp[level.ID]
		if !ok {
			continue
		}
		s.CompletedTopics += lp.CompletedTopicCount()
		if lp.Completed {
			s.CompletedLevels++
		}
	}
	s.ProgressPercent = percent(s.CompletedTopics, s.TotalTopics)
	return s
}

// Global computes overall completion across paths. Paths are weighted by
// their topic counts: this is sum-then-divide, not an average of percentages.
func Global(state domain.ProgressState, paths []domain.Path) float64 {
	var completed, total int
	for _, p := range paths {
		s := Domain(state, p.ID, p.Levels)
		completed += s.CompletedTopics
		total += s.TotalTopics
	}
	return percent(completed, total)
}

// Level computes topic completion for a single level.
func Level(state domain.ProgressState, domainID string, level domain.Level) domain.LevelStats {
	lp := state.Level(domainID, level.ID)
	completed := 0
	for _, t := range level.Topics {
		if lp.Topic(t.ID) {
			completed++
		}
	}
	return domain.LevelStats{
		TotalTopics:     len(level.Topics),
		CompletedTopics: completed,
		ProgressPercent: percent(completed, len(level.Topics)),
		Completed:       lp.Completed,
	}
}

// RoundPercent rounds a percentage for display, halves rounding up.
func RoundPercent(p float64) int {
	if math.IsNaN(p) {
		return 0
	}
	return int(math.Floor(p + 0.5))
}

func percent(completed, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(completed) / float64(total) * 100
}
