package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/waypoint/internal/search"
	"github.com/mmcdole/waypoint/internal/service"
	"github.com/mmcdole/waypoint/internal/stats"
	"github.com/mmcdole/waypoint/internal/tui/components"
	"github.com/mmcdole/waypoint/internal/tui/styles"
)

const (
	reportBarWidth   = 20
	reportTitleWidth = 32
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(styles.Accent)
	percentStyle = lipgloss.NewStyle().Width(5).Align(lipgloss.Right)
)

// writePaths prints one line per path: icon, title, ID and rounded percent
func writePaths(w io.Writer, t *service.Tracker) error {
	for _, s := range t.Summaries() {
		title := s.Path.Title
		if s.Path.Icon != "" {
			title = s.Path.Icon + " " + title
		}
		fmt.Fprintf(w, "%s %s %s\n",
			percentStyle.Render(fmt.Sprintf("%d%%", stats.RoundPercent(s.Stats.ProgressPercent))),
			styles.Pad(styles.Truncate(title, reportTitleWidth), reportTitleWidth),
			styles.DimStyle.Render(s.Path.ID))
	}
	return nil
}

// writeStats prints the report for every path, or the level breakdown of
// one path when pathID is set.
func writeStats(w io.Writer, t *service.Tracker, pathID string) error {
	if pathID != "" {
		return writePathStats(w, t, pathID)
	}

	fmt.Fprintln(w, headingStyle.Render("Progress"))
	for _, s := range t.Summaries() {
		st := s.Stats
		fmt.Fprintf(w, "%s %s %s  %s topics  %s levels\n",
			styles.Pad(styles.Truncate(s.Path.Title, reportTitleWidth), reportTitleWidth),
			styles.RenderProgressBar(st.ProgressPercent, reportBarWidth),
			percentStyle.Render(fmt.Sprintf("%d%%", stats.RoundPercent(st.ProgressPercent))),
			components.FormatCount(st.CompletedTopics, st.TotalTopics),
			components.FormatCount(st.CompletedLevels, st.TotalLevels))
	}
	fmt.Fprintf(w, "\nOverall: %d%%\n", stats.RoundPercent(t.GlobalProgress()))
	return nil
}

func writePathStats(w io.Writer, t *service.Tracker, pathID string) error {
	p, err := t.Path(pathID)
	if err != nil {
		return err
	}
	ps, err := t.PathStats(pathID)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "%s  %d%%\n", headingStyle.Render(p.Title), stats.RoundPercent(ps.ProgressPercent))
	for _, l := range p.Levels {
		ls, err := t.LevelStats(pathID, l.ID)
		if err != nil {
			return err
		}
		mark := styles.CompletionChar(ls.ProgressPercent)
		if ls.Completed {
			mark = styles.DoneChar
		}
		fmt.Fprintf(w, "%s %s %s %s\n",
			mark,
			styles.Pad(styles.Truncate(l.Title, reportTitleWidth), reportTitleWidth),
			styles.RenderProgressBar(ls.ProgressPercent, reportBarWidth),
			components.FormatCount(ls.CompletedTopics, ls.TotalTopics))
	}
	fmt.Fprintf(w, "\nTopics %s  Levels done %s\n",
		components.FormatCount(ps.CompletedTopics, ps.TotalTopics),
		components.FormatCount(ps.CompletedLevels, ps.TotalLevels))
	return nil
}

// writeResults prints search hits with their location and done state
func writeResults(w io.Writer, t *service.Tracker, results []search.Result) error {
	if len(results) == 0 {
		fmt.Fprintln(w, "No matches.")
		return nil
	}

	for _, r := range results {
		fmt.Fprintf(w, "%s %-8s %s  %s\n",
			resultMark(t, r),
			r.Kind,
			r.Title,
			styles.DimStyle.Render(strings.Join(resultLocation(r), "/")))
	}
	return nil
}

func resultMark(t *service.Tracker, r search.Result) string {
	var done bool
	switch r.Kind {
	case search.KindTopic:
		done = t.IsTopicCompleted(r.PathID, r.LevelID, r.ID)
	case search.KindResource:
		done = t.IsResourceViewed(r.PathID, r.LevelID, r.ID)
	case search.KindLevel:
		done = t.IsLevelCompleted(r.PathID, r.LevelID)
	}
	if done {
		return styles.DoneChar
	}
	return styles.PendingChar
}

// resultLocation is the ID tuple the toggle and complete commands accept
func resultLocation(r search.Result) []string {
	if r.Kind == search.KindLevel {
		return []string{r.PathID, r.LevelID}
	}
	return []string{r.PathID, r.LevelID, r.ID}
}
