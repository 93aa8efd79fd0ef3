package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/waypoint/internal/tui/styles"
)

// RowKind identifies what a list row points at
type RowKind int

const (
	RowPath RowKind = iota
	RowLevel
	RowTopic
	RowResource
)

// Row is one line of a ListColumn. Rows are rebuilt from the tracker after
// every change, so they carry plain values only.
type Row struct {
	Kind    RowKind
	PathID  string
	LevelID string
	ID      string // path, level, topic or resource ID depending on Kind
	Title   string
	Detail  string  // right-aligned hint: "3/5", "42%", "Video"
	Percent float64 // completion for paths and levels
	Done    bool    // topic completed, resource viewed or level marked complete
}

// CanDrillInto reports whether the row opens a child column
func (r Row) CanDrillInto() bool {
	return r.Kind == RowPath || r.Kind == RowLevel
}

// indicator returns the glyph and color shown before the title
func (r Row) indicator() (string, lipgloss.Color) {
	switch r.Kind {
	case RowTopic:
		if r.Done {
			return styles.DoneChar, styles.Green
		}
		return styles.PendingChar, styles.DimGray
	case RowResource:
		if r.Done {
			return styles.DoneChar, styles.Green
		}
		return styles.ResourceChar, styles.Blue
	case RowLevel:
		if r.Done {
			return styles.DoneChar, styles.Green
		}
		return styles.CompletionChar(r.Percent), styles.CompletionColor(r.Percent)
	default:
		return styles.CompletionChar(r.Percent), styles.CompletionColor(r.Percent)
	}
}

// render draws the row into width cells
func (r Row) render(selected bool, width int) string {
	char, fg := r.indicator()
	dim := styles.DimGray

	detail := ""
	if r.Detail != "" {
		detail = " " + r.Detail
	}

	// Available space: width - indicator(1) - space(1) - detail - margins(2)
	availableForTitle := width - 4 - lipgloss.Width(detail)
	if availableForTitle < 5 {
		availableForTitle = 5
		detail = ""
	}
	title := styles.Pad(styles.Truncate(r.Title, availableForTitle), availableForTitle)

	parts := []styles.RowPart{
		{Text: char, Foreground: &fg},
		{Text: " " + title, Foreground: nil},
	}
	if detail != "" {
		parts = append(parts, styles.RowPart{Text: detail, Foreground: &dim})
	}

	return styles.RenderListRow(parts, selected, width)
}

// FormatCount renders "done/total"
func FormatCount(done, total int) string {
	return fmt.Sprintf("%d/%d", done, total)
}
