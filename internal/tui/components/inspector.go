package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/waypoint/internal/tui/styles"
)

// Layout constants for inspector
const (
	InspectorBorderHeight     = 2
	InspectorScrollIndicators = 2
)

// inspectorContent holds the three-zone layout content
type inspectorContent struct {
	header string // fixed top
	body   string // scrollable middle
	footer string // fixed bottom
}

// Field is a label/value line in the inspector
type Field struct {
	Label string
	Value string
}

// Details is what the inspector shows for the current selection
type Details struct {
	Kind        RowKind
	Title       string
	Subtitle    string
	Description string
	Fields      []Field
	Percent     float64 // drawn as a progress bar when ShowPercent is set
	ShowPercent bool
	Done        bool
	Hint        string // key hint pinned to the bottom
}

// Inspector displays details for the selection in the focused column
type Inspector struct {
	details    *Details
	bar        progress.Model
	width      int
	height     int
	offset     int // scroll offset
	maxVisible int // max visible lines
}

// NewInspector creates a new inspector component
func NewInspector() Inspector {
	return Inspector{
		bar: progress.New(
			progress.WithGradient(string(styles.Accent), string(styles.Green)),
			progress.WithoutPercentage(),
		),
	}
}

// SetDetails sets what to display; nil clears the panel
func (i *Inspector) SetDetails(d *Details) {
	i.details = d
	i.offset = 0
}

// SetSize updates the component dimensions
func (i *Inspector) SetSize(width, height int) {
	i.width = width
	i.height = height
	// Reserve space for border, scroll indicators, title and blank line
	i.maxVisible = max(height-InspectorBorderHeight-InspectorScrollIndicators-2, 1)
	i.bar.Width = max(width-10, 5)
}

// HasDetails returns true if there is something to display
func (i Inspector) HasDetails() bool {
	return i.details != nil
}

// View renders the component
func (i Inspector) View() string {
	style := styles.InactiveBorder

	// Border takes 2 chars (1 each side), leave 1 char safety margin
	contentWidth := max(i.width-3, 10)
	content := i.renderInspector(contentWidth)

	titleLine := styles.AccentStyle.Render(styles.Truncate("Info", contentWidth))

	// Three-zone layout: header is fixed, body scrolls, footer is fixed
	headerLines := splitLines(content.header)
	footerLines := splitLines(content.footer)
	bodyLines := splitLines(content.body)

	availableForBody := max(i.maxVisible-len(headerLines)-len(footerLines), 1)

	maxOffset := max(len(bodyLines)-availableForBody, 0)
	offset := min(i.offset, maxOffset)
	end := min(offset+availableForBody, len(bodyLines))
	visibleBody := bodyLines[offset:end]

	up := " "
	if offset > 0 {
		up = styles.DimStyle.Render("↑ more")
	}
	down := " "
	if end < len(bodyLines) {
		down = styles.DimStyle.Render("↓ more")
	}

	parts := []string{titleLine, ""}
	if content.header != "" {
		parts = append(parts, headerLines...)
	}
	parts = append(parts, up)
	parts = append(parts, visibleBody...)
	for j := len(visibleBody); j < availableForBody; j++ {
		parts = append(parts, "")
	}
	parts = append(parts, down)
	if content.footer != "" {
		parts = append(parts, footerLines...)
	}

	frameW, frameH := style.GetFrameSize()

	return style.
		Width(max(i.width-frameW, 0)).
		Height(max(i.height-frameH, 0)).
		Render(strings.Join(parts, "\n"))
}

func (i Inspector) renderInspector(width int) inspectorContent {
	d := i.details
	if d == nil {
		return inspectorContent{body: styles.DimStyle.Render("Nothing selected")}
	}

	var header strings.Builder
	header.WriteString(styles.TitleStyle.Render(styles.Truncate(d.Title, width)))
	if d.Subtitle != "" {
		header.WriteString("\n")
		header.WriteString(styles.SubtitleStyle.Render(styles.Truncate(d.Subtitle, width)))
	}
	header.WriteString("\n")
	header.WriteString(renderStatus(*d))
	if d.ShowPercent {
		header.WriteString("\n")
		header.WriteString(i.bar.ViewAs(clampRatio(d.Percent / 100)))
	}

	var body strings.Builder
	labelWidth := 0
	for _, f := range d.Fields {
		labelWidth = max(labelWidth, lipgloss.Width(f.Label))
	}
	for _, f := range d.Fields {
		body.WriteString(styles.DimStyle.Render(styles.Pad(f.Label, labelWidth)))
		body.WriteString("  ")
		body.WriteString(styles.Truncate(f.Value, max(width-labelWidth-2, 5)))
		body.WriteString("\n")
	}
	if d.Description != "" {
		if len(d.Fields) > 0 {
			body.WriteString("\n")
		}
		body.WriteString(styles.SubtitleStyle.Render(wordWrap(d.Description, width)))
	}

	footer := ""
	if d.Hint != "" {
		footer = styles.DimStyle.Render(styles.Truncate(d.Hint, width))
	}

	return inspectorContent{
		header: header.String(),
		body:   strings.TrimRight(body.String(), "\n"),
		footer: footer,
	}
}

func renderStatus(d Details) string {
	switch d.Kind {
	case RowTopic:
		if d.Done {
			return styles.SuccessStyle.Render(styles.DoneChar + " Completed")
		}
		return styles.DimStyle.Render(styles.PendingChar + " Not started")
	case RowResource:
		if d.Done {
			return styles.SuccessStyle.Render(styles.DoneChar + " Viewed")
		}
		return styles.DimStyle.Render(styles.ResourceChar + " Not viewed")
	case RowLevel:
		if d.Done {
			return styles.SuccessStyle.Render(styles.DoneChar + " Level completed")
		}
		label := " In progress"
		if d.Percent == 0 {
			label = " Not started"
		}
		return lipgloss.NewStyle().Foreground(styles.CompletionColor(d.Percent)).
			Render(styles.CompletionChar(d.Percent) + label)
	default:
		return lipgloss.NewStyle().Foreground(styles.CompletionColor(d.Percent)).
			Render(styles.CompletionChar(d.Percent) + " Learning path")
	}
}

func clampRatio(r float64) float64 {
	return min(max(r, 0), 1)
}

// splitLines splits a string into lines, returning empty slice for empty string
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// wordWrap wraps text to the specified width
func wordWrap(text string, width int) string {
	if width <= 0 {
		return text
	}

	var result strings.Builder
	lineLen := 0

	for i, word := range strings.Fields(text) {
		wordLen := lipgloss.Width(word)

		if lineLen+wordLen+1 > width && lineLen > 0 {
			result.WriteString("\n")
			lineLen = 0
		}

		if i > 0 && lineLen > 0 {
			result.WriteString(" ")
			lineLen++
		}

		result.WriteString(word)
		lineLen += wordLen
	}

	return result.String()
}
