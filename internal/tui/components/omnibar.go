package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/waypoint/internal/search"
	"github.com/mmcdole/waypoint/internal/tui/styles"
)

const omnibarMaxResults = 10

// omnibarKeys are handled by the modal before text reaches the input
var omnibarKeys = struct {
	Close, Jump, Prev, Next, Scope key.Binding
}{
	Close: key.NewBinding(key.WithKeys("esc")),
	Jump:  key.NewBinding(key.WithKeys("enter")),
	Prev:  key.NewBinding(key.WithKeys("up", "ctrl+p")),
	Next:  key.NewBinding(key.WithKeys("down", "ctrl+n")),
	Scope: key.NewBinding(key.WithKeys("tab")),
}

// searchScope narrows results to one kind of entry. Tab cycles through
// searchScopes; the first one shows everything.
type searchScope struct {
	label string
	kind  search.Kind
	all   bool
}

var searchScopes = []searchScope{
	{label: "All", all: true},
	{label: "Topics", kind: search.KindTopic},
	{label: "Resources", kind: search.KindResource},
	{label: "Levels", kind: search.KindLevel},
}

func (sc searchScope) includes(k search.Kind) bool {
	return sc.all || sc.kind == k
}

// Omnibar is the global search modal
type Omnibar struct {
	input     textinput.Model
	matches   []search.Result // everything the last search returned
	results   []search.Result // matches inside the current scope
	scope     int             // index into searchScopes
	cursor    int
	visible   bool
	width     int
	height    int
	prevQuery string // Track query changes for real-time search
}

// NewOmnibar creates a new omnibar component
func NewOmnibar() Omnibar {
	ti := textinput.New()
	ti.Placeholder = "Search topics, resources and levels..."
	ti.CharLimit = 100
	ti.Width = 40
	ti.Prompt = "/ "
	ti.PromptStyle = styles.AccentStyle
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
	ti.PlaceholderStyle = styles.DimStyle

	return Omnibar{
		input: ti,
	}
}

// Show makes the omnibar visible and focuses the input
func (o *Omnibar) Show() {
	o.visible = true
	o.input.Focus()
	o.input.SetValue("")
	o.matches = nil
	o.results = nil
	o.scope = 0
	o.cursor = 0
	o.prevQuery = ""
}

// Hide hides the omnibar
func (o *Omnibar) Hide() {
	o.visible = false
	o.input.Blur()
}

// IsVisible returns true if the omnibar is visible
func (o Omnibar) IsVisible() bool {
	return o.visible
}

// SetResults replaces the search results; only those in the current scope
// are listed.
func (o *Omnibar) SetResults(results []search.Result) {
	o.matches = results
	o.applyScope()
}

// Scope returns the label of the active result scope
func (o Omnibar) Scope() string {
	return searchScopes[o.scope].label
}

func (o *Omnibar) cycleScope() {
	o.scope = (o.scope + 1) % len(searchScopes)
	o.applyScope()
}

func (o *Omnibar) applyScope() {
	sc := searchScopes[o.scope]
	o.results = o.results[:0:0]
	for _, r := range o.matches {
		if sc.includes(r.Kind) {
			o.results = append(o.results, r)
		}
	}
	o.cursor = 0
}

// SetSize updates the component dimensions
func (o *Omnibar) SetSize(width, height int) {
	o.width = width
	o.height = height
	o.input.Width = max(width-10, 10)
}

// Query returns the current search query
func (o Omnibar) Query() string {
	return o.input.Value()
}

// QueryChanged returns true if the query changed since last check and updates prevQuery
func (o *Omnibar) QueryChanged() bool {
	current := o.input.Value()
	if current != o.prevQuery {
		o.prevQuery = current
		return true
	}
	return false
}

// SelectedResult returns the result under the cursor
func (o Omnibar) SelectedResult() (search.Result, bool) {
	if len(o.results) == 0 || o.cursor >= len(o.results) {
		return search.Result{}, false
	}
	return o.results[o.cursor], true
}

// Update handles messages. The bool result is true when a result was chosen.
func (o Omnibar) Update(msg tea.Msg) (Omnibar, tea.Cmd, bool) {
	if !o.visible {
		return o, nil, false
	}

	var cmd tea.Cmd
	visibleCount := min(len(o.results), omnibarMaxResults)

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, omnibarKeys.Scope):
			o.cycleScope()
			return o, nil, false

		case key.Matches(msg, omnibarKeys.Close):
			o.Hide()
			return o, nil, false

		case key.Matches(msg, omnibarKeys.Jump):
			return o, nil, len(o.results) > 0

		case key.Matches(msg, omnibarKeys.Next):
			if o.cursor < visibleCount-1 {
				o.cursor++
			}
			return o, nil, false

		case key.Matches(msg, omnibarKeys.Prev):
			if o.cursor > 0 {
				o.cursor--
			}
			return o, nil, false
		}
	}

	o.input, cmd = o.input.Update(msg)
	return o, cmd, false
}

// View renders the modal centered in the available space
func (o Omnibar) View() string {
	if !o.visible {
		return ""
	}

	modalWidth := min(max(o.width*2/3, 40), 80)

	var b strings.Builder
	b.WriteString("Global Search  ")
	b.WriteString(styles.BadgeStyle.Render(o.Scope()))
	b.WriteString(styles.DimStyle.Render("  tab: scope"))
	b.WriteString("\n\n")
	b.WriteString(o.input.View())
	b.WriteString("\n\n")
	o.renderResults(&b, modalWidth-4)

	content := lipgloss.NewStyle().
		Width(modalWidth - 4).
		Render(b.String())

	modal := styles.ModalStyle.
		Width(modalWidth).
		Render(content)

	return lipgloss.Place(
		o.width,
		o.height,
		lipgloss.Center,
		lipgloss.Center,
		modal,
	)
}

func (o Omnibar) renderResults(b *strings.Builder, width int) {
	if len(o.results) == 0 {
		if strings.TrimSpace(o.input.Value()) != "" {
			b.WriteString(styles.DimStyle.Render("No matches found"))
		}
		return
	}

	displayCount := min(len(o.results), omnibarMaxResults)
	for i := 0; i < displayCount; i++ {
		result := o.results[i]
		selected := i == o.cursor

		var line strings.Builder
		line.WriteString(styles.DimBadgeStyle.Render(kindBadge(result.Kind)))
		line.WriteString(" ")

		crumb := styles.Truncate(result.Breadcrumb(), width/3)
		line.WriteString(styles.DimStyle.Render(crumb + " > "))

		maxTitleWidth := max(width-lipgloss.Width(line.String()), 10)
		line.WriteString(highlightMatches(result.Title, result.MatchedIndexes, maxTitleWidth, selected))

		b.WriteString(line.String())
		b.WriteString("\n")
	}

	if len(o.results) > omnibarMaxResults {
		b.WriteString(styles.DimStyle.Render(fmt.Sprintf("... and %d more", len(o.results)-omnibarMaxResults)))
	}
}

func kindBadge(k search.Kind) string {
	switch k {
	case search.KindLevel:
		return "LVL"
	case search.KindResource:
		return "RES"
	default:
		return "TOP"
	}
}

// highlightMatches renders title with matched byte offsets emphasised.
// Offsets index the lowercased title, so highlighting is skipped when
// lowercasing changed the byte length.
func highlightMatches(title string, matched []int, width int, selected bool) string {
	base := styles.NormalItemStyle
	hl := styles.MatchHighlightStyle
	if selected {
		base = styles.SelectedItemStyle
		hl = styles.MatchHighlightSelectedStyle
	}

	title = styles.Truncate(title, width)
	if len(matched) == 0 || len(strings.ToLower(title)) != len(title) {
		return base.Render(title)
	}

	isMatch := make(map[int]bool, len(matched))
	for _, idx := range matched {
		isMatch[idx] = true
	}

	var b strings.Builder
	for i, r := range title {
		if isMatch[i] {
			b.WriteString(hl.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}
	return b.String()
}
