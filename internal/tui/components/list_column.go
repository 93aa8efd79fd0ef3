package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"

	"github.com/mmcdole/waypoint/internal/tui/styles"
)

// Layout constants for list columns
const (
	// Border adds 1 char on each side (left+right for width, top+bottom for height)
	BorderWidth  = 2
	BorderHeight = 2

	// Scroll indicators ("↑ more" and "↓ more") each take 1 line
	ScrollIndicatorLines = 2
)

// listKeys are the keys a focused column handles on its own. Progress keys
// (toggle, complete, open) are routed by the app model, which knows the
// tracker.
var listKeys = struct {
	Up, Down, First, Last, PageUp, PageDown key.Binding
	EditFilter, AcceptFilter, ClearFilter   key.Binding
}{
	Up:           key.NewBinding(key.WithKeys("k", "up")),
	Down:         key.NewBinding(key.WithKeys("j", "down")),
	First:        key.NewBinding(key.WithKeys("g", "home")),
	Last:         key.NewBinding(key.WithKeys("G", "end")),
	PageUp:       key.NewBinding(key.WithKeys("pgup", "ctrl+u")),
	PageDown:     key.NewBinding(key.WithKeys("pgdown", "ctrl+d")),
	EditFilter:   key.NewBinding(key.WithKeys("/")),
	AcceptFilter: key.NewBinding(key.WithKeys("enter")),
	ClearFilter:  key.NewBinding(key.WithKeys("esc")),
}

// ListColumn is a scrollable, filterable list of rows
type ListColumn struct {
	rows       []Row
	columnType ColumnType
	pathID     string
	levelID    string

	// Selection
	cursor     int
	offset     int
	maxVisible int

	// Dimensions
	width   int
	height  int
	focused bool

	// Column title (shown in header)
	title string

	// Filter state
	filterActive bool
	filterInput  textinput.Model
	filterQuery  string
	filteredIdx  []int // indices into rows
}

// NewListColumn creates a new list column with the given type and title
func NewListColumn(colType ColumnType, title string, rows []Row) *ListColumn {
	ti := textinput.New()
	ti.Placeholder = "type to filter..."
	ti.Prompt = "/ "
	ti.PromptStyle = styles.FilterPromptStyle
	ti.TextStyle = styles.FilterStyle

	return &ListColumn{
		columnType:  colType,
		title:       title,
		rows:        rows,
		filterInput: ti,
	}
}

// NewPathsColumn creates the root column listing every path
func NewPathsColumn(rows []Row) *ListColumn {
	return NewListColumn(ColumnTypePaths, "Paths", rows)
}

// NewLevelsColumn creates a column listing the levels of one path
func NewLevelsColumn(pathID, title string, rows []Row) *ListColumn {
	col := NewListColumn(ColumnTypeLevels, title, rows)
	col.pathID = pathID
	return col
}

// NewItemsColumn creates a column listing the topics and resources of a level
func NewItemsColumn(pathID, levelID, title string, rows []Row) *ListColumn {
	col := NewListColumn(ColumnTypeItems, title, rows)
	col.pathID = pathID
	col.levelID = levelID
	return col
}

// Update handles navigation and filter keys. Only the focused column reacts.
func (c *ListColumn) Update(msg tea.Msg) tea.Cmd {
	if !c.focused {
		return nil
	}

	keyMsg, isKey := msg.(tea.KeyMsg)

	// Handle filter input when active AND focused (typing mode)
	if c.filterActive && c.filterInput.Focused() {
		if isKey {
			switch {
			case key.Matches(keyMsg, listKeys.ClearFilter):
				c.clearFilter()
				return nil
			case key.Matches(keyMsg, listKeys.AcceptFilter):
				// Accept filter, blur input to allow navigation
				c.filterInput.Blur()
				return nil
			case keyMsg.Type == tea.KeyBackspace && c.filterInput.Value() == "":
				c.clearFilter()
				return nil
			}
		}

		var cmd tea.Cmd
		c.filterInput, cmd = c.filterInput.Update(msg)
		c.applyFilter()
		return cmd
	}

	if !isKey {
		return nil
	}

	// Filter active but blurred: navigation over the filtered rows
	if c.filterActive {
		switch {
		case key.Matches(keyMsg, listKeys.ClearFilter):
			c.clearFilter()
			return nil
		case key.Matches(keyMsg, listKeys.EditFilter):
			c.filterInput.Focus()
			return nil
		}
	}

	count := c.ItemCount()
	if count == 0 {
		return nil
	}

	switch {
	case key.Matches(keyMsg, listKeys.Down):
		if c.cursor < count-1 {
			c.cursor++
		}
	case key.Matches(keyMsg, listKeys.Up):
		if c.cursor > 0 {
			c.cursor--
		}
	case key.Matches(keyMsg, listKeys.First):
		c.cursor = 0
	case key.Matches(keyMsg, listKeys.Last):
		c.cursor = count - 1
	case key.Matches(keyMsg, listKeys.PageDown):
		c.cursor = min(c.cursor+max(c.maxVisible, 1), count-1)
	case key.Matches(keyMsg, listKeys.PageUp):
		c.cursor = max(c.cursor-max(c.maxVisible, 1), 0)
	}
	c.ensureVisible()

	return nil
}

// View renders the column including its border
func (c *ListColumn) View() string {
	style := styles.InactiveBorder
	if c.focused {
		style = styles.ActiveBorder
	}

	content := c.renderContent()

	// Subtract frame (border) size so total rendered size equals c.width x c.height
	frameW, frameH := style.GetFrameSize()

	return style.
		Width(max(c.width-frameW, 0)).
		Height(max(c.height-frameH, 0)).
		Render(content)
}

func (c *ListColumn) SetSize(width, height int) {
	c.width = width
	c.height = height
	c.recalcMaxVisible()
	c.ensureVisible()
}

func (c *ListColumn) SetFocused(focused bool) {
	c.focused = focused
}

func (c *ListColumn) Title() string {
	return c.title
}

// ColumnType returns the column's content type
func (c *ListColumn) ColumnType() ColumnType {
	return c.columnType
}

// PathID returns the path the column belongs to (empty for the root)
func (c *ListColumn) PathID() string {
	return c.pathID
}

// LevelID returns the level an items column belongs to
func (c *ListColumn) LevelID() string {
	return c.levelID
}

// SelectedRow returns the row under the cursor
func (c *ListColumn) SelectedRow() (Row, bool) {
	count := c.ItemCount()
	if count == 0 || c.cursor >= count {
		return Row{}, false
	}
	return c.rows[c.mapIndex(c.cursor)], true
}

func (c *ListColumn) SelectedIndex() int {
	return c.cursor
}

func (c *ListColumn) SetSelectedIndex(idx int) {
	last := c.ItemCount() - 1
	if last < 0 {
		c.cursor = 0
		return
	}
	c.cursor = min(max(idx, 0), last)
	c.ensureVisible()
}

// SelectByID moves the cursor to the row with the given kind and ID. The
// filter is cleared so the row is guaranteed to be visible.
func (c *ListColumn) SelectByID(kind RowKind, id string) bool {
	for i, r := range c.rows {
		if r.Kind == kind && r.ID == id {
			c.clearFilter()
			c.SetSelectedIndex(i)
			return true
		}
	}
	return false
}

// ItemCount returns the number of visible rows
func (c *ListColumn) ItemCount() int {
	if c.filteredIdx != nil {
		return len(c.filteredIdx)
	}
	return len(c.rows)
}

// Rows returns every row, ignoring the filter
func (c *ListColumn) Rows() []Row {
	return c.rows
}

// SetRows swaps in freshly built rows, keeping the cursor and filter.
func (c *ListColumn) SetRows(rows []Row) {
	c.rows = rows
	if c.filterQuery != "" {
		cursor := c.cursor
		c.applyFilter()
		c.cursor = cursor
	}
	c.SetSelectedIndex(c.cursor)
}

// ToggleFilter activates the filter input
func (c *ListColumn) ToggleFilter() {
	c.filterActive = true
	c.filterInput.Focus()
	c.recalcMaxVisible()
}

// IsFiltering returns true if filter mode is active
func (c *ListColumn) IsFiltering() bool {
	return c.filterActive
}

// IsFilterTyping returns true if filter is active AND input is focused
func (c *ListColumn) IsFilterTyping() bool {
	return c.filterActive && c.filterInput.Focused()
}

// ClearFilter deactivates the filter and shows all rows
func (c *ListColumn) ClearFilter() {
	c.clearFilter()
}

// Internal methods

func (c *ListColumn) recalcMaxVisible() {
	// Interior height minus title line and scroll indicators
	interiorHeight := c.height - BorderHeight
	c.maxVisible = interiorHeight - ScrollIndicatorLines - 1
	if c.filterActive {
		c.maxVisible--
	}
	if c.maxVisible < 1 {
		c.maxVisible = 1
	}
}

func (c *ListColumn) ensureVisible() {
	if c.maxVisible <= 0 {
		return
	}
	if c.cursor < c.offset {
		c.offset = c.cursor
	}
	if c.cursor >= c.offset+c.maxVisible {
		c.offset = c.cursor - c.maxVisible + 1
	}
}

func (c *ListColumn) clearFilter() {
	c.filterActive = false
	c.filterQuery = ""
	c.filteredIdx = nil
	c.filterInput.SetValue("")
	c.filterInput.Blur()
	c.recalcMaxVisible()
}

func (c *ListColumn) applyFilter() {
	query := c.filterInput.Value()
	c.filterQuery = query

	if query == "" {
		c.filteredIdx = nil
		return
	}

	lowerTitles := make([]string, len(c.rows))
	for i, r := range c.rows {
		lowerTitles[i] = strings.ToLower(r.Title)
	}

	matches := fuzzy.Find(strings.ToLower(query), lowerTitles)

	c.filteredIdx = make([]int, len(matches))
	for i, match := range matches {
		c.filteredIdx[i] = match.Index
	}

	// Reset cursor to first match
	c.cursor = 0
	c.offset = 0
}

func (c *ListColumn) mapIndex(i int) int {
	if c.filteredIdx != nil && i < len(c.filteredIdx) {
		return c.filteredIdx[i]
	}
	return i
}

// Rendering

func (c *ListColumn) renderContent() string {
	itemWidth := max(c.width-BorderWidth, 10)

	titleLine := styles.AccentStyle.Render(styles.Truncate(c.title, itemWidth))

	count := c.ItemCount()
	if count == 0 {
		emptyMsg := styles.DimStyle.Render("Nothing here")
		if c.filterActive && c.filterQuery != "" {
			emptyMsg = styles.DimStyle.Render("No matches")
		}
		content := titleLine + "\n \n" + emptyMsg + "\n "
		if c.filterActive {
			content += "\n" + c.renderFilterBar()
		}
		return content
	}

	end := min(c.offset+c.maxVisible, count)
	lines := make([]string, 0, end-c.offset)
	for i := c.offset; i < end; i++ {
		lines = append(lines, c.rows[c.mapIndex(i)].render(i == c.cursor, itemWidth))
	}

	// ALWAYS reserve space for header and footer to prevent layout shifts
	header := " "
	if c.offset > 0 {
		header = styles.DimStyle.Render("↑ more")
	}
	footer := " "
	if end < count {
		footer = styles.DimStyle.Render("↓ more")
	}

	content := titleLine + "\n" + header + "\n" + strings.Join(lines, "\n") + "\n" + footer

	if c.filterActive {
		content += "\n" + c.renderFilterBar()
	}

	return content
}

func (c *ListColumn) renderFilterBar() string {
	countStr := ""
	if c.filterQuery != "" {
		countStr = styles.DimStyle.Render(fmt.Sprintf(" [%d/%d]", c.ItemCount(), len(c.rows)))
	}
	return c.filterInput.View() + countStr
}
