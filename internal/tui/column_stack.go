package tui

import (
	"strings"

	"github.com/mmcdole/waypoint/internal/tui/components"
)

// ColumnStack is the drill-down trail of Miller columns:
//
//	Root:   [Paths | Inspector]
//	Path:   [Paths | Web Development | Inspector]
//	Level:  [Web Development | JavaScript | Inspector]
//
// The top column is focused. Each push remembers which row was selected in
// the column below it, by kind and ID, so going back lands on the same path
// or level even after its rows were rebuilt.
type ColumnStack struct {
	columns []*components.ListColumn
	origins []origin // origins[i] was selected in columns[i] when columns[i+1] was pushed
}

type origin struct {
	kind components.RowKind
	id   string
}

// NewColumnStack creates an empty stack
func NewColumnStack() *ColumnStack {
	return &ColumnStack{}
}

func (cs *ColumnStack) Len() int {
	return len(cs.columns)
}

// Get returns the column at idx (0 = root), or nil
func (cs *ColumnStack) Get(idx int) *components.ListColumn {
	if idx < 0 || idx >= len(cs.columns) {
		return nil
	}
	return cs.columns[idx]
}

// Top returns the focused column, or nil when empty
func (cs *ColumnStack) Top() *components.ListColumn {
	return cs.Get(len(cs.columns) - 1)
}

// Push opens col on top of the stack, remembering the current selection.
func (cs *ColumnStack) Push(col *components.ListColumn) {
	if top := cs.Top(); top != nil {
		var o origin
		if row, ok := top.SelectedRow(); ok {
			o = origin{kind: row.Kind, id: row.ID}
		}
		cs.origins = append(cs.origins, o)
		top.SetFocused(false)
	}
	col.SetFocused(true)
	cs.columns = append(cs.columns, col)
}

// Pop closes the top column and reselects the row it was opened from. The
// root column is never popped.
func (cs *ColumnStack) Pop() bool {
	if !cs.CanGoBack() {
		return false
	}

	cs.Top().SetFocused(false)
	cs.columns = cs.columns[:len(cs.columns)-1]

	o := cs.origins[len(cs.origins)-1]
	cs.origins = cs.origins[:len(cs.origins)-1]

	top := cs.Top()
	top.SetFocused(true)
	if row, ok := top.SelectedRow(); !ok || row.Kind != o.kind || row.ID != o.id {
		top.SelectByID(o.kind, o.id)
	}
	return true
}

// Reset replaces the whole stack with a single root column
func (cs *ColumnStack) Reset(root *components.ListColumn) {
	for _, col := range cs.columns {
		col.SetFocused(false)
	}
	root.SetFocused(true)
	cs.columns = []*components.ListColumn{root}
	cs.origins = nil
}

// CanGoBack reports whether there is a column below the top
func (cs *ColumnStack) CanGoBack() bool {
	return len(cs.columns) > 1
}

// Breadcrumb joins the titles of every column above the root, e.g.
// "Web Development › JavaScript".
func (cs *ColumnStack) Breadcrumb() string {
	if len(cs.columns) < 2 {
		return ""
	}
	titles := make([]string, 0, len(cs.columns)-1)
	for _, col := range cs.columns[1:] {
		titles = append(titles, col.Title())
	}
	return strings.Join(titles, " › ")
}

// Each calls fn for every column from root to top
func (cs *ColumnStack) Each(fn func(col *components.ListColumn)) {
	for _, col := range cs.columns {
		fn(col)
	}
}
