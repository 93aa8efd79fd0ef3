package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/waypoint/internal/tui/components"
)

func pathRows(ids ...string) []components.Row {
	rows := make([]components.Row, len(ids))
	for i, id := range ids {
		rows[i] = components.Row{Kind: components.RowPath, PathID: id, ID: id, Title: id}
	}
	return rows
}

func sized(col *components.ListColumn) *components.ListColumn {
	col.SetSize(40, 20)
	return col
}

var down = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")}

func TestColumnStack_PushPop(t *testing.T) {
	cs := NewColumnStack()
	assert.Nil(t, cs.Top())

	root := sized(components.NewPathsColumn(pathRows("go", "sql", "web")))
	cs.Reset(root)
	assert.False(t, cs.CanGoBack())
	assert.False(t, cs.Pop())

	root.Update(down)
	child := sized(components.NewLevelsColumn("sql", "SQL", nil))
	cs.Push(child)
	assert.True(t, cs.CanGoBack())
	assert.Same(t, child, cs.Top())

	// Only the top column takes keys
	root.Update(down)
	assert.Equal(t, 1, root.SelectedIndex())

	assert.True(t, cs.Pop())
	assert.Same(t, root, cs.Top())
	root.Update(down)
	assert.Equal(t, 2, root.SelectedIndex())
}

func TestColumnStack_PopReselectsByID(t *testing.T) {
	cs := NewColumnStack()
	root := sized(components.NewPathsColumn(pathRows("go", "sql", "web")))
	cs.Reset(root)
	root.Update(down)

	cs.Push(sized(components.NewLevelsColumn("sql", "SQL", nil)))

	// Rows rebuilt in another order while the child was open
	root.SetRows(pathRows("web", "go", "sql"))

	require.True(t, cs.Pop())
	row, ok := root.SelectedRow()
	require.True(t, ok)
	assert.Equal(t, "sql", row.ID)
	assert.Equal(t, 2, root.SelectedIndex())
}

func TestColumnStack_Breadcrumb(t *testing.T) {
	cs := NewColumnStack()
	cs.Reset(components.NewPathsColumn(nil))
	assert.Empty(t, cs.Breadcrumb())

	cs.Push(components.NewLevelsColumn("go", "Go", nil))
	cs.Push(components.NewItemsColumn("go", "basics", "Basics", nil))
	assert.Equal(t, "Go › Basics", cs.Breadcrumb())

	cs.Pop()
	assert.Equal(t, "Go", cs.Breadcrumb())
}

func TestColumnStack_ResetAndEach(t *testing.T) {
	cs := NewColumnStack()
	cs.Reset(components.NewPathsColumn(nil))
	cs.Push(components.NewLevelsColumn("go", "Go", nil))
	cs.Push(components.NewItemsColumn("go", "basics", "Basics", nil))

	var types []components.ColumnType
	cs.Each(func(col *components.ListColumn) {
		types = append(types, col.ColumnType())
	})
	assert.Equal(t, []components.ColumnType{
		components.ColumnTypePaths,
		components.ColumnTypeLevels,
		components.ColumnTypeItems,
	}, types)

	root := components.NewPathsColumn(nil)
	cs.Reset(root)
	require.Equal(t, 1, cs.Len())
	assert.Same(t, root, cs.Top())
	assert.Nil(t, cs.Get(1))
	assert.Empty(t, cs.Breadcrumb())
}
