package tui

import (
	"fmt"

	"github.com/mmcdole/waypoint/internal/domain"
	"github.com/mmcdole/waypoint/internal/search"
	"github.com/mmcdole/waypoint/internal/stats"
	"github.com/mmcdole/waypoint/internal/tui/components"
)

// selectedRow returns the row under the cursor of the focused column
func (m Model) selectedRow() (components.Row, bool) {
	top := m.ColumnStack.Top()
	if top == nil {
		return components.Row{}, false
	}
	return top.SelectedRow()
}

// drillIntoSelection pushes the child column of the selected path or level
func (m *Model) drillIntoSelection() {
	top := m.ColumnStack.Top()
	if top == nil {
		return
	}
	row, ok := top.SelectedRow()
	if !ok || !row.CanDrillInto() {
		return
	}

	col, err := m.columnFor(row)
	if err != nil {
		m.logger.Error("failed to open column", "error", err, "row", row.ID)
		m.setError(err.Error())
		return
	}

	m.ColumnStack.Push(col)
	m.updateLayout()
}

// columnFor builds the child column of a path or level row
func (m Model) columnFor(row components.Row) (*components.ListColumn, error) {
	switch row.Kind {
	case components.RowPath:
		p, err := m.Tracker.Path(row.PathID)
		if err != nil {
			return nil, err
		}
		return components.NewLevelsColumn(p.ID, p.Title, m.levelRows(p)), nil
	case components.RowLevel:
		l, err := m.Tracker.Level(row.PathID, row.ID)
		if err != nil {
			return nil, err
		}
		return components.NewItemsColumn(row.PathID, l.ID, l.Title, m.itemRows(row.PathID, l)), nil
	default:
		return nil, fmt.Errorf("cannot open %q", row.Title)
	}
}

// jumpTo rebuilds the stack so the search result is selected
func (m *Model) jumpTo(res search.Result) {
	paths := components.NewPathsColumn(m.pathRows())
	m.ColumnStack.Reset(paths)
	if !paths.SelectByID(components.RowPath, res.PathID) {
		m.setError("Path not found: " + res.PathID)
		return
	}

	m.drillIntoSelection()
	levels := m.ColumnStack.Top()
	if levels == paths || !levels.SelectByID(components.RowLevel, res.LevelID) {
		m.setError("Level not found: " + res.LevelID)
		return
	}

	switch res.Kind {
	case search.KindTopic:
		m.drillIntoSelection()
		m.ColumnStack.Top().SelectByID(components.RowTopic, res.ID)
	case search.KindResource:
		m.drillIntoSelection()
		m.ColumnStack.Top().SelectByID(components.RowResource, res.ID)
	}
	m.updateLayout()
}

// refreshRows rebuilds every column's rows from current progress
func (m *Model) refreshRows() {
	m.ColumnStack.Each(func(col *components.ListColumn) {
		switch col.ColumnType() {
		case components.ColumnTypePaths:
			col.SetRows(m.pathRows())
		case components.ColumnTypeLevels:
			if p, err := m.Tracker.Path(col.PathID()); err == nil {
				col.SetRows(m.levelRows(p))
			}
		case components.ColumnTypeItems:
			if l, err := m.Tracker.Level(col.PathID(), col.LevelID()); err == nil {
				col.SetRows(m.itemRows(col.PathID(), l))
			}
		}
	})
}

// === Row builders ===

func (m Model) pathRows() []components.Row {
	summaries := m.Tracker.Summaries()
	rows := make([]components.Row, 0, len(summaries))
	for _, s := range summaries {
		title := s.Path.Title
		if s.Path.Icon != "" {
			title = s.Path.Icon + " " + title
		}
		rows = append(rows, components.Row{
			Kind:    components.RowPath,
			PathID:  s.Path.ID,
			ID:      s.Path.ID,
			Title:   title,
			Detail:  fmt.Sprintf("%d%%", stats.RoundPercent(s.Stats.ProgressPercent)),
			Percent: s.Stats.ProgressPercent,
		})
	}
	return rows
}

func (m Model) levelRows(p domain.Path) []components.Row {
	rows := make([]components.Row, 0, len(p.Levels))
	for _, l := range p.Levels {
		ls, _ := m.Tracker.LevelStats(p.ID, l.ID)
		rows = append(rows, components.Row{
			Kind:    components.RowLevel,
			PathID:  p.ID,
			LevelID: l.ID,
			ID:      l.ID,
			Title:   l.Title,
			Detail:  components.FormatCount(ls.CompletedTopics, ls.TotalTopics),
			Percent: ls.ProgressPercent,
			Done:    ls.Completed,
		})
	}
	return rows
}

func (m Model) itemRows(pathID string, l domain.Level) []components.Row {
	rows := make([]components.Row, 0, len(l.Topics)+len(l.Resources))
	for _, t := range l.Topics {
		rows = append(rows, components.Row{
			Kind:    components.RowTopic,
			PathID:  pathID,
			LevelID: l.ID,
			ID:      t.ID,
			Title:   t.Name,
			Done:    m.Tracker.IsTopicCompleted(pathID, l.ID, t.ID),
		})
	}
	for _, r := range l.Resources {
		rows = append(rows, components.Row{
			Kind:    components.RowResource,
			PathID:  pathID,
			LevelID: l.ID,
			ID:      r.ID,
			Title:   r.Name,
			Detail:  r.Type.Label(),
			Done:    m.Tracker.IsResourceViewed(pathID, l.ID, r.ID),
		})
	}
	return rows
}

// === Inspector ===

// selectionDetails describes the focused row for the inspector
func (m Model) selectionDetails() *components.Details {
	row, ok := m.selectedRow()
	if !ok {
		return nil
	}

	switch row.Kind {
	case components.RowPath:
		return m.pathDetails(row.PathID)
	case components.RowLevel:
		return m.levelDetails(row.PathID, row.ID)
	case components.RowTopic:
		return m.topicDetails(row)
	case components.RowResource:
		return m.resourceDetails(row)
	}
	return nil
}

func (m Model) pathDetails(pathID string) *components.Details {
	p, err := m.Tracker.Path(pathID)
	if err != nil {
		return nil
	}
	st, _ := m.Tracker.PathStats(pathID)

	return &components.Details{
		Kind:        components.RowPath,
		Title:       p.Title,
		Subtitle:    fmt.Sprintf("%d levels", len(p.Levels)),
		Description: p.Description,
		Fields: []components.Field{
			{Label: "Progress", Value: fmt.Sprintf("%d%%", stats.RoundPercent(st.ProgressPercent))},
			{Label: "Topics", Value: components.FormatCount(st.CompletedTopics, st.TotalTopics)},
			{Label: "Levels done", Value: components.FormatCount(st.CompletedLevels, st.TotalLevels)},
			{Label: "All paths", Value: fmt.Sprintf("%d%%", stats.RoundPercent(m.Tracker.GlobalProgress()))},
		},
		Percent:     st.ProgressPercent,
		ShowPercent: true,
		Hint:        "l: levels  /: filter  f: search",
	}
}

func (m Model) levelDetails(pathID, levelID string) *components.Details {
	l, err := m.Tracker.Level(pathID, levelID)
	if err != nil {
		return nil
	}
	ls, _ := m.Tracker.LevelStats(pathID, levelID)

	viewed := 0
	for _, r := range l.Resources {
		if m.Tracker.IsResourceViewed(pathID, levelID, r.ID) {
			viewed++
		}
	}

	fields := []components.Field{
		{Label: "Topics", Value: components.FormatCount(ls.CompletedTopics, ls.TotalTopics)},
		{Label: "Resources", Value: components.FormatCount(viewed, len(l.Resources))},
	}
	if l.Duration != "" {
		fields = append([]components.Field{{Label: "Duration", Value: l.Duration}}, fields...)
	}

	return &components.Details{
		Kind:        components.RowLevel,
		Title:       l.Title,
		Description: l.Description,
		Fields:      fields,
		Percent:     ls.ProgressPercent,
		ShowPercent: true,
		Done:        ls.Completed,
		Hint:        "l: items  c: complete level",
	}
}

func (m Model) topicDetails(row components.Row) *components.Details {
	l, err := m.Tracker.Level(row.PathID, row.LevelID)
	if err != nil {
		return nil
	}
	return &components.Details{
		Kind:     components.RowTopic,
		Title:    row.Title,
		Subtitle: l.Title,
		Done:     row.Done,
		Hint:     "space: toggle  c: complete level",
	}
}

func (m Model) resourceDetails(row components.Row) *components.Details {
	p, err := m.Tracker.Path(row.PathID)
	if err != nil {
		return nil
	}
	d := &components.Details{
		Kind:     components.RowResource,
		Title:    row.Title,
		Subtitle: p.Title,
		Done:     row.Done,
		Hint:     "o/enter: open  space: toggle viewed",
	}
	if l, err := m.Tracker.Level(row.PathID, row.LevelID); err == nil {
		for _, r := range l.Resources {
			if r.ID == row.ID {
				d.Fields = []components.Field{
					{Label: "Type", Value: r.Type.Label()},
					{Label: "URL", Value: r.URL},
				}
			}
		}
	}
	return d
}
