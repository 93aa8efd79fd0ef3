package tui

// Layout proportions for Miller Columns
const (
	// 3-Column Smart Ratios (Inspector visible)
	ParentColumnPercent3   = 25 // Parent context
	InspectorColumnPercent = 35 // Inspector (stats)

	// 3-Column Focus Mode (Inspector hidden) - show more navigation context
	GrandparentColumnPercent = 25
	ParentColumnPercent2     = 30

	// Root level (single column + inspector)
	RootColumnPercent = 45

	MinColumnWidth = 15

	// Vertical layout: single footer line
	ChromeHeight = 1
)

// columnLayout holds calculated column widths for the View
type columnLayout struct {
	grandparentWidth int // 0 if not shown
	parentWidth      int // 0 if not shown
	activeWidth      int
	inspectorWidth   int // 0 if not shown
}

// calculateColumnLayout computes column widths based on stack depth and inspector visibility
func (m Model) calculateColumnLayout(availableWidth int) columnLayout {
	stackLen := m.ColumnStack.Len()
	layout := columnLayout{}

	applyMin := func(width int) int {
		return max(width, MinColumnWidth)
	}

	switch {
	case stackLen <= 1:
		// Root level: single column (Paths)
		if m.ShowInspector {
			layout.activeWidth = applyMin(availableWidth * RootColumnPercent / 100)
			layout.inspectorWidth = availableWidth - layout.activeWidth
		} else {
			layout.activeWidth = availableWidth
		}

	case m.ShowInspector:
		// [Parent | Active | Inspector]
		layout.parentWidth = applyMin(availableWidth * ParentColumnPercent3 / 100)
		layout.inspectorWidth = applyMin(availableWidth * InspectorColumnPercent / 100)
		layout.activeWidth = applyMin(availableWidth - layout.parentWidth - layout.inspectorWidth)

	case stackLen == 2:
		// [Parent | Active]
		layout.parentWidth = applyMin(availableWidth * ParentColumnPercent2 / 100)
		layout.activeWidth = applyMin(availableWidth - layout.parentWidth)

	default:
		// [Grandparent | Parent | Active]
		layout.grandparentWidth = applyMin(availableWidth * GrandparentColumnPercent / 100)
		layout.parentWidth = applyMin(availableWidth * ParentColumnPercent2 / 100)
		layout.activeWidth = applyMin(availableWidth - layout.grandparentWidth - layout.parentWidth)
	}

	return layout
}

// updateLayout updates component sizes based on window size
func (m *Model) updateLayout() {
	if m.Width == 0 || m.Height == 0 {
		return
	}

	contentHeight := m.Height - ChromeHeight
	m.Omnibar.SetSize(m.Width, m.Height)
	m.Help.Width = m.Width

	stackLen := m.ColumnStack.Len()
	if stackLen == 0 {
		return
	}

	layout := m.calculateColumnLayout(m.Width)
	topIdx := stackLen - 1

	m.ColumnStack.Get(topIdx).SetSize(layout.activeWidth, contentHeight)
	if layout.parentWidth > 0 {
		m.ColumnStack.Get(topIdx-1).SetSize(layout.parentWidth, contentHeight)
	}
	if layout.grandparentWidth > 0 {
		m.ColumnStack.Get(topIdx-2).SetSize(layout.grandparentWidth, contentHeight)
	}
	if layout.inspectorWidth > 0 {
		m.Inspector.SetSize(layout.inspectorWidth, contentHeight)
	}
}
