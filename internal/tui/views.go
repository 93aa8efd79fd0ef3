package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/waypoint/internal/stats"
	"github.com/mmcdole/waypoint/internal/tui/styles"
)

// View renders the application
func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}
	if !m.Loaded {
		return lipgloss.Place(m.Width, m.Height, lipgloss.Center, lipgloss.Center,
			styles.DimStyle.Render("Loading progress..."))
	}

	if m.ShowHelp {
		return m.renderHelp()
	}

	if m.Omnibar.IsVisible() {
		return m.Omnibar.View()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderColumns(),
		m.renderFooter(),
	)
}

// renderColumns draws the visible slice of the column stack plus the inspector
func (m Model) renderColumns() string {
	stackLen := m.ColumnStack.Len()
	if stackLen == 0 {
		return ""
	}

	layout := m.calculateColumnLayout(m.Width)
	topIdx := stackLen - 1

	var views []string
	if layout.grandparentWidth > 0 {
		views = append(views, m.ColumnStack.Get(topIdx-2).View())
	}
	if layout.parentWidth > 0 {
		views = append(views, m.ColumnStack.Get(topIdx-1).View())
	}
	views = append(views, m.ColumnStack.Get(topIdx).View())

	if layout.inspectorWidth > 0 {
		inspector := m.Inspector
		inspector.SetDetails(m.selectionDetails())
		views = append(views, inspector.View())
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, views...)
}

// renderFooter renders a single-line minimal footer
func (m Model) renderFooter() string {
	// Left side: last status message, else where we are
	var left string
	switch {
	case m.StatusMsg != "" && m.StatusIsErr:
		left = styles.ErrorStyle.Render(m.StatusMsg)
	case m.StatusMsg != "":
		left = styles.DimStyle.Render(m.StatusMsg)
	default:
		left = styles.DimStyle.Render(m.ColumnStack.Breadcrumb())
	}

	// Center: overall progress across every path
	center := styles.DimStyle.Render("Overall ") +
		styles.AccentStyle.Render(fmt.Sprintf("%d%%", stats.RoundPercent(m.Tracker.GlobalProgress())))

	// Right side: "? help" hint
	right := styles.AccentStyle.Render("?") + styles.DimStyle.Render(" help")

	leftWidth := lipgloss.Width(left)
	centerWidth := lipgloss.Width(center)
	rightWidth := lipgloss.Width(right)

	if leftWidth+centerWidth+rightWidth >= m.Width {
		// Not enough space - just left + right
		gap := max(m.Width-leftWidth-rightWidth, 0)
		return left + strings.Repeat(" ", gap) + right
	}

	available := m.Width - leftWidth - rightWidth
	leftPad := (available - centerWidth) / 2
	rightPad := available - centerWidth - leftPad

	return left + strings.Repeat(" ", leftPad) + center + strings.Repeat(" ", rightPad) + right
}

// renderHelp renders the help screen
func (m Model) renderHelp() string {
	h := m.Help
	h.ShowAll = true

	content := styles.ModalTitleStyle.Render("Keys") + "\n" +
		h.View(Keys) + "\n\n" +
		styles.DimStyle.Render("Press any key to return...")

	return lipgloss.Place(m.Width, m.Height,
		lipgloss.Center, lipgloss.Center,
		styles.ModalStyle.Render(content))
}
