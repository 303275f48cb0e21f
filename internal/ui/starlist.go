package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/litescript/ls-eclipses/internal/catalog"
)

// StarListModel lists the registered stars.
type StarListModel struct {
	stars  []catalog.Star
	cursor int
	height int
}

// SetStars replaces the list, keeping the cursor in range.
func (m StarListModel) SetStars(stars []catalog.Star) StarListModel {
	m.stars = stars
	if m.cursor >= len(stars) {
		m.cursor = len(stars) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	return m
}

// SetHeight sets the number of visible rows.
func (m StarListModel) SetHeight(h int) StarListModel {
	m.height = h
	return m
}

// Selected returns the star under the cursor.
func (m StarListModel) Selected() (catalog.Star, bool) {
	if len(m.stars) == 0 {
		return catalog.Star{}, false
	}
	return m.stars[m.cursor], true
}

// Update handles cursor movement.
func (m StarListModel) Update(msg tea.Msg) (StarListModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.stars)-1 {
				m.cursor++
			}
		case "home", "g":
			m.cursor = 0
		case "end", "G":
			if len(m.stars) > 0 {
				m.cursor = len(m.stars) - 1
			}
		}
	}
	return m, nil
}

// View renders the list pane.
func (m StarListModel) View(focused bool) string {
	var b strings.Builder
	b.WriteString(paneTitleStyle.Render("Registered Stars"))
	b.WriteString("\n\n")
	b.WriteString(tableHeaderStyle.Render(fmt.Sprintf(" %-22s %12s ", "Name", "Period (d)")))
	b.WriteString("\n")

	if len(m.stars) == 0 {
		b.WriteString(dimStyle.Render(" No stars yet"))
	}

	start, end := visibleWindow(len(m.stars), m.cursor, m.height)
	for i := start; i < end; i++ {
		st := m.stars[i]
		line := fmt.Sprintf(" %-22s %12s ", truncate(st.Name, 22), formatFloat(st.Period))
		if focused && i == m.cursor {
			b.WriteString(cursorRowStyle.Render(line))
		} else {
			b.WriteString(cellStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("enter: edit  d: delete"))

	style := paneStyle
	if focused {
		style = focusedPaneStyle
	}
	return style.Render(b.String())
}

// visibleWindow returns the [start, end) rows to draw so that cursor stays
// on screen. A non-positive height shows everything.
func visibleWindow(n, cursor, height int) (int, int) {
	if height <= 0 || n <= height {
		return 0, n
	}
	start := cursor - height/2
	if start < 0 {
		start = 0
	}
	if start+height > n {
		start = n - height
	}
	return start, start + height
}

// truncate shortens s to max runes, marking the cut with an ellipsis.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 1 {
		return string(r[:max])
	}
	return string(r[:max-1]) + "…"
}
