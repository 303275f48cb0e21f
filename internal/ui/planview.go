package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/litescript/ls-eclipses/internal/astro"
	"github.com/litescript/ls-eclipses/internal/plan"
)

// PlanViewModel shows the night's schedule table and per-star summary.
type PlanViewModel struct {
	date      textinput.Model
	schedule  *plan.Schedule
	summaries []plan.StarSummary
	scroll    int
	width     int
	height    int
}

// NewPlanViewModel creates the view with the date input set to today.
func NewPlanViewModel(today time.Time) PlanViewModel {
	ti := textinput.New()
	ti.Prompt = "Date ▸ "
	ti.Placeholder = plan.DateLayout
	ti.CharLimit = len(plan.DateLayout)
	ti.SetValue(today.Format(plan.DateLayout))
	ti.Focus()
	return PlanViewModel{date: ti}
}

// SetSize updates the view dimensions.
func (m PlanViewModel) SetSize(width, height int) PlanViewModel {
	m.width = width
	m.height = height
	return m
}

// Date returns the entered date.
func (m PlanViewModel) Date() string {
	return strings.TrimSpace(m.date.Value())
}

// SetSchedule shows a freshly computed schedule.
func (m PlanViewModel) SetSchedule(s *plan.Schedule) PlanViewModel {
	m.schedule = s
	m.scroll = 0
	if s != nil {
		m.summaries = plan.Summarize(s)
	} else {
		m.summaries = nil
	}
	return m
}

// Schedule returns the schedule on display, or nil.
func (m PlanViewModel) Schedule() *plan.Schedule {
	return m.schedule
}

// tableHeight is how many schedule rows fit above the summary.
func (m PlanViewModel) tableHeight() int {
	h := m.height - 8 - len(m.summaries)
	if h < 5 {
		h = 5
	}
	return h
}

// Update handles scrolling and date entry.
func (m PlanViewModel) Update(msg tea.Msg) (PlanViewModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && m.schedule != nil {
		maxScroll := len(m.schedule.Rows) - m.tableHeight()
		if maxScroll < 0 {
			maxScroll = 0
		}
		switch msg.String() {
		case "up":
			m.scroll--
		case "down":
			m.scroll++
		case "pgup":
			m.scroll -= m.tableHeight()
		case "pgdown":
			m.scroll += m.tableHeight()
		default:
			var cmd tea.Cmd
			m.date, cmd = m.date.Update(msg)
			return m, cmd
		}
		if m.scroll > maxScroll {
			m.scroll = maxScroll
		}
		if m.scroll < 0 {
			m.scroll = 0
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.date, cmd = m.date.Update(msg)
	return m, cmd
}

const planRowFormat = " %-6s %-22s %7s %12s  %-8s  %-14s"

// View renders the plan.
func (m PlanViewModel) View() string {
	var b strings.Builder
	b.WriteString(m.date.View())
	b.WriteString(dimStyle.Render("   enter: calculate  ↑↓: scroll"))
	b.WriteString("\n\n")

	if m.schedule == nil {
		b.WriteString(dimStyle.Render("  No plan calculated yet"))
		return b.String()
	}

	s := m.schedule
	b.WriteString(paneTitleStyle.Render(fmt.Sprintf("Plan of observation for %s @ %s (%s)",
		s.Date, s.Site.Name, s.Site.Location().String())))
	b.WriteString("\n")
	b.WriteString(tableHeaderStyle.Render(fmt.Sprintf(planRowFormat,
		"Time", "Variable Star", "Phase", "Altitude (°)", "Sky", "Status")))
	b.WriteString("\n")

	if len(s.Rows) == 0 {
		b.WriteString(dimStyle.Render("  No registered stars"))
		b.WriteString("\n")
	}

	end := m.scroll + m.tableHeight()
	if end > len(s.Rows) {
		end = len(s.Rows)
	}
	for _, row := range s.Rows[m.scroll:end] {
		b.WriteString(statusStyle(row.Status).Render(formatPlanRow(row)))
		b.WriteString("\n")
	}
	if len(s.Rows) > end {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  ... %d more rows", len(s.Rows)-end)))
		b.WriteString("\n")
	}

	if len(m.summaries) > 0 {
		b.WriteString("\n")
		b.WriteString(m.renderSummary())
	}
	return b.String()
}

func formatPlanRow(row plan.Row) string {
	sky := astro.GetSkyCondition(row.SunAltDeg).String()
	if row.Status == plan.Error {
		return fmt.Sprintf(planRowFormat,
			row.LocalTime.Format("15:04"), truncate(row.Star, 22), "-", "-", sky, row.Status.String())
	}
	return fmt.Sprintf(planRowFormat,
		row.LocalTime.Format("15:04"),
		truncate(row.Star, 22),
		fmt.Sprintf("%.4f", row.Phase),
		fmt.Sprintf("%.1f", row.AltitudeDeg),
		sky,
		row.Status.String())
}

func (m PlanViewModel) renderSummary() string {
	var b strings.Builder
	b.WriteString(paneTitleStyle.Render("Night Summary"))
	b.WriteString("\n")
	for _, sum := range m.summaries {
		name := fmt.Sprintf("%-22s", truncate(sum.Star, 22))
		if sum.Err != nil {
			b.WriteString(name + " " + errStyle.Render(sum.Err.Error()))
			b.WriteString("\n")
			continue
		}

		line := fmt.Sprintf("%s peak %5.1f° at %s", name, sum.PeakAltDeg, sum.PeakTime.Format("15:04"))
		if len(sum.Minima) > 0 {
			var mins []string
			for _, pm := range sum.Minima {
				mins = append(mins, fmt.Sprintf("%s %s (%.0f°)",
					pm.Kind, pm.LocalTime.Round(time.Minute).Format("15:04"), pm.AltitudeDeg))
			}
			b.WriteString(cellStyle.Render(line + "  minima: "))
			b.WriteString(statusStyle(plan.Minimum).Render(strings.Join(mins, ", ")))
		} else {
			b.WriteString(cellStyle.Render(line))
			b.WriteString(dimStyle.Render("  no minimum tonight"))
		}
		b.WriteString("\n")
	}
	return paneStyle.Render(strings.TrimRight(b.String(), "\n"))
}
