// Package ui provides the terminal user interface using Bubble Tea.
package ui

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-eclipses/internal/catalog"
	"github.com/litescript/ls-eclipses/internal/logging"
	"github.com/litescript/ls-eclipses/internal/lookup"
	"github.com/litescript/ls-eclipses/internal/plan"
	"github.com/litescript/ls-eclipses/internal/version"
)

// ViewMode represents the current UI view.
type ViewMode int

const (
	ViewStars ViewMode = iota
	ViewPlan
)

type focusArea int

const (
	focusForm focusArea = iota
	focusList
)

// Deps are the services the UI drives.
type Deps struct {
	Store       *catalog.Store
	Scheduler   *plan.Scheduler
	Positions   lookup.PositionResolver
	Ephemerides lookup.EphemerisResolver
	Changes     <-chan struct{} // catalog file changes, may be nil
	Timeout     time.Duration
	Logger      *logging.Logger
	Now         func() time.Time
}

// Model is the root Bubble Tea model.
type Model struct {
	deps Deps

	viewMode  ViewMode
	focus     focusArea
	width     int
	height    int
	ready     bool
	statusMsg string

	form     FormModel
	list     StarListModel
	planView PlanViewModel

	// Modal dialogs, front first.
	dialogs []*Dialog
	// Star waiting for the overwrite confirmation.
	pending *catalog.Star
}

// New creates a new root UI model.
func New(deps Deps) Model {
	if deps.Timeout <= 0 {
		deps.Timeout = lookup.DefaultTimeout
	}
	if deps.Logger == nil {
		deps.Logger = logging.Discard()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	today := deps.Now().In(deps.Scheduler.Site().Location())

	m := Model{
		deps:     deps,
		viewMode: ViewStars,
		form:     NewFormModel(),
		planView: NewPlanViewModel(today),
	}
	m.list = m.list.SetStars(deps.Store.Stars())
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	if m.deps.Changes == nil {
		return nil
	}
	return waitForCatalogChange(m.deps.Changes)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if len(m.dialogs) > 0 {
			return m.updateDialog(msg)
		}
		return m.updateKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		// Logo and tabs take 5 lines, footer 2
		contentHeight := msg.Height - 7
		m.planView = m.planView.SetSize(msg.Width, contentHeight)
		m.list = m.list.SetHeight(contentHeight - 8)

	case positionResultMsg:
		m.form.posBusy = false
		m.handlePosition(msg)

	case ephemerisResultMsg:
		m.form.ephBusy = false
		if cmd := m.handleEphemeris(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}

	case catalogChangedMsg:
		if err := m.deps.Store.Load(); err != nil {
			m.deps.Logger.Warn("reload catalog: %v", err)
		} else {
			m.statusMsg = "Catalog reloaded from disk"
		}
		m.refreshList()
		if m.deps.Changes != nil {
			cmds = append(cmds, waitForCatalogChange(m.deps.Changes))
		}

	default:
		var cmd tea.Cmd
		m.form, cmd = m.form.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) updateDialog(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	d := m.dialogs[0]
	res := d.handleKey(msg)
	if res == dialogOpen {
		return m, nil
	}
	m.dialogs = m.dialogs[1:]

	if d.kind == dialogConfirm && m.pending != nil {
		star := *m.pending
		m.pending = nil
		if res == dialogAccepted {
			m.saveStar(star, catalog.Overwrite)
		} else {
			m.statusMsg = fmt.Sprintf("%s not updated", star.Name)
		}
	}
	return m, nil
}

func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "f1":
		m.viewMode = ViewStars
		return m, nil
	case "f2":
		m.viewMode = ViewPlan
		return m, nil
	case "ctrl+p":
		m.viewMode = ViewPlan
		m.calculate()
		return m, nil
	}

	if m.viewMode == ViewPlan {
		switch msg.String() {
		case "enter":
			m.calculate()
			return m, nil
		case "esc":
			m.viewMode = ViewStars
			return m, nil
		}
		var cmd tea.Cmd
		m.planView, cmd = m.planView.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "ctrl+r":
		cmd := m.startPositionLookup()
		return m, cmd
	case "ctrl+e":
		cmd := m.startEphemerisLookup()
		return m, cmd
	}

	if m.focus == focusList {
		return m.updateList(msg)
	}

	switch msg.String() {
	case "enter":
		m.addStar()
		return m, nil
	case "esc":
		m.focus = focusList
		m.form = m.form.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.form, cmd = m.form.Update(msg)
	return m, cmd
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc", "tab":
		m.focus = focusForm
		m.form = m.form.Refocus()
		return m, nil
	case "d", "delete":
		m.deleteSelected()
		return m, nil
	case "enter":
		if st, ok := m.list.Selected(); ok {
			m.form = m.form.Fill(st)
			m.focus = focusForm
			m.form = m.form.Refocus()
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) showDialog(kind dialogKind, title, body string) {
	m.dialogs = append(m.dialogs, newDialog(kind, title, body))
}

func (m *Model) refreshList() {
	m.list = m.list.SetStars(m.deps.Store.Stars())
}

func (m *Model) startPositionLookup() tea.Cmd {
	if m.form.posBusy {
		return nil
	}
	name := m.form.Value(fieldName)
	if name == "" {
		m.showDialog(dialogWarning, "Warning", "Please enter a variable star name.")
		return nil
	}
	wasBusy := m.form.Busy()
	m.form.posBusy = true
	m.statusMsg = fmt.Sprintf("Resolving %s...", name)
	return tea.Batch(
		positionLookupCmd(m.deps.Positions, name, m.deps.Timeout),
		m.form.startSpinner(wasBusy),
	)
}

func (m *Model) startEphemerisLookup() tea.Cmd {
	if m.form.ephBusy {
		return nil
	}
	name := m.form.Value(fieldName)
	if name == "" {
		m.showDialog(dialogWarning, "Warning", "Please enter a variable star name.")
		return nil
	}
	wasBusy := m.form.Busy()
	m.form.ephBusy = true
	m.statusMsg = fmt.Sprintf("Searching VSX/GCVS for %s...", name)
	return tea.Batch(
		ephemerisLookupCmd(m.deps.Ephemerides, name, m.deps.Timeout),
		m.form.startSpinner(wasBusy),
	)
}

func (m *Model) handlePosition(msg positionResultMsg) {
	switch {
	case errors.Is(msg.err, lookup.ErrNotFound):
		m.statusMsg = ""
		m.showDialog(dialogInfo, "Not Found", fmt.Sprintf("'%s' not found in Simbad.", msg.name))
	case msg.err != nil:
		m.statusMsg = ""
		m.deps.Logger.Error("position lookup %s: %v", msg.name, msg.err)
		m.showDialog(dialogError, "Error", fmt.Sprintf("Coordinate lookup failed:\n%v", msg.err))
	default:
		m.form = m.form.SetValue(fieldRA, formatCoord(msg.pos.RAdeg))
		m.form = m.form.SetValue(fieldDec, formatCoord(msg.pos.DecDeg))
		m.statusMsg = fmt.Sprintf("%s: coordinates from %s", msg.name, msg.pos.Source)
	}
}

func (m *Model) handleEphemeris(msg ephemerisResultMsg) tea.Cmd {
	switch {
	case errors.Is(msg.err, lookup.ErrNotFound):
		m.statusMsg = ""
		body := fmt.Sprintf("No data found for '%s'.", msg.name)
		var serr *lookup.ServiceError
		if errors.As(msg.err, &serr) {
			body += "\n\n" + msg.err.Error()
		}
		m.showDialog(dialogInfo, "Not Found", body)
		return nil
	case msg.err != nil:
		m.statusMsg = ""
		m.deps.Logger.Error("ephemeris lookup %s: %v", msg.name, msg.err)
		m.showDialog(dialogError, "Error", fmt.Sprintf("Period lookup failed:\n%v", msg.err))
		return nil
	}

	m.form = m.form.SetValue(fieldPeriod, formatFloat(msg.eph.Period))
	if msg.eph.HasEpoch {
		m.form = m.form.SetValue(fieldEpoch, formatFloat(msg.eph.Epoch))
		m.statusMsg = fmt.Sprintf("%s: period and epoch from %s", msg.name, msg.eph.Source)
	} else {
		m.statusMsg = fmt.Sprintf("%s: period from %s", msg.name, msg.eph.Source)
		m.showDialog(dialogInfo, "Partial Data",
			fmt.Sprintf("Source: %s\nPeriod found but Epoch is missing.", msg.eph.Source))
	}

	if m.form.Value(fieldRA) == "" {
		return m.startPositionLookup()
	}
	return nil
}

func (m *Model) addStar() {
	star, err := m.form.Star()
	if err != nil {
		m.showDialog(dialogWarning, "Invalid Input", err.Error())
		return
	}
	if existing, ok := m.deps.Store.Find(star.Name); ok {
		m.confirmUpdate(star, existing)
		return
	}
	if _, err := m.deps.Store.Add(star, nil); errors.Is(err, catalog.ErrExists) {
		// added elsewhere since Find
		existing, _ := m.deps.Store.Find(star.Name)
		m.confirmUpdate(star, existing)
		return
	} else if err != nil {
		m.reportSaveError(star, err)
		return
	}
	m.statusMsg = fmt.Sprintf("Added %s", star.Name)
	m.form = m.form.Clear()
	m.refreshList()
}

func (m *Model) confirmUpdate(star, existing catalog.Star) {
	m.pending = &star
	name := existing.Name
	if name == "" {
		name = star.Name
	}
	m.showDialog(dialogConfirm, "Update?", fmt.Sprintf(
		"'%s' already exists (period %s d, epoch %s). Update it?",
		name, formatFloat(existing.Period), formatFloat(existing.Epoch)))
}

func (m *Model) saveStar(star catalog.Star, confirm func(catalog.Star) bool) {
	if _, err := m.deps.Store.Add(star, confirm); err != nil {
		m.reportSaveError(star, err)
		return
	}
	m.statusMsg = fmt.Sprintf("Updated %s", star.Name)
	m.form = m.form.Clear()
	m.refreshList()
}

func (m *Model) reportSaveError(star catalog.Star, err error) {
	var perr *catalog.PersistenceError
	if errors.As(err, &perr) {
		// The star is in memory; keep the list in sync with it.
		m.refreshList()
		m.form = m.form.Clear()
		m.showDialog(dialogError, "Error", fmt.Sprintf("Could not save the catalog:\n%v", err))
		return
	}
	m.showDialog(dialogWarning, "Invalid Input", err.Error())
}

func (m *Model) deleteSelected() {
	st, ok := m.list.Selected()
	if !ok {
		return
	}
	removed, err := m.deps.Store.Delete(st.Name)
	m.refreshList()
	if err != nil {
		m.showDialog(dialogError, "Error", fmt.Sprintf("Could not save the catalog:\n%v", err))
		return
	}
	if removed {
		m.statusMsg = fmt.Sprintf("Deleted %s", st.Name)
	}
}

func (m *Model) calculate() {
	sched, err := m.deps.Scheduler.Plan(m.planView.Date(), m.deps.Store.Stars())
	if err != nil {
		var perr *plan.ParseError
		if errors.As(err, &perr) {
			m.showDialog(dialogWarning, "Invalid Date",
				fmt.Sprintf("'%s' is not a date. Use YYYY-MM-DD.", perr.Input))
			return
		}
		m.showDialog(dialogError, "Error", err.Error())
		return
	}
	m.planView = m.planView.SetSchedule(sched)
	m.statusMsg = fmt.Sprintf("Planned %d stars for %s", len(sched.Stars), sched.Date)

	if len(sched.Failures) > 0 {
		var lines []string
		for _, f := range sched.Failures {
			lines = append(lines, f.Error())
		}
		m.showDialog(dialogError, "Calculation Errors", strings.Join(lines, "\n"))
	}
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var content string
	switch m.viewMode {
	case ViewStars:
		content = lipgloss.JoinHorizontal(lipgloss.Top,
			m.form.View(m.focus == focusForm),
			" ",
			m.list.View(m.focus == focusList),
		)
	case ViewPlan:
		content = m.planView.View()
	}

	if len(m.dialogs) > 0 {
		box := m.dialogs[0].View(m.width)
		content = lipgloss.Place(m.width, lipgloss.Height(content), lipgloss.Center, lipgloss.Center, box,
			lipgloss.WithWhitespaceChars(" "))
	}

	return m.renderHeader() + "\n" + content + "\n" + m.renderFooter()
}

func (m Model) renderHeader() string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  ")
	b.WriteString(gradientText("LS-ECLIPSES  ·  Eclipsing Binary Planner"))
	b.WriteString("\n")

	site := m.deps.Scheduler.Site()
	b.WriteString(dimStyle.Render(fmt.Sprintf("  %s (%.4f, %.4f) %s | v%s",
		site.Name, site.LatDeg, site.LonDeg, site.Location(), version.Version)))
	b.WriteString("\n\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderTabs() string {
	tabs := []string{"[F1] Stars", "[F2] Plan"}
	active := lipgloss.NewStyle().Foreground(colorAccent).Bold(true)

	var parts []string
	for i, tab := range tabs {
		if ViewMode(i) == m.viewMode {
			parts = append(parts, active.Render("▶ "+tab))
		} else {
			parts = append(parts, dimStyle.Render("  "+tab))
		}
	}
	return "  " + strings.Join(parts, "  ")
}

func (m Model) renderFooter() string {
	var help string
	switch {
	case m.viewMode == ViewPlan:
		help = "enter: calculate | ↑↓ pgup/pgdn: scroll | esc: stars | ctrl+c: quit"
	case m.focus == focusList:
		help = "↑↓: select | enter: edit | d: delete | tab: form | q: quit"
	default:
		help = "tab: next field | enter: save | ctrl+r/ctrl+e: lookup | ctrl+p: plan | esc: list"
	}

	footer := "  " + dimStyle.Render(help)
	if m.statusMsg != "" {
		footer += "\n  " + accentStyle.Render(m.statusMsg)
	}
	return footer
}

// gradientText renders text with a horizontal truecolor gradient.
func gradientText(text string) string {
	runes := []rune(text)
	var b strings.Builder
	for i, r := range runes {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(gradientColor(i, len(runes)))).Bold(true)
		b.WriteString(style.Render(string(r)))
	}
	return b.String()
}

// gradientColor returns a hex color for a position along the title.
// Blue -> purple -> magenta -> pink.
func gradientColor(col, width int) string {
	x := 0.0
	if width > 1 {
		x = float64(col) / float64(width-1)
	}

	var r, g, b float64
	switch {
	case x < 0.33:
		t := x / 0.33
		r = 59 + t*(139-59)
		g = 130 + t*(92-130)
		b = 246
	case x < 0.66:
		t := (x - 0.33) / 0.33
		r = 139 + t*(217-139)
		g = 92 + t*(70-92)
		b = 246 + t*(239-246)
	default:
		t := (x - 0.66) / 0.34
		r = 217 + t*(236-217)
		g = 70 + t*(72-70)
		b = 239 + t*(153-239)
	}

	return fmt.Sprintf("#%02X%02X%02X", clampByte(r), clampByte(g), clampByte(b))
}

func clampByte(v float64) int {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	}
	return int(math.Round(v))
}
