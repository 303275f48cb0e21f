package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/litescript/ls-eclipses/internal/catalog"
)

// Form fields, in tab order.
const (
	fieldName = iota
	fieldRA
	fieldDec
	fieldEpoch
	fieldPeriod
	fieldCount
)

var fieldLabels = [fieldCount]string{"Name", "RA (°)", "Dec (°)", "Epoch", "Period"}

var fieldPlaceholders = [fieldCount]string{
	"e.g. RT And",
	"0 - 360",
	"-90 - +90",
	"HJD of primary minimum",
	"days",
}

// FormModel is the add-star form. The two lookups have separate busy flags
// so either can run while the other is in flight.
type FormModel struct {
	inputs  []textinput.Model
	focus   int
	posBusy bool
	ephBusy bool
	spinner spinner.Model
}

// NewFormModel creates an empty form with the name field focused.
func NewFormModel() FormModel {
	inputs := make([]textinput.Model, fieldCount)
	for i := range inputs {
		ti := textinput.New()
		ti.Prompt = "▸ "
		ti.Placeholder = fieldPlaceholders[i]
		ti.CharLimit = 64
		inputs[i] = ti
	}
	inputs[fieldName].Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = accentStyle

	return FormModel{inputs: inputs, spinner: s}
}

// Value returns the trimmed text of field i.
func (f FormModel) Value(i int) string {
	return strings.TrimSpace(f.inputs[i].Value())
}

// SetValue replaces the text of field i.
func (f FormModel) SetValue(i int, v string) FormModel {
	f.inputs[i].SetValue(v)
	return f
}

// Clear empties every field and refocuses the name.
func (f FormModel) Clear() FormModel {
	for i := range f.inputs {
		f.inputs[i].SetValue("")
	}
	return f.focusField(fieldName)
}

// Fill loads a star into the form for editing.
func (f FormModel) Fill(st catalog.Star) FormModel {
	f.inputs[fieldName].SetValue(st.Name)
	f.inputs[fieldRA].SetValue(formatCoord(st.RAdeg))
	f.inputs[fieldDec].SetValue(formatCoord(st.DecDeg))
	f.inputs[fieldEpoch].SetValue(formatFloat(st.Epoch))
	f.inputs[fieldPeriod].SetValue(formatFloat(st.Period))
	return f
}

// Star parses the form.
func (f FormModel) Star() (catalog.Star, error) {
	return catalog.ParseStar(
		f.Value(fieldName),
		f.Value(fieldRA),
		f.Value(fieldDec),
		f.Value(fieldEpoch),
		f.Value(fieldPeriod),
	)
}

// Busy reports whether any lookup is running.
func (f FormModel) Busy() bool {
	return f.posBusy || f.ephBusy
}

// startSpinner returns the tick command when the spinner is idle.
func (f FormModel) startSpinner(wasBusy bool) tea.Cmd {
	if wasBusy {
		return nil
	}
	return f.spinner.Tick
}

func (f FormModel) focusField(i int) FormModel {
	for j := range f.inputs {
		if j == i {
			f.inputs[j].Focus()
		} else {
			f.inputs[j].Blur()
		}
	}
	f.focus = i
	return f
}

// Blur removes focus from every field.
func (f FormModel) Blur() FormModel {
	for j := range f.inputs {
		f.inputs[j].Blur()
	}
	return f
}

// Refocus focuses the last focused field again.
func (f FormModel) Refocus() FormModel {
	return f.focusField(f.focus)
}

// Update handles field navigation, text entry and spinner ticks.
func (f FormModel) Update(msg tea.Msg) (FormModel, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !f.Busy() {
			return f, nil
		}
		var cmd tea.Cmd
		f.spinner, cmd = f.spinner.Update(msg)
		return f, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "down":
			return f.focusField((f.focus + 1) % fieldCount), textinput.Blink
		case "shift+tab", "up":
			return f.focusField((f.focus + fieldCount - 1) % fieldCount), textinput.Blink
		}
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd
}

// View renders the form pane.
func (f FormModel) View(focused bool) string {
	var b strings.Builder
	b.WriteString(paneTitleStyle.Render("Add Star"))
	b.WriteString("\n\n")

	for i, in := range f.inputs {
		label := labelStyle
		if focused && i == f.focus {
			label = focusedLabelStyle
		}
		b.WriteString(label.Render(fieldLabels[i]))
		b.WriteString(in.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(f.actionLine("ctrl+r", "Sesame RA/Dec", f.posBusy))
	b.WriteString("\n")
	b.WriteString(f.actionLine("ctrl+e", "VSX/GCVS period & epoch", f.ephBusy))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("enter  save star"))

	style := paneStyle
	if focused {
		style = focusedPaneStyle
	}
	return style.Render(b.String())
}

func (f FormModel) actionLine(key, label string, busy bool) string {
	if busy {
		return accentStyle.Render(fmt.Sprintf("%-6s %s searching...", key, f.spinner.View()))
	}
	return dimStyle.Render(fmt.Sprintf("%-6s %s", key, label))
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
