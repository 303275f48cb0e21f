package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type dialogKind int

const (
	dialogInfo dialogKind = iota
	dialogWarning
	dialogError
	dialogConfirm
)

// Dialog is a modal message box. Confirm dialogs answer y/n; the others
// close on enter or esc.
type Dialog struct {
	kind  dialogKind
	title string
	body  string
}

func newDialog(kind dialogKind, title, body string) *Dialog {
	return &Dialog{kind: kind, title: title, body: body}
}

// dialogResult is what a key press did to the dialog.
type dialogResult int

const (
	dialogOpen dialogResult = iota
	dialogClosed
	dialogAccepted
	dialogDeclined
)

func (d *Dialog) handleKey(msg tea.KeyMsg) dialogResult {
	key := msg.String()
	if d.kind == dialogConfirm {
		switch key {
		case "y", "Y":
			return dialogAccepted
		case "n", "N", "esc":
			return dialogDeclined
		}
		return dialogOpen
	}
	switch key {
	case "enter", "esc", " ":
		return dialogClosed
	}
	return dialogOpen
}

// View renders the dialog box.
func (d *Dialog) View(width int) string {
	border := colorAccent
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	switch d.kind {
	case dialogError:
		border = colorError
		titleStyle = titleStyle.Foreground(colorError)
	case dialogWarning:
		border = lipgloss.Color("214")
		titleStyle = titleStyle.Foreground(lipgloss.Color("214"))
	}

	hint := "enter: ok"
	if d.kind == dialogConfirm {
		hint = "y: yes  n: no"
	}

	boxWidth := 50
	if width > 0 && width-4 < boxWidth {
		boxWidth = width - 4
	}
	if boxWidth < 20 {
		boxWidth = 20
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(d.title))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Width(boxWidth - 4).Render(d.body))
	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render(hint))

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(border).
		Padding(1, 2).
		Width(boxWidth).
		Render(b.String())
}
