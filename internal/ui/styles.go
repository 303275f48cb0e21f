package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-eclipses/internal/plan"
)

// Palette
var (
	colorAccent = lipgloss.Color("#9D4EDD")
	colorDim    = lipgloss.Color("60")
	colorText   = lipgloss.Color("252")
	colorError  = lipgloss.Color("#E84A27")
)

var (
	paneTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	tableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")).
				Background(lipgloss.Color("235"))

	cellStyle = lipgloss.NewStyle().
			Foreground(colorText)

	cursorRowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57"))

	dimStyle    = lipgloss.NewStyle().Foreground(colorDim)
	accentStyle = lipgloss.NewStyle().Foreground(colorAccent)
	errStyle    = lipgloss.NewStyle().Foreground(colorError)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")).
			Width(10)

	focusedLabelStyle = labelStyle.
				Foreground(colorAccent).
				Bold(true)

	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim).
			Padding(0, 1)

	focusedPaneStyle = paneStyle.
				BorderForeground(colorAccent)
)

// Row colors by schedule status.
var statusStyles = map[plan.Status]lipgloss.Style{
	plan.Observable:   lipgloss.NewStyle().Foreground(colorText),
	plan.LowAltitude:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	plan.BelowHorizon: lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	plan.Minimum:      lipgloss.NewStyle().Foreground(lipgloss.Color("#2EE6A6")).Bold(true),
	plan.Error:        lipgloss.NewStyle().Foreground(colorError),
}

func statusStyle(s plan.Status) lipgloss.Style {
	if st, ok := statusStyles[s]; ok {
		return st
	}
	return cellStyle
}
