package tui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

var (
	Primary     = lipgloss.Color("#3b82f6")
	Muted       = lipgloss.Color("#9ca3af")
	Border      = lipgloss.Color("#d1d5db")
	Destructive = lipgloss.Color("#ef4444")
)

// Styles groups every lipgloss style the browser renders with.
type Styles struct {
	Title    lipgloss.Style
	Label    lipgloss.Style
	Help     lipgloss.Style
	Disabled lipgloss.Style
	Empty    lipgloss.Style
	Alert    lipgloss.Style
	Table    table.Styles
}

// DefaultStyles returns the browser's styles.
func DefaultStyles() Styles {
	ts := table.DefaultStyles()
	ts.Header = ts.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(Border).
		BorderBottom(true).
		Bold(true)
	ts.Selected = ts.Selected.
		Foreground(lipgloss.Color("#ffffff")).
		Background(Primary)

	return Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(Primary).MarginBottom(1),
		Label:    lipgloss.NewStyle().Bold(true).Width(14),
		Help:     lipgloss.NewStyle().Foreground(Muted),
		Disabled: lipgloss.NewStyle().Foreground(Muted).Strikethrough(true),
		Empty:    lipgloss.NewStyle().Italic(true),
		Alert: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Destructive).
			Padding(1, 2).
			Width(48),
		Table: ts,
	}
}
