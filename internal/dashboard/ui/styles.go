package ui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

const (
	colorAccent  = lipgloss.Color("#bd93f9")
	colorText    = lipgloss.Color("#f8f8f2")
	colorMuted   = lipgloss.Color("#6272a4")
	colorSuccess = lipgloss.Color("#50fa7b")
	colorWarning = lipgloss.Color("#f1fa8c")
	colorDanger  = lipgloss.Color("#ff5555")
	colorSelect  = lipgloss.Color("#44475a")
)

// Styles holds the lipgloss styles used by the board.
type Styles struct {
	Title   lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Danger  lipgloss.Style
	Ringing lipgloss.Style
	Prompt  lipgloss.Style
	Frame   lipgloss.Style
}

func defaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true),
		Muted: lipgloss.NewStyle().
			Foreground(colorMuted),
		Success: lipgloss.NewStyle().
			Foreground(colorSuccess),
		Danger: lipgloss.NewStyle().
			Foreground(colorDanger).
			Bold(true),
		Ringing: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#282a36")).
			Background(colorWarning).
			Bold(true).
			Padding(0, 1),
		Prompt: lipgloss.NewStyle().
			Foreground(colorText).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorAccent).
			Padding(0, 1),
		Frame: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(colorMuted),
	}
}

func tableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(colorMuted).
		BorderBottom(true).
		Foreground(colorAccent).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(colorText).
		Background(colorSelect).
		Bold(true)
	return s
}
