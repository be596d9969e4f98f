// Package ui provides the terminal presentation layer for dinemap: lipgloss
// styles, a small table renderer, and the interactive restaurant browser.
package ui

import "github.com/charmbracelet/lipgloss"

// Palette.
var (
	Foreground = lipgloss.Color("#f2f2f2")
	Primary    = lipgloss.Color("#ff8a65") // Warm orange
	Accent     = lipgloss.Color("#8BC34A") // Lime green
	Muted      = lipgloss.Color("248")
	Danger     = lipgloss.Color("#e53935")
)

// Styles holds the lipgloss styles shared by the table and browser.
type Styles struct {
	Title    lipgloss.Style
	Header   lipgloss.Style
	Row      lipgloss.Style
	Selected lipgloss.Style
	Muted    lipgloss.Style
	Favorite lipgloss.Style
	Offline  lipgloss.Style
}

// DefaultStyles returns the default style set.
func DefaultStyles() Styles {
	return Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(Primary).MarginBottom(1),
		Header:   lipgloss.NewStyle().Bold(true).Foreground(Foreground),
		Row:      lipgloss.NewStyle().Foreground(Foreground),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(Accent),
		Muted:    lipgloss.NewStyle().Foreground(Muted),
		Favorite: lipgloss.NewStyle().Foreground(Accent),
		Offline:  lipgloss.NewStyle().Foreground(Danger),
	}
}
