package theme

import "github.com/charmbracelet/lipgloss/v2"

// Theme centralizes Lip Gloss styles for the Bubble Tea UI.
type Theme struct {
	Title    lipgloss.Style
	Loading  lipgloss.Style
	Panel    PanelTheme
	Footer   FooterTheme
	Notes    NotesTheme
	Calendar CalendarTheme
}

// PanelTheme styles framed panels and headings.
type PanelTheme struct {
	Frame lipgloss.Style
	Title lipgloss.Style
	Body  lipgloss.Style
}

// FooterTheme groups styles used by the status and help lines.
type FooterTheme struct {
	Help   lipgloss.Style
	Status lipgloss.Style
	OK     lipgloss.Style
	Error  lipgloss.Style
	Prompt lipgloss.Style
}

// NotesTheme styles the selected day's note list.
type NotesTheme struct {
	Item   lipgloss.Style
	Active lipgloss.Style
	Empty  lipgloss.Style
	Time   lipgloss.Style
}

// CalendarTheme styles the month grid.
type CalendarTheme struct {
	Header   lipgloss.Style
	Empty    lipgloss.Style
	Entry    lipgloss.Style
	Today    lipgloss.Style
	Selected lipgloss.Style
}

// Default returns the built-in theme used across the UI.
func Default() Theme {
	frame := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1)

	return Theme{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
		Loading: lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
		Panel: PanelTheme{
			Frame: frame,
			Title: lipgloss.NewStyle().Bold(true),
			Body:  lipgloss.NewStyle(),
		},
		Footer: FooterTheme{
			Help:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
			Status: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
			OK:     lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
			Error:  lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
			Prompt: lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true),
		},
		Notes: NotesTheme{
			Item:   lipgloss.NewStyle(),
			Active: lipgloss.NewStyle().Reverse(true),
			Empty:  lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Italic(true),
			Time:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		},
		Calendar: CalendarTheme{
			Header:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Bold(true),
			Empty:    lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
			Entry:    lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true),
			Today:    lipgloss.NewStyle().Underline(true).Foreground(lipgloss.Color("212")),
			Selected: lipgloss.NewStyle().Background(lipgloss.Color("63")).Foreground(lipgloss.Color("0")),
		},
	}
}
