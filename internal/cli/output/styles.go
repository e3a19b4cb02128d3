package output

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Styles groups the lipgloss styles commands render with.
type Styles struct {
	Header  lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style
	Muted   lipgloss.Style
	Bold    lipgloss.Style
	MapPath lipgloss.Style
	RuleID  lipgloss.Style
}

// DefaultStyles returns the colored style set. Falls back to PlainStyles
// when the environment disables color (NO_COLOR, dumb terminals).
func DefaultStyles() *Styles {
	if termenv.EnvColorProfile() == termenv.Ascii {
		return PlainStyles()
	}

	return &Styles{
		Header:  lipgloss.NewStyle().Bold(true).Underline(true),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		Info:    lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Bold:    lipgloss.NewStyle().Bold(true),
		MapPath: lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true),
		RuleID:  lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
	}
}

// PlainStyles returns styles that render text unchanged.
func PlainStyles() *Styles {
	plain := lipgloss.NewStyle()
	return &Styles{
		Header:  plain,
		Success: plain,
		Error:   plain,
		Warning: plain,
		Info:    plain,
		Muted:   plain,
		Bold:    plain,
		MapPath: plain,
		RuleID:  plain,
	}
}
