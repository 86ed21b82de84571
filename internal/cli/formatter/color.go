package formatter

import (
	"github.com/alexanderramin/punchclock/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// StatusStyle returns the lipgloss style for a session status.
func StatusStyle(status domain.SessionStatus) lipgloss.Style {
	switch status {
	case domain.StatusWorking:
		return StyleGreen
	case domain.StatusBreak:
		return StyleYellow
	default:
		return StyleDim
	}
}

// StatusIndicator returns a colored status marker such as "● WORKING".
func StatusIndicator(status domain.SessionStatus) string {
	switch status {
	case domain.StatusWorking:
		return StyleGreen.Render("● WORKING")
	case domain.StatusBreak:
		return StyleYellow.Render("● ON BREAK")
	default:
		return StyleDim.Render("● OFF")
	}
}
