package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func fg(c lipgloss.TerminalColor) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

// Text styles shared by the configure screens and the CLI output
var (
	// StyleHeader renders the logo and section titles
	StyleHeader = fg(ColorPrimary).Bold(true).MarginBottom(1)

	// StyleLabel renders summary keys such as "Input language"
	StyleLabel = fg(ColorText).Bold(true)

	// StyleSuccess confirms a saved config
	StyleSuccess = fg(ColorSuccess)

	// StyleError reports validation and save failures
	StyleError = fg(ColorError).Bold(true)

	// StyleWarning flags settings that only apply after a daemon restart
	StyleWarning = fg(ColorWarning)

	// StyleMuted renders summary values and follow-up hints
	StyleMuted = fg(ColorMuted)

	// StyleSubtle renders native language names
	StyleSubtle = fg(ColorSubtle).Italic(true)

	// StyleHighlight marks the summary title
	StyleHighlight = fg(ColorSecondary).Bold(true)

	// StyleBox frames the settings summary
	StyleBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorSubtle).
			Padding(1, 2)
)

const logoASCII = `
__   ____ _  __ _ _ __ (_)
\ \ / / _' |/ _' | '_ \| |
 \ V / (_| | (_| | | | | |
  \_/ \__,_|\__,_|_| |_|_|`

// Logo returns the vaani ASCII art
func Logo() string {
	return StyleHeader.Render(strings.Trim(logoASCII, "\n"))
}
