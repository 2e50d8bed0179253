package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorAqua   = lipgloss.Color("#689d6a")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
	ColorSelBg  = lipgloss.Color("#504945")
)

// Predefined lipgloss styles.
var (
	StyleGreen      = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleGreenBold  = lipgloss.NewStyle().Foreground(ColorGreen).Bold(true)
	StyleYellow     = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleYellowBold = lipgloss.NewStyle().Foreground(ColorYellow).Bold(true)
	StyleRed        = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue       = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple     = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim        = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg         = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader     = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold       = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)

	// StyleSelection highlights selected document text.
	StyleSelection = lipgloss.NewStyle().Background(ColorSelBg).Foreground(ColorFg)
	// StyleButton draws clickable controls such as the define popover.
	StyleButton = lipgloss.NewStyle().Background(ColorAqua).Foreground(lipgloss.Color("#1d2021")).Bold(true)
	// StyleCursor marks the focused sidebar row.
	StyleCursor = lipgloss.NewStyle().Background(ColorSelBg)
)

// Header renders a section header with the orange header style and an
// underline as wide as the text.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", runewidth.StringWidth(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}

// Error renders a user-facing failure line.
func Error(text string) string {
	return StyleRed.Render("✖ " + text)
}
