package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
)

// DefaultDefinitionStyle is the glamour style used when none is configured.
const DefaultDefinitionStyle = "dark"

// Definition renders a short markdown definition for the modal.
func Definition(text string, width int, style string) (string, error) {
	if style == "" {
		style = DefaultDefinitionStyle
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(max(width, 20)),
	)
	if err != nil {
		return "", fmt.Errorf("create definition renderer: %w", err)
	}
	out, err := r.Render(text)
	if err != nil {
		return "", fmt.Errorf("render definition: %w", err)
	}
	return strings.Trim(out, "\n"), nil
}
