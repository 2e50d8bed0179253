package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// runTUI launches the full-screen study guide.
func runTUI(app *App) error {
	p := tea.NewProgram(newAppModel(app), tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running study guide: %w", err)
	}
	return nil
}
