package cli

import (
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/studyguide/internal/cli/formatter"
	"github.com/alexanderramin/studyguide/internal/curriculum"
)

// studyHuhTheme returns a huh theme matching the formatter palette.
func studyHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// topicOptions labels each topic with its chapter, in curriculum order.
func topicOptions(c curriculum.Curriculum) []huh.Option[string] {
	var options []huh.Option[string]
	for _, ch := range c.Chapters {
		for _, topic := range ch.Topics {
			options = append(options, huh.NewOption(ch.Title+" › "+topic, topic))
		}
	}
	return options
}

// topicPicker creates a huh form to choose a topic from the curriculum.
func topicPicker(c curriculum.Curriculum, result *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Which topic?").
				Options(topicOptions(c)...).
				Height(12).
				Value(result),
		),
	).WithTheme(studyHuhTheme()).WithShowHelp(false)
}
