package render

import "github.com/charmbracelet/lipgloss"

// Gruvbox-inspired palette shared with the CLI formatter.
var (
	colorGreen  = lipgloss.Color("#8ec07c")
	colorYellow = lipgloss.Color("#fabd2f")
	colorBlue   = lipgloss.Color("#83a598")
	colorPurple = lipgloss.Color("#d3869b")
	colorDim    = lipgloss.Color("#928374")
	colorFg     = lipgloss.Color("#ebdbb2")
	colorHeader = lipgloss.Color("#fe8019")
	colorCodeBg = lipgloss.Color("#3c3836")
)

// Theme holds the styles Layout draws with.
type Theme struct {
	Headings []lipgloss.Style // by level, last entry reused for deeper levels

	Text     lipgloss.Style
	Emphasis lipgloss.Style
	Strong   lipgloss.Style
	Code     lipgloss.Style
	Link     lipgloss.Style

	Marker   lipgloss.Style
	Number   lipgloss.Style
	TaskOpen lipgloss.Style
	TaskDone lipgloss.Style

	CalloutBorder lipgloss.Style
	CalloutIcon   lipgloss.Style

	CodeBlock lipgloss.Style
	Diagram   lipgloss.Style
	Caption   lipgloss.Style
	Rule      lipgloss.Style

	TableHeader lipgloss.Style
	TableBorder lipgloss.Style
}

func DefaultTheme() Theme {
	return Theme{
		Headings: []lipgloss.Style{
			lipgloss.NewStyle().Foreground(colorHeader).Bold(true),
			lipgloss.NewStyle().Foreground(colorHeader).Bold(true),
			lipgloss.NewStyle().Foreground(colorYellow).Bold(true),
			lipgloss.NewStyle().Foreground(colorBlue).Bold(true),
		},
		Text:          lipgloss.NewStyle().Foreground(colorFg),
		Emphasis:      lipgloss.NewStyle().Italic(true),
		Strong:        lipgloss.NewStyle().Bold(true),
		Code:          lipgloss.NewStyle().Foreground(colorPurple).Background(colorCodeBg),
		Link:          lipgloss.NewStyle().Foreground(colorBlue).Underline(true),
		Marker:        lipgloss.NewStyle().Foreground(colorGreen).Bold(true),
		Number:        lipgloss.NewStyle().Foreground(colorYellow),
		TaskOpen:      lipgloss.NewStyle().Foreground(colorDim),
		TaskDone:      lipgloss.NewStyle().Foreground(colorGreen),
		CalloutBorder: lipgloss.NewStyle().Foreground(colorBlue),
		CalloutIcon:   lipgloss.NewStyle().Foreground(colorBlue).Bold(true),
		CodeBlock:     lipgloss.NewStyle().Foreground(colorPurple).Background(colorCodeBg),
		Diagram:       lipgloss.NewStyle().Foreground(colorBlue),
		Caption:       lipgloss.NewStyle().Foreground(colorDim).Italic(true),
		Rule:          lipgloss.NewStyle().Foreground(colorDim),
		TableHeader:   lipgloss.NewStyle().Foreground(colorHeader).Bold(true).Padding(0, 1),
		TableBorder:   lipgloss.NewStyle().Foreground(colorDim),
	}
}

func (t Theme) heading(level int) lipgloss.Style {
	if len(t.Headings) == 0 {
		return t.Strong
	}
	i := min(max(level-1, 0), len(t.Headings)-1)
	return t.Headings[i]
}

// span returns the style for a run of inline text.
func (t Theme) span(s SpanStyle) lipgloss.Style {
	if s&SpanCode != 0 {
		return t.Code
	}
	st := t.Text
	if s&SpanStrong != 0 {
		st = st.Inherit(t.Strong).Bold(true)
	}
	if s&SpanEmphasis != 0 {
		st = st.Italic(true)
	}
	if s&SpanLink != 0 {
		st = t.Link.Inherit(st)
	}
	if s&SpanStrike != 0 {
		st = st.Strikethrough(true)
	}
	return st
}
