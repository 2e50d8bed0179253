package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/reflow/wordwrap"
	"go.uber.org/zap"

	"github.com/alexanderramin/studyguide/internal/cli/formatter"
	"github.com/alexanderramin/studyguide/internal/domain"
	"github.com/alexanderramin/studyguide/internal/render"
)

const (
	modalMaxWidth = 64
	closeGlyph    = "✕"
)

// modalBox is the rendered definition modal and its hit areas.
type modalBox struct {
	view        string
	bounds      rect
	closeButton rect
}

func (m appModel) modalWidth() int {
	return max(min(modalMaxWidth, m.width-4), 20)
}

// modalInner is the text width inside the border and padding.
func (m appModel) modalInner() int {
	return m.modalWidth() - 4
}

func modalTerm(s domain.DefinitionState) string {
	switch s := s.(type) {
	case domain.DefinitionLoading:
		return s.Term
	case domain.DefinitionLoaded:
		return s.Term
	case domain.DefinitionFailed:
		return s.Term
	}
	return ""
}

// modal renders the definition modal centred on screen. While closing it
// keeps showing its content with a dimmed border.
func (m appModel) modal() modalBox {
	w, inner := m.modalWidth(), m.modalInner()

	title := formatter.StyleHeader.Render(ansi.Truncate("Definition: "+modalTerm(m.flow.State()), inner-2, "…"))
	header := formatter.Fit(title, inner-1) + formatter.StyleDim.Render(closeGlyph)

	var body string
	switch s := m.flow.State().(type) {
	case domain.DefinitionLoading:
		body = m.spin.View() + " " + formatter.Dim("Looking up definition…")
	case domain.DefinitionLoaded:
		body = m.definition
	case domain.DefinitionFailed:
		body = formatter.Error(wordwrap.String(s.Message, inner-2))
	}
	if maxBody := m.height - 10; maxBody > 0 {
		if lines := strings.Split(body, "\n"); len(lines) > maxBody {
			body = strings.Join(lines[:maxBody], "\n")
		}
	}

	hints := formatter.Dim("esc: close")
	if _, ok := m.flow.State().(domain.DefinitionLoaded); ok {
		hints += formatter.Dim("  y: copy")
	}

	border := formatter.ColorBlue
	if m.flow.Closing() {
		border = formatter.ColorDim
	}
	view := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Width(w - 2).
		Render(header + "\n\n" + body + "\n\n" + hints)

	h := lipgloss.Height(view)
	x := max((m.width-w)/2, 0)
	y := max((m.height-h)/2, 0)
	return modalBox{
		view:        view,
		bounds:      rect{x: x, y: y, w: w, h: h},
		closeButton: rect{x: x + w - 3, y: y + 1, w: 1, h: 1},
	}
}

// renderDefinition formats a loaded definition for the modal width.
func (m *appModel) renderDefinition() {
	loaded, ok := m.flow.State().(domain.DefinitionLoaded)
	if !ok {
		return
	}
	inner := m.modalInner()
	out, err := render.Definition(loaded.Definition, inner, m.app.DefinitionStyle)
	if err != nil {
		m.logger.Warn("definition render failed", zap.Error(err))
		m.definition = wordwrap.String(loaded.Definition, inner)
		return
	}
	lines := strings.Split(out, "\n")
	for i, l := range lines {
		lines[i] = ansi.Truncate(l, inner, "")
	}
	m.definition = strings.Join(lines, "\n")
}
