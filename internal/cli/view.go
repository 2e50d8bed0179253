package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/alexanderramin/studyguide/internal/cli/formatter"
	"github.com/alexanderramin/studyguide/internal/curriculum"
	"github.com/alexanderramin/studyguide/internal/domain"
	"github.com/alexanderramin/studyguide/internal/llm"
)

const (
	appTitle    = "BNYS Modern Diagnostics Guide"
	appSubtitle = "Your AI-powered study assistant for Naturopathy & Yogic Sciences"
)

func providerName(p llm.Provider) string {
	switch p {
	case llm.ProviderOllama:
		return "Ollama"
	case llm.ProviderGemini, "":
		return "Gemini"
	}
	return string(p)
}

func (m appModel) View() string {
	if m.quitting {
		return ""
	}
	if m.app.ConfigErr != nil {
		return m.configErrorView()
	}

	sw, cw := m.sidebarWidth(), m.contentWidth()
	side := m.sidebarLines()
	content := m.contentLines()
	sep := formatter.StyleDim.Render("│")

	lines := m.headerLines()
	for i := 0; i < m.bodyHeight(); i++ {
		lines = append(lines, formatter.Fit(side[i], sw)+sep+" "+formatter.Fit(content[i], cw)+" ")
	}
	lines = append(lines, m.footerLines()...)

	if r, ok := m.popover(); ok {
		lines = formatter.Overlay(lines, formatter.StyleButton.Render(popoverLabel), r.x, r.y)
	}
	if m.flow.ModalOpen() {
		box := m.modal()
		lines = formatter.Overlay(lines, box.view, box.bounds.x, box.bounds.y)
	}
	return strings.Join(lines, "\n")
}

// ── sections ─────────────────────────────────────────────────────────────────

func (m appModel) headerLines() []string {
	return []string{
		formatter.Fit(formatter.StyleHeader.Render(appTitle), m.width),
		formatter.Fit(formatter.Dim(appSubtitle), m.width),
		formatter.Dim(strings.Repeat("─", m.width)),
	}
}

func (m appModel) footerLines() []string {
	var bindings []key.Binding
	_, selected := m.flow.Selection()
	switch {
	case m.flow.ModalOpen():
		bindings = m.keys.modalHelp()
	case selected:
		bindings = m.keys.selectionHelp()
	case m.focus == focusSidebar:
		bindings = m.keys.sidebarHelp()
	default:
		bindings = m.keys.contentHelp()
	}

	var hints []string
	if m.flash != "" {
		hints = append(hints, formatter.StyleGreen.Render(m.flash))
	}
	for _, b := range bindings {
		hints = append(hints, formatter.Dim(b.Help().Key+": "+b.Help().Desc))
	}
	if m.page != nil && m.vp.TotalLineCount() > m.vp.Height {
		hints = append(hints, formatter.Dim(fmt.Sprintf("%3.0f%%", m.vp.ScrollPercent()*100)))
	}

	return []string{
		formatter.Dim(strings.Repeat("─", m.width)),
		formatter.Fit(strings.Join(hints, "  "), m.width),
	}
}

func (m appModel) sidebarLines() []string {
	h, w := m.bodyHeight(), m.sidebarWidth()-1
	lines := []string{formatter.StyleHeader.Render("Course Chapters"), ""}

	rows := m.nav.Rows()
	end := min(m.sideOffset+m.sidebarRowsHeight(), len(rows))
	for i := m.sideOffset; i < end; i++ {
		lines = append(lines, m.sidebarRowView(rows[i], i == m.cursor && m.focus == focusSidebar, w))
	}
	for len(lines) < h-1 {
		lines = append(lines, "")
	}
	return append(lines[:h-1], formatter.Dim("Powered by "+providerName(m.app.Provider)))
}

func (m appModel) sidebarRowView(r curriculum.Row, cursor bool, w int) string {
	var text string
	style := formatter.StyleFg
	switch {
	case r.IsChapter() && r.Expanded:
		text, style = "▾ "+r.Chapter, formatter.StyleBold
	case r.IsChapter():
		text, style = "▸ "+r.Chapter, formatter.StyleBold
	case r.Selected:
		text, style = "  ● "+r.Topic, formatter.StyleGreenBold
	default:
		text = "  • " + r.Topic
	}
	if cursor {
		return formatter.StyleCursor.Inherit(style).Render(formatter.Fit(text, w))
	}
	return style.Render(formatter.Fit(text, w))
}

func (m appModel) contentLines() []string {
	cw := m.contentWidth()

	var title string
	var body []string
	switch s := m.guide.State().(type) {
	case domain.GuideIdle:
		title = domain.WelcomeTitle
		body = append(body, strings.Split(wordwrap.String(domain.WelcomeMessage, cw), "\n")...)
		body = append(body, "", formatter.Dim("Use ↑/↓ and enter in the sidebar, or click a chapter and a topic."))
	case domain.GuideLoading:
		title = s.Topic
		body = []string{"", m.spin.View() + " " + formatter.Dim("Generating your study guide…")}
	case domain.GuideFailed:
		title = s.Topic
		body = []string{""}
		body = append(body, strings.Split(formatter.Error(wordwrap.String(s.Message, cw-2)), "\n")...)
	case domain.GuideLoaded:
		title = s.Topic
		body = strings.Split(m.vp.View(), "\n")
	}

	lines := []string{
		formatter.StyleHeader.Render(formatter.Fit(title, cw)),
		formatter.Dim(strings.Repeat("─", cw)),
	}
	lines = append(lines, body...)
	for len(lines) < m.bodyHeight() {
		lines = append(lines, "")
	}
	return lines[:m.bodyHeight()]
}

func (m appModel) configErrorView() string {
	msg := m.app.ConfigErr.Error()
	content := formatter.Error(wordwrap.String(msg, 56)) + "\n\n" +
		formatter.Dim("Set API_KEY in your environment or a .env file and restart.") + "\n" +
		formatter.Dim("Press q to quit.")
	box := formatter.RenderBox("Configuration Error", content)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
