package cli

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/alexanderramin/studyguide/internal/cli/formatter"
	"github.com/alexanderramin/studyguide/internal/curriculum"
	"github.com/alexanderramin/studyguide/internal/diagram"
	"github.com/alexanderramin/studyguide/internal/domain"
	"github.com/alexanderramin/studyguide/internal/render"
)

type focusArea int

const (
	focusSidebar focusArea = iota
	focusContent
)

// Screen geometry, in rows.
const (
	headerHeight       = 3 // title, subtitle, rule
	footerHeight       = 2 // rule, key hints
	contentTitleHeight = 2 // topic title, rule
	sidebarHeadHeight  = 2 // "Course Chapters", blank
	sidebarFootHeight  = 2 // blank, provider

	doubleClickWindow = 400 * time.Millisecond
	wheelDelta        = 3
)

// dragState is a selection in progress, in document coordinates.
type dragState struct {
	anchor render.Point
	head   render.Point
}

// docRange is a released selection: [from, to) plus its bounds.
type docRange struct {
	from   render.Point
	to     render.Point
	bounds domain.Rect
}

type lastClick struct {
	at   render.Point
	when time.Time
}

// appModel is the root bubbletea Model: sidebar, guide pane, define
// popover and definition modal.
type appModel struct {
	app    *App
	keys   keyMap
	logger *zap.Logger

	width    int
	height   int
	focus    focusArea
	quitting bool

	nav        *curriculum.Navigator
	cursor     int
	sideOffset int

	guide *domain.GuideLifecycle
	doc   *render.Document
	page  *render.Page
	vp    viewport.Model
	spin  spinner.Model

	flow       *domain.DefinitionFlow
	drag       *dragState
	sel        *docRange
	click      *lastClick
	definition string // rendered body of a loaded definition

	flash string
}

func newAppModel(app *App) appModel {
	if app.Renderer == nil {
		app.Renderer = render.NewRenderer(diagram.NewEngine(), app.logger())
	}
	m := appModel{
		app:    app,
		keys:   defaultKeyMap(),
		logger: app.logger(),
		width:  80,
		height: 24,
		nav:    curriculum.NewNavigator(app.Curriculum),
		guide:  domain.NewGuideLifecycle(),
		flow:   domain.NewDefinitionFlow(),
		vp:     viewport.New(0, 0),
		spin: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(formatter.StylePurple),
		),
	}
	m.resize()
	return m
}

// ── geometry ─────────────────────────────────────────────────────────────────

func (m appModel) sidebarWidth() int {
	if m.width < 60 {
		return max(m.width/3, 10)
	}
	return min(max(m.width/3, 20), 36)
}

func (m appModel) bodyHeight() int {
	return max(m.height-headerHeight-footerHeight, 4)
}

// contentX is the screen column of document column zero.
func (m appModel) contentX() int {
	return m.sidebarWidth() + 2
}

func (m appModel) contentWidth() int {
	return max(m.width-m.sidebarWidth()-3, 8)
}

// docTop is the screen row showing the viewport's first line.
func (m appModel) docTop() int {
	return headerHeight + contentTitleHeight
}

func (m appModel) docHeight() int {
	return max(m.bodyHeight()-contentTitleHeight, 1)
}

func (m appModel) sidebarRowsHeight() int {
	return max(m.bodyHeight()-sidebarHeadHeight-sidebarFootHeight, 1)
}

// docPoint maps a screen cell inside the guide pane to document
// coordinates.
func (m appModel) docPoint(x, y int) (render.Point, bool) {
	if m.page == nil {
		return render.Point{}, false
	}
	if x < m.contentX() || x >= m.contentX()+m.contentWidth() {
		return render.Point{}, false
	}
	if y < m.docTop() || y >= m.docTop()+m.vp.Height {
		return render.Point{}, false
	}
	return render.Point{Line: y - m.docTop() + m.vp.YOffset, Col: x - m.contentX()}, true
}

// clampDoc maps any screen cell to the nearest document cell, so drags may
// leave the pane.
func (m appModel) clampDoc(x, y int) render.Point {
	x = min(max(x, m.contentX()), m.contentX()+m.contentWidth())
	y = min(max(y, m.docTop()), m.docTop()+m.vp.Height-1)
	return render.Point{Line: y - m.docTop() + m.vp.YOffset, Col: x - m.contentX()}
}

// sidebarRow maps a screen row to an index into nav.Rows.
func (m appModel) sidebarRow(y int) (int, bool) {
	first := headerHeight + sidebarHeadHeight
	if y < first || y >= first+m.sidebarRowsHeight() {
		return 0, false
	}
	i := y - first + m.sideOffset
	if i >= len(m.nav.Rows()) {
		return 0, false
	}
	return i, true
}

// ── bubbletea interface ──────────────────────────────────────────────────────

func (m appModel) Init() tea.Cmd {
	if m.app.ConfigErr != nil {
		m.logger.Error("configuration error", zap.Error(m.app.ConfigErr))
	}
	return nil
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case guideResultMsg:
		m.applyGuide(msg)
		return m, nil

	case definitionResultMsg:
		m.applyDefinition(msg)
		return m, nil

	case modalClosedMsg:
		if m.flow.FinishClose(msg.token) {
			m.definition = ""
		}
		return m, nil

	case spinner.TickMsg:
		if !m.loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m appModel) loading() bool {
	if _, ok := m.guide.State().(domain.GuideLoading); ok {
		return true
	}
	_, ok := m.flow.State().(domain.DefinitionLoading)
	return ok && m.flow.ModalOpen()
}

// ── keyboard ─────────────────────────────────────────────────────────────────

func (m appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.quitting = true
		return m, tea.Quit
	}

	// The configuration error screen accepts nothing but quitting.
	if m.app.ConfigErr != nil {
		if key.Matches(msg, m.keys.Close) {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	m.flash = ""

	if m.flow.ModalOpen() {
		switch {
		case key.Matches(msg, m.keys.Close):
			return m, m.closeModal()
		case key.Matches(msg, m.keys.Copy):
			m.copyDefinition()
		}
		return m, nil
	}

	_, selected := m.flow.Selection()
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Focus):
		if m.focus == focusSidebar {
			m.focus = focusContent
		} else {
			m.focus = focusSidebar
		}
		return m, nil
	case msg.Type == tea.KeyEsc:
		if selected {
			m.clearSelection()
		}
		return m, nil
	case selected && msg.String() == "d",
		selected && m.focus == focusContent && key.Matches(msg, m.keys.Define):
		return m, m.activate()
	}

	if m.focus == focusSidebar {
		return m, m.handleSidebarKey(msg)
	}
	m.handleContentKey(msg)
	return m, nil
}

func (m *appModel) handleSidebarKey(msg tea.KeyMsg) tea.Cmd {
	rows := m.nav.Rows()
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(rows)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Select):
		if m.cursor < len(rows) {
			return m.openRow(rows[m.cursor])
		}
	}
	m.scrollSidebar()
	return nil
}

func (m *appModel) handleContentKey(msg tea.KeyMsg) {
	if m.page == nil {
		return
	}
	switch {
	case key.Matches(msg, m.keys.Up):
		m.vp.ScrollUp(1)
	case key.Matches(msg, m.keys.Down):
		m.vp.ScrollDown(1)
	case key.Matches(msg, m.keys.PageUp):
		m.vp.PageUp()
	case key.Matches(msg, m.keys.PageDown):
		m.vp.PageDown()
	case key.Matches(msg, m.keys.Top):
		m.vp.GotoTop()
	case key.Matches(msg, m.keys.Bottom):
		m.vp.GotoBottom()
	}
}

// ── mouse ────────────────────────────────────────────────────────────────────

func (m appModel) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.app.ConfigErr != nil {
		return m, nil
	}

	// The modal covers everything: presses outside its box or on the close
	// button close it, and nothing reaches the document underneath.
	if m.flow.ModalOpen() {
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			box := m.modal()
			if box.closeButton.contains(msg.X, msg.Y) || !box.bounds.contains(msg.X, msg.Y) {
				return m, m.closeModal()
			}
		}
		return m, nil
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if m.page != nil {
			m.vp.ScrollUp(wheelDelta)
		}
		return m, nil
	case tea.MouseButtonWheelDown:
		if m.page != nil {
			m.vp.ScrollDown(wheelDelta)
		}
		return m, nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			return m, m.press(msg.X, msg.Y)
		}
	case tea.MouseActionMotion:
		if m.drag != nil {
			m.drag.head = m.clampDoc(msg.X, msg.Y)
			m.refreshViewport()
		}
	case tea.MouseActionRelease:
		if m.drag != nil {
			m.release(msg.X, msg.Y)
		}
	}
	return m, nil
}

func (m *appModel) press(x, y int) tea.Cmd {
	if r, ok := m.popover(); ok && r.contains(x, y) {
		return m.activate()
	}
	if m.flow.PointerDown(false, m.drag == nil) {
		m.sel = nil
		m.refreshViewport()
	}

	if x < m.sidebarWidth() {
		m.focus = focusSidebar
		if i, ok := m.sidebarRow(y); ok {
			m.cursor = i
			return m.openRow(m.nav.Rows()[i])
		}
		return nil
	}

	p, ok := m.docPoint(x, y)
	if !ok {
		return nil
	}
	m.focus = focusContent
	if c := m.click; c != nil && c.at == p && m.app.now().Sub(c.when) <= doubleClickWindow {
		m.click = nil
		if from, to, ok := m.page.WordAt(p); ok {
			m.releaseRange(from, to)
		}
		return nil
	}
	m.drag = &dragState{anchor: p, head: p}
	return nil
}

func (m *appModel) release(x, y int) {
	d := *m.drag
	m.drag = nil
	d.head = m.clampDoc(x, y)

	if d.head == d.anchor {
		m.click = &lastClick{at: d.anchor, when: m.app.now()}
		m.flow.Release("", domain.Rect{})
		m.sel = nil
		m.refreshViewport()
		return
	}
	m.click = nil

	from, to := d.anchor, d.head
	if to.Line < from.Line || (to.Line == from.Line && to.Col < from.Col) {
		from, to = to, from
	}
	to.Col++ // the cell under the pointer is included
	m.releaseRange(from, to)
}

// releaseRange offers the text in [from, to) to the definition flow.
func (m *appModel) releaseRange(from, to render.Point) {
	text, bounds, _ := m.page.Select(from, to)
	if m.flow.Release(text, bounds) {
		m.sel = &docRange{from: from, to: to, bounds: bounds}
	} else {
		m.sel = nil
	}
	m.refreshViewport()
}

// ── actions ──────────────────────────────────────────────────────────────────

func (m *appModel) openRow(r curriculum.Row) tea.Cmd {
	if r.IsChapter() {
		m.nav.ToggleChapter(r.Chapter)
		if n := len(m.nav.Rows()); m.cursor >= n {
			m.cursor = n - 1
		}
		m.scrollSidebar()
		return nil
	}
	return m.selectTopic(r.Topic)
}

// selectTopic starts a fresh guide request for topic, even when it is the
// topic already shown.
func (m *appModel) selectTopic(topic string) tea.Cmd {
	m.nav.SelectTopic(topic)
	t := m.guide.Begin(topic)
	m.logger.Info("guide requested", zap.String("topic", topic), zap.Uint64("seq", t.Seq))

	m.doc, m.page = nil, nil
	m.clearSelection()
	m.vp.GotoTop()
	for i, r := range m.nav.Rows() {
		if r.Topic == topic {
			m.cursor = i
			break
		}
	}
	m.scrollSidebar()
	return tea.Batch(fetchGuide(m.app.Study, t), m.spin.Tick)
}

func (m *appModel) applyGuide(msg guideResultMsg) {
	if !m.guide.Resolve(msg.ticket, msg.content, msg.err) {
		m.logger.Debug("superseded guide result discarded",
			zap.String("topic", msg.ticket.Topic),
			zap.Uint64("seq", msg.ticket.Seq),
		)
		return
	}
	loaded, ok := m.guide.State().(domain.GuideLoaded)
	if !ok {
		return
	}
	m.doc = render.Parse(loaded.Content)
	m.layout()
	m.vp.GotoTop()
}

func (m *appModel) activate() tea.Cmd {
	t, ok := m.flow.Activate()
	if !ok {
		return nil
	}
	m.logger.Info("definition requested",
		zap.String("term", t.Term),
		zap.Uint64("seq", t.Seq),
		zap.Stringer("phase", m.flow.Phase()),
	)
	m.sel = nil
	m.definition = ""
	m.refreshViewport()
	return tea.Batch(fetchDefinition(m.app.Study, t), m.spin.Tick)
}

func (m *appModel) applyDefinition(msg definitionResultMsg) {
	if !m.flow.Resolve(msg.ticket, msg.definition, msg.err) {
		m.logger.Debug("definition result discarded",
			zap.String("term", msg.ticket.Term),
			zap.Uint64("seq", msg.ticket.Seq),
			zap.Stringer("phase", m.flow.Phase()),
		)
		return
	}
	m.logger.Debug("definition resolved",
		zap.String("term", msg.ticket.Term),
		zap.Uint64("seq", msg.ticket.Seq),
		zap.Stringer("phase", m.flow.Phase()),
		zap.Bool("failed", msg.err != nil),
	)
	m.renderDefinition()
}

func (m *appModel) closeModal() tea.Cmd {
	token, ok := m.flow.Close()
	if !ok {
		return nil
	}
	return finishCloseAfter(token)
}

func (m *appModel) copyDefinition() {
	loaded, ok := m.flow.State().(domain.DefinitionLoaded)
	if !ok || m.app.Clipboard == nil {
		return
	}
	if err := m.app.Clipboard(loaded.Definition); err != nil {
		m.logger.Warn("clipboard write failed", zap.Error(err))
		m.flash = "Clipboard unavailable"
		return
	}
	m.flash = "Copied definition to clipboard"
}

func (m *appModel) clearSelection() {
	m.flow.ClearSelection()
	m.drag = nil
	m.sel = nil
	m.click = nil
	m.refreshViewport()
}

// ── layout ───────────────────────────────────────────────────────────────────

func (m *appModel) resize() {
	m.vp.Width = m.contentWidth()
	m.vp.Height = m.docHeight()
	// Document coordinates change with the width.
	m.clearSelection()
	m.layout()
	m.scrollSidebar()
	m.renderDefinition()
}

// layout re-renders the loaded guide at the current width.
func (m *appModel) layout() {
	if m.doc == nil {
		m.page = nil
		m.refreshViewport()
		return
	}
	m.page = m.app.Renderer.Page(m.doc, m.contentWidth())
	m.refreshViewport()
}

func (m *appModel) refreshViewport() {
	if m.page == nil {
		m.vp.SetContent("")
		return
	}
	from, to, ok := m.highlightRange()
	m.vp.SetContent(highlight(m.page, from, to, ok))
}

func (m appModel) highlightRange() (render.Point, render.Point, bool) {
	switch {
	case m.drag != nil:
		from, to := m.drag.anchor, m.drag.head
		if to.Line < from.Line || (to.Line == from.Line && to.Col < from.Col) {
			from, to = to, from
		}
		to.Col++
		return from, to, true
	case m.sel != nil:
		return m.sel.from, m.sel.to, true
	}
	return render.Point{}, render.Point{}, false
}

func (m *appModel) scrollSidebar() {
	h := m.sidebarRowsHeight()
	switch {
	case m.cursor < m.sideOffset:
		m.sideOffset = m.cursor
	case m.cursor >= m.sideOffset+h:
		m.sideOffset = m.cursor - h + 1
	}
	if m.sideOffset < 0 {
		m.sideOffset = 0
	}
}
