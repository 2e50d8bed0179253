package cli

import (
	"context"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/alexanderramin/studyguide/internal/curriculum"
	"github.com/alexanderramin/studyguide/internal/diagram"
	"github.com/alexanderramin/studyguide/internal/domain"
	"github.com/alexanderramin/studyguide/internal/llm"
	"github.com/alexanderramin/studyguide/internal/render"
	"github.com/alexanderramin/studyguide/internal/teatest"
)

// fakeStudy is a scripted StudyService that records every call.
type fakeStudy struct {
	mu          sync.Mutex
	guides      map[string]string
	definitions map[string]string
	guideErr    error
	defineErr   error
	guideCalls  []string
	defineCalls []string
}

func newFakeStudy() *fakeStudy {
	return &fakeStudy{guides: map[string]string{}, definitions: map[string]string{}}
}

func (f *fakeStudy) GenerateGuide(_ context.Context, topic string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.guideCalls = append(f.guideCalls, topic)
	if f.guideErr != nil {
		return "", f.guideErr
	}
	return f.guides[topic], nil
}

func (f *fakeStudy) DefineTerm(_ context.Context, term string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.defineCalls = append(f.defineCalls, term)
	if f.defineErr != nil {
		return "", f.defineErr
	}
	return f.definitions[term], nil
}

func (f *fakeStudy) GuideCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.guideCalls...)
}

func (f *fakeStudy) DefineCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.defineCalls...)
}

func testCurriculum() curriculum.Curriculum {
	return curriculum.Curriculum{Chapters: []curriculum.Chapter{
		{Title: "Breath", Topics: []string{"Pranayama Basics", "Kapalabhati"}},
		{Title: "Diet", Topics: []string{"Fasting Therapy"}},
	}}
}

// testClock is a settable clock for double-click detection.
type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func testApp(study *fakeStudy) *App {
	clock := &testClock{now: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
	return &App{
		Study:           study,
		Curriculum:      testCurriculum(),
		Renderer:        render.NewRenderer(diagram.NewEngine(), zap.NewNop()),
		Provider:        llm.ProviderGemini,
		DefinitionStyle: "notty",
		Logger:          zap.NewNop(),
		IsInteractive:   func() bool { return true },
		Now:             clock.Now,
	}
}

// TestDriver wraps teatest.Driver with study-guide specific helpers and
// access to appModel internals the generic driver can't see.
type TestDriver struct {
	*teatest.Driver
}

// NewTestDriver builds the appModel for app at 120×40 and drains Init.
func NewTestDriver(t *testing.T, app *App) *TestDriver {
	t.Helper()

	m := newAppModel(app)
	d := teatest.New(t, m, teatest.WithSize(120, 40))
	d.DrainInit()

	return &TestDriver{Driver: d}
}

// ── High-level helpers ───────────────────────────────────────────────────────

// ClickText clicks the first cell showing text.
func (d *TestDriver) ClickText(text string) {
	d.T.Helper()
	x, y, ok := d.Find(text)
	require.True(d.T, ok, "%q not on screen:\n%s", text, d.PlainView())
	d.Click(x, y)
}

// CaptureClickText presses on text and returns the messages its Cmds
// produce, then releases.
func (d *TestDriver) CaptureClickText(text string) []tea.Msg {
	d.T.Helper()
	x, y, ok := d.Find(text)
	require.True(d.T, ok, "%q not on screen:\n%s", text, d.PlainView())
	msgs := d.Capture(tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	d.Release(x, y)
	return msgs
}

// OpenTopic expands chapter, when needed, and opens topic.
func (d *TestDriver) OpenTopic(chapter, topic string) {
	d.T.Helper()
	if !d.appModel().nav.IsExpanded(chapter) {
		d.ClickText("▸ " + chapter)
	}
	d.ClickText("• " + topic)
}

// SelectDoc drags over document cells [fromCol, toCol] on line, in
// document coordinates.
func (d *TestDriver) SelectDoc(line, fromCol, toCol int) {
	d.T.Helper()
	m := d.appModel()
	y := m.docTop() + line - m.vp.YOffset
	d.Select(m.contentX()+fromCol, y, m.contentX()+toCol, y)
}

// ── Inspection ───────────────────────────────────────────────────────────────

func (d *TestDriver) appModel() appModel {
	return d.Model.(appModel)
}

func (d *TestDriver) GuideState() domain.GuideState {
	return d.appModel().guide.State()
}

func (d *TestDriver) DefinitionState() domain.DefinitionState {
	return d.appModel().flow.State()
}

func (d *TestDriver) Phase() domain.Phase {
	return d.appModel().flow.Phase()
}

func (d *TestDriver) Selection() (domain.Selection, bool) {
	return d.appModel().flow.Selection()
}

// messagesOf filters msgs down to those of type T.
func messagesOf[T tea.Msg](msgs []tea.Msg) []T {
	var out []T
	for _, msg := range msgs {
		if m, ok := msg.(T); ok {
			out = append(out, m)
		}
	}
	return out
}
