// Package teatest drives bubbletea models in tests without a tea.Program.
//
// Update is called directly and returned Cmds are run and fed back
// synchronously. Cmds that block (timers, spinner ticks, the modal exit
// delay) are given a short window and skipped when they do not return, so
// tests deliver those messages themselves when they care about them.
package teatest

import (
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
)

// MaxDrainDepth bounds how many chained Cmds one Send may run.
const MaxDrainDepth = 100

// cmdTimeout separates message factories, which return at once, from
// timer Cmds that sleep for hundreds of milliseconds.
const cmdTimeout = 20 * time.Millisecond

// Driver is a synchronous harness for any tea.Model.
type Driver struct {
	T     *testing.T
	Model tea.Model

	// Quitting is set once a tea.QuitMsg has been produced.
	Quitting bool
}

// New creates a Driver. Call DrainInit afterwards to run the Init Cmd.
func New(t *testing.T, model tea.Model, opts ...Option) *Driver {
	t.Helper()
	d := &Driver{T: t, Model: model}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

type Option func(*Driver)

// WithSize sends an initial WindowSizeMsg.
func WithSize(w, h int) Option {
	return func(d *Driver) {
		d.T.Helper()
		updated, _ := d.Model.Update(tea.WindowSizeMsg{Width: w, Height: h})
		d.Model = updated
	}
}

// DrainInit runs the model's Init Cmd and everything it leads to.
func (d *Driver) DrainInit() {
	d.T.Helper()
	d.drainCmd(d.Model.Init(), 0)
}

// Send dispatches msg through Update and drains the resulting Cmds.
func (d *Driver) Send(msg tea.Msg) {
	d.T.Helper()
	if d.Quitting {
		return
	}
	updated, cmd := d.Model.Update(msg)
	d.Model = updated
	d.drainCmd(cmd, 0)
}

// Capture dispatches msg through Update, runs the resulting Cmds and
// returns the messages they produce without feeding them back. Tests use
// it to hold asynchronous results and deliver them later, in any order.
func (d *Driver) Capture(msg tea.Msg) []tea.Msg {
	d.T.Helper()
	updated, cmd := d.Model.Update(msg)
	d.Model = updated
	return collect(cmd, 0)
}

func collect(cmd tea.Cmd, depth int) []tea.Msg {
	if cmd == nil || depth >= MaxDrainDepth {
		return nil
	}
	msg := execCmdWithTimeout(cmd)
	if msg == nil || isCursorBlink(msg) {
		return nil
	}
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, sub := range batch {
			out = append(out, collect(sub, depth+1)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

// ── Key helpers ──────────────────────────────────────────────────────────────

func (d *Driver) SendKey(msg tea.KeyMsg) {
	d.T.Helper()
	d.Send(msg)
}

// PressKey sends a character key.
func (d *Driver) PressKey(r rune) {
	d.T.Helper()
	d.SendKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
}

func (d *Driver) PressEnter() {
	d.T.Helper()
	d.SendKey(tea.KeyMsg{Type: tea.KeyEnter})
}

func (d *Driver) PressEsc() {
	d.T.Helper()
	d.SendKey(tea.KeyMsg{Type: tea.KeyEsc})
}

func (d *Driver) PressTab() {
	d.T.Helper()
	d.SendKey(tea.KeyMsg{Type: tea.KeyTab})
}

func (d *Driver) PressCtrlC() {
	d.T.Helper()
	d.SendKey(tea.KeyMsg{Type: tea.KeyCtrlC})
}

func (d *Driver) PressUp() {
	d.T.Helper()
	d.SendKey(tea.KeyMsg{Type: tea.KeyUp})
}

func (d *Driver) PressDown() {
	d.T.Helper()
	d.SendKey(tea.KeyMsg{Type: tea.KeyDown})
}

func (d *Driver) PressPgDown() {
	d.T.Helper()
	d.SendKey(tea.KeyMsg{Type: tea.KeyPgDown})
}

// Type sends s one rune at a time.
func (d *Driver) Type(s string) {
	d.T.Helper()
	for _, r := range s {
		d.PressKey(r)
	}
}

// ── Mouse helpers ────────────────────────────────────────────────────────────

func mouse(x, y int, action tea.MouseAction, button tea.MouseButton) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: action, Button: button}
}

// Press sends a left-button press at screen cell (x, y).
func (d *Driver) Press(x, y int) {
	d.T.Helper()
	d.Send(mouse(x, y, tea.MouseActionPress, tea.MouseButtonLeft))
}

// Drag sends left-button motion to (x, y).
func (d *Driver) Drag(x, y int) {
	d.T.Helper()
	d.Send(mouse(x, y, tea.MouseActionMotion, tea.MouseButtonLeft))
}

// Release sends a left-button release at (x, y).
func (d *Driver) Release(x, y int) {
	d.T.Helper()
	d.Send(mouse(x, y, tea.MouseActionRelease, tea.MouseButtonLeft))
}

// Click presses and releases at the same cell.
func (d *Driver) Click(x, y int) {
	d.T.Helper()
	d.Press(x, y)
	d.Release(x, y)
}

// Select drags from one cell to another and releases there.
func (d *Driver) Select(fromX, fromY, toX, toY int) {
	d.T.Helper()
	d.Press(fromX, fromY)
	d.Drag(toX, toY)
	d.Release(toX, toY)
}

// WheelDown scrolls once at (x, y).
func (d *Driver) WheelDown(x, y int) {
	d.T.Helper()
	d.Send(mouse(x, y, tea.MouseActionPress, tea.MouseButtonWheelDown))
}

// ── Output ───────────────────────────────────────────────────────────────────

// View returns the rendered output of the model.
func (d *Driver) View() string {
	return d.Model.View()
}

// PlainView returns View with escape sequences stripped.
func (d *Driver) PlainView() string {
	return ansi.Strip(d.Model.View())
}

// Find returns the screen cell where text first appears in the plain view.
func (d *Driver) Find(text string) (x, y int, ok bool) {
	for row, line := range strings.Split(d.PlainView(), "\n") {
		if i := strings.Index(line, text); i >= 0 {
			return ansi.StringWidth(line[:i]), row, true
		}
	}
	return 0, 0, false
}

// ── Command draining ─────────────────────────────────────────────────────────

func (d *Driver) drainCmd(cmd tea.Cmd, depth int) {
	d.T.Helper()
	if cmd == nil {
		return
	}
	if depth >= MaxDrainDepth {
		d.T.Logf("teatest.Driver: drain depth limit (%d) reached", MaxDrainDepth)
		return
	}

	msg := execCmdWithTimeout(cmd)
	if msg == nil || isCursorBlink(msg) {
		return
	}

	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, sub := range batch {
			if sub != nil {
				d.drainCmd(sub, depth+1)
			}
		}
		return
	}

	if _, isQuit := msg.(tea.QuitMsg); isQuit {
		d.Quitting = true
		updated, _ := d.Model.Update(msg)
		d.Model = updated
		return
	}

	updated, next := d.Model.Update(msg)
	d.Model = updated
	d.drainCmd(next, depth+1)
}

// execCmdWithTimeout runs cmd and returns nil if it has not finished
// within cmdTimeout.
func execCmdWithTimeout(cmd tea.Cmd) tea.Msg {
	ch := make(chan tea.Msg, 1)
	go func() {
		ch <- cmd()
	}()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(cmdTimeout):
		return nil
	}
}

// isCursorBlink matches the unexported blink messages from bubbles/cursor.
func isCursorBlink(msg tea.Msg) bool {
	t := fmt.Sprintf("%T", msg)
	return strings.Contains(t, "Blink") || strings.Contains(t, "blink")
}
