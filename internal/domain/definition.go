package domain

import "time"

// CloseDelay is how long a closing modal keeps its content on screen.
const CloseDelay = 300 * time.Millisecond

// DefinitionState is the request state of the definition modal.
type DefinitionState interface {
	definitionState()
}

type DefinitionIdle struct{}

type DefinitionLoading struct {
	Term string
}

type DefinitionLoaded struct {
	Term       string
	Definition string
}

type DefinitionFailed struct {
	Term    string
	Message string
}

func (DefinitionIdle) definitionState()    {}
func (DefinitionLoading) definitionState() {}
func (DefinitionLoaded) definitionState()  {}
func (DefinitionFailed) definitionState()  {}

// Phase names where the selection-to-definition flow currently is.
type Phase int

const (
	PhaseNoSelection Phase = iota
	PhaseSelected
	PhaseDefining
	PhaseShown
)

func (p Phase) String() string {
	switch p {
	case PhaseSelected:
		return "selected"
	case PhaseDefining:
		return "defining"
	case PhaseShown:
		return "shown"
	default:
		return "no_selection"
	}
}

// DefinitionTicket identifies one definition request.
type DefinitionTicket struct {
	Seq  uint64
	Term string
}

// DefinitionFlow is the selection → action control → modal state machine.
// At most one selection or modal is live. While the modal is open, new
// selections are refused.
type DefinitionFlow struct {
	selection *Selection

	open    bool
	closing bool
	state   DefinitionState

	// seq advances on every Activate and Close so that stale tickets and
	// close timers can be told apart from current ones.
	seq uint64
}

func NewDefinitionFlow() *DefinitionFlow {
	return &DefinitionFlow{state: DefinitionIdle{}}
}

// Release handles a pointer release inside the document with the selected
// text and its bounds. A valid selection replaces any previous one; an
// invalid one clears it. Reports whether an action control should show.
func (f *DefinitionFlow) Release(text string, bounds Rect) bool {
	if f.open {
		return false
	}
	term, err := CheckSelection(text)
	if err != nil {
		f.selection = nil
		return false
	}
	f.selection = &Selection{Text: term, Anchor: AnchorFor(bounds)}
	return true
}

// PointerDown dismisses the action control when the press lands outside it
// while the live selection is collapsed. Reports whether it dismissed.
func (f *DefinitionFlow) PointerDown(onControl, collapsed bool) bool {
	if f.selection == nil || onControl || !collapsed {
		return false
	}
	f.selection = nil
	return true
}

// ClearSelection drops the live selection, e.g. when the document changes.
func (f *DefinitionFlow) ClearSelection() {
	f.selection = nil
}

// Selection returns the live selection, if any.
func (f *DefinitionFlow) Selection() (Selection, bool) {
	if f.selection == nil {
		return Selection{}, false
	}
	return *f.selection, true
}

// Activate consumes the selection, opens the modal in the loading state and
// returns the ticket for the single lookup the caller issues.
func (f *DefinitionFlow) Activate() (DefinitionTicket, bool) {
	if f.selection == nil || f.open {
		return DefinitionTicket{}, false
	}
	term := f.selection.Text
	f.selection = nil
	f.open = true
	f.closing = false
	f.seq++
	f.state = DefinitionLoading{Term: term}
	return DefinitionTicket{Seq: f.seq, Term: term}, true
}

// Resolve applies a lookup outcome to the open modal. Outcomes for a modal
// that has since closed, or is closing, are discarded.
func (f *DefinitionFlow) Resolve(t DefinitionTicket, definition string, err error) bool {
	cur, ok := f.state.(DefinitionLoading)
	if !f.open || f.closing || !ok || t.Seq != f.seq || t.Term != cur.Term {
		return false
	}
	if err != nil {
		f.state = DefinitionFailed{Term: t.Term, Message: DefinitionFailureMessage}
		return true
	}
	f.state = DefinitionLoaded{Term: t.Term, Definition: definition}
	return true
}

// Close starts closing the modal. Its content stays until FinishClose is
// called with the returned token, normally after CloseDelay.
func (f *DefinitionFlow) Close() (uint64, bool) {
	if !f.open || f.closing {
		return 0, false
	}
	f.closing = true
	f.seq++
	return f.seq, true
}

// FinishClose clears the modal if token still matches the pending close.
func (f *DefinitionFlow) FinishClose(token uint64) bool {
	if !f.closing || token != f.seq {
		return false
	}
	f.open = false
	f.closing = false
	f.state = DefinitionIdle{}
	return true
}

// ModalOpen reports whether the modal is on screen, closing included.
func (f *DefinitionFlow) ModalOpen() bool { return f.open }

func (f *DefinitionFlow) Closing() bool { return f.closing }

func (f *DefinitionFlow) State() DefinitionState { return f.state }

// Phase summarises the flow for display and logging.
func (f *DefinitionFlow) Phase() Phase {
	switch {
	case f.open:
		if _, loading := f.state.(DefinitionLoading); loading {
			return PhaseDefining
		}
		return PhaseShown
	case f.selection != nil:
		return PhaseSelected
	default:
		return PhaseNoSelection
	}
}
