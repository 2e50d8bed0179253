package cli

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexanderramin/studyguide/internal/domain"
	"github.com/alexanderramin/studyguide/internal/intelligence"
)

// guideResultMsg carries the outcome of one guide fetch.
type guideResultMsg struct {
	ticket  domain.GuideTicket
	content string
	err     error
}

// definitionResultMsg carries the outcome of one definition lookup.
type definitionResultMsg struct {
	ticket     domain.DefinitionTicket
	definition string
	err        error
}

// modalClosedMsg ends the modal's exit window.
type modalClosedMsg struct {
	token uint64
}

// Backend calls run without a deadline and are never cancelled; a
// superseded result is simply discarded when it arrives.

func fetchGuide(svc intelligence.StudyService, t domain.GuideTicket) tea.Cmd {
	return func() tea.Msg {
		content, err := svc.GenerateGuide(context.Background(), t.Topic)
		return guideResultMsg{ticket: t, content: content, err: err}
	}
}

func fetchDefinition(svc intelligence.StudyService, t domain.DefinitionTicket) tea.Cmd {
	return func() tea.Msg {
		def, err := svc.DefineTerm(context.Background(), t.Term)
		return definitionResultMsg{ticket: t, definition: def, err: err}
	}
}

func finishCloseAfter(token uint64) tea.Cmd {
	return tea.Tick(domain.CloseDelay, func(time.Time) tea.Msg {
		return modalClosedMsg{token: token}
	})
}
