package domain

// GuideState is the request state of the study guide pane. Exactly one of
// GuideIdle, GuideLoading, GuideLoaded or GuideFailed.
type GuideState interface {
	guideState()
}

type GuideIdle struct{}

type GuideLoading struct {
	Topic string
}

type GuideLoaded struct {
	Topic   string
	Content string
}

type GuideFailed struct {
	Topic   string
	Message string
}

func (GuideIdle) guideState()    {}
func (GuideLoading) guideState() {}
func (GuideLoaded) guideState()  {}
func (GuideFailed) guideState()  {}

// GuideTicket identifies one issued guide request.
type GuideTicket struct {
	Seq   uint64
	Topic string
}

// GuideLifecycle owns the guide request state for the selected topic.
// Results are applied in selection order: only the ticket from the most
// recent Begin can resolve.
type GuideLifecycle struct {
	state GuideState
	seq   uint64
}

func NewGuideLifecycle() *GuideLifecycle {
	return &GuideLifecycle{state: GuideIdle{}}
}

func (l *GuideLifecycle) State() GuideState { return l.state }

// Topic returns the topic of the current request, if any.
func (l *GuideLifecycle) Topic() (string, bool) {
	switch s := l.state.(type) {
	case GuideLoading:
		return s.Topic, true
	case GuideLoaded:
		return s.Topic, true
	case GuideFailed:
		return s.Topic, true
	}
	return "", false
}

// Begin moves to Loading(topic), dropping any previous content or error, and
// returns the ticket the caller's single fetch must resolve with. Selecting
// the same topic again starts a new request.
func (l *GuideLifecycle) Begin(topic string) GuideTicket {
	l.seq++
	l.state = GuideLoading{Topic: topic}
	return GuideTicket{Seq: l.seq, Topic: topic}
}

// Resolve applies a fetch outcome. It reports false, leaving the state
// untouched, when the ticket has been superseded by a later Begin. A
// failure is recorded with GuideFailureMessage; logging err is up to the
// caller.
func (l *GuideLifecycle) Resolve(t GuideTicket, content string, err error) bool {
	cur, ok := l.state.(GuideLoading)
	if !ok || t.Seq != l.seq || t.Topic != cur.Topic {
		return false
	}
	if err != nil {
		l.state = GuideFailed{Topic: t.Topic, Message: GuideFailureMessage}
		return true
	}
	l.state = GuideLoaded{Topic: t.Topic, Content: content}
	return true
}
