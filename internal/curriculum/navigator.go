package curriculum

// Navigator tracks the current topic and the set of expanded chapters.
// Chapters expand automatically when one of their topics is selected and
// otherwise only change when toggled; nothing collapses on its own.
type Navigator struct {
	curriculum Curriculum
	selected   string
	expanded   map[string]bool
}

// NewNavigator creates a Navigator with nothing selected and every chapter
// collapsed.
func NewNavigator(c Curriculum) *Navigator {
	return &Navigator{curriculum: c, expanded: make(map[string]bool)}
}

func (n *Navigator) Curriculum() Curriculum { return n.curriculum }

// SelectTopic makes topic current and expands its owning chapter. A topic
// missing from the curriculum is still selected; no chapter expands.
func (n *Navigator) SelectTopic(topic string) {
	n.selected = topic
	if title, ok := n.curriculum.ChapterOf(topic); ok {
		n.expanded[title] = true
	}
}

// ToggleChapter flips the expansion of the chapter titled title.
func (n *Navigator) ToggleChapter(title string) {
	if n.expanded[title] {
		delete(n.expanded, title)
		return
	}
	n.expanded[title] = true
}

func (n *Navigator) IsExpanded(title string) bool { return n.expanded[title] }

// Selected returns the current topic, if any.
func (n *Navigator) Selected() (string, bool) {
	return n.selected, n.selected != ""
}

// Expanded returns the expanded chapter titles in curriculum order. Titles
// toggled open that are not in the curriculum come last.
func (n *Navigator) Expanded() []string {
	var out []string
	seen := make(map[string]bool)
	for _, ch := range n.curriculum.Chapters {
		if n.expanded[ch.Title] {
			out = append(out, ch.Title)
			seen[ch.Title] = true
		}
	}
	for title := range n.expanded {
		if !seen[title] {
			out = append(out, title)
		}
	}
	return out
}

// Row is one visible sidebar line: a chapter header or a topic under an
// expanded chapter.
type Row struct {
	Chapter  string
	Topic    string // empty for chapter rows
	Expanded bool
	Selected bool
}

func (r Row) IsChapter() bool { return r.Topic == "" }

// Rows flattens the curriculum into the lines currently visible.
func (n *Navigator) Rows() []Row {
	var rows []Row
	for _, ch := range n.curriculum.Chapters {
		open := n.expanded[ch.Title]
		rows = append(rows, Row{Chapter: ch.Title, Expanded: open})
		if !open {
			continue
		}
		for _, t := range ch.Topics {
			rows = append(rows, Row{Chapter: ch.Title, Topic: t, Selected: t == n.selected})
		}
	}
	return rows
}
