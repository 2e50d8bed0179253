// Package render turns guide markdown into terminal lines. Parsing builds a
// block tree, DiagramPass draws the diagram placeholders in it, and Layout
// wraps everything to a width.
package render

// SpanStyle flags inline formatting; flags combine for nested emphasis.
type SpanStyle uint8

const (
	SpanEmphasis SpanStyle = 1 << iota
	SpanStrong
	SpanCode
	SpanLink
	SpanStrike
)

// Span is a run of inline text with one style.
type Span struct {
	Text  string
	Style SpanStyle
	URL   string
}

// Block is one of Heading, Paragraph, List, Callout, *Diagram, Code, Table
// or Rule.
type Block interface {
	block()
}

type Heading struct {
	Level int
	Spans []Span
}

type Paragraph struct {
	Spans []Span
}

type List struct {
	Ordered bool
	Start   int
	Items   []ListItem
}

type ListItem struct {
	Task    bool
	Checked bool
	Blocks  []Block
}

// Callout is a blockquote, drawn as a box with an info icon.
type Callout struct {
	Blocks []Block
}

// Code is a fenced or indented code block in any language but mermaid.
type Code struct {
	Language string
	Source   string
}

// Diagram is a mermaid placeholder. DiagramPass fills Lines, or Err when
// the source could not be drawn.
type Diagram struct {
	Source string
	Lines  []string
	Err    error

	width int
	drawn bool
}

// Drawn reports whether the diagram has a drawing for the last width it
// was passed at.
func (d *Diagram) Drawn() bool { return d.drawn && d.Err == nil }

type Alignment int

const (
	AlignNone Alignment = iota
	AlignLeft
	AlignCenter
	AlignRight
)

type Table struct {
	Align  []Alignment
	Header [][]Span
	Rows   [][][]Span
}

type Rule struct{}

func (Heading) block()   {}
func (Paragraph) block() {}
func (List) block()      {}
func (Callout) block()   {}
func (*Diagram) block()  {}
func (Code) block()      {}
func (Table) block()     {}
func (Rule) block()      {}

// Document is a parsed guide.
type Document struct {
	Blocks []Block

	diagrams []*Diagram
}

// Diagrams returns every diagram placeholder in document order, including
// those nested in lists and callouts.
func (d *Document) Diagrams() []*Diagram {
	return d.diagrams
}

// PlainText joins the text of spans without formatting.
func PlainText(spans []Span) string {
	n := 0
	for _, s := range spans {
		n += len(s.Text)
	}
	b := make([]byte, 0, n)
	for _, s := range spans {
		b = append(b, s.Text...)
	}
	return string(b)
}
