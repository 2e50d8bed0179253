package render

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// DiagramLanguage tags fenced blocks drawn by the diagram engine.
const DiagramLanguage = "mermaid"

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// Parse reads GFM markdown into a Document. It never fails; anything it
// does not recognise is kept as plain paragraph text.
func Parse(src string) *Document {
	source := []byte(src)
	root := markdown.Parser().Parse(text.NewReader(source))

	p := &parser{src: source, doc: &Document{}}
	p.doc.Blocks = p.blocks(root)
	return p.doc
}

type parser struct {
	src []byte
	doc *Document
}

func (p *parser) blocks(parent ast.Node) []Block {
	var out []Block
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		if b := p.block(n); b != nil {
			out = append(out, b)
		}
	}
	return out
}

func (p *parser) block(n ast.Node) Block {
	switch n := n.(type) {
	case *ast.Heading:
		return Heading{Level: n.Level, Spans: p.inlines(n, 0)}
	case *ast.Paragraph, *ast.TextBlock:
		return Paragraph{Spans: p.inlines(n, 0)}
	case *ast.List:
		return p.list(n)
	case *ast.Blockquote:
		return Callout{Blocks: p.blocks(n)}
	case *ast.FencedCodeBlock:
		lang := strings.ToLower(strings.TrimSpace(string(n.Language(p.src))))
		source := p.lines(n)
		if lang == DiagramLanguage {
			d := &Diagram{Source: source}
			p.doc.diagrams = append(p.doc.diagrams, d)
			return d
		}
		return Code{Language: lang, Source: source}
	case *ast.CodeBlock:
		return Code{Source: p.lines(n)}
	case *ast.ThematicBreak:
		return Rule{}
	case *extast.Table:
		return p.table(n)
	case *ast.HTMLBlock:
		if raw := strings.TrimSpace(p.lines(n)); raw != "" {
			return Paragraph{Spans: []Span{{Text: raw}}}
		}
	}
	return nil
}

func (p *parser) lines(n ast.Node) string {
	var b bytes.Buffer
	segs := n.Lines()
	for i := 0; i < segs.Len(); i++ {
		seg := segs.At(i)
		b.Write(seg.Value(p.src))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (p *parser) list(n *ast.List) List {
	l := List{Ordered: n.IsOrdered(), Start: n.Start}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		item := ListItem{Blocks: p.blocks(c)}
		if box := taskBox(c); box != nil {
			item.Task = true
			item.Checked = box.IsChecked
		}
		l.Items = append(l.Items, item)
	}
	return l
}

// taskBox finds the checkbox GFM puts at the start of a task item.
func taskBox(item ast.Node) *extast.TaskCheckBox {
	first := item.FirstChild()
	if first == nil {
		return nil
	}
	box, _ := first.FirstChild().(*extast.TaskCheckBox)
	return box
}

func (p *parser) table(n *extast.Table) Table {
	t := Table{}
	for _, a := range n.Alignments {
		switch a {
		case extast.AlignLeft:
			t.Align = append(t.Align, AlignLeft)
		case extast.AlignCenter:
			t.Align = append(t.Align, AlignCenter)
		case extast.AlignRight:
			t.Align = append(t.Align, AlignRight)
		default:
			t.Align = append(t.Align, AlignNone)
		}
	}
	for row := n.FirstChild(); row != nil; row = row.NextSibling() {
		var cells [][]Span
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			cells = append(cells, p.inlines(cell, 0))
		}
		if _, header := row.(*extast.TableHeader); header {
			t.Header = cells
		} else {
			t.Rows = append(t.Rows, cells)
		}
	}
	return t
}

// inlines flattens the inline children of n into spans, accumulating style
// from enclosing emphasis, links and strikethrough.
func (p *parser) inlines(n ast.Node, style SpanStyle) []Span {
	var out []Span
	add := func(s Span) {
		if s.Text == "" {
			return
		}
		if k := len(out) - 1; k >= 0 && out[k].Style == s.Style && out[k].URL == s.URL {
			out[k].Text += s.Text
			return
		}
		out = append(out, s)
	}

	var walk func(n ast.Node, style SpanStyle, url string)
	walk = func(n ast.Node, style SpanStyle, url string) {
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			switch c := c.(type) {
			case *ast.Text:
				add(Span{Text: string(c.Segment.Value(p.src)), Style: style, URL: url})
				if c.SoftLineBreak() || c.HardLineBreak() {
					add(Span{Text: " ", Style: style, URL: url})
				}
			case *ast.String:
				add(Span{Text: string(c.Value), Style: style, URL: url})
			case *ast.CodeSpan:
				add(Span{Text: p.rawText(c), Style: style | SpanCode, URL: url})
			case *ast.Emphasis:
				s := style | SpanEmphasis
				if c.Level >= 2 {
					s = style | SpanStrong
				}
				walk(c, s, url)
			case *ast.Link:
				walk(c, style|SpanLink, string(c.Destination))
			case *ast.AutoLink:
				add(Span{Text: string(c.Label(p.src)), Style: style | SpanLink, URL: string(c.URL(p.src))})
			case *ast.Image:
				add(Span{Text: "[image: " + p.rawText(c) + "]", Style: style})
			case *ast.RawHTML:
				add(Span{Text: htmlText(p.rawHTML(c)), Style: style, URL: url})
			case *extast.Strikethrough:
				walk(c, style|SpanStrike, url)
			case *extast.TaskCheckBox:
			default:
				walk(c, style, url)
			}
		}
	}
	walk(n, style, "")
	return out
}

func (p *parser) rawText(n ast.Node) string {
	var b strings.Builder
	var walk func(ast.Node)
	walk = func(n ast.Node) {
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			switch c := c.(type) {
			case *ast.Text:
				b.Write(c.Segment.Value(p.src))
			case *ast.String:
				b.Write(c.Value)
			default:
				walk(c)
			}
		}
	}
	walk(n)
	return b.String()
}

func (p *parser) rawHTML(n *ast.RawHTML) string {
	var b strings.Builder
	for i := 0; i < n.Segments.Len(); i++ {
		seg := n.Segments.At(i)
		b.Write(seg.Value(p.src))
	}
	return b.String()
}

// htmlText keeps inline HTML out of the guide except for line breaks.
func htmlText(tag string) string {
	switch strings.ToLower(strings.ReplaceAll(tag, " ", "")) {
	case "<br>", "<br/>":
		return " "
	}
	return ""
}
