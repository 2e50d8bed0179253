package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"
)

// RegionKind labels lines that belong to a block of special interest.
type RegionKind int

const (
	RegionHeading RegionKind = iota + 1
	RegionCallout
	RegionCode
	RegionDiagram
	RegionTable
)

func (k RegionKind) String() string {
	switch k {
	case RegionHeading:
		return "heading"
	case RegionCallout:
		return "callout"
	case RegionCode:
		return "code"
	case RegionDiagram:
		return "diagram"
	case RegionTable:
		return "table"
	}
	return "text"
}

// Region is a run of page lines [Start, End) of one kind.
type Region struct {
	Kind  RegionKind
	Start int
	End   int
}

// Line is one row of a laid-out page. Plain is Styled without escape
// sequences. Columns before Gutter and from End on are decoration (list
// markers, callout borders) and are left out of selections.
type Line struct {
	Styled string
	Plain  string
	Gutter int
	End    int
}

// Page is a document laid out at a fixed width.
type Page struct {
	Width   int
	Lines   []Line
	Regions []Region
}

// String returns the styled page.
func (p *Page) String() string {
	out := make([]string, len(p.Lines))
	for i, l := range p.Lines {
		out[i] = l.Styled
	}
	return strings.Join(out, "\n")
}

// PlainText returns the page without styling.
func (p *Page) PlainText() string {
	out := make([]string, len(p.Lines))
	for i, l := range p.Lines {
		out[i] = l.Plain
	}
	return strings.Join(out, "\n")
}

// RegionsOf returns the regions of kind in page order.
func (p *Page) RegionsOf(kind RegionKind) []Region {
	var out []Region
	for _, r := range p.Regions {
		if r.Kind == kind {
			out = append(out, r)
		}
	}
	return out
}

type row struct {
	styled string
	gutter int
	end    int
	region RegionKind
}

func textRow(styled string) row {
	return row{styled: styled, end: ansi.StringWidth(styled)}
}

// Layout wraps doc to width. Diagrams are drawn as DiagramPass left them;
// any that were not drawn appear as code.
func Layout(doc *Document, width int, th Theme) *Page {
	width = max(width, 8)
	rows := layoutBlocks(doc.Blocks, width, th, true)

	page := &Page{Width: width, Lines: make([]Line, len(rows))}
	for i, r := range rows {
		page.Lines[i] = Line{
			Styled: r.styled,
			Plain:  ansi.Strip(r.styled),
			Gutter: r.gutter,
			End:    r.end,
		}
		if r.region == 0 {
			continue
		}
		if n := len(page.Regions); n > 0 && page.Regions[n-1].Kind == r.region && page.Regions[n-1].End == i {
			page.Regions[n-1].End = i + 1
			continue
		}
		page.Regions = append(page.Regions, Region{Kind: r.region, Start: i, End: i + 1})
	}
	return page
}

func layoutBlocks(blocks []Block, width int, th Theme, spaced bool) []row {
	var rows []row
	for i, b := range blocks {
		if i > 0 && spaced {
			rows = append(rows, row{})
		}
		rows = append(rows, layoutBlock(b, width, th)...)
	}
	return rows
}

func layoutBlock(b Block, width int, th Theme) []row {
	switch b := b.(type) {
	case Heading:
		return layoutHeading(b, width, th)
	case Paragraph:
		return wrapSpans(b.Spans, width, th)
	case List:
		return layoutList(b, width, th)
	case Callout:
		return layoutCallout(b, width, th)
	case *Diagram:
		return layoutDiagram(b, width, th)
	case Code:
		return layoutCode(b.Source, width, th, RegionCode)
	case Table:
		return layoutTable(b, width, th)
	case Rule:
		return []row{{styled: th.Rule.Render(strings.Repeat("─", width))}}
	}
	return nil
}

// wrapSpans renders spans word by word so no style runs across a line
// break, then wraps on spaces and hard-wraps words longer than width.
func wrapSpans(spans []Span, width int, th Theme) []row {
	var b strings.Builder
	for _, s := range spans {
		st := th.span(s.Style)
		txt := strings.Map(func(r rune) rune {
			if r == '\n' || r == '\t' || r == '\r' {
				return ' '
			}
			return r
		}, s.Text)
		for i, word := range strings.Split(txt, " ") {
			if i > 0 {
				b.WriteByte(' ')
			}
			if word != "" {
				b.WriteString(st.Render(word))
			}
		}
	}
	styled := strings.TrimSpace(b.String())
	if styled == "" {
		return nil
	}
	wrapped := wrap.String(wordwrap.String(styled, width), width)

	var rows []row
	for _, line := range strings.Split(wrapped, "\n") {
		rows = append(rows, textRow(strings.TrimRight(line, " ")))
	}
	return rows
}

func withPrefix(rows []row, first, rest string, w int) []row {
	out := make([]row, len(rows))
	for i, r := range rows {
		p := rest
		if i == 0 {
			p = first
		}
		out[i] = row{styled: p + r.styled, gutter: r.gutter + w, end: r.end + w, region: r.region}
		if r.styled == "" && i > 0 {
			out[i] = row{region: r.region}
		}
	}
	return out
}

func layoutHeading(h Heading, width int, th Theme) []row {
	st := th.heading(h.Level)
	title := PlainText(h.Spans)
	switch h.Level {
	case 1, 2:
		rows := styledLines(wrapPlain(title, width), st)
		w := 0
		for _, r := range rows {
			w = max(w, r.end)
		}
		bar := "━"
		if h.Level == 2 {
			bar = "─"
		}
		rows = append(rows, row{styled: th.Rule.Render(strings.Repeat(bar, w))})
		return tag(rows, RegionHeading)
	default:
		rows := styledLines(wrapPlain(title, width-2), st)
		return tag(withPrefix(rows, st.Render("▌")+" ", "  ", 2), RegionHeading)
	}
}

func wrapPlain(s string, width int) []string {
	return strings.Split(wrap.String(wordwrap.String(s, max(width, 1)), max(width, 1)), "\n")
}

func styledLines(lines []string, st lipgloss.Style) []row {
	rows := make([]row, 0, len(lines))
	for _, l := range lines {
		l = strings.TrimRight(l, " ")
		rows = append(rows, row{styled: st.Render(l), end: ansi.StringWidth(l)})
	}
	return rows
}

func tag(rows []row, kind RegionKind) []row {
	for i := range rows {
		if rows[i].region == 0 {
			rows[i].region = kind
		}
	}
	return rows
}

func layoutList(l List, width int, th Theme) []row {
	start := max(l.Start, 1)
	numW := len(fmt.Sprint(start + len(l.Items) - 1))

	var rows []row
	for i, item := range l.Items {
		var marker string
		var markerW int
		switch {
		case item.Task && item.Checked:
			marker, markerW = th.TaskDone.Render("☑")+" ", 2
		case item.Task:
			marker, markerW = th.TaskOpen.Render("☐")+" ", 2
		case l.Ordered:
			num := fmt.Sprintf("%*d.", numW, start+i)
			marker, markerW = th.Number.Render(num)+" ", numW+2
		default:
			marker, markerW = th.Marker.Render("✔")+" ", 2
		}

		body := layoutBlocks(item.Blocks, width-markerW, th, false)
		if len(body) == 0 {
			body = []row{{}}
		}
		rows = append(rows, withPrefix(body, marker, strings.Repeat(" ", markerW), markerW)...)
	}
	return rows
}

func layoutCallout(c Callout, width int, th Theme) []row {
	const (
		lead  = 4 // "│ ℹ "
		trail = 2 // " │"
	)
	inner := width - lead - trail
	body := layoutBlocks(c.Blocks, inner, th, true)
	if len(body) == 0 {
		return nil
	}

	border := th.CalloutBorder
	rows := []row{{styled: border.Render("╭" + strings.Repeat("─", width-2) + "╮")}}
	for i, r := range body {
		left := border.Render("│") + "   "
		if i == 0 {
			left = border.Render("│") + " " + th.CalloutIcon.Render("ℹ") + " "
		}
		pad := max(inner-ansi.StringWidth(r.styled), 0)
		rows = append(rows, row{
			styled: left + r.styled + strings.Repeat(" ", pad) + " " + border.Render("│"),
			gutter: r.gutter + lead,
			end:    r.end + lead,
			region: r.region,
		})
	}
	rows = append(rows, row{styled: border.Render("╰" + strings.Repeat("─", width-2) + "╯")})
	return tag(rows, RegionCallout)
}

func layoutDiagram(d *Diagram, width int, th Theme) []row {
	if !d.Drawn() {
		rows := layoutCode(d.Source, width, th, RegionCode)
		return append(rows, row{styled: "  " + th.Caption.Render("(diagram could not be drawn)"), region: RegionCode, gutter: 2, end: 2})
	}
	rows := make([]row, 0, len(d.Lines))
	for _, l := range d.Lines {
		l = ansi.Truncate(l, width-2, "")
		rows = append(rows, row{styled: "  " + th.Diagram.Render(l), gutter: 2, end: 2 + ansi.StringWidth(l)})
	}
	return tag(rows, RegionDiagram)
}

func layoutCode(src string, width int, th Theme, kind RegionKind) []row {
	var rows []row
	for _, l := range strings.Split(src, "\n") {
		l = strings.ReplaceAll(strings.TrimRight(l, " \r"), "\t", "    ")
		l = ansi.Truncate(l, width-2, "…")
		r := row{gutter: 2, end: 2, region: kind}
		if l != "" {
			r.styled = "  " + th.CodeBlock.Render(l)
			r.end = 2 + ansi.StringWidth(l)
		}
		rows = append(rows, r)
	}
	return rows
}

func layoutTable(t Table, width int, th Theme) []row {
	cell := func(spans []Span) string {
		var b strings.Builder
		for _, s := range spans {
			b.WriteString(th.span(s.Style).Render(s.Text))
		}
		return b.String()
	}

	headers := make([]string, len(t.Header))
	for i, c := range t.Header {
		headers[i] = cell(c)
	}
	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(th.TableBorder).
		Headers(headers...).
		StyleFunc(func(r, c int) lipgloss.Style {
			st := lipgloss.NewStyle().Padding(0, 1)
			if r == table.HeaderRow {
				st = th.TableHeader
			}
			if c < len(t.Align) {
				switch t.Align[c] {
				case AlignCenter:
					st = st.Align(lipgloss.Center)
				case AlignRight:
					st = st.Align(lipgloss.Right)
				}
			}
			return st
		})
	for _, r := range t.Rows {
		cells := make([]string, len(r))
		for i, c := range r {
			cells[i] = cell(c)
		}
		tbl.Row(cells...)
	}
	if lipgloss.Width(tbl.String()) > width {
		tbl.Width(width)
	}

	var rows []row
	for _, l := range strings.Split(tbl.String(), "\n") {
		rows = append(rows, textRow(l))
	}
	return tag(rows, RegionTable)
}
