package render

import (
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/alexanderramin/studyguide/internal/domain"
)

// Point is a cell on a page: a line index and a display column.
type Point struct {
	Line int
	Col  int
}

func (p Point) before(q Point) bool {
	return p.Line < q.Line || (p.Line == q.Line && p.Col < q.Col)
}

// Select returns the text between from and to, end exclusive, with
// decoration columns removed and line breaks folded into single spaces.
// The rectangle spans every cell that contributed text. ok is false when
// nothing was covered.
func (p *Page) Select(from, to Point) (text string, bounds domain.Rect, ok bool) {
	if len(p.Lines) == 0 {
		return "", domain.Rect{}, false
	}
	if to.before(from) {
		from, to = to, from
	}
	from.Line = clamp(from.Line, 0, len(p.Lines)-1)
	to.Line = clamp(to.Line, 0, len(p.Lines)-1)

	var parts []string
	for i := from.Line; i <= to.Line; i++ {
		l := p.Lines[i]
		start, end := l.Gutter, l.End
		if i == from.Line {
			start = max(start, from.Col)
		}
		if i == to.Line {
			end = min(end, to.Col)
		}
		if start >= end {
			continue
		}
		seg := strings.TrimSpace(ansi.Cut(l.Plain, start, end))
		if seg == "" {
			continue
		}
		if !ok {
			bounds = domain.Rect{Top: i, Left: start, Bottom: i, Right: end}
			ok = true
		}
		bounds.Bottom = i
		bounds.Left = min(bounds.Left, start)
		bounds.Right = max(bounds.Right, end)
		parts = append(parts, seg)
	}
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " "), bounds, ok
}

// WordAt returns the whitespace-delimited word under pt.
func (p *Page) WordAt(pt Point) (from, to Point, ok bool) {
	if pt.Line < 0 || pt.Line >= len(p.Lines) {
		return Point{}, Point{}, false
	}
	l := p.Lines[pt.Line]
	if pt.Col < l.Gutter || pt.Col >= l.End {
		return Point{}, Point{}, false
	}
	isSpace := func(col int) bool {
		return strings.TrimSpace(ansi.Cut(l.Plain, col, col+1)) == ""
	}
	if isSpace(pt.Col) {
		return Point{}, Point{}, false
	}
	start, end := pt.Col, pt.Col+1
	for start > l.Gutter && !isSpace(start-1) {
		start--
	}
	for end < l.End && !isSpace(end) {
		end++
	}
	return Point{Line: pt.Line, Col: start}, Point{Line: pt.Line, Col: end}, true
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
