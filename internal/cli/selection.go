package cli

import (
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/alexanderramin/studyguide/internal/cli/formatter"
	"github.com/alexanderramin/studyguide/internal/render"
)

// popoverLabel is the define control shown above a selection.
const popoverLabel = " 🔍 Define "

// rect is a block of screen cells.
type rect struct {
	x, y, w, h int
}

func (r rect) contains(x, y int) bool {
	return x >= r.x && x < r.x+r.w && y >= r.y && y < r.y+r.h
}

// highlight returns the page's styled lines with [from, to) drawn in the
// selection style. Decoration columns are never highlighted.
func highlight(p *render.Page, from, to render.Point, active bool) string {
	lines := make([]string, len(p.Lines))
	for i, l := range p.Lines {
		lines[i] = l.Styled
		if !active || i < from.Line || i > to.Line {
			continue
		}
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
		seg := ansi.Cut(l.Plain, start, end)
		lines[i] = ansi.Truncate(l.Styled, start, "") +
			formatter.StyleSelection.Render(seg) +
			ansi.TruncateLeft(l.Styled, end, "")
	}
	return strings.Join(lines, "\n")
}

// popover returns where the define control sits on screen: one row above
// the selection and centred on it, or just below when the selection starts
// on the first visible row. It is hidden while its row is scrolled away.
func (m appModel) popover() (rect, bool) {
	sel, ok := m.flow.Selection()
	if !ok || m.sel == nil || m.page == nil {
		return rect{}, false
	}
	w := ansi.StringWidth(popoverLabel)
	top, bottom := m.docTop(), m.docTop()+m.vp.Height

	row := m.docTop() + sel.Anchor.Top - m.vp.YOffset
	if row < top {
		row = m.docTop() + m.sel.bounds.Bottom + 1 - m.vp.YOffset
	}
	if row < top || row >= bottom {
		return rect{}, false
	}
	col := m.contentX() + sel.Anchor.Left - w/2
	col = min(max(col, m.contentX()), m.contentX()+m.contentWidth()-w)
	return rect{x: col, y: row, w: w, h: 1}, true
}
