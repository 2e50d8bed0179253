package diagram

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

const (
	bitUp uint8 = 1 << iota
	bitDown
	bitLeft
	bitRight
)

type point struct{ x, y int }

type cell struct {
	glyph rune
	mask  uint8
	style LineStyle
	// cont marks the second column of a wide glyph.
	cont bool
}

// canvas is a growable character grid. Connector cells record which
// neighbours they join so crossing and merging lines pick the right
// box-drawing character.
type canvas struct {
	rows [][]cell
}

func (c *canvas) at(x, y int) *cell {
	if x < 0 || y < 0 {
		return nil
	}
	for len(c.rows) <= y {
		c.rows = append(c.rows, nil)
	}
	row := c.rows[y]
	if len(row) <= x {
		row = append(row, make([]cell, x+1-len(row))...)
		c.rows[y] = row
	}
	return &row[x]
}

func (c *canvas) peek(x, y int) cell {
	if x < 0 || y < 0 || y >= len(c.rows) || x >= len(c.rows[y]) {
		return cell{}
	}
	return c.rows[y][x]
}

func (c *canvas) glyph(x, y int, r rune) {
	if p := c.at(x, y); p != nil {
		p.glyph = r
		p.cont = false
	}
}

// text writes s from (x, y), giving wide runes two cells.
func (c *canvas) text(x, y int, s string) {
	for _, r := range s {
		c.glyph(x, y, r)
		w := runewidth.RuneWidth(r)
		if w == 2 {
			if p := c.at(x+1, y); p != nil {
				*p = cell{cont: true}
			}
		}
		x += max(w, 1)
	}
}

// free reports whether w cells from (x, y) are blank.
func (c *canvas) free(x, y, w int) bool {
	if x < 0 || y < 0 {
		return false
	}
	for i := 0; i < w; i++ {
		if cl := c.peek(x+i, y); cl.glyph != 0 || cl.mask != 0 || cl.cont {
			return false
		}
	}
	return true
}

// path draws an orthogonal polyline through pts.
func (c *canvas) path(style LineStyle, pts ...point) {
	for i := 1; i < len(pts); i++ {
		c.segment(pts[i-1], pts[i], style)
	}
}

func (c *canvas) segment(a, b point, style LineStyle) {
	dx, dy := sign(b.x-a.x), sign(b.y-a.y)
	if dx == 0 && dy == 0 {
		return
	}
	fwd, rev := dirBit(dx, dy), dirBit(-dx, -dy)
	for p := a; ; p = (point{p.x + dx, p.y + dy}) {
		var bits uint8
		if p != b {
			bits |= fwd
		}
		if p != a {
			bits |= rev
		}
		if cl := c.at(p.x, p.y); cl != nil {
			cl.mask |= bits
			cl.style = style
		}
		if p == b {
			return
		}
	}
}

func (c *canvas) lines() []string {
	out := make([]string, len(c.rows))
	for y, row := range c.rows {
		var b strings.Builder
		for _, cl := range row {
			switch {
			case cl.cont:
			case cl.glyph != 0:
				b.WriteRune(cl.glyph)
			case cl.mask != 0:
				b.WriteRune(maskRune(cl.mask, cl.style))
			default:
				b.WriteByte(' ')
			}
		}
		out[y] = strings.TrimRight(b.String(), " ")
	}
	return out
}

func maskRune(m uint8, style LineStyle) rune {
	const (
		v = bitUp | bitDown
		h = bitLeft | bitRight
	)
	switch {
	case m&h == 0:
		return [...]rune{'│', '┆', '┃'}[style]
	case m&v == 0:
		return [...]rune{'─', '┄', '━'}[style]
	}
	switch m {
	case bitDown | bitRight:
		return '┌'
	case bitDown | bitLeft:
		return '┐'
	case bitUp | bitRight:
		return '└'
	case bitUp | bitLeft:
		return '┘'
	case v | bitRight:
		return '├'
	case v | bitLeft:
		return '┤'
	case h | bitDown:
		return '┬'
	case h | bitUp:
		return '┴'
	default:
		return '┼'
	}
}

func dirBit(dx, dy int) uint8 {
	switch {
	case dy < 0:
		return bitUp
	case dy > 0:
		return bitDown
	case dx < 0:
		return bitLeft
	default:
		return bitRight
	}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}
