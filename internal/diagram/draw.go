package diagram

import (
	"fmt"

	"github.com/mattn/go-runewidth"
)

const (
	boxHeight  = 3
	nodeGapX   = 3 // columns between boxes in a vertical chart
	nodeGapY   = 1 // rows between boxes in a horizontal chart
	layerGapY  = 4 // stem, junction, label and arrow rows
	minLayerGX = 6
)

// Engine lays out and draws flowcharts.
type Engine struct {
	// MaxLabelWidth truncates node labels; zero means no limit.
	MaxLabelWidth int
}

func NewEngine() Engine {
	return Engine{MaxLabelWidth: 24}
}

// Render parses src and draws it. The drawing never exceeds width columns
// when width is positive; ErrTooWide is returned instead.
func (e Engine) Render(src string, width int) ([]string, error) {
	g, err := Parse(src)
	if err != nil {
		return nil, err
	}
	return e.Draw(g, width)
}

type box struct {
	x, y, w, h int
	label      string
	shape      Shape
}

func (b box) cx() int { return b.x + b.w/2 }
func (b box) cy() int { return b.y + b.h/2 }

type drawer struct {
	g      *Graph
	lay    *layout
	c      *canvas
	boxes  map[string]box
	colX   []int
	colW   []int
	labels []Edge
	notes  []string
}

// Draw renders a parsed graph.
func (e Engine) Draw(g *Graph, width int) ([]string, error) {
	d := &drawer{
		g:     g,
		lay:   newLayout(g),
		c:     &canvas{},
		boxes: make(map[string]box),
	}
	for _, n := range g.Nodes {
		label := n.Label
		if e.MaxLabelWidth > 0 {
			label = runewidth.Truncate(label, e.MaxLabelWidth, "…")
		}
		d.boxes[n.ID] = box{w: runewidth.StringWidth(label) + 4, h: boxHeight, label: label, shape: n.Shape}
	}

	if g.Direction.vertical() {
		d.placeVertical()
	} else {
		d.placeHorizontal()
	}
	for _, b := range d.boxes {
		d.drawBox(b)
	}
	for _, edge := range d.lay.drawn {
		if g.Direction.vertical() {
			d.routeVertical(edge)
		} else {
			d.routeHorizontal(edge)
		}
	}
	d.placeLabels()
	for _, edge := range d.lay.listed {
		d.note(edge, edge.Label)
	}

	lines := d.c.lines()
	if len(d.notes) > 0 {
		lines = append(lines, "")
		lines = append(lines, d.notes...)
	}
	if width > 0 {
		for _, l := range lines {
			if runewidth.StringWidth(l) > width {
				return nil, fmt.Errorf("%w: need %d, have %d", ErrTooWide, runewidth.StringWidth(l), width)
			}
		}
	}
	return lines, nil
}

func (d *drawer) placeVertical() {
	layers := d.lay.layers
	widths := make([]int, len(layers))
	total := 0
	for i, layer := range layers {
		for j, n := range layer {
			if j > 0 {
				widths[i] += nodeGapX
			}
			widths[i] += d.boxes[n.ID].w
		}
		total = max(total, widths[i])
	}
	for i, layer := range layers {
		row := i
		if d.g.Direction == BottomUp {
			row = len(layers) - 1 - i
		}
		x := (total - widths[i]) / 2
		y := row * (boxHeight + layerGapY)
		for _, n := range layer {
			b := d.boxes[n.ID]
			b.x, b.y = x, y
			d.boxes[n.ID] = b
			x += b.w + nodeGapX
		}
	}
}

func (d *drawer) placeHorizontal() {
	layers := d.lay.layers
	n := len(layers)
	d.colW = make([]int, n)
	d.colX = make([]int, n)
	heights := make([]int, n)
	total := 0
	for i, layer := range layers {
		for j, node := range layer {
			if j > 0 {
				heights[i] += nodeGapY
			}
			heights[i] += boxHeight
			d.colW[i] = max(d.colW[i], d.boxes[node.ID].w)
		}
		total = max(total, heights[i])
	}

	// gaps[i] separates layer i from layer i+1 and fits their edge labels.
	gaps := make([]int, max(n-1, 0))
	for i := range gaps {
		gaps[i] = minLayerGX
	}
	for _, e := range d.lay.drawn {
		if e.Label == "" {
			continue
		}
		i := d.lay.rank[e.From]
		gaps[i] = max(gaps[i], runewidth.StringWidth(e.Label)+minLayerGX)
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
		if d.g.Direction == RightLeft {
			order[i] = n - 1 - i
		}
	}
	x := 0
	for p, i := range order {
		d.colX[i] = x
		x += d.colW[i]
		if p < n-1 {
			x += gaps[min(i, order[p+1])]
		}
	}

	for i, layer := range layers {
		y := (total - heights[i]) / 2
		for _, node := range layer {
			b := d.boxes[node.ID]
			b.x, b.y = d.colX[i]+(d.colW[i]-b.w)/2, y
			d.boxes[node.ID] = b
			y += boxHeight + nodeGapY
		}
	}
}

type outline struct {
	tl, tr, bl, br rune
	left, right    rune
}

var outlines = map[Shape]outline{
	ShapeRect:    {'┌', '┐', '└', '┘', '│', '│'},
	ShapeRound:   {'╭', '╮', '╰', '╯', '│', '│'},
	ShapeStadium: {'╭', '╮', '╰', '╯', '(', ')'},
	ShapeCircle:  {'╭', '╮', '╰', '╯', '(', ')'},
	ShapeDiamond: {'╱', '╲', '╲', '╱', '<', '>'},
}

func (d *drawer) drawBox(b box) {
	o := outlines[b.shape]
	right, bottom := b.x+b.w-1, b.y+b.h-1
	for x := b.x + 1; x < right; x++ {
		d.c.glyph(x, b.y, '─')
		d.c.glyph(x, bottom, '─')
	}
	d.c.glyph(b.x, b.y, o.tl)
	d.c.glyph(right, b.y, o.tr)
	d.c.glyph(b.x, bottom, o.bl)
	d.c.glyph(right, bottom, o.br)
	for y := b.y + 1; y < bottom; y++ {
		d.c.glyph(b.x, y, o.left)
		d.c.glyph(right, y, o.right)
		for x := b.x + 1; x < right; x++ {
			d.c.glyph(x, y, ' ')
		}
	}
	d.c.text(b.x+2, b.cy(), b.label)
}

// routeVertical joins a box to one in the next layer: a stem out of the
// source, a horizontal run on the junction row, and a drop into the target.
func (d *drawer) routeVertical(e Edge) {
	src, dst := d.boxes[e.From], d.boxes[e.To]
	sx, tx := src.cx(), dst.cx()

	if d.g.Direction == TopDown {
		stem := src.y + src.h
		d.c.glyph(sx, stem-1, '┬')
		ay := dst.y - 1
		d.c.path(e.Style, point{sx, stem}, point{sx, stem + 1}, point{tx, stem + 1}, point{tx, ay})
		if e.Arrow {
			d.c.glyph(tx, ay, '▼')
		}
	} else {
		stem := src.y - 1
		d.c.glyph(sx, src.y, '┴')
		ay := dst.y + dst.h
		d.c.path(e.Style, point{sx, stem}, point{sx, stem - 1}, point{tx, stem - 1}, point{tx, ay})
		if e.Arrow {
			d.c.glyph(tx, ay, '▲')
		}
	}
	if e.Label != "" {
		d.labels = append(d.labels, e)
	}
}

// routeHorizontal is routeVertical turned on its side. The junction column
// sits one cell into the gap on the source side.
func (d *drawer) routeHorizontal(e Edge) {
	src, dst := d.boxes[e.From], d.boxes[e.To]
	sy, ty := src.cy(), dst.cy()
	layer := d.lay.rank[e.From]

	if d.g.Direction == LeftRight {
		right := src.x + src.w - 1
		d.c.glyph(right, sy, '├')
		jx := d.colX[layer] + d.colW[layer] + 1
		ax := dst.x - 1
		d.c.path(e.Style, point{right + 1, sy}, point{jx, sy}, point{jx, ty}, point{ax, ty})
		if e.Arrow {
			d.c.glyph(ax, ty, '▶')
		}
	} else {
		d.c.glyph(src.x, sy, '┤')
		jx := d.colX[layer] - 2
		ax := dst.x + dst.w
		d.c.path(e.Style, point{src.x - 1, sy}, point{jx, sy}, point{jx, ty}, point{ax, ty})
		if e.Arrow {
			d.c.glyph(ax, ty, '◀')
		}
	}
	if e.Label != "" {
		d.labels = append(d.labels, e)
	}
}

// placeLabels writes edge labels next to the target end of their
// connector once every line is down. A label with no free spot becomes a
// note.
func (d *drawer) placeLabels() {
	for _, e := range d.labels {
		src, dst := d.boxes[e.From], d.boxes[e.To]
		w := runewidth.StringWidth(e.Label)

		var spots []point
		switch d.g.Direction {
		case TopDown:
			row := src.y + src.h + 2
			spots = []point{{dst.cx() + 2, row}, {dst.cx() - 1 - w, row}}
		case BottomUp:
			row := src.y - 3
			spots = []point{{dst.cx() + 2, row}, {dst.cx() - 1 - w, row}}
		case LeftRight:
			x := d.colX[d.lay.rank[e.From]] + d.colW[d.lay.rank[e.From]] + 3
			spots = []point{{x, dst.cy() - 1}, {x, dst.cy() + 1}}
		case RightLeft:
			x := d.colX[d.lay.rank[e.From]] - 3 - w
			spots = []point{{x, dst.cy() - 1}, {x, dst.cy() + 1}}
		}

		placed := false
		for _, p := range spots {
			if d.c.free(p.x, p.y, w) {
				d.c.text(p.x, p.y, e.Label)
				placed = true
				break
			}
		}
		if !placed {
			d.note(e, e.Label)
		}
	}
}

func (d *drawer) note(e Edge, label string) {
	from, to := d.g.Node(e.From).Label, d.g.Node(e.To).Label
	arrow := "→"
	if !e.Arrow {
		arrow = "—"
	}
	line := fmt.Sprintf("  ↳ %s %s %s", from, arrow, to)
	if label != "" {
		line += ": " + label
	}
	d.notes = append(d.notes, line)
}
