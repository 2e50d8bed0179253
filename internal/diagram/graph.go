// Package diagram draws a flowchart subset of the mermaid language as
// terminal box-drawing graphics.
package diagram

import (
	"errors"
	"fmt"
)

// Direction is the flow direction of a chart.
type Direction string

const (
	TopDown   Direction = "TD"
	BottomUp  Direction = "BT"
	LeftRight Direction = "LR"
	RightLeft Direction = "RL"
)

func (d Direction) vertical() bool { return d == TopDown || d == BottomUp }

// Shape is the outline of a node.
type Shape int

const (
	ShapeRect Shape = iota
	ShapeRound
	ShapeStadium
	ShapeCircle
	ShapeDiamond
)

// LineStyle is the stroke of an edge.
type LineStyle int

const (
	LineSolid LineStyle = iota
	LineDotted
	LineThick
)

type Node struct {
	ID    string
	Label string
	Shape Shape

	labeled bool
}

type Edge struct {
	From  string
	To    string
	Label string
	Style LineStyle
	Arrow bool
}

// Graph is a parsed flowchart. Nodes keep the order of first appearance.
type Graph struct {
	Direction Direction
	Nodes     []*Node
	Edges     []Edge

	byID map[string]*Node
}

func newGraph(dir Direction) *Graph {
	return &Graph{Direction: dir, byID: make(map[string]*Node)}
}

// Node returns the node with id, or nil.
func (g *Graph) Node(id string) *Node {
	return g.byID[id]
}

// declare records a node reference. The first explicit label wins; a bare
// reference never overwrites one.
func (g *Graph) declare(id, label string, shape Shape, explicit bool) {
	n, ok := g.byID[id]
	if !ok {
		n = &Node{ID: id, Label: id, Shape: ShapeRect}
		g.byID[id] = n
		g.Nodes = append(g.Nodes, n)
	}
	if explicit && !n.labeled {
		n.Label = label
		n.Shape = shape
		n.labeled = true
	}
}

// ParseError reports source the parser could not understand.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("diagram: line %d: %s", e.Line, e.Msg)
	}
	return "diagram: " + e.Msg
}

// ErrTooWide is returned when a drawing does not fit the requested width.
var ErrTooWide = errors.New("diagram: drawing wider than available width")
