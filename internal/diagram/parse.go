package diagram

import (
	"strings"
	"unicode"
)

// ignoredKeywords start statements that carry styling or grouping only.
var ignoredKeywords = map[string]bool{
	"classDef":  true,
	"class":     true,
	"style":     true,
	"click":     true,
	"linkStyle": true,
	"direction": true,
	"subgraph":  true,
	"end":       true,
	"accTitle":  true,
	"accDescr":  true,
}

// Parse reads a mermaid flowchart:
//
//	graph TD
//	  A[Collect sample] --> B{Visible blood?}
//	  B -->|yes| C([Microscopy])
//	  B -- no --> D
//
// Subgraphs are flattened and styling statements are skipped.
func Parse(src string) (*Graph, error) {
	var g *Graph
	for lineNo, raw := range strings.Split(src, "\n") {
		line := stripComment(raw)
		for _, stmt := range splitStatements(line) {
			stmt = strings.TrimSpace(stmt)
			if stmt == "" {
				continue
			}
			if g == nil {
				dir, err := parseHeader(stmt)
				if err != nil {
					err.Line = lineNo + 1
					return nil, err
				}
				g = newGraph(dir)
				continue
			}
			if err := parseStatement(g, stmt); err != nil {
				err.Line = lineNo + 1
				return nil, err
			}
		}
	}
	if g == nil {
		return nil, &ParseError{Msg: "empty diagram"}
	}
	if len(g.Nodes) == 0 {
		return nil, &ParseError{Msg: "diagram has no nodes"}
	}
	return g, nil
}

func stripComment(line string) string {
	if i := strings.Index(line, "%%"); i >= 0 {
		return line[:i]
	}
	return line
}

// splitStatements splits on semicolons outside labels.
func splitStatements(line string) []string {
	var out []string
	depth, start := 0, 0
	quoted := false
	for i, r := range line {
		switch {
		case r == '"':
			quoted = !quoted
		case quoted:
		case r == '[' || r == '(' || r == '{':
			depth++
		case r == ']' || r == ')' || r == '}':
			if depth > 0 {
				depth--
			}
		case r == ';' && depth == 0:
			out = append(out, line[start:i])
			start = i + 1
		}
	}
	return append(out, line[start:])
}

func parseHeader(stmt string) (Direction, *ParseError) {
	fields := strings.Fields(stmt)
	switch fields[0] {
	case "graph", "flowchart":
	default:
		return "", &ParseError{Msg: "unsupported diagram type " + quote(fields[0])}
	}
	if len(fields) == 1 {
		return TopDown, nil
	}
	if len(fields) > 2 {
		return "", &ParseError{Msg: "unexpected text after direction"}
	}
	switch strings.ToUpper(fields[1]) {
	case "TD", "TB":
		return TopDown, nil
	case "BT":
		return BottomUp, nil
	case "LR":
		return LeftRight, nil
	case "RL":
		return RightLeft, nil
	}
	return "", &ParseError{Msg: "unknown direction " + quote(fields[1])}
}

type nodeRef struct {
	id       string
	label    string
	shape    Shape
	explicit bool
}

type scanner struct {
	s   string
	pos int
}

func (sc *scanner) eof() bool { return sc.pos >= len(sc.s) }

func (sc *scanner) rest() string { return sc.s[sc.pos:] }

func (sc *scanner) skipSpace() {
	for sc.pos < len(sc.s) && (sc.s[sc.pos] == ' ' || sc.s[sc.pos] == '\t' || sc.s[sc.pos] == '\r') {
		sc.pos++
	}
}

func parseStatement(g *Graph, stmt string) *ParseError {
	if ignoredKeywords[strings.Fields(stmt)[0]] {
		return nil
	}

	sc := &scanner{s: stmt}
	left, err := sc.nodeGroup()
	if err != nil {
		return err
	}
	declareAll(g, left)

	for {
		sc.skipSpace()
		if sc.eof() {
			return nil
		}
		link, ok := sc.link()
		if !ok {
			return &ParseError{Msg: "expected a link near " + quote(sc.rest())}
		}
		right, err := sc.nodeGroup()
		if err != nil {
			return err
		}
		declareAll(g, right)
		for _, from := range left {
			for _, to := range right {
				e := link
				e.From, e.To = from.id, to.id
				g.Edges = append(g.Edges, e)
			}
		}
		left = right
	}
}

func declareAll(g *Graph, refs []nodeRef) {
	for _, r := range refs {
		g.declare(r.id, r.label, r.shape, r.explicit)
	}
}

// nodeGroup reads "A" or "A & B & C".
func (sc *scanner) nodeGroup() ([]nodeRef, *ParseError) {
	var refs []nodeRef
	for {
		ref, err := sc.node()
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
		sc.skipSpace()
		if !strings.HasPrefix(sc.rest(), "&") {
			return refs, nil
		}
		sc.pos++
	}
}

// shapeDelims maps opening delimiters to their closers, longest first.
var shapeDelims = []struct {
	open, close string
	shape       Shape
}{
	{"([", "])", ShapeStadium},
	{"((", "))", ShapeCircle},
	{"[[", "]]", ShapeRect},
	{"[(", ")]", ShapeRect},
	{"{{", "}}", ShapeDiamond},
	{"[", "]", ShapeRect},
	{"(", ")", ShapeRound},
	{"{", "}", ShapeDiamond},
	{">", "]", ShapeRect},
}

func (sc *scanner) node() (nodeRef, *ParseError) {
	sc.skipSpace()
	start := sc.pos
	for _, r := range sc.rest() {
		if !isIDRune(r) {
			break
		}
		sc.pos += len(string(r))
	}
	if sc.pos == start {
		return nodeRef{}, &ParseError{Msg: "expected a node id near " + quote(sc.rest())}
	}
	ref := nodeRef{id: sc.s[start:sc.pos], shape: ShapeRect}
	ref.label = ref.id

	for _, d := range shapeDelims {
		if !strings.HasPrefix(sc.rest(), d.open) {
			continue
		}
		body := sc.s[sc.pos+len(d.open):]
		end := closingIndex(body, d.close)
		if end < 0 {
			return nodeRef{}, &ParseError{Msg: "unclosed " + quote(d.open) + " in node " + quote(ref.id)}
		}
		ref.label = cleanLabel(body[:end])
		ref.shape = d.shape
		ref.explicit = true
		sc.pos += len(d.open) + end + len(d.close)
		break
	}

	// :::className
	if strings.HasPrefix(sc.rest(), ":::") {
		sc.pos += 3
		for sc.pos < len(sc.s) && isIDRune(rune(sc.s[sc.pos])) {
			sc.pos++
		}
	}
	return ref, nil
}

// closingIndex finds close in body, skipping over a quoted label.
func closingIndex(body, close string) int {
	trimmed := strings.TrimLeft(body, " ")
	if strings.HasPrefix(trimmed, `"`) {
		lead := len(body) - len(trimmed)
		if q := strings.Index(trimmed[1:], `"`); q >= 0 {
			after := lead + 1 + q + 1
			if i := strings.Index(body[after:], close); i >= 0 {
				return after + i
			}
			return -1
		}
	}
	return strings.Index(body, close)
}

func isIDRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

var labelReplacer = strings.NewReplacer(
	"<br/>", " ", "<br />", " ", "<br>", " ",
	"#quot;", `"`, "#amp;", "&", "#lt;", "<", "#gt;", ">",
	"`", "",
)

func cleanLabel(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	s = labelReplacer.Replace(s)
	// Decorative slashes of parallelogram and trapezoid shapes.
	s = strings.Trim(s, `/\`)
	return strings.Join(strings.Fields(s), " ")
}

// linkClosers end the text of a "-- text -->" style label.
var linkClosers = []string{"-->", "---", "==>", "===", ".->", ".-"}

// link reads an edge operator with an optional label.
func (sc *scanner) link() (Edge, bool) {
	rest := sc.rest()
	n := 0
	for n < len(rest) && strings.IndexByte("-.=", rest[n]) >= 0 {
		n++
	}
	if n < 2 {
		return Edge{}, false
	}
	tok := rest[:n]
	arrow := n < len(rest) && rest[n] == '>'
	if arrow {
		n++
	}

	e := Edge{Style: lineStyle(tok), Arrow: arrow}

	if !arrow && n == 2 {
		// Inline label: "-- text -->", "-. text .->", "== text ==>".
		body := rest[n:]
		at, closer := -1, ""
		for _, c := range linkClosers {
			if i := strings.Index(body, c); i >= 0 && (at < 0 || i < at) {
				at, closer = i, c
			}
		}
		if at < 0 {
			return Edge{}, false
		}
		e.Label = cleanLabel(body[:at])
		end := at + len(closer)
		for end < len(body) && strings.IndexByte("-.=", body[end]) >= 0 {
			end++
		}
		e.Arrow = strings.HasSuffix(closer, ">")
		if end < len(body) && body[end] == '>' {
			e.Arrow = true
			end++
		}
		sc.pos += n + end
	} else {
		sc.pos += n
	}

	sc.skipSpace()
	if strings.HasPrefix(sc.rest(), "|") {
		if i := strings.Index(sc.rest()[1:], "|"); i >= 0 {
			e.Label = cleanLabel(sc.rest()[1 : 1+i])
			sc.pos += i + 2
		}
	}
	return e, true
}

func lineStyle(tok string) LineStyle {
	switch {
	case strings.Contains(tok, "."):
		return LineDotted
	case strings.Contains(tok, "="):
		return LineThick
	default:
		return LineSolid
	}
}

func quote(s string) string {
	if len(s) > 20 {
		s = s[:20] + "..."
	}
	return `"` + s + `"`
}
