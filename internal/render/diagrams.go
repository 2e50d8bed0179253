package render

import "go.uber.org/zap"

// DiagramEngine draws mermaid source as text lines no wider than width.
type DiagramEngine interface {
	Render(src string, width int) ([]string, error)
}

// DiagramPass draws every diagram placeholder in doc at width. Placeholders
// already drawn at this width are left alone, so calling it again after an
// unrelated re-render costs nothing. A failing diagram keeps its source and
// the error; the rest of the document is unaffected.
func DiagramPass(doc *Document, engine DiagramEngine, width int, logger *zap.Logger) (drawn, failed int) {
	if logger == nil {
		logger = zap.NewNop()
	}
	for i, d := range doc.diagrams {
		if d.drawn && d.width == width {
			continue
		}
		lines, err := engine.Render(d.Source, width)
		d.width = width
		d.drawn = true
		if err != nil {
			d.Lines, d.Err = nil, err
			failed++
			logger.Warn("diagram not drawn",
				zap.Int("diagram", i),
				zap.Int("width", width),
				zap.Error(err),
			)
			continue
		}
		d.Lines, d.Err = lines, nil
		drawn++
	}
	return drawn, failed
}
