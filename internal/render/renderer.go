package render

import "go.uber.org/zap"

// diagramIndent is the left margin Layout gives drawn diagrams.
const diagramIndent = 2

// Renderer lays out guides, drawing their diagrams first.
type Renderer struct {
	Engine DiagramEngine
	Theme  Theme
	logger *zap.Logger
}

func NewRenderer(engine DiagramEngine, logger *zap.Logger) *Renderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Renderer{Engine: engine, Theme: DefaultTheme(), logger: logger}
}

// Page runs the diagram pass for width and lays doc out.
func (r *Renderer) Page(doc *Document, width int) *Page {
	width = max(width, 8)
	if r.Engine != nil {
		drawn, failed := DiagramPass(doc, r.Engine, width-diagramIndent, r.logger)
		if drawn+failed > 0 {
			r.logger.Debug("diagrams drawn",
				zap.Int("drawn", drawn),
				zap.Int("failed", failed),
				zap.Int("width", width),
			)
		}
	}
	return Layout(doc, width, r.Theme)
}
