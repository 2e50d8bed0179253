package formatter

import (
	"strings"

	"github.com/alexanderramin/studyguide/internal/render"
)

// FormatGuide prints a rendered guide under its topic title.
func FormatGuide(topic string, page *render.Page) string {
	var b strings.Builder
	b.WriteString(Header(topic))
	b.WriteString("\n\n")
	b.WriteString(page.String())
	b.WriteString("\n")
	return b.String()
}

// FormatDefinition boxes a rendered definition under the term.
func FormatDefinition(term, rendered string) string {
	return RenderBox("Definition: "+term, strings.TrimSpace(rendered)) + "\n"
}
