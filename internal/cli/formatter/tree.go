package formatter

import (
	"strings"

	"github.com/alexanderramin/studyguide/internal/curriculum"
)

const (
	treeBranch = "├─ "
	treeCorner = "└─ "
)

// FormatCurriculum renders chapters and their topics as a tree. The
// selected topic, if any, gets a green ● marker.
func FormatCurriculum(c curriculum.Curriculum, selected string) string {
	var b strings.Builder
	for i, ch := range c.Chapters {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(StyleHeader.Render(ch.Title) + "\n")
		for j, topic := range ch.Topics {
			prefix := treeBranch
			if j == len(ch.Topics)-1 {
				prefix = treeCorner
			}
			if topic == selected {
				b.WriteString(StyleDim.Render(prefix) + StyleGreenBold.Render("● "+topic) + "\n")
				continue
			}
			b.WriteString(StyleDim.Render(prefix) + topic + "\n")
		}
	}
	return b.String()
}

// FormatValidation lists curriculum problems one per line.
func FormatValidation(errs []error) string {
	var b strings.Builder
	b.WriteString(StyleRed.Render("Curriculum is invalid:") + "\n")
	for _, e := range errs {
		b.WriteString(StyleRed.Render("  - ") + e.Error() + "\n")
	}
	return b.String()
}
