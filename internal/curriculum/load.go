package curriculum

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ErrInvalid wraps every curriculum validation failure.
var ErrInvalid = errors.New("invalid curriculum")

var validate = validator.New(validator.WithRequiredStructEnabled())

// LoadFile reads a YAML curriculum:
//
//	chapters:
//	  - title: Simple Diagnostics
//	    topics: [Urinalysis]
func LoadFile(path string) (Curriculum, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Curriculum{}, fmt.Errorf("reading curriculum: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML curriculum document.
func Parse(data []byte) (Curriculum, error) {
	var c Curriculum
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Curriculum{}, fmt.Errorf("parsing curriculum YAML: %w", err)
	}
	if errs := Validate(c); len(errs) > 0 {
		return Curriculum{}, fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return c, nil
}

// Validate returns every problem found in c: missing titles, chapters
// without topics, blank topics and duplicate chapter titles.
func Validate(c Curriculum) []error {
	var errs []error

	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return []error{err}
		}
		for _, fe := range verrs {
			errs = append(errs, fmt.Errorf("%s: failed %q", fieldPath(fe), fe.Tag()))
		}
	}

	seen := make(map[string]int)
	for i, ch := range c.Chapters {
		if ch.Title == "" {
			continue
		}
		if first, dup := seen[ch.Title]; dup {
			errs = append(errs, fmt.Errorf("chapters[%d]: duplicate title %q (first at chapters[%d])", i, ch.Title, first))
			continue
		}
		seen[ch.Title] = i
	}
	return errs
}

// fieldPath turns "Curriculum.Chapters[0].Title" into "chapters[0].title".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := len("Curriculum."); len(ns) > i && ns[:i] == "Curriculum." {
		ns = ns[i:]
	}
	out := make([]byte, 0, len(ns))
	lower := true
	for j := 0; j < len(ns); j++ {
		b := ns[j]
		if lower && b >= 'A' && b <= 'Z' {
			b += 'a' - 'A'
		}
		lower = b == '.'
		out = append(out, b)
	}
	return string(out)
}
