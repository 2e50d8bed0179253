// Package curriculum holds the chapter → topic taxonomy and the sidebar
// navigation state derived from it.
package curriculum

// Chapter is a named, ordered group of topics.
type Chapter struct {
	Title  string   `yaml:"title" validate:"required"`
	Topics []string `yaml:"topics" validate:"required,min=1,dive,required"`
}

// Curriculum is the read-only ordered list of chapters.
type Curriculum struct {
	Chapters []Chapter `yaml:"chapters" validate:"required,min=1,dive"`
}

// Default returns the built-in BNYS modern diagnostics curriculum.
func Default() Curriculum {
	return Curriculum{Chapters: []Chapter{
		{
			Title: "Simple Diagnostics",
			Topics: []string{
				"Introduction to Modern Diagnostics in BNYS",
				"Clinical Hematology & Blood Smears",
				"Urinalysis: Physical, Chemical, Microscopic",
				"Stool Examination for Parasites & Ova",
				"Biochemical Analysis (LFT, KFT)",
			},
		},
		{
			Title: "Complex Diagnostics",
			Topics: []string{
				"Microbiology & Serology Tests",
				"Hormonal Assays (Thyroid, etc.)",
				"Radiology: X-Ray & Ultrasound Principles",
				"Electrocardiography (ECG) Basics",
				"Spirometry & Pulmonary Function Tests",
				"Tumor Markers Overview",
				"Integrating Lab Findings with Naturopathic Diagnosis",
			},
		},
	}}
}

// ChapterOf returns the title of the first chapter listing topic.
func (c Curriculum) ChapterOf(topic string) (string, bool) {
	for _, ch := range c.Chapters {
		if ch.Contains(topic) {
			return ch.Title, true
		}
	}
	return "", false
}

// Known reports whether any chapter lists topic.
func (c Curriculum) Known(topic string) bool {
	_, ok := c.ChapterOf(topic)
	return ok
}

// Topics returns every topic in curriculum order.
func (c Curriculum) Topics() []string {
	var out []string
	for _, ch := range c.Chapters {
		out = append(out, ch.Topics...)
	}
	return out
}

// Contains reports whether the chapter lists topic.
func (ch Chapter) Contains(topic string) bool {
	for _, t := range ch.Topics {
		if t == topic {
			return true
		}
	}
	return false
}
