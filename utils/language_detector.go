package utils

import (
	"sync"

	"github.com/pemistahl/lingua-go"
)

// LinguaDetector builds its lingua detector on first use. Building from all
// languages is expensive, so one instance is shared read-only.
type LinguaDetector struct {
	once      sync.Once
	languages []lingua.Language
	detector  lingua.LanguageDetector
}

// NewLinguaDetector restricts detection to languages; none means all.
func NewLinguaDetector(languages ...lingua.Language) *LinguaDetector {
	return &LinguaDetector{languages: languages}
}

// DetectLanguage returns the language name, or "" when unsure.
func (d *LinguaDetector) DetectLanguage(text string) string {
	d.once.Do(func() {
		builder := lingua.NewLanguageDetectorBuilder()
		if len(d.languages) > 1 {
			d.detector = builder.FromLanguages(d.languages...).Build()
		} else {
			d.detector = builder.FromAllLanguages().Build()
		}
	})

	language, ok := d.detector.DetectLanguageOf(text)
	if !ok {
		return ""
	}
	return language.String()
}
