// Package langdetect detects the language of short text snippets.
package langdetect

import (
	"strings"
	"sync"

	"github.com/pemistahl/lingua-go"
)

var (
	once     sync.Once
	detector lingua.LanguageDetector
)

// candidates covers the source languages this deployment expects to
// encounter: the feed's own language plus the target set.
var candidates = []lingua.Language{
	lingua.English,
	lingua.Hindi,
	lingua.Urdu,
	lingua.Telugu,
}

func get() lingua.LanguageDetector {
	once.Do(func() {
		detector = lingua.NewLanguageDetectorBuilder().
			FromLanguages(candidates...).
			Build()
	})
	return detector
}

// Detect returns the ISO 639-1 code and display name of the detected
// language, or ("auto", "Unknown") when detection is inconclusive.
func Detect(text string) (code, name string) {
	if strings.TrimSpace(text) == "" {
		return "auto", "Unknown"
	}

	lang, ok := get().DetectLanguageOf(text)
	if !ok {
		return "auto", "Unknown"
	}

	return strings.ToLower(lang.IsoCode639_1().String()), lang.String()
}
