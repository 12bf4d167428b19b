package textproc

import (
	"strings"
	"sync"

	"github.com/pemistahl/lingua-go"
)

// LanguageDetector identifies the language of a text. Best-effort only:
// implementations return "unknown" rather than an error.
type LanguageDetector interface {
	Detect(text string) string
}

// linguaDetector wraps the lingua detector behind lazy construction —
// building the language models is expensive and most callers only ever
// need it once per process.
type linguaDetector struct {
	once     sync.Once
	detector lingua.LanguageDetector
}

var defaultDetector = &linguaDetector{}

// detectionLanguages is the set the detector discriminates between. The
// corpus is advice text in English plus the major languages transcripts
// arrive in.
var detectionLanguages = []lingua.Language{
	lingua.English,
	lingua.Hindi,
	lingua.Spanish,
	lingua.French,
	lingua.German,
	lingua.Portuguese,
}

func (d *linguaDetector) Detect(text string) string {
	d.once.Do(func() {
		d.detector = lingua.NewLanguageDetectorBuilder().
			FromLanguages(detectionLanguages...).
			Build()
	})
	language, ok := d.detector.DetectLanguageOf(text)
	if !ok {
		return "unknown"
	}
	return strings.ToLower(language.IsoCode639_1().String())
}
