// Package textproc implements the deterministic cleaning pipeline for raw
// advice text and the originality check that certifies cleaning did not
// alter meaning. Cleaning only ever subtracts: URLs, handles, markup and
// stray characters go away, vocabulary never gets added.
package textproc

import (
	"crypto/md5"
	"encoding/hex"
	"math"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/Mayankojhaa/AI-BABA-PROJECT/pkg/observability/metrics"
)

// ChangeTag labels a pipeline stage that altered the text.
type ChangeTag string

const (
	ChangeEmptyText         ChangeTag = "empty_text"
	ChangeEncodingFixed     ChangeTag = "encoding_fixed"
	ChangeWhitespace        ChangeTag = "whitespace_normalized"
	ChangePatternsRemoved   ChangeTag = "unwanted_patterns_removed"
	ChangeSpecialCharsClean ChangeTag = "special_characters_cleaned"
)

// Statistics summarizes the size effect of a cleaning run.
type Statistics struct {
	OriginalLength   int     `json:"original_length"`
	CleanedLength    int     `json:"cleaned_length"`
	ReductionPercent float64 `json:"reduction_percentage"`
}

// Result is the full audit record of one cleaning run.
type Result struct {
	CleanedText    string            `json:"cleaned_text"`
	OriginalText   string            `json:"original_text"`
	OriginalHash   string            `json:"original_hash"`
	Language       string            `json:"language"`
	Changes        []ChangeTag       `json:"changes_made"`
	PreservedTerms map[string]string `json:"preserved_terms"`
	Stats          Statistics        `json:"statistics"`
	IsValid        bool              `json:"is_valid"`
}

// spiritualTerms is the fixed vocabulary whose original spelling must be
// recorded before any character stripping can touch it.
var spiritualTerms = []string{
	"osho", "buddha", "sadhguru", "meditation", "karma", "dharma",
	"enlightenment", "consciousness", "awareness", "mindfulness",
	"spirituality", "moksha", "nirvana", "brahman", "atman",
	"yoga", "pranayama", "chakra", "kundalini", "mantra",
}

// encodingFixes maps mis-decoded UTF-8 byte sequences to the characters
// they originally were. Applied in order.
var encodingFixes = []struct{ bad, good string }{
	{"â€™", "'"},   // smart apostrophe
	{"â€œ", `"`},   // left smart quote
	{"â€", `"`},   // right smart quote
	{"â€¦", "..."}, // ellipsis
	{"â€”", "—"},   // em dash
	{"â€“", "–"},   // en dash
	{"Ã¡", "á"},
	{"Ã©", "é"},
	{"Ã­", "í"},
	{"Ã³", "ó"},
	{"Ãº", "ú"},
}

var (
	spaceRuns     = regexp.MustCompile(` +`)
	newlineRuns   = regexp.MustCompile(`\n\s*\n\s*\n+`)
	unwantedSpans = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(?:https?://|www\.)\S+`), // URLs
		regexp.MustCompile(`(?i)\b\w+@\w+\.\w+\b`),         // email addresses
		regexp.MustCompile(`\b\d{10,}\b`),                  // long digit runs (phone/ID)
		regexp.MustCompile(`#\w+`),                         // hashtags
		regexp.MustCompile(`@\w+`),                         // mentions
		regexp.MustCompile(`\[.*?\]`),                      // bracketed spans
		regexp.MustCompile(`<.*?>`),                        // tag-delimited spans
		regexp.MustCompile(`\{.*?\}`),                      // braced spans
	}
	disallowedChars = regexp.MustCompile(`[^\p{L}\p{N}_\s.,!?;:()\-'"]+`)
	dotRuns         = regexp.MustCompile(`\.{3,}`)
	bangRuns        = regexp.MustCompile(`!{2,}`)
	questionRuns    = regexp.MustCompile(`\?{2,}`)

	termPatterns = compileTermPatterns()
)

func compileTermPatterns() map[string]*regexp.Regexp {
	patterns := make(map[string]*regexp.Regexp, len(spiritualTerms))
	for _, term := range spiritualTerms {
		patterns[term] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(term) + `\b`)
	}
	return patterns
}

// Normalizer runs the cleaning pipeline. The zero value is not usable;
// construct with NewNormalizer so the language detector is wired in.
type Normalizer struct {
	detector LanguageDetector
}

// NewNormalizer returns a Normalizer backed by the default lazily-built
// language detector.
func NewNormalizer() *Normalizer {
	return &Normalizer{detector: defaultDetector}
}

// NewNormalizerWithDetector allows tests to substitute the detector.
func NewNormalizerWithDetector(d LanguageDetector) *Normalizer {
	return &Normalizer{detector: d}
}

// Normalize cleans raw text through the fixed stage sequence and returns
// the audit record. It never fails: empty or whitespace-only input yields
// IsValid=false with the empty_text tag.
func (n *Normalizer) Normalize(raw string) Result {
	result := Result{
		OriginalText:   raw,
		OriginalHash:   hashText(raw),
		Language:       "unknown",
		PreservedTerms: map[string]string{},
	}

	if strings.TrimSpace(raw) == "" {
		result.Changes = []ChangeTag{ChangeEmptyText}
		metrics.NormalizationsTotal.WithLabelValues("false").Inc()
		return result
	}

	result.Language = n.detector.Detect(raw)
	result.PreservedTerms = preserveSpiritualTerms(raw)

	text := raw

	// Encoding repair has to run before pattern stripping so mojibake
	// punctuation does not survive inside otherwise strippable spans.
	before := text
	text = fixEncoding(text)
	if text != before {
		result.Changes = append(result.Changes, ChangeEncodingFixed)
	}

	text = normalizeWhitespace(text)
	result.Changes = append(result.Changes, ChangeWhitespace)

	before = text
	text = stripUnwantedPatterns(text)
	if text != before {
		result.Changes = append(result.Changes, ChangePatternsRemoved)
	}

	before = text
	text = cleanSpecialCharacters(text)
	if text != before {
		result.Changes = append(result.Changes, ChangeSpecialCharsClean)
	}

	text = normalizeWhitespace(text)

	result.CleanedText = text
	result.IsValid = strings.TrimSpace(text) != ""
	result.Stats = Statistics{
		OriginalLength:   len(raw),
		CleanedLength:    len(text),
		ReductionPercent: reductionPercent(len(raw), len(text)),
	}

	metrics.NormalizationsTotal.WithLabelValues(boolLabel(result.IsValid)).Inc()
	return result
}

// NormalizeBatch cleans several texts in order, tagging each result with
// its batch index via the returned slice position.
func (n *Normalizer) NormalizeBatch(texts []string) []Result {
	results := make([]Result, len(texts))
	for i, text := range texts {
		results[i] = n.Normalize(text)
	}
	return results
}

func hashText(text string) string {
	sum := md5.Sum([]byte(text))
	return hex.EncodeToString(sum[:])
}

// preserveSpiritualTerms snapshots the first original-case occurrence of
// each fixed-vocabulary term before any mutation happens.
func preserveSpiritualTerms(text string) map[string]string {
	preserved := map[string]string{}
	for term, pattern := range termPatterns {
		if match := pattern.FindString(text); match != "" {
			preserved[term] = match
		}
	}
	return preserved
}

func fixEncoding(text string) string {
	// NFC rather than NFKC: compatibility folding would rewrite the
	// mojibake sequences below before the table could repair them.
	text = norm.NFC.String(text)
	for _, fix := range encodingFixes {
		text = strings.ReplaceAll(text, fix.bad, fix.good)
	}
	return text
}

// normalizeWhitespace collapses space runs, reduces 3+ newlines to a
// paragraph break and turns lone newlines into spaces. Idempotent.
func normalizeWhitespace(text string) string {
	text = spaceRuns.ReplaceAllString(text, " ")
	text = newlineRuns.ReplaceAllString(text, "\n\n")
	text = collapseLoneNewlines(text)
	return strings.TrimSpace(text)
}

// collapseLoneNewlines replaces each newline not adjacent to another
// newline with a single space, keeping "\n\n" paragraph breaks intact.
func collapseLoneNewlines(text string) string {
	runes := []rune(text)
	var b strings.Builder
	b.Grow(len(text))
	for i, r := range runes {
		if r == '\n' {
			prevNL := i > 0 && runes[i-1] == '\n'
			nextNL := i+1 < len(runes) && runes[i+1] == '\n'
			if !prevNL && !nextNL {
				b.WriteRune(' ')
				continue
			}
		}
		b.WriteRune(r)
	}
	return b.String()
}

// stripUnwantedPatterns removes noise spans, substituting a single space
// so adjacent words never collide.
func stripUnwantedPatterns(text string) string {
	for _, pattern := range unwantedSpans {
		text = pattern.ReplaceAllString(text, " ")
	}
	return text
}

func cleanSpecialCharacters(text string) string {
	text = disallowedChars.ReplaceAllString(text, " ")
	text = dotRuns.ReplaceAllString(text, "...")
	text = bangRuns.ReplaceAllString(text, "!")
	text = questionRuns.ReplaceAllString(text, "?")
	return text
}

func reductionPercent(originalLen, cleanedLen int) float64 {
	if originalLen == 0 {
		return 0
	}
	pct := (1 - float64(cleanedLen)/float64(originalLen)) * 100
	return math.Round(pct*100) / 100
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
