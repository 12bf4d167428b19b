package textproc

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

// maxAddedWordSample bounds the AddedWords evidence carried in a Report.
const maxAddedWordSample = 10

// Report is the advisory originality-preservation record for one cleaning
// run. It never gates the pipeline; callers surface it to the operator.
type Report struct {
	PreservedRatio float64  `json:"content_preservation_ratio"`
	WordsPreserved int      `json:"words_preserved"`
	WordsLost      int      `json:"words_lost"`
	WordsAdded     int      `json:"words_added"`
	AddedWords     []string `json:"added_words"`
	IsValid        bool     `json:"is_valid"`
}

// englishStopWords is the fixed stop-word set removed before comparing
// content vocabularies.
var englishStopWords = buildStopWordSet()

func buildStopWordSet() map[string]bool {
	words := []string{
		"a", "about", "above", "after", "again", "against", "all", "am", "an",
		"and", "any", "are", "aren", "as", "at", "be", "because", "been",
		"before", "being", "below", "between", "both", "but", "by", "can",
		"couldn", "d", "did", "didn", "do", "does", "doesn", "doing", "don",
		"down", "during", "each", "few", "for", "from", "further", "had",
		"hadn", "has", "hasn", "have", "haven", "having", "he", "her", "here",
		"hers", "herself", "him", "himself", "his", "how", "i", "if", "in",
		"into", "is", "isn", "it", "its", "itself", "just", "ll", "m", "ma",
		"me", "mightn", "more", "most", "mustn", "my", "myself", "needn",
		"no", "nor", "not", "now", "o", "of", "off", "on", "once", "only",
		"or", "other", "our", "ours", "ourselves", "out", "over", "own", "re",
		"s", "same", "shan", "she", "should", "shouldn", "so", "some", "such",
		"t", "than", "that", "the", "their", "theirs", "them", "themselves",
		"then", "there", "these", "they", "this", "those", "through", "to",
		"too", "under", "until", "up", "ve", "very", "was", "wasn", "we",
		"were", "weren", "what", "when", "where", "which", "while", "who",
		"whom", "why", "will", "with", "won", "wouldn", "y", "you", "your",
		"yours", "yourself", "yourselves",
	}
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}

// contentWords extracts the lowercase alphabetic word set of a text with
// stop words removed.
func contentWords(text string) map[string]bool {
	words := make(map[string]bool)
	var current strings.Builder
	flush := func() {
		if current.Len() == 0 {
			return
		}
		word := current.String()
		current.Reset()
		if !englishStopWords[word] {
			words[word] = true
		}
	}
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) {
			current.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()
	return words
}

// ValidateOriginality compares the content vocabularies of the original
// and cleaned texts. Cleaning may only subtract words: the report is
// invalid when more than 20% of the original vocabulary is gone or when
// any new word appears.
func ValidateOriginality(original, cleaned string) Report {
	origWords := contentWords(original)
	cleanWords := contentWords(cleaned)

	preserved := 0
	lost := 0
	for w := range origWords {
		if cleanWords[w] {
			preserved++
		} else {
			lost++
		}
	}

	var added []string
	for w := range cleanWords {
		if !origWords[w] {
			added = append(added, w)
		}
	}
	sort.Strings(added)
	addedCount := len(added)
	if len(added) > maxAddedWordSample {
		added = added[:maxAddedWordSample]
	}
	if added == nil {
		added = []string{}
	}

	ratio := 1.0
	if len(origWords) > 0 {
		ratio = float64(preserved) / float64(len(origWords))
	}
	ratio = math.Round(ratio*1000) / 1000

	return Report{
		PreservedRatio: ratio,
		WordsPreserved: preserved,
		WordsLost:      lost,
		WordsAdded:     addedCount,
		AddedWords:     added,
		IsValid:        ratio >= 0.8 && addedCount == 0,
	}
}
