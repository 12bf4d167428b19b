package textproc

import (
	"math"
	"strings"
	"unicode"
)

// minSentenceLength filters out fragments when splitting into sentences.
const minSentenceLength = 10

// Sentences splits text on sentence-ending punctuation, dropping
// fragments shorter than minSentenceLength characters.
func Sentences(text string) []string {
	var sentences []string
	var current strings.Builder
	runes := []rune(text)
	for i, r := range runes {
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			// Swallow trailing punctuation runs ("...", "?!").
			if i+1 < len(runes) {
				next := runes[i+1]
				if next == '.' || next == '!' || next == '?' {
					continue
				}
			}
			if s := strings.TrimSpace(current.String()); len(s) > minSentenceLength {
				sentences = append(sentences, s)
			}
			current.Reset()
		}
	}
	if s := strings.TrimSpace(current.String()); len(s) > minSentenceLength {
		sentences = append(sentences, s)
	}
	return sentences
}

// TextStats summarizes a text for operator display.
type TextStats struct {
	CharacterCount        int     `json:"character_count"`
	WordCount             int     `json:"word_count"`
	SentenceCount         int     `json:"sentence_count"`
	AverageSentenceLength float64 `json:"average_sentence_length"`
	Language              string  `json:"language"`
	HasSpiritualTerms     bool    `json:"has_spiritual_terms"`
}

// Stats computes display statistics for a text.
func (n *Normalizer) Stats(text string) TextStats {
	sentences := Sentences(text)
	wordCount := countWords(text)

	avg := 0.0
	if len(sentences) > 0 {
		avg = math.Round(float64(wordCount)/float64(len(sentences))*100) / 100
	}

	return TextStats{
		CharacterCount:        len(text),
		WordCount:             wordCount,
		SentenceCount:         len(sentences),
		AverageSentenceLength: avg,
		Language:              n.detector.Detect(text),
		HasSpiritualTerms:     len(preserveSpiritualTerms(text)) > 0,
	}
}

func countWords(text string) int {
	count := 0
	inWord := false
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if !inWord {
				count++
				inWord = true
			}
		} else {
			inWord = false
		}
	}
	return count
}

// Duplicate identifies an exact duplicate discovered in a batch.
type Duplicate struct {
	OriginalIndex  int     `json:"original_index"`
	DuplicateIndex int     `json:"duplicate_index"`
	Similarity     float64 `json:"similarity"`
}

// DetectDuplicates finds exact duplicates in a batch of texts by hashing
// the trimmed, lowercased content.
func DetectDuplicates(texts []string) []Duplicate {
	var duplicates []Duplicate
	seen := make(map[string]int, len(texts))
	for i, text := range texts {
		key := hashText(strings.ToLower(strings.TrimSpace(text)))
		if first, ok := seen[key]; ok {
			duplicates = append(duplicates, Duplicate{
				OriginalIndex:  first,
				DuplicateIndex: i,
				Similarity:     1.0,
			})
		} else {
			seen[key] = i
		}
	}
	return duplicates
}
