package classification

import (
	"context"

	"github.com/Mayankojhaa/AI-BABA-PROJECT/pkg/taxonomy"
)

// keywordThreshold is the minimum keyword match count for a category to
// appear in the signal at all.
const keywordThreshold = 1

// keywordScaleMax is the match count treated as full confidence.
const keywordScaleMax = 10.0

// KeywordExtractor scores categories by counting taxonomy keywords in the
// text. Fully deterministic and always available.
type KeywordExtractor struct{}

func NewKeywordExtractor() *KeywordExtractor {
	return &KeywordExtractor{}
}

func (e *KeywordExtractor) Method() string { return MethodKeyword }

// Extract returns up to topK categories ordered by raw keyword count.
// Confidence is the count scaled against keywordScaleMax and capped at 1.
func (e *KeywordExtractor) Extract(_ context.Context, text string, topK int) []Signal {
	scores := taxonomy.MatchKeywords(text, keywordThreshold)
	if len(scores) > topK {
		scores = scores[:topK]
	}

	signals := make([]Signal, 0, len(scores))
	for _, s := range scores {
		confidence := float64(s.Count) / keywordScaleMax
		if confidence > 1.0 {
			confidence = 1.0
		}
		signals = append(signals, Signal{
			Label:      s.Category,
			Confidence: confidence,
			Method:     MethodKeyword,
		})
	}
	return signals
}
