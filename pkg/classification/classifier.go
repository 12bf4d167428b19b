package classification

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Mayankojhaa/AI-BABA-PROJECT/pkg/observability/logging"
	"github.com/Mayankojhaa/AI-BABA-PROJECT/pkg/observability/metrics"
	"github.com/Mayankojhaa/AI-BABA-PROJECT/pkg/taxonomy"
)

// SignalExtractor is the common contract of the three signal sources.
// Implementations degrade to an empty list on internal failure, never an
// error: the ensemble's fallback path absorbs total signal absence.
type SignalExtractor interface {
	Extract(ctx context.Context, text string, topK int) []Signal
	Method() string
}

// topKPerMethod is how many candidates each extractor contributes.
const topKPerMethod = 3

// subcategoryTopK is how many subcategories are resolved for the winner.
const subcategoryTopK = 2

// Classifier merges the three signal extractors into one category
// decision with a subcategory resolution pass and a full audit trail.
type Classifier struct {
	weights   Weights
	keyword   SignalExtractor
	embedding SignalExtractor
	zeroShot  SignalExtractor

	// embeddingExtractor is retained beyond the SignalExtractor interface
	// for the subcategory-scoped query path.
	embeddingExtractor *EmbeddingExtractor
	registry           *ModelRegistry
}

// NewClassifier wires the default extractors over the given registry.
func NewClassifier(registry *ModelRegistry, weights Weights) *Classifier {
	emb := NewEmbeddingExtractor(registry)
	return &Classifier{
		weights:            weights,
		keyword:            NewKeywordExtractor(),
		embedding:          emb,
		zeroShot:           NewZeroShotExtractor(registry),
		embeddingExtractor: emb,
		registry:           registry,
	}
}

// Classify runs all three extractors, aggregates their signals with the
// fixed weights and resolves subcategories within the winning category.
//
// Tie-break: when two categories accumulate exactly equal scores, the
// alphabetically smaller name wins. Accumulation order must not leak
// into the decision.
func (c *Classifier) Classify(ctx context.Context, text string) Result {
	start := time.Now()
	defer func() {
		metrics.ClassificationDuration.Observe(time.Since(start).Seconds())
	}()

	zeroShotResults := c.zeroShot.Extract(ctx, text, topKPerMethod)
	embeddingResults := c.embedding.Extract(ctx, text, topKPerMethod)
	keywordResults := c.keyword.Extract(ctx, text, topKPerMethod)

	meta := Metadata{
		ZeroShotResults:  truncateSignals(zeroShotResults, 2),
		EmbeddingResults: truncateSignals(embeddingResults, 2),
		KeywordResults:   truncateSignals(keywordResults, 2),
		RequestID:        uuid.NewString(),
	}
	if _, name, ok := c.registry.Embedding(ctx); ok {
		meta.EmbeddingModel = name
	}
	if _, name, ok := c.registry.ZeroShot(ctx); ok {
		meta.ZeroShotModel = name
	}

	scores := map[string]float64{}
	aggregate := func(signals []Signal, weight float64) {
		for _, s := range signals {
			scores[s.Label] += s.Confidence * weight
		}
	}
	aggregate(zeroShotResults, c.weights.ZeroShot)
	aggregate(embeddingResults, c.weights.Embedding)
	aggregate(keywordResults, c.weights.Keyword)

	if len(scores) == 0 {
		logging.Infof("No classification signals (request %s), using fallback category", meta.RequestID)
		metrics.ClassificationsTotal.WithLabelValues(taxonomy.DefaultCategory, "true").Inc()
		return Result{
			Category:      taxonomy.DefaultCategory,
			Confidence:    fallbackConfidence,
			Subcategories: []string{taxonomy.DefaultSubcategory},
			MethodsUsed:   []string{MethodFallback},
			AllScores:     []CategoryScore{},
			Metadata:      meta,
		}
	}

	ranked := rankScores(scores)
	winner := ranked[0]

	confidence := winner.Score
	if confidence > 1.0 {
		confidence = 1.0
	}

	subSignals := c.resolveSubcategories(ctx, text, winner.Category)
	meta.SubcategoryResults = subSignals

	var subcategories []string
	for _, s := range subSignals {
		subcategories = append(subcategories, s.Label)
	}
	if len(subcategories) == 0 {
		if declared := taxonomy.Subcategories(winner.Category); len(declared) > 0 {
			subcategories = []string{declared[0]}
		}
	}

	var methodsUsed []string
	for _, m := range []struct {
		name    string
		signals []Signal
	}{
		{MethodZeroShot, zeroShotResults},
		{MethodEmbedding, embeddingResults},
		{MethodKeyword, keywordResults},
	} {
		if len(m.signals) > 0 {
			methodsUsed = append(methodsUsed, m.name)
		}
	}

	logging.Infof("Classified text as %q (confidence %.3f, methods %v, request %s)",
		winner.Category, confidence, methodsUsed, meta.RequestID)
	metrics.ClassificationsTotal.WithLabelValues(winner.Category, "false").Inc()

	return Result{
		Category:      winner.Category,
		Confidence:    confidence,
		Subcategories: subcategories,
		MethodsUsed:   methodsUsed,
		AllScores:     ranked,
		Metadata:      meta,
	}
}

// resolveSubcategories reuses the embedding extractor scoped to the
// winning category and falls back to token matching over subcategory
// names when the model is unavailable. Entries at or below the floor are
// suppressed either way.
func (c *Classifier) resolveSubcategories(ctx context.Context, text, category string) []Signal {
	if c.embeddingExtractor != nil && c.embeddingExtractor.Available(ctx) {
		return c.embeddingExtractor.ExtractSubcategories(ctx, text, category, subcategoryTopK)
	}
	return keywordSubcategories(text, category, subcategoryTopK)
}

var wordPattern = regexp.MustCompile(`\w+`)

// keywordSubcategories scores each subcategory by the fraction of its
// name tokens present in the text.
func keywordSubcategories(text, category string, topK int) []Signal {
	textLower := strings.ToLower(text)

	var signals []Signal
	for _, sub := range taxonomy.Subcategories(category) {
		tokens := wordPattern.FindAllString(strings.ToLower(sub), -1)
		if len(tokens) == 0 {
			continue
		}
		matched := 0
		for _, token := range tokens {
			if strings.Contains(textLower, token) {
				matched++
			}
		}
		if matched == 0 {
			continue
		}
		score := float64(matched) / float64(len(tokens))
		if score > 1.0 {
			score = 1.0
		}
		if score > subcategoryFloor {
			signals = append(signals, Signal{Label: sub, Confidence: score, Method: MethodKeyword})
		}
	}

	sort.SliceStable(signals, func(i, j int) bool {
		if signals[i].Confidence != signals[j].Confidence {
			return signals[i].Confidence > signals[j].Confidence
		}
		return signals[i].Label < signals[j].Label
	})
	if len(signals) > topK {
		signals = signals[:topK]
	}
	return signals
}

// rankScores orders the aggregated map descending by score with the
// alphabetical tie-break.
func rankScores(scores map[string]float64) []CategoryScore {
	ranked := make([]CategoryScore, 0, len(scores))
	for category, score := range scores {
		ranked = append(ranked, CategoryScore{Category: category, Score: score})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Category < ranked[j].Category
	})
	return ranked
}

// ValidateClassification rejects unknown categories and subcategories not
// declared under the given category, naming the offending value.
func (c *Classifier) ValidateClassification(ctx context.Context, text, category string, subcategories []string) ValidationResult {
	if _, ok := taxonomy.Lookup(category); !ok {
		return ValidationResult{
			IsValid:     false,
			Error:       fmt.Sprintf("invalid category: %s", category),
			Suggestions: c.suggestCategories(ctx, text, topKPerMethod),
		}
	}

	declared := taxonomy.Subcategories(category)
	declaredSet := make(map[string]bool, len(declared))
	for _, s := range declared {
		declaredSet[s] = true
	}

	var invalid []string
	for _, s := range subcategories {
		if !declaredSet[s] {
			invalid = append(invalid, s)
		}
	}
	if len(invalid) > 0 {
		return ValidationResult{
			IsValid:            false,
			Error:              fmt.Sprintf("invalid subcategories for %s: %s", category, strings.Join(invalid, ", ")),
			ValidSubcategories: declared,
		}
	}

	return ValidationResult{IsValid: true}
}

// suggestCategories returns the top aggregated categories for a text, for
// use in validation error responses.
func (c *Classifier) suggestCategories(ctx context.Context, text string, topK int) []string {
	result := c.Classify(ctx, text)
	if len(result.AllScores) == 0 {
		return []string{taxonomy.DefaultCategory}
	}
	suggestions := make([]string, 0, topK)
	for _, s := range result.AllScores {
		suggestions = append(suggestions, s.Category)
		if len(suggestions) >= topK {
			break
		}
	}
	return suggestions
}

func truncateSignals(signals []Signal, n int) []Signal {
	if len(signals) <= n {
		return signals
	}
	return signals[:n]
}
