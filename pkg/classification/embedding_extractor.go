package classification

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/Mayankojhaa/AI-BABA-PROJECT/pkg/observability/logging"
	"github.com/Mayankojhaa/AI-BABA-PROJECT/pkg/observability/metrics"
	"github.com/Mayankojhaa/AI-BABA-PROJECT/pkg/taxonomy"
)

// labelKindMain/Sub tag the precomputed label embeddings so a single
// cache serves both main-category and subcategory queries.
const (
	labelKindMain = "main"
	labelKindSub  = "sub"
)

// labelEmbedding is one precomputed taxonomy label vector.
type labelEmbedding struct {
	Kind     string // labelKindMain or labelKindSub
	Category string // owning category (equals Name for main labels)
	Name     string // category or subcategory name
	Vector   []float64
}

// EmbeddingExtractor scores labels by cosine similarity between the text
// embedding and precomputed taxonomy label embeddings. Label vectors are
// computed once per process on first use and cached; if the model is
// unavailable the extractor degrades to empty output.
type EmbeddingExtractor struct {
	registry *ModelRegistry

	mu       sync.Mutex
	labels   []labelEmbedding
	preTried bool
}

func NewEmbeddingExtractor(registry *ModelRegistry) *EmbeddingExtractor {
	return &EmbeddingExtractor{registry: registry}
}

func (e *EmbeddingExtractor) Method() string { return MethodEmbedding }

// mainLabelText builds the embedding text for a category: its descriptive
// prompt plus a sample of its keywords.
func mainLabelText(category string) string {
	keywords := taxonomy.Keywords(category)
	if len(keywords) > 10 {
		keywords = keywords[:10]
	}
	return fmt.Sprintf("%s Keywords: %s", taxonomy.Prompt(category), strings.Join(keywords, " "))
}

// subLabelText builds the embedding text for a subcategory: its name with
// parent context.
func subLabelText(category, sub string) string {
	return fmt.Sprintf("%s in the context of %s. %s", sub, category, taxonomy.Prompt(category))
}

// ensureLabels computes the label embedding cache on first use. Returns
// false when the embedding model is unavailable.
func (e *EmbeddingExtractor) ensureLabels(ctx context.Context) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.labels) > 0 {
		return true
	}
	if e.preTried {
		return false
	}
	e.preTried = true

	model, _, ok := e.registry.Embedding(ctx)
	if !ok {
		return false
	}

	var labels []labelEmbedding
	for _, category := range taxonomy.Categories() {
		vec, err := model.Embed(ctx, mainLabelText(category))
		if err != nil {
			logging.Warnf("Failed to embed category label %q: %v", category, err)
			return false
		}
		labels = append(labels, labelEmbedding{
			Kind:     labelKindMain,
			Category: category,
			Name:     category,
			Vector:   vec,
		})

		for _, sub := range taxonomy.Subcategories(category) {
			vec, err := model.Embed(ctx, subLabelText(category, sub))
			if err != nil {
				logging.Warnf("Failed to embed subcategory label %q: %v", sub, err)
				return false
			}
			labels = append(labels, labelEmbedding{
				Kind:     labelKindSub,
				Category: category,
				Name:     sub,
				Vector:   vec,
			})
		}
	}

	e.labels = labels
	logging.Infof("Precomputed %d taxonomy label embeddings", len(labels))
	return true
}

// Extract ranks main categories by similarity. Only main-tagged labels
// are surfaced, deduplicated by category keeping the highest-similarity
// occurrence, at most topK entries.
func (e *EmbeddingExtractor) Extract(ctx context.Context, text string, topK int) []Signal {
	model, _, ok := e.registry.Embedding(ctx)
	if !ok || !e.ensureLabels(ctx) {
		metrics.ExtractorFailures.WithLabelValues(MethodEmbedding).Inc()
		return nil
	}

	query, err := model.Embed(ctx, text)
	if err != nil {
		logging.Warnf("Embedding extraction failed for query: %v", err)
		metrics.ExtractorFailures.WithLabelValues(MethodEmbedding).Inc()
		return nil
	}

	type scored struct {
		label labelEmbedding
		sim   float64
	}
	all := make([]scored, 0, len(e.labels))
	for _, label := range e.labels {
		all = append(all, scored{label: label, sim: cosineSimilarity(query, label.Vector)})
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].sim > all[j].sim })

	var signals []Signal
	seen := make(map[string]bool)
	for _, s := range all {
		if s.label.Kind != labelKindMain || seen[s.label.Category] {
			continue
		}
		seen[s.label.Category] = true
		signals = append(signals, Signal{
			Label:      s.label.Category,
			Confidence: s.sim,
			Method:     MethodEmbedding,
		})
		if len(signals) >= topK {
			break
		}
	}
	return signals
}

// ExtractSubcategories ranks the subcategories declared under category by
// similarity, suppressing anything at or below the confidence floor.
func (e *EmbeddingExtractor) ExtractSubcategories(ctx context.Context, text, category string, topK int) []Signal {
	if _, ok := taxonomy.Lookup(category); !ok {
		return nil
	}
	model, _, ok := e.registry.Embedding(ctx)
	if !ok || !e.ensureLabels(ctx) {
		metrics.ExtractorFailures.WithLabelValues(MethodEmbedding).Inc()
		return nil
	}

	query, err := model.Embed(ctx, text)
	if err != nil {
		logging.Warnf("Embedding extraction failed for subcategory query: %v", err)
		metrics.ExtractorFailures.WithLabelValues(MethodEmbedding).Inc()
		return nil
	}

	var signals []Signal
	for _, label := range e.labels {
		if label.Kind != labelKindSub || label.Category != category {
			continue
		}
		sim := cosineSimilarity(query, label.Vector)
		if sim > subcategoryFloor {
			signals = append(signals, Signal{
				Label:      label.Name,
				Confidence: sim,
				Method:     MethodEmbedding,
			})
		}
	}
	sort.SliceStable(signals, func(i, j int) bool { return signals[i].Confidence > signals[j].Confidence })
	if len(signals) > topK {
		signals = signals[:topK]
	}
	return signals
}

// Available reports whether the embedding model loaded, without forcing
// label precomputation.
func (e *EmbeddingExtractor) Available(ctx context.Context) bool {
	_, _, ok := e.registry.Embedding(ctx)
	return ok
}

// cosineSimilarity computes full cosine similarity; vectors from
// different backends are not guaranteed normalized.
func cosineSimilarity(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	if n == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
