package classification

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mayankojhaa/AI-BABA-PROJECT/pkg/taxonomy"
)

// fakeEmbedder maps texts onto a tiny fixed space: one axis per marker
// word plus a small constant so no vector is zero. Texts sharing a marker
// come out near-parallel, texts without one near-orthogonal.
type fakeEmbedder struct{}

func (fakeEmbedder) Embed(_ context.Context, text string) ([]float64, error) {
	lower := strings.ToLower(text)
	axis := func(marker string) float64 {
		if strings.Contains(lower, marker) {
			return 1.0
		}
		return 0.0
	}
	return []float64{axis("karma"), axis("money"), 0.001}, nil
}

func TestKeywordExtractor(t *testing.T) {
	e := NewKeywordExtractor()
	ctx := context.Background()

	signals := e.Extract(ctx, "I have money problems, debt keeps growing and my salary is gone", topKPerMethod)
	require.NotEmpty(t, signals)
	assert.Equal(t, "Money & Finance", signals[0].Label)
	assert.Equal(t, MethodKeyword, signals[0].Method)
	// money, debt, salary -> 3 matched keywords scaled against 10.
	assert.InDelta(t, 0.3, signals[0].Confidence, 1e-9)

	assert.Empty(t, e.Extract(ctx, "qqq zzz www", topKPerMethod))
}

func TestKeywordExtractorConfidenceCap(t *testing.T) {
	e := NewKeywordExtractor()
	text := "spiritual meaning life patience acceptance gratitude meditation karma destiny hope faith peace philosophy"

	signals := e.Extract(context.Background(), text, topKPerMethod)
	require.NotEmpty(t, signals)
	assert.Equal(t, "Spiritual / Philosophical", signals[0].Label)
	assert.Equal(t, 1.0, signals[0].Confidence)
}

func TestEmbeddingExtractor(t *testing.T) {
	registry := NewModelRegistry(nil, nil)
	registry.SetEmbeddingModel("fake-embedder", fakeEmbedder{})
	e := NewEmbeddingExtractor(registry)
	ctx := context.Background()

	require.True(t, e.Available(ctx))

	signals := e.Extract(ctx, "karma and destiny decide everything", topKPerMethod)
	require.NotEmpty(t, signals)
	assert.Equal(t, "Spiritual / Philosophical", signals[0].Label)
	assert.Greater(t, signals[0].Confidence, 0.9)
	assert.LessOrEqual(t, len(signals), topKPerMethod)

	// Each category appears at most once.
	seen := map[string]bool{}
	for _, s := range signals {
		assert.False(t, seen[s.Label], "duplicate category %q", s.Label)
		seen[s.Label] = true
	}
}

func TestEmbeddingExtractorSubcategories(t *testing.T) {
	registry := NewModelRegistry(nil, nil)
	registry.SetEmbeddingModel("fake-embedder", fakeEmbedder{})
	e := NewEmbeddingExtractor(registry)
	ctx := context.Background()

	signals := e.ExtractSubcategories(ctx, "karma again", "Spiritual / Philosophical", subcategoryTopK)
	require.Len(t, signals, subcategoryTopK)

	declared := map[string]bool{}
	for _, sub := range taxonomy.Subcategories("Spiritual / Philosophical") {
		declared[sub] = true
	}
	for _, s := range signals {
		assert.True(t, declared[s.Label], "subcategory %q not declared under the category", s.Label)
		assert.Greater(t, s.Confidence, subcategoryFloor)
	}

	assert.Empty(t, e.ExtractSubcategories(ctx, "karma", "Not A Category", subcategoryTopK))
}

func TestEmbeddingExtractorUnavailable(t *testing.T) {
	e := NewEmbeddingExtractor(NewModelRegistry(nil, nil))
	ctx := context.Background()

	assert.False(t, e.Available(ctx))
	assert.Empty(t, e.Extract(ctx, "karma", topKPerMethod))
	assert.Empty(t, e.ExtractSubcategories(ctx, "karma", "Spiritual / Philosophical", subcategoryTopK))
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, cosineSimilarity([]float64{1, 2, 3}, []float64{2, 4, 6}), 1e-9)
	assert.InDelta(t, 0.0, cosineSimilarity([]float64{1, 0}, []float64{0, 1}), 1e-9)
	assert.Equal(t, 0.0, cosineSimilarity(nil, []float64{1}))
	assert.Equal(t, 0.0, cosineSimilarity([]float64{0, 0}, []float64{1, 1}))
}

// fakeZeroShot returns a fixed score list.
type fakeZeroShot struct {
	scores []LabelScore
}

func (f fakeZeroShot) Classify(context.Context, string, []string) ([]LabelScore, error) {
	return f.scores, nil
}

func TestZeroShotExtractor(t *testing.T) {
	registry := NewModelRegistry(nil, nil)
	registry.SetZeroShotModel("fake-zero-shot", fakeZeroShot{scores: []LabelScore{
		{Label: "Career & Studies", Score: 0.7},
		{Label: "Career & Studies", Score: 0.7},
		{Label: "Money & Finance", Score: 0.2},
		{Label: "Emotional Support", Score: 0.05},
		{Label: "Health & Lifestyle", Score: 0.05},
	}})
	e := NewZeroShotExtractor(registry)

	signals := e.Extract(context.Background(), "exam pressure", topKPerMethod)
	require.Len(t, signals, topKPerMethod)
	assert.Equal(t, "Career & Studies", signals[0].Label)
	assert.Equal(t, 0.7, signals[0].Confidence)
	assert.Equal(t, MethodZeroShot, signals[0].Method)
	// Duplicate labels from the model collapse to one entry.
	assert.Equal(t, "Money & Finance", signals[1].Label)
}

func TestZeroShotExtractorUnavailable(t *testing.T) {
	e := NewZeroShotExtractor(NewModelRegistry(nil, nil))
	assert.Empty(t, e.Extract(context.Background(), "anything", topKPerMethod))
}
