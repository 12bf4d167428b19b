package classification

import (
	"context"

	"github.com/Mayankojhaa/AI-BABA-PROJECT/pkg/observability/logging"
	"github.com/Mayankojhaa/AI-BABA-PROJECT/pkg/observability/metrics"
	"github.com/Mayankojhaa/AI-BABA-PROJECT/pkg/taxonomy"
)

// ZeroShotExtractor scores categories with an entailment-style zero-shot
// model, querying the full category label set in a single call.
type ZeroShotExtractor struct {
	registry *ModelRegistry
}

func NewZeroShotExtractor(registry *ModelRegistry) *ZeroShotExtractor {
	return &ZeroShotExtractor{registry: registry}
}

func (e *ZeroShotExtractor) Method() string { return MethodZeroShot }

// Extract returns the model's top-K labels with its own normalized scores
// as confidence. Any failure degrades to an empty list.
func (e *ZeroShotExtractor) Extract(ctx context.Context, text string, topK int) []Signal {
	model, _, ok := e.registry.ZeroShot(ctx)
	if !ok {
		metrics.ExtractorFailures.WithLabelValues(MethodZeroShot).Inc()
		return nil
	}

	scores, err := model.Classify(ctx, text, taxonomy.Categories())
	if err != nil {
		logging.Warnf("Zero-shot classification failed: %v", err)
		metrics.ExtractorFailures.WithLabelValues(MethodZeroShot).Inc()
		return nil
	}

	seen := make(map[string]bool, topK)
	var signals []Signal
	for _, s := range scores {
		if seen[s.Label] {
			continue
		}
		seen[s.Label] = true
		signals = append(signals, Signal{
			Label:      s.Label,
			Confidence: s.Score,
			Method:     MethodZeroShot,
		})
		if len(signals) >= topK {
			break
		}
	}
	return signals
}
