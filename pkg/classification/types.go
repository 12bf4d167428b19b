// Package classification implements the three-signal ensemble that
// assigns cleaned advice text to a taxonomy category. Keyword matching,
// embedding similarity and zero-shot entailment each produce a ranked
// signal list; the ensemble merges them with fixed weights and resolves a
// subcategory within the winning category.
package classification

// Signal method names. These appear verbatim in MethodsUsed and stored
// processing metadata, so they are part of the storage contract.
const (
	MethodKeyword   = "keyword"
	MethodEmbedding = "embedding"
	MethodZeroShot  = "zero_shot"
	MethodFallback  = "fallback"
)

// Signal is one ranked label from a single extraction method.
type Signal struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
	Method     string  `json:"method"`
}

// CategoryScore pairs a category with its aggregated ensemble score.
type CategoryScore struct {
	Category string  `json:"category"`
	Score    float64 `json:"score"`
}

// Metadata carries the raw per-method evidence behind a classification,
// persisted alongside the entry for auditability.
type Metadata struct {
	ZeroShotResults    []Signal `json:"zero_shot_results,omitempty"`
	EmbeddingResults   []Signal `json:"embedding_results,omitempty"`
	KeywordResults     []Signal `json:"keyword_results,omitempty"`
	SubcategoryResults []Signal `json:"subcategory_results,omitempty"`

	// Model names selected by the registry's candidate chain, empty when
	// the corresponding model never loaded.
	EmbeddingModel string `json:"embedding_model,omitempty"`
	ZeroShotModel  string `json:"zero_shot_model,omitempty"`

	RequestID string `json:"request_id"`
}

// Result is the final classification decision for one text.
type Result struct {
	Category      string          `json:"category"`
	Confidence    float64         `json:"confidence"`
	Subcategories []string        `json:"subcategories"`
	MethodsUsed   []string        `json:"methods_used"`
	AllScores     []CategoryScore `json:"all_scores"`
	Metadata      Metadata        `json:"metadata"`
}

// ValidationResult reports whether a (category, subcategories) assignment
// is consistent with the taxonomy.
type ValidationResult struct {
	IsValid bool `json:"is_valid"`

	// Error names the offending value when invalid.
	Error string `json:"error,omitempty"`

	// Suggestions lists likely categories for the text when the category
	// itself was unknown.
	Suggestions []string `json:"suggestions,omitempty"`

	// ValidSubcategories lists the declared subcategories when an
	// undeclared one was supplied.
	ValidSubcategories []string `json:"valid_subcategories,omitempty"`
}

// Weights are the fixed per-method ensemble weights. Multiple methods
// contribute additively to the same category bucket; the sum is not
// normalized.
type Weights struct {
	Keyword   float64 `yaml:"keyword"`
	Embedding float64 `yaml:"embedding"`
	ZeroShot  float64 `yaml:"zero_shot"`
}

// DefaultWeights mirrors the tuning the ensemble ships with.
func DefaultWeights() Weights {
	return Weights{Keyword: 0.2, Embedding: 0.4, ZeroShot: 0.4}
}

// subcategoryFloor suppresses low-confidence subcategory guesses.
const subcategoryFloor = 0.30

// fallbackConfidence is reported when every extractor came back empty.
const fallbackConfidence = 0.1
