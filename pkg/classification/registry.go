package classification

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Mayankojhaa/AI-BABA-PROJECT/pkg/observability/logging"
)

// EmbeddingModel produces a vector for a text.
type EmbeddingModel interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// ZeroShotModel scores a text against candidate labels in one call.
type ZeroShotModel interface {
	Classify(ctx context.Context, text string, labels []string) ([]LabelScore, error)
}

// LabelScore is one label with the model's own normalized score.
type LabelScore struct {
	Label string
	Score float64
}

// EmbeddingCandidate describes one embedding backend the registry may
// select. Candidates are tried in declaration order.
type EmbeddingCandidate struct {
	Name    string `yaml:"name"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
	APIKey  string `yaml:"api_key"`
}

// ZeroShotCandidate describes one zero-shot backend.
type ZeroShotCandidate struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// probeTimeout bounds the connectivity probe during candidate selection.
const probeTimeout = 10 * time.Second

// ModelRegistry owns the optional model handles. Handles are created on
// first use and memoized for the remainder of the process; first access
// is mutex-guarded so concurrent hosts cannot trigger duplicate loads. A
// candidate that fails its probe is skipped, and when every candidate
// fails the handle stays nil — extractors then degrade to empty output
// rather than erroring.
type ModelRegistry struct {
	mu sync.Mutex

	embCandidates []EmbeddingCandidate
	zsCandidates  []ZeroShotCandidate

	embedding     EmbeddingModel
	embeddingName string
	embTried      bool

	zeroShot     ZeroShotModel
	zeroShotName string
	zsTried      bool
}

// NewModelRegistry builds a registry over ordered candidate lists. Either
// list may be empty, which permanently disables that signal.
func NewModelRegistry(embedding []EmbeddingCandidate, zeroShot []ZeroShotCandidate) *ModelRegistry {
	return &ModelRegistry{
		embCandidates: embedding,
		zsCandidates:  zeroShot,
	}
}

// SetEmbeddingModel installs a pre-built handle, bypassing the candidate
// chain. Used by tests and by hosts that manage their own clients.
func (r *ModelRegistry) SetEmbeddingModel(name string, m EmbeddingModel) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.embedding = m
	r.embeddingName = name
	r.embTried = true
}

// SetZeroShotModel installs a pre-built zero-shot handle.
func (r *ModelRegistry) SetZeroShotModel(name string, m ZeroShotModel) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.zeroShot = m
	r.zeroShotName = name
	r.zsTried = true
}

// Embedding returns the selected embedding handle, lazily walking the
// candidate chain on first call. ok is false when no candidate loads.
func (r *ModelRegistry) Embedding(ctx context.Context) (EmbeddingModel, string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.embTried {
		r.embTried = true
		for _, cand := range r.embCandidates {
			model := newOpenAIEmbedder(cand)
			probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
			_, err := model.Embed(probeCtx, "warm up probe")
			cancel()
			if err != nil {
				logging.Warnf("Embedding candidate %q failed probe: %v", cand.Name, err)
				continue
			}
			r.embedding = model
			r.embeddingName = cand.Name
			logging.Infof("Selected embedding model %q (%s)", cand.Name, cand.Model)
			break
		}
		if r.embedding == nil && len(r.embCandidates) > 0 {
			logging.Errorf("All %d embedding candidates failed; embedding signal disabled", len(r.embCandidates))
		}
	}
	return r.embedding, r.embeddingName, r.embedding != nil
}

// ZeroShot returns the selected zero-shot handle, lazily walking the
// candidate chain on first call.
func (r *ModelRegistry) ZeroShot(ctx context.Context) (ZeroShotModel, string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.zsTried {
		r.zsTried = true
		for _, cand := range r.zsCandidates {
			model := newHTTPZeroShot(cand)
			probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
			_, err := model.Classify(probeCtx, "warm up probe", []string{"general"})
			cancel()
			if err != nil {
				logging.Warnf("Zero-shot candidate %q failed probe: %v", cand.Name, err)
				continue
			}
			r.zeroShot = model
			r.zeroShotName = cand.Name
			logging.Infof("Selected zero-shot model %q", cand.Name)
			break
		}
		if r.zeroShot == nil && len(r.zsCandidates) > 0 {
			logging.Errorf("All %d zero-shot candidates failed; zero-shot signal disabled", len(r.zsCandidates))
		}
	}
	return r.zeroShot, r.zeroShotName, r.zeroShot != nil
}

// WarmUp eagerly resolves both handles so concurrent hosts can avoid the
// first-access race. The returned error is informational; a partially
// warm registry is still serviceable.
func (r *ModelRegistry) WarmUp(ctx context.Context) error {
	_, _, embOK := r.Embedding(ctx)
	_, _, zsOK := r.ZeroShot(ctx)
	if !embOK && !zsOK && (len(r.embCandidates) > 0 || len(r.zsCandidates) > 0) {
		return fmt.Errorf("no classification models available after warm-up")
	}
	return nil
}
