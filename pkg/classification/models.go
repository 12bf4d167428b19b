package classification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// openaiEmbedder computes sentence embeddings through an OpenAI-compatible
// embeddings endpoint (a local TEI/vLLM server or the hosted API).
type openaiEmbedder struct {
	client openai.EmbeddingService
	model  string
}

func newOpenAIEmbedder(cand EmbeddingCandidate) *openaiEmbedder {
	opts := []option.RequestOption{}
	if cand.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cand.BaseURL))
	}
	if cand.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cand.APIKey))
	}
	return &openaiEmbedder{
		client: openai.NewEmbeddingService(opts...),
		model:  cand.Model,
	}
}

func (e *openaiEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	res, err := e.client.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: []string{text}},
		Model: e.model,
	})
	if err != nil {
		return nil, err
	}
	if len(res.Data) == 0 {
		return nil, fmt.Errorf("embedding response contained no data")
	}
	return res.Data[0].Embedding, nil
}

// httpZeroShot queries an entailment-style zero-shot classification
// endpoint (HF inference wire shape): one POST carrying the text and the
// full candidate label set, answered with parallel labels/scores arrays.
type httpZeroShot struct {
	url    string
	client *http.Client
}

func newHTTPZeroShot(cand ZeroShotCandidate) *httpZeroShot {
	return &httpZeroShot{
		url: cand.URL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type zeroShotRequest struct {
	Inputs     string             `json:"inputs"`
	Parameters zeroShotParameters `json:"parameters"`
}

type zeroShotParameters struct {
	CandidateLabels []string `json:"candidate_labels"`
}

type zeroShotResponse struct {
	Labels []string  `json:"labels"`
	Scores []float64 `json:"scores"`
}

func (z *httpZeroShot) Classify(ctx context.Context, text string, labels []string) ([]LabelScore, error) {
	body, err := json.Marshal(zeroShotRequest{
		Inputs:     text,
		Parameters: zeroShotParameters{CandidateLabels: labels},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, z.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := z.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("zero-shot endpoint returned %d: %s", resp.StatusCode, string(raw))
	}

	var parsed zeroShotResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse zero-shot response: %w", err)
	}
	if len(parsed.Labels) != len(parsed.Scores) {
		return nil, fmt.Errorf("zero-shot response labels/scores mismatch: %d vs %d", len(parsed.Labels), len(parsed.Scores))
	}

	scores := make([]LabelScore, len(parsed.Labels))
	for i := range parsed.Labels {
		scores[i] = LabelScore{Label: parsed.Labels[i], Score: parsed.Scores[i]}
	}
	return scores, nil
}
