package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mayankojhaa/AI-BABA-PROJECT/pkg/classification"
	"github.com/Mayankojhaa/AI-BABA-PROJECT/pkg/store"
	"github.com/Mayankojhaa/AI-BABA-PROJECT/pkg/taxonomy"
	"github.com/Mayankojhaa/AI-BABA-PROJECT/pkg/textproc"
	"github.com/Mayankojhaa/AI-BABA-PROJECT/pkg/transcription"
)

func newTestService(t *testing.T) (*AdviceService, *store.MemoryStore) {
	t.Helper()
	memStore := store.NewMemoryStore()
	t.Cleanup(func() { memStore.Close() })

	// No model candidates: the ensemble runs on the keyword signal alone.
	registry := classification.NewModelRegistry(nil, nil)
	classifier := classification.NewClassifier(registry, classification.DefaultWeights())
	return NewAdviceService(textproc.NewNormalizer(), classifier, memStore, nil), memStore
}

func TestProcessTextSuccess(t *testing.T) {
	svc, _ := newTestService(t)

	result := svc.ProcessText(context.Background(), "My  salary is gone and the debt keeps growing!!!")
	require.True(t, result.OK, result.Message)
	require.NotNil(t, result.Classification)
	assert.Equal(t, "Money & Finance", result.Classification.Category)
	assert.NotEmpty(t, result.Cleaning.CleanedText)
	assert.True(t, result.Originality.IsValid)

	var meta map[string]any
	require.NoError(t, json.Unmarshal([]byte(result.MetadataJSON), &meta))
	assert.Contains(t, meta, "processing_timestamp")
	assert.Contains(t, meta, "cleaning_stats")
	assert.Contains(t, meta, "methods_used")
}

func TestProcessTextEmpty(t *testing.T) {
	svc, _ := newTestService(t)

	for _, text := range []string{"", "   ", "\n\t"} {
		result := svc.ProcessText(context.Background(), text)
		assert.False(t, result.OK)
		assert.NotEmpty(t, result.Message)
	}
}

func TestProcessTextFallback(t *testing.T) {
	svc, _ := newTestService(t)

	result := svc.ProcessText(context.Background(), "zzz qqq www")
	require.True(t, result.OK)
	assert.Equal(t, taxonomy.DefaultCategory, result.Classification.Category)
	assert.Equal(t, 0.1, result.Classification.Confidence)
	assert.Equal(t, []string{classification.MethodFallback}, result.Classification.MethodsUsed)
}

func TestProcessAndSave(t *testing.T) {
	svc, memStore := newTestService(t)
	ctx := context.Background()

	processed, saved := svc.ProcessAndSave(ctx, "save money and avoid debt", true)
	require.True(t, processed.OK)
	require.True(t, saved.OK, saved.Message)
	require.NotZero(t, saved.EntryID)

	entry, err := memStore.GetByID(ctx, saved.EntryID)
	require.NoError(t, err)
	assert.Equal(t, processed.Classification.Category, entry.Category)
	assert.Equal(t, processed.Cleaning.CleanedText, entry.Information)
	assert.Equal(t, "save money and avoid debt", entry.OriginalText)
	assert.True(t, entry.AdminConfirmed)
	assert.JSONEq(t, processed.MetadataJSON, entry.ProcessingMetadata)
}

func TestProcessAndSaveEmptyText(t *testing.T) {
	svc, memStore := newTestService(t)

	_, saved := svc.ProcessAndSave(context.Background(), "   ", true)
	assert.False(t, saved.OK)
	assert.Equal(t, 0, memStore.EntryCount())
}

func TestSaveEntryRequiresProcessedResult(t *testing.T) {
	svc, _ := newTestService(t)

	saved := svc.SaveEntry(context.Background(), nil, "x", false)
	assert.False(t, saved.OK)

	saved = svc.SaveEntry(context.Background(), &ProcessResult{OK: false}, "x", false)
	assert.False(t, saved.OK)
}

func TestSaveEntryStoreFailure(t *testing.T) {
	svc, memStore := newTestService(t)
	ctx := context.Background()

	processed := svc.ProcessText(ctx, "save money")
	require.True(t, processed.OK)

	memStore.Close()
	saved := svc.SaveEntry(ctx, processed, "save money", true)
	assert.False(t, saved.OK)
	assert.Contains(t, saved.Message, "connection")
}

// fakeTranscriber implements transcription.Service without a server.
type fakeTranscriber struct {
	validateErr   error
	metadataErr   error
	transcribeErr error
	transcript    string
}

func (f *fakeTranscriber) ValidateSource(context.Context, string) error { return f.validateErr }

func (f *fakeTranscriber) FetchMetadata(context.Context, string) (*transcription.VideoMetadata, error) {
	if f.metadataErr != nil {
		return nil, f.metadataErr
	}
	return &transcription.VideoMetadata{Title: "On Money", Author: "Channel", DurationSeconds: 60}, nil
}

func (f *fakeTranscriber) Transcribe(_ context.Context, _ string, onProgress transcription.ProgressFunc) (string, error) {
	if f.transcribeErr != nil {
		return "", f.transcribeErr
	}
	if onProgress != nil {
		onProgress("working")
	}
	return f.transcript, nil
}

func TestProcessVideo(t *testing.T) {
	memStore := store.NewMemoryStore()
	defer memStore.Close()
	registry := classification.NewModelRegistry(nil, nil)
	classifier := classification.NewClassifier(registry, classification.DefaultWeights())
	transcriber := &fakeTranscriber{transcript: "save your money and avoid debt"}
	svc := NewAdviceService(textproc.NewNormalizer(), classifier, memStore, transcriber)

	result := svc.ProcessVideo(context.Background(), "https://youtu.be/dQw4w9WgXcQ", nil)
	require.True(t, result.OK, result.Message)
	assert.Equal(t, "On Money", result.Metadata.Title)
	assert.Equal(t, "save your money and avoid debt", result.Transcript)
	require.NotNil(t, result.Process)
	assert.Equal(t, "Money & Finance", result.Process.Classification.Category)
	// The metadata header enters the pipeline with the transcript.
	assert.Contains(t, result.Process.Cleaning.CleanedText, "On Money")
}

func TestProcessVideoFailures(t *testing.T) {
	svc, _ := newTestService(t)

	// No transcriber configured.
	result := svc.ProcessVideo(context.Background(), "https://youtu.be/dQw4w9WgXcQ", nil)
	assert.False(t, result.OK)

	memStore := store.NewMemoryStore()
	defer memStore.Close()
	registry := classification.NewModelRegistry(nil, nil)
	classifier := classification.NewClassifier(registry, classification.DefaultWeights())

	svc = NewAdviceService(textproc.NewNormalizer(), classifier, memStore,
		&fakeTranscriber{validateErr: errors.New("not a video URL")})
	result = svc.ProcessVideo(context.Background(), "nope", nil)
	assert.False(t, result.OK)
	assert.Contains(t, result.Message, "not a video URL")

	svc = NewAdviceService(textproc.NewNormalizer(), classifier, memStore,
		&fakeTranscriber{transcribeErr: errors.New("audio download failed")})
	result = svc.ProcessVideo(context.Background(), "https://youtu.be/dQw4w9WgXcQ", nil)
	assert.False(t, result.OK)
	assert.Contains(t, result.Message, "audio download failed")
}

func TestValidateClassification(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	v := svc.ValidateClassification(ctx, "text", "Money & Finance", []string{"Financial Stress"})
	assert.True(t, v.IsValid)

	v = svc.ValidateClassification(ctx, "text", "Money & Finance", []string{"Meaning of Life"})
	assert.False(t, v.IsValid)
}

func TestGlobalService(t *testing.T) {
	svc, _ := newTestService(t)
	assert.Same(t, svc, GetGlobalAdviceService())
}
