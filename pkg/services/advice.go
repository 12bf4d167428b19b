// Package services orchestrates the full advice pipeline: normalization,
// originality validation, classification and persistence. Every boundary
// method reports success with a human-readable message instead of
// propagating errors or panics to the caller.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Mayankojhaa/AI-BABA-PROJECT/pkg/classification"
	"github.com/Mayankojhaa/AI-BABA-PROJECT/pkg/observability/logging"
	"github.com/Mayankojhaa/AI-BABA-PROJECT/pkg/store"
	"github.com/Mayankojhaa/AI-BABA-PROJECT/pkg/taxonomy"
	"github.com/Mayankojhaa/AI-BABA-PROJECT/pkg/textproc"
	"github.com/Mayankojhaa/AI-BABA-PROJECT/pkg/transcription"
)

// Global service instance for API access.
var globalAdviceService *AdviceService

// AdviceService wires the pipeline components together.
type AdviceService struct {
	normalizer  *textproc.Normalizer
	classifier  *classification.Classifier
	store       store.Store
	transcriber transcription.Service
}

// NewAdviceService creates the service and registers it as the global
// instance. transcriber may be nil when video ingestion is not configured.
func NewAdviceService(normalizer *textproc.Normalizer, classifier *classification.Classifier, st store.Store, transcriber transcription.Service) *AdviceService {
	service := &AdviceService{
		normalizer:  normalizer,
		classifier:  classifier,
		store:       st,
		transcriber: transcriber,
	}
	globalAdviceService = service
	return service
}

// GetGlobalAdviceService returns the service registered by
// NewAdviceService, or nil before initialization.
func GetGlobalAdviceService() *AdviceService {
	return globalAdviceService
}

// Store exposes the underlying store for read-side handlers.
func (s *AdviceService) Store() store.Store {
	return s.store
}

// ProcessResult is the outcome of running text through the pipeline.
type ProcessResult struct {
	OK             bool                   `json:"ok"`
	Message        string                 `json:"message,omitempty"`
	Cleaning       *textproc.Result       `json:"cleaning,omitempty"`
	Originality    *textproc.Report       `json:"originality,omitempty"`
	Classification *classification.Result `json:"classification,omitempty"`
	MetadataJSON   string                 `json:"-"`
}

// SaveResult is the outcome of persisting an entry.
type SaveResult struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
	EntryID int64  `json:"entry_id,omitempty"`
}

// VideoResult is the outcome of ingesting a video.
type VideoResult struct {
	OK         bool                         `json:"ok"`
	Message    string                       `json:"message,omitempty"`
	Metadata   *transcription.VideoMetadata `json:"video_metadata,omitempty"`
	Transcript string                       `json:"transcript,omitempty"`
	Process    *ProcessResult               `json:"process,omitempty"`
}

// processingMetadata is the JSON shape persisted alongside each entry.
type processingMetadata struct {
	ProcessingTimestamp    string                  `json:"processing_timestamp"`
	CleaningStats          textproc.Statistics     `json:"cleaning_stats"`
	ChangesMade            []textproc.ChangeTag    `json:"changes_made"`
	PreservedTerms         map[string]string       `json:"preserved_terms"`
	Originality            *textproc.Report        `json:"originality"`
	ClassificationMetadata classification.Metadata `json:"classification_metadata"`
	MethodsUsed            []string                `json:"methods_used"`
	ConfidenceScore        float64                 `json:"confidence_score"`
}

// ProcessText runs the full pipeline on raw text. Unexpected internal
// faults are recovered and reported as a failed result so the caller
// never loses a request to a panic.
func (s *AdviceService) ProcessText(ctx context.Context, text string) (result *ProcessResult) {
	defer func() {
		if r := recover(); r != nil {
			logging.Errorf("Panic during text processing: %v", r)
			result = &ProcessResult{OK: false, Message: fmt.Sprintf("internal error: %v", r)}
		}
	}()

	cleaning := s.normalizer.Normalize(text)
	if !cleaning.IsValid {
		return &ProcessResult{
			OK:       false,
			Message:  "text is empty or contains only whitespace",
			Cleaning: &cleaning,
		}
	}

	originality := textproc.ValidateOriginality(text, cleaning.CleanedText)
	classified := s.classifier.Classify(ctx, cleaning.CleanedText)

	meta := processingMetadata{
		ProcessingTimestamp:    time.Now().UTC().Format(time.RFC3339),
		CleaningStats:          cleaning.Stats,
		ChangesMade:            cleaning.Changes,
		PreservedTerms:         cleaning.PreservedTerms,
		Originality:            &originality,
		ClassificationMetadata: classified.Metadata,
		MethodsUsed:            classified.MethodsUsed,
		ConfidenceScore:        classified.Confidence,
	}
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return &ProcessResult{OK: false, Message: fmt.Sprintf("failed to encode processing metadata: %v", err)}
	}

	return &ProcessResult{
		OK:             true,
		Cleaning:       &cleaning,
		Originality:    &originality,
		Classification: &classified,
		MetadataJSON:   string(metaJSON),
	}
}

// SaveEntry persists a processed result. originalText is the raw input
// before normalization.
func (s *AdviceService) SaveEntry(ctx context.Context, processed *ProcessResult, originalText string, confirmed bool) (result *SaveResult) {
	defer func() {
		if r := recover(); r != nil {
			logging.Errorf("Panic during entry save: %v", r)
			result = &SaveResult{OK: false, Message: fmt.Sprintf("internal error: %v", r)}
		}
	}()

	if processed == nil || !processed.OK || processed.Classification == nil {
		return &SaveResult{OK: false, Message: "nothing to save: processing did not succeed"}
	}
	if err := s.store.TestConnection(ctx); err != nil {
		return &SaveResult{OK: false, Message: fmt.Sprintf("store connection failed: %v", err)}
	}

	entry := &store.AdviceEntry{
		Category:           processed.Classification.Category,
		Subcategories:      processed.Classification.Subcategories,
		Information:        processed.Cleaning.CleanedText,
		OriginalText:       originalText,
		ConfidenceScore:    processed.Classification.Confidence,
		ProcessingMetadata: processed.MetadataJSON,
		AdminConfirmed:     confirmed,
	}
	id, err := s.store.Insert(ctx, entry)
	if err != nil {
		return &SaveResult{OK: false, Message: fmt.Sprintf("failed to save entry: %v", err)}
	}

	logging.Infof("Saved advice entry %d in category %q", id, entry.Category)
	return &SaveResult{OK: true, Message: "entry saved", EntryID: id}
}

// ProcessAndSave runs the pipeline and persists the result in one call.
func (s *AdviceService) ProcessAndSave(ctx context.Context, text string, confirmed bool) (*ProcessResult, *SaveResult) {
	processed := s.ProcessText(ctx, text)
	if !processed.OK {
		return processed, &SaveResult{OK: false, Message: processed.Message}
	}
	return processed, s.SaveEntry(ctx, processed, text, confirmed)
}

// ProcessVideo transcribes a video and runs the transcript, prefixed with
// its metadata header, through the pipeline. The entry is not saved;
// callers confirm and save separately.
func (s *AdviceService) ProcessVideo(ctx context.Context, ref string, onProgress transcription.ProgressFunc) (result *VideoResult) {
	defer func() {
		if r := recover(); r != nil {
			logging.Errorf("Panic during video processing: %v", r)
			result = &VideoResult{OK: false, Message: fmt.Sprintf("internal error: %v", r)}
		}
	}()

	if s.transcriber == nil {
		return &VideoResult{OK: false, Message: "transcription is not configured"}
	}
	if err := s.transcriber.ValidateSource(ctx, ref); err != nil {
		return &VideoResult{OK: false, Message: err.Error()}
	}

	meta, err := s.transcriber.FetchMetadata(ctx, ref)
	if err != nil {
		return &VideoResult{OK: false, Message: fmt.Sprintf("failed to fetch video metadata: %v", err)}
	}

	transcript, err := s.transcriber.Transcribe(ctx, ref, onProgress)
	if err != nil {
		return &VideoResult{OK: false, Message: fmt.Sprintf("transcription failed: %v", err), Metadata: meta}
	}

	processed := s.ProcessText(ctx, transcription.MetadataHeader(meta)+"\n"+transcript)
	return &VideoResult{
		OK:         processed.OK,
		Message:    processed.Message,
		Metadata:   meta,
		Transcript: transcript,
		Process:    processed,
	}
}

// ValidateClassification checks a manual category/subcategory assignment
// against the taxonomy.
func (s *AdviceService) ValidateClassification(ctx context.Context, text, category string, subcategories []string) classification.ValidationResult {
	return s.classifier.ValidateClassification(ctx, text, category, subcategories)
}

// Categories returns the taxonomy category names for UI and CLI callers.
func (s *AdviceService) Categories() []string {
	return taxonomy.Categories()
}
