// Package transcription turns video references into plain text for the
// normalization pipeline. The pipeline itself never special-cases
// transcript-sourced text; callers may prepend the MetadataHeader before
// handing it over.
package transcription

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// VideoMetadata describes the source video.
type VideoMetadata struct {
	Title           string `json:"title"`
	Author          string `json:"author"`
	DurationSeconds int    `json:"duration_seconds"`
	ViewCount       int64  `json:"view_count"`
	PublishDate     string `json:"publish_date,omitempty"`
}

// ProgressFunc receives human-readable progress messages during a
// transcription.
type ProgressFunc func(message string)

// Service is the transcription collaborator contract.
type Service interface {
	// ValidateSource checks that ref is a supported video reference.
	ValidateSource(ctx context.Context, ref string) error

	// FetchMetadata retrieves video metadata without transcribing.
	FetchMetadata(ctx context.Context, ref string) (*VideoMetadata, error)

	// Transcribe produces the transcript text. onProgress may be nil.
	Transcribe(ctx context.Context, ref string, onProgress ProgressFunc) (string, error)
}

var videoIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/|youtube\.com/embed/)([a-zA-Z0-9_-]{11})`),
	regexp.MustCompile(`(?:m\.youtube\.com/watch\?v=)([a-zA-Z0-9_-]{11})`),
}

// CanonicalURL extracts the video ID from any supported YouTube URL form
// and returns the canonical watch URL. Returns an error when no video ID
// is found.
func CanonicalURL(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", fmt.Errorf("URL cannot be empty")
	}
	for _, p := range videoIDPatterns {
		if m := p.FindStringSubmatch(ref); m != nil {
			return "https://www.youtube.com/watch?v=" + m[1], nil
		}
	}
	return "", fmt.Errorf("URL does not appear to be a valid YouTube URL")
}

// MetadataHeader renders the optional header a caller may prepend to a
// transcript before normalization.
func MetadataHeader(meta *VideoMetadata) string {
	if meta == nil {
		return ""
	}
	published := meta.PublishDate
	if published == "" {
		published = "Unknown"
	}
	return fmt.Sprintf(
		"Video Title: %s\nAuthor: %s\nDuration: %d:%02d\nViews: %d\nPublished: %s\nProcessed: %s\n",
		meta.Title,
		meta.Author,
		meta.DurationSeconds/60,
		meta.DurationSeconds%60,
		meta.ViewCount,
		published,
		time.Now().Format("2006-01-02 15:04:05"),
	)
}
