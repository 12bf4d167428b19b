package transcription

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalURL(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "https://www.youtube.com/watch?v=dQw4w9WgXcQ"},
		{"https://youtu.be/dQw4w9WgXcQ", "https://www.youtube.com/watch?v=dQw4w9WgXcQ"},
		{"https://youtube.com/embed/dQw4w9WgXcQ", "https://www.youtube.com/watch?v=dQw4w9WgXcQ"},
		{"https://m.youtube.com/watch?v=dQw4w9WgXcQ&t=42", "https://www.youtube.com/watch?v=dQw4w9WgXcQ"},
		{"  https://youtu.be/dQw4w9WgXcQ  ", "https://www.youtube.com/watch?v=dQw4w9WgXcQ"},
	}
	for _, c := range cases {
		got, err := CanonicalURL(c.in)
		require.NoError(t, err, c.in)
		assert.Equal(t, c.want, got)
	}

	for _, bad := range []string{"", "   ", "https://example.com/video", "youtube.com/watch?v=short"} {
		_, err := CanonicalURL(bad)
		assert.Error(t, err, bad)
	}
}

func TestMetadataHeader(t *testing.T) {
	header := MetadataHeader(&VideoMetadata{
		Title:           "On Patience",
		Author:          "Some Channel",
		DurationSeconds: 125,
		ViewCount:       1000,
		PublishDate:     "2024-01-01",
	})
	assert.Contains(t, header, "Video Title: On Patience")
	assert.Contains(t, header, "Duration: 2:05")
	assert.Contains(t, header, "Published: 2024-01-01")

	assert.Empty(t, MetadataHeader(nil))
}

func newTranscriptionServer(t *testing.T, pollsUntilDone int32) *httptest.Server {
	t.Helper()
	var polls int32
	mux := http.NewServeMux()
	mux.HandleFunc("/info", func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Query().Get("url"), "watch?v=") {
			http.Error(w, "bad url", http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(VideoMetadata{
			Title:           "On Patience",
			Author:          "Some Channel",
			DurationSeconds: 300,
			ViewCount:       42,
		})
	})
	mux.HandleFunc("/transcribe", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"job_id": "job-1"})
	})
	mux.HandleFunc("/jobs/", func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&polls, 1)
		status := jobStatus{Status: "running", Message: "Downloading audio"}
		if n >= pollsUntilDone {
			status = jobStatus{Status: "done", Message: "Complete", Text: "patience is a virtue"}
		}
		json.NewEncoder(w).Encode(status)
	})
	return httptest.NewServer(mux)
}

func newTestService(t *testing.T, baseURL string) *HTTPService {
	t.Helper()
	svc, err := NewHTTPService(HTTPConfig{BaseURL: baseURL})
	require.NoError(t, err)
	svc.pollInterval = time.Millisecond
	return svc
}

func TestHTTPServiceFetchMetadata(t *testing.T) {
	server := newTranscriptionServer(t, 1)
	defer server.Close()

	svc := newTestService(t, server.URL)
	meta, err := svc.FetchMetadata(context.Background(), "https://youtu.be/dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.Equal(t, "On Patience", meta.Title)
	assert.Equal(t, 300, meta.DurationSeconds)
}

func TestHTTPServiceTranscribe(t *testing.T) {
	server := newTranscriptionServer(t, 3)
	defer server.Close()

	svc := newTestService(t, server.URL)

	var messages []string
	text, err := svc.Transcribe(context.Background(), "https://youtu.be/dQw4w9WgXcQ",
		func(m string) { messages = append(messages, m) })
	require.NoError(t, err)
	assert.Equal(t, "patience is a virtue", text)
	assert.Contains(t, messages, "Transcription started")
	assert.Contains(t, messages, "Downloading audio")
}

func TestHTTPServiceTranscribeFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/transcribe", func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"job_id": "job-2"})
	})
	mux.HandleFunc("/jobs/", func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(jobStatus{Status: "error", Message: "video unavailable"})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	svc := newTestService(t, server.URL)
	_, err := svc.Transcribe(context.Background(), "https://youtu.be/dQw4w9WgXcQ", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "video unavailable")
}

func TestHTTPServiceValidateSource(t *testing.T) {
	svc := newTestService(t, "http://localhost:9010")
	assert.NoError(t, svc.ValidateSource(context.Background(), "https://youtu.be/dQw4w9WgXcQ"))
	assert.Error(t, svc.ValidateSource(context.Background(), "https://example.com"))
}
