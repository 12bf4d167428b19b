package transcription

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/Mayankojhaa/AI-BABA-PROJECT/pkg/observability/logging"
)

// HTTPConfig configures the transcription server client.
type HTTPConfig struct {
	// BaseURL is the transcription server address
	// (e.g. "http://localhost:9010").
	BaseURL string `yaml:"base_url"`

	// TimeoutSeconds bounds each HTTP call, not the whole job.
	TimeoutSeconds int `yaml:"timeout_seconds"`

	// PollIntervalSeconds is the job status poll interval.
	PollIntervalSeconds int `yaml:"poll_interval_seconds"`
}

// HTTPService talks to a whisper-style transcription server: metadata is
// a single request, transcription is submitted as a job and polled until
// it settles.
type HTTPService struct {
	baseURL      string
	client       *http.Client
	pollInterval time.Duration
}

// NewHTTPService creates a transcription client.
func NewHTTPService(config HTTPConfig) (*HTTPService, error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("transcription base_url is required")
	}

	timeout := time.Duration(config.TimeoutSeconds) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	pollInterval := time.Duration(config.PollIntervalSeconds) * time.Second
	if pollInterval == 0 {
		pollInterval = 2 * time.Second
	}

	return &HTTPService{
		baseURL:      config.BaseURL,
		client:       &http.Client{Timeout: timeout},
		pollInterval: pollInterval,
	}, nil
}

// ValidateSource checks the reference shape locally; availability is only
// known once the server fetches metadata.
func (s *HTTPService) ValidateSource(_ context.Context, ref string) error {
	_, err := CanonicalURL(ref)
	return err
}

// FetchMetadata retrieves video metadata from the server.
func (s *HTTPService) FetchMetadata(ctx context.Context, ref string) (*VideoMetadata, error) {
	canonical, err := CanonicalURL(ref)
	if err != nil {
		return nil, err
	}

	endpoint := s.baseURL + "/info?url=" + url.QueryEscape(canonical)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch video metadata: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("metadata request returned %d: %s", resp.StatusCode, string(raw))
	}

	var meta VideoMetadata
	if err := json.Unmarshal(raw, &meta); err != nil {
		return nil, fmt.Errorf("failed to parse video metadata: %w", err)
	}
	return &meta, nil
}

type transcribeRequest struct {
	URL string `json:"url"`
}

type transcribeSubmitted struct {
	JobID string `json:"job_id"`
}

type jobStatus struct {
	Status  string `json:"status"` // "queued", "running", "done", "error"
	Message string `json:"message,omitempty"`
	Text    string `json:"text,omitempty"`
}

// Transcribe submits a job and polls until it settles. Progress messages
// from the server are forwarded to onProgress as they change.
func (s *HTTPService) Transcribe(ctx context.Context, ref string, onProgress ProgressFunc) (string, error) {
	canonical, err := CanonicalURL(ref)
	if err != nil {
		return "", err
	}
	if onProgress == nil {
		onProgress = func(string) {}
	}

	body, err := json.Marshal(transcribeRequest{URL: canonical})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/transcribe", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to submit transcription job: %w", err)
	}
	raw, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return "", fmt.Errorf("transcription submit returned %d: %s", resp.StatusCode, string(raw))
	}

	var submitted transcribeSubmitted
	if err := json.Unmarshal(raw, &submitted); err != nil {
		return "", fmt.Errorf("failed to parse job submission: %w", err)
	}
	if submitted.JobID == "" {
		return "", fmt.Errorf("transcription server returned no job ID")
	}

	onProgress("Transcription started")
	logging.Infof("Submitted transcription job %s for %s", submitted.JobID, canonical)

	lastMessage := ""
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-ticker.C:
		}

		status, err := s.pollJob(ctx, submitted.JobID)
		if err != nil {
			return "", err
		}
		if status.Message != "" && status.Message != lastMessage {
			lastMessage = status.Message
			onProgress(status.Message)
		}

		switch status.Status {
		case "done":
			logging.Infof("Transcription job %s completed (%d chars)", submitted.JobID, len(status.Text))
			return status.Text, nil
		case "error":
			message := status.Message
			if message == "" {
				message = "transcription failed"
			}
			return "", fmt.Errorf("transcription job %s failed: %s", submitted.JobID, message)
		}
	}
}

func (s *HTTPService) pollJob(ctx context.Context, jobID string) (*jobStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/jobs/"+jobID, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to poll transcription job: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("job status returned %d: %s", resp.StatusCode, string(raw))
	}

	var status jobStatus
	if err := json.Unmarshal(raw, &status); err != nil {
		return nil, fmt.Errorf("failed to parse job status: %w", err)
	}
	return &status, nil
}
