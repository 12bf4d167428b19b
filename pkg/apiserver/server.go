// Package apiserver exposes the advice pipeline over HTTP.
package apiserver

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Mayankojhaa/AI-BABA-PROJECT/pkg/observability/logging"
	"github.com/Mayankojhaa/AI-BABA-PROJECT/pkg/services"
)

// AdviceAPIServer serves the HTTP API over an AdviceService.
type AdviceAPIServer struct {
	svc *services.AdviceService
}

// NewServer creates a server over the given service.
func NewServer(svc *services.AdviceService) *AdviceAPIServer {
	return &AdviceAPIServer{svc: svc}
}

// Init starts the API server on the given port using the global advice
// service, blocking until the listener stops.
func Init(port int) error {
	svc := services.GetGlobalAdviceService()
	if svc == nil {
		return fmt.Errorf("advice service not initialized")
	}

	apiServer := NewServer(svc)
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      apiServer.setupRoutes(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logging.Infof("Advice API server listening on port %d", port)
	return server.ListenAndServe()
}

// setupRoutes configures all API routes.
func (s *AdviceAPIServer) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("POST /api/v1/process", s.handleProcess)
	mux.HandleFunc("POST /api/v1/validate", s.handleValidate)

	mux.HandleFunc("POST /api/v1/entries", s.handleCreateEntry)
	mux.HandleFunc("GET /api/v1/entries", s.handleListEntries)
	mux.HandleFunc("GET /api/v1/entries/{id}", s.handleGetEntry)
	mux.HandleFunc("PATCH /api/v1/entries/{id}", s.handleUpdateEntry)
	mux.HandleFunc("DELETE /api/v1/entries/{id}", s.handleDeleteEntry)

	mux.HandleFunc("GET /api/v1/search", s.handleSearch)
	mux.HandleFunc("GET /api/v1/stats", s.handleStats)
	mux.HandleFunc("GET /api/v1/categories", s.handleCategories)

	mux.Handle("GET /metrics", promhttp.Handler())

	return mux
}

func (s *AdviceAPIServer) parseJSONRequest(r *http.Request, v interface{}) error {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return fmt.Errorf("failed to read request body: %w", err)
	}
	defer r.Body.Close()

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to parse JSON: %w", err)
	}
	return nil
}

func (s *AdviceAPIServer) writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logging.Errorf("Failed to encode JSON response: %v", err)
	}
}

func (s *AdviceAPIServer) writeErrorResponse(w http.ResponseWriter, statusCode int, errorCode, message string) {
	errorResponse := map[string]interface{}{
		"error": map[string]interface{}{
			"code":      errorCode,
			"message":   message,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		},
	}
	s.writeJSONResponse(w, statusCode, errorResponse)
}
