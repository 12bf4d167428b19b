package apiserver

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/Mayankojhaa/AI-BABA-PROJECT/pkg/store"
	"github.com/Mayankojhaa/AI-BABA-PROJECT/pkg/taxonomy"
)

// ProcessRequest is the JSON body for POST /api/v1/process.
type ProcessRequest struct {
	Text string `json:"text"`
}

// ValidateRequest is the JSON body for POST /api/v1/validate.
type ValidateRequest struct {
	Text          string   `json:"text"`
	Category      string   `json:"category"`
	Subcategories []string `json:"subcategories"`
}

// CreateEntryRequest is the JSON body for POST /api/v1/entries. When
// Category is set it overrides the ensemble decision after taxonomy
// validation.
type CreateEntryRequest struct {
	Text          string   `json:"text"`
	Confirmed     bool     `json:"confirmed"`
	Category      string   `json:"category,omitempty"`
	Subcategories []string `json:"subcategories,omitempty"`
}

func (s *AdviceAPIServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	code := http.StatusOK
	storeStatus := "ok"
	if err := s.svc.Store().TestConnection(r.Context()); err != nil {
		status = "degraded"
		code = http.StatusServiceUnavailable
		storeStatus = err.Error()
	}
	s.writeJSONResponse(w, code, map[string]string{
		"status": status,
		"store":  storeStatus,
	})
}

func (s *AdviceAPIServer) handleProcess(w http.ResponseWriter, r *http.Request) {
	var req ProcessRequest
	if err := s.parseJSONRequest(r, &req); err != nil {
		s.writeErrorResponse(w, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}

	result := s.svc.ProcessText(r.Context(), req.Text)
	if !result.OK {
		s.writeErrorResponse(w, http.StatusUnprocessableEntity, "PROCESSING_FAILED", result.Message)
		return
	}
	s.writeJSONResponse(w, http.StatusOK, result)
}

func (s *AdviceAPIServer) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req ValidateRequest
	if err := s.parseJSONRequest(r, &req); err != nil {
		s.writeErrorResponse(w, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}
	s.writeJSONResponse(w, http.StatusOK,
		s.svc.ValidateClassification(r.Context(), req.Text, req.Category, req.Subcategories))
}

func (s *AdviceAPIServer) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	var req CreateEntryRequest
	if err := s.parseJSONRequest(r, &req); err != nil {
		s.writeErrorResponse(w, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}

	processed := s.svc.ProcessText(r.Context(), req.Text)
	if !processed.OK {
		s.writeErrorResponse(w, http.StatusUnprocessableEntity, "PROCESSING_FAILED", processed.Message)
		return
	}

	if req.Category != "" {
		v := s.svc.ValidateClassification(r.Context(), req.Text, req.Category, req.Subcategories)
		if !v.IsValid {
			s.writeErrorResponse(w, http.StatusBadRequest, "INVALID_CLASSIFICATION", v.Error)
			return
		}
		processed.Classification.Category = req.Category
		processed.Classification.Subcategories = req.Subcategories
	}

	saved := s.svc.SaveEntry(r.Context(), processed, req.Text, req.Confirmed)
	if !saved.OK {
		s.writeErrorResponse(w, http.StatusInternalServerError, "SAVE_FAILED", saved.Message)
		return
	}
	s.writeJSONResponse(w, http.StatusCreated, map[string]interface{}{
		"entry_id":      saved.EntryID,
		"category":      processed.Classification.Category,
		"subcategories": processed.Classification.Subcategories,
		"confidence":    processed.Classification.Confidence,
		"methods_used":  processed.Classification.MethodsUsed,
	})
}

func (s *AdviceAPIServer) handleListEntries(w http.ResponseWriter, r *http.Request) {
	opts := store.ListOptions{
		Category: r.URL.Query().Get("category"),
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			opts.Limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			opts.Offset = n
		}
	}
	if v := r.URL.Query().Get("confirmed"); v == "true" {
		opts.ConfirmedOnly = true
	}

	result, err := s.svc.Store().List(r.Context(), opts)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSONResponse(w, http.StatusOK, result)
}

func (s *AdviceAPIServer) handleGetEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := s.entryID(w, r)
	if !ok {
		return
	}
	entry, err := s.svc.Store().GetByID(r.Context(), id)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSONResponse(w, http.StatusOK, entry)
}

// UpdateEntryRequest is the JSON body for PATCH /api/v1/entries/{id}.
// Absent fields are left unchanged.
type UpdateEntryRequest struct {
	Category      *string  `json:"category,omitempty"`
	Subcategories []string `json:"subcategories,omitempty"`
	Information   *string  `json:"information,omitempty"`
	Confirmed     *bool    `json:"confirmed,omitempty"`
}

func (s *AdviceAPIServer) handleUpdateEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := s.entryID(w, r)
	if !ok {
		return
	}
	var req UpdateEntryRequest
	if err := s.parseJSONRequest(r, &req); err != nil {
		s.writeErrorResponse(w, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}

	if req.Category != nil || req.Subcategories != nil {
		category := ""
		if req.Category != nil {
			category = *req.Category
		} else {
			entry, err := s.svc.Store().GetByID(r.Context(), id)
			if err != nil {
				s.writeStoreError(w, err)
				return
			}
			category = entry.Category
		}
		v := s.svc.ValidateClassification(r.Context(), "", category, req.Subcategories)
		if !v.IsValid {
			s.writeErrorResponse(w, http.StatusBadRequest, "INVALID_CLASSIFICATION", v.Error)
			return
		}
	}

	err := s.svc.Store().Update(r.Context(), id, store.EntryPatch{
		Category:       req.Category,
		Subcategories:  req.Subcategories,
		Information:    req.Information,
		AdminConfirmed: req.Confirmed,
	})
	if err != nil {
		s.writeStoreError(w, err)
		return
	}

	entry, err := s.svc.Store().GetByID(r.Context(), id)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSONResponse(w, http.StatusOK, entry)
}

func (s *AdviceAPIServer) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := s.entryID(w, r)
	if !ok {
		return
	}
	if err := s.svc.Store().Delete(r.Context(), id); err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSONResponse(w, http.StatusOK, map[string]interface{}{"deleted": id})
}

func (s *AdviceAPIServer) handleSearch(w http.ResponseWriter, r *http.Request) {
	term := strings.TrimSpace(r.URL.Query().Get("q"))
	if term == "" {
		s.writeErrorResponse(w, http.StatusBadRequest, "INVALID_INPUT", "query parameter q is required")
		return
	}

	entries, err := s.svc.Store().Search(r.Context(), term)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSONResponse(w, http.StatusOK, map[string]interface{}{
		"query":   term,
		"count":   len(entries),
		"entries": entries,
	})
}

func (s *AdviceAPIServer) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.svc.Store().Statistics(r.Context())
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSONResponse(w, http.StatusOK, stats)
}

func (s *AdviceAPIServer) handleCategories(w http.ResponseWriter, _ *http.Request) {
	type categoryInfo struct {
		Name          string   `json:"name"`
		Subcategories []string `json:"subcategories"`
	}
	var categories []categoryInfo
	for _, name := range taxonomy.Categories() {
		categories = append(categories, categoryInfo{
			Name:          name,
			Subcategories: taxonomy.Subcategories(name),
		})
	}
	s.writeJSONResponse(w, http.StatusOK, map[string]interface{}{"categories": categories})
}

func (s *AdviceAPIServer) entryID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		s.writeErrorResponse(w, http.StatusBadRequest, "INVALID_ID", "entry ID must be a positive integer")
		return 0, false
	}
	return id, true
}

func (s *AdviceAPIServer) writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		s.writeErrorResponse(w, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, store.ErrInvalidID), errors.Is(err, store.ErrInvalidInput), errors.Is(err, store.ErrEmptyPatch):
		s.writeErrorResponse(w, http.StatusBadRequest, "INVALID_INPUT", err.Error())
	default:
		s.writeErrorResponse(w, http.StatusInternalServerError, "STORE_ERROR", err.Error())
	}
}
