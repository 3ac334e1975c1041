package server

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/irfanturkoz/google-maps-scraper/internal/job"
	"github.com/irfanturkoz/google-maps-scraper/internal/scraper"
)

// searchRequestDTO is the submission payload.
type searchRequestDTO struct {
	Location     string  `json:"location"`
	BusinessType string  `json:"business_type"`
	RadiusKM     float64 `json:"radius_km"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleSearch accepts a search request and starts a background job.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var dto searchRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req := scraper.SearchRequest{
		Location:     dto.Location,
		BusinessType: dto.BusinessType,
		RadiusKM:     dto.RadiusKM,
	}

	j, err := s.runner.Submit(req)
	if err != nil {
		if eris.Is(err, job.ErrQueueFull) {
			respondError(w, http.StatusServiceUnavailable, "too many searches in flight, try again later")
			return
		}
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	// History is best effort; a persistence hiccup never fails a submission.
	if s.history != nil {
		if err := s.history.Add(r.Context(), req.Location, req.BusinessType, req.RadiusKM); err != nil {
			zap.L().Warn("record search history failed", zap.Error(err))
		}
	}

	respondJSON(w, http.StatusAccepted, map[string]string{
		"job_id": j.ID,
		"status": string(j.Status),
	})
}

// handleStatus returns the current snapshot of one job.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "jobID")
	j, ok := s.registry.Get(id)
	if !ok {
		respondError(w, http.StatusNotFound, "job not found")
		return
	}
	respondJSON(w, http.StatusOK, j)
}

// handleJobs lists all jobs, newest first.
func (s *Server) handleJobs(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, s.registry.List())
}

// handleHistory lists recent search submissions.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		respondJSON(w, http.StatusOK, []struct{}{})
		return
	}
	entries, err := s.history.Recent(r.Context(), 20)
	if err != nil {
		zap.L().Error("list search history failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to load history")
		return
	}
	respondJSON(w, http.StatusOK, entries)
}

// handleDownload serves an exported artifact from the export directory.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	// Base strips any path traversal from the requested name.
	filename := filepath.Base(chi.URLParam(r, "filename"))
	path := filepath.Join(s.exportDir, filename)

	if _, err := os.Stat(path); err != nil {
		respondError(w, http.StatusNotFound, "file not found")
		return
	}

	w.Header().Set("Content-Disposition", "attachment; filename=\""+filename+"\"")
	http.ServeFile(w, r, path)
}

func respondJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, code int, message string) {
	respondJSON(w, code, map[string]string{"error": message})
}
