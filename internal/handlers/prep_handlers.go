package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	models "github.com/quantalab/qprep/internal/models/prep"
	"github.com/quantalab/qprep/internal/prep"
)

// PrepHandler manages state preparation HTTP requests
type PrepHandler struct {
	jobManager *prep.JobManager
}

// NewPrepHandler creates a handler backed by the given job manager
func NewPrepHandler(jm *prep.JobManager) *PrepHandler {
	return &PrepHandler{jobManager: jm}
}

// JobsHandler handles POST /api/v1/prep/jobs
// Synthesizes a circuit for the requested target state
func (h *PrepHandler) JobsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req models.PrepRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	job, err := h.jobManager.CreateJob(&req)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondWithJSON(w, http.StatusCreated, job.ToResponse())
}

// JobHandler handles GET and DELETE on /api/v1/prep/jobs/{id}
func (h *PrepHandler) JobHandler(w http.ResponseWriter, r *http.Request) {
	pathParts := strings.Split(r.URL.Path, "/")
	if len(pathParts) < 6 {
		respondWithError(w, http.StatusBadRequest, "Invalid URL format")
		return
	}

	jobID, err := uuid.Parse(pathParts[5])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid job ID")
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.getJob(w, jobID)
	case http.MethodDelete:
		h.cancelJob(w, jobID)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *PrepHandler) getJob(w http.ResponseWriter, jobID uuid.UUID) {
	job, err := h.jobManager.GetJob(jobID)
	if err != nil {
		respondWithError(w, http.StatusNotFound, err.Error())
		return
	}
	respondWithJSON(w, http.StatusOK, job.ToResponse())
}

func (h *PrepHandler) cancelJob(w http.ResponseWriter, jobID uuid.UUID) {
	if err := h.jobManager.CancelJob(jobID); err != nil {
		statusCode := http.StatusInternalServerError
		if err == models.ErrJobNotFound {
			statusCode = http.StatusNotFound
		} else if err == models.ErrJobNotCancellable {
			statusCode = http.StatusConflict
		}
		respondWithError(w, statusCode, err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{
		"message": "Job cancelled successfully",
	})
}

// HealthCheckHandler handles GET /api/v1/prep/health
// Returns health status of the preparation service
func (h *PrepHandler) HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	health := map[string]interface{}{
		"status":  "healthy",
		"service": "Quantum State Preparation",
		"version": "1.0.0",
		"jobs":    h.jobManager.JobCount(),
	}

	respondWithJSON(w, http.StatusOK, health)
}

// respondWithJSON sends a JSON response
func respondWithJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// respondWithError sends an error response
func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}
