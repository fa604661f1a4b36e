package leads

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/socialboost/leads-api/pkg/logging"
)

// Handler handles HTTP requests for leads
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates a new leads handler
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		service: service,
		logger:  logger,
	}
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type submitResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	LeadID  int    `json:"leadId"`
}

type listResponse struct {
	Success bool   `json:"success"`
	Count   int    `json:"count"`
	Leads   []Lead `json:"leads"`
}

type leadResponse struct {
	Success bool `json:"success"`
	Lead    Lead `json:"lead"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type statsResponse struct {
	Success bool  `json:"success"`
	Stats   Stats `json:"stats"`
}

type healthResponse struct {
	Success   bool   `json:"success"`
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// Create handles POST /api/leads requests
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateLeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode request", "error", err)
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	lead, err := h.service.Submit(&req, requestMeta(r))
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingFields), errors.Is(err, ErrInvalidEmail):
			respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		case errors.Is(err, ErrDuplicateEmail):
			respondJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
		default:
			h.logger.Error("failed to create lead", "error", err)
			respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to save lead"})
		}
		return
	}

	respondJSON(w, http.StatusCreated, submitResponse{
		Success: true,
		Message: "lead saved successfully",
		LeadID:  lead.ID,
	})
}

// List handles GET /api/leads requests, newest first.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	all := h.service.List()
	respondJSON(w, http.StatusOK, listResponse{
		Success: true,
		Count:   len(all),
		Leads:   all,
	})
}

// Get handles GET /api/leads/{id} requests
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusNotFound, errorResponse{Error: ErrLeadNotFound.Error()})
		return
	}

	lead, err := h.service.Get(id)
	if err != nil {
		respondJSON(w, http.StatusNotFound, errorResponse{Error: ErrLeadNotFound.Error()})
		return
	}

	respondJSON(w, http.StatusOK, leadResponse{Success: true, Lead: *lead})
}

// Delete handles DELETE /api/leads/{id} requests
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusNotFound, errorResponse{Error: ErrLeadNotFound.Error()})
		return
	}

	if err := h.service.Delete(id); err != nil {
		respondJSON(w, http.StatusNotFound, errorResponse{Error: ErrLeadNotFound.Error()})
		return
	}

	respondJSON(w, http.StatusOK, messageResponse{Success: true, Message: "lead deleted successfully"})
}

// GetStats handles GET /api/stats requests
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, statsResponse{Success: true, Stats: h.service.Stats()})
}

// Health handles GET /api/health requests
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, healthResponse{
		Success:   true,
		Status:    "healthy",
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

// NotFound is the JSON 404 for unmatched routes.
func NotFound(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusNotFound, errorResponse{Error: "endpoint not found"})
}

// requestMeta captures best-effort client details: forwarded-for wins over
// the socket address, matching what the landing page sees behind a proxy.
func requestMeta(r *http.Request) RequestMeta {
	ip := strings.TrimSpace(r.Header.Get("X-Forwarded-For"))
	if ip == "" {
		ip = r.RemoteAddr
	}
	return RequestMeta{
		IPAddress: ip,
		UserAgent: r.UserAgent(),
	}
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
