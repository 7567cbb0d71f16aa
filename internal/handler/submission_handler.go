package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/contactrelay/backend/internal/metrics"
	"github.com/contactrelay/backend/internal/model"
	"github.com/contactrelay/backend/internal/service"
)

const maxBodyBytes = 1 << 20

// SubmissionHandler handles contact form submission and listing.
type SubmissionHandler struct {
	submissionService service.SubmissionService
}

// NewSubmissionHandler creates a SubmissionHandler with the given service.
func NewSubmissionHandler(submissionService service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{submissionService: submissionService}
}

// notifyRequest is the expected JSON body for POST /notify.
// Optional fields accept any JSON value and are stored as received.
type notifyRequest struct {
	Name        string          `json:"name"`
	Email       string          `json:"email"`
	Message     string          `json:"message"`
	Subject     string          `json:"subject"`
	Company     json.RawMessage `json:"company"`
	Phone       json.RawMessage `json:"phone"`
	ProjectType json.RawMessage `json:"projectType"`
	Budget      json.RawMessage `json:"budget"`
	Timeline    json.RawMessage `json:"timeline"`
}

type notifyResponse struct {
	OK bool `json:"ok"`
}

type listResponse struct {
	Submissions []*model.Submission `json:"submissions"`
}

// Notify handles POST /notify.
// name, email, message and subject are required. The response does not depend
// on whether any administrator notification is delivered.
func (h *SubmissionHandler) Notify(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req notifyRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		metrics.SubmissionsTotal.WithLabelValues("invalid").Inc()
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid_json"})
		return
	}

	sub := &model.Submission{
		Name:        req.Name,
		Email:       req.Email,
		Message:     req.Message,
		Subject:     req.Subject,
		Company:     req.Company,
		Phone:       req.Phone,
		ProjectType: req.ProjectType,
		Budget:      req.Budget,
		Timeline:    req.Timeline,
	}

	var verr *model.ValidationError
	if err := sub.Validate(); errors.As(err, &verr) {
		metrics.SubmissionsTotal.WithLabelValues("invalid").Inc()
		slog.Debug("rejected submission", "missing", verr.Missing)
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Missing required fields"})
		return
	}

	if err := h.submissionService.Submit(r.Context(), sub); err != nil {
		metrics.SubmissionsTotal.WithLabelValues("failed").Inc()
		slog.Error("submit failed", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "submit_failed"})
		return
	}

	metrics.SubmissionsTotal.WithLabelValues("accepted").Inc()
	_ = json.NewEncoder(w).Encode(notifyResponse{OK: true})
}

// List handles GET /submissions. It returns every stored submission without
// pagination or filtering.
func (h *SubmissionHandler) List(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	subs, err := h.submissionService.List(r.Context())
	if err != nil {
		slog.Error("list submissions failed", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "list_failed"})
		return
	}

	// Return [] not null for empty lists
	if subs == nil {
		subs = []*model.Submission{}
	}
	_ = json.NewEncoder(w).Encode(listResponse{Submissions: subs})
}
