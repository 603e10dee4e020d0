// Package applications implements the HTTP handlers for the review pipeline.
//
// All routes expect an x-user-id header forwarded by the Gateway.
//
// Routes:
//
//	POST /applications                → candidate applies to a job
//	GET  /applications                → candidate's own applications
//	GET  /applications?jobId={id}     → employer review list for an owned job
//	POST /applications/{id}/status    → employer moves an application
package applications

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"talentbridge/offers-service/internal/apperr"
)

// Handler adapts the applications Service to HTTP.
type Handler struct {
	svc *Service
}

// NewHandler returns a configured Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts all application routes on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/applications", h.handleApplications)
	mux.HandleFunc("/applications/", h.handleApplicationAction)
}

// ─── Route dispatch ───────────────────────────────────────────────────────────

// handleApplications handles GET and POST /applications
func (h *Handler) handleApplications(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listApplications(w, r)
	case http.MethodPost:
		h.apply(w, r)
	default:
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleApplicationAction handles POST /applications/{id}/status
func (h *Handler) handleApplicationAction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Parse /applications/{id}/{action}
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) != 3 {
		jsonError(w, "invalid path", http.StatusNotFound)
		return
	}
	appID := parts[1]
	action := parts[2]

	if action != "status" {
		jsonError(w, fmt.Sprintf("unknown action %q", action), http.StatusNotFound)
		return
	}
	h.setStatus(w, r, appID)
}

// ─── Individual handlers ──────────────────────────────────────────────────────

func (h *Handler) apply(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("x-user-id")
	if userID == "" {
		jsonError(w, "missing x-user-id header", http.StatusUnauthorized)
		return
	}

	var body struct {
		JobID       string `json:"jobId"`
		CoverLetter string `json:"coverLetter"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.JobID == "" {
		jsonError(w, "body must contain jobId", http.StatusBadRequest)
		return
	}

	app, err := h.svc.Apply(r.Context(), userID, body.JobID, body.CoverLetter)
	if err != nil {
		writeDomainError(w, "apply", err)
		return
	}
	jsonOK(w, app)
}

func (h *Handler) setStatus(w http.ResponseWriter, r *http.Request, appID string) {
	userID := r.Header.Get("x-user-id")
	if userID == "" {
		jsonError(w, "missing x-user-id header", http.StatusUnauthorized)
		return
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Status == "" {
		jsonError(w, "body must contain status", http.StatusBadRequest)
		return
	}

	app, err := h.svc.SetStatus(r.Context(), userID, appID, body.Status)
	if err != nil {
		writeDomainError(w, "setStatus", err)
		return
	}
	jsonOK(w, app)
}

func (h *Handler) listApplications(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("x-user-id")
	if userID == "" {
		jsonError(w, "missing x-user-id header", http.StatusUnauthorized)
		return
	}

	jobID := r.URL.Query().Get("jobId")

	var (
		apps any
		err  error
	)
	if jobID != "" {
		apps, err = h.svc.ListForJob(r.Context(), userID, jobID)
	} else {
		apps, err = h.svc.ListForCandidate(r.Context(), userID)
	}
	if err != nil {
		writeDomainError(w, "listApplications", err)
		return
	}
	jsonOK(w, apps)
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func writeDomainError(w http.ResponseWriter, op string, err error) {
	code := apperr.HTTPStatus(err)
	if code == http.StatusInternalServerError {
		log.Printf("[applications] %s error: %v", op, err)
		jsonError(w, "internal server error", code)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	resp := map[string]string{"error": err.Error()}
	if rc := apperr.ConflictCode(err); rc != "" {
		resp["code"] = rc
	}
	json.NewEncoder(w).Encode(resp)
}

func jsonOK(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
