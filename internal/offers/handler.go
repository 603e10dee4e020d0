// Package offers implements the HTTP handlers for the allocation engine
// and the offer lifecycle.
//
// All routes expect an x-user-id header forwarded by the Gateway.
//
// Routes:
//
//	POST /jobs/{id}/allocate   → send offers to eligible candidates
//	GET  /jobs/{id}/capacity   → openings / accepted / remaining
//	GET  /offers               → list caller's offers
//	POST /offers/{id}/respond  → accept or reject a SENT offer
package offers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"talentbridge/offers-service/internal/apperr"
)

// Handler adapts the offers Service to HTTP.
type Handler struct {
	svc *Service
}

// NewHandler returns a configured Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts all offer and job routes on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/offers", h.handleOffers)
	mux.HandleFunc("/offers/", h.handleOfferAction)
	mux.HandleFunc("/jobs/", h.handleJobAction)
}

// ─── Route dispatch ───────────────────────────────────────────────────────────

// handleOffers handles GET /offers
func (h *Handler) handleOffers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID := r.Header.Get("x-user-id")
	if userID == "" {
		jsonError(w, "missing x-user-id header", http.StatusUnauthorized)
		return
	}

	offers, err := h.svc.ListOffers(r.Context(), userID)
	if err != nil {
		writeDomainError(w, "listOffers", err)
		return
	}
	jsonOK(w, offers)
}

// handleOfferAction handles POST /offers/{id}/respond
func (h *Handler) handleOfferAction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Parse /offers/{id}/{action}
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) != 3 {
		jsonError(w, "invalid path", http.StatusNotFound)
		return
	}
	offerID := parts[1]
	action := parts[2]

	if action != "respond" {
		jsonError(w, fmt.Sprintf("unknown action %q", action), http.StatusNotFound)
		return
	}
	h.respondToOffer(w, r, offerID)
}

// handleJobAction handles POST /jobs/{id}/allocate and GET /jobs/{id}/capacity
func (h *Handler) handleJobAction(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) != 3 {
		jsonError(w, "invalid path", http.StatusNotFound)
		return
	}
	jobID := parts[1]
	action := parts[2]

	switch {
	case action == "allocate" && r.Method == http.MethodPost:
		h.allocateOffers(w, r, jobID)
	case action == "capacity" && r.Method == http.MethodGet:
		h.jobCapacity(w, r, jobID)
	default:
		jsonError(w, fmt.Sprintf("unknown action %q", action), http.StatusNotFound)
	}
}

// ─── Individual handlers ──────────────────────────────────────────────────────

func (h *Handler) allocateOffers(w http.ResponseWriter, r *http.Request, jobID string) {
	userID := r.Header.Get("x-user-id")
	if userID == "" {
		jsonError(w, "missing x-user-id header", http.StatusUnauthorized)
		return
	}

	sent, err := h.svc.AllocateOffers(r.Context(), userID, jobID)
	if err != nil {
		writeDomainError(w, "allocateOffers", err)
		return
	}
	jsonOK(w, map[string]int{"offersSent": sent})
}

func (h *Handler) jobCapacity(w http.ResponseWriter, r *http.Request, jobID string) {
	jc, err := h.svc.JobCapacity(r.Context(), jobID)
	if err != nil {
		writeDomainError(w, "jobCapacity", err)
		return
	}
	jsonOK(w, jc)
}

func (h *Handler) respondToOffer(w http.ResponseWriter, r *http.Request, offerID string) {
	userID := r.Header.Get("x-user-id")
	if userID == "" {
		jsonError(w, "missing x-user-id header", http.StatusUnauthorized)
		return
	}

	var body struct {
		Decision string `json:"decision"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Decision == "" {
		jsonError(w, "body must contain decision", http.StatusBadRequest)
		return
	}

	offer, err := h.svc.RespondToOffer(r.Context(), userID, offerID, body.Decision)
	if err != nil {
		writeDomainError(w, "respondToOffer", err)
		return
	}
	jsonOK(w, offer)
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

// writeDomainError maps a domain error onto the wire. Internal errors are
// logged with their cause but reported generically.
func writeDomainError(w http.ResponseWriter, op string, err error) {
	code := apperr.HTTPStatus(err)
	if code == http.StatusInternalServerError {
		log.Printf("[offers] %s error: %v", op, err)
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

// jsonOK writes v as a 200 JSON response.
func jsonOK(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(v)
}

// jsonError writes a JSON error body with the given status code.
func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
