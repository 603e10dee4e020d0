package verify

import (
	"encoding/json"
	"log"
	"net/http"
)

// Handler exposes the verification endpoints.
//
//	POST /verification/request → issue a code for the caller
//	POST /verification/confirm → confirm a previously issued code
type Handler struct {
	svc *Service
}

// NewHandler returns a configured Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the verification routes on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/verification/request", h.request)
	mux.HandleFunc("/verification/confirm", h.confirm)
}

func (h *Handler) request(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	userID := r.Header.Get("x-user-id")
	if userID == "" {
		jsonError(w, "missing x-user-id header", http.StatusUnauthorized)
		return
	}

	if err := h.svc.Issue(r.Context(), userID); err != nil {
		log.Printf("[verify] issue error: %v", err)
		jsonError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	// The code itself goes out through the mailer and is never echoed to
	// the caller.
	jsonOK(w, map[string]string{"status": "sent"})
}

func (h *Handler) confirm(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	userID := r.Header.Get("x-user-id")
	if userID == "" {
		jsonError(w, "missing x-user-id header", http.StatusUnauthorized)
		return
	}

	var body struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Code == "" {
		jsonError(w, "body must contain code", http.StatusBadRequest)
		return
	}

	ok, err := h.svc.Confirm(r.Context(), userID, body.Code)
	if err != nil {
		log.Printf("[verify] confirm error: %v", err)
		jsonError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if !ok {
		jsonError(w, "invalid or expired code", http.StatusBadRequest)
		return
	}
	jsonOK(w, map[string]string{"status": "verified"})
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
