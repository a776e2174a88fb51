package conversation

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	conv "github.com/brewandco/brew-counter/internal/model/conversation"
	"github.com/brewandco/brew-counter/internal/model/order"
	convservice "github.com/brewandco/brew-counter/internal/service/conversation"
)

// Handler exposes the ordering conversation over HTTP.
type Handler struct {
	convSvc *convservice.Service
}

// New creates a conversation handler.
func New(convSvc *convservice.Service) *Handler {
	return &Handler{convSvc: convSvc}
}

// RegisterRoutes registers session routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/session", h.handleCreateSession)
	r.Post("/session/{sessionID}/messages", h.handleSubmitMessage)
	r.Get("/session/{sessionID}/transcript", h.handleTranscript)
}

// handleCreateSession opens a session and returns the barista's greeting.
func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	session, welcome := h.convSvc.Begin(r.Context())

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"session": session,
		"reply":   welcome,
	})
}

type submitResponse struct {
	Reply     string         `json:"reply"`
	State     conv.State     `json:"state"`
	Finalized bool           `json:"finalized"`
	Receipt   *order.Receipt `json:"receipt,omitempty"`
	Order     *order.Order   `json:"order,omitempty"`
	Notice    string         `json:"notice,omitempty"`
}

// handleSubmitMessage runs one customer turn through the agent.
func (h *Handler) handleSubmitMessage(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var payload struct {
		Text         string `json:"text"`
		CustomerName string `json:"customerName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(payload.Text) == "" {
		respondError(w, http.StatusBadRequest, "text is required")
		return
	}

	result, err := h.convSvc.Submit(r.Context(), sessionID, payload.Text, payload.CustomerName)
	if err != nil {
		respondError(w, submitStatus(err), err.Error())
		return
	}

	session, err := h.convSvc.Session(r.Context(), sessionID)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	resp := submitResponse{
		Reply:     result.Reply,
		State:     session.State,
		Finalized: result.Finalized,
		Receipt:   result.Receipt,
		Order:     result.Order,
	}
	if result.PlaceErr != nil {
		resp.Notice = "order confirmed but not yet synced to the shop"
	}

	respondJSON(w, http.StatusOK, resp)
}

// handleTranscript returns the ordered turn history.
func (h *Handler) handleTranscript(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	turns, err := h.convSvc.Transcript(r.Context(), sessionID)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	session, err := h.convSvc.Session(r.Context(), sessionID)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"session": session,
		"turns":   turns,
	})
}

func submitStatus(err error) int {
	switch {
	case errors.Is(err, convservice.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, convservice.ErrSessionFinalized), errors.Is(err, convservice.ErrSubmitInFlight):
		return http.StatusConflict
	case errors.Is(err, convservice.ErrEmptyMessage):
		return http.StatusBadRequest
	case errors.Is(err, convservice.ErrEngineUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
