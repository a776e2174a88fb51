package orders

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/brewandco/brew-counter/internal/model/order"
	ordersservice "github.com/brewandco/brew-counter/internal/service/orders"
	"github.com/brewandco/brew-counter/pkg/utils"
)

// Handler exposes the staff-facing order board over HTTP.
type Handler struct {
	ordersSvc *ordersservice.Service
}

// New creates an orders handler.
func New(ordersSvc *ordersservice.Service) *Handler {
	return &Handler{ordersSvc: ordersSvc}
}

// RegisterRoutes registers order board routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/orders", func(ordersRouter chi.Router) {
		ordersRouter.Get("/", h.handleList)
		ordersRouter.Get("/stats", h.handleStats)
		ordersRouter.Post("/{orderID}/status", h.handleAdvanceStatus)
	})
}

// handleList reconciles against the store and returns the board oldest first.
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	orders := h.ordersSvc.Refresh(r.Context())
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"orders": orders})
}

// handleAdvanceStatus moves one order a single step along its lifecycle.
func (h *Handler) handleAdvanceStatus(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")

	var payload struct {
		Status order.Status `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !payload.Status.Valid() {
		utils.RespondError(w, http.StatusBadRequest, "unknown status: "+string(payload.Status))
		return
	}

	if err := h.ordersSvc.Advance(r.Context(), orderID, payload.Status); err != nil {
		switch {
		case errors.Is(err, ordersservice.ErrUnknownOrder):
			utils.RespondError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, ordersservice.ErrInvalidTransition):
			utils.RespondError(w, http.StatusConflict, err.Error())
		default:
			utils.RespondError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"orderId": orderID,
		"status":  payload.Status,
	})
}

// handleStats returns the owner dashboard metrics.
func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	// Reconcile first so the metrics reflect the store, not just local state.
	h.ordersSvc.Refresh(r.Context())
	utils.RespondJSON(w, http.StatusOK, h.ordersSvc.ComputeStats())
}
