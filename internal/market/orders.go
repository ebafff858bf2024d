package market

import (
	"net/http"

	"github.com/bissquit/taskboard/internal/pkg/httputil"
)

// ListOrders handles GET /orders/ request.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.ListOrders(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, orders)
}

// CreateOrder handles POST /orders/ request. Dates are MM/DD/YYYY strings.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	fields, ok := decodeFields(w, r)
	if !ok {
		return
	}

	order, err := h.service.CreateOrder(r.Context(), fields)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusCreated, order)
}

// GetOrder handles GET /orders/{id} request.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	order, err := h.service.GetOrder(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, order)
}

// UpdateOrder handles PUT /orders/{id} request.
func (h *Handler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	fields, ok := decodeFields(w, r)
	if !ok {
		return
	}

	if err := h.service.UpdateOrder(r.Context(), id, fields); err != nil {
		h.handleError(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, successMarker)
}

// DeleteOrder handles DELETE /orders/{id} request.
func (h *Handler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteOrder(r.Context(), id); err != nil {
		h.handleError(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, successMarker)
}
