package market

import (
	"net/http"

	"github.com/bissquit/taskboard/internal/pkg/httputil"
)

// ListOffers handles GET /offers/ request.
func (h *Handler) ListOffers(w http.ResponseWriter, r *http.Request) {
	offers, err := h.service.ListOffers(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, offers)
}

// CreateOffer handles POST /offers/ request.
func (h *Handler) CreateOffer(w http.ResponseWriter, r *http.Request) {
	fields, ok := decodeFields(w, r)
	if !ok {
		return
	}

	offer, err := h.service.CreateOffer(r.Context(), fields)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusCreated, offer)
}

// GetOffer handles GET /offers/{id} request.
func (h *Handler) GetOffer(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	offer, err := h.service.GetOffer(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, offer)
}

// UpdateOffer handles PUT /offers/{id} request.
func (h *Handler) UpdateOffer(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	fields, ok := decodeFields(w, r)
	if !ok {
		return
	}

	if err := h.service.UpdateOffer(r.Context(), id, fields); err != nil {
		h.handleError(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, successMarker)
}

// DeleteOffer handles DELETE /offers/{id} request.
func (h *Handler) DeleteOffer(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteOffer(r.Context(), id); err != nil {
		h.handleError(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, successMarker)
}
