// Package market provides HTTP handlers and business logic for users, the orders
// they place and the offers executors make on them.
package market

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/bissquit/taskboard/internal/pkg/httputil"
	"github.com/go-chi/chi/v5"
)

// maxBodyBytes limits request bodies of create and update calls.
const maxBodyBytes = 1 << 20

// successMarker is the body of successful PUT and DELETE responses.
const successMarker = "success"

var errorMappings = []httputil.ErrorMapping{
	{Error: ErrUserNotFound, Status: http.StatusNotFound},
	{Error: ErrOrderNotFound, Status: http.StatusNotFound},
	{Error: ErrOfferNotFound, Status: http.StatusNotFound},
	{Error: ErrInvalidInput, Status: http.StatusBadRequest},
	{Error: ErrDuplicateID, Status: http.StatusConflict},
}

// Handler handles HTTP requests for the market module.
type Handler struct {
	service *Service
}

// NewHandler creates a new market handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the users, orders and offers routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/users", func(r chi.Router) {
		r.Get("/", h.ListUsers)
		r.Post("/", h.CreateUser)
		r.Get("/{id}", h.GetUser)
		r.Put("/{id}", h.UpdateUser)
		r.Delete("/{id}", h.DeleteUser)
	})

	r.Route("/orders", func(r chi.Router) {
		r.Get("/", h.ListOrders)
		r.Post("/", h.CreateOrder)
		r.Get("/{id}", h.GetOrder)
		r.Put("/{id}", h.UpdateOrder)
		r.Delete("/{id}", h.DeleteOrder)
	})

	r.Route("/offers", func(r chi.Router) {
		r.Get("/", h.ListOffers)
		r.Post("/", h.CreateOffer)
		r.Get("/{id}", h.GetOffer)
		r.Put("/{id}", h.UpdateOffer)
		r.Delete("/{id}", h.DeleteOffer)
	})
}

func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	httputil.HandleError(r.Context(), w, err, errorMappings)
}

// parseID reads the {id} path parameter. On failure it writes a 400 response.
func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "id must be an integer")
		return 0, false
	}
	return id, true
}

// decodeFields reads a JSON object body as column name -> raw value.
// On failure it writes a 400 response.
func decodeFields(w http.ResponseWriter, r *http.Request) (map[string]json.RawMessage, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	var fields map[string]json.RawMessage
	if err := dec.Decode(&fields); err != nil || fields == nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json: expected an object")
		return nil, false
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		httputil.Error(w, http.StatusBadRequest, "invalid json: extra data after object")
		return nil, false
	}

	return fields, true
}
