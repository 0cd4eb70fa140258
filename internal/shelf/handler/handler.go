package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"malkhana/internal/shelf/models"
	"malkhana/internal/shelf/service"
	id "malkhana/pkg/domain"
	dErrors "malkhana/pkg/domain-errors"
	"malkhana/pkg/platform/httputil"
	"malkhana/pkg/requestcontext"
)

// Handler wires HTTP endpoints to the shelf directory.
type Handler struct {
	service *service.Service
	logger  *slog.Logger
}

func New(s *service.Service, logger *slog.Logger) *Handler {
	return &Handler{service: s, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Route("/shelves", func(r chi.Router) {
		r.Post("/", h.createShelf)
		r.Get("/", h.listShelves)
		r.Get("/{shelfID}", h.getShelf)
	})
}

func (h *Handler) createShelf(w http.ResponseWriter, r *http.Request) {
	scope, ok := callerScope(w, r)
	if !ok {
		return
	}
	var req models.CreateShelfRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	shelf, err := h.service.CreateShelf(r.Context(), &req, scope)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, models.ToShelfResponse(shelf))
}

func (h *Handler) listShelves(w http.ResponseWriter, r *http.Request) {
	scope, ok := callerScope(w, r)
	if !ok {
		return
	}
	shelves, err := h.service.ListShelves(r.Context(), scope)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	out := make([]models.ShelfResponse, 0, len(shelves))
	for _, s := range shelves {
		out = append(out, models.ToShelfResponse(s))
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) getShelf(w http.ResponseWriter, r *http.Request) {
	scope, ok := callerScope(w, r)
	if !ok {
		return
	}
	shelfID, err := id.ParseShelfID(chi.URLParam(r, "shelfID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	shelf, err := h.service.GetShelf(r.Context(), shelfID, scope)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.ToShelfResponse(shelf))
}

func callerScope(w http.ResponseWriter, r *http.Request) (id.UnitScope, bool) {
	scope, ok := requestcontext.Scope(r.Context())
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return id.UnitScope{}, false
	}
	return scope, ok
}
