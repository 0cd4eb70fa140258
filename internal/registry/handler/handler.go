package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"malkhana/internal/registry/models"
	"malkhana/internal/registry/service"
	id "malkhana/pkg/domain"
	dErrors "malkhana/pkg/domain-errors"
	"malkhana/pkg/platform/httputil"
	"malkhana/pkg/requestcontext"
)

// Handler maps HTTP verbs to registry service calls. It decodes, delegates,
// and translates; business logic stays in the service.
type Handler struct {
	service *service.Service
	logger  *slog.Logger
}

// New constructs a registry HTTP handler.
func New(s *service.Service, logger *slog.Logger) *Handler {
	return &Handler{service: s, logger: logger}
}

// Register mounts the registry routes on the given router. All routes expect
// the auth middleware to have injected the caller's scope.
func (h *Handler) Register(r chi.Router) {
	r.Route("/items", func(r chi.Router) {
		r.Post("/", h.createItem)
		r.Get("/black-ink", h.blackInkItems)
		r.Get("/red-ink", h.redInkItems)
		r.Get("/search", h.searchItems)
		r.Get("/stats", h.stats)
		r.Get("/mother/{motherNumber}", h.findByMotherNumber)
		r.Route("/{itemID}", func(r chi.Router) {
			r.Get("/", h.getItem)
			r.Patch("/", h.updateItem)
			r.Post("/dispose", h.disposeItem)
			r.Post("/shelf", h.assignShelf)
		})
	})
	r.Post("/units/{unitID}/year-transition", h.yearTransition)
}

func (h *Handler) createItem(w http.ResponseWriter, r *http.Request) {
	scope, ok := callerScope(w, r)
	if !ok {
		return
	}
	var req models.CreateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	item, err := h.service.CreateItem(r.Context(), &req, scope)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, models.ToItemResponse(item))
}

func (h *Handler) blackInkItems(w http.ResponseWriter, r *http.Request) {
	scope, ok := callerScope(w, r)
	if !ok {
		return
	}
	items, err := h.service.BlackInkItems(r.Context(), scope)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.ToItemResponses(items))
}

func (h *Handler) redInkItems(w http.ResponseWriter, r *http.Request) {
	scope, ok := callerScope(w, r)
	if !ok {
		return
	}
	items, err := h.service.RedInkItems(r.Context(), scope)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.ToItemResponses(items))
}

func (h *Handler) searchItems(w http.ResponseWriter, r *http.Request) {
	scope, ok := callerScope(w, r)
	if !ok {
		return
	}
	items, err := h.service.SearchItems(r.Context(), r.URL.Query().Get("q"), scope)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.ToItemResponses(items))
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	scope, ok := callerScope(w, r)
	if !ok {
		return
	}
	stats, err := h.service.Stats(r.Context(), scope)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, stats)
}

func (h *Handler) getItem(w http.ResponseWriter, r *http.Request) {
	scope, ok := callerScope(w, r)
	if !ok {
		return
	}
	itemID, err := id.ParseItemID(chi.URLParam(r, "itemID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	item, err := h.service.GetItem(r.Context(), itemID, scope)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.ToItemResponse(item))
}

func (h *Handler) findByMotherNumber(w http.ResponseWriter, r *http.Request) {
	scope, ok := callerScope(w, r)
	if !ok {
		return
	}
	item, err := h.service.FindByMotherNumber(r.Context(), chi.URLParam(r, "motherNumber"), scope)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.ToItemResponse(item))
}

func (h *Handler) updateItem(w http.ResponseWriter, r *http.Request) {
	scope, ok := callerScope(w, r)
	if !ok {
		return
	}
	itemID, err := id.ParseItemID(chi.URLParam(r, "itemID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	var req models.UpdateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	item, err := h.service.UpdateItem(r.Context(), itemID, &req, scope)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.ToItemResponse(item))
}

func (h *Handler) disposeItem(w http.ResponseWriter, r *http.Request) {
	scope, ok := callerScope(w, r)
	if !ok {
		return
	}
	itemID, err := id.ParseItemID(chi.URLParam(r, "itemID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	var req models.DisposeItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	item, err := h.service.DisposeItem(r.Context(), itemID, &req, scope)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.ToItemResponse(item))
}

func (h *Handler) assignShelf(w http.ResponseWriter, r *http.Request) {
	scope, ok := callerScope(w, r)
	if !ok {
		return
	}
	itemID, err := id.ParseItemID(chi.URLParam(r, "itemID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	var req models.AssignShelfRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	item, err := h.service.AssignShelf(r.Context(), itemID, &req, scope)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.ToItemResponse(item))
}

func (h *Handler) yearTransition(w http.ResponseWriter, r *http.Request) {
	scope, ok := callerScope(w, r)
	if !ok {
		return
	}
	unitID, err := id.ParseUnitID(chi.URLParam(r, "unitID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	var req models.YearTransitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	result, err := h.service.PerformYearTransition(r.Context(), unitID, &req, scope)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if httputil.StatusForCode(dErrors.CodeOf(err)) >= http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "registry request failed",
			"error", err,
			"request_id", requestcontext.RequestID(r.Context()),
		)
	}
	httputil.WriteError(w, err)
}

// callerScope pulls the authenticated unit scope out of the request context.
// A request with no scope never passed authentication.
func callerScope(w http.ResponseWriter, r *http.Request) (id.UnitScope, bool) {
	scope, ok := requestcontext.Scope(r.Context())
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return id.UnitScope{}, false
	}
	return scope, ok
}
