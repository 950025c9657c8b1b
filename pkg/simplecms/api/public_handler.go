package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/tendant/simple-cms/pkg/simplecms"
)

// PublicHandler serves published content without authentication
type PublicHandler struct {
	service simplecms.Service
}

// NewPublicHandler creates a new public handler
func NewPublicHandler(service simplecms.Service) *PublicHandler {
	return &PublicHandler{service: service}
}

// Routes returns the public routes
func (h *PublicHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/content", h.ListPublished)
	return r
}

// ListPublished returns published items, optionally narrowed with ?type=
func (h *PublicHandler) ListPublished(w http.ResponseWriter, r *http.Request) {
	var filter simplecms.PublishedFilter
	if raw := r.URL.Query().Get("type"); raw != "" {
		t, ok := simplecms.ParseItemType(raw)
		if !ok {
			writeError(w, r, http.StatusBadRequest, msgInvalidType)
			return
		}
		filter.Type = t
	}

	items, err := h.service.ListPublished(r.Context(), filter)
	if err != nil {
		handleServiceError(w, r, err, "list published")
		return
	}
	render.JSON(w, r, items)
}
