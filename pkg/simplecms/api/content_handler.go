package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/tendant/simple-cms/pkg/simplecms"
	"github.com/tendant/simple-cms/pkg/simplecms/auth"
)

// ContentHandler handles the authenticated content API
type ContentHandler struct {
	service simplecms.Service
}

// NewContentHandler creates a new content handler
func NewContentHandler(service simplecms.Service) *ContentHandler {
	return &ContentHandler{service: service}
}

// Routes returns the routes for content
func (h *ContentHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListContent)
	r.Post("/", h.CreateContent)
	r.Get("/{id}", h.GetContent)
	r.Put("/{id}", h.UpdateContent)
	r.Delete("/{id}", h.DeleteContent)

	return r
}

// CreateContentRequest is the request body for creating a content item
type CreateContentRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Type    string `json:"type"`
	Status  string `json:"status"`
}

// UpdateContentRequest is the request body for updating a content item.
// Absent fields are left untouched; id, author and timestamps are ignored.
type UpdateContentRequest struct {
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
	Type    *string `json:"type,omitempty"`
	Status  *string `json:"status,omitempty"`
}

// MessageResponse carries a human readable confirmation
type MessageResponse struct {
	Message string `json:"message"`
}

// ListContent returns every item in insertion order
func (h *ContentHandler) ListContent(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListItems(r.Context())
	if err != nil {
		handleServiceError(w, r, err, "list content")
		return
	}
	if items == nil {
		items = []*simplecms.Item{}
	}
	render.JSON(w, r, items)
}

// GetContent returns a single item
func (h *ContentHandler) GetContent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	item, err := h.service.GetItem(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, err, "get content")
		return
	}
	render.JSON(w, r, item)
}

// CreateContent creates a new item authored by the session principal
func (h *ContentHandler) CreateContent(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req CreateContentRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, msgInvalidBody)
		return
	}

	item, err := h.service.CreateItem(r.Context(), principal, simplecms.CreateItemRequest{
		Title:   req.Title,
		Content: req.Content,
		Type:    req.Type,
		Status:  req.Status,
	})
	if err != nil {
		handleServiceError(w, r, err, "create content")
		return
	}

	slog.Debug("Content created via API", "content_id", item.ID, "author", item.Author)
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, item)
}

// UpdateContent applies a partial update to an item
func (h *ContentHandler) UpdateContent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req UpdateContentRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, msgInvalidBody)
		return
	}

	item, err := h.service.UpdateItem(r.Context(), id, simplecms.UpdateItemRequest{
		Title:   req.Title,
		Content: req.Content,
		Type:    req.Type,
		Status:  req.Status,
	})
	if err != nil {
		handleServiceError(w, r, err, "update content")
		return
	}
	render.JSON(w, r, item)
}

// DeleteContent removes an item permanently
func (h *ContentHandler) DeleteContent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.DeleteItem(r.Context(), id); err != nil {
		handleServiceError(w, r, err, "delete content")
		return
	}
	render.JSON(w, r, MessageResponse{Message: "Content deleted successfully"})
}

// GetStats returns aggregate counts over the collection
func (h *ContentHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		handleServiceError(w, r, err, "stats")
		return
	}
	render.JSON(w, r, stats)
}
