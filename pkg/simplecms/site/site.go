// Package site renders the public home page from published content.
package site

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/tendant/simple-cms/pkg/simplecms"
	"github.com/yuin/goldmark"
)

//go:embed templates/*.html
var templateFS embed.FS

var homeTemplate = template.Must(
	template.New("home.html").
		Funcs(template.FuncMap{"date": formatDate}).
		ParseFS(templateFS, "templates/home.html"),
)

// DefaultSiteName is shown in the page title and navigation bar.
const DefaultSiteName = "Winalum"

// Handler serves the public home page.
type Handler struct {
	service  simplecms.Service
	markdown goldmark.Markdown
	siteName string
	logger   *slog.Logger
}

// Option configures a Handler
type Option func(*Handler)

// WithSiteName overrides DefaultSiteName
func WithSiteName(name string) Option {
	return func(h *Handler) {
		if name != "" {
			h.siteName = name
		}
	}
}

// WithLogger sets the logger used for render failures
func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// NewHandler creates a home page handler reading from service
func NewHandler(service simplecms.Service, opts ...Option) *Handler {
	h := &Handler{
		service:  service,
		markdown: NewMarkdown(),
		siteName: DefaultSiteName,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

type renderedItem struct {
	ID        string
	Title     string
	Body      template.HTML
	Author    string
	CreatedAt time.Time
}

type homePage struct {
	SiteName      string
	Pages         []renderedItem
	Posts         []renderedItem
	Announcements []renderedItem
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListPublished(r.Context(), simplecms.PublishedFilter{})
	if err != nil {
		h.logger.Error("Failed to load published content", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	page, err := h.buildPage(items)
	if err != nil {
		h.logger.Error("Failed to render markdown", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := homeTemplate.Execute(&buf, page); err != nil {
		h.logger.Error("Failed to execute home template", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logger.Debug("Failed to write home page", "error", err)
	}
}

// buildPage groups published items by type, keeping insertion order.
func (h *Handler) buildPage(items []*simplecms.Item) (*homePage, error) {
	page := &homePage{SiteName: h.siteName}
	for _, item := range items {
		body, err := renderMarkdown(h.markdown, item.Content)
		if err != nil {
			return nil, err
		}
		ri := renderedItem{
			ID:        item.ID,
			Title:     item.Title,
			Body:      body,
			Author:    item.Author,
			CreatedAt: item.CreatedAt,
		}
		switch item.Type {
		case simplecms.ItemTypePage:
			page.Pages = append(page.Pages, ri)
		case simplecms.ItemTypePost:
			page.Posts = append(page.Posts, ri)
		case simplecms.ItemTypeAnnouncement:
			page.Announcements = append(page.Announcements, ri)
		}
	}
	return page, nil
}

func formatDate(t time.Time) string {
	return t.UTC().Format("January 2, 2006")
}
