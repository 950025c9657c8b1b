package site

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-cms/pkg/simplecms"
	"github.com/tendant/simple-cms/pkg/simplecms/repo/memory"
)

func newTestHandler(t *testing.T) (*Handler, simplecms.Service) {
	t.Helper()
	svc, err := simplecms.New(simplecms.WithRepository(memory.NewSeeded()))
	require.NoError(t, err)
	return NewHandler(svc, WithSiteName("Test Site")), svc
}

func TestHandler_RendersPublishedContent(t *testing.T) {
	h, _ := newTestHandler(t)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/html; charset=utf-8", rr.Header().Get("Content-Type"))

	body := rr.Body.String()
	assert.Contains(t, body, "<title>Test Site</title>")
	assert.Contains(t, body, "Welcome to Winalum")
	assert.Contains(t, body, "About Us")
	assert.Contains(t, body, "Latest News Update")
	assert.Contains(t, body, "January 17, 2024")
	assert.NotContains(t, body, `id="announcements"`)
}

func TestHandler_RendersMarkdownWithoutRawHTML(t *testing.T) {
	h, svc := newTestHandler(t)

	_, err := svc.CreateItem(context.Background(),
		simplecms.Principal{Email: "admin@winalum.com", Name: "Admin User"},
		simplecms.CreateItemRequest{
			Title:   "Closure",
			Content: "Office **closed** on Friday.\n\n<script>alert(1)</script>",
			Type:    "announcement",
			Status:  "published",
		})
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	body := rr.Body.String()
	assert.Contains(t, body, `id="announcements"`)
	assert.Contains(t, body, "<strong>closed</strong>")
	assert.NotContains(t, body, "<script>alert(1)</script>")
}

func TestBuildPage_GroupsByType(t *testing.T) {
	h, _ := newTestHandler(t)

	page, err := h.buildPage([]*simplecms.Item{
		{ID: "a", Title: "A", Content: "a", Type: simplecms.ItemTypePost},
		{ID: "b", Title: "B", Content: "b", Type: simplecms.ItemTypePage},
		{ID: "c", Title: "C", Content: "c", Type: simplecms.ItemTypePost},
	})
	require.NoError(t, err)

	require.Len(t, page.Posts, 2)
	assert.Equal(t, "a", page.Posts[0].ID)
	assert.Equal(t, "c", page.Posts[1].ID)
	require.Len(t, page.Pages, 1)
	assert.Empty(t, page.Announcements)
}

type brokenWriter struct {
	*httptest.ResponseRecorder
}

func (w brokenWriter) Write([]byte) (int, error) {
	return 0, errors.New("connection reset")
}

func TestHandler_LogsWriteFailure(t *testing.T) {
	svc, err := simplecms.New(simplecms.WithRepository(memory.NewSeeded()))
	require.NoError(t, err)

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	h := NewHandler(svc, WithLogger(logger))

	h.ServeHTTP(brokenWriter{httptest.NewRecorder()}, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Contains(t, logs.String(), "Failed to write home page")
	assert.Contains(t, logs.String(), "connection reset")
}
