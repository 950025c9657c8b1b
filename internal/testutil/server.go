// Package testutil starts a fully wired server for end-to-end tests.
package testutil

import (
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-cms/pkg/simplecms"
	"github.com/tendant/simple-cms/pkg/simplecms/api"
	"github.com/tendant/simple-cms/pkg/simplecms/auth"
	"github.com/tendant/simple-cms/pkg/simplecms/metrics"
	"github.com/tendant/simple-cms/pkg/simplecms/repo/memory"
	"github.com/tendant/simple-cms/pkg/simplecms/site"
	"golang.org/x/crypto/bcrypt"
)

// Admin credentials accepted by the test server
const (
	AdminEmail    = "admin@winalum.com"
	AdminName     = "Admin User"
	AdminPassword = "admin123"
)

// Server is a running test server and its collaborators
type Server struct {
	*httptest.Server
	Service simplecms.Service
	Metrics *metrics.Collector
}

// SetupTestServer starts a server over the seeded in-memory repository
// with every route configured. It is closed when the test ends.
func SetupTestServer(t *testing.T) *Server {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	collector := metrics.New()

	svc, err := simplecms.New(
		simplecms.WithRepository(memory.NewSeeded()),
		simplecms.WithEventSink(simplecms.NewMultiEventSink(
			simplecms.NewLoggingEventSink(logger),
			collector.EventSink(),
		)),
		simplecms.WithLogger(logger),
	)
	require.NoError(t, err)

	hash, err := bcrypt.GenerateFromPassword([]byte(AdminPassword), bcrypt.MinCost)
	require.NoError(t, err)
	creds, err := auth.NewCredentialStore(auth.User{Email: AdminEmail, Name: AdminName, PasswordHash: string(hash)})
	require.NoError(t, err)

	router := api.NewRouter(api.RouterConfig{
		Service:                 svc,
		Credentials:             creds,
		Sessions:                auth.NewSessionManager([]byte("testutil-secret-with-at-least-32-bytes"), time.Hour, false),
		Site:                    site.NewHandler(svc, site.WithLogger(logger)),
		Metrics:                 collector,
		MetricsHandler:          collector.Handler(),
		Logger:                  logger,
		LoginRateLimitPerMinute: 100,
		Environment:             "testing",
		Database:                "memory",
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &Server{Server: srv, Service: svc, Metrics: collector}
}
