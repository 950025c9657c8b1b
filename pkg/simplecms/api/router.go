package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
	"github.com/tendant/simple-cms/pkg/simplecms"
	"github.com/tendant/simple-cms/pkg/simplecms/auth"
)

// DefaultMaxRequestBytes caps JSON request bodies
const DefaultMaxRequestBytes int64 = 1 << 20

// RouterConfig wires the HTTP layer to its collaborators. Service,
// Credentials and Sessions are required; the rest is optional.
type RouterConfig struct {
	Service     simplecms.Service
	Credentials *auth.CredentialStore
	Sessions    *auth.SessionManager

	// Site serves the public HTML page at "/".
	Site http.Handler

	Metrics        MetricsCollector
	MetricsHandler http.Handler

	Logger                  *slog.Logger
	AllowedOrigins          []string
	LoginRateLimitPerMinute int
	MaxRequestBytes         int64
	RequestTimeout          time.Duration

	// TrustProxyHeaders takes the client address from X-Forwarded-For,
	// X-Real-IP or True-Client-IP. Enable only behind a proxy that sets them.
	TrustProxyHeaders bool

	// Reported by /health
	Environment string
	Database    string
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status      string `json:"status"`
	Environment string `json:"environment"`
	Database    string `json:"database"`
}

// NewRouter builds the application router
func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	maxBytes := cfg.MaxRequestBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxRequestBytes
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	if cfg.TrustProxyHeaders {
		r.Use(middleware.RealIP)
	}
	r.Use(RequestLogger(logger))
	r.Use(RecoveryMiddleware(logger))
	if cfg.Metrics != nil {
		r.Use(MetricsMiddleware(cfg.Metrics))
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "Retry-After"},
		AllowCredentials: !allowsAnyOrigin(origins),
		MaxAge:           300,
	}))
	r.Use(middleware.Timeout(timeout))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, HealthResponse{
			Status:      "healthy",
			Environment: cfg.Environment,
			Database:    cfg.Database,
		})
	})
	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}

	var loginLimit []func(http.Handler) http.Handler
	if cfg.LoginRateLimitPerMinute > 0 {
		loginLimit = append(loginLimit, NewRateLimiter(cfg.LoginRateLimitPerMinute).Middleware)
	}

	contentHandler := NewContentHandler(cfg.Service)
	publicHandler := NewPublicHandler(cfg.Service)
	authHandler := auth.NewHandler(cfg.Credentials, cfg.Sessions)

	r.Route("/api", func(r chi.Router) {
		r.Use(RequestSizeLimitMiddleware(maxBytes))
		r.Use(render.SetContentType(render.ContentTypeJSON))

		r.Mount("/auth", authHandler.Routes(loginLimit...))
		r.Mount("/public", publicHandler.Routes())

		r.Group(func(r chi.Router) {
			r.Use(cfg.Sessions.Verifier())
			r.Use(cfg.Sessions.RequireSession)

			r.Mount("/content", contentHandler.Routes())
			r.Get("/stats", contentHandler.GetStats)
		})
	})

	if cfg.Site != nil {
		r.Method(http.MethodGet, "/", cfg.Site)
	}

	return r
}

// allowsAnyOrigin reports whether origins contains the "*" wildcard, which
// browsers refuse to combine with credentialed requests.
func allowsAnyOrigin(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
