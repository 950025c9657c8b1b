package auth

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/tendant/simple-cms/pkg/simplecms"
)

// Handler serves the login, logout and session endpoints
type Handler struct {
	credentials *CredentialStore
	sessions    *SessionManager
}

// NewHandler creates a new auth handler
func NewHandler(credentials *CredentialStore, sessions *SessionManager) *Handler {
	return &Handler{
		credentials: credentials,
		sessions:    sessions,
	}
}

// LoginRequest is the request body for signing in
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is returned on a successful login
type LoginResponse struct {
	Token     string              `json:"token"`
	ExpiresAt time.Time           `json:"expiresAt"`
	User      simplecms.Principal `json:"user"`
}

// SessionResponse describes the current session
type SessionResponse struct {
	User simplecms.Principal `json:"user"`
}

// Routes returns the auth routes. loginMiddlewares wrap only the login
// endpoint (rate limiting).
func (h *Handler) Routes(loginMiddlewares ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.With(loginMiddlewares...).Post("/login", h.Login)
	r.Post("/logout", h.Logout)
	r.Group(func(r chi.Router) {
		r.Use(h.sessions.Verifier())
		r.Use(h.sessions.RequireSession)
		r.Get("/session", h.Session)
	})

	return r
}

// Login checks credentials and starts a session
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	principal, err := h.credentials.Authenticate(req.Email, req.Password)
	if err != nil {
		slog.Warn("Login failed", "email", req.Email, "remote_addr", r.RemoteAddr)
		writeError(w, r, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, expiresAt, err := h.sessions.Issue(principal)
	if err != nil {
		slog.Error("Failed to issue session token", "email", principal.Email, "error", err)
		writeError(w, r, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	h.sessions.SetCookie(w, token, expiresAt)
	slog.Info("User logged in", "email", principal.Email)
	render.JSON(w, r, LoginResponse{Token: token, ExpiresAt: expiresAt, User: principal})
}

// Logout clears the session cookie. Tokens are stateless and stay valid
// until they expire.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.ClearCookie(w)
	render.JSON(w, r, map[string]string{"message": "Logged out"})
}

// Session returns the principal of the current session
func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}
	render.JSON(w, r, SessionResponse{User: principal})
}
