package auth

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/jwtauth"
	"github.com/go-chi/render"
	"github.com/tendant/simple-cms/pkg/simplecms"
)

// CookieName is the cookie jwtauth.TokenFromCookie reads.
const CookieName = "jwt"

// DefaultSessionTTL is used when no TTL is configured
const DefaultSessionTTL = 24 * time.Hour

type contextKey string

const principalKey contextKey = "principal"

// SessionManager issues and verifies HS256 session tokens.
type SessionManager struct {
	tokenAuth    *jwtauth.JWTAuth
	ttl          time.Duration
	secureCookie bool
	now          func() time.Time
}

// NewSessionManager creates a session manager signing with secret
func NewSessionManager(secret []byte, ttl time.Duration, secureCookie bool) *SessionManager {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionManager{
		tokenAuth:    jwtauth.New("HS256", secret, nil),
		ttl:          ttl,
		secureCookie: secureCookie,
		now:          time.Now,
	}
}

// TTL returns the lifetime of issued sessions
func (m *SessionManager) TTL() time.Duration {
	return m.ttl
}

// Issue signs a session token for p.
func (m *SessionManager) Issue(p simplecms.Principal) (string, time.Time, error) {
	issuedAt := m.now()
	expiresAt := issuedAt.Add(m.ttl)
	claims := map[string]interface{}{
		"sub":  p.Email,
		"name": p.Name,
		"iat":  issuedAt.Unix(),
		"exp":  expiresAt.Unix(),
	}
	_, token, err := m.tokenAuth.Encode(claims)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt.UTC(), nil
}

// Verifier finds a token in the Authorization header or the session cookie
// and stores the verification result in the request context.
func (m *SessionManager) Verifier() func(http.Handler) http.Handler {
	return jwtauth.Verify(m.tokenAuth, jwtauth.TokenFromHeader, jwtauth.TokenFromCookie)
}

// RequireSession rejects requests without a valid session with 401 and
// attaches the principal to the context otherwise. It must run after
// Verifier.
func (m *SessionManager) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := m.principalFromToken(r.Context())
		if !ok {
			writeError(w, r, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
	})
}

func (m *SessionManager) principalFromToken(ctx context.Context) (simplecms.Principal, bool) {
	token, claims, err := jwtauth.FromContext(ctx)
	if err != nil || token == nil {
		return simplecms.Principal{}, false
	}
	if exp := token.Expiration(); !exp.IsZero() && !m.now().Before(exp) {
		return simplecms.Principal{}, false
	}

	email, _ := claims["sub"].(string)
	if email == "" {
		return simplecms.Principal{}, false
	}
	name, _ := claims["name"].(string)
	return simplecms.Principal{Email: email, Name: name}, true
}

// SetCookie stores token in an HttpOnly session cookie
func (m *SessionManager) SetCookie(w http.ResponseWriter, token string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   m.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie expires the session cookie
func (m *SessionManager) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

// WithPrincipal attaches p to ctx
func WithPrincipal(ctx context.Context, p simplecms.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFromContext returns the principal set by RequireSession
func PrincipalFromContext(ctx context.Context) (simplecms.Principal, bool) {
	p, ok := ctx.Value(principalKey).(simplecms.Principal)
	return p, ok
}

// ErrorResponse is the JSON body of every error reply
type ErrorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{Error: message})
}
