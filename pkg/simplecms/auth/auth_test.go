package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-cms/pkg/simplecms"
)

var testSecret = []byte("test-secret-with-at-least-32-bytes!!")

func newTestStore(t *testing.T) *CredentialStore {
	t.Helper()
	hash, err := HashPassword("admin123")
	require.NoError(t, err)
	store, err := NewCredentialStore(User{Email: "admin@winalum.com", Name: "Admin User", PasswordHash: hash})
	require.NoError(t, err)
	return store
}

func TestCredentialStore_Authenticate(t *testing.T) {
	store := newTestStore(t)

	p, err := store.Authenticate(" Admin@Winalum.com ", "admin123")
	require.NoError(t, err)
	assert.Equal(t, simplecms.Principal{Email: "admin@winalum.com", Name: "Admin User"}, p)

	_, err = store.Authenticate("admin@winalum.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = store.Authenticate("nobody@winalum.com", "admin123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = store.Authenticate("admin@winalum.com", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestNewCredentialStore_RejectsBadUsers(t *testing.T) {
	_, err := NewCredentialStore(User{Email: "", PasswordHash: "x"})
	assert.Error(t, err)

	_, err = NewCredentialStore(User{Email: "a@b.c"})
	assert.Error(t, err)

	_, err = NewCredentialStore(User{Email: "a@b.c", PasswordHash: "plaintext"})
	assert.Error(t, err)
}

func protectedRouter(m *SessionManager) http.Handler {
	r := chi.NewRouter()
	r.Use(m.Verifier())
	r.Use(m.RequireSession)
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		p, _ := PrincipalFromContext(r.Context())
		w.Write([]byte(p.Name))
	})
	return r
}

func TestSessionManager_RequireSession(t *testing.T) {
	m := NewSessionManager(testSecret, time.Hour, false)
	token, expiresAt, err := m.Issue(simplecms.Principal{Email: "admin@winalum.com", Name: "Admin User"})
	require.NoError(t, err)
	assert.True(t, expiresAt.After(time.Now()))

	router := protectedRouter(m)

	t.Run("bearer header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "Admin User", rr.Body.String())
	})

	t.Run("cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("missing token", func(t *testing.T) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.JSONEq(t, `{"error":"Unauthorized"}`, rr.Body.String())
	})

	t.Run("token signed with another secret", func(t *testing.T) {
		other := NewSessionManager([]byte("another-secret-with-at-least-32-bytes"), time.Hour, false)
		forged, _, err := other.Issue(simplecms.Principal{Email: "admin@winalum.com", Name: "Admin User"})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+forged)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestSessionManager_ExpiredToken(t *testing.T) {
	m := NewSessionManager(testSecret, time.Hour, false)
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, _, err := m.Issue(simplecms.Principal{Email: "admin@winalum.com", Name: "Admin User"})
	require.NoError(t, err)
	m.now = time.Now

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	protectedRouter(m).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestHandler_LoginAndSession(t *testing.T) {
	m := NewSessionManager(testSecret, time.Hour, false)
	h := NewHandler(newTestStore(t), m)
	router := h.Routes()

	body, _ := json.Marshal(LoginRequest{Email: "admin@winalum.com", Password: "admin123"})
	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var resp LoginResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "Admin User", resp.User.Name)

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	req = httptest.NewRequest(http.MethodGet, "/session", nil)
	req.AddCookie(cookies[0])
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var session SessionResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &session))
	assert.Equal(t, "admin@winalum.com", session.User.Email)
}

func TestHandler_LoginFailures(t *testing.T) {
	h := NewHandler(newTestStore(t), NewSessionManager(testSecret, time.Hour, false))
	router := h.Routes()

	tests := []struct {
		name     string
		body     string
		wantCode int
		wantBody string
	}{
		{"wrong password", `{"email":"admin@winalum.com","password":"nope"}`, http.StatusUnauthorized, `{"error":"Invalid credentials"}`},
		{"malformed body", `{"email":`, http.StatusBadRequest, `{"error":"Invalid request body"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewBufferString(tt.body))
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantCode, rr.Code)
			assert.JSONEq(t, tt.wantBody, rr.Body.String())
			assert.Empty(t, rr.Result().Cookies())
		})
	}
}

func TestHandler_Logout(t *testing.T) {
	h := NewHandler(newTestStore(t), NewSessionManager(testSecret, time.Hour, false))

	rr := httptest.NewRecorder()
	h.Routes().ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/logout", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)
}
