package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

// Client issues requests against a test server, optionally with a session token
type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

// NewClient creates an unauthenticated client for srv
func NewClient(srv *Server) *Client {
	return &Client{BaseURL: srv.URL, HTTP: srv.Client()}
}

// Login signs in with the test admin and stores the returned token
func (c *Client) Login(t *testing.T) {
	t.Helper()
	resp := c.Do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    AdminEmail,
		"password": AdminPassword,
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.NotEmpty(t, body.Token)
	c.Token = body.Token
}

// Do sends body as JSON when non-nil and returns the raw response
func (c *Client) Do(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.BaseURL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTP.Do(req)
	require.NoError(t, err)
	return resp
}

// DoJSON sends a request, asserts the status code and decodes the body into out
func (c *Client) DoJSON(t *testing.T, method, path string, body any, wantStatus int, out any) {
	t.Helper()
	resp := c.Do(t, method, path, body)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, wantStatus, resp.StatusCode, string(data))

	if out != nil {
		require.NoError(t, json.Unmarshal(data, out))
	}
}

// ReadBody returns the full response body as a string
func ReadBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(data)
}
