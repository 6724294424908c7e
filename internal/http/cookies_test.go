package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findCookie(t *testing.T, w *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	res := w.Result()
	defer res.Body.Close()
	for _, c := range res.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestBrowserScope_Read(t *testing.T) {
	b := BrowserScope{CookieName: "educa_browser"}
	id := uuid.NewString()

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, b.Read(r))

	r.AddCookie(&http.Cookie{Name: "educa_browser", Value: id})
	assert.Equal(t, id, b.Read(r))

	bad := httptest.NewRequest(http.MethodGet, "/", nil)
	bad.AddCookie(&http.Cookie{Name: "educa_browser", Value: "../../etc"})
	assert.Empty(t, b.Read(bad))
}

func TestBrowserScope_Ensure(t *testing.T) {
	b := BrowserScope{CookieName: "educa_browser", CookieDomain: "educa.test"}

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/auth/handoff", nil)
	r.Header.Set("X-Forwarded-Proto", "http, https")
	scope := b.Ensure(w, r)
	require.NotEmpty(t, scope)

	c := findCookie(t, w, "educa_browser")
	require.NotNil(t, c)
	assert.Equal(t, scope, c.Value)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, "educa.test", c.Domain)
	assert.Equal(t, browserScopeMaxAge, c.MaxAge)

	// Existing scope is reused without a new cookie.
	w2 := httptest.NewRecorder()
	r2 := httptest.NewRequest(http.MethodGet, "/", nil)
	r2.AddCookie(&http.Cookie{Name: "educa_browser", Value: scope})
	assert.Equal(t, scope, b.Ensure(w2, r2))
	assert.Nil(t, findCookie(t, w2, "educa_browser"))
}

func TestAppCookie_Clear(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/locale", nil)
	appCookie{name: "educa_locale", domain: "educa.test", maxAge: 60, httpOnly: true}.clear(w, r)

	c := findCookie(t, w, "educa_locale")
	require.NotNil(t, c)
	assert.Equal(t, -1, c.MaxAge)
	assert.Empty(t, c.Value)
	assert.Equal(t, "educa.test", c.Domain)
	assert.Equal(t, "/", c.Path)
}

func TestIsSecureRequest(t *testing.T) {
	tests := []struct {
		proto string
		want  bool
	}{
		{proto: "", want: false},
		{proto: "http", want: false},
		{proto: "HTTPS", want: true},
		{proto: "http, https", want: true},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		if tt.proto != "" {
			r.Header.Set("X-Forwarded-Proto", tt.proto)
		}
		assert.Equal(t, tt.want, isSecureRequest(r), "proto %q", tt.proto)
	}
}
