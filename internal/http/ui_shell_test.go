package httpx

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/educa/educa-web/internal/domain/navigation"
	"github.com/educa/educa-web/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHome_RedirectsToRoleHome(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{code: "ADMIN_ECOLE", want: "/admin/dashboard"},
		{code: "ENSEIGNANT", want: "/teacher/dashboard"},
		{code: "ELEVE", want: "/student/dashboard"},
		{code: "PARENT", want: "/student/dashboard"},
		{code: "SOMETHING_NEW", want: "/student/dashboard"},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			env := newTestEnv(t)
			env.seed(t, testScope, testutil.NewRawUser().WithRole(tt.code))

			w := env.serve(browserRequest(http.MethodGet, "/", testScope))

			assert.Equal(t, http.StatusSeeOther, w.Code)
			assert.Equal(t, tt.want, w.Header().Get("Location"))
		})
	}
}

func TestHome_WithoutSession(t *testing.T) {
	env := newTestEnv(t)
	w := env.serve(browserRequest(http.MethodGet, "/", ""))
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, testLoginURL, w.Header().Get("Location"))
}

func TestPage_RendersShell(t *testing.T) {
	env := newTestEnv(t, navigation.ModuleAI)
	env.seed(t, testScope, testutil.NewRawUser().WithName("Awa", "Diallo"))

	w := env.serve(browserRequest(http.MethodGet, "/admin/students", testScope))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	body := w.Body.String()
	assert.True(t, containsAll(body, []string{
		`<html lang="fr">`,
		"<h1>Élèves</h1>",
		`<a href="/admin/dashboard">Tableau de bord</a>`,
		`<a href="/admin/students" class="active" aria-current="page">Élèves</a>`,
		"Assistant IA",
		"Awa Diallo",
		"Administrateur",
		`action="/auth/logout"`,
		"Se déconnecter",
	}), body)
	assert.NotContains(t, body, "Abonnement", "inactive module entries are hidden")
	assert.NotContains(t, body, "/teacher/")
}

func TestPage_ModuleFiltering(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, testScope, testutil.NewRawUser().WithRole("ENSEIGNANT"))

	w := env.serve(browserRequest(http.MethodGet, "/teacher/classes", testScope))

	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "Assistant IA")

	w = env.serve(browserRequest(http.MethodGet, "/teacher/assistant", testScope))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestPage_Locale(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, testScope, testutil.NewRawUser())

	r := browserRequest(http.MethodGet, "/admin/students", testScope)
	r.Header.Set("Accept-Language", "en-GB,en;q=0.9,fr;q=0.5")
	body := env.serve(r).Body.String()
	assert.True(t, containsAll(body, []string{`<html lang="en">`, "<h1>Students</h1>", "Sign out", "Administrator"}), body)

	r = browserRequest(http.MethodGet, "/admin/students", testScope)
	r.Header.Set("Accept-Language", "en")
	r.AddCookie(&http.Cookie{Name: testLocaleCookie, Value: "fr"})
	assert.Contains(t, env.serve(r).Body.String(), "<h1>Élèves</h1>")
}

func TestPage_TrailingSlash(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, testScope, testutil.NewRawUser())

	w := env.serve(browserRequest(http.MethodGet, "/admin/students/", testScope))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPage_Refused(t *testing.T) {
	tests := []struct {
		name   string
		code   string
		path   string
		status int
		text   string
	}{
		{name: "other role's page", code: "ENSEIGNANT", path: "/admin/students", status: http.StatusForbidden, text: "Accès refusé"},
		{name: "student on teacher page", code: "ELEVE", path: "/teacher/grades", status: http.StatusForbidden, text: "Accès refusé"},
		{name: "inactive module", code: "ADMIN_ECOLE", path: "/admin/subscription", status: http.StatusForbidden, text: "Accès refusé"},
		{name: "unknown page", code: "ADMIN_ECOLE", path: "/admin/nope", status: http.StatusNotFound, text: "Page introuvable"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.seed(t, testScope, testutil.NewRawUser().WithRole(tt.code))

			w := env.serve(browserRequest(http.MethodGet, tt.path, testScope))

			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), tt.text)
		})
	}
}

func TestPage_RefusedJSON(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, testScope, testutil.NewRawUser().WithRole("ELEVE"))

	r := browserRequest(http.MethodGet, "/admin/dashboard", testScope)
	r.Header.Set("Accept", "application/json")
	w := env.serve(r)

	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "forbidden", decodeBody(t, w)["error"])
}

func TestPage_HTMXPartial(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, testScope, testutil.NewRawUser())

	r := browserRequest(http.MethodGet, "/admin/grades", testScope)
	r.Header.Set("Hx-Request", "true")
	w := env.serve(r)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "<h1>Notes</h1>")
	assert.NotContains(t, body, "<html")

	r.Header.Set("Hx-History-Restore-Request", "true")
	assert.Contains(t, env.serve(r).Body.String(), "<html")
}

func TestNotFound(t *testing.T) {
	env := newTestEnv(t)

	w := env.serve(browserRequest(http.MethodGet, "/nowhere", ""))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Page introuvable")

	r := httptest.NewRequest(http.MethodGet, "/api/nowhere", nil)
	w = env.serve(r)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "not_found", decodeBody(t, w)["error"])
}

func localeForm(locale, redirectTo string) *http.Request {
	form := url.Values{"locale": {locale}, "redirect_to": {redirectTo}, "csrf_token": {testCSRFToken}}
	r := httptest.NewRequest(http.MethodPost, PathLocale, strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.Header.Set("Accept", "text/html")
	r.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: testCSRFToken})
	return r
}

func TestSetLocale(t *testing.T) {
	env := newTestEnv(t)

	w := env.serve(localeForm("en", "/admin/students"))
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/admin/students", w.Header().Get("Location"))
	c := findCookie(t, w, testLocaleCookie)
	require.NotNil(t, c)
	assert.Equal(t, "en", c.Value)

	w = env.serve(localeForm("en", "https://evil.example/"))
	assert.Equal(t, "/", w.Header().Get("Location"))

	w = env.serve(localeForm("de", "/"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "unsupported_locale", decodeBody(t, w)["error"])
}

func TestUIHandlers_FromDiskTemplates(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, testScope, testutil.NewRawUser())
	h := &UIHandlers{T: diskTemplates(t), Nav: env.Nav, Locales: env.locales()}
	gate := newTestGate(env.Auth)

	w := httptest.NewRecorder()
	gate.Protect(h.Page).ServeHTTP(w, browserRequest(http.MethodGet, "/admin/classes", testScope))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<h1>Classes</h1>")
}

func TestSafeRedirectPath(t *testing.T) {
	cases := map[string]string{
		"":                     "/",
		"/admin/students":      "/admin/students",
		"/admin?x=1":           "/admin?x=1",
		"//evil.example":       "/",
		"https://evil.example": "/",
		`/\evil.example`:       "/",
		"relative":             "/",
	}
	for in, want := range cases {
		assert.Equal(t, want, safeRedirectPath(in), "input %q", in)
	}
}
