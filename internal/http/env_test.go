package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	educa "github.com/educa/educa-web"
	"github.com/educa/educa-web/internal/adapters/authroles"
	"github.com/educa/educa-web/internal/adapters/memory"
	"github.com/educa/educa-web/internal/adapters/translations"
	"github.com/educa/educa-web/internal/domain/handoff"
	"github.com/educa/educa-web/internal/domain/navigation"
	"github.com/educa/educa-web/internal/service"
	"github.com/educa/educa-web/internal/testutil"
	"github.com/stretchr/testify/require"
)

const (
	testLoginURL      = "https://login.educa.test/login"
	testBrowserCookie = "educa_browser"
	testLocaleCookie  = "educa_locale"
	testScope         = "1b4e28ba-2fa1-11d2-883f-0016d3cca427"
	testCSRFToken     = "test-csrf-token"
)

// testEnv wires the real services over in-memory storage.
type testEnv struct {
	Storage      *memory.LocalStorage
	Auth         *service.AuthService
	Nav          *navigation.Resolver
	Translations *translations.Provider
	Router       http.Handler
}

func newTestEnv(t *testing.T, modules ...string) *testEnv {
	t.Helper()
	logger := slog.New(slog.DiscardHandler)

	storage := memory.NewLocalStorage()
	sessions := service.NewSessionStore(service.SessionStoreOptions{
		Storage: storage,
		Roles:   authroles.StaticRoleMapper{},
		Logger:  logger,
	})
	auth := service.NewAuthService(service.AuthServiceOptions{
		Sessions: sessions,
		Config:   service.AuthServiceConfig{LoginURL: testLoginURL},
		Logger:   logger,
	})
	tp, err := translations.Load(educa.I18nFS, "frontend/i18n", "fr")
	require.NoError(t, err)
	nav := navigation.NewResolver(navigation.NewModuleSet(modules...))

	router, err := NewRouter(RouterServices{
		Auth:          auth,
		Navigation:    nav,
		Translations:  tp,
		BrowserCookie: testBrowserCookie,
		LocaleCookie:  testLocaleCookie,
		Logger:        logger,
	})
	require.NoError(t, err)

	return &testEnv{Storage: storage, Auth: auth, Nav: nav, Translations: tp, Router: router}
}

// seed establishes a session for scope through the real handoff path.
func (e *testEnv) seed(t *testing.T, scope string, user *testutil.RawUserBuilder) {
	t.Helper()
	b := user.Bundle("at-" + scope)
	b.RefreshToken = "rt-" + scope
	_, err := e.Auth.CompleteHandoff(context.Background(), scope, handoff.Encode(b))
	require.NoError(t, err)
}

func (e *testEnv) locales() LocaleResolver {
	return LocaleResolver{Translations: e.Translations, CookieName: testLocaleCookie}
}

func (e *testEnv) serve(r *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	e.Router.ServeHTTP(w, r)
	return w
}

// browserRequest builds a top-level navigation from a browser holding scope.
func browserRequest(method, target, scope string) *http.Request {
	r := httptest.NewRequest(method, target, nil)
	r.Header.Set("Accept", "text/html,application/xhtml+xml")
	if scope != "" {
		r.AddCookie(&http.Cookie{Name: testBrowserCookie, Value: scope})
	}
	return r
}

// withCSRF attaches a matching double-submit cookie and header.
func withCSRF(r *http.Request) *http.Request {
	r.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: testCSRFToken})
	r.Header.Set(DefaultCSRFHeaderName, testCSRFToken)
	return r
}
