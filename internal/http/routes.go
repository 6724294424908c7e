package httpx

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"maps"
	"net/http"
	"os"

	educa "github.com/educa/educa-web"
	"github.com/educa/educa-web/internal/domain/navigation"
	"github.com/educa/educa-web/internal/ports"
)

const staticRoot = "frontend/static"

// RouterServices is what NewRouter wires into handlers. Auth, Navigation and
// Translations are required.
type RouterServices struct {
	Auth         AuthServiceInterface
	Navigation   *navigation.Resolver
	Translations ports.TranslationProvider
	Storage      Pinger         // optional; makes /healthz check storage
	DevAuth      DevLoginIssuer // optional; enables GET /auth/dev-login

	BrowserCookie string
	LocaleCookie  string
	CookieDomain  string

	IsDev  bool // templates and static files load from disk
	Logger *slog.Logger
}

// NewRouter builds the full handler tree. Health and static routes sit outside
// CSRF protection; everything else goes through it and the not-found page.
func NewRouter(services RouterServices) (http.Handler, error) {
	if services.Auth == nil || services.Navigation == nil || services.Translations == nil {
		return nil, errors.New("router requires auth, navigation and translations")
	}
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	tr, err := NewTemplateRenderer(TemplateRendererConfig{
		TemplateFS: templateFS(services.IsDev, logger),
		Logger:     logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create template renderer: %w", err)
	}

	scope := BrowserScope{CookieName: services.BrowserCookie, CookieDomain: services.CookieDomain}
	locales := LocaleResolver{
		Translations: services.Translations,
		CookieName:   services.LocaleCookie,
		CookieDomain: services.CookieDomain,
	}
	gate := NewGate(GateOptions{Auth: services.Auth, Scope: scope, Logger: logger})
	authHandlers := &AuthHandlers{
		Svc:      services.Auth,
		Scope:    scope,
		Renderer: tr,
		Locales:  locales,
		DevAuth:  services.DevAuth,
		Logger:   logger,
	}
	uiHandlers := &UIHandlers{T: tr, Nav: services.Navigation, Locales: locales, Logger: logger}

	app := http.NewServeMux()
	registerAuthRoutes(app, authHandlers, gate)
	registerUIRoutes(app, uiHandlers, gate)

	csrf := CSRFProtection(CSRFConfig{CookieDomain: services.CookieDomain})

	mux := http.NewServeMux()
	health := HealthHandler{Storage: services.Storage, Logger: logger}
	mux.Handle("GET /healthz", health)
	mux.Handle("HEAD /healthz", health)
	mux.Handle("GET "+PathStatic, staticHandler(services.IsDev, logger))
	mux.Handle("/", csrf(withNotFoundPage(app, uiHandlers.NotFound)))

	return BrowserDetection()(mux), nil
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers, gate *Gate) {
	mux.Handle("GET "+PathHandoff, NoStore(http.HandlerFunc(h.HandoffPage)))
	mux.Handle("POST "+PathHandoff, NoStore(http.HandlerFunc(h.CompleteHandoff)))
	mux.Handle("POST "+PathLogout, NoStore(gate.Protect(h.Logout)))
	mux.Handle("GET "+PathAuthStatus, NoStore(http.HandlerFunc(h.Status)))
	if h.DevAuth != nil {
		mux.Handle("GET "+PathDevLogin, NoStore(http.HandlerFunc(h.DevLogin)))
	}
}

func registerUIRoutes(mux *http.ServeMux, h *UIHandlers, gate *Gate) {
	mux.Handle("GET /{$}", gate.Protect(h.Home))
	for _, role := range []string{"/admin/", "/teacher/", "/student/"} {
		mux.Handle("GET "+role, gate.Protect(h.Page))
	}
	mux.HandleFunc("POST "+PathLocale, h.SetLocale)
}

// templateFS picks the template source: disk in dev mode, embedded otherwise.
func templateFS(isDev bool, logger *slog.Logger) fs.FS {
	if isDev {
		return os.DirFS(TemplatePathFromRoot)
	}
	sub, err := fs.Sub(educa.TemplateFS, TemplatePathFromRoot)
	if err != nil {
		logger.Warn("embedded templates unavailable, reading from disk", "error", err)
		return os.DirFS(TemplatePathFromRoot)
	}
	return sub
}

// staticHandler serves /static/*. Embedded assets only change with a build and
// may be cached; disk assets in dev mode may not.
func staticHandler(isDev bool, logger *slog.Logger) http.Handler {
	files, cacheControl := fs.FS(os.DirFS(staticRoot)), "no-store"
	if !isDev {
		if sub, err := fs.Sub(educa.StaticFS, staticRoot); err != nil {
			logger.Warn("embedded static assets unavailable, reading from disk", "error", err)
		} else {
			files, cacheControl = sub, "public, max-age=3600"
		}
	}

	fileServer := http.StripPrefix(PathStatic, http.FileServerFS(files))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", cacheControl)
		fileServer.ServeHTTP(w, r)
	})
}

// withNotFoundPage replaces the mux's plain-text 404 for unmatched routes.
// Matched handlers render their own errors; 405 answers pass through.
func withNotFoundPage(mux *http.ServeMux, notFound http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, pattern := mux.Handler(r); pattern != "" {
			mux.ServeHTTP(w, r)
			return
		}
		iw := &notFoundInterceptor{rw: w, header: make(http.Header)}
		mux.ServeHTTP(iw, r)
		if iw.notFound {
			notFound(w, r)
		}
	})
}

// notFoundInterceptor swallows a 404 and forwards any other response.
type notFoundInterceptor struct {
	rw       http.ResponseWriter
	header   http.Header
	notFound bool
	wrote    bool
}

func (i *notFoundInterceptor) Header() http.Header { return i.header }

func (i *notFoundInterceptor) WriteHeader(code int) {
	if i.wrote {
		return
	}
	i.wrote = true
	if code == http.StatusNotFound {
		i.notFound = true
		return
	}
	maps.Copy(i.rw.Header(), i.header)
	i.rw.WriteHeader(code)
}

func (i *notFoundInterceptor) Write(b []byte) (int, error) {
	i.WriteHeader(http.StatusOK)
	if i.notFound {
		return len(b), nil
	}
	return i.rw.Write(b)
}
