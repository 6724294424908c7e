package httpx

import (
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/educa/educa-web/internal/domain/navigation"
	"github.com/educa/educa-web/internal/http/ui/viewmodel"
)

// UIHandlers renders the application shell around protected screens.
type UIHandlers struct {
	T       *TemplateRenderer
	Nav     *navigation.Resolver
	Locales LocaleResolver
	Logger  *slog.Logger
}

func (h *UIHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// Home sends the user to the first screen of their menu.
// GET /.
func (h *UIHandlers) Home(w http.ResponseWriter, r *http.Request, sc *SessionContext) {
	home, ok := h.Nav.Home(sc.Session.User.Role)
	if !ok {
		h.renderError(w, r, errorView{Session: sc, Status: http.StatusForbidden, TitleKey: keyForbidden, BodyKey: keyNoHome})
		return
	}
	navigateWithin(w, r, home)
}

// Page renders one menu destination inside the shell. Paths outside the
// user's filtered menu are refused.
// GET /admin/..., /teacher/..., /student/...
func (h *UIHandlers) Page(w http.ResponseWriter, r *http.Request, sc *SessionContext) {
	path := r.URL.Path
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}

	role := sc.Session.User.Role
	if !h.Nav.Allows(role, path) {
		if slices.Contains(navigation.AllPaths(), path) {
			h.renderError(w, r, errorView{Session: sc, Status: http.StatusForbidden, TitleKey: keyForbidden, BodyKey: keyForbiddenBody})
			return
		}
		h.renderError(w, r, errorView{Session: sc, Status: http.StatusNotFound, TitleKey: keyNotFound, BodyKey: keyNotFoundBody})
		return
	}

	layout := h.layout(r, sc, path)
	heading := h.Nav.LabelFor(role, layout.Dict, path)
	layout.PageTitle = heading
	page := viewmodel.Page{Layout: layout, Heading: heading}

	var err error
	if WantsPartial(r) {
		err = h.T.RenderPartial(w, r, page)
	} else {
		err = h.T.RenderFull(w, r, page)
	}
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// SetLocale stores the user's language choice and returns to the page they were on.
// POST /locale (form: locale, redirect_to).
func (h *UIHandlers) SetLocale(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_form", Err: err})
		return
	}
	locale := strings.TrimSpace(r.PostFormValue("locale"))
	if !h.Locales.Remember(w, r, locale) {
		WriteJSON(w, http.StatusBadRequest, map[string]string{
			"error":   "unsupported_locale",
			"message": "unsupported locale: " + locale,
		})
		return
	}
	navigateWithin(w, r, safeRedirectPath(r.PostFormValue("redirect_to")))
}

// NotFound answers unmatched routes.
func (h *UIHandlers) NotFound(w http.ResponseWriter, r *http.Request) {
	h.renderError(w, r, errorView{Status: http.StatusNotFound, TitleKey: keyNotFound, BodyKey: keyNotFoundBody})
}

// errorView groups parameters for renderError (≤3 params rule).
type errorView struct {
	Session  *SessionContext
	Status   int
	TitleKey string
	BodyKey  string
}

// renderError writes an HTML error page for browsers and a JSON body otherwise.
func (h *UIHandlers) renderError(w http.ResponseWriter, r *http.Request, v errorView) {
	layout := h.layout(r, v.Session, r.URL.Path)
	title := navigation.ResolveLabel(layout.Dict, v.TitleKey)
	message := navigation.ResolveLabel(layout.Dict, v.BodyKey)

	if !IsBrowserRequest(r) {
		WriteJSON(w, v.Status, map[string]string{
			"error":   strings.ToLower(strings.ReplaceAll(http.StatusText(v.Status), " ", "_")),
			"message": message,
		})
		return
	}

	layout.PageTitle = title
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(v.Status)
	err := h.T.RenderError(w, r, viewmodel.ErrorPage{
		Layout:     layout,
		StatusCode: v.Status,
		Title:      title,
		Message:    message,
	})
	if err != nil {
		h.logger().ErrorContext(r.Context(), "render error page", "status", v.Status, "error", err)
	}
}

// layout builds the shell data. Navigation and user are filled only with a session.
func (h *UIHandlers) layout(r *http.Request, sc *SessionContext, currentPath string) *viewmodel.Layout {
	locale, dict := h.Locales.Dictionary(r)
	l := &viewmodel.Layout{
		Title:       navigation.ResolveLabel(dict, keyAppName),
		CurrentPath: currentPath,
		CSRFToken:   GetCSRFToken(r),
		Locale:      locale,
		Locales:     h.Locales.Translations.Locales(),
		Dict:        dict,
	}
	if sc == nil || sc.Session == nil {
		return l
	}

	u := sc.Session.User
	name := u.Name
	if name == "" {
		name = u.Email
	}
	l.IsAuthenticated = true
	l.User = &viewmodel.User{
		Name:  name,
		Email: u.Email,
		Role:  navigation.ResolveLabel(dict, "shell.roles."+u.Role.Slug()),
	}
	for _, e := range h.Nav.Resolve(u.Role, dict, currentPath) {
		l.Nav = append(l.Nav, viewmodel.NavEntry(e))
	}
	return l
}

// navigateWithin moves the browser to a same-origin path. htmx callers get
// HX-Redirect so the whole shell reloads.
func navigateWithin(w http.ResponseWriter, r *http.Request, path string) {
	if IsHTMX(r) {
		SetHXRedirect(w, path)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, path, http.StatusSeeOther)
}

// safeRedirectPath ensures the provided redirect is a same-origin relative path
// starting with "/" and not an absolute URL. Returns "/" when invalid.
func safeRedirectPath(candidate string) string {
	if candidate == "" {
		return "/"
	}
	u, err := url.Parse(candidate)
	if err != nil || u.IsAbs() || u.Host != "" || !strings.HasPrefix(u.Path, "/") ||
		strings.HasPrefix(candidate, "//") || strings.Contains(candidate, "\\") {
		return "/"
	}
	return candidate
}
