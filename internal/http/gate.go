package httpx

import (
	"log/slog"
	"net/http"

	domainauth "github.com/educa/educa-web/internal/domain/auth"
)

// GateState is where the session gate settles for one request.
type GateState int

const (
	// GateChecking is the initial state while the session store is read.
	GateChecking GateState = iota
	// GateRedirecting means no session: the browser is sent to the login application.
	GateRedirecting
	// GateReady means a full session exists and the protected handler runs.
	GateReady
)

func (s GateState) String() string {
	switch s {
	case GateChecking:
		return "checking"
	case GateRedirecting:
		return "redirecting"
	case GateReady:
		return "ready"
	default:
		return "unknown"
	}
}

// SessionContext is what the gate hands to protected handlers: the session
// and the means to end it.
type SessionContext struct {
	Session *domainauth.Session
	Scope   string
	gate    *Gate
}

// Logout clears the stored session, then navigates the browser to the login
// application. There is no way back to Ready within the same request.
func (sc *SessionContext) Logout(w http.ResponseWriter, r *http.Request) {
	sc.gate.logout(w, r, sc.Scope)
}

// SessionHandler is a protected handler. It receives the session explicitly.
type SessionHandler func(w http.ResponseWriter, r *http.Request, sc *SessionContext)

// GateOptions groups dependencies for Gate.
type GateOptions struct {
	Auth   AuthServiceInterface
	Scope  BrowserScope
	Logger *slog.Logger
}

// Gate is the authorization boundary in front of every protected screen.
type Gate struct {
	auth   AuthServiceInterface
	scope  BrowserScope
	logger *slog.Logger
}

// NewGate constructs a Gate.
func NewGate(opts GateOptions) *Gate {
	if opts.Auth == nil {
		panic("auth service is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Gate{auth: opts.Auth, scope: opts.Scope, logger: logger}
}

// Check reads the session once and returns the state the gate settles in.
// The SessionContext is non-nil only for GateReady.
func (g *Gate) Check(r *http.Request) (GateState, *SessionContext) {
	scope := g.scope.Read(r)
	sess := g.auth.GetSession(r.Context(), scope)
	if sess == nil {
		return GateRedirecting, nil
	}
	return GateReady, &SessionContext{Session: sess, Scope: scope, gate: g}
}

// Protect wraps h so it only runs with a session. Without one the response is
// a redirect to the login application and h never runs.
func (g *Gate) Protect(h SessionHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		state, sc := g.Check(r)
		if state != GateReady {
			g.redirectToLogin(w, r)
			return
		}
		h(w, r, sc)
	})
}

// redirectToLogin sends the caller to the login application.
// For API requests: returns 401 JSON response.
// For browser requests: full navigation (303, or Hx-Redirect for htmx).
func (g *Gate) redirectToLogin(w http.ResponseWriter, r *http.Request) {
	loginURL := g.auth.LoginURL()
	if IsHTMX(r) {
		SetHXRedirect(w, loginURL)
		w.WriteHeader(http.StatusOK)
		return
	}
	if IsBrowserRequest(r) {
		http.Redirect(w, r, loginURL, http.StatusSeeOther)
		return
	}
	WriteJSON(w, http.StatusUnauthorized, map[string]string{
		"error":     "authentication_required",
		"message":   "authentication required",
		"login_url": loginURL,
	})
}

// logout clears the session and sends the browser to the login application.
// A clearing failure is logged; the browser leaves regardless and the stored
// entries expire with their TTL.
func (g *Gate) logout(w http.ResponseWriter, r *http.Request, scope string) {
	loginURL, err := g.auth.Logout(r.Context(), scope)
	if err != nil {
		g.logger.WarnContext(r.Context(), "logout failed", "error", err)
	}
	navigate(w, r, loginURL)
}

// navigate performs a full navigation to target in the form the caller understands.
func navigate(w http.ResponseWriter, r *http.Request, target string) {
	switch {
	case IsHTMX(r):
		SetHXRedirect(w, target)
		w.WriteHeader(http.StatusOK)
	case wantsJSON(r):
		WriteJSON(w, http.StatusOK, map[string]string{
			"status":      "success",
			"redirect_to": target,
		})
	default:
		http.Redirect(w, r, target, http.StatusSeeOther)
	}
}
