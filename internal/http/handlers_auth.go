package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	domainauth "github.com/educa/educa-web/internal/domain/auth"
	"github.com/educa/educa-web/internal/domain/handoff"
	"github.com/educa/educa-web/internal/domain/navigation"
	"github.com/educa/educa-web/internal/http/ui/viewmodel"
	"github.com/educa/educa-web/internal/service"
)

// maxHandoffBody bounds the handoff POST; a fragment is a few kilobytes at most.
const maxHandoffBody = 64 << 10

// AuthServiceInterface defines the interface for auth service operations.
type AuthServiceInterface interface {
	CompleteHandoff(ctx context.Context, scope, fragment string) (*service.HandoffResult, error)
	GetSession(ctx context.Context, scope string) *domainauth.Session
	Logout(ctx context.Context, scope string) (string, error)
	LoginURL() string
}

// DevLoginIssuer mints handoff URLs for the local mock login.
type DevLoginIssuer interface {
	HandoffURL(baseURL, dest string) (string, error)
}

// AuthHandlers provides HTTP handlers for authentication operations.
type AuthHandlers struct {
	Svc      AuthServiceInterface
	Scope    BrowserScope
	Renderer *TemplateRenderer
	Locales  LocaleResolver
	DevAuth  DevLoginIssuer // nil unless AUTH_MODE=mock
	Logger   *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// HandoffPage serves the page the login application navigates to.
// GET /auth/handoff#at=...&rt=...&u=...&dest=...
//
// The fragment never reaches the server; the page script reads it, erases it
// from history and posts it back to CompleteHandoff.
func (h *AuthHandlers) HandoffPage(w http.ResponseWriter, r *http.Request) {
	h.Scope.Ensure(w, r)

	locale, dict := h.Locales.Dictionary(r)
	data := viewmodel.HandoffPage{
		Title:       navigation.ResolveLabel(dict, keyHandoffTitle),
		Message:     navigation.ResolveLabel(dict, keyHandoffBody),
		Lang:        locale,
		CSRFToken:   GetCSRFToken(r),
		Endpoint:    PathHandoff,
		FallbackURL: h.Svc.LoginURL(),
	}
	if err := h.Renderer.RenderHandoff(w, r, data); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

type handoffRequest struct {
	Fragment string `json:"fragment"`
}

// CompleteHandoff persists the posted fragment for this browser.
// POST /auth/handoff {"fragment": "..."}.
func (h *AuthHandlers) CompleteHandoff(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxHandoffBody)
	var req handoffRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	scope := h.Scope.Ensure(w, r)
	res, err := h.Svc.CompleteHandoff(r.Context(), scope, req.Fragment)
	if err != nil {
		loginURL := h.Svc.LoginURL()
		if errors.Is(err, service.ErrHandoffRejected) {
			WriteJSON(w, http.StatusUnauthorized, map[string]string{
				"error":       "handoff_rejected",
				"reason":      string(handoff.ReasonOf(err)),
				"redirect_to": loginURL,
			})
			return
		}
		h.logger().ErrorContext(r.Context(), "handoff failed", "error", err)
		WriteJSON(w, http.StatusInternalServerError, map[string]string{
			"error":       "handoff_failed",
			"redirect_to": loginURL,
		})
		return
	}

	// The page script navigates here with location.replace, so the handoff
	// URL and its fragment never stay in history.
	WriteJSON(w, http.StatusOK, map[string]string{
		"status":      "success",
		"redirect_to": handoff.Erase(nil, res.Destination).String(),
	})
}

// Logout ends the gate's session and navigates to the login application.
// POST /auth/logout, behind Gate.Protect: without a session the gate already
// sends the caller to the login application.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request, sc *SessionContext) {
	h.logger().InfoContext(r.Context(), "logout", "user_id", sc.Session.User.ID)
	sc.Logout(w, r)
}

// Status returns the current authentication status.
// GET /auth/status.
func (h *AuthHandlers) Status(w http.ResponseWriter, r *http.Request) {
	sess := h.Svc.GetSession(r.Context(), h.Scope.Read(r))
	if sess == nil {
		WriteJSON(w, http.StatusOK, map[string]any{
			"authenticated": false,
			"login_url":     h.Svc.LoginURL(),
		})
		return
	}

	body := map[string]any{
		"authenticated": true,
		"user": map[string]any{
			"id":    sess.User.ID,
			"name":  sess.User.Name,
			"email": sess.User.Email,
			"role":  sess.User.Role,
		},
	}
	if !sess.ExpiresAt.IsZero() {
		body["expires_at"] = sess.ExpiresAt
	}
	WriteJSON(w, http.StatusOK, body)
}

// DevLogin stands in for the login application during local development.
// GET /auth/dev-login?dest=/admin/students.
func (h *AuthHandlers) DevLogin(w http.ResponseWriter, r *http.Request) {
	if h.DevAuth == nil {
		http.NotFound(w, r)
		return
	}
	target, err := h.DevAuth.HandoffURL("", r.URL.Query().Get("dest"))
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "dev_login_failed", Err: err})
		return
	}
	// http.Redirect would path-clean the fragment, so set Location directly.
	w.Header().Set("Location", target)
	w.WriteHeader(http.StatusSeeOther)
}
