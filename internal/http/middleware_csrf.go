package httpx

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"mime"
	"net/http"
	"time"
)

const (
	// DefaultCSRFCookieName is the default name for the CSRF cookie and form field.
	DefaultCSRFCookieName = "csrf_token"
	// DefaultCSRFHeaderName is the default name for the CSRF header (canonical form).
	DefaultCSRFHeaderName = "X-Csrf-Token"

	csrfTokenBytes = 32
	csrfCookieTTL  = 12 * time.Hour
)

// CSRFConfig holds configuration for CSRF protection middleware.
// Zero values select the defaults.
type CSRFConfig struct {
	CookieName    string
	HeaderName    string
	FormFieldName string
	CookieDomain  string
}

func (c CSRFConfig) withDefaults() CSRFConfig {
	if c.CookieName == "" {
		c.CookieName = DefaultCSRFCookieName
	}
	if c.HeaderName == "" {
		c.HeaderName = DefaultCSRFHeaderName
	}
	if c.FormFieldName == "" {
		c.FormFieldName = DefaultCSRFCookieName
	}
	return c
}

// CSRFProtection guards state-changing requests with a double-submit cookie.
// The handoff script and htmx send the token in the header; the logout and
// locale forms post it as a form field. A forged POST /auth/handoff would
// plant someone else's session in the victim's browser, so it is covered too.
func CSRFProtection(cfg CSRFConfig) func(http.Handler) http.Handler {
	g := csrfGuard{cfg: cfg.withDefaults()}
	return g.wrap
}

type csrfGuard struct {
	cfg CSRFConfig
}

func (g csrfGuard) wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookieToken := g.cookieToken(r)
		token := cookieToken
		if token == "" {
			fresh, err := newCSRFToken()
			if err != nil {
				WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "csrf_unavailable", Err: err})
				return
			}
			token = fresh
			g.setCookie(w, r, token)
		}
		r = r.WithContext(setCSRFTokenInContext(r.Context(), token))

		if isUnsafeMethod(r.Method) && !g.verify(r, cookieToken) {
			g.reject(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (g csrfGuard) cookieToken(r *http.Request) string {
	c, err := r.Cookie(g.cfg.CookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

func (g csrfGuard) setCookie(w http.ResponseWriter, r *http.Request, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     g.cfg.CookieName,
		Value:    token,
		Path:     "/",
		Domain:   g.cfg.CookieDomain,
		HttpOnly: false, // read by the handoff page script and htmx
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(csrfCookieTTL / time.Second),
	})
}

// verify compares the submitted token with the cookie in constant time.
// A request without the cookie never verifies.
func (g csrfGuard) verify(r *http.Request, cookieToken string) bool {
	if cookieToken == "" {
		return false
	}
	submitted := r.Header.Get(g.cfg.HeaderName)
	if submitted == "" && isFormPost(r) {
		if err := r.ParseForm(); err != nil {
			return false
		}
		submitted = r.PostFormValue(g.cfg.FormFieldName)
	}
	if submitted == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(submitted), []byte(cookieToken)) == 1
}

func (g csrfGuard) reject(w http.ResponseWriter, r *http.Request) {
	if IsBrowserRequest(r) && !IsHTMX(r) {
		http.Error(w, "CSRF token validation failed", http.StatusForbidden)
		return
	}
	WriteJSON(w, http.StatusForbidden, map[string]string{
		"error":   "csrf_failed",
		"message": "missing or invalid CSRF token",
	})
}

func isUnsafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return false
	default:
		return true
	}
}

func isFormPost(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return mt == "application/x-www-form-urlencoded" || mt == "multipart/form-data"
}

// newCSRFToken fails closed: no predictable fallback when the system RNG errors.
func newCSRFToken() (string, error) {
	b := make([]byte, csrfTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate csrf token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

type csrfTokenKey struct{}

func setCSRFTokenInContext(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, csrfTokenKey{}, token)
}

// GetCSRFToken returns the token for forms and scripts rendered by this request.
func GetCSRFToken(r *http.Request) string {
	token, _ := r.Context().Value(csrfTokenKey{}).(string)
	return token
}
