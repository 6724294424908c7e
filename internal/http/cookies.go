package httpx

import (
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// browserScopeMaxAge is the 400-day ceiling browsers apply to cookie lifetimes.
const browserScopeMaxAge = 400 * 24 * 60 * 60

// appCookie describes a first-party cookie issued on path "/" with SameSite=Lax.
type appCookie struct {
	name     string
	domain   string
	maxAge   int
	httpOnly bool
}

// set writes value. Secure follows the scheme the client actually used.
func (c appCookie) set(w http.ResponseWriter, r *http.Request, value string) {
	http.SetCookie(w, c.build(r, value))
}

// clear expires the cookie with the same attributes it was issued with;
// browsers ignore a deletion whose Path or Domain differ.
func (c appCookie) clear(w http.ResponseWriter, r *http.Request) {
	ck := c.build(r, "")
	ck.MaxAge = -1
	ck.Expires = time.Unix(0, 0).UTC()
	http.SetCookie(w, ck)
}

func (c appCookie) build(r *http.Request, value string) *http.Cookie {
	return &http.Cookie{
		Name:     c.name,
		Value:    value,
		Path:     "/",
		Domain:   c.domain,
		MaxAge:   c.maxAge,
		HttpOnly: c.httpOnly,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
	}
}

// BrowserScope reads and issues the cookie that identifies a browser's storage scope.
type BrowserScope struct {
	CookieName   string
	CookieDomain string
}

// Read returns the scope carried by the request, or "" when there is none.
// Values that are not UUIDs are ignored.
func (b BrowserScope) Read(r *http.Request) string {
	c, err := r.Cookie(b.CookieName)
	if err != nil {
		return ""
	}
	id, err := uuid.Parse(c.Value)
	if err != nil {
		return ""
	}
	return id.String()
}

// Ensure returns the request's scope, issuing a new one when missing.
func (b BrowserScope) Ensure(w http.ResponseWriter, r *http.Request) string {
	if scope := b.Read(r); scope != "" {
		return scope
	}
	scope := uuid.NewString()
	appCookie{name: b.CookieName, domain: b.CookieDomain, maxAge: browserScopeMaxAge, httpOnly: true}.set(w, r, scope)
	return scope
}

// isSecureRequest reports TLS on this hop or an https hop in X-Forwarded-Proto.
func isSecureRequest(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	hops := strings.Split(r.Header.Get("X-Forwarded-Proto"), ",")
	return slices.ContainsFunc(hops, func(p string) bool {
		return strings.EqualFold(strings.TrimSpace(p), "https")
	})
}
