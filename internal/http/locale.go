package httpx

import (
	"net/http"

	"github.com/educa/educa-web/internal/ports"
)

// localeCookieMaxAge keeps an explicit language choice for a year.
const localeCookieMaxAge = 365 * 24 * 60 * 60

// LocaleResolver picks the UI locale for a request: an explicit cookie choice
// first, then Accept-Language, then the default locale.
type LocaleResolver struct {
	Translations ports.TranslationProvider
	CookieName   string
	CookieDomain string
}

// Resolve returns the locale to render r with. It is always supported.
func (l LocaleResolver) Resolve(r *http.Request) string {
	if c, err := r.Cookie(l.CookieName); err == nil && l.Translations.Supports(c.Value) {
		return c.Value
	}
	return l.Translations.Match(r.Header.Get("Accept-Language"))
}

// Dictionary returns the resolved locale and its dictionary.
func (l LocaleResolver) Dictionary(r *http.Request) (string, map[string]any) {
	locale := l.Resolve(r)
	return locale, l.Translations.Dictionary(locale)
}

// Remember stores an explicit choice. An empty locale forgets it.
func (l LocaleResolver) Remember(w http.ResponseWriter, r *http.Request, locale string) bool {
	c := appCookie{name: l.CookieName, domain: l.CookieDomain, maxAge: localeCookieMaxAge, httpOnly: true}
	if locale == "" {
		c.clear(w, r)
		return true
	}
	if !l.Translations.Supports(locale) {
		return false
	}
	c.set(w, r, locale)
	return true
}
