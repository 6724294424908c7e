package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"slices"
	"strings"
	"time"

	"github.com/educa/educa-web/internal/domain/navigation"
	"github.com/educa/educa-web/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.TokenInspector      = (*StaticTokenInspector)(nil)
	_ ports.TranslationProvider = (*StaticTranslations)(nil)
)

// StaticTokenInspector returns fixed expiries per token. Unknown tokens have none.
type StaticTokenInspector struct {
	Expiry map[string]time.Time
	Calls  int
}

// NewStaticTokenInspector creates an inspector with no known tokens.
func NewStaticTokenInspector() *StaticTokenInspector {
	return &StaticTokenInspector{Expiry: map[string]time.Time{}}
}

// With registers an expiry for token.
func (m *StaticTokenInspector) With(token string, exp time.Time) *StaticTokenInspector {
	m.Expiry[token] = exp
	return m
}

func (m *StaticTokenInspector) ExpiresAt(token string) (time.Time, bool) {
	m.Calls++
	exp, ok := m.Expiry[token]
	return exp, ok
}

// StaticTranslations serves in-memory dictionaries. Match returns the first
// supported primary language in the header, else Default.
type StaticTranslations struct {
	Dicts   map[string]navigation.Dictionary
	Default string
}

// NewStaticTranslations creates a provider with English and French menu labels
// for the admin dashboard only.
func NewStaticTranslations() *StaticTranslations {
	return &StaticTranslations{
		Default: "fr",
		Dicts: map[string]navigation.Dictionary{
			"fr": {"menu": map[string]any{"admin": map[string]any{"dashboard": "Tableau de bord"}}},
			"en": {"menu": map[string]any{"admin": map[string]any{"dashboard": "Dashboard"}}},
		},
	}
}

func (m *StaticTranslations) Dictionary(locale string) map[string]any {
	if d, ok := m.Dicts[locale]; ok {
		return d
	}
	return m.Dicts[m.Default]
}

func (m *StaticTranslations) Supports(locale string) bool {
	_, ok := m.Dicts[locale]
	return ok
}

func (m *StaticTranslations) Locales() []string {
	out := []string{m.Default}
	for l := range m.Dicts {
		if l != m.Default {
			out = append(out, l)
		}
	}
	slices.Sort(out[1:])
	return out
}

func (m *StaticTranslations) Match(acceptLanguage string) string {
	for _, part := range strings.Split(acceptLanguage, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		primary := strings.ToLower(strings.SplitN(tag, "-", 2)[0])
		if m.Supports(primary) {
			return primary
		}
	}
	return m.Default
}
