package config

import "strings"

// UIConfig controls the dashboard shell.
type UIConfig struct {
	// ActiveModules lists enabled feature modules (e.g. "ai", "subscription").
	// Menu entries gated by other modules are hidden and unreachable.
	ActiveModules []string `env:"ACTIVE_MODULES" envDefault:"ai" envSeparator:","`

	// DefaultLocale is used when neither the locale cookie nor Accept-Language match.
	DefaultLocale string `env:"DEFAULT_LOCALE" envDefault:"fr"`

	// LocaleCookie names the cookie holding an explicit locale choice.
	LocaleCookie string `env:"LOCALE_COOKIE" envDefault:"educa_locale"`
}

// Sanitize normalizes module names and locale.
func (u *UIConfig) Sanitize() {
	modules := make([]string, 0, len(u.ActiveModules))
	for _, m := range u.ActiveModules {
		m = strings.ToLower(strings.TrimSpace(m))
		if m != "" {
			modules = append(modules, m)
		}
	}
	u.ActiveModules = modules

	u.DefaultLocale = strings.ToLower(strings.TrimSpace(u.DefaultLocale))
	if u.DefaultLocale == "" {
		u.DefaultLocale = "fr"
	}
	if u.LocaleCookie == "" {
		u.LocaleCookie = "educa_locale"
	}
}
