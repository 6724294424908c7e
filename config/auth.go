package config

import (
	"fmt"
	"strings"
	"time"
)

// AuthMode represents the authentication mode for the application.
type AuthMode string

const (
	// AuthModeHandoff accepts sessions handed off by the external login application.
	AuthModeHandoff AuthMode = "handoff"
	// AuthModeMock additionally serves /auth/dev-login (for development only).
	AuthModeMock AuthMode = "mock"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "handoff", "mock":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: handoff, mock)", v)
	}
}

// DevAuthConfig controls the identity minted by the dev login.
// Used when AUTH_MODE=mock for development and testing.
type DevAuthConfig struct {
	UserID     string        `env:"USER_ID"     envDefault:"dev-user"`
	Email      string        `env:"EMAIL"       envDefault:"dev@educa.local"`
	FirstName  string        `env:"FIRST_NAME"  envDefault:"Dev"`
	LastName   string        `env:"LAST_NAME"   envDefault:"Admin"`
	RoleCode   string        `env:"ROLE"        envDefault:"ADMIN_ECOLE"`
	SchoolID   string        `env:"SCHOOL_ID"   envDefault:""`
	SigningKey string        `env:"SIGNING_KEY" envDefault:""`
	TokenTTL   time.Duration `env:"TOKEN_TTL"   envDefault:"8h"`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Mode determines whether the dev login is served.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"handoff"`

	// LoginURL is the external login application. Visitors without a session
	// and logged-out users are sent here.
	LoginURL string `env:"LOGIN_URL" envDefault:"http://localhost:3000/login"`

	// BrowserCookie names the cookie holding the browser storage scope.
	BrowserCookie string `env:"BROWSER_COOKIE" envDefault:"educa_browser"`

	// DevAuth configuration (used when Mode=mock).
	DevAuth DevAuthConfig `envPrefix:"DEV_AUTH_"`
}

// Sanitize applies guardrails to auth configuration values.
func (a *AuthConfig) Sanitize() {
	a.LoginURL = strings.TrimSpace(a.LoginURL)
	a.BrowserCookie = strings.TrimSpace(a.BrowserCookie)
	if a.DevAuth.TokenTTL <= 0 {
		a.DevAuth.TokenTTL = 8 * time.Hour
	}
}
