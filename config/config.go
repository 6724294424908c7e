package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"slices"
	"strings"
)

// AppConfig is the full process configuration, parsed from the environment
// by caarlos0/env. Each group lives in its own file: auth.go, storage.go,
// http.go and ui.go.
type AppConfig struct {
	// IsDev enables dev login, template reloads from disk and i18n from disk.
	// NODE_ENV=development also turns it on.
	IsDev bool `env:"DEV" envDefault:"false"`

	Auth    AuthConfig
	Storage StorageConfig
	Redis   RedisConfig `envPrefix:"REDIS_"`
	HTTP    HTTPConfig
	UI      UIConfig
}

// Sanitize normalizes values after parsing. Call it before Validate.
func (c *AppConfig) Sanitize() {
	c.Auth.Sanitize()
	c.Storage.Sanitize()
	c.HTTP.Sanitize()
	c.UI.Sanitize()

	if !c.IsDev {
		c.IsDev = slices.Contains([]string{"development", "dev"}, strings.ToLower(os.Getenv("NODE_ENV")))
	}
}

// Validate reports configuration that cannot serve requests.
func (c *AppConfig) Validate() error {
	var errs []error
	if err := validateAbsoluteURL("LOGIN_URL", c.Auth.LoginURL); err != nil {
		errs = append(errs, err)
	}
	if c.Auth.BrowserCookie == "" {
		errs = append(errs, errors.New("BROWSER_COOKIE cannot be empty"))
	}
	if c.Storage.Backend == StorageBackendRedis && c.Redis.URI == "" && !c.Redis.UseSentinel && !c.Redis.UseCluster {
		errs = append(errs, errors.New("REDIS_URI is required for the redis storage backend"))
	}
	return errors.Join(errs...)
}

func validateAbsoluteURL(name, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%s must be an absolute http(s) URL, got %q", name, raw)
	}
	return nil
}
