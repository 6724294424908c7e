package ports

// Package ports defines interfaces (hexagonal ports) for session-related behavior.
// Implementations live in internal/adapters; orchestration in internal/service.

import (
	"context"
	"time"

	domainauth "github.com/educa/educa-web/internal/domain/auth"
)

// LocalStorage is the per-browser persistent key-value store. Each browser is
// addressed by an opaque scope; keys are plain strings.
type LocalStorage interface {
	// GetItem returns the value stored under key and whether it was present.
	GetItem(ctx context.Context, scope, key string) (string, bool, error)

	// SetItem stores value under key. A zero ttl means the value never expires.
	SetItem(ctx context.Context, scope, key, value string, ttl time.Duration) error

	// RemoveItems deletes keys; absent keys are not an error.
	RemoveItems(ctx context.Context, scope string, keys ...string) error
}

// RoleMapper maps backend role codes to application roles.
type RoleMapper interface {
	Map(code string) domainauth.Role
}

// TokenInspector reads the expiry of an access token without verifying it.
type TokenInspector interface {
	ExpiresAt(token string) (time.Time, bool)
}

// TranslationProvider supplies nested translation dictionaries per locale.
type TranslationProvider interface {
	// Dictionary returns the dictionary for locale, falling back to the default locale.
	Dictionary(locale string) map[string]any

	// Match picks the best supported locale for an Accept-Language header value.
	Match(acceptLanguage string) string

	// Supports reports whether locale has a dictionary.
	Supports(locale string) bool

	// Locales lists supported locales, default first.
	Locales() []string
}
