package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	domainauth "github.com/educa/educa-web/internal/domain/auth"
	"github.com/educa/educa-web/internal/domain/handoff"
	"github.com/educa/educa-web/internal/ports"
)

// Storage keys owned by the session store. Nothing else reads or writes them.
const (
	KeyAccessToken  = "educa_access_token"
	KeyRefreshToken = "educa_refresh_token"
	KeyUser         = "educa_user"
)

// SessionKeys lists every key the store manages.
func SessionKeys() []string { return []string{KeyAccessToken, KeyRefreshToken, KeyUser} }

// SessionStoreOptions groups dependencies for SessionStore.
type SessionStoreOptions struct {
	Storage ports.LocalStorage   // Required
	Roles   ports.RoleMapper     // Required
	Tokens  ports.TokenInspector // Optional: token expiry drives key TTL when set
	Config  SessionStoreConfig   // Optional
	Logger  *slog.Logger         // Optional
}

// SessionStoreConfig tunes persistence.
type SessionStoreConfig struct {
	// DefaultTTL applies when the access token has no readable expiry. Zero keeps keys forever.
	DefaultTTL time.Duration
	// Now is used to compute TTLs; defaults to time.Now.
	Now func() time.Time
}

// SessionStore persists the handed-off credentials for one browser scope and
// rebuilds the normalized Session from them.
type SessionStore struct {
	storage ports.LocalStorage
	roles   ports.RoleMapper
	tokens  ports.TokenInspector
	ttl     time.Duration
	now     func() time.Time
	logger  *slog.Logger
}

// ErrNoScope is returned by Write when the request carries no browser scope.
var ErrNoScope = errors.New("session store: browser scope is required")

// NewSessionStore constructs a SessionStore.
func NewSessionStore(opts SessionStoreOptions) *SessionStore {
	if opts.Storage == nil {
		panic("LocalStorage is required")
	}
	if opts.Roles == nil {
		panic("RoleMapper is required")
	}
	now := opts.Config.Now
	if now == nil {
		now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionStore{
		storage: opts.Storage,
		roles:   opts.Roles,
		tokens:  opts.Tokens,
		ttl:     opts.Config.DefaultTTL,
		now:     now,
		logger:  logger.With("component", "session_store"),
	}
}

// Write stores the bundle's tokens and the raw user JSON verbatim. A bundle
// without a refresh token removes any refresh token left by a previous login.
// A failed write removes every session key, so a new token is never left
// next to a previous login's user record.
func (s *SessionStore) Write(ctx context.Context, scope string, b handoff.Bundle) error {
	if scope == "" {
		return ErrNoScope
	}
	if b.AccessToken == "" || b.UserJSON == "" {
		return errors.New("session store: bundle requires access token and user")
	}

	err := s.write(ctx, scope, b)
	if err == nil {
		return nil
	}
	if clearErr := s.storage.RemoveItems(context.WithoutCancel(ctx), scope, SessionKeys()...); clearErr != nil {
		s.logger.WarnContext(ctx, "clear partial session", "error", clearErr)
		return errors.Join(err, fmt.Errorf("clear partial session: %w", clearErr))
	}
	return err
}

func (s *SessionStore) write(ctx context.Context, scope string, b handoff.Bundle) error {
	ttl := s.ttlFor(b.AccessToken)

	if err := s.storage.SetItem(ctx, scope, KeyAccessToken, b.AccessToken, ttl); err != nil {
		return fmt.Errorf("store access token: %w", err)
	}
	if b.RefreshToken != "" {
		if err := s.storage.SetItem(ctx, scope, KeyRefreshToken, b.RefreshToken, ttl); err != nil {
			return fmt.Errorf("store refresh token: %w", err)
		}
	} else if err := s.storage.RemoveItems(ctx, scope, KeyRefreshToken); err != nil {
		return fmt.Errorf("remove stale refresh token: %w", err)
	}
	if err := s.storage.SetItem(ctx, scope, KeyUser, b.UserJSON, ttl); err != nil {
		return fmt.Errorf("store user: %w", err)
	}
	return nil
}

// ttlFor returns the remaining lifetime of the access token, or the default
// when it has none or has already expired.
func (s *SessionStore) ttlFor(accessToken string) time.Duration {
	if s.tokens == nil {
		return s.ttl
	}
	exp, ok := s.tokens.ExpiresAt(accessToken)
	if !ok {
		return s.ttl
	}
	remaining := exp.Sub(s.now())
	if remaining <= 0 {
		return s.ttl
	}
	return remaining
}

// Read returns the session stored for scope, or nil when there is none.
// It never writes and never fails: storage errors and corrupt records read as no session.
func (s *SessionStore) Read(ctx context.Context, scope string) *domainauth.Session {
	if scope == "" {
		return nil
	}

	at, ok := s.get(ctx, scope, KeyAccessToken)
	if !ok || at == "" {
		return nil
	}
	userJSON, ok := s.get(ctx, scope, KeyUser)
	if !ok || userJSON == "" {
		return nil
	}
	raw, err := handoff.DecodeUser(userJSON)
	if err != nil {
		s.logger.DebugContext(ctx, "discarding corrupt stored user", "error", err)
		return nil
	}
	rt, _ := s.get(ctx, scope, KeyRefreshToken)

	sess := &domainauth.Session{
		AccessToken:  at,
		RefreshToken: rt,
		RawUser:      raw,
		User: domainauth.User{
			ID:    raw.ID,
			Name:  domainauth.DisplayName(raw.FirstName, raw.LastName),
			Email: raw.Email,
			Role:  s.roles.Map(raw.Role),
		},
	}
	if s.tokens != nil {
		if exp, found := s.tokens.ExpiresAt(at); found {
			sess.ExpiresAt = exp
		}
	}
	return sess
}

func (s *SessionStore) get(ctx context.Context, scope, key string) (string, bool) {
	val, ok, err := s.storage.GetItem(ctx, scope, key)
	if err != nil {
		s.logger.DebugContext(ctx, "session storage read failed", "key", key, "error", err)
		return "", false
	}
	return val, ok
}

// Clear removes every session key for scope. Safe when nothing is stored.
func (s *SessionStore) Clear(ctx context.Context, scope string) error {
	if scope == "" {
		return nil
	}
	if err := s.storage.RemoveItems(ctx, scope, SessionKeys()...); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
