package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	domainauth "github.com/educa/educa-web/internal/domain/auth"
	"github.com/educa/educa-web/internal/domain/handoff"
)

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Sessions *SessionStore     // Required
	Config   AuthServiceConfig // Required: LoginURL must be set
	Logger   *slog.Logger      // Optional
}

// AuthServiceConfig holds the external endpoints the auth flow navigates to.
type AuthServiceConfig struct {
	// LoginURL is the external login application. Both missing sessions and
	// logouts end there.
	LoginURL string
}

// AuthService orchestrates the session handoff, session lookup, and logout.
type AuthService struct {
	sessions *SessionStore
	loginURL string
	logger   *slog.Logger
}

// ErrHandoffRejected wraps every handoff.ParseError returned by CompleteHandoff.
var ErrHandoffRejected = errors.New("handoff rejected")

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	if opts.Sessions == nil {
		panic("SessionStore is required")
	}
	if opts.Config.LoginURL == "" {
		panic("login URL is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		sessions: opts.Sessions,
		loginURL: opts.Config.LoginURL,
		logger:   logger.With("component", "auth_service"),
	}
}

// HandoffResult is the outcome of a successful handoff.
type HandoffResult struct {
	Destination string
	Session     *domainauth.Session
}

// CompleteHandoff parses the fragment handed off by the login application and
// persists it for scope. Nothing is written when the fragment is rejected.
func (s *AuthService) CompleteHandoff(ctx context.Context, scope, fragment string) (*HandoffResult, error) {
	bundle, err := handoff.Parse(fragment)
	if err != nil {
		s.logger.WarnContext(ctx, "handoff rejected", "reason", handoff.ReasonOf(err))
		return nil, fmt.Errorf("%w: %w", ErrHandoffRejected, err)
	}

	if err := s.sessions.Write(ctx, scope, bundle); err != nil {
		return nil, fmt.Errorf("persist handoff: %w", err)
	}

	sess := s.sessions.Read(ctx, scope)
	if sess == nil {
		return nil, errors.New("persist handoff: session unreadable after write")
	}

	s.logger.InfoContext(ctx, "session established",
		"user_id", sess.User.ID,
		"role", sess.User.Role,
		"destination", bundle.Destination,
	)
	return &HandoffResult{Destination: bundle.Destination, Session: sess}, nil
}

// GetSession returns the session for scope or nil.
func (s *AuthService) GetSession(ctx context.Context, scope string) *domainauth.Session {
	return s.sessions.Read(ctx, scope)
}

// Logout clears the session for scope and returns where the browser goes next.
// The login URL is returned even when clearing fails.
func (s *AuthService) Logout(ctx context.Context, scope string) (string, error) {
	if err := s.sessions.Clear(ctx, scope); err != nil {
		return s.loginURL, fmt.Errorf("logout: %w", err)
	}
	return s.loginURL, nil
}

// LoginURL returns the external login application URL.
func (s *AuthService) LoginURL() string { return s.loginURL }
