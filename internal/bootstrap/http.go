package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/educa/educa-web/config"
	httpx "github.com/educa/educa-web/internal/http"
)

// HTTPServerConfig contains configuration for HTTP server.
type HTTPServerConfig struct {
	Config   *config.AppConfig
	Services *ServiceContainer
	Logger   *slog.Logger
}

// NewHTTPServer builds the HTTP server without starting it.
func NewHTTPServer(cfg *HTTPServerConfig) (*http.Server, error) {
	if cfg == nil || cfg.Config == nil || cfg.Services == nil {
		return nil, errors.New("http server config, app config and services are required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	appCfg := cfg.Config

	services := httpx.RouterServices{
		Auth:          cfg.Services.Auth,
		Navigation:    cfg.Services.Navigation,
		Translations:  cfg.Services.Translations,
		Storage:       cfg.Services.Health,
		BrowserCookie: appCfg.Auth.BrowserCookie,
		LocaleCookie:  appCfg.UI.LocaleCookie,
		CookieDomain:  appCfg.HTTP.CookieDomain,
		IsDev:         appCfg.IsDev,
		Logger:        logger,
	}
	// A nil *devauth.Provider must not become a non-nil DevLoginIssuer.
	if cfg.Services.DevAuth != nil {
		services.DevAuth = cfg.Services.DevAuth
	}

	handler, err := buildHTTPHandler(logger, services)
	if err != nil {
		return nil, err
	}

	addr := appCfg.HTTP.Addr
	if addr == "" {
		addr = ":8080"
	}

	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}, nil
}

// Order: Recover -> Logging -> Router.
func buildHTTPHandler(logger *slog.Logger, services httpx.RouterServices) (http.Handler, error) {
	router, err := httpx.NewRouter(services)
	if err != nil {
		return nil, fmt.Errorf("build router: %w", err)
	}

	h := httpx.Logging(logger)(router)
	h = httpx.Recover(logger)(h)
	return h, nil
}

// ServeHTTP runs server until it fails or is shut down. A clean shutdown returns nil.
func ServeHTTP(logger *slog.Logger, server *http.Server) error {
	logger.Info("starting HTTP server", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// ShutdownConfig bounds a graceful drain. Timeout defaults to 10s.
type ShutdownConfig struct {
	Context context.Context
	Server  *http.Server
	Timeout time.Duration
	Logger  *slog.Logger
}

// ShutdownHTTPServer stops accepting connections and waits for in-flight
// requests, such as a handoff post, to finish.
func ShutdownHTTPServer(cfg ShutdownConfig) error {
	if cfg.Server == nil {
		return nil
	}
	if cfg.Logger != nil {
		cfg.Logger.Info("draining HTTP server", "timeout", cfg.Timeout)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	parent := cfg.Context
	if parent == nil {
		parent = context.Background()
	}
	shutdownCtx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	if err := cfg.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	if cfg.Logger != nil {
		cfg.Logger.Info("HTTP server stopped")
	}
	return nil
}
