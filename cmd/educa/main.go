package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/educa/educa-web/config"
	"github.com/educa/educa-web/internal/bootstrap"
)

func main() {
	ctx := context.Background()
	logger := bootstrap.InitLogger()
	if err := run(ctx, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}

	logStartupInfo(ctx, logger, &cfg)

	return bootstrap.Run(ctx, bootstrap.RunConfig{Config: &cfg, Logger: logger})
}

func logStartupInfo(ctx context.Context, logger *slog.Logger, cfg *config.AppConfig) {
	logger.InfoContext(ctx, "starting educa web",
		"addr", cfg.HTTP.Addr,
		"auth_mode", cfg.Auth.Mode,
		"storage_backend", cfg.Storage.Backend,
		"active_modules", cfg.UI.ActiveModules,
		"default_locale", cfg.UI.DefaultLocale,
		"dev", cfg.IsDev)
}
