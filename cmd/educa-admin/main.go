package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"

	"github.com/educa/educa-web/config"
	"github.com/educa/educa-web/internal/bootstrap"
	"github.com/educa/educa-web/internal/service"
	"github.com/redis/go-redis/v9"
)

type commandFn func(ctx *commandContext, args []string) error

type command struct {
	name        string
	description string
	run         commandFn
}

type commandContext struct {
	Ctx    context.Context
	Logger *slog.Logger
	Config config.AppConfig
	Out    io.Writer
	// Connect opens Redis; replaced in tests.
	Connect func(ctx context.Context, cfg config.AppConfig, logger *slog.Logger) (redis.UniversalClient, error)
}

func main() {
	logger := bootstrap.InitLogger()

	if len(os.Args) < 2 {
		if err := printUsage(os.Stdout); err != nil {
			logger.Error("print usage failed", "error", err)
		}
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when no command is provided
	}

	cmdName := os.Args[1]
	cmd, ok := commands()[cmdName]
	if !ok {
		if err := fprintf(os.Stderr, "unknown command %q\n\n", cmdName); err != nil {
			logger.Error("print unknown command message failed", "error", err)
		}
		if err := printUsage(os.Stdout); err != nil {
			logger.Error("print usage failed", "error", err)
		}
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when command is unknown
	}

	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		logger.ErrorContext(context.Background(), "load config", "error", err)
		os.Exit(1) //nolint:forbidigo // CLI must signal configuration load failure to shell scripts
	}

	cmdCtx := &commandContext{
		Ctx:     context.Background(),
		Logger:  logger,
		Config:  cfg,
		Out:     os.Stdout,
		Connect: connectRedis,
	}
	if runErr := cmd.run(cmdCtx, os.Args[2:]); runErr != nil {
		logger.ErrorContext(cmdCtx.Ctx, "command failed", "command", cmdName, "error", runErr)
		os.Exit(1) //nolint:forbidigo // CLI must propagate command execution failure to callers
	}
}

func commands() map[string]command {
	return map[string]command{
		"handoff-url": {
			name:        "handoff-url",
			description: "Mint a dev handoff URL for the DEV_AUTH_* identity",
			run:         runHandoffURL,
		},
		"session": {
			name:        "session",
			description: "Show the session stored for a browser scope",
			run:         runShowSession,
		},
		"logout": {
			name:        "logout",
			description: "Clear the session stored for a browser scope",
			run:         runLogout,
		},
		"list-scopes": {
			name:        "list-scopes",
			description: "List browser scopes that hold storage keys in Redis",
			run:         runListScopes,
		},
	}
}

func printUsage(w io.Writer) error {
	if err := fprintf(w, "Usage: educa-admin <command> [flags]\n\n"); err != nil {
		return err
	}
	if err := fprintf(w, "Available commands:\n"); err != nil {
		return err
	}
	names := make([]string, 0, len(commands()))
	for name := range commands() {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		c := commands()[name]
		if err := fprintf(w, "  %-16s %s\n", c.name, c.description); err != nil {
			return err
		}
	}
	return nil
}

//nolint:ireturn // returning redis.UniversalClient keeps sentinel/cluster support flexible.
func connectRedis(ctx context.Context, cfg config.AppConfig, logger *slog.Logger) (redis.UniversalClient, error) {
	if cfg.Storage.Backend != config.StorageBackendRedis {
		return nil, fmt.Errorf("storage backend %q is process-local; inspect sessions through the running server", cfg.Storage.Backend)
	}
	return bootstrap.ConnectRedis(ctx, bootstrap.RedisConnectConfig{RedisConfig: cfg.Redis, Logger: logger})
}

// withSessions opens the configured storage, builds the session store and
// hands it to fn. The Redis connection is closed afterwards.
func withSessions(cmdCtx *commandContext, fn func(*service.SessionStore) error) error {
	client, err := cmdCtx.Connect(cmdCtx.Ctx, cmdCtx.Config, cmdCtx.Logger)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := client.Close(); closeErr != nil {
			cmdCtx.Logger.Warn("redis close failed", "error", closeErr)
		}
	}()

	services, err := bootstrap.NewServices(&bootstrap.ServiceDeps{
		Config:      &cmdCtx.Config,
		RedisClient: client,
		Logger:      cmdCtx.Logger,
	})
	if err != nil {
		return err
	}
	return fn(services.Sessions)
}

func requireScope(args []string) (string, error) {
	if len(args) != 1 || args[0] == "" {
		return "", errors.New("expected exactly one browser scope argument")
	}
	return args[0], nil
}

func fprintf(w io.Writer, format string, args ...any) error {
	if _, err := fmt.Fprintf(w, format, args...); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
