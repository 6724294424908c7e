package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/educa/educa-web/config"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

// RunConfig contains everything Run needs to serve the dashboard.
type RunConfig struct {
	Config *config.AppConfig
	Logger *slog.Logger
}

// Run connects infrastructure, builds services and serves HTTP until ctx is
// cancelled or SIGINT/SIGTERM arrives, then shuts down gracefully.
func Run(ctx context.Context, cfg RunConfig) error {
	if cfg.Config == nil {
		return errors.New("run config missing AppConfig")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	appCfg := cfg.Config

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var redisClient redis.UniversalClient
	if appCfg.Storage.Backend == config.StorageBackendRedis {
		client, err := ConnectRedis(ctx, RedisConnectConfig{RedisConfig: appCfg.Redis, Logger: logger})
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		redisClient = client
		defer func() {
			if cerr := redisClient.Close(); cerr != nil {
				logger.Error("close redis failed", "error", cerr)
			}
		}()
	} else {
		logger.Warn("using in-memory browser storage; sessions are lost on restart")
	}

	services, err := NewServices(&ServiceDeps{Config: appCfg, RedisClient: redisClient, Logger: logger})
	if err != nil {
		return err
	}

	server, err := NewHTTPServer(&HTTPServerConfig{Config: appCfg, Services: services, Logger: logger})
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return ServeHTTP(logger, server) })
	g.Go(func() error {
		<-gctx.Done()
		return ShutdownHTTPServer(ShutdownConfig{
			Context: context.WithoutCancel(gctx),
			Server:  server,
			Timeout: appCfg.HTTP.ShutdownTimeout,
			Logger:  logger,
		})
	})

	return g.Wait()
}
