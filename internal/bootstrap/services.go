package bootstrap

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	educa "github.com/educa/educa-web"
	"github.com/educa/educa-web/config"
	"github.com/educa/educa-web/internal/adapters/authroles"
	"github.com/educa/educa-web/internal/adapters/devauth"
	"github.com/educa/educa-web/internal/adapters/jwtclaims"
	"github.com/educa/educa-web/internal/adapters/memory"
	redisadapter "github.com/educa/educa-web/internal/adapters/redis"
	"github.com/educa/educa-web/internal/adapters/translations"
	"github.com/educa/educa-web/internal/domain/navigation"
	httpx "github.com/educa/educa-web/internal/http"
	"github.com/educa/educa-web/internal/ports"
	"github.com/educa/educa-web/internal/service"
	"github.com/redis/go-redis/v9"
)

// i18nDir is the translations directory relative to the repo root and the embedded FS.
const i18nDir = "frontend/i18n"

// ServiceDeps contains the infrastructure services are built on.
type ServiceDeps struct {
	Config      *config.AppConfig
	RedisClient redis.UniversalClient // Required for the redis storage backend
	Logger      *slog.Logger
}

// ServiceContainer holds all initialized services.
type ServiceContainer struct {
	Storage      ports.LocalStorage
	Health       httpx.Pinger // nil for the in-memory backend
	Sessions     *service.SessionStore
	Auth         *service.AuthService
	Navigation   *navigation.Resolver
	Translations *translations.Provider
	DevAuth      *devauth.Provider // nil unless AUTH_MODE=mock
}

// NewServices creates all service instances from infrastructure dependencies.
func NewServices(deps *ServiceDeps) (*ServiceContainer, error) {
	if deps == nil || deps.Config == nil {
		return nil, errors.New("service deps with config are required")
	}
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	c := &ServiceContainer{}
	if err := c.initStorage(deps); err != nil {
		return nil, err
	}

	c.Sessions = service.NewSessionStore(service.SessionStoreOptions{
		Storage: c.Storage,
		Roles:   authroles.StaticRoleMapper{},
		Tokens:  jwtclaims.NewInspector(),
		Config:  service.SessionStoreConfig{DefaultTTL: cfg.Storage.DefaultTTL},
		Logger:  logger,
	})
	c.Auth = service.NewAuthService(service.AuthServiceOptions{
		Sessions: c.Sessions,
		Config:   service.AuthServiceConfig{LoginURL: cfg.Auth.LoginURL},
		Logger:   logger,
	})
	c.Navigation = navigation.NewResolver(navigation.NewModuleSet(cfg.UI.ActiveModules...))

	tr, err := translations.Load(i18nFS(cfg.IsDev), i18nDir, cfg.UI.DefaultLocale)
	if err != nil {
		return nil, fmt.Errorf("load translations: %w", err)
	}
	c.Translations = tr

	if cfg.Auth.Mode == config.AuthModeMock {
		dev, devErr := NewDevAuth(cfg.Auth.DevAuth)
		if devErr != nil {
			return nil, devErr
		}
		c.DevAuth = dev
		logger.Warn("dev login enabled", "user_id", cfg.Auth.DevAuth.UserID, "role", cfg.Auth.DevAuth.RoleCode)
	}

	return c, nil
}

func (c *ServiceContainer) initStorage(deps *ServiceDeps) error {
	switch deps.Config.Storage.Backend {
	case config.StorageBackendMemory:
		c.Storage = memory.NewLocalStorage()
	case config.StorageBackendRedis, "":
		if deps.RedisClient == nil {
			return errors.New("redis client is required for the redis storage backend")
		}
		store := redisadapter.NewLocalStorageWithPrefix(deps.RedisClient, deps.Config.Storage.KeyPrefix)
		c.Storage = store
		c.Health = store
	default:
		return fmt.Errorf("unsupported storage backend %q", deps.Config.Storage.Backend)
	}
	return nil
}

// NewDevAuth builds the dev login identity from configuration.
func NewDevAuth(cfg config.DevAuthConfig) (*devauth.Provider, error) {
	p, err := devauth.NewProvider(devauth.Config{
		UserID:     cfg.UserID,
		Email:      cfg.Email,
		FirstName:  cfg.FirstName,
		LastName:   cfg.LastName,
		RoleCode:   cfg.RoleCode,
		SchoolID:   cfg.SchoolID,
		SigningKey: []byte(cfg.SigningKey),
		TokenTTL:   cfg.TokenTTL,
	})
	if err != nil {
		return nil, fmt.Errorf("init dev auth: %w", err)
	}
	return p, nil
}

func i18nFS(isDev bool) fs.FS {
	if isDev {
		return os.DirFS(".")
	}
	return educa.I18nFS
}
