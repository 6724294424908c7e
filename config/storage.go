package config

import (
	"fmt"
	"strings"
	"time"
)

// StorageBackend selects where browser storage lives.
type StorageBackend string

const (
	// StorageBackendRedis keeps browser storage in Redis (shared across replicas).
	StorageBackendRedis StorageBackend = "redis"
	// StorageBackendMemory keeps browser storage in process (single instance, lost on restart).
	StorageBackendMemory StorageBackend = "memory"
)

// UnmarshalText implements encoding.TextUnmarshaler for StorageBackend.
func (b *StorageBackend) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "redis", "memory":
		*b = StorageBackend(v)
		return nil
	default:
		return fmt.Errorf("invalid StorageBackend: %q (valid options: redis, memory)", v)
	}
}

// StorageConfig contains browser storage configuration.
type StorageConfig struct {
	Backend StorageBackend `env:"STORAGE_BACKEND" envDefault:"redis"`

	// KeyPrefix namespaces storage keys in a shared Redis.
	KeyPrefix string `env:"STORAGE_KEY_PREFIX" envDefault:"educa:storage:"`

	// DefaultTTL applies when an access token has no readable expiry. Zero keeps entries forever.
	DefaultTTL time.Duration `env:"STORAGE_DEFAULT_TTL" envDefault:"720h"`
}

// Sanitize applies guardrails to storage configuration values.
func (s *StorageConfig) Sanitize() {
	if s.DefaultTTL < 0 {
		s.DefaultTTL = 0
	}
	if s.KeyPrefix == "" {
		s.KeyPrefix = "educa:storage:"
	}
}

// RedisConfig contains Redis configuration.
type RedisConfig struct {
	URI                string   `env:"URI"                  envDefault:"localhost:6379"`
	Password           string   `env:"PASSWORD"             envDefault:""`
	SentinelPort       string   `env:"SENTINEL_PORT"        envDefault:"26379"`
	SentinelNodes      []string `env:"SENTINEL_NODES"       envDefault:"localhost:26379"`
	SentinelMasterName string   `env:"SENTINEL_MASTER_NAME" envDefault:"mymaster"`
	SentinelPassword   string   `env:"SENTINEL_PASSWORD"    envDefault:""`
	UseSentinel        bool     `env:"USE_SENTINEL"         envDefault:"false"`
	ClusterNodes       []string `env:"CLUSTER_NODES"        envDefault:""`
	UseCluster         bool     `env:"USE_CLUSTER"          envDefault:"false"`
}
