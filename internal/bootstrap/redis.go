package bootstrap

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/educa/educa-web/config"
	"github.com/redis/go-redis/v9"
)

const redisPingTimeout = 5 * time.Second

// RedisConnectConfig contains configuration for the Redis connection.
type RedisConnectConfig struct {
	RedisConfig config.RedisConfig
	Logger      *slog.Logger
}

// ConnectRedis builds the configured client and verifies it with PING.
//
//nolint:ireturn // returning redis.UniversalClient lets us pick single, sentinel, or cluster clients at runtime.
func ConnectRedis(ctx context.Context, cfg RedisConnectConfig) (redis.UniversalClient, error) {
	client, target, err := NewRedisClient(cfg.RedisConfig)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if pingErr := client.Ping(pingCtx).Err(); pingErr != nil {
		if closeErr := client.Close(); closeErr != nil {
			pingErr = errors.Join(pingErr, fmt.Errorf("close redis client: %w", closeErr))
		}
		return nil, fmt.Errorf("ping redis %s: %w", target, pingErr)
	}

	if cfg.Logger != nil {
		cfg.Logger.InfoContext(ctx, "redis connected", "target", target)
	}
	return client, nil
}

// NewRedisClient builds the client selected by cfg without connecting. The
// returned description names the target for logs and never holds credentials.
//
//nolint:ireturn // returning redis.UniversalClient keeps client selection flexible.
func NewRedisClient(cfg config.RedisConfig) (redis.UniversalClient, string, error) {
	t, err := resolveRedisTarget(cfg)
	if err != nil {
		return nil, "", err
	}
	return t.client(), t.String(), nil
}

type redisMode int

const (
	redisDirect redisMode = iota
	redisSentinel
	redisCluster
)

// redisTarget is the connection settings after URL parsing and fallbacks.
type redisTarget struct {
	mode     redisMode
	addrs    []string
	username string
	password string
	db       int
	tls      *tls.Config

	masterName       string
	sentinelPassword string
}

func resolveRedisTarget(cfg config.RedisConfig) (redisTarget, error) {
	t := redisTarget{password: cfg.Password}
	switch {
	case cfg.UseCluster:
		t.mode = redisCluster
		t.addrs = compactAddrs(cfg.ClusterNodes)
		if len(t.addrs) == 0 {
			// A single seed node from REDIS_URI is enough for cluster discovery.
			if err := t.applyURI(cfg.URI); err != nil {
				return t, err
			}
		}
		if len(t.addrs) == 0 {
			return t, errors.New("redis cluster configuration requires at least one address")
		}
	case cfg.UseSentinel:
		t.mode = redisSentinel
		t.addrs = compactAddrs(cfg.SentinelNodes)
		if len(t.addrs) == 0 {
			return t, errors.New("redis sentinel configuration requires at least one sentinel node")
		}
		t.masterName = cfg.SentinelMasterName
		t.sentinelPassword = cfg.SentinelPassword
	default:
		t.mode = redisDirect
		if err := t.applyURI(cfg.URI); err != nil {
			return t, err
		}
		if len(t.addrs) == 0 {
			return t, errors.New("redis direct configuration requires a URI")
		}
	}
	return t, nil
}

// applyURI accepts either a bare host:port or a redis:// / rediss:// URL.
// Credentials in the URL win over REDIS_PASSWORD.
func (t *redisTarget) applyURI(uri string) error {
	uri = strings.TrimSpace(uri)
	switch {
	case uri == "":
		return nil
	case !strings.HasPrefix(uri, "redis://") && !strings.HasPrefix(uri, "rediss://"):
		t.addrs = []string{uri}
		return nil
	}

	opt, err := redis.ParseURL(uri)
	if err != nil {
		return fmt.Errorf("parse redis url: %w", err)
	}
	t.addrs = []string{opt.Addr}
	t.username = opt.Username
	if opt.Password != "" {
		t.password = opt.Password
	}
	t.db = opt.DB
	t.tls = opt.TLSConfig
	return nil
}

//nolint:ireturn // returning redis.UniversalClient keeps client selection flexible.
func (t redisTarget) client() redis.UniversalClient {
	switch t.mode {
	case redisCluster:
		return redis.NewClusterClient(&redis.ClusterOptions{
			Addrs:     t.addrs,
			Username:  t.username,
			Password:  t.password,
			TLSConfig: t.tls,
		})
	case redisSentinel:
		return redis.NewFailoverClient(&redis.FailoverOptions{
			MasterName:       t.masterName,
			SentinelAddrs:    t.addrs,
			Password:         t.password,
			SentinelPassword: t.sentinelPassword,
		})
	default:
		return redis.NewClient(&redis.Options{
			Addr:      t.addrs[0],
			Username:  t.username,
			Password:  t.password,
			DB:        t.db,
			TLSConfig: t.tls,
		})
	}
}

func (t redisTarget) String() string {
	switch t.mode {
	case redisCluster:
		return "cluster:" + strings.Join(t.addrs, ",")
	case redisSentinel:
		return "sentinel:" + t.masterName
	default:
		return t.addrs[0]
	}
}

func compactAddrs(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, addr := range raw {
		if addr = strings.TrimSpace(addr); addr != "" {
			out = append(out, addr)
		}
	}
	return out
}
