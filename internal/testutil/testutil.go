// Package testutil provides testing utilities and helpers for the EDUCA session gateway.
package testutil

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisProbeTimeout = 2 * time.Second
	redisLockTTL      = 30 * time.Minute
	redisLockPrefix   = "educa:testutil:db_lock:"
	redisMaxDB        = 15
)

// FixedTimeFunc returns a function that always returns the same time.
func FixedTimeFunc(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// TestTime returns a fixed time for testing.
func TestTime() time.Time {
	return time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
}

// SetupTestRedis returns a client on an empty Redis DB reserved for this test.
// The test is skipped when no Redis answers, unless TEST_REQUIRE_REDIS or
// TEST_REQUIRE_INFRA is set, in which case it fails.
//
// Addresses tried: REDIS_ADDR alone when set, otherwise redis:6379 (compose
// service), localhost:6379 and localhost:56379 (dev compose port).
func SetupTestRedis(t testing.TB) *redis.Client {
	t.Helper()

	addr, err := findRedis(redisCandidates())
	if err != nil {
		if envBool("TEST_REQUIRE_REDIS") || envBool("TEST_REQUIRE_INFRA") {
			t.Fatalf("redis required for tests: %v", err)
		}
		t.Skipf("redis not available for testing: %v", err)
	}

	client := redis.NewClient(&redis.Options{Addr: addr, DB: reserveDB(t, addr)})
	t.Cleanup(func() {
		if cerr := client.Close(); cerr != nil {
			t.Logf("close test redis client: %v", cerr)
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), redisProbeTimeout)
	defer cancel()
	if ferr := client.FlushDB(ctx).Err(); ferr != nil {
		t.Fatalf("flush test redis db: %v", ferr)
	}
	return client
}

func redisCandidates() []string {
	if addr := strings.TrimSpace(os.Getenv("REDIS_ADDR")); addr != "" {
		return []string{addr}
	}
	return []string{"redis:6379", "localhost:6379", "localhost:56379"}
}

func findRedis(addrs []string) (string, error) {
	var lastErr error
	for _, addr := range addrs {
		if err := pingRedis(addr); err != nil {
			lastErr = fmt.Errorf("%s: %w", addr, err)
			continue
		}
		return addr, nil
	}
	return "", lastErr
}

func pingRedis(addr string) error {
	c := redis.NewClient(&redis.Options{Addr: addr})
	defer func() { _ = c.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), redisProbeTimeout)
	defer cancel()
	return c.Ping(ctx).Err()
}

// reserveDB picks the DB index for one test so packages running in parallel
// never flush each other's data. TEST_REDIS_DB pins the index. Otherwise a
// SETNX lock in DB 0 claims one of 1..15 until cleanup; DB 1 is the fallback.
func reserveDB(t testing.TB, addr string) int {
	if v := os.Getenv("TEST_REDIS_DB"); v != "" {
		if i, err := strconv.Atoi(v); err == nil && i >= 0 {
			return i
		}
		t.Logf("ignoring invalid TEST_REDIS_DB=%q", v)
	}

	meta := redis.NewClient(&redis.Options{Addr: addr})
	defer func() { _ = meta.Close() }()

	owner := fmt.Sprintf("%d:%d", os.Getpid(), time.Now().UnixNano())
	for db := 1; db <= redisMaxDB; db++ {
		key := redisLockPrefix + strconv.Itoa(db)
		ctx, cancel := context.WithTimeout(context.Background(), redisProbeTimeout)
		ok, err := meta.SetNX(ctx, key, owner, redisLockTTL).Result()
		cancel()
		if err != nil || !ok {
			continue
		}
		t.Cleanup(func() { releaseDB(t, addr, key) })
		return db
	}
	t.Logf("no free redis test db at %s; sharing DB 1", addr)
	return 1
}

func releaseDB(t testing.TB, addr, key string) {
	c := redis.NewClient(&redis.Options{Addr: addr})
	defer func() { _ = c.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), redisProbeTimeout)
	defer cancel()
	if err := c.Del(ctx, key).Err(); err != nil {
		t.Logf("release redis test db lock %s: %v", key, err)
	}
}

func envBool(key string) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "1", "true", "yes", "y":
		return true
	default:
		return false
	}
}
