package main

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/educa/educa-web/config"
	domainauth "github.com/educa/educa-web/internal/domain/auth"
	"github.com/educa/educa-web/internal/domain/handoff"
	"github.com/educa/educa-web/internal/service"
	"github.com/educa/educa-web/internal/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCommandContext(out *bytes.Buffer) *commandContext {
	return &commandContext{
		Ctx:    context.Background(),
		Logger: slog.New(slog.DiscardHandler),
		Out:    out,
		Config: config.AppConfig{
			Auth: config.AuthConfig{
				LoginURL: "https://login.educa.test/login",
				DevAuth: config.DevAuthConfig{
					UserID:   "7",
					Email:    "prof@educa.test",
					RoleCode: "ENSEIGNANT",
				},
			},
			Storage: config.StorageConfig{Backend: config.StorageBackendRedis, KeyPrefix: "educa:storage:"},
			HTTP:    config.HTTPConfig{BaseURL: "http://localhost:8080/"},
			UI:      config.UIConfig{DefaultLocale: "fr"},
		},
		Connect: connectRedis,
	}
}

func TestPrintUsage(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, printUsage(&out))
	for name := range commands() {
		assert.Contains(t, out.String(), name)
	}
	assert.Less(t, strings.Index(out.String(), "handoff-url"), strings.Index(out.String(), "session"))
}

func TestRunHandoffURL(t *testing.T) {
	var out bytes.Buffer
	cmdCtx := newCommandContext(&out)

	require.NoError(t, runHandoffURL(cmdCtx, []string{"-dest", "/teacher/courses"}))

	raw := strings.TrimSpace(out.String())
	require.True(t, strings.HasPrefix(raw, "http://localhost:8080/auth/handoff#"), raw)
	_, fragment, _ := strings.Cut(raw, "#")

	b, err := handoff.Parse(fragment)
	require.NoError(t, err)
	assert.Equal(t, "/teacher/courses", b.Destination)
	assert.Contains(t, b.UserJSON, `"role":"ENSEIGNANT"`)
}

func TestRunHandoffURL_Errors(t *testing.T) {
	var out bytes.Buffer
	cmdCtx := newCommandContext(&out)

	assert.Error(t, runHandoffURL(cmdCtx, []string{"-unknown"}))

	cmdCtx.Config.Auth.DevAuth.Email = ""
	assert.Error(t, runHandoffURL(cmdCtx, nil))
	assert.Empty(t, out.String())
}

func TestRequireScope(t *testing.T) {
	_, err := requireScope(nil)
	require.Error(t, err)
	_, err = requireScope([]string{"a", "b"})
	require.Error(t, err)
	scope, err := requireScope([]string{"abc"})
	require.NoError(t, err)
	assert.Equal(t, "abc", scope)
}

func TestConnectRedis_RejectsMemoryBackend(t *testing.T) {
	cfg := config.AppConfig{Storage: config.StorageConfig{Backend: config.StorageBackendMemory}}
	_, err := connectRedis(context.Background(), cfg, slog.New(slog.DiscardHandler))
	assert.ErrorContains(t, err, "process-local")
}

func TestScopeFromKey(t *testing.T) {
	tests := []struct {
		key   string
		scope string
		ok    bool
	}{
		{key: "educa:storage:abc:educa_user", scope: "abc", ok: true},
		{key: "educa:storage:abc", ok: false},
		{key: "educa:storage::educa_user", ok: false},
		{key: "other:abc:educa_user", ok: false},
	}
	for _, tt := range tests {
		scope, ok := scopeFromKey("educa:storage:", tt.key)
		assert.Equal(t, tt.ok, ok, tt.key)
		assert.Equal(t, tt.scope, scope, tt.key)
	}
}

func TestPrintSession(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, printSession(&out, "s1", nil))
	assert.Equal(t, "no session for scope s1\n", out.String())

	out.Reset()
	sess := &domainauth.Session{
		AccessToken: "at",
		User:        domainauth.User{ID: "7", Name: "Awa Diallo", Email: "awa@educa.test", Role: domainauth.RoleTeacher},
		RawUser:     domainauth.RawUser{Role: "ENSEIGNANT"},
		ExpiresAt:   time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	require.NoError(t, printSession(&out, "s1", sess))
	for _, want := range []string{"Awa Diallo", "awa@educa.test", "ENSEIGNANT", "absent", "2030-01-02T03:04:05Z"} {
		assert.Contains(t, out.String(), want)
	}
}

func TestPrintScopes(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, printScopes(&out, nil))
	assert.Equal(t, "(no scopes found)\n", out.String())

	out.Reset()
	require.NoError(t, printScopes(&out, map[string]int{"b": 1, "a": 3}))
	assert.Less(t, strings.Index(out.String(), "a "), strings.Index(out.String(), "b "))
	assert.Contains(t, out.String(), "Total scopes: 2")
}

func TestSessionCommands_Redis(t *testing.T) {
	client := testutil.SetupTestRedis(t)

	var out bytes.Buffer
	cmdCtx := newCommandContext(&out)
	cmdCtx.Connect = func(context.Context, config.AppConfig, *slog.Logger) (redis.UniversalClient, error) {
		return redis.NewClient(client.Options()), nil
	}

	require.NoError(t, withSessions(cmdCtx, func(store *service.SessionStore) error {
		user := testutil.NewRawUser().WithName("Awa", "Diallo").WithRole("ENSEIGNANT")
		return store.Write(context.Background(), "scope-1", user.Bundle("token"))
	}))

	require.NoError(t, runShowSession(cmdCtx, []string{"scope-1"}))
	assert.Contains(t, out.String(), "Awa Diallo")

	out.Reset()
	require.NoError(t, runListScopes(cmdCtx, nil))
	assert.Contains(t, out.String(), "scope-1")

	out.Reset()
	require.NoError(t, runLogout(cmdCtx, []string{"scope-1"}))
	assert.Contains(t, out.String(), "cleared session for scope scope-1")

	out.Reset()
	require.NoError(t, runShowSession(cmdCtx, []string{"scope-1"}))
	assert.Equal(t, "no session for scope scope-1\n", out.String())
}

func TestScanKeys_Direct(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	ctx := t.Context()
	for _, k := range []string{"educa:storage:a:educa_user", "educa:storage:b:educa_user", "other:key"} {
		require.NoError(t, client.Set(ctx, k, "v", 0).Err())
	}

	var keys []string
	require.NoError(t, scanKeys(ctx, client, "educa:storage:*", func(key string) { keys = append(keys, key) }))
	assert.ElementsMatch(t, []string{"educa:storage:a:educa_user", "educa:storage:b:educa_user"}, keys)
}

func TestScanKeys_ClusterWalksMasters(t *testing.T) {
	cluster := redis.NewClusterClient(&redis.ClusterOptions{
		Addrs:       []string{"127.0.0.1:1"},
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = cluster.Close() })

	visited := false
	err := scanKeys(t.Context(), cluster, "educa:storage:*", func(string) { visited = true })
	require.Error(t, err, "an unreachable cluster has no masters to scan")
	assert.False(t, visited)
}
