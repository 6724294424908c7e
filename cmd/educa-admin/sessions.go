package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/educa/educa-web/internal/bootstrap"
	domainauth "github.com/educa/educa-web/internal/domain/auth"
	"github.com/educa/educa-web/internal/service"
	"github.com/redis/go-redis/v9"
)

const commandTimeout = 30 * time.Second

type handoffURLOptions struct {
	BaseURL string
	Dest    string
}

func parseHandoffURLFlags(args []string, defaultBase string) (handoffURLOptions, error) {
	fs := flag.NewFlagSet("handoff-url", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	opts := handoffURLOptions{}
	fs.StringVar(&opts.BaseURL, "base", defaultBase, "Public base URL of the dashboard")
	fs.StringVar(&opts.Dest, "dest", "", "Path to land on after the handoff")
	if err := fs.Parse(args); err != nil {
		return opts, fmt.Errorf("parse flags: %w", err)
	}
	return opts, nil
}

func runHandoffURL(cmdCtx *commandContext, args []string) error {
	opts, err := parseHandoffURLFlags(args, cmdCtx.Config.HTTP.BaseURL)
	if err != nil {
		return err
	}
	dev, err := bootstrap.NewDevAuth(cmdCtx.Config.Auth.DevAuth)
	if err != nil {
		return err
	}
	u, err := dev.HandoffURL(opts.BaseURL, opts.Dest)
	if err != nil {
		return fmt.Errorf("mint handoff url: %w", err)
	}
	return fprintf(cmdCtx.Out, "%s\n", u)
}

func runShowSession(cmdCtx *commandContext, args []string) error {
	scope, err := requireScope(args)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, commandTimeout)
	defer cancel()

	return withSessions(cmdCtx, func(store *service.SessionStore) error {
		return printSession(cmdCtx.Out, scope, store.Read(ctx, scope))
	})
}

func printSession(w io.Writer, scope string, sess *domainauth.Session) error {
	if sess == nil {
		return fprintf(w, "no session for scope %s\n", scope)
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	rows := [][2]string{
		{"Scope", scope},
		{"User ID", sess.User.ID},
		{"Name", sess.User.Name},
		{"Email", sess.User.Email},
		{"Role", string(sess.User.Role)},
		{"Backend role", sess.RawUser.Role},
		{"Refresh token", presence(sess.RefreshToken)},
		{"Expires", formatExpiry(sess.ExpiresAt)},
	}
	for _, row := range rows {
		if err := fprintf(tw, "%s:\t%s\n", row[0], row[1]); err != nil {
			return err
		}
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}
	return nil
}

func presence(v string) string {
	if v == "" {
		return "absent"
	}
	return "present"
}

func formatExpiry(t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	return t.UTC().Format(time.RFC3339)
}

func runLogout(cmdCtx *commandContext, args []string) error {
	scope, err := requireScope(args)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, commandTimeout)
	defer cancel()

	return withSessions(cmdCtx, func(store *service.SessionStore) error {
		if clearErr := store.Clear(ctx, scope); clearErr != nil {
			return clearErr
		}
		cmdCtx.Logger.Info("session cleared", "scope", scope)
		return fprintf(cmdCtx.Out, "cleared session for scope %s\n", scope)
	})
}

func runListScopes(cmdCtx *commandContext, _ []string) error {
	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, commandTimeout)
	defer cancel()

	client, err := cmdCtx.Connect(ctx, cmdCtx.Config, cmdCtx.Logger)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := client.Close(); closeErr != nil {
			cmdCtx.Logger.Warn("redis close failed", "error", closeErr)
		}
	}()

	prefix := cmdCtx.Config.Storage.KeyPrefix
	var mu sync.Mutex
	counts := map[string]int{}
	err = scanKeys(ctx, client, prefix+"*", func(key string) {
		if scope, ok := scopeFromKey(prefix, key); ok {
			mu.Lock()
			counts[scope]++
			mu.Unlock()
		}
	})
	if err != nil {
		return fmt.Errorf("redis scan: %w", err)
	}
	return printScopes(cmdCtx.Out, counts)
}

// scanKeys calls visit for every key matching pattern. A cluster client scans
// each master, concurrently, since SCAN only walks the node it is sent to.
func scanKeys(ctx context.Context, client redis.UniversalClient, pattern string, visit func(key string)) error {
	scan := func(ctx context.Context, c redis.Cmdable) error {
		iter := c.Scan(ctx, 0, pattern, 100).Iterator()
		for iter.Next(ctx) {
			visit(iter.Val())
		}
		return iter.Err()
	}
	if cluster, ok := client.(*redis.ClusterClient); ok {
		return cluster.ForEachMaster(ctx, func(ctx context.Context, node *redis.Client) error {
			return scan(ctx, node)
		})
	}
	return scan(ctx, client)
}

// scopeFromKey extracts the scope from a <prefix><scope>:<key> storage key.
func scopeFromKey(prefix, key string) (string, bool) {
	rest, ok := strings.CutPrefix(key, prefix)
	if !ok {
		return "", false
	}
	scope, _, found := strings.Cut(rest, ":")
	if !found || scope == "" {
		return "", false
	}
	return scope, true
}

func printScopes(w io.Writer, counts map[string]int) error {
	if len(counts) == 0 {
		return fprintf(w, "(no scopes found)\n")
	}
	scopes := make([]string, 0, len(counts))
	for s := range counts {
		scopes = append(scopes, s)
	}
	sort.Strings(scopes)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if err := fprintf(tw, "SCOPE\tKEYS\n"); err != nil {
		return err
	}
	for _, s := range scopes {
		if err := fprintf(tw, "%s\t%d\n", s, counts[s]); err != nil {
			return err
		}
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}
	return fprintf(w, "\nTotal scopes: %d\n", len(scopes))
}
