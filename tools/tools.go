//go:build tools
// +build tools

// Package tools documents development tool dependencies.
// They run via `go run` or `go install` and are not tracked in go.mod.
package tools

// Development tools:
//
// mockgen - generates internal/mocks from the ports interfaces
//   Run: go generate ./internal/mocks
//   Version: go.uber.org/mock v0.6.0 (matches go.mod)
//
// Air - live reload while editing templates and handlers (set DEV=true so
// templates, static files and translations load from disk)
//   Install: go install github.com/air-verse/air@v1.63.0
//   Docs: https://github.com/air-verse/air
