// Package educa provides embedded assets for production builds.
package educa

import "embed"

// Embedded assets for production builds.
// In dev mode (IsDev=true), templates and static files are loaded from disk.
// In production mode (IsDev=false), they are served from these embedded filesystems.

//go:embed all:frontend/static
var StaticFS embed.FS

//go:embed all:frontend/templates
var TemplateFS embed.FS

// I18nFS holds one <locale>.json translation dictionary per supported locale.
//
//go:embed frontend/i18n/*.json
var I18nFS embed.FS
