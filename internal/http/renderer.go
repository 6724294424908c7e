package httpx

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/educa/educa-web/internal/domain/navigation"
)

// TemplateRenderer executes the shell, error, and handoff templates.
// Output is buffered so a failed template never leaves a half-written page.
type TemplateRenderer struct {
	t      *template.Template
	logger *slog.Logger
}

// TemplateRendererConfig holds configuration for creating a TemplateRenderer.
type TemplateRendererConfig struct {
	// TemplateFS holds the *.tmpl files: os.DirFS in dev, the embedded tree otherwise.
	TemplateFS fs.FS
	Logger     *slog.Logger
}

func NewTemplateRenderer(cfg TemplateRendererConfig) (*TemplateRenderer, error) {
	if cfg.TemplateFS == nil {
		return nil, errors.New("template filesystem is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	funcs := template.FuncMap{"t": navigation.ResolveLabel}
	t, err := template.New("educa").Funcs(funcs).ParseFS(cfg.TemplateFS, "*.tmpl")
	if err != nil {
		logger.Error("parse templates", "error", err)
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &TemplateRenderer{t: t, logger: logger}, nil
}

// RenderFull renders the shell layout around the page content.
func (r *TemplateRenderer) RenderFull(w http.ResponseWriter, _ *http.Request, data any) error {
	return r.execute(w, TemplateLayout, data)
}

// RenderPartial renders the content block only, for htmx swaps.
func (r *TemplateRenderer) RenderPartial(w http.ResponseWriter, _ *http.Request, data any) error {
	return r.execute(w, TemplateContent, data)
}

func (r *TemplateRenderer) RenderError(w http.ResponseWriter, _ *http.Request, data any) error {
	return r.execute(w, TemplateError, data)
}

// RenderHandoff renders the standalone page that reads the URL fragment.
func (r *TemplateRenderer) RenderHandoff(w http.ResponseWriter, _ *http.Request, data any) error {
	return r.execute(w, TemplateHandoff, data)
}

func (r *TemplateRenderer) execute(w http.ResponseWriter, name string, data any) error {
	var buf bytes.Buffer
	if err := r.t.ExecuteTemplate(&buf, name, data); err != nil {
		r.logger.Error("execute template", "template", name, "error", err)
		return fmt.Errorf("execute template %s: %w", name, err)
	}

	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
	}
	if _, err := buf.WriteTo(w); err != nil {
		r.logger.Warn("write page", "template", name, "error", err)
		return err
	}
	return nil
}
