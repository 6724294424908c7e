package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"
)

// Logging logs one line per request. Server errors log at error level and
// client errors at warn. The URL fragment never reaches the server, so handoff
// tokens cannot appear here.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			level := slog.LevelInfo
			switch {
			case rec.status >= http.StatusInternalServerError:
				level = slog.LevelError
			case rec.status >= http.StatusBadRequest:
				level = slog.LevelWarn
			}
			logger.LogAttrs(r.Context(), level, "http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", rec.status),
				slog.Int("bytes", rec.bytes),
				slog.Bool("htmx", IsHTMX(r)),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

// statusRecorder captures what Logging and Recover need to know about a response.
type statusRecorder struct {
	http.ResponseWriter
	status      int
	bytes       int
	wroteHeader bool
}

func (w *statusRecorder) WriteHeader(status int) {
	if !w.wroteHeader {
		w.status = status
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusRecorder) Write(b []byte) (int, error) {
	w.wroteHeader = true
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// Recover turns panics into a 500 in the form the caller understands.
// A handler reading a session outside the gate panics by contract.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			defer func() {
				p := recover()
				if p == nil {
					return
				}
				if p == http.ErrAbortHandler { //nolint:errorlint // sentinel panic value, never wrapped
					panic(p)
				}
				logger.ErrorContext(r.Context(), "panic",
					slog.Any("error", p),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.String("stack", string(debug.Stack())))
				if rec.wroteHeader {
					return
				}
				if IsBrowserRequest(r) {
					http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
					return
				}
				WriteJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal_error"})
			}()
			next.ServeHTTP(rec, r)
		})
	}
}

// NoStore marks responses as uncacheable. Used on auth endpoints.
func NoStore(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		w.Header().Set("Referrer-Policy", "no-referrer")
		next.ServeHTTP(w, r)
	})
}

type browserKey struct{}

// BrowserDetection classifies each request once so every handler below it
// answers HTML or JSON consistently.
func BrowserDetection() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), browserKey{}, isBrowserRequest(r))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IsBrowserRequest reports the BrowserDetection verdict, classifying the
// request directly when the middleware did not run.
func IsBrowserRequest(r *http.Request) bool {
	if v, ok := r.Context().Value(browserKey{}).(bool); ok {
		return v
	}
	return isBrowserRequest(r)
}

// isBrowserRequest classifies a request as page navigation. /api/ routes,
// JSON endpoints, health checks and static assets never are; htmx always is;
// otherwise the Accept header decides, and a missing header counts as a browser.
func isBrowserRequest(r *http.Request) bool {
	switch {
	case r.URL.Path == PathAuthStatus, r.URL.Path == PathHealth:
		return false
	case strings.HasPrefix(r.URL.Path, "/api/"), strings.HasPrefix(r.URL.Path, PathStatic):
		return false
	}

	if IsHTMX(r) {
		return true
	}
	accept := r.Header.Get("Accept")
	return accept == "" || strings.Contains(accept, "text/html")
}

// wantsJSON reports whether the caller is script-driven (fetch, XHR, htmx) and
// expects a JSON body carrying the next location instead of a redirect.
func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json") ||
		IsHTMX(r) ||
		strings.EqualFold(r.Header.Get("X-Requested-With"), "XMLHttpRequest")
}
