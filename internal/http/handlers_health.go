package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

const healthPingTimeout = 2 * time.Second

// Pinger is implemented by storage backends that can report connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

type healthStatus struct {
	Status string `json:"status"`
}

// HealthHandler serves /healthz. Without a Pinger it always reports ok;
// with one it answers 503 while the storage backend is unreachable.
type HealthHandler struct {
	Storage Pinger
	Logger  *slog.Logger
}

func (h HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	status, body := http.StatusOK, healthStatus{Status: "ok"}
	if err := h.ping(r.Context()); err != nil {
		if h.Logger != nil {
			h.Logger.WarnContext(r.Context(), "storage unreachable", "error", err)
		}
		status, body = http.StatusServiceUnavailable, healthStatus{Status: "unavailable"}
	}

	if r.Method == http.MethodHead {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		return
	}
	WriteJSON(w, status, body)
}

func (h HealthHandler) ping(ctx context.Context) error {
	if h.Storage == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, healthPingTimeout)
	defer cancel()
	return h.Storage.Ping(ctx)
}
