package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func TestHealthHandler(t *testing.T) {
	refused := errors.New("dial tcp: connection refused")
	tests := []struct {
		name     string
		method   string
		storage  Pinger
		wantCode int
		wantBody string
	}{
		{name: "no storage", method: http.MethodGet, wantCode: http.StatusOK, wantBody: `{"status":"ok"}`},
		{name: "head has no body", method: http.MethodHead, wantCode: http.StatusOK},
		{name: "redis reachable", method: http.MethodGet, storage: stubPinger{}, wantCode: http.StatusOK, wantBody: `{"status":"ok"}`},
		{
			name:     "redis unreachable",
			method:   http.MethodGet,
			storage:  stubPinger{err: refused},
			wantCode: http.StatusServiceUnavailable,
			wantBody: `{"status":"unavailable"}`,
		},
		{name: "head while unreachable", method: http.MethodHead, storage: stubPinger{err: refused}, wantCode: http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HealthHandler{Storage: tt.storage}.ServeHTTP(rec, httptest.NewRequest(tt.method, "/healthz", nil))

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			if tt.wantBody == "" {
				assert.Zero(t, rec.Body.Len())
				return
			}
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}
