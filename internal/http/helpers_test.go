package httpx

import (
	"bytes"
	"encoding/json"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// diskTemplates parses frontend/templates from the working tree, as dev mode does.
func diskTemplates(t *testing.T) *TemplateRenderer {
	t.Helper()
	if _, err := os.Stat(TemplatePathFromTest); err != nil {
		t.Skipf("templates not available: %v", err)
	}
	tr, err := NewTemplateRenderer(TemplateRendererConfig{TemplateFS: os.DirFS(TemplatePathFromTest)})
	require.NoError(t, err)
	return tr
}

func containsAll(s string, subs []string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}

// clientRequest is one request made by the end-to-end browser stand-in.
type clientRequest struct {
	Method  string
	URL     string
	Payload any // JSON-encoded when set
	Headers map[string]string
	Cookies []*http.Cookie
}

// doRequest sends req without following redirects, since redirects are what
// the tests assert. Accept defaults to JSON; Headers may override it.
func doRequest(t *testing.T, req clientRequest) *http.Response {
	t.Helper()
	require.NotEmpty(t, req.Method)
	require.NotEmpty(t, req.URL)

	var body bytes.Buffer
	if req.Payload != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(req.Payload))
	}
	httpReq, err := http.NewRequestWithContext(t.Context(), req.Method, req.URL, &body)
	require.NoError(t, err)

	httpReq.Header.Set("Accept", "application/json")
	if req.Payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}
	for _, c := range req.Cookies {
		httpReq.AddCookie(c)
	}

	client := &http.Client{
		Timeout:       10 * time.Second,
		CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse },
	}
	resp, err := client.Do(httpReq)
	require.NoError(t, err)
	return resp
}
