package httpx

import (
	"net/http"
	"strings"
)

const (
	hxRequestHeader        = "Hx-Request"
	hxHistoryRestoreHeader = "Hx-History-Restore-Request"
	hxRedirectHeader       = "Hx-Redirect"
)

// IsHTMX reports whether the request was issued by htmx.
func IsHTMX(r *http.Request) bool {
	return headerIsTrue(r, hxRequestHeader)
}

// WantsPartial reports whether only the content block should be rendered.
// A history restore swaps the whole body, so it gets the full layout.
func WantsPartial(r *http.Request) bool {
	return IsHTMX(r) && !headerIsTrue(r, hxHistoryRestoreHeader)
}

// SetHXRedirect makes htmx perform a full navigation to url.
func SetHXRedirect(w http.ResponseWriter, url string) {
	w.Header().Set(hxRedirectHeader, url)
}

func headerIsTrue(r *http.Request, name string) bool {
	return strings.EqualFold(strings.TrimSpace(r.Header.Get(name)), "true")
}
