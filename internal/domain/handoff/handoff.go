// Package handoff parses the one-time credential transfer that the external
// login application appends to the dashboard URL as a fragment:
//
//	#at=<access_token>&rt=<refresh_token>&u=<url-encoded JSON user>&dest=<path>
//
// Every field is untrusted. A bundle is only returned when the access token and
// a well-formed user record are both present.
package handoff

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	domainauth "github.com/educa/educa-web/internal/domain/auth"
)

// Fragment field names.
const (
	FieldAccessToken  = "at"
	FieldRefreshToken = "rt"
	FieldUser         = "u"
	FieldDestination  = "dest"
)

// DefaultDestination is used when the fragment names no destination.
const DefaultDestination = "/admin/dashboard"

// Bundle is the raw credential set carried by a handoff fragment.
// RefreshToken is empty when the login application sent none.
type Bundle struct {
	AccessToken  string
	RefreshToken string
	UserJSON     string
	Destination  string
}

// Reason classifies why a fragment was rejected.
type Reason string

const (
	ReasonEmpty              Reason = "empty_fragment"
	ReasonMissingAccessToken Reason = "missing_access_token"
	ReasonMissingUser        Reason = "missing_user"
	ReasonMalformed          Reason = "malformed"
)

// ParseError reports a rejected fragment. Err is set for ReasonMalformed.
type ParseError struct {
	Reason Reason
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("handoff: %s: %v", e.Reason, e.Err)
	}
	return "handoff: " + string(e.Reason)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ReasonOf extracts the rejection reason from err, or "" when err is not a ParseError.
func ReasonOf(err error) Reason {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe.Reason
	}
	return ""
}

// Parse converts fragment text (with or without the leading '#') into a Bundle.
func Parse(fragment string) (Bundle, error) {
	fragment = strings.TrimPrefix(fragment, "#")
	if strings.TrimSpace(fragment) == "" {
		return Bundle{}, &ParseError{Reason: ReasonEmpty}
	}

	values, err := url.ParseQuery(fragment)
	if err != nil {
		return Bundle{}, &ParseError{Reason: ReasonMalformed, Err: err}
	}

	at := values.Get(FieldAccessToken)
	if at == "" {
		return Bundle{}, &ParseError{Reason: ReasonMissingAccessToken}
	}
	userJSON := values.Get(FieldUser)
	if userJSON == "" {
		return Bundle{}, &ParseError{Reason: ReasonMissingUser}
	}
	if _, err := DecodeUser(userJSON); err != nil {
		return Bundle{}, &ParseError{Reason: ReasonMalformed, Err: err}
	}

	return Bundle{
		AccessToken:  at,
		RefreshToken: values.Get(FieldRefreshToken),
		UserJSON:     userJSON,
		Destination:  safeDestination(values.Get(FieldDestination)),
	}, nil
}

// DecodeUser parses a serialized RawUser. The value must be a JSON object.
func DecodeUser(userJSON string) (domainauth.RawUser, error) {
	var raw domainauth.RawUser
	trimmed := strings.TrimSpace(userJSON)
	if !strings.HasPrefix(trimmed, "{") {
		return raw, errors.New("user record is not a JSON object")
	}
	if err := json.Unmarshal([]byte(trimmed), &raw); err != nil {
		return raw, fmt.Errorf("decode user record: %w", err)
	}
	return raw, nil
}

// Erase returns the location that replaces the handoff URL in browser history:
// same origin, no fragment, path and query taken from dest.
func Erase(current *url.URL, dest string) *url.URL {
	out := url.URL{}
	if current != nil {
		out.Scheme = current.Scheme
		out.Host = current.Host
	}
	d, err := url.Parse(safeDestination(dest))
	if err != nil {
		d = &url.URL{Path: DefaultDestination}
	}
	out.Path = d.Path
	out.RawPath = d.RawPath
	out.RawQuery = d.RawQuery
	return &out
}

// Encode builds fragment text (without '#') for a bundle. Used by the dev
// login flow and tests; field order matches what the login application sends.
func Encode(b Bundle) string {
	parts := []string{FieldAccessToken + "=" + url.QueryEscape(b.AccessToken)}
	if b.RefreshToken != "" {
		parts = append(parts, FieldRefreshToken+"="+url.QueryEscape(b.RefreshToken))
	}
	parts = append(parts, FieldUser+"="+url.QueryEscape(b.UserJSON))
	if b.Destination != "" {
		parts = append(parts, FieldDestination+"="+url.QueryEscape(b.Destination))
	}
	return strings.Join(parts, "&")
}

// safeDestination keeps same-origin relative paths only.
func safeDestination(candidate string) string {
	if candidate == "" {
		return DefaultDestination
	}
	u, err := url.Parse(candidate)
	if err != nil || u.IsAbs() || u.Host != "" || !strings.HasPrefix(u.Path, "/") ||
		strings.HasPrefix(candidate, "//") || strings.Contains(candidate, "\\") {
		return DefaultDestination
	}
	return candidate
}
