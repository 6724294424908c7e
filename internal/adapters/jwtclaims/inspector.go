// Package jwtclaims reads claims from access tokens issued by the login
// application. Signatures are not verified here: the dashboard treats tokens
// as opaque bearer credentials and only uses the expiry to size storage TTLs.
package jwtclaims

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Inspector implements ports.TokenInspector.
type Inspector struct {
	parser *jwt.Parser
}

// NewInspector creates an inspector.
func NewInspector() *Inspector {
	return &Inspector{parser: jwt.NewParser()}
}

// ExpiresAt returns the token's exp claim. ok is false for non-JWT tokens and
// for JWTs without exp.
func (i *Inspector) ExpiresAt(token string) (time.Time, bool) {
	if token == "" {
		return time.Time{}, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := i.parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
