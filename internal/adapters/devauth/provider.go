package devauth

// Package devauth stands in for the external login application during local
// development by minting handoff fragments for a configured user.

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	domainauth "github.com/educa/educa-web/internal/domain/auth"
	"github.com/educa/educa-web/internal/domain/handoff"
	"github.com/golang-jwt/jwt/v5"
)

// HandoffPath is where minted fragments are delivered.
const HandoffPath = "/auth/handoff"

// Config controls the dev identity and its tokens.
// UserID, Email and RoleCode are required.
type Config struct {
	UserID     string
	Email      string
	FirstName  string
	LastName   string
	RoleCode   string // backend code, e.g. ADMIN_ECOLE
	SchoolID   string
	SigningKey []byte        // random per process when empty
	TokenTTL   time.Duration // default 8h when zero
}

// Provider mints handoff bundles the way the login application would:
// an HS256 access token, an opaque refresh token and the raw user record.
type Provider struct {
	user     domainauth.RawUser
	userJSON string
	key      []byte
	ttl      time.Duration
	now      func() time.Time
}

func (c Config) validate() error {
	var missing []string
	for name, v := range map[string]string{"UserID": c.UserID, "Email": c.Email, "RoleCode": c.RoleCode} {
		if v == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	slices.Sort(missing)
	return fmt.Errorf("dev auth: missing %s", strings.Join(missing, ", "))
}

// NewProvider constructs a dev handoff provider from Config.
func NewProvider(cfg Config) (*Provider, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	ttl := cfg.TokenTTL
	if ttl == 0 {
		ttl = 8 * time.Hour
	}
	key := cfg.SigningKey
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("generate signing key: %w", err)
		}
	}

	user := domainauth.RawUser{
		ID:        cfg.UserID,
		Email:     cfg.Email,
		FirstName: cfg.FirstName,
		LastName:  cfg.LastName,
		Role:      cfg.RoleCode,
	}
	if cfg.SchoolID != "" {
		school := cfg.SchoolID
		user.SchoolID = &school
	}
	data, err := json.Marshal(user)
	if err != nil {
		return nil, fmt.Errorf("encode dev user: %w", err)
	}

	return &Provider{user: user, userJSON: string(data), key: key, ttl: ttl, now: time.Now}, nil
}

// WithClock overrides the token clock.
func (p *Provider) WithClock(now func() time.Time) *Provider {
	p.now = now
	return p
}

// User returns the dev user record.
func (p *Provider) User() domainauth.RawUser { return p.user }

// Issue mints a fresh bundle targeting dest.
func (p *Provider) Issue(dest string) (handoff.Bundle, error) {
	now := p.now()
	claims := jwt.MapClaims{
		"sub":   p.user.ID,
		"email": p.user.Email,
		"role":  p.user.Role,
		"iat":   now.Unix(),
		"exp":   now.Add(p.ttl).Unix(),
	}
	at, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.key)
	if err != nil {
		return handoff.Bundle{}, fmt.Errorf("sign access token: %w", err)
	}
	rt, err := opaqueToken()
	if err != nil {
		return handoff.Bundle{}, fmt.Errorf("generate refresh token: %w", err)
	}
	return handoff.Bundle{
		AccessToken:  at,
		RefreshToken: rt,
		UserJSON:     p.userJSON,
		Destination:  dest,
	}, nil
}

// Fragment mints a bundle and encodes it as fragment text (without '#').
func (p *Provider) Fragment(dest string) (string, error) {
	b, err := p.Issue(dest)
	if err != nil {
		return "", err
	}
	return handoff.Encode(b), nil
}

// HandoffURL returns baseURL + HandoffPath + "#" + fragment.
func (p *Provider) HandoffURL(baseURL, dest string) (string, error) {
	frag, err := p.Fragment(dest)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(baseURL, "/") + HandoffPath + "#" + frag, nil
}

// opaqueToken stands in for the backend's refresh token, which the gateway
// stores but never reads.
func opaqueToken() (string, error) {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
