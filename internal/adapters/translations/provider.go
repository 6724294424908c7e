// Package translations loads the nested locale dictionaries used for menu and
// page labels and matches browsers to a supported locale.
package translations

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"

	"golang.org/x/text/language"
)

// Provider implements ports.TranslationProvider over a directory of
// <locale>.json files.
type Provider struct {
	dicts         map[string]map[string]any
	locales       []string // defaultLocale first
	defaultLocale string
	matcher       language.Matcher
}

// Load reads every *.json file in dir of fsys. defaultLocale must be among them.
func Load(fsys fs.FS, dir, defaultLocale string) (*Provider, error) {
	if fsys == nil {
		return nil, errors.New("translations: filesystem is required")
	}
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read translations dir %s: %w", dir, err)
	}

	dicts := map[string]map[string]any{}
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".json" {
			continue
		}
		locale := strings.TrimSuffix(e.Name(), ".json")
		data, readErr := fs.ReadFile(fsys, path.Join(dir, e.Name()))
		if readErr != nil {
			return nil, fmt.Errorf("read translations %s: %w", e.Name(), readErr)
		}
		var dict map[string]any
		if jsonErr := json.Unmarshal(data, &dict); jsonErr != nil {
			return nil, fmt.Errorf("parse translations %s: %w", e.Name(), jsonErr)
		}
		dicts[locale] = dict
	}
	return New(dicts, defaultLocale)
}

// New builds a provider from in-memory dictionaries.
func New(dicts map[string]map[string]any, defaultLocale string) (*Provider, error) {
	if _, ok := dicts[defaultLocale]; !ok {
		return nil, fmt.Errorf("translations: no dictionary for default locale %q", defaultLocale)
	}

	others := make([]string, 0, len(dicts)-1)
	for l := range dicts {
		if l != defaultLocale {
			others = append(others, l)
		}
	}
	slices.Sort(others)
	locales := append([]string{defaultLocale}, others...)

	tags := make([]language.Tag, 0, len(locales))
	for _, l := range locales {
		tag, err := language.Parse(l)
		if err != nil {
			return nil, fmt.Errorf("translations: invalid locale %q: %w", l, err)
		}
		tags = append(tags, tag)
	}

	return &Provider{
		dicts:         dicts,
		locales:       locales,
		defaultLocale: defaultLocale,
		matcher:       language.NewMatcher(tags),
	}, nil
}

// Dictionary returns the dictionary for locale or the default locale's.
func (p *Provider) Dictionary(locale string) map[string]any {
	if d, ok := p.dicts[locale]; ok {
		return d
	}
	return p.dicts[p.defaultLocale]
}

// Supports reports whether locale has a dictionary.
func (p *Provider) Supports(locale string) bool {
	_, ok := p.dicts[locale]
	return ok
}

// Locales lists supported locales, default first.
func (p *Provider) Locales() []string { return slices.Clone(p.locales) }

// Match picks the supported locale closest to an Accept-Language value.
func (p *Provider) Match(acceptLanguage string) string {
	if strings.TrimSpace(acceptLanguage) == "" {
		return p.defaultLocale
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return p.defaultLocale
	}
	_, idx, conf := p.matcher.Match(tags...)
	if conf == language.No || idx < 0 || idx >= len(p.locales) {
		return p.defaultLocale
	}
	return p.locales[idx]
}
