package navigation

import (
	"strings"

	domainauth "github.com/educa/educa-web/internal/domain/auth"
)

// Entry is a resolved, labelled menu item ready for the shell.
type Entry struct {
	Label  string
	Path   string
	Active bool
}

// Resolver binds the process-wide active module set.
type Resolver struct {
	modules ModuleSet
}

// NewResolver creates a resolver for the given active modules.
func NewResolver(active ModuleSet) *Resolver {
	if active == nil {
		active = ModuleSet{}
	}
	return &Resolver{modules: active}
}

// Menu returns the filtered menu for role.
func (r *Resolver) Menu(role domainauth.Role) []MenuItem {
	return Filter(MenuFor(role), r.modules)
}

// Resolve labels the filtered menu for role. The entry matching currentPath,
// or the deepest entry that prefixes it, is marked active.
func (r *Resolver) Resolve(role domainauth.Role, dict Dictionary, currentPath string) []Entry {
	items := r.Menu(role)
	active := activeIndex(items, currentPath)
	out := make([]Entry, len(items))
	for i, it := range items {
		out[i] = Entry{
			Label:  ResolveLabel(dict, it.LabelKey),
			Path:   it.Path,
			Active: i == active,
		}
	}
	return out
}

// Allows reports whether path is in role's filtered menu.
func (r *Resolver) Allows(role domainauth.Role, path string) bool {
	for _, it := range r.Menu(role) {
		if it.Path == path {
			return true
		}
	}
	return false
}

// Home returns the first entry of role's filtered menu.
func (r *Resolver) Home(role domainauth.Role) (string, bool) {
	items := r.Menu(role)
	if len(items) == 0 {
		return "", false
	}
	return items[0].Path, true
}

// LabelFor returns the resolved label of the menu item at path, or "" if none.
func (r *Resolver) LabelFor(role domainauth.Role, dict Dictionary, path string) string {
	for _, it := range r.Menu(role) {
		if it.Path == path {
			return ResolveLabel(dict, it.LabelKey)
		}
	}
	return ""
}

func activeIndex(items []MenuItem, currentPath string) int {
	best, bestLen := -1, 0
	for i, it := range items {
		if it.Path == currentPath {
			return i
		}
		if strings.HasPrefix(currentPath, it.Path+"/") && len(it.Path) > bestLen {
			best, bestLen = i, len(it.Path)
		}
	}
	return best
}
