// Package navigation resolves the sidebar menu for a role: the hand-authored
// per-role entries, filtered by active feature modules, with labels looked up
// in a nested translation dictionary.
package navigation

import (
	"slices"
	"strings"

	domainauth "github.com/educa/educa-web/internal/domain/auth"
)

// Feature module names referenced by menu entries.
const (
	ModuleAI           = "ai"
	ModuleSubscription = "subscription"
)

// MenuItem is one navigable destination. Module, when set, names the feature
// module that must be active for the item to be shown.
type MenuItem struct {
	LabelKey string
	Path     string
	Module   string
}

// Dictionary is a nested translation dictionary for one locale.
type Dictionary = map[string]any

var menus = map[domainauth.Role][]MenuItem{ //nolint:gochecknoglobals // static menu tables, never mutated
	domainauth.RoleAdmin: {
		{LabelKey: "menu.admin.dashboard", Path: "/admin/dashboard"},
		{LabelKey: "menu.admin.students", Path: "/admin/students"},
		{LabelKey: "menu.admin.teachers", Path: "/admin/teachers"},
		{LabelKey: "menu.admin.classes", Path: "/admin/classes"},
		{LabelKey: "menu.admin.enrollment", Path: "/admin/enrollment"},
		{LabelKey: "menu.admin.attendance", Path: "/admin/attendance"},
		{LabelKey: "menu.admin.grades", Path: "/admin/grades"},
		{LabelKey: "menu.admin.schoolYear", Path: "/admin/school-year"},
		{LabelKey: "menu.admin.assistant", Path: "/admin/assistant", Module: ModuleAI},
		{LabelKey: "menu.admin.subscription", Path: "/admin/subscription", Module: ModuleSubscription},
		{LabelKey: "menu.admin.branding", Path: "/admin/settings/branding"},
		{LabelKey: "menu.admin.settings", Path: "/admin/settings"},
	},
	domainauth.RoleTeacher: {
		{LabelKey: "menu.teacher.dashboard", Path: "/teacher/dashboard"},
		{LabelKey: "menu.teacher.classes", Path: "/teacher/classes"},
		{LabelKey: "menu.teacher.attendance", Path: "/teacher/attendance"},
		{LabelKey: "menu.teacher.grades", Path: "/teacher/grades"},
		{LabelKey: "menu.teacher.schedule", Path: "/teacher/schedule"},
		{LabelKey: "menu.teacher.assistant", Path: "/teacher/assistant", Module: ModuleAI},
	},
	domainauth.RoleStudent: {
		{LabelKey: "menu.student.dashboard", Path: "/student/dashboard"},
		{LabelKey: "menu.student.grades", Path: "/student/grades"},
		{LabelKey: "menu.student.attendance", Path: "/student/attendance"},
		{LabelKey: "menu.student.schedule", Path: "/student/schedule"},
		{LabelKey: "menu.student.assistant", Path: "/student/assistant", Module: ModuleAI},
	},
}

// MenuFor returns a copy of the fixed menu for role, or nil for roles outside the enumeration.
func MenuFor(role domainauth.Role) []MenuItem {
	return slices.Clone(menus[role])
}

// AllPaths lists every menu path across roles, each once, in role then menu order.
func AllPaths() []string {
	var out []string
	seen := map[string]bool{}
	for _, role := range domainauth.Roles() {
		for _, it := range menus[role] {
			if !seen[it.Path] {
				seen[it.Path] = true
				out = append(out, it.Path)
			}
		}
	}
	return out
}

// ModuleSet is the set of active feature module names.
type ModuleSet map[string]struct{}

// NewModuleSet builds a set from names, ignoring blanks.
func NewModuleSet(names ...string) ModuleSet {
	s := make(ModuleSet, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			s[n] = struct{}{}
		}
	}
	return s
}

// Has reports whether name is active.
func (s ModuleSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Names returns the active module names in sorted order.
func (s ModuleSet) Names() []string {
	out := make([]string, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	slices.Sort(out)
	return out
}

// Filter keeps items without a module and items whose module is active.
// Order is preserved and items is left untouched.
func Filter(items []MenuItem, active ModuleSet) []MenuItem {
	out := make([]MenuItem, 0, len(items))
	for _, it := range items {
		if it.Module == "" || active.Has(it.Module) {
			out = append(out, it)
		}
	}
	return out
}

// ResolveLabel walks dottedKey through dict. On any miss, or when the final
// value is not a string, it returns dottedKey unchanged.
func ResolveLabel(dict Dictionary, dottedKey string) string {
	var current any = dict
	for _, seg := range strings.Split(dottedKey, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return dottedKey
		}
		if current, ok = m[seg]; !ok {
			return dottedKey
		}
	}
	if s, ok := current.(string); ok {
		return s
	}
	return dottedKey
}
