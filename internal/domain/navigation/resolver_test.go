package navigation

import (
	"testing"

	domainauth "github.com/educa/educa-web/internal/domain/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolver_Resolve(t *testing.T) {
	r := NewResolver(NewModuleSet(ModuleAI))
	dict := Dictionary{"menu": map[string]any{"teacher": map[string]any{"grades": "Notes"}}}

	entries := r.Resolve(domainauth.RoleTeacher, dict, "/teacher/grades/term-1")
	require.NotEmpty(t, entries)

	var active []Entry
	for _, e := range entries {
		if e.Active {
			active = append(active, e)
		}
	}
	require.Len(t, active, 1)
	assert.Equal(t, "/teacher/grades", active[0].Path)
	assert.Equal(t, "Notes", active[0].Label)

	// Missing translations fall back to the key.
	assert.Equal(t, "menu.teacher.dashboard", entries[0].Label)
	assert.Equal(t, "/teacher/assistant", entries[len(entries)-1].Path)
}

func TestResolver_AdminSettingsPrefersDeepestMatch(t *testing.T) {
	r := NewResolver(nil)
	entries := r.Resolve(domainauth.RoleAdmin, nil, "/admin/settings/branding")
	for _, e := range entries {
		assert.Equal(t, e.Path == "/admin/settings/branding", e.Active, e.Path)
	}
}

func TestResolver_Allows(t *testing.T) {
	r := NewResolver(NewModuleSet(ModuleAI))

	assert.True(t, r.Allows(domainauth.RoleAdmin, "/admin/assistant"))
	assert.False(t, r.Allows(domainauth.RoleAdmin, "/admin/subscription"), "inactive module")
	assert.False(t, r.Allows(domainauth.RoleStudent, "/admin/dashboard"))
	assert.True(t, r.Allows(domainauth.RoleStudent, "/student/grades"))
}

func TestResolver_Home(t *testing.T) {
	r := NewResolver(nil)
	home, ok := r.Home(domainauth.RoleStudent)
	require.True(t, ok)
	assert.Equal(t, "/student/dashboard", home)

	_, ok = r.Home(domainauth.Role("UNKNOWN"))
	assert.False(t, ok)
}

func TestResolver_LabelFor(t *testing.T) {
	r := NewResolver(nil)
	dict := Dictionary{"menu": map[string]any{"admin": map[string]any{"grades": "Notes"}}}
	assert.Equal(t, "Notes", r.LabelFor(domainauth.RoleAdmin, dict, "/admin/grades"))
	assert.Equal(t, "", r.LabelFor(domainauth.RoleAdmin, dict, "/nope"))
}
