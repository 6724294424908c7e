package handoff

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const jeanPierreFragment = "at=abc123&u=%7B%22id%22%3A%221%22%2C%22email%22%3A%22a%40b.com%22%2C%22first_name%22%3A%22Jean%22%2C%22last_name%22%3A%22Pierre%22%2C%22role%22%3A%22ADMIN_ECOLE%22%2C%22school_id%22%3Anull%7D"

func TestParse_ValidFragment(t *testing.T) {
	b, err := Parse(jeanPierreFragment)
	require.NoError(t, err)

	assert.Equal(t, "abc123", b.AccessToken)
	assert.Empty(t, b.RefreshToken)
	assert.Equal(t, DefaultDestination, b.Destination)

	raw, err := DecodeUser(b.UserJSON)
	require.NoError(t, err)
	assert.Equal(t, "1", raw.ID)
	assert.Equal(t, "a@b.com", raw.Email)
	assert.Equal(t, "ADMIN_ECOLE", raw.Role)
	assert.Nil(t, raw.SchoolID)
}

func TestParse_LeadingHashAndAllFields(t *testing.T) {
	b, err := Parse("#" + jeanPierreFragment + "&rt=refresh-1&dest=%2Fteacher%2Fdashboard%3Ftab%3D2")
	require.NoError(t, err)
	assert.Equal(t, "refresh-1", b.RefreshToken)
	assert.Equal(t, "/teacher/dashboard?tab=2", b.Destination)
}

func TestParse_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		fragment string
		reason   Reason
	}{
		{"empty", "", ReasonEmpty},
		{"hash only", "#", ReasonEmpty},
		{"whitespace", "   ", ReasonEmpty},
		{"missing at", "u=%7B%22id%22%3A%221%22%7D", ReasonMissingAccessToken},
		{"empty at", "at=&u=%7B%22id%22%3A%221%22%7D", ReasonMissingAccessToken},
		{"missing u", "at=abc123", ReasonMissingUser},
		{"empty u", "at=abc123&u=", ReasonMissingUser},
		{"u not json", "at=abc123&u=%7Bnot%20json", ReasonMalformed},
		{"u json array", "at=abc123&u=%5B1%2C2%5D", ReasonMalformed},
		{"u wrong field type", "at=abc123&u=%7B%22id%22%3A7%7D", ReasonMalformed},
		{"bad escape", "at=abc%zz&u=%7B%7D", ReasonMalformed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.fragment)
			require.Error(t, err)
			assert.Equal(t, tt.reason, ReasonOf(err))
		})
	}
}

func TestParse_UnsafeDestinationFallsBack(t *testing.T) {
	for _, dest := range []string{
		"https://evil.example/phish",
		"//evil.example",
		"relative/path",
		"/\\evil.example",
	} {
		frag := jeanPierreFragment + "&dest=" + url.QueryEscape(dest)
		b, err := Parse(frag)
		require.NoError(t, err, dest)
		assert.Equal(t, DefaultDestination, b.Destination, dest)
	}
}

func TestReasonOf_NonParseError(t *testing.T) {
	assert.Equal(t, Reason(""), ReasonOf(assert.AnError))
}

func TestErase(t *testing.T) {
	current, err := url.Parse("https://app.educa.test/auth/handoff#at=abc123&u=x")
	require.NoError(t, err)

	t.Run("explicit destination", func(t *testing.T) {
		got := Erase(current, "/student/grades?term=1")
		assert.Empty(t, got.Fragment)
		assert.Empty(t, got.RawFragment)
		assert.Equal(t, "/student/grades", got.Path)
		assert.Equal(t, "term=1", got.RawQuery)
		assert.Equal(t, "https://app.educa.test/student/grades?term=1", got.String())
	})

	t.Run("default destination", func(t *testing.T) {
		got := Erase(current, "")
		assert.Empty(t, got.Fragment)
		assert.Equal(t, DefaultDestination, got.Path)
	})

	t.Run("source is not modified", func(t *testing.T) {
		_ = Erase(current, "/teacher/dashboard")
		assert.Equal(t, "at=abc123&u=x", current.Fragment)
	})
}

func TestEncode_ParsesBack(t *testing.T) {
	in := Bundle{
		AccessToken:  "tok+en/=",
		RefreshToken: "r&t",
		UserJSON:     `{"id":"9","email":"x@y.z","first_name":"A","last_name":"B","role":"ELEVE","school_id":"s1"}`,
		Destination:  "/student/dashboard",
	}
	out, err := Parse(Encode(in))
	require.NoError(t, err)
	assert.Equal(t, in, out)
}
