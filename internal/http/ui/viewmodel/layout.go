// Package viewmodel holds the data shapes handed to HTML templates.
package viewmodel

// User represents the authenticated user context exposed to templates.
type User struct {
	Name  string
	Email string
	Role  string
}

// NavEntry is one resolved sidebar link.
type NavEntry struct {
	Label  string
	Path   string
	Active bool
}

// Layout captures shared chrome metadata (titles, navigation state, auth flags).
type Layout struct {
	Title           string
	PageTitle       string
	CurrentPath     string
	CSRFToken       string
	Locale          string
	Locales         []string
	IsAuthenticated bool
	User            *User
	Nav             []NavEntry
	Dict            map[string]any
}

// LayoutProvider exposes layout metadata for renderer utilities.
type LayoutProvider interface {
	LayoutData() *Layout
}

// Page is a protected screen inside the shell.
type Page struct {
	Layout  *Layout
	Heading string
}

func (p Page) LayoutData() *Layout { return p.Layout }

// ErrorPage is rendered by the error template.
type ErrorPage struct {
	Layout     *Layout
	StatusCode int
	Title      string
	Message    string
}

func (p ErrorPage) LayoutData() *Layout { return p.Layout }

// HandoffPage drives the script that posts the URL fragment back to the server.
type HandoffPage struct {
	Title       string
	Message     string
	Lang        string
	CSRFToken   string
	Endpoint    string
	FallbackURL string
}
