package httpx

// Template names defined by the files under frontend/templates.
const (
	TemplateLayout  = "layout"
	TemplateContent = "content"
	TemplateError   = "error-layout"
	TemplateHandoff = "handoff"
)

// Template paths used for loading templates in tests and production.
const (
	// Template directory paths.
	TemplatePathFromRoot = "frontend/templates"       // From project root
	TemplatePathFromTest = "../../frontend/templates" // From internal/http test files
)

// Fixed routes outside the role menus.
const (
	PathHandoff    = "/auth/handoff"
	PathLogout     = "/auth/logout"
	PathAuthStatus = "/auth/status"
	PathDevLogin   = "/auth/dev-login"
	PathLocale     = "/locale"
	PathHealth     = "/healthz"
	PathStatic     = "/static/"
)

// Dictionary keys for shell strings. Menu labels live under "menu.".
const (
	keyAppName       = "shell.appName"
	keyForbidden     = "shell.errors.forbidden"
	keyForbiddenBody = "shell.errors.forbiddenBody"
	keyNotFound      = "shell.errors.notFound"
	keyNotFoundBody  = "shell.errors.notFoundBody"
	keyServerError   = "shell.errors.server"
	keyNoHome        = "shell.errors.noHome"
	keyHandoffTitle  = "shell.handoff.title"
	keyHandoffBody   = "shell.handoff.body"
)
