package httpx

import "time"

// CurrentPage constants define the page identifiers used in templates and navigation.
const (
	PageLogin     = "login"
	PageDashboard = "dashboard"
	PageSector    = "sector"
	PageResource  = "resource"
	PageProfile   = "profile"
	PageLoading   = "loading"
	PageError     = "error"
)

const (
	// ClientCookieName identifies the browser's client record.
	ClientCookieName = "client_id"

	// clientCookieMaxAge keeps the client id around across browser restarts so
	// persisted tokens can be found again.
	clientCookieMaxAge = 400 * 24 * time.Hour

	// DefaultBootstrapWait bounds how long a navigation waits for session
	// restore before the loading page is shown.
	DefaultBootstrapWait = 2 * time.Second

	// sseKeepAlive is the comment heartbeat interval on /auth/events.
	sseKeepAlive = 25 * time.Second
)

// Content templates are defined once and reused to avoid per-call allocations.
//
//nolint:gochecknoglobals // static read-only lookup for templates; avoids per-call allocations
var contentTemplates = map[string]string{
	PageDashboard: "dashboard-content",
	PageSector:    "sector-content",
	PageResource:  "resource-content",
	PageProfile:   "profile-content",
	PageError:     "error-content",
}

// ContentTemplateFor returns the content template for the given CurrentPage.
// Falls back to dashboard-content for unknown pages.
func ContentTemplateFor(currentPage string) string {
	if name, ok := contentTemplates[currentPage]; ok {
		return name
	}
	return "dashboard-content"
}
