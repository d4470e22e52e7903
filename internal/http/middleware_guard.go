package httpx

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	domainauth "github.com/intego360/intego-ui/internal/domain/auth"
)

// GuardConfig configures the route guard.
type GuardConfig struct {
	// BootstrapWait bounds how long a request waits for session restore.
	BootstrapWait time.Duration
	// RetryAfter is advertised on the loading page.
	RetryAfter time.Duration
	// Renderer draws the loading page; nil falls back to plain text.
	Renderer *TemplateRenderer
}

// Guard evaluates domainauth.Guard for every request to a route of the given
// access class. The session is bootstrapped first so a restorable session
// never sees a login redirect.
func Guard(access domainauth.RouteAccess, cfg GuardConfig) func(http.Handler) http.Handler {
	if cfg.BootstrapWait <= 0 {
		cfg.BootstrapWait = DefaultBootstrapWait
	}
	if cfg.RetryAfter <= 0 {
		cfg.RetryAfter = time.Second
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			client, ok := ClientFromContext(r.Context())
			if !ok {
				http.Error(w, "client not resolved", http.StatusInternalServerError)
				return
			}

			ctx, cancel := context.WithTimeout(r.Context(), cfg.BootstrapWait)
			state, _ := client.Session.Bootstrap(ctx)
			cancel()

			decision := domainauth.Guard(access, state.View())
			switch decision.Action {
			case domainauth.GuardRender:
				next.ServeHTTP(w, r)
			case domainauth.GuardLoading:
				renderLoading(w, r, cfg)
			case domainauth.GuardRedirect:
				if !IsBrowserRequest(r) && decision.Location == domainauth.LoginPath {
					WriteError(w, ErrorParams{
						Code:    http.StatusUnauthorized,
						ErrCode: "authentication_required",
						Err:     errors.New("authentication required"),
					})
					return
				}
				redirect(w, r, decision.Location)
			}
		})
	}
}

// renderLoading answers while an authentication attempt is in flight. The
// browser reloads the same URL once the Refresh interval elapses.
func renderLoading(w http.ResponseWriter, r *http.Request, cfg GuardConfig) {
	secs := strconv.Itoa(int(cfg.RetryAfter.Round(time.Second) / time.Second))
	w.Header().Set("Retry-After", secs)
	w.Header().Set("Cache-Control", "no-store")

	if !IsBrowserRequest(r) {
		WriteError(w, ErrorParams{
			Code:    http.StatusServiceUnavailable,
			ErrCode: "session_loading",
			Err:     errors.New("session is being restored"),
		})
		return
	}

	w.Header().Set("Refresh", secs)
	if cfg.Renderer != nil {
		data := map[string]any{"Title": "Loading", "RetryAfter": secs, "Path": r.URL.RequestURI()}
		if err := cfg.Renderer.Render(w, "loading", data); err == nil {
			return
		}
	}
	_, _ = io.WriteString(w, "Loading...")
}

// RequirePermission renders 403 unless the session's user holds perm. It must
// run after Guard(AccessProtected).
func RequirePermission(perm domainauth.Permission, pages *PageRenderer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			client, ok := ClientFromContext(r.Context())
			if ok {
				if u := client.Session.Snapshot().User; u != nil && u.Permissions.Has(perm) {
					next.ServeHTTP(w, r)
					return
				}
			}
			pages.Error(w, r, http.StatusForbidden, "You do not have access to this section.")
		})
	}
}
