package httpx

import (
	"errors"
	"log/slog"
	"net/http"

	domainauth "github.com/intego360/intego-ui/internal/domain/auth"
	"github.com/intego360/intego-ui/internal/ports"
	"github.com/intego360/intego-ui/internal/service"
)

// UIHandlers serves the server-rendered dashboard.
type UIHandlers struct {
	Pages    *PageRenderer
	Data     ports.SectorDataAPI
	Profiles *service.ProfileService
	Logger   *slog.Logger
}

func (h *UIHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// client returns the request's client. ClientIdentity always sets one, so a
// missing client is a wiring error.
func (h *UIHandlers) client(w http.ResponseWriter, r *http.Request) (*service.Client, bool) {
	c, ok := ClientFromContext(r.Context())
	if !ok {
		http.Error(w, "client not resolved", http.StatusInternalServerError)
	}
	return c, ok
}

func (h *UIHandlers) page(w http.ResponseWriter, r *http.Request, status int, data map[string]any) {
	h.Pages.Page(w, r, status, data)
}

// dataError answers a failed View call. An ended session sends the user to
// the login page; anything else is shown in place.
func (h *UIHandlers) dataError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, service.ErrSessionEnded) {
		if !IsBrowserRequest(r) {
			WriteError(w, ErrorParams{Code: http.StatusUnauthorized, ErrCode: "authentication_required", Err: err})
			return
		}
		redirect(w, r, domainauth.LoginPath)
		return
	}
	status := DetermineErrorStatus(err)
	h.logger().Warn("data request failed", "path", r.URL.Path, "status", status, "error", err)
	h.Pages.Error(w, r, status, UserMessage(err))
}

// NotFound renders the 404 page.
func (h *UIHandlers) NotFound(w http.ResponseWriter, r *http.Request) {
	h.Pages.Error(w, r, http.StatusNotFound, "The page you are looking for does not exist.")
}
