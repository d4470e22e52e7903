package httpx

import (
	"net/http"
	"strings"

	domainauth "github.com/intego360/intego-ui/internal/domain/auth"
	"github.com/intego360/intego-ui/internal/ports"
)

// statusResponse is the JSON shape of GET /auth/status.
type statusResponse struct {
	Status          domainauth.Status `json:"status"`
	User            *domainauth.User  `json:"user"`
	Error           string            `json:"error,omitempty"`
	IsLoading       bool              `json:"is_loading"`
	IsAuthenticated bool              `json:"is_authenticated"`
}

func newStatusResponse(s domainauth.State) statusResponse {
	return statusResponse{
		Status:          s.Status,
		User:            s.User,
		Error:           s.Error,
		IsLoading:       s.IsLoading(),
		IsAuthenticated: s.IsAuthenticated(),
	}
}

// LoginPage renders the sign-in form. A pending login error is shown once.
func (h *UIHandlers) LoginPage(w http.ResponseWriter, r *http.Request) {
	client, ok := h.client(w, r)
	if !ok {
		return
	}
	state := client.Session.Snapshot()
	if state.Error != "" {
		client.Session.ClearError()
	}
	h.renderLogin(w, r, http.StatusOK, "", state.Error)
}

// LoginSubmit runs the login transition with the posted credentials.
func (h *UIHandlers) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	client, ok := h.client(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		h.renderLogin(w, r, http.StatusBadRequest, "", "Invalid form submission.")
		return
	}

	in := ports.LoginInput{
		Username:   strings.TrimSpace(r.PostFormValue("username")),
		Password:   r.PostFormValue("password"),
		RememberMe: r.PostFormValue("remember") != "",
	}
	if in.Username == "" || in.Password == "" {
		h.renderLogin(w, r, http.StatusUnprocessableEntity, in.Username, "Username and password are required.")
		return
	}

	state, err := client.Session.Login(r.Context(), in)
	if err != nil {
		// Canceled by the browser; the login itself keeps running.
		h.logger().Debug("login request canceled", "error", err)
		return
	}
	if state.IsAuthenticated() {
		redirect(w, r, domainauth.DashboardPath)
		return
	}

	client.Session.ClearError()
	msg := state.Error
	if msg == "" {
		msg = domainauth.DefaultLoginError
	}
	h.renderLogin(w, r, http.StatusUnauthorized, in.Username, msg)
}

func (h *UIHandlers) renderLogin(w http.ResponseWriter, r *http.Request, status int, username, msg string) {
	data := basePageData(r, PageMeta{Title: "Sign in", CurrentPage: PageLogin})
	data["Username"] = username
	if msg != "" {
		data["ErrorMessage"] = msg
	}
	w.Header().Set("Cache-Control", "no-store")
	// htmx only swaps 2xx responses; the form re-renders in place either way.
	if IsHTMX(r) {
		status = http.StatusOK
	}
	if err := h.Pages.T.RenderStatus(w, status, "login", data); err != nil {
		h.logger().Error("failed to render login page", "error", err)
	}
}

// Logout ends the session and returns to the login page.
func (h *UIHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	client, ok := h.client(w, r)
	if !ok {
		return
	}
	client.Session.Logout(r.Context())
	if !IsBrowserRequest(r) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	redirect(w, r, domainauth.LoginPath)
}

// Status reports the session as JSON.
func (h *UIHandlers) Status(w http.ResponseWriter, r *http.Request) {
	client, ok := h.client(w, r)
	if !ok {
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	WriteJSON(w, http.StatusOK, newStatusResponse(client.Session.Snapshot()))
}
