package httpx

import (
	"embed"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	domainauth "github.com/intego360/intego-ui/internal/domain/auth"
	"github.com/intego360/intego-ui/internal/domain/sector"
	"github.com/intego360/intego-ui/internal/ports"
	"github.com/intego360/intego-ui/internal/service"
)

//go:embed static
var staticFS embed.FS

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Clients  ClientSource
	Data     ports.SectorDataAPI
	Profiles *service.ProfileService
	// HealthChecks are probed by /healthz (token store backends).
	HealthChecks map[string]HealthCheck
	CookieDomain string
	// BootstrapWait bounds how long a navigation waits for session restore.
	BootstrapWait time.Duration
	// LoadingRetryAfter is advertised while a session is authenticating.
	LoadingRetryAfter time.Duration
	IsDev             bool         // Development mode: templates are read from disk.
	Logger            *slog.Logger // Logger for template and HTTP errors (optional)
}

// NewRouter creates and configures a new HTTP router with browser middleware.
func NewRouter(services RouterServices) (http.Handler, error) {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	renderer, err := newRenderer(services.IsDev, logger)
	if err != nil {
		return nil, err
	}
	h := &UIHandlers{
		Pages:    &PageRenderer{T: renderer, IsDev: services.IsDev, Logger: logger},
		Data:     services.Data,
		Profiles: services.Profiles,
		Logger:   logger,
	}

	mux := http.NewServeMux()
	mux.Handle("GET /healthz", healthHandler(services.HealthChecks))
	mux.Handle("HEAD /healthz", healthHandler(services.HealthChecks))
	mux.Handle("GET /static/", staticHandler())

	cfg := routeConfig{
		csrf:    CSRFProtection(CSRFConfig{CookieDomain: services.CookieDomain}),
		clients: ClientIdentity(ClientConfig{Clients: services.Clients, CookieDomain: services.CookieDomain}),
		guard: GuardConfig{
			BootstrapWait: services.BootstrapWait,
			RetryAfter:    services.LoadingRetryAfter,
			Renderer:      renderer,
		},
	}
	registerAuthRoutes(mux, h, cfg)
	registerDashboardRoutes(mux, h, cfg)
	registerSectorRoutes(mux, h, cfg)

	var handler http.Handler = mux
	handler = BrowserDetection()(handler)
	handler = Logging(logger)(handler)
	handler = Recover(logger)(handler)
	return handler, nil
}

func newRenderer(isDev bool, logger *slog.Logger) (*TemplateRenderer, error) {
	if isDev {
		return NewDevTemplateRenderer(logger)
	}
	return NewTemplateRenderer(TemplateRendererConfig{Logger: logger})
}

// routeConfig wraps browser routes: CSRF, then client identity, then the guard.
type routeConfig struct {
	csrf    func(http.Handler) http.Handler
	clients func(http.Handler) http.Handler
	guard   GuardConfig
}

func (c routeConfig) wrap(access domainauth.RouteAccess, h http.Handler) http.Handler {
	return c.csrf(c.clients(Guard(access, c.guard)(h)))
}

func registerAuthRoutes(mux *http.ServeMux, h *UIHandlers, cfg routeConfig) {
	mux.Handle("GET /login", cfg.wrap(domainauth.AccessPublicOnly, http.HandlerFunc(h.LoginPage)))
	mux.Handle("POST /login", cfg.wrap(domainauth.AccessPublicOnly, http.HandlerFunc(h.LoginSubmit)))
	mux.Handle("POST /logout", cfg.wrap(domainauth.AccessOpen, http.HandlerFunc(h.Logout)))
	mux.Handle("GET /auth/status", cfg.wrap(domainauth.AccessOpen, http.HandlerFunc(h.Status)))
	mux.Handle("GET /auth/events", cfg.wrap(domainauth.AccessOpen, http.HandlerFunc(h.Events)))
}

func registerDashboardRoutes(mux *http.ServeMux, h *UIHandlers, cfg routeConfig) {
	// "GET /" also catches unknown paths; they 404 behind the guard.
	mux.Handle("GET /", cfg.wrap(domainauth.AccessProtected, http.HandlerFunc(h.Index)))
	mux.Handle("GET /dashboard", cfg.wrap(domainauth.AccessProtected, http.HandlerFunc(h.Dashboard)))
	mux.Handle("POST /sector", cfg.wrap(domainauth.AccessProtected, http.HandlerFunc(h.SelectSector)))
	mux.Handle("GET /profile", cfg.wrap(domainauth.AccessProtected, http.HandlerFunc(h.Profile)))
	mux.Handle("POST /profile", cfg.wrap(domainauth.AccessProtected, http.HandlerFunc(h.ProfileUpdate)))
}

func registerSectorRoutes(mux *http.ServeMux, h *UIHandlers, cfg routeConfig) {
	for _, s := range sector.All {
		gate := RequirePermission(s.Permission(), h.Pages)
		mux.Handle("GET "+s.Path(), cfg.wrap(domainauth.AccessProtected, gate(h.SectorOverview(s))))
		mux.Handle("GET "+s.Path()+"/{resource}", cfg.wrap(domainauth.AccessProtected, gate(h.SectorResource(s))))
	}
	mux.Handle("GET /farmers", cfg.wrap(domainauth.AccessProtected, http.HandlerFunc(h.FarmersAlias)))
}

// staticHandler serves the embedded stylesheet and scripts. File names are not
// content-hashed, so clients revalidate every time.
func staticHandler() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	files := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache")
		files.ServeHTTP(w, r)
	})
}
