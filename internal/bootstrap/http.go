package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/intego360/intego-ui/config"
	httpx "github.com/intego360/intego-ui/internal/http"
)

// HTTPServerConfig contains configuration for HTTP server.
type HTTPServerConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Logger   *slog.Logger
}

// StartHTTPServer creates and starts the HTTP server.
// Returns the server instance for graceful shutdown.
func StartHTTPServer(cfg *HTTPServerConfig) (*http.Server, error) {
	if cfg == nil {
		return nil, errors.New("http server config is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	appCfg := cfg.Config
	if appCfg == nil {
		appCfg = &config.AppConfig{}
	}

	handler, err := buildHTTPHandler(appCfg, cfg.Services, logger)
	if err != nil {
		return nil, err
	}
	return startServer(logger, handler, appCfg.HTTP.Addr), nil
}

func buildHTTPHandler(appCfg *config.AppConfig, svc ServiceContainer, logger *slog.Logger) (http.Handler, error) {
	services := httpx.RouterServices{
		Data:              svc.Data,
		Profiles:          svc.Profiles,
		HealthChecks:      svc.HealthChecks,
		CookieDomain:      appCfg.HTTP.CookieDomain,
		BootstrapWait:     appCfg.HTTP.BootstrapWait,
		LoadingRetryAfter: appCfg.HTTP.LoadingRetryAfter,
		IsDev:             appCfg.IsDev,
		Logger:            logger,
	}
	// Assign only a non-nil registry so the interface stays nil otherwise.
	if svc.Clients != nil {
		services.Clients = svc.Clients
	}
	return httpx.NewRouter(services)
}

func startServer(logger *slog.Logger, handler http.Handler, addr string) *http.Server {
	// Guard against empty addr to avoid listening on Go default
	if addr == "" {
		addr = ":8080"
	}

	// WriteTimeout stays zero: /auth/events holds its response open.
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logger.Info("starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server failed", "error", err)
		}
	}()

	return server
}

// ShutdownConfig contains dependencies for HTTP server shutdown.
type ShutdownConfig struct {
	Context context.Context
	Server  *http.Server
	// Clients, when set, has its session subscriptions closed first so
	// open event streams return before the server waits on them.
	Clients interface{ Close() }
	Logger  *slog.Logger
}

// ShutdownHTTPServer gracefully shuts down the HTTP server.
func ShutdownHTTPServer(cfg ShutdownConfig) error {
	if cfg.Server == nil {
		return nil
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("shutting down HTTP server")
	}

	if cfg.Clients != nil {
		cfg.Clients.Close()
	}

	// Shutdown HTTP server with timeout
	shutdownCtx, cancel := context.WithTimeout(cfg.Context, 10*time.Second)
	defer cancel()

	if err := cfg.Server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("HTTP server stopped")
	}

	return nil
}
