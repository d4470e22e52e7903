package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/intego360/intego-ui/config"
	"github.com/intego360/intego-ui/internal/adapters/identityapi"
	"github.com/intego360/intego-ui/internal/adapters/restapi"
	"github.com/intego360/intego-ui/internal/data"
	httpx "github.com/intego360/intego-ui/internal/http"
	"github.com/intego360/intego-ui/internal/ports"
	"github.com/intego360/intego-ui/internal/service"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Clients      *service.ClientRegistry
	Data         ports.SectorDataAPI
	Profiles     *service.ProfileService
	Janitor      *service.TokenJanitor
	HealthChecks map[string]httpx.HealthCheck
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// NewServices builds the API clients, token backend and per-client registry.
func NewServices(deps *ServiceDeps) (ServiceContainer, error) {
	if deps == nil || deps.Config == nil {
		return ServiceContainer{}, errors.New("service deps require a config")
	}
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	identity, err := identityapi.NewClient(identityapi.Config{
		BaseURL: cfg.Identity.APIURL,
		Timeout: cfg.Identity.Timeout,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("identity api client: %w", err)
	}
	sectorData, err := restapi.NewClient(restapi.Config{
		BaseURL: cfg.Identity.DataAPIURL,
		Timeout: cfg.Identity.Timeout,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("sector data client: %w", err)
	}

	backends, err := BuildTokenBackends(TokenBackendConfig{
		Tokens:      cfg.Tokens,
		DB:          deps.DB,
		RedisClient: deps.RedisClient,
		Logger:      logger,
	})
	if err != nil {
		return ServiceContainer{}, err
	}

	container := ServiceContainer{
		Clients: service.NewClientRegistry(service.ClientRegistryOptions{
			Identity: identity,
			Backends: backends,
			IdleTTL:  cfg.HTTP.ClientIdleTTL,
			Logger:   logger,
		}),
		Data:         sectorData,
		Profiles:     service.NewProfileService(identity),
		HealthChecks: BuildHealthChecks(deps.DB, deps.RedisClient),
	}

	if cfg.IsJanitorEnabled() {
		if deps.DB == nil {
			return ServiceContainer{}, errors.New("token janitor requires a database")
		}
		container.Janitor, err = service.NewTokenJanitor(service.TokenJanitorOptions{
			Purger:   data.NewTokenRepo(deps.DB),
			Interval: cfg.Tokens.PurgeInterval,
			MaxAge:   cfg.Tokens.PurgeAfter,
			Logger:   logger,
		})
		if err != nil {
			return ServiceContainer{}, err
		}
	}
	return container, nil
}

// ServiceOrchestrationConfig contains configuration for service orchestration.
type ServiceOrchestrationConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Logger   *slog.Logger
}

const (
	// shutdownWaitTimeout is the maximum time to wait for services to stop gracefully.
	shutdownWaitTimeout = 15 * time.Second
)

// backgroundService describes a startable background component.
type backgroundService struct {
	mode  config.ServiceMode
	name  string
	start func(context.Context) error
}

// backgroundServiceHandle tracks a running background service.
type backgroundServiceHandle struct {
	mode config.ServiceMode
	name string
	done <-chan struct{}
}

// buildBackgroundServices lists the loops that run next to the HTTP server.
// The client pruner belongs to the http mode; the janitor has its own.
func buildBackgroundServices(cfg *config.AppConfig, svc ServiceContainer) []backgroundService {
	var out []backgroundService
	if svc.Clients != nil {
		interval := time.Minute
		if cfg != nil && cfg.HTTP.ClientIdleTTL > 0 && cfg.HTTP.ClientIdleTTL/2 < interval {
			interval = cfg.HTTP.ClientIdleTTL / 2
		}
		out = append(out, backgroundService{
			mode: config.ServiceModeHTTP,
			name: "client pruner",
			start: func(ctx context.Context) error {
				svc.Clients.Run(ctx, interval)
				return nil
			},
		})
	}
	if svc.Janitor != nil {
		out = append(out, backgroundService{
			mode:  config.ServiceModeTokenJanitor,
			name:  "token janitor",
			start: svc.Janitor.Run,
		})
	}
	return out
}

func launchBackground(ctx context.Context, logger *slog.Logger, errCh chan<- error, descriptor backgroundService) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := descriptor.start(ctx); err != nil {
			errMsg := fmt.Errorf("%s failed: %w", descriptor.name, err)
			select {
			case errCh <- errMsg:
			case <-ctx.Done():
			default:
				logger.WarnContext(ctx, "dropping background service error", "service", descriptor.name, "error", errMsg)
			}
		}
	}()

	logger.InfoContext(ctx, "background service started", "service", descriptor.name, "mode", descriptor.mode)
	return done
}

func startBackgroundServices(
	ctx context.Context,
	logger *slog.Logger,
	enabled map[config.ServiceMode]bool,
	errCh chan<- error,
	services []backgroundService,
) []backgroundServiceHandle {
	handles := make([]backgroundServiceHandle, 0, len(services))
	for _, svc := range services {
		if !enabled[svc.mode] {
			continue
		}
		handles = append(handles, backgroundServiceHandle{
			mode: svc.mode,
			name: svc.name,
			done: launchBackground(ctx, logger, errCh, svc),
		})
	}
	return handles
}

// RunServicesWithShutdown starts all enabled services and manages their lifecycle.
// This function blocks until a shutdown signal is received or a service fails.
func RunServicesWithShutdown(ctx context.Context, cfg *ServiceOrchestrationConfig) error {
	if cfg == nil {
		return errors.New("service orchestration config is required")
	}
	if cfg.Config == nil {
		return errors.New("service orchestration config missing AppConfig")
	}
	serviceCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	enabled, err := cfg.Config.GetEnabledServices()
	if err != nil {
		return fmt.Errorf("determine enabled services: %w", err)
	}
	errCh := make(chan error, errorChannelBufferSize(enabled))

	var server *http.Server
	if enabled[config.ServiceModeHTTP] {
		server, err = StartHTTPServer(&HTTPServerConfig{
			Config:   cfg.Config,
			Services: cfg.Services,
			Logger:   logger,
		})
		if err != nil {
			return fmt.Errorf("start http server: %w", err)
		}
	}
	backgrounds := startBackgroundServices(serviceCtx, logger, enabled, errCh,
		buildBackgroundServices(cfg.Config, cfg.Services))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	return waitForShutdown(shutdownConfig{
		ctx:         serviceCtx,
		cancel:      cancel,
		quit:        quit,
		errCh:       errCh,
		httpServer:  server,
		clients:     cfg.Services.Clients,
		logger:      logger,
		backgrounds: backgrounds,
	})
}

func errorChannelCapacity(enabled map[config.ServiceMode]bool) int {
	count := 0
	for _, mode := range config.ValidServiceModes() {
		if enabled[mode] {
			count++
		}
	}
	return count
}

func errorChannelBufferSize(enabled map[config.ServiceMode]bool) int {
	return errorChannelCapacity(enabled) + 1
}

// shutdownConfig contains dependencies for graceful shutdown.
type shutdownConfig struct {
	ctx         context.Context
	cancel      context.CancelFunc
	quit        <-chan os.Signal
	errCh       <-chan error
	httpServer  *http.Server
	clients     *service.ClientRegistry
	logger      *slog.Logger
	backgrounds []backgroundServiceHandle
}

// waitForShutdown waits for a signal, a service error, or the parent context.
func waitForShutdown(cfg shutdownConfig) error {
	select {
	case <-cfg.quit:
		cfg.logger.Info("shutting down services...")
		cfg.cancel()
		return gracefulStop(cfg)
	case <-cfg.ctx.Done():
		cfg.logger.Info("context cancelled, shutting down services...")
		return gracefulStop(cfg)
	case err := <-cfg.errCh:
		cfg.logger.Error("service error", "error", err)
		cfg.cancel()
		if stopErr := gracefulStop(cfg); stopErr != nil {
			cfg.logger.Error("graceful stop failed", "error", stopErr)
		}
		return err
	}
}

// gracefulStop attempts to gracefully stop all services.
func gracefulStop(cfg shutdownConfig) error {
	if cfg.httpServer != nil {
		// The service context is already cancelled; shutdown gets its own deadline.
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(cfg.ctx), shutdownWaitTimeout)
		defer cancel()

		sc := ShutdownConfig{Context: shutdownCtx, Server: cfg.httpServer, Logger: cfg.logger}
		if cfg.clients != nil {
			sc.Clients = cfg.clients
		}
		if err := ShutdownHTTPServer(sc); err != nil {
			return err
		}
	} else if cfg.clients != nil {
		cfg.clients.Close()
	}

	for _, svc := range cfg.backgrounds {
		waitForService(svc.done, svc.name, cfg.logger)
	}
	return nil
}

// waitForService waits for a service to finish with timeout.
func waitForService(done <-chan struct{}, name string, logger *slog.Logger) {
	if done == nil {
		return
	}
	timer := time.NewTimer(shutdownWaitTimeout)
	defer timer.Stop()
	select {
	case <-done:
		logger.Info(name + " stopped")
	case <-timer.C:
		logger.Warn("timeout waiting for " + name + " to stop")
	}
}
