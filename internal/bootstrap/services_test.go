package bootstrap

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intego360/intego-ui/config"
	"github.com/intego360/intego-ui/internal/adapters/memory"
	domainauth "github.com/intego360/intego-ui/internal/domain/auth"
	"github.com/intego360/intego-ui/internal/service"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestErrorChannelCapacity(t *testing.T) {
	tests := []struct {
		name  string
		modes []config.ServiceMode
		want  int
	}{
		{name: "no services enabled", want: 0},
		{name: "http only", modes: []config.ServiceMode{config.ServiceModeHTTP}, want: 1},
		{name: "all services enabled", modes: config.ValidServiceModes(), want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enabled := make(map[config.ServiceMode]bool, len(tt.modes))
			for _, mode := range tt.modes {
				enabled[mode] = true
			}
			assert.Equal(t, tt.want, errorChannelCapacity(enabled))
			assert.Equal(t, tt.want+1, errorChannelBufferSize(enabled))
		})
	}
}

func TestGetEnabledServices(t *testing.T) {
	cfg := &config.AppConfig{Services: "token-janitor,http"}
	assert.Equal(t, []string{"http", "token-janitor"}, GetEnabledServices(cfg))
	assert.Empty(t, GetEnabledServices(&config.AppConfig{Services: "bogus"}))
	assert.Empty(t, GetEnabledServices(nil))
}

func TestValidateServiceConfig(t *testing.T) {
	require.Error(t, ValidateServiceConfig(nil))

	cfg := config.AppConfig{
		Identity: config.IdentityConfig{APIURL: "http://localhost:8000/api/v1"},
		Services: "http",
	}
	cfg.Sanitize()
	require.NoError(t, ValidateServiceConfig(&cfg))

	cfg.Services = ""
	require.Error(t, ValidateServiceConfig(&cfg))
}

func TestBuildTokenBackends(t *testing.T) {
	logger := discardLogger()

	t.Run("memory", func(t *testing.T) {
		f, err := BuildTokenBackends(TokenBackendConfig{Tokens: config.TokenStoreConfig{Backend: config.TokenBackendMemory}, Logger: logger})
		require.NoError(t, err)
		assert.IsType(t, &memory.Factory{}, f)
	})

	t.Run("redis requires a client", func(t *testing.T) {
		_, err := BuildTokenBackends(TokenBackendConfig{Tokens: config.TokenStoreConfig{Backend: config.TokenBackendRedis}, Logger: logger})
		require.Error(t, err)
	})

	t.Run("postgres requires a database", func(t *testing.T) {
		_, err := BuildTokenBackends(TokenBackendConfig{Tokens: config.TokenStoreConfig{Backend: config.TokenBackendPostgres}, Logger: logger})
		require.Error(t, err)
	})

	t.Run("file writes one credentials file per client", func(t *testing.T) {
		dir := t.TempDir()
		f, err := BuildTokenBackends(TokenBackendConfig{
			Tokens: config.TokenStoreConfig{Backend: config.TokenBackendFile, File: filepath.Join(dir, "credentials.yaml")},
			Logger: logger,
		})
		require.NoError(t, err)

		ctx := context.Background()
		a := f.ForNamespace("client-a")
		b := f.ForNamespace("client-b")
		require.NoError(t, a.Store(ctx, domainauth.TokenAccess, "access-a"))

		_, err = b.Load(ctx, domainauth.TokenAccess)
		assert.Error(t, err, "namespaces do not share slots")

		_, err = os.Stat(filepath.Join(dir, "clients", "client-a.yaml"))
		assert.NoError(t, err)
	})
}

func TestBuildHealthChecks_Empty(t *testing.T) {
	assert.Empty(t, BuildHealthChecks(nil, nil))
}

func TestBuildBackgroundServices(t *testing.T) {
	cfg := &config.AppConfig{HTTP: config.HTTPConfig{ClientIdleTTL: time.Minute}}
	registry := service.NewClientRegistry(service.ClientRegistryOptions{Backends: memory.NewFactory(), Logger: discardLogger()})

	got := buildBackgroundServices(cfg, ServiceContainer{Clients: registry})
	require.Len(t, got, 1)
	assert.Equal(t, config.ServiceModeHTTP, got[0].mode)

	assert.Empty(t, buildBackgroundServices(cfg, ServiceContainer{}))
}

func TestWaitForShutdown_ServiceErrorStopsBackgrounds(t *testing.T) {
	logger := discardLogger()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 2)
	enabled := map[config.ServiceMode]bool{config.ServiceModeTokenJanitor: true}
	handles := startBackgroundServices(ctx, logger, enabled, errCh, []backgroundService{
		{
			mode: config.ServiceModeTokenJanitor,
			name: "failing",
			start: func(context.Context) error {
				return errors.New("purge exploded")
			},
		},
		{
			mode: config.ServiceModeTokenJanitor,
			name: "blocking",
			start: func(ctx context.Context) error {
				<-ctx.Done()
				return nil
			},
		},
		{
			mode:  config.ServiceModeHTTP,
			name:  "disabled",
			start: func(context.Context) error { return errors.New("must not start") },
		},
	})
	require.Len(t, handles, 2)

	err := waitForShutdown(shutdownConfig{
		ctx:         ctx,
		cancel:      cancel,
		quit:        make(chan os.Signal),
		errCh:       errCh,
		logger:      logger,
		backgrounds: handles,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failing failed")

	for _, h := range handles {
		select {
		case <-h.done:
		default:
			t.Fatalf("%s still running", h.name)
		}
	}
}

func TestWaitForShutdown_ParentContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := waitForShutdown(shutdownConfig{
		ctx:    ctx,
		cancel: func() {},
		quit:   make(chan os.Signal),
		errCh:  make(chan error),
		logger: discardLogger(),
	})
	assert.NoError(t, err)
}
