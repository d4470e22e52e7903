package bootstrap

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"slices"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/intego360/intego-ui/config"
)

// InitLogger installs a JSON logger at info level as the process default. It
// is used until configuration has been read.
func InitLogger() *slog.Logger {
	return ConfigureLogger(os.Stdout, &config.AppConfig{LogLevel: slog.LevelInfo})
}

// ConfigureLogger installs the logger described by cfg as the process default:
// JSON for deployments, text for local development.
func ConfigureLogger(w io.Writer, cfg *config.AppConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	var h slog.Handler = slog.NewJSONHandler(w, opts)
	if cfg.IsDev {
		h = slog.NewTextHandler(w, opts)
	}
	logger := slog.New(h).With("app", "intego360")
	slog.SetDefault(logger)
	return logger
}

// LoadConfig reads .env files (default ".env"; missing files are ignored)
// and then the process environment, which takes precedence.
func LoadConfig(files ...string) (config.AppConfig, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return config.AppConfig{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	cfg, err := env.ParseAs[config.AppConfig]()
	if err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	cfg.Sanitize()
	return cfg, nil
}

// ValidateServiceConfig rejects configurations that cannot start.
func ValidateServiceConfig(cfg *config.AppConfig) error {
	if cfg == nil {
		return errors.New("service config is required")
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// GetEnabledServices returns the enabled service names sorted, or nothing
// when SERVICES does not parse.
func GetEnabledServices(cfg *config.AppConfig) []string {
	if cfg == nil {
		return nil
	}
	services, err := cfg.GetEnabledServices()
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(services))
	for svc := range services {
		names = append(names, string(svc))
	}
	slices.Sort(names)
	return names
}
