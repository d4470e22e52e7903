package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ServiceMode represents the available service modes.
type ServiceMode string

const (
	// ServiceModeHTTP runs the dashboard HTTP server.
	ServiceModeHTTP ServiceMode = "http"
	// ServiceModeTokenJanitor purges stale rows from the Postgres token table.
	ServiceModeTokenJanitor ServiceMode = "token-janitor"
)

// ValidServiceModes returns all valid service mode names.
func ValidServiceModes() []ServiceMode {
	return []ServiceMode{ServiceModeHTTP, ServiceModeTokenJanitor}
}

// ParseServices parses a comma-delimited SERVICES value. Blank entries are
// skipped; an unknown name fails the whole value.
func ParseServices(servicesStr string) (map[ServiceMode]bool, error) {
	if strings.TrimSpace(servicesStr) == "" {
		return map[ServiceMode]bool{}, errors.New("at least one service must be specified")
	}

	valid := ValidServiceModes()
	services := make(map[ServiceMode]bool, len(valid))
	for _, part := range strings.Split(servicesStr, ",") {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		mode := ServiceMode(name)
		if !slices.Contains(valid, mode) {
			return nil, fmt.Errorf("invalid service name: %q (valid options: %s)", name, joinModes(valid))
		}
		services[mode] = true
	}

	if len(services) == 0 {
		return nil, errors.New("at least one valid service must be specified")
	}
	return services, nil
}

func joinModes(modes []ServiceMode) string {
	names := make([]string, len(modes))
	for i, m := range modes {
		names[i] = string(m)
	}
	return strings.Join(names, ", ")
}
