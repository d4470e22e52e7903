package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/cookiejar"

	"golang.org/x/net/publicsuffix"

	"github.com/intego360/intego-ui/config"
	"github.com/intego360/intego-ui/internal/adapters/filestore"
	"github.com/intego360/intego-ui/internal/adapters/identityapi"
	"github.com/intego360/intego-ui/internal/adapters/restapi"
	domainauth "github.com/intego360/intego-ui/internal/domain/auth"
	"github.com/intego360/intego-ui/internal/domain/sector"
	"github.com/intego360/intego-ui/internal/ports"
	"github.com/intego360/intego-ui/internal/service"
)

// errNotSignedIn is returned by commands that need an authenticated session.
var errNotSignedIn = errors.New("not signed in; run `intego360ctl login` first")

// app is the one client this process hosts.
type app struct {
	session *service.SessionService
	sector  *service.SectorSelection
	data    ports.SectorDataAPI
	logger  *slog.Logger
}

// appDeps are the collaborators of app; tests pass fakes.
type appDeps struct {
	Identity ports.IdentityAPI
	Data     ports.SectorDataAPI
	Backend  ports.TokenBackend
	Logger   *slog.Logger
}

func newApp(deps appDeps) *app {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &app{
		session: service.NewSessionService(service.SessionServiceOptions{
			Identity: deps.Identity,
			Tokens:   service.NewTokenStore(service.TokenStoreOptions{Backend: deps.Backend, Logger: logger}),
			Logger:   logger,
		}),
		sector: service.NewSectorSelection(),
		data:   deps.Data,
		logger: logger,
	}
}

// newAppFromConfig wires the real API clients over the credentials file.
func newAppFromConfig(cfg *config.AppConfig, logger *slog.Logger) (*app, error) {
	path := cfg.Tokens.File
	if path == "" {
		def, err := filestore.DefaultPath()
		if err != nil {
			return nil, err
		}
		path = def
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("cookie jar: %w", err)
	}
	identity, err := identityapi.NewClient(identityapi.Config{
		BaseURL: cfg.Identity.APIURL,
		Timeout: cfg.Identity.Timeout,
		Client:  &http.Client{Timeout: cfg.Identity.Timeout, Jar: jar},
	})
	if err != nil {
		return nil, err
	}
	data, err := restapi.NewClient(restapi.Config{
		BaseURL: cfg.Identity.DataAPIURL,
		Timeout: cfg.Identity.Timeout,
	})
	if err != nil {
		return nil, err
	}

	return newApp(appDeps{
		Identity: identity,
		Data:     data,
		Backend:  filestore.NewTokenStore(path),
		Logger:   logger,
	}), nil
}

// Close ends the session's subscriptions.
func (a *app) Close() { a.session.Close() }

// requireSession restores the session and applies the protected-route guard.
func (a *app) requireSession(ctx context.Context) (*domainauth.User, error) {
	state, err := a.session.Bootstrap(ctx)
	if err != nil {
		return nil, err
	}
	if d := domainauth.Guard(domainauth.AccessProtected, state.View()); d.Action != domainauth.GuardRender {
		return nil, errNotSignedIn
	}
	return state.User, nil
}

// resolveSector picks the named sector, or the current selection when name is
// empty, and checks that user may view it.
func (a *app) resolveSector(user *domainauth.User, name string) (sector.Sector, error) {
	if name != "" {
		s, err := sector.Parse(name)
		if err != nil {
			return "", err
		}
		if err := a.sector.Select(s); err != nil {
			return "", err
		}
	}
	s := a.sector.Current()
	if user == nil || !user.Permissions.Has(s.Permission()) {
		return "", fmt.Errorf("you do not have access to %s data", s)
	}
	return s, nil
}

// dataError turns a View failure into a message for the terminal.
func dataError(err error) error {
	if errors.Is(err, service.ErrSessionEnded) {
		return errors.New("your session has ended; run `intego360ctl login` again")
	}
	return err
}
