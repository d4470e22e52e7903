package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/intego360/intego-ui/internal/ports"
)

// Client is the per-browser state hosted by the server: one session machine
// and one sector selection.
type Client struct {
	ID      string
	Session *SessionService
	Sector  *SectorSelection

	lastSeen time.Time
}

// ClientRegistryOptions groups dependencies for ClientRegistry.
type ClientRegistryOptions struct {
	Identity ports.IdentityAPI
	Backends ports.TokenBackendFactory
	// IdleTTL is how long a client may go without a request before Prune evicts it.
	IdleTTL time.Duration
	Logger  *slog.Logger
	Now     func() time.Time
}

// ClientRegistry maps client IDs to their in-memory state, creating it lazily.
// Eviction drops only memory; tokens stay in the backend, so a returning
// client bootstraps again.
type ClientRegistry struct {
	identity ports.IdentityAPI
	backends ports.TokenBackendFactory
	idleTTL  time.Duration
	logger   *slog.Logger
	now      func() time.Time

	mu      sync.Mutex
	clients map[string]*Client
}

// NewClientRegistry constructs a ClientRegistry.
func NewClientRegistry(opts ClientRegistryOptions) *ClientRegistry {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &ClientRegistry{
		identity: opts.Identity,
		backends: opts.Backends,
		idleTTL:  opts.IdleTTL,
		logger:   logger,
		now:      now,
		clients:  make(map[string]*Client),
	}
}

// NewClientID returns a fresh opaque client identifier.
func NewClientID() string {
	return uuid.NewString()
}

// ValidClientID reports whether id looks like an identifier issued by NewClientID.
func ValidClientID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil && len(id) == 36
}

// Get returns the client for id, creating it on first use, and marks it seen.
func (r *ClientRegistry) Get(id string) *Client {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.clients[id]
	if !ok {
		tokens := NewTokenStore(TokenStoreOptions{
			Backend: r.backends.ForNamespace(id),
			Logger:  r.logger,
		})
		c = &Client{
			ID: id,
			Session: NewSessionService(SessionServiceOptions{
				Identity: r.identity,
				Tokens:   tokens,
				Logger:   r.logger.With("client_id", id),
			}),
			Sector: NewSectorSelection(),
		}
		r.clients[id] = c
	}
	c.lastSeen = r.now()
	return c
}

// Len returns the number of resident clients.
func (r *ClientRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.clients)
}

// Prune evicts clients idle for longer than the idle TTL and returns how many it removed.
func (r *ClientRegistry) Prune() int {
	if r.idleTTL <= 0 {
		return 0
	}
	cutoff := r.now().Add(-r.idleTTL)

	r.mu.Lock()
	var evicted []*Client
	for id, c := range r.clients {
		if c.lastSeen.Before(cutoff) {
			evicted = append(evicted, c)
			delete(r.clients, id)
		}
	}
	r.mu.Unlock()

	for _, c := range evicted {
		c.Session.Close()
	}
	if len(evicted) > 0 {
		r.logger.Debug("evicted idle clients", "count", len(evicted))
	}
	return len(evicted)
}

// Run prunes every interval until ctx is done.
func (r *ClientRegistry) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Prune()
		}
	}
}

// Close ends every client's subscriptions.
func (r *ClientRegistry) Close() {
	r.mu.Lock()
	clients := make([]*Client, 0, len(r.clients))
	for _, c := range r.clients {
		clients = append(clients, c)
	}
	r.mu.Unlock()
	for _, c := range clients {
		c.Session.Close()
	}
}
