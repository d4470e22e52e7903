package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/intego360/intego-ui/internal/data/pgxutil"
	domainauth "github.com/intego360/intego-ui/internal/domain/auth"
	apperrors "github.com/intego360/intego-ui/internal/errors"
	"github.com/intego360/intego-ui/internal/ports"
)

// TokenRepo stores token slots in the session_tokens table.
type TokenRepo struct {
	DB  *sql.DB
	now func() time.Time
}

// TokenRepoOption customizes a TokenRepo.
type TokenRepoOption func(*TokenRepo)

// WithClock sets the clock that stamps updated_at and anchors PurgeStale.
func WithClock(now func() time.Time) TokenRepoOption {
	return func(r *TokenRepo) {
		if now != nil {
			r.now = now
		}
	}
}

// NewTokenRepo creates a TokenRepo on db.
func NewTokenRepo(db *sql.DB, opts ...TokenRepoOption) *TokenRepo {
	r := &TokenRepo{DB: db, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ForNamespace implements ports.TokenBackendFactory.
func (r *TokenRepo) ForNamespace(namespace string) ports.TokenBackend {
	return &namespacedTokens{repo: r, namespace: namespace}
}

// Load returns the slot value for namespace, or ports.ErrTokenNotFound.
func (r *TokenRepo) Load(ctx context.Context, namespace string, kind domainauth.TokenKind) (string, error) {
	value, err := pgxutil.Do(ctx, r.DB, func(conn *pgx.Conn) (string, error) {
		var v string
		err := conn.QueryRow(ctx,
			`SELECT value FROM session_tokens WHERE namespace = $1 AND kind = $2`,
			namespace, string(kind),
		).Scan(&v)
		return v, err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ports.ErrTokenNotFound
		}
		return "", fmt.Errorf("load token: %w", apperrors.MapDBError(err))
	}
	return value, nil
}

// Store upserts the slot value for namespace.
func (r *TokenRepo) Store(ctx context.Context, namespace string, kind domainauth.TokenKind, value string) error {
	_, err := pgxutil.Exec(ctx, r.DB, `
		INSERT INTO session_tokens (namespace, kind, value, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (namespace, kind) DO UPDATE
		SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`, namespace, string(kind), value, r.now().UTC())
	if err != nil {
		return fmt.Errorf("store token: %w", apperrors.MapDBError(err))
	}
	return nil
}

// Remove deletes the given slots for namespace.
func (r *TokenRepo) Remove(ctx context.Context, namespace string, kinds ...domainauth.TokenKind) error {
	if len(kinds) == 0 {
		return nil
	}
	names := make([]string, 0, len(kinds))
	for _, k := range kinds {
		names = append(names, string(k))
	}
	_, err := pgxutil.Exec(ctx, r.DB,
		`DELETE FROM session_tokens WHERE namespace = $1 AND kind = ANY($2)`,
		namespace, names,
	)
	if err != nil {
		return fmt.Errorf("remove token: %w", apperrors.MapDBError(err))
	}
	return nil
}

// PurgeStale deletes slots not written for longer than maxAge and returns how many were removed.
func (r *TokenRepo) PurgeStale(ctx context.Context, maxAge time.Duration) (int64, error) {
	cutoff := r.now().UTC().Add(-maxAge)
	n, err := pgxutil.Exec(ctx, r.DB, `DELETE FROM session_tokens WHERE updated_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge tokens: %w", apperrors.MapDBError(err))
	}
	return n, nil
}

type namespacedTokens struct {
	repo      *TokenRepo
	namespace string
}

var _ ports.TokenBackend = (*namespacedTokens)(nil)

func (n *namespacedTokens) Load(ctx context.Context, kind domainauth.TokenKind) (string, error) {
	if !kind.Valid() {
		return "", fmt.Errorf("invalid token kind %q", kind)
	}
	return n.repo.Load(ctx, n.namespace, kind)
}

func (n *namespacedTokens) Store(ctx context.Context, kind domainauth.TokenKind, value string) error {
	if !kind.Valid() {
		return fmt.Errorf("invalid token kind %q", kind)
	}
	if value == "" {
		return n.repo.Remove(ctx, n.namespace, kind)
	}
	return n.repo.Store(ctx, n.namespace, kind, value)
}

func (n *namespacedTokens) Remove(ctx context.Context, kinds ...domainauth.TokenKind) error {
	return n.repo.Remove(ctx, n.namespace, kinds...)
}
