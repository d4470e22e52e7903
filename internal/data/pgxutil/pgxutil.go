// Package pgxutil runs native pgx calls on connections borrowed from a
// database/sql pool opened through the pgx stdlib driver.
package pgxutil

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
)

// ErrNotPgx is returned when the pool was not opened with the pgx driver.
var ErrNotPgx = errors.New("driver connection is not *stdlib.Conn")

// Do borrows one connection from db and hands its *pgx.Conn to fn.
func Do[T any](ctx context.Context, db *sql.DB, fn func(*pgx.Conn) (T, error)) (T, error) {
	var out T
	conn, err := db.Conn(ctx)
	if err != nil {
		return out, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Close() //nolint:errcheck // returning the conn to the pool

	err = conn.Raw(func(dc any) error {
		std, ok := dc.(*stdlib.Conn)
		if !ok {
			return ErrNotPgx
		}
		var fnErr error
		out, fnErr = fn(std.Conn())
		return fnErr
	})
	return out, err
}

// Exec runs a statement and returns the number of affected rows.
func Exec(ctx context.Context, db *sql.DB, query string, args ...any) (int64, error) {
	return Do(ctx, db, func(c *pgx.Conn) (int64, error) {
		tag, err := c.Exec(ctx, query, args...)
		return tag.RowsAffected(), err
	})
}
