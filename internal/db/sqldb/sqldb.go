// Package sqldb opens sqlx handles for the relational corpus store.
package sqldb

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"  // postgres driver
	_ "modernc.org/sqlite" // sqlite driver

	"github.com/kailas-cloud/vedarag/internal/db"
)

// Supported driver names.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Options configures the connection pool.
type Options struct {
	Driver          string
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Open connects and pings the database.
func Open(ctx context.Context, opts Options) (*sqlx.DB, error) {
	switch opts.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return nil, fmt.Errorf("unsupported database driver %q", opts.Driver)
	}
	if opts.DSN == "" {
		return nil, fmt.Errorf("database dsn is required")
	}

	conn, err := sqlx.ConnectContext(ctx, opts.Driver, opts.DSN)
	if err != nil {
		return nil, &db.Error{Op: db.OpPing, Err: fmt.Errorf("connect %s: %w", opts.Driver, err)}
	}

	if opts.MaxOpenConns > 0 {
		conn.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		conn.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.ConnMaxLifetime > 0 {
		conn.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}
	if opts.Driver == DriverSQLite {
		// sqlite serializes writers; a single connection also keeps
		// ":memory:" databases shared across queries.
		conn.SetMaxOpenConns(1)
	}
	return conn, nil
}

// Pinger adapts *sqlx.DB to db.Pinger.
type Pinger struct {
	DB *sqlx.DB
}

// Ping checks database connectivity.
func (p Pinger) Ping(ctx context.Context) error {
	if err := p.DB.PingContext(ctx); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	return nil
}
