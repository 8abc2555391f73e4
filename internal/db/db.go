package db

import (
	"context"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"awardmatch/migrations"
)

// Pool is the subset of pgxpool.Pool used by DB. pgxmock pools satisfy it.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// DB wraps a PostgreSQL connection pool. It implements the criterion state
// store and the read-only content source.
type DB struct {
	Pool   Pool
	now    func() time.Time
	logger *zap.Logger
}

// New creates a new database connection pool.
func New(ctx context.Context, connString string) (*DB, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, eris.Wrap(err, "db: create pool")
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "db: ping")
	}

	return NewWithPool(pool), nil
}

// NewWithPool wraps an existing pool.
func NewWithPool(pool Pool) *DB {
	return &DB{Pool: pool, now: time.Now, logger: zap.NewNop()}
}

// WithLogger sets the logger used for retry diagnostics.
func (d *DB) WithLogger(logger *zap.Logger) *DB {
	if logger != nil {
		d.logger = logger
	}
	return d
}

// WithClock replaces the time source. Used in tests.
func (d *DB) WithClock(now func() time.Time) *DB {
	d.now = now
	return d
}

// RunMigrations runs all embedded SQL migrations.
func (d *DB) RunMigrations(connString string) error {
	return RunMigrations(connString)
}

// RunMigrations applies the embedded migrations to the database at connString.
func RunMigrations(connString string) error {
	sourceDriver, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return eris.Wrap(err, "db: create migration source")
	}

	m, err := migrate.NewWithSourceInstance("iofs", sourceDriver, connString)
	if err != nil {
		return eris.Wrap(err, "db: create migrator")
	}
	defer m.Close()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return eris.Wrap(err, "db: migrate up")
	}

	return nil
}

// Ping reports whether the database is reachable.
func (d *DB) Ping(ctx context.Context) error {
	if err := d.Pool.Ping(ctx); err != nil {
		return eris.Wrap(err, "db: ping")
	}
	return nil
}

// Close closes the connection pool.
func (d *DB) Close() {
	d.Pool.Close()
}
