// Package sqlite implements the repository interfaces on SQLite.
//
// DRIVER:
// modernc.org/sqlite is a pure Go translation of SQLite, so the binary
// builds without CGo. It registers itself with database/sql as "sqlite".
//
// SCHEMA:
// The schema lives in migrations/*.sql, embedded into the binary and applied
// by goose on every New(). Goose records applied versions in its own
// goose_db_version table, so re-running is a no-op.
//
// TRANSACTIONS:
// Every store is built on the small dbtx interface, which both *sql.DB and
// *sql.Tx satisfy. DB.InTx hands the callback a set of stores bound to one
// *sql.Tx; outside InTx the stores run directly on the pool.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pressly/goose/v3"
	moderncsqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/sakif/studyquest/internal/apperror"
	"github.com/sakif/studyquest/internal/repository"
)

//go:embed migrations/*.sql
var migrations embed.FS

// compile-time check that *DB satisfies the transactional store contract
var _ repository.TxRunner = (*DB)(nil)

// dbtx is the subset of *sql.DB / *sql.Tx the stores need.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// stores builds repositories on top of a dbtx. It implements repository.Store.
type stores struct {
	q dbtx
}

func (s stores) Users() repository.UserRepository           { return &UserStore{q: s.q} }
func (s stores) TaskTypes() repository.TaskTypeRepository   { return &TaskTypeStore{q: s.q} }
func (s stores) Tasks() repository.TaskRepository           { return &TaskStore{q: s.q} }
func (s stores) Checklists() repository.ChecklistRepository { return &ChecklistStore{q: s.q} }
func (s stores) Rankings() repository.RankingRepository     { return &RankingStore{q: s.q} }

// DB owns the connection pool. Its embedded stores run on the pool directly.
type DB struct {
	stores
	conn   *sql.DB
	logger *slog.Logger
}

// New opens the database at dbPath and applies pending migrations.
//
// dbPath examples:
//   - "data/studyquest.db" → file-based database
//   - ":memory:"           → in-memory database (tests)
//
// The pool is capped at one connection. SQLite allows a single writer at a
// time anyway, and an in-memory database exists per connection, so a second
// connection would see an empty schema.
func New(dbPath string, logger *slog.Logger) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := conn.Exec(p); err != nil {
			conn.Close()
			return nil, fmt.Errorf("sqlite: %s: %w", p, err)
		}
	}

	db := &DB{stores: stores{q: conn}, conn: conn, logger: logger}

	if err := db.migrate(context.Background()); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Ping reports whether the database is reachable. Used by the health check.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// InTx runs fn inside a transaction. It commits when fn returns nil and
// rolls back otherwise, returning fn's error unchanged.
func (db *DB) InTx(ctx context.Context, fn func(tx repository.Store) error) error {
	return db.withTx(ctx, func(q dbtx) error {
		return fn(stores{q: q})
	})
}

func (db *DB) withTx(ctx context.Context, fn func(q dbtx) error) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning transaction: %w", err)
	}
	// Rollback after a successful Commit returns sql.ErrTxDone, which is ignored.
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing transaction: %w", err)
	}
	return nil
}

func (db *DB) migrate(ctx context.Context) error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(gooseLogger{db.logger})

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db.conn, "migrations"); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

// gooseLogger routes goose's printf-style output into slog.
type gooseLogger struct {
	logger *slog.Logger
}

func (l gooseLogger) Printf(format string, v ...any) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, v...)), slog.String("component", "goose"))
}

func (l gooseLogger) Fatalf(format string, v ...any) {
	// Only goose's CLI helpers call Fatalf; UpContext returns errors instead.
	l.logger.Error(strings.TrimSpace(fmt.Sprintf(format, v...)), slog.String("component", "goose"))
}

// uniqueViolation reports which users column a UNIQUE constraint failure was
// on ("email", "username", "github_id"), or "" if err is not one.
func uniqueViolation(err error) string {
	var se *moderncsqlite.Error
	if !errors.As(err, &se) {
		return ""
	}
	msg := se.Error()
	// Extended result codes carry the primary code in the low byte.
	if se.Code() != sqlite3.SQLITE_CONSTRAINT_UNIQUE &&
		!(se.Code()&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(msg, "UNIQUE")) {
		return ""
	}
	for _, col := range []string{"email", "username", "github_id"} {
		if strings.Contains(msg, "users."+col) {
			return col
		}
	}
	return "record"
}

// notFoundOr translates sql.ErrNoRows into an apperror.NotFound and wraps
// everything else.
func notFoundOr(err error, resource, id, op string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return apperror.NotFound(resource, id)
	}
	return fmt.Errorf("sqlite: %s %s %s: %w", op, resource, id, err)
}
