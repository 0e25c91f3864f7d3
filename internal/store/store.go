package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"

	"github.com/mariphil/foundation-site/db/migrations"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// Store encapsulates database access.
type Store struct {
	DB     *sql.DB
	Driver string
}

// New opens the database described by driver and dsn and verifies the
// connection. For sqlite a bare path is turned into a file DSN with a busy
// timeout and foreign keys enabled.
func New(driver, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, errors.New("dsn cannot be empty")
	}

	var (
		db  *sql.DB
		err error
	)
	switch driver {
	case DriverSQLite, "":
		driver = DriverSQLite
		if !strings.HasPrefix(dsn, "file:") {
			dsn = fmt.Sprintf("file:%s?_busy_timeout=5000&_foreign_keys=on", dsn)
		}
		db, err = sql.Open("sqlite3", dsn)
	case DriverPostgres:
		db, err = sql.Open("pgx", dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s db: %w", driver, err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s db: %w", driver, err)
	}

	return &Store{DB: db, Driver: driver}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.DB.Close()
}

// AutoMigrate applies pending goose migrations embedded in the binary.
// It is safe to call repeatedly; goose will no-op if already up to date.
func (s *Store) AutoMigrate(ctx context.Context) error {
	return s.Migrate(ctx, "up")
}

// Migrate runs a goose command ("up", "down", "status", "redo", ...)
// against the embedded migrations.
func (s *Store) Migrate(ctx context.Context, command string, args ...string) error {
	if command == "" {
		return errors.New("migration command cannot be empty")
	}
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect(s.Driver); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.RunContext(ctx, command, s.DB, ".", args...); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}

// IsUniqueViolation reports whether err was raised by a unique or primary
// key constraint in either supported driver.
func IsUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
