package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // postgres dialect
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"  // sqlite3 dialect
	lru "github.com/hashicorp/golang-lru/v2"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
	"github.com/rs/zerolog"

	"shareit/internal/config"
	"shareit/internal/domain"
	"shareit/internal/models"
)

const defaultUserCacheSize = 1024

// DB implements domain.Store on top of SQLite or Postgres.
// A DB returned by InTx is bound to a single transaction.
type DB struct {
	conn    *sqlx.DB
	q       sqlx.ExtContext
	dialect goqu.DialectWrapper
	driver  string
	path    string
	users   *lru.Cache[int64, models.User]
	logger  *zerolog.Logger

	// Set only on transaction-bound copies.
	inTx       bool
	dirtyUsers *[]int64
	readUsers  *[]models.User
}

// NewDB opens a SQLite database at path with default settings.
func NewDB(path string, logger *zerolog.Logger) (*DB, error) {
	return Open(config.DatabaseConfig{Driver: config.DriverSQLite, Path: path}, logger)
}

func Open(cfg config.DatabaseConfig, logger *zerolog.Logger) (*DB, error) {
	var (
		conn        *sqlx.DB
		dialectName string
		path        string
		err         error
	)

	switch cfg.Driver {
	case config.DriverPostgres:
		conn, err = sqlx.Open("pgx", cfg.Postgres.DSN())
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		if cfg.Postgres.MaxConnections > 0 {
			conn.SetMaxOpenConns(cfg.Postgres.MaxConnections)
		}
		conn.SetConnMaxIdleTime(5 * time.Minute)
		dialectName = "postgres"
	case config.DriverSQLite, "":
		if cfg.Path != ":memory:" {
			path = cfg.Path
			if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
		busy := cfg.BusyTimeoutMS
		if busy <= 0 {
			busy = 5000
		}
		dsn := fmt.Sprintf("%s?_busy_timeout=%d&_foreign_keys=on", cfg.Path, busy)
		conn, err = sqlx.Open("sqlite3", dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		// One connection serializes writers and keeps :memory: databases alive.
		conn.SetMaxOpenConns(1)
		conn.SetConnMaxLifetime(0)
		dialectName = "sqlite3"
	default:
		return nil, fmt.Errorf("%w %q", errUnsupportedDriver, cfg.Driver)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	size := cfg.UserCacheSize
	if size <= 0 {
		size = defaultUserCacheSize
	}
	users, err := lru.New[int64, models.User](size)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create user cache: %w", err)
	}

	db := &DB{
		conn:    conn,
		q:       conn,
		dialect: goqu.Dialect(dialectName),
		driver:  dialectName,
		path:    path,
		users:   users,
		logger:  logger,
	}

	if err := db.migrate(context.Background()); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	logger.Info().Str("driver", dialectName).Msg("Database initialized")
	return db, nil
}

func (db *DB) migrate(ctx context.Context) error {
	schema := sqliteSchema
	if db.driver == "postgres" {
		schema = postgresSchema
	}
	for _, stmt := range schema {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("error executing query %s: %w", firstLine(stmt), err)
		}
	}
	return nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// InTx runs fn inside one transaction. It commits when fn returns nil and rolls back otherwise.
func (db *DB) InTx(ctx context.Context, fn func(tx domain.Tx) error) error {
	if db.inTx {
		return fn(db)
	}

	sqlTx, err := db.conn.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	var (
		dirty []int64
		read  []models.User
	)
	scoped := *db
	scoped.q = sqlTx
	scoped.inTx = true
	scoped.dirtyUsers = &dirty
	scoped.readUsers = &read

	defer func() {
		_ = sqlTx.Rollback()
		for _, id := range dirty {
			db.users.Remove(id)
		}
	}()

	if err := fn(&scoped); err != nil {
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	db.cacheCommitted(read, dirty)
	return nil
}

// cacheCommitted adds users read by a committed transaction, skipping any it also wrote.
func (db *DB) cacheCommitted(read []models.User, dirty []int64) {
	for _, user := range read {
		if !slices.Contains(dirty, user.ID) {
			db.users.Add(user.ID, user)
		}
	}
}

func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// CachedUsers reports how many users the lookup cache holds.
func (db *DB) CachedUsers() int {
	return db.users.Len()
}

// Path reports the SQLite file backing the store, empty for Postgres or in-memory databases.
func (db *DB) Path() string {
	return db.path
}

func (db *DB) Close() error {
	return db.conn.Close()
}

// toSQL renders a goqu dataset with bind parameters for the active dialect.
func toSQL(ds *goqu.SelectDataset) (string, []interface{}, error) {
	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return "", nil, fmt.Errorf("failed to build query: %w", err)
	}
	return query, args, nil
}

// dbTime normalizes times before binding so SQLite text comparisons stay ordered.
func dbTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}

func (db *DB) markUserDirty(id int64) {
	db.users.Remove(id)
	if db.dirtyUsers != nil {
		*db.dirtyUsers = append(*db.dirtyUsers, id)
	}
}
