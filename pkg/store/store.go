package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	_ "github.com/mattn/go-sqlite3" // registers "sqlite3"
	_ "modernc.org/sqlite"          // registers "sqlite"
)

// Supported drivers.
const (
	DriverModernc = "sqlite"
	DriverCgo     = "sqlite3"
)

// Config configures the database connection.
type Config struct {
	// Driver is DriverModernc or DriverCgo. Default: DriverModernc
	Driver string

	// Path is the database file, or ":memory:".
	Path string

	// MaxOpenConns is the connection pool limit.
	// Default: 4
	MaxOpenConns int

	// WALMode enables write-ahead logging.
	WALMode bool

	// BusyTimeout is how long to wait for locks.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// Store is an open SQLite database.
type Store struct {
	db     *sql.DB
	config Config
	logger *slog.Logger
}

// Open opens the database described by cfg and applies connection pragmas.
func Open(cfg Config) (*Store, error) {
	if cfg.Driver == "" {
		cfg.Driver = DriverModernc
	}
	if cfg.Driver != DriverModernc && cfg.Driver != DriverCgo {
		return nil, fmt.Errorf("unsupported sqlite driver %q", cfg.Driver)
	}
	if cfg.Path == "" {
		return nil, fmt.Errorf("database path cannot be empty")
	}
	if cfg.MaxOpenConns <= 0 {
		cfg.MaxOpenConns = 4
	}
	if cfg.BusyTimeout <= 0 {
		cfg.BusyTimeout = 5 * time.Second
	}
	if cfg.Path == ":memory:" {
		// Every pooled connection would get its own empty database.
		cfg.MaxOpenConns = 1
		cfg.WALMode = false
	}

	logger := slog.Default().With("component", "store")

	db, err := sql.Open(cfg.Driver, cfg.Path)
	if err != nil {
		return nil, NewStorageError(cfg.Driver, "open", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxOpenConns)
	if cfg.Path == ":memory:" {
		db.SetConnMaxLifetime(0)
		db.SetConnMaxIdleTime(0)
	}

	s := &Store{db: db, config: cfg, logger: logger}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("database opened",
		"driver", cfg.Driver,
		"path", cfg.Path,
		"wal_mode", cfg.WALMode,
	)
	return s, nil
}

func (s *Store) initialize() error {
	if s.config.WALMode {
		if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			return NewStorageError(s.config.Driver, "enable_wal", err)
		}
	}
	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", s.config.BusyTimeout.Milliseconds())); err != nil {
		return NewStorageError(s.config.Driver, "set_busy_timeout", err)
	}
	return nil
}

// DB returns the underlying connection pool.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Driver returns the driver name in use.
func (s *Store) Driver() string {
	return s.config.Driver
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return NewStorageError(s.config.Driver, "ping", err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Columns returns the column names of table in declaration order.
func (s *Store) Columns(ctx context.Context, table string) ([]string, error) {
	if err := checkIdentifier("table", table); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, "SELECT name FROM pragma_table_info(?)", table)
	if err != nil {
		return nil, NewStorageError(s.config.Driver, "table_info", err)
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, NewStorageError(s.config.Driver, "table_info", err)
		}
		cols = append(cols, name)
	}
	if err := rows.Err(); err != nil {
		return nil, NewStorageError(s.config.Driver, "table_info", err)
	}
	if len(cols) == 0 {
		return nil, NewStorageError(s.config.Driver, "table_info", fmt.Errorf("table %q does not exist", table))
	}
	return cols, nil
}

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func checkIdentifier(kind, name string) error {
	if !identifierPattern.MatchString(name) {
		return &IdentifierError{Kind: kind, Name: name}
	}
	return nil
}

func quote(name string) string {
	return `"` + name + `"`
}
