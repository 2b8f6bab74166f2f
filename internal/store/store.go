package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// timeLayout is how timestamps are written to TEXT columns.
const timeLayout = time.RFC3339Nano

// Store provides access to students, results and settings.
type Store struct {
	db  *sqlx.DB
	log *zap.Logger

	// newCode returns the random suffix of a student id.
	newCode func() string
	now     func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.log = l.Named("store") }
}

// WithClock overrides time.Now for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// withCodes overrides the student id suffix source.
func withCodes(next func() string) Option {
	return func(s *Store) { s.newCode = next }
}

// Open creates a new Store connected to the SQLite database at dsn.
// It applies recommended pragmas and runs pending migrations.
func Open(dsn string, opts ...Option) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// Pragmas are per connection.
	db.SetMaxOpenConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	if err := migrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return New(sqlx.NewDb(db, "sqlite"), opts...), nil
}

// New wraps an already migrated database.
func New(db *sqlx.DB, opts ...Option) *Store {
	s := &Store{
		db:      db,
		log:     zap.NewNop(),
		newCode: randomCode,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DB returns the underlying database handle for raw queries.
func (s *Store) DB() *sqlx.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// applyPragmas configures SQLite for optimal single-user performance.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. NUMERACY_DB environment variable
// 2. $XDG_DATA_HOME/numeracy/numeracy.db
// 3. ~/.local/share/numeracy/numeracy.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("NUMERACY_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "numeracy", "numeracy.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
