package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/gofrs/flock"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// ErrLocked is returned by Lock when another process owns the database.
var ErrLocked = errors.New("database is in use by another lingoz process")

// Store holds the database handle and provides access to repositories.
type Store struct {
	db *sql.DB
}

// Open creates a new Store connected to the SQLite database at dsn.
// It applies recommended pragmas and creates missing tables.
func Open(dsn string) (*Store, error) {
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

	if err := migrate(context.Background(), db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &Store{db: db}, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// TaskRepo returns a TaskRepo backed by this store.
func (s *Store) TaskRepo() TaskRepo {
	return &taskRepo{db: s.db}
}

// MasteryRepo returns a MasteryRepo backed by this store.
func (s *Store) MasteryRepo() MasteryRepo {
	return &masteryRepo{db: s.db}
}

// RoundRepo returns a RoundRepo backed by this store.
func (s *Store) RoundRepo() RoundRepo {
	return &roundRepo{db: s.db}
}

// ResetCourse deletes the mastery and tasks of a course in one transaction.
// Round history is kept.
func (s *Store) ResetCourse(ctx context.Context, courseID string) error {
	return withTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := deleteCourseMastery(ctx, tx, courseID); err != nil {
			return err
		}
		return deleteCourseTasks(ctx, tx, courseID)
	})
}

// applyPragmas configures SQLite for single-user performance.
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

var schema = []string{
	`CREATE TABLE IF NOT EXISTS tasks (
		course_id    TEXT    NOT NULL,
		id           TEXT    NOT NULL,
		position     INTEGER NOT NULL,
		lesson_index INTEGER NOT NULL,
		title        TEXT    NOT NULL,
		details      TEXT    NOT NULL DEFAULT '',
		status       TEXT    NOT NULL,
		updated_at   INTEGER NOT NULL,
		PRIMARY KEY (course_id, id)
	)`,
	`CREATE TABLE IF NOT EXISTS task_pools (
		course_id TEXT    NOT NULL,
		task_id   TEXT    NOT NULL,
		position  INTEGER NOT NULL,
		native    TEXT    NOT NULL,
		script    TEXT    NOT NULL DEFAULT '',
		phonetic  TEXT    NOT NULL DEFAULT '',
		PRIMARY KEY (course_id, task_id, position),
		FOREIGN KEY (course_id, task_id) REFERENCES tasks (course_id, id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS mastery (
		course_id  TEXT    NOT NULL,
		lesson_id  TEXT    NOT NULL,
		item_index INTEGER NOT NULL,
		learned_at INTEGER NOT NULL,
		PRIMARY KEY (course_id, lesson_id, item_index)
	)`,
	`CREATE TABLE IF NOT EXISTS round_events (
		id          TEXT    PRIMARY KEY,
		course_id   TEXT    NOT NULL,
		lesson_id   TEXT    NOT NULL DEFAULT '',
		task_id     TEXT    NOT NULL DEFAULT '',
		pairs       INTEGER NOT NULL,
		attempts    INTEGER NOT NULL,
		started_at  INTEGER NOT NULL,
		finished_at INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS round_events_finished_at ON round_events (finished_at)`,
}

func migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// builder returns a SQL builder for the SQLite dialect.
func builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

type querySource interface {
	Query() (string, []any)
}

func execBuilt(ctx context.Context, q querier, b querySource) (sql.Result, error) {
	query, args := b.Query()
	return q.ExecContext(ctx, query, args...)
}

func queryBuilt(ctx context.Context, q querier, b querySource) (*sql.Rows, error) {
	query, args := b.Query()
	return q.QueryContext(ctx, query, args...)
}

func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Lock is an advisory lock held beside the database file so that only one
// process mutates learner state at a time.
type Lock struct {
	path string
	fl   *flock.Flock
}

// AcquireLock takes the lock for the database at dbPath. It returns
// ErrLocked when another process holds it.
func AcquireLock(dbPath string) (*Lock, error) {
	path := dbPath + ".lock"
	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, ErrLocked
	}
	return &Lock{path: path, fl: fl}, nil
}

// Path returns the lock file path.
func (l *Lock) Path() string {
	return l.path
}

// Release drops the lock.
func (l *Lock) Release() error {
	return l.fl.Unlock()
}

// DefaultDBPath resolves the database file path in priority order:
// 1. LINGOZ_DB environment variable
// 2. $XDG_DATA_HOME/lingoz/lingoz.db
// 3. ~/.local/share/lingoz/lingoz.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("LINGOZ_DB"); p != "" {
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

	p := filepath.Join(dataHome, "lingoz", "lingoz.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
