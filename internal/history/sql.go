package history

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib" // postgres driver
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // SQLite driver (pure Go)
)

//go:embed migrations/*.sql
var migrations embed.FS

// goose keeps its base FS and dialect in package globals.
var gooseMu sync.Mutex

// Dialects understood by SQLStore.
const (
	DialectSQLite   = "sqlite"
	DialectPostgres = "postgres"
)

// SQLStore implements Store over database/sql.
type SQLStore struct {
	db      *sql.DB
	dialect string
}

// Open connects to dsn. postgres:// and postgresql:// URLs use pgx;
// anything else is a SQLite file path (":memory:" for an in-memory
// database).
func Open(dsn string) (*SQLStore, error) {
	if IsPostgresDSN(dsn) {
		db, err := sql.Open("pgx", dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres history: %w", err)
		}
		return open(db, DialectPostgres)
	}

	conn := dsn
	if dsn != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dsn), 0o750); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
		conn = dsn + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}
	db, err := sql.Open("sqlite", conn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite history: %w", err)
	}
	// one connection keeps :memory: a single database and avoids writer contention
	db.SetMaxOpenConns(1)
	return open(db, DialectSQLite)
}

func open(db *sql.DB, dialect string) (*SQLStore, error) {
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping history database: %w", err)
	}
	return &SQLStore{db: db, dialect: dialect}, nil
}

// NewWithDB wraps an existing connection.
func NewWithDB(db *sql.DB, dialect string) *SQLStore {
	return &SQLStore{db: db, dialect: dialect}
}

// IsPostgresDSN reports whether dsn is a postgres:// or postgresql:// URL.
func IsPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// Close closes the connection.
func (s *SQLStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Migrate runs all pending migrations.
func (s *SQLStore) Migrate(ctx context.Context) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect(s.dialect); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}
	if err := goose.UpContext(ctx, s.db, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// RecordRun stores run, assigning an ID when empty.
func (s *SQLStore) RecordRun(ctx context.Context, run Run) (Run, error) {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}
	if run.CompletedAt.IsZero() {
		run.CompletedAt = time.Now()
	}
	run.StartedAt = run.StartedAt.UTC()
	run.CompletedAt = run.CompletedAt.UTC()

	_, err := s.db.ExecContext(ctx, s.rebind(
		`INSERT INTO validation_runs
		(id, dataset_id, schema_version, input, status, error_count, warning_count, started_at, completed_at, report)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		run.ID, run.DatasetID, run.SchemaVersion, run.Input, run.Status,
		run.ErrorCount, run.WarningCount, run.StartedAt, run.CompletedAt, string(run.Report),
	)
	if err != nil {
		return Run{}, fmt.Errorf("failed to record run: %w", err)
	}
	return run, nil
}

const selectRuns = `SELECT id, dataset_id, schema_version, input, status, error_count, warning_count,
	started_at, completed_at, report FROM validation_runs`

// GetRun returns the run with id.
func (s *SQLStore) GetRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(selectRuns+` WHERE id = ?`), id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return Run{}, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}

// ListRuns returns the newest runs matching f.
func (s *SQLStore) ListRuns(ctx context.Context, f Filter) ([]Run, error) {
	var (
		where []string
		args  []any
	)
	if f.DatasetID != "" {
		where = append(where, "dataset_id = ?")
		args = append(args, f.DatasetID)
	}
	if f.Status != "" {
		where = append(where, "status = ?")
		args = append(args, f.Status)
	}
	limit := f.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	q := selectRuns
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY started_at DESC, id LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, s.rebind(q), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (Run, error) {
	var (
		run    Run
		report string
	)
	err := sc.Scan(&run.ID, &run.DatasetID, &run.SchemaVersion, &run.Input, &run.Status,
		&run.ErrorCount, &run.WarningCount, &run.StartedAt, &run.CompletedAt, &report)
	if err != nil {
		return Run{}, err
	}
	run.Report = []byte(report)
	return run, nil
}

// rebind rewrites ? placeholders to $n for postgres.
func (s *SQLStore) rebind(q string) string {
	if s.dialect != DialectPostgres {
		return q
	}
	var sb strings.Builder
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			sb.WriteString("$" + strconv.Itoa(n))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
